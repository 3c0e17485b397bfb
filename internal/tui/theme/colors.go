// Package theme holds the board colours, set once from the configuration
package theme

import "github.com/MahdiIsse/project-management-sub001/internal/config"

// Colors holds the current theme colors, initialized by Init
var (
	Highlight      string
	ColumnBorder   string
	SelectedBorder string
	Title          string
	Subtle         string
	Normal         string
	SelectedBg     = "#3A3A3A"
	TaskBg         = "#262626"
	Pending        = "#8A8A8A"
	InfoFg         = "#FFFFFF"
	InfoBg         = "#5F87D7"
	WarningFg      = "#000000"
	WarningBg      = "#FFD75F"
	ErrorFg        string
	ErrorBg        = "#5F0000"
)

func init() {
	Init(config.PresetTheme(""))
}

// Init initializes the theme colors from the configured theme
func Init(t config.Theme) {
	Highlight = t.Accent
	ColumnBorder = t.ColumnBorder
	SelectedBorder = t.SelectedBorder
	Title = t.Title
	Subtle = t.Subtle
	Normal = t.Normal
	ErrorFg = t.ErrorFg
}
