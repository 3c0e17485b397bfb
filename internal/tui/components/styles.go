// Package components renders the pieces of the board. Call InitStyles
// before use.
package components

import (
	"charm.land/lipgloss/v2"

	"github.com/MahdiIsse/project-management-sub001/internal/config"
	"github.com/MahdiIsse/project-management-sub001/internal/tui/theme"
)

// These are cached to avoid recomputing on every redraw.
var (
	activeTabBorder = lipgloss.Border{
		Top:         "─",
		Bottom:      " ",
		Left:        "│",
		Right:       "│",
		TopLeft:     "╭",
		TopRight:    "╮",
		BottomLeft:  "┘",
		BottomRight: "└",
	}

	tabBorder = lipgloss.Border{
		Top:         "─",
		Bottom:      "─",
		Left:        "│",
		Right:       "│",
		TopLeft:     "╭",
		TopRight:    "╮",
		BottomLeft:  "┴",
		BottomRight: "┴",
	}

	TabStyle       lipgloss.Style
	ActiveTabStyle lipgloss.Style
	TabGapStyle    lipgloss.Style

	// ColumnStyle is a board column; the selected one gets SelectedBorder
	ColumnStyle lipgloss.Style

	// TaskStyle is a task card
	TaskStyle lipgloss.Style

	TitleStyle lipgloss.Style

	// Popup boxes
	CreateInputBoxStyle   lipgloss.Style
	DeleteConfirmBoxStyle lipgloss.Style
	HelpBoxStyle          lipgloss.Style
	DetailBoxStyle        lipgloss.Style

	IndicatorStyle lipgloss.Style
	SubtleStyle    lipgloss.Style
)

func init() {
	InitStyles(config.PresetTheme(""))
}

// InitStyles initializes all styles with the given theme
func InitStyles(t config.Theme) {
	theme.Init(t)

	TabStyle = lipgloss.NewStyle().
		Border(tabBorder, true).
		BorderForeground(lipgloss.Color(theme.Highlight)).
		Padding(0, 1)
	ActiveTabStyle = TabStyle.Border(activeTabBorder, true)
	TabGapStyle = TabStyle.
		BorderTop(false).
		BorderLeft(false).
		BorderRight(false)

	ColumnStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(theme.ColumnBorder)).
		PaddingLeft(1).
		PaddingRight(1).
		Width(40)

	TaskStyle = lipgloss.NewStyle().
		BorderStyle(lipgloss.ThickBorder()).
		Padding(0).
		Width(36)

	TitleStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(theme.Title))

	box := lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(1, 2)
	CreateInputBoxStyle = box.BorderForeground(lipgloss.Color("#5FD787"))
	DeleteConfirmBoxStyle = box.BorderForeground(lipgloss.Color(theme.ErrorFg))
	HelpBoxStyle = box.BorderForeground(lipgloss.Color(theme.ColumnBorder))
	DetailBoxStyle = box.BorderForeground(lipgloss.Color(theme.Highlight))

	IndicatorStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color(theme.Subtle)).
		Align(lipgloss.Center)
	SubtleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(theme.Subtle))
}
