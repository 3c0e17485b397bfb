// Package notifications renders the transient messages shown in the tab bar
package notifications

import (
	"charm.land/lipgloss/v2"
	"github.com/muesli/reflow/truncate"

	"github.com/MahdiIsse/project-management-sub001/internal/tui/state"
)

// maxInlineWidth keeps a long error from pushing the tabs off screen
const maxInlineWidth = 60

// RenderInline renders a compact one-line notification
func RenderInline(severity Severity, message string) string {
	s := severity.style()
	content := truncate.StringWithTail(s.icon+" "+message, maxInlineWidth, "…")

	return lipgloss.NewStyle().
		Foreground(lipgloss.Color(s.foreground)).
		Background(lipgloss.Color(s.background)).
		Padding(0, 1).
		Render(content)
}

// RenderInlineFromState renders a compact inline notification from state
func RenderInlineFromState(n state.Notification) string {
	switch n.Level {
	case state.LevelWarning:
		return RenderInline(Warning, n.Message)
	case state.LevelError:
		return RenderInline(Error, n.Message)
	default:
		return RenderInline(Info, n.Message)
	}
}
