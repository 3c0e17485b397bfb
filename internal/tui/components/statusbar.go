package components

import (
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/MahdiIsse/project-management-sub001/internal/tui/state"
	"github.com/MahdiIsse/project-management-sub001/internal/tui/theme"
)

type StatusBarProps struct {
	Width      int
	Connection state.ConnectionStatus
	Loading    bool
	Pending    int // mutations still waiting for the backend
}

// RenderStatusBar renders "workboard" and the sync state on the left and
// the help hint on the right
func RenderStatusBar(p StatusBarProps) string {
	style := lipgloss.NewStyle().Foreground(lipgloss.Color(theme.Subtle))

	left := "workboard · " + p.Connection.String()
	switch {
	case p.Pending > 0:
		left += " · saving…"
	case p.Loading:
		left += " · loading…"
	}
	leftRendered := style.Render(left)
	rightRendered := style.Render("press ? for help")

	gap := max(p.Width-lipgloss.Width(leftRendered)-lipgloss.Width(rightRendered), 1)
	return lipgloss.JoinHorizontal(lipgloss.Top, leftRendered, strings.Repeat(" ", gap), rightRendered)
}
