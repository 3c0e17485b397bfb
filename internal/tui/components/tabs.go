package components

import (
	"strings"

	"charm.land/lipgloss/v2"
)

// RenderTabs renders the workspace tab bar. The notification, if any, is
// right aligned on the gap line.
//
//	╭──────╮╭──────╮                      [Notification]
//	│ Tab1 ││ Tab2 │──────────────────────
func RenderTabs(tabs []string, selectedIdx int, width int, notification string) string {
	rendered := make([]string, 0, len(tabs))
	for i, name := range tabs {
		if i == selectedIdx {
			rendered = append(rendered, ActiveTabStyle.Render(name))
		} else {
			rendered = append(rendered, TabStyle.Render(name))
		}
	}
	row := lipgloss.JoinHorizontal(lipgloss.Top, rendered...)

	gapWidth := max(width-lipgloss.Width(row)-lipgloss.Width(notification)-2, 0)
	gap := TabGapStyle.Render(strings.Repeat(" ", gapWidth))

	if notification != "" {
		return lipgloss.JoinHorizontal(lipgloss.Bottom, row, gap, notification)
	}
	return lipgloss.JoinHorizontal(lipgloss.Bottom, row, gap)
}
