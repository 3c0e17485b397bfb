package components

import (
	"charm.land/lipgloss/v2"

	"github.com/MahdiIsse/project-management-sub001/internal/models"
)

// RenderTagChip renders a tag in its palette colours
func RenderTagChip(tag models.Tag) string {
	c := models.ResolveTagColor(tag.Color)
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color(c.Text)).
		Background(lipgloss.Color(c.Background)).
		Padding(0, 1).
		Render(tag.Name)
}
