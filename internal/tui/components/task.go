package components

import (
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/muesli/reflow/truncate"

	"github.com/MahdiIsse/project-management-sub001/internal/models"
	"github.com/MahdiIsse/project-management-sub001/internal/tui/theme"
)

// TaskCard is what a card needs to draw one task
type TaskCard struct {
	Task     models.Task
	Pending  bool // created optimistically, not yet stored
	Selected bool
}

// RenderTask renders a single task as a card
//
//	┏━━━━━━━━━━━━━━━━━━━━━┓
//	┃ {Task Title}        ┃
//	┃ priority │ due      ┃
//	┃ [tag1] [tag2]       ┃
//	┗━━━━━━━━━━━━━━━━━━━━━┛
func RenderTask(card TaskCard) string {
	bg := theme.TaskBg
	if card.Selected {
		bg = theme.SelectedBg
	}

	content := renderTaskTitle(card, bg) + "\n " + renderTaskMetadata(card.Task, bg) + "\n " + renderTaskTags(card.Task.Tags, bg)

	border := theme.ColumnBorder
	if card.Selected {
		border = theme.SelectedBorder
	}
	return TaskStyle.
		BorderForeground(lipgloss.Color(border)).
		BorderBackground(lipgloss.Color(bg)).
		Background(lipgloss.Color(bg)).
		Render(content)
}

func renderTaskTitle(card TaskCard, bg string) string {
	title := truncate.StringWithTail(card.Task.Title, taskTitleMaxLength, "…")
	style := lipgloss.NewStyle().Bold(true).Background(lipgloss.Color(bg))
	if card.Pending {
		style = style.Foreground(lipgloss.Color(theme.Pending)).Italic(true)
	}
	return style.Render(" " + title)
}

// renderTaskMetadata renders priority, due date and assignee count separated by │
func renderTaskMetadata(t models.Task, bg string) string {
	subtle := lipgloss.NewStyle().Foreground(lipgloss.Color(theme.Subtle)).Background(lipgloss.Color(bg))
	parts := []string{
		lipgloss.NewStyle().Foreground(lipgloss.Color(t.Priority.Color())).Background(lipgloss.Color(bg)).Render(t.Priority.String()),
	}
	if t.DueDate != nil {
		parts = append(parts, subtle.Render("due "+t.DueDate.Format("Jan 2")))
	}
	if n := len(t.Assignees); n > 0 {
		parts = append(parts, subtle.Render(initials(t.Assignees)))
	}
	return strings.Join(parts, subtle.Render(" │ "))
}

func initials(people []models.Assignee) string {
	var out []string
	for _, a := range people {
		fields := strings.Fields(a.Name)
		var s string
		for _, f := range fields {
			s += strings.ToUpper(string([]rune(f)[0]))
		}
		out = append(out, s)
	}
	return truncate.StringWithTail(strings.Join(out, " "), 14, "…")
}

func renderTaskTags(tags []models.Tag, bg string) string {
	if len(tags) == 0 {
		return lipgloss.NewStyle().
			Foreground(lipgloss.Color(theme.Subtle)).
			Background(lipgloss.Color(bg)).
			Italic(true).
			Render("no tags")
	}
	spacer := lipgloss.NewStyle().Background(lipgloss.Color(bg)).Render(" ")
	var chips []string
	width := 0
	for _, tag := range tags {
		chip := RenderTagChip(tag)
		width += lipgloss.Width(chip) + 1
		if width > taskTitleMaxLength {
			chips = append(chips, lipgloss.NewStyle().Foreground(lipgloss.Color(theme.Subtle)).Background(lipgloss.Color(bg)).Render("…"))
			break
		}
		chips = append(chips, chip)
	}
	return strings.Join(chips, spacer)
}
