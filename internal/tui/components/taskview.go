package components

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/muesli/reflow/wordwrap"

	"github.com/MahdiIsse/project-management-sub001/internal/models"
	"github.com/MahdiIsse/project-management-sub001/internal/tui/theme"
)

type TaskViewProps struct {
	Task        models.Task
	ColumnTitle string
	Pending     bool
	Width       int
	Height      int
}

// RenderTaskView renders the task detail popup: description on the left,
// metadata on the right
func RenderTaskView(p TaskViewProps) string {
	task := p.Task
	contentWidth := max(p.Width-6, 20)
	rightWidth := min(max(contentWidth/4, 18), 30)
	leftWidth := contentWidth - rightWidth - 1

	heading := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(theme.Highlight))
	id := fmt.Sprintf("Task #%d", task.ID)
	if p.Pending {
		id = "Task (saving…)"
	}

	left := strings.Join([]string{
		heading.Render(id),
		"",
		heading.Render(wordwrap.String(task.Title, leftWidth)),
		"",
		RenderDescription(task.Description, leftWidth-2),
		"",
		SubtleStyle.Render("[p] priority  [Esc/Enter] close"),
	}, "\n")

	leftColumn := lipgloss.NewStyle().Width(leftWidth).Padding(0, 1).Render(left)
	rightColumn := lipgloss.NewStyle().
		Width(rightWidth).
		BorderStyle(lipgloss.NormalBorder()).
		BorderLeft(true).
		BorderForeground(lipgloss.Color(theme.Subtle)).
		PaddingLeft(1).
		Render(renderMetadata(task, p.ColumnTitle))

	return DetailBoxStyle.
		Width(p.Width).
		MaxHeight(p.Height).
		Render(lipgloss.JoinHorizontal(lipgloss.Top, leftColumn, rightColumn))
}

func renderMetadata(t models.Task, column string) string {
	label := lipgloss.NewStyle().Foreground(lipgloss.Color(theme.Subtle)).Bold(true)
	value := lipgloss.NewStyle().Foreground(lipgloss.Color(theme.Normal))

	var b strings.Builder
	field := func(name, v string) {
		b.WriteString(label.Render(name) + "\n" + v + "\n\n")
	}

	field("Column", value.Render(column))
	field("Priority", lipgloss.NewStyle().Foreground(lipgloss.Color(t.Priority.Color())).Render(t.Priority.String()))
	due := "none"
	if t.DueDate != nil {
		due = t.DueDate.Format("2006-01-02")
	}
	field("Due", value.Render(due))

	people := "nobody"
	if len(t.Assignees) > 0 {
		names := make([]string, len(t.Assignees))
		for i, a := range t.Assignees {
			names[i] = a.Name
		}
		people = strings.Join(names, "\n")
	}
	field("Assignees", value.Render(people))

	tags := SubtleStyle.Italic(true).Render("none")
	if len(t.Tags) > 0 {
		chips := make([]string, len(t.Tags))
		for i, tg := range t.Tags {
			chips[i] = RenderTagChip(tg)
		}
		tags = strings.Join(chips, "\n")
	}
	b.WriteString(label.Render("Tags") + "\n" + tags)
	return b.String()
}
