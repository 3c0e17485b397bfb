package components

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/MahdiIsse/project-management-sub001/internal/board"
	"github.com/MahdiIsse/project-management-sub001/internal/models"
	"github.com/MahdiIsse/project-management-sub001/internal/tui/theme"
)

// ColumnProps is what RenderColumn needs to draw one column
type ColumnProps struct {
	Column  board.Item[models.Column]
	Tasks   []board.Item[models.Task]
	Focused bool
	// SelectedTask is the index of the selected task, -1 for none
	SelectedTask int
	// Height is the total height including borders, 0 for auto
	Height       int
	ScrollOffset int
}

// RenderColumn renders a column with its title and the tasks that fit
//
//	{Column Title} ({count})
//	▲ more above
//	{Task 1}
//	{Task 2}
//	▼ more below
func RenderColumn(p ColumnProps) string {
	col := p.Column.Value
	header := fmt.Sprintf("%s (%d)", col.Title, len(p.Tasks))
	titleStyle := TitleStyle
	if p.Column.Ref.IsPending() {
		titleStyle = titleStyle.Foreground(lipgloss.Color(theme.Pending)).Italic(true)
	}
	content := titleStyle.Render(header) + "\n"

	if len(p.Tasks) == 0 {
		content += SubtleStyle.Italic(true).Padding(1, 0).Render("No tasks")
	} else {
		maxVisible := VisibleTasks(p.Height)
		offset := min(p.ScrollOffset, max(len(p.Tasks)-1, 0))

		if offset > 0 {
			content += IndicatorStyle.Render("▲ more above") + "\n"
		} else {
			content += "\n"
		}

		end := min(offset+maxVisible, len(p.Tasks))
		for i, it := range p.Tasks[offset:end] {
			content += RenderTask(TaskCard{
				Task:     it.Value,
				Pending:  it.Ref.IsPending(),
				Selected: p.Focused && offset+i == p.SelectedTask,
			})
			content += "\n"
		}
		content = strings.TrimSuffix(content, "\n")

		// Pad so the bottom indicator sits on the last content line
		used := headerLines + topIndicatorLines + (end-offset)*TaskCardHeight
		more := end < len(p.Tasks)
		reserved := 0
		if more {
			reserved = bottomIndicatorLines
		}
		if remaining := p.Height - columnBorderOverhead - used - reserved; p.Height > 0 && remaining > 0 {
			content += strings.Repeat("\n", remaining)
		}
		if more {
			content += "\n" + IndicatorStyle.Render("▼ more below")
		}
	}

	style := ColumnStyle
	switch {
	case p.Focused:
		style = style.BorderForeground(lipgloss.Color(theme.SelectedBorder))
	case col.Color != "":
		style = style.BorderForeground(lipgloss.Color(col.Color))
	}
	if p.Height > 0 {
		// Height sets the content area, the borders come on top
		style = style.Height(p.Height - 2)
	}
	return style.Render(content)
}
