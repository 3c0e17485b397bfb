package tui

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/MahdiIsse/project-management-sub001/internal/tui/components"
	"github.com/MahdiIsse/project-management-sub001/internal/tui/layers"
	"github.com/MahdiIsse/project-management-sub001/internal/tui/notifications"
	"github.com/MahdiIsse/project-management-sub001/internal/tui/state"
	"github.com/MahdiIsse/project-management-sub001/internal/tui/theme"
)

// View renders the board with any popup layered on top
func (m *Model) View() tea.View {
	var v tea.View
	v.AltScreen = true

	if m.UIState.Width() == 0 {
		v.Content = "Loading..."
		return v
	}

	base := m.viewBoard()
	var popup *lipgloss.Layer
	switch m.UIState.Mode() {
	case state.AddTaskMode:
		popup = m.addTaskLayer()
	case state.DeleteConfirmMode:
		popup = m.deleteConfirmLayer()
	case state.TaskDetailMode:
		popup = m.taskDetailLayer()
	case state.HelpMode:
		popup = m.helpLayer()
	}

	if popup == nil {
		v.Content = base
		return v
	}
	v.Content = lipgloss.NewCanvas(lipgloss.NewLayer(base), popup).Render()
	return v
}

func (m *Model) inlineNotification() string {
	all := m.NotificationState.All()
	if len(all) == 0 {
		return ""
	}
	return notifications.RenderInlineFromState(all[0])
}

func (m *Model) viewBoard() string {
	width, height := m.UIState.Width(), m.UIState.Height()

	tabs := make([]string, 0, len(m.workspaces))
	for _, ws := range m.workspaces {
		tabs = append(tabs, ws.Value.Title)
	}
	if len(tabs) == 0 {
		tabs = []string{"No workspaces"}
	}
	tabBar := components.RenderTabs(tabs, m.UIState.SelectedWorkspace(), width, m.inlineNotification())

	footer := components.RenderStatusBar(components.StatusBarProps{
		Width:      width,
		Connection: m.Connection,
		Loading:    m.loading,
		Pending:    m.pending,
	})

	content := lipgloss.JoinVertical(lipgloss.Left, tabBar, m.viewColumns(), "")
	content = lipgloss.NewStyle().MaxHeight(max(height-1, 1)).Render(content)

	gap := max(height-lipgloss.Height(content)-1, 0)
	return content + strings.Repeat("\n", gap) + "\n" + footer
}

func (m *Model) viewColumns() string {
	switch {
	case m.loadErr != nil && len(m.columns) == 0:
		return components.SubtleStyle.Render(fmt.Sprintf("\nCould not load the board: %v\nPress %s to retry.",
			m.loadErr, m.keys.Refresh.Help().Key))
	case len(m.workspaces) == 0 && m.loading:
		return components.SubtleStyle.Render("\nLoading...")
	case len(m.workspaces) == 0:
		return components.SubtleStyle.Render("\nNo workspaces yet. Create one with `workboard workspace create`.")
	case len(m.columns) == 0 && m.loading:
		return components.SubtleStyle.Render("\nLoading...")
	case len(m.columns) == 0:
		return components.SubtleStyle.Render("\nThis workspace has no columns. Add one with `workboard column create`.")
	}

	offset := m.UIState.ViewportOffset()
	end := min(offset+m.UIState.ViewportSize(), len(m.columns))
	height := m.UIState.ContentHeight()

	rendered := make([]string, 0, end-offset)
	for i := offset; i < end; i++ {
		col := m.columns[i]
		focused := i == m.UIState.SelectedColumn()
		selected := -1
		if focused {
			selected = m.UIState.SelectedTask()
		}
		rendered = append(rendered, components.RenderColumn(components.ColumnProps{
			Column:       col,
			Tasks:        m.columnTasks(i),
			Focused:      focused,
			SelectedTask: selected,
			Height:       height,
			ScrollOffset: m.UIState.TaskScrollOffset(col.Value.ID.Int()),
		}))
	}

	left, right := " ", " "
	if offset > 0 {
		left = components.IndicatorStyle.Render("◀")
	}
	if end < len(m.columns) {
		right = components.IndicatorStyle.Render("▶")
	}
	row := lipgloss.JoinHorizontal(lipgloss.Top, rendered...)
	return lipgloss.JoinHorizontal(lipgloss.Top, left, " ", row, " ", right)
}

func (m *Model) addTaskLayer() *lipgloss.Layer {
	column := ""
	if col, ok := m.currentColumn(); ok {
		column = col.Value.Title
	}
	box := components.CreateInputBoxStyle.Width(50).Render(
		components.TitleStyle.Render("New task in "+column) + "\n\n" +
			m.input.View() + "\n\n" +
			components.SubtleStyle.Render("enter: create  esc: cancel"))
	return layers.CreateCenteredLayer(box, m.UIState.Width(), m.UIState.Height())
}

func (m *Model) deleteConfirmLayer() *lipgloss.Layer {
	it, ok := m.currentTask()
	if !ok {
		return nil
	}
	box := components.DeleteConfirmBoxStyle.Width(50).Render(
		fmt.Sprintf("Delete '%s'?\n\n[y]es  [n]o", it.Value.Title))
	return layers.CreateCenteredLayer(box, m.UIState.Width(), m.UIState.Height())
}

func (m *Model) taskDetailLayer() *lipgloss.Layer {
	it, ok := m.currentTask()
	if !ok {
		return nil
	}
	col, _ := m.currentColumn()
	w, h := layers.PopupSize(m.UIState.Width(), m.UIState.Height(), 50, 110, 14)
	content := components.RenderTaskView(components.TaskViewProps{
		Task:        it.Value,
		ColumnTitle: col.Value.Title,
		Pending:     it.Ref.IsPending(),
		Width:       w,
		Height:      h,
	})
	return layers.CreateCenteredLayer(content, m.UIState.Width(), m.UIState.Height())
}

func (m *Model) helpLayer() *lipgloss.Layer {
	keyStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(theme.Highlight))

	var groups []string
	for _, group := range m.keys.helpGroups() {
		var lines []string
		for _, b := range group {
			h := b.Help()
			lines = append(lines, fmt.Sprintf("%s %s", keyStyle.Render(fmt.Sprintf("%-6s", h.Key)), h.Desc))
		}
		groups = append(groups, strings.Join(lines, "\n"))
	}

	body := components.TitleStyle.Render("Keyboard shortcuts") + "\n\n" +
		lipgloss.JoinHorizontal(lipgloss.Top, spaced(groups, "   ")...) +
		"\n\n" + components.SubtleStyle.Render("press any key to close")
	return layers.CreateCenteredLayer(components.HelpBoxStyle.Render(body), m.UIState.Width(), m.UIState.Height())
}

// spaced interleaves sep between the parts
func spaced(parts []string, sep string) []string {
	out := make([]string, 0, len(parts)*2)
	for i, p := range parts {
		if i > 0 {
			out = append(out, sep)
		}
		out = append(out, p)
	}
	return out
}
