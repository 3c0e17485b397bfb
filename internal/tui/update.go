package tui

import (
	"context"
	"log/slog"
	"strings"

	"charm.land/bubbles/v2/key"
	tea "charm.land/bubbletea/v2"

	"github.com/MahdiIsse/project-management-sub001/internal/board"
	"github.com/MahdiIsse/project-management-sub001/internal/models"
	"github.com/MahdiIsse/project-management-sub001/internal/tui/state"
	"github.com/MahdiIsse/project-management-sub001/internal/types"
)

// Init starts the first load and the listeners
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.loadCmd(), m.waitForChange(), m.waitForEvent(), tick())
}

// Update handles all messages and updates the model
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	select {
	case <-m.ctx.Done():
		return m, tea.Quit
	default:
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.UIState.SetSize(msg.Width, msg.Height)
		m.clampSelection()
		return m, nil

	case boardLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.loadErr = msg.err
			m.notifyError("load the board", msg.err)
		}
		if m.syncFromCache() && msg.err == nil {
			return m, m.loadCmd()
		}
		return m, nil

	case cacheChangedMsg:
		cmds := []tea.Cmd{m.waitForChange()}
		if m.syncFromCache() && !m.loading && m.loadErr == nil {
			cmds = append(cmds, m.loadCmd())
		}
		return m, tea.Batch(cmds...)

	case mutationDoneMsg:
		m.pending--
		if msg.err != nil {
			m.notifyError(msg.action, msg.err)
		}
		stale := m.syncFromCache()
		m.focusTask = 0
		if stale && !m.loading {
			return m, m.loadCmd()
		}
		return m, nil

	case eventMsg:
		slog.Debug("change event", "workspace_id", msg.event.WorkspaceID, "entity", msg.event.Entity)
		m.client.Apply(msg.event)
		return m, m.waitForEvent()

	case eventsClosedMsg:
		m.Connection = state.Disconnected
		m.eventCh = nil
		m.NotificationState.Add(state.LevelWarning, "Lost the daemon connection, live updates stopped")
		return m, nil

	case tickMsg:
		m.NotificationState.Expire()
		return m, tick()

	case tea.KeyPressMsg:
		return m, m.handleKey(msg)
	}

	if m.UIState.Mode() == state.AddTaskMode {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyPressMsg) tea.Cmd {
	switch m.UIState.Mode() {
	case state.AddTaskMode:
		return m.handleAddTask(msg)
	case state.DeleteConfirmMode:
		return m.handleDeleteConfirm(msg)
	case state.TaskDetailMode:
		return m.handleTaskDetail(msg)
	case state.HelpMode:
		m.UIState.SetMode(state.NormalMode)
		return nil
	default:
		return m.handleNormal(msg)
	}
}

func (m *Model) handleNormal(msg tea.KeyPressMsg) tea.Cmd {
	k := m.keys
	switch {
	case key.Matches(msg, k.Quit):
		return tea.Quit
	case key.Matches(msg, k.Help):
		m.UIState.SetMode(state.HelpMode)

	case key.Matches(msg, k.PrevColumn):
		m.selectColumn(m.UIState.SelectedColumn() - 1)
	case key.Matches(msg, k.NextColumn):
		m.selectColumn(m.UIState.SelectedColumn() + 1)
	case key.Matches(msg, k.PrevTask):
		m.UIState.SetSelectedTask(max(m.UIState.SelectedTask()-1, 0))
		m.clampSelection()
	case key.Matches(msg, k.NextTask):
		m.UIState.SetSelectedTask(m.UIState.SelectedTask() + 1)
		m.clampSelection()
	case key.Matches(msg, k.PrevWorkspace):
		return m.selectWorkspace(m.UIState.SelectedWorkspace() - 1)
	case key.Matches(msg, k.NextWorkspace):
		return m.selectWorkspace(m.UIState.SelectedWorkspace() + 1)

	case key.Matches(msg, k.Refresh):
		m.loadErr = nil
		m.client.Refresh()
		return m.loadCmd()

	case key.Matches(msg, k.AddTask):
		col, ok := m.currentColumn()
		if !ok || col.Ref.IsPending() || !m.currentWorkspaceID().Valid() {
			m.NotificationState.Add(state.LevelWarning, "Select a saved column first")
			return nil
		}
		m.input.Reset()
		m.UIState.SetMode(state.AddTaskMode)
		return m.input.Focus()
	case key.Matches(msg, k.DeleteTask):
		if _, ok := m.committedTask(); ok {
			m.UIState.SetMode(state.DeleteConfirmMode)
		}
	case key.Matches(msg, k.ViewTask):
		if _, ok := m.currentTask(); ok {
			m.UIState.SetMode(state.TaskDetailMode)
		}

	case key.Matches(msg, k.CyclePriority):
		return m.cyclePriority()
	case key.Matches(msg, k.MoveTaskUp):
		return m.moveTask("move the task", func(ctx context.Context, c *board.Client, ws types.WorkspaceID, id types.TaskID) error {
			return c.MoveTaskBy(ctx, ws, id, -1)
		})
	case key.Matches(msg, k.MoveTaskDown):
		return m.moveTask("move the task", func(ctx context.Context, c *board.Client, ws types.WorkspaceID, id types.TaskID) error {
			return c.MoveTaskBy(ctx, ws, id, 1)
		})
	case key.Matches(msg, k.MoveTaskLeft):
		return m.moveTask("move the task", func(ctx context.Context, c *board.Client, ws types.WorkspaceID, id types.TaskID) error {
			return c.MoveTaskToNeighbour(ctx, ws, id, -1)
		})
	case key.Matches(msg, k.MoveTaskRight):
		return m.moveTask("move the task", func(ctx context.Context, c *board.Client, ws types.WorkspaceID, id types.TaskID) error {
			return c.MoveTaskToNeighbour(ctx, ws, id, 1)
		})

	case key.Matches(msg, k.MoveColumnLeft):
		return m.moveColumn(-1)
	case key.Matches(msg, k.MoveColumnRight):
		return m.moveColumn(1)
	}
	return nil
}

func (m *Model) handleAddTask(msg tea.KeyPressMsg) tea.Cmd {
	switch msg.String() {
	case "esc":
		m.input.Blur()
		m.UIState.SetMode(state.NormalMode)
		return nil
	case "enter":
		title := strings.TrimSpace(m.input.Value())
		if title == "" {
			m.NotificationState.Add(state.LevelWarning, "A task needs a title")
			return nil
		}
		col, ok := m.currentColumn()
		ws := m.currentWorkspaceID()
		m.input.Blur()
		m.UIState.SetMode(state.NormalMode)
		if !ok {
			return nil
		}
		// Select the end of the column, where the new card lands
		m.UIState.SetSelectedTask(len(m.columnTasks(m.UIState.SelectedColumn())))
		return m.mutate("create the task", 0, func(ctx context.Context, c *board.Client) error {
			_, err := c.CreateTask(ctx, board.TaskInput{WorkspaceID: ws, ColumnID: col.Value.ID, Title: title})
			return err
		})
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return cmd
}

func (m *Model) handleDeleteConfirm(msg tea.KeyPressMsg) tea.Cmd {
	switch msg.String() {
	case "y", "Y":
		m.UIState.SetMode(state.NormalMode)
		t, ok := m.committedTask()
		if !ok {
			return nil
		}
		ws := m.currentWorkspaceID()
		return m.mutate("delete the task", 0, func(ctx context.Context, c *board.Client) error {
			return c.DeleteTask(ctx, ws, t.ID)
		})
	case "n", "N", "esc", "q":
		m.UIState.SetMode(state.NormalMode)
	}
	return nil
}

func (m *Model) handleTaskDetail(msg tea.KeyPressMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.CyclePriority):
		return m.cyclePriority()
	case msg.String() == "esc", key.Matches(msg, m.keys.ViewTask), key.Matches(msg, m.keys.Quit):
		m.UIState.SetMode(state.NormalMode)
	}
	return nil
}

// committedTask returns the selected task if the backend already has it
func (m *Model) committedTask() (models.Task, bool) {
	it, ok := m.currentTask()
	if !ok {
		return models.Task{}, false
	}
	if it.Ref.IsPending() {
		m.NotificationState.Add(state.LevelInfo, "That task is still saving")
		return models.Task{}, false
	}
	return it.Value, true
}

func (m *Model) cyclePriority() tea.Cmd {
	t, ok := m.committedTask()
	if !ok {
		return nil
	}
	ws := m.currentWorkspaceID()
	return m.mutate("change the priority", t.ID, func(ctx context.Context, c *board.Client) error {
		_, err := c.CyclePriority(ctx, ws, t.ID)
		return err
	})
}

func (m *Model) moveTask(action string, fn func(ctx context.Context, c *board.Client, ws types.WorkspaceID, id types.TaskID) error) tea.Cmd {
	t, ok := m.committedTask()
	if !ok {
		return nil
	}
	ws := m.currentWorkspaceID()
	return m.mutate(action, t.ID, func(ctx context.Context, c *board.Client) error {
		return fn(ctx, c, ws, t.ID)
	})
}

func (m *Model) moveColumn(delta int) tea.Cmd {
	col, ok := m.currentColumn()
	if !ok {
		return nil
	}
	if col.Ref.IsPending() {
		m.NotificationState.Add(state.LevelInfo, "That column is still saving")
		return nil
	}
	target := m.UIState.SelectedColumn() + delta
	if target < 0 || target >= len(m.columns) {
		if delta < 0 {
			m.notifyError("move the column", models.ErrAlreadyFirstColumn)
		} else {
			m.notifyError("move the column", models.ErrAlreadyLastColumn)
		}
		return nil
	}
	m.UIState.SetSelectedColumn(target)
	ws := m.currentWorkspaceID()
	return m.mutate("move the column", 0, func(ctx context.Context, c *board.Client) error {
		return c.MoveColumn(ctx, ws, col.Value.ID, delta)
	})
}

func (m *Model) selectColumn(i int) {
	if i < 0 || i >= len(m.columns) {
		return
	}
	m.UIState.SetSelectedColumn(i)
	m.UIState.SetSelectedTask(0)
	m.clampSelection()
}

func (m *Model) selectWorkspace(i int) tea.Cmd {
	if i < 0 || i >= len(m.workspaces) {
		return nil
	}
	m.UIState.SetSelectedWorkspace(i)
	id := m.currentWorkspaceID()
	if m.events != nil && id.Valid() {
		if err := m.events.Subscribe(id.Int()); err != nil {
			slog.Warn("failed to subscribe to workspace", "workspace_id", id, "error", err)
		}
	}
	m.loadErr = nil
	if m.syncFromCache() {
		return m.loadCmd()
	}
	return nil
}
