// Package tui is the interactive board. It reads everything through a
// board.Client and re-renders whenever the client's cache changes, so an
// optimistic edit shows at once and a rolled back one disappears again.
package tui

import (
	"context"
	"log/slog"

	"charm.land/bubbles/v2/textinput"

	"github.com/MahdiIsse/project-management-sub001/internal/board"
	"github.com/MahdiIsse/project-management-sub001/internal/config"
	"github.com/MahdiIsse/project-management-sub001/internal/events"
	"github.com/MahdiIsse/project-management-sub001/internal/models"
	"github.com/MahdiIsse/project-management-sub001/internal/querycache"
	"github.com/MahdiIsse/project-management-sub001/internal/tui/components"
	"github.com/MahdiIsse/project-management-sub001/internal/tui/state"
	"github.com/MahdiIsse/project-management-sub001/internal/types"
)

// Model represents the application state for the TUI
type Model struct {
	ctx    context.Context
	client *board.Client
	keys   keyMap

	events  events.EventPublisher
	eventCh <-chan events.Event

	UIState           *state.UIState
	NotificationState *state.NotificationState
	Connection        state.ConnectionStatus

	workspaces []board.Item[models.Workspace]
	columns    []board.Item[models.Column]
	tasks      []board.Item[models.Task]

	// changes receives a token whenever the client's cache changes
	changes chan struct{}

	loading bool
	loadErr error
	pending int

	// focusTask is the task the selection follows until its mutation ends
	focusTask types.TaskID

	input textinput.Model
}

// New builds the board model. pub may be nil when no daemon is reachable.
func New(ctx context.Context, client *board.Client, cfg *config.Config, pub events.EventPublisher) *Model {
	components.InitStyles(cfg.Theme)

	input := textinput.New()
	input.Placeholder = "Task title"
	input.CharLimit = 200

	m := &Model{
		ctx:               ctx,
		client:            client,
		keys:              newKeyMap(cfg.KeyMappings),
		events:            pub,
		UIState:           state.NewUIState(),
		NotificationState: state.NewNotificationState(),
		Connection:        state.Offline,
		changes:           make(chan struct{}, 1),
		input:             input,
	}

	client.Cache.OnChange(func(querycache.Key) {
		select {
		case m.changes <- struct{}{}:
		default:
		}
	})

	if pub != nil {
		ch, err := pub.Listen(ctx)
		if err != nil {
			slog.Warn("live updates unavailable", "error", err)
			m.Connection = state.Disconnected
		} else {
			m.eventCh = ch
			m.Connection = state.Connected
		}
	}
	return m
}

// currentWorkspace returns the selected workspace, ok is false when there
// is none
func (m *Model) currentWorkspace() (board.Item[models.Workspace], bool) {
	i := m.UIState.SelectedWorkspace()
	if i < 0 || i >= len(m.workspaces) {
		return board.Item[models.Workspace]{}, false
	}
	return m.workspaces[i], true
}

// currentWorkspaceID is 0 when nothing is selected or the workspace is
// still being created
func (m *Model) currentWorkspaceID() types.WorkspaceID {
	ws, ok := m.currentWorkspace()
	if !ok {
		return 0
	}
	id, _ := ws.Ref.ServerID()
	return types.WorkspaceID(id)
}

func (m *Model) columnTasks(i int) []board.Item[models.Task] {
	if i < 0 || i >= len(m.columns) {
		return nil
	}
	return board.ColumnTasks(m.tasks, m.columns[i].Value.ID)
}

// currentColumn returns the selected column
func (m *Model) currentColumn() (board.Item[models.Column], bool) {
	i := m.UIState.SelectedColumn()
	if i < 0 || i >= len(m.columns) {
		return board.Item[models.Column]{}, false
	}
	return m.columns[i], true
}

// currentTask returns the selected task
func (m *Model) currentTask() (board.Item[models.Task], bool) {
	tasks := m.columnTasks(m.UIState.SelectedColumn())
	i := m.UIState.SelectedTask()
	if i < 0 || i >= len(tasks) {
		return board.Item[models.Task]{}, false
	}
	return tasks[i], true
}

// syncFromCache copies the current workspace's lists out of the cache
// without touching the backend. It reports whether any of them needs a
// fetch.
func (m *Model) syncFromCache() bool {
	cache := m.client.Cache

	if ws, ok := querycache.Get[[]board.Item[models.Workspace]](cache, board.WorkspacesKey); ok {
		m.workspaces = ws
	}
	stale := cache.IsStale(board.WorkspacesKey)

	if len(m.workspaces) > 0 && m.UIState.SelectedWorkspace() >= len(m.workspaces) {
		m.UIState.SetSelectedWorkspace(len(m.workspaces) - 1)
	}

	m.columns, m.tasks = nil, nil
	if id := m.currentWorkspaceID(); id.Valid() {
		if cols, ok := querycache.Get[[]board.Item[models.Column]](cache, board.ColumnsKey(id)); ok {
			m.columns = cols
		}
		if tasks, ok := querycache.Get[[]board.Item[models.Task]](cache, board.TasksKey(id)); ok {
			m.tasks = tasks
		}
		stale = stale || cache.IsStale(board.ColumnsKey(id)) || cache.IsStale(board.TasksKey(id))
	}

	m.followFocus()
	m.clampSelection()
	return stale
}

// followFocus moves the selection onto focusTask wherever it now lives
func (m *Model) followFocus() {
	if !m.focusTask.Valid() {
		return
	}
	for ci := range m.columns {
		for ti, it := range m.columnTasks(ci) {
			if it.Value.ID == m.focusTask {
				m.UIState.SetSelectedColumn(ci)
				m.UIState.SetSelectedTask(ti)
				return
			}
		}
	}
}

func (m *Model) clampSelection() {
	m.UIState.ClampSelection(len(m.columns), func(i int) int { return len(m.columnTasks(i)) })
	if col, ok := m.currentColumn(); ok {
		visible := components.VisibleTasks(m.UIState.ContentHeight())
		m.UIState.EnsureTaskVisible(col.Value.ID.Int(), m.UIState.SelectedTask(), visible)
	}
}
