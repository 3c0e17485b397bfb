package tui

import (
	"context"
	"errors"
	"fmt"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/MahdiIsse/project-management-sub001/internal/board"
	"github.com/MahdiIsse/project-management-sub001/internal/events"
	"github.com/MahdiIsse/project-management-sub001/internal/models"
	"github.com/MahdiIsse/project-management-sub001/internal/tui/state"
	"github.com/MahdiIsse/project-management-sub001/internal/types"
)

// Messages

// boardLoadedMsg ends a loadCmd. The data itself is read back from the cache.
type boardLoadedMsg struct{ err error }

// cacheChangedMsg means some cached query was written or invalidated
type cacheChangedMsg struct{}

type eventMsg struct{ event events.Event }

type eventsClosedMsg struct{}

type mutationDoneMsg struct {
	action string
	err    error
}

type tickMsg time.Time

// loadCmd fetches the workspace list and the selected workspace's board.
// Fresh cached queries return without a round trip.
func (m *Model) loadCmd() tea.Cmd {
	m.loading = true
	ctx, c, idx := m.ctx, m.client, m.UIState.SelectedWorkspace()
	return func() tea.Msg {
		ws, err := c.Workspaces(ctx)
		if err != nil {
			return boardLoadedMsg{err: err}
		}
		if len(ws) == 0 {
			return boardLoadedMsg{}
		}
		sid, ok := ws[min(idx, len(ws)-1)].Ref.ServerID()
		if !ok {
			return boardLoadedMsg{}
		}
		id := types.WorkspaceID(sid)
		if _, err := c.Columns(ctx, id); err != nil {
			return boardLoadedMsg{err: err}
		}
		if _, err := c.Tasks(ctx, id); err != nil {
			return boardLoadedMsg{err: err}
		}
		return boardLoadedMsg{}
	}
}

// waitForChange blocks until the cache changes
func (m *Model) waitForChange() tea.Cmd {
	ctx, ch := m.ctx, m.changes
	return func() tea.Msg {
		select {
		case <-ctx.Done():
			return nil
		case <-ch:
			return cacheChangedMsg{}
		}
	}
}

// waitForEvent blocks until the daemon sends a change event
func (m *Model) waitForEvent() tea.Cmd {
	if m.eventCh == nil {
		return nil
	}
	ctx, ch := m.ctx, m.eventCh
	return func() tea.Msg {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-ch:
			if !ok {
				return eventsClosedMsg{}
			}
			return eventMsg{event: ev}
		}
	}
}

func tick() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg { return tickMsg(t) })
}

// mutate runs fn against the client in the background. The selection
// follows focus while the mutation is in flight.
func (m *Model) mutate(action string, focus types.TaskID, fn func(ctx context.Context, c *board.Client) error) tea.Cmd {
	m.pending++
	m.loadErr = nil
	m.focusTask = focus
	ctx, c := m.ctx, m.client
	return func() tea.Msg {
		return mutationDoneMsg{action: action, err: fn(ctx, c)}
	}
}

// notifyError reports a failed action. Hitting the edge of the board is a
// warning, anything else an error.
func (m *Model) notifyError(action string, err error) {
	switch {
	case errors.Is(err, models.ErrAlreadyFirstTask), errors.Is(err, models.ErrAlreadyLastTask),
		errors.Is(err, models.ErrAlreadyFirstColumn), errors.Is(err, models.ErrAlreadyLastColumn):
		m.NotificationState.Add(state.LevelWarning, capitalize(err.Error()))
	default:
		m.NotificationState.Add(state.LevelError, fmt.Sprintf("Could not %s: %v", action, err))
	}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	if r[0] >= 'a' && r[0] <= 'z' {
		r[0] -= 'a' - 'A'
	}
	return string(r)
}
