package board

import (
	"context"
	"log/slog"

	"github.com/MahdiIsse/project-management-sub001/internal/events"
	"github.com/MahdiIsse/project-management-sub001/internal/types"
)

// Watch invalidates the cached queries each change event touches, so the
// next read converges on what another client wrote. It returns when ctx is
// done or ch closes.
func (c *Client) Watch(ctx context.Context, ch <-chan events.Event) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-ch:
			if !ok {
				return
			}
			if ev.Type != events.EventDatabaseChanged {
				continue
			}
			c.Apply(ev)
		}
	}
}

// Apply invalidates the keys one event affects
func (c *Client) Apply(ev events.Event) {
	ws := types.WorkspaceID(ev.WorkspaceID)
	slog.Debug("invalidating after change", "workspace_id", ws, "entity", ev.Entity)

	if !ws.Valid() {
		switch ev.Entity {
		case events.EntityTag:
			c.Cache.Invalidate(TagsKey)
			c.Cache.InvalidatePrefix(tasksPrefix)
		case events.EntityAssignee:
			c.Cache.Invalidate(AssigneesKey)
			c.Cache.InvalidatePrefix(tasksPrefix)
		case events.EntityWorkspace:
			c.Cache.Invalidate(WorkspacesKey)
		default:
			c.Cache.InvalidatePrefix("")
		}
		return
	}

	switch ev.Entity {
	case events.EntityColumn:
		c.Cache.Invalidate(ColumnsKey(ws))
	case events.EntityTask:
		c.Cache.Invalidate(TasksKey(ws))
	default:
		c.Cache.Invalidate(WorkspacesKey, ColumnsKey(ws), TasksKey(ws))
	}
}
