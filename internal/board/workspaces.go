package board

import (
	"context"
	"strings"

	"github.com/MahdiIsse/project-management-sub001/internal/models"
	"github.com/MahdiIsse/project-management-sub001/internal/querycache"
	"github.com/MahdiIsse/project-management-sub001/internal/types"
)

type workspaceItems = []Item[models.Workspace]

func workspaceID(w models.Workspace) int { return w.ID.Int() }

// Workspaces returns the owner's workspaces in position order. The fetch
// is retried as configured by WithWorkspaceRetry.
func (c *Client) Workspaces(ctx context.Context) (workspaceItems, error) {
	return querycache.Query(ctx, c.Cache, WorkspacesKey, func(ctx context.Context) (workspaceItems, error) {
		ws, err := c.Backend.ListWorkspaces(ctx)
		if err != nil {
			return nil, err
		}
		return committedItems(ws, workspaceID), nil
	}, querycache.WithRetry(c.workspaceRetry), querycache.WithRetryDelay(c.retryDelay))
}

func (c *Client) CreateWorkspace(ctx context.Context, in WorkspaceInput) (*models.Workspace, error) {
	in.Title = strings.TrimSpace(in.Title)
	if err := checkTitle(in.Title, maxNameLength); err != nil {
		return nil, err
	}
	if err := checkHex(in.Color); err != nil {
		return nil, err
	}

	ref := types.NewPending()
	return querycache.Mutate(ctx, c.Cache, querycache.Mutation[*models.Workspace]{
		Keys: []querycache.Key{WorkspacesKey},
		Optimistic: func(qc *querycache.Cache) {
			querycache.UpdateIfCached(qc, WorkspacesKey, func(cur workspaceItems) workspaceItems {
				pos := len(cur)
				if in.Position == nil {
					in.Position = &pos
				}
				return appendItem(cur, Item[models.Workspace]{Ref: ref, Value: models.Workspace{
					Title:       in.Title,
					Description: in.Description,
					Color:       in.Color,
					Position:    *in.Position,
				}})
			})
		},
		Commit: func(ctx context.Context) (*models.Workspace, error) {
			return c.Backend.CreateWorkspace(ctx, in)
		},
		OnSuccess: func(qc *querycache.Cache, w *models.Workspace) {
			querycache.UpdateIfCached(qc, WorkspacesKey, func(cur workspaceItems) workspaceItems {
				return replaceRef(cur, ref, w.ID.Int(), *w)
			})
		},
	})
}

func (c *Client) UpdateWorkspace(ctx context.Context, id types.WorkspaceID, patch WorkspacePatch) (*models.Workspace, error) {
	if err := optional(patch.Title, func(s string) error { return checkTitle(s, maxNameLength) }); err != nil {
		return nil, err
	}
	if err := optional(patch.Color, checkHex); err != nil {
		return nil, err
	}

	return querycache.Mutate(ctx, c.Cache, querycache.Mutation[*models.Workspace]{
		Keys: []querycache.Key{WorkspacesKey},
		Optimistic: func(qc *querycache.Cache) {
			querycache.UpdateIfCached(qc, WorkspacesKey, func(cur workspaceItems) workspaceItems {
				return mapItem(cur, id.Int(), func(w models.Workspace) models.Workspace {
					if patch.Title != nil {
						w.Title = strings.TrimSpace(*patch.Title)
					}
					if patch.Description != nil {
						w.Description = *patch.Description
					}
					if patch.Color != nil {
						w.Color = *patch.Color
					}
					return w
				})
			})
		},
		Commit: func(ctx context.Context) (*models.Workspace, error) {
			return c.Backend.UpdateWorkspace(ctx, id, patch)
		},
		OnSuccess: func(qc *querycache.Cache, w *models.Workspace) {
			querycache.UpdateIfCached(qc, WorkspacesKey, func(cur workspaceItems) workspaceItems {
				return mapItem(cur, id.Int(), func(models.Workspace) models.Workspace { return *w })
			})
		},
	})
}

// DeleteWorkspace removes the workspace and drops its cached columns and
// tasks.
func (c *Client) DeleteWorkspace(ctx context.Context, id types.WorkspaceID) error {
	keys := []querycache.Key{WorkspacesKey, ColumnsKey(id), TasksKey(id)}
	_, err := querycache.Mutate(ctx, c.Cache, querycache.Mutation[struct{}]{
		Keys: keys,
		Optimistic: func(qc *querycache.Cache) {
			querycache.UpdateIfCached(qc, WorkspacesKey, func(cur workspaceItems) workspaceItems {
				return removeItems(cur, func(it Item[models.Workspace]) bool { return it.Ref.Is(id.Int()) })
			})
			qc.Remove(ColumnsKey(id), TasksKey(id))
		},
		Commit: func(ctx context.Context) (struct{}, error) {
			return struct{}{}, c.Backend.DeleteWorkspace(ctx, id)
		},
	})
	return err
}

// ReorderWorkspaces gives the workspaces in ids positions 0..n-1 in that
// order and writes every position in one batch. Cached workspaces missing
// from ids keep their relative order after the listed ones.
func (c *Client) ReorderWorkspaces(ctx context.Context, ids []types.WorkspaceID) error {
	positions := make([]models.WorkspacePosition, len(ids))
	rank := make(map[int]int, len(ids))
	for i, id := range ids {
		if !id.Valid() {
			return ErrInvalidTarget
		}
		positions[i] = models.WorkspacePosition{ID: id, Position: i}
		rank[id.Int()] = i
	}

	_, err := querycache.Mutate(ctx, c.Cache, querycache.Mutation[struct{}]{
		Keys: []querycache.Key{WorkspacesKey},
		Optimistic: func(qc *querycache.Cache) {
			querycache.UpdateIfCached(qc, WorkspacesKey, func(cur workspaceItems) workspaceItems {
				return reorderItems(cur, rank, func(w models.Workspace, pos int) models.Workspace {
					w.Position = pos
					return w
				})
			})
		},
		Commit: func(ctx context.Context) (struct{}, error) {
			return struct{}{}, c.Backend.UpdateWorkspacePositions(ctx, positions)
		},
	})
	return err
}

// reorderItems puts ranked items first in rank order, then the rest in
// their current order, and renumbers positions from zero.
func reorderItems[T any](list []Item[T], rank map[int]int, setPos func(T, int) T) []Item[T] {
	ranked := make([]Item[T], len(rank))
	filled := make([]bool, len(rank))
	var rest []Item[T]
	for _, it := range list {
		id, ok := it.Ref.ServerID()
		if r, listed := rank[id]; ok && listed {
			ranked[r] = it
			filled[r] = true
			continue
		}
		rest = append(rest, it)
	}

	out := make([]Item[T], 0, len(list))
	for i, it := range ranked {
		if filled[i] {
			out = append(out, it)
		}
	}
	out = append(out, rest...)
	for i := range out {
		out[i].Value = setPos(out[i].Value, i)
	}
	return out
}
