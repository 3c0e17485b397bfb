package board

import (
	"context"
	"strings"

	"github.com/MahdiIsse/project-management-sub001/internal/models"
	"github.com/MahdiIsse/project-management-sub001/internal/querycache"
	"github.com/MahdiIsse/project-management-sub001/internal/types"
)

type columnItems = []Item[models.Column]

func columnID(c models.Column) int { return c.ID.Int() }

// Columns returns a workspace's columns in position order
func (c *Client) Columns(ctx context.Context, workspaceID types.WorkspaceID) (columnItems, error) {
	return querycache.Query(ctx, c.Cache, ColumnsKey(workspaceID), func(ctx context.Context) (columnItems, error) {
		cols, err := c.Backend.ListColumns(ctx, workspaceID)
		if err != nil {
			return nil, err
		}
		return committedItems(cols, columnID), nil
	})
}

func (c *Client) CreateColumn(ctx context.Context, in ColumnInput) (*models.Column, error) {
	in.Title = strings.TrimSpace(in.Title)
	if !in.WorkspaceID.Valid() {
		return nil, ErrInvalidTarget
	}
	if err := checkTitle(in.Title, maxNameLength); err != nil {
		return nil, err
	}
	if err := checkHex(in.Color); err != nil {
		return nil, err
	}

	key := ColumnsKey(in.WorkspaceID)
	ref := types.NewPending()
	return querycache.Mutate(ctx, c.Cache, querycache.Mutation[*models.Column]{
		Keys: []querycache.Key{key},
		Optimistic: func(qc *querycache.Cache) {
			querycache.UpdateIfCached(qc, key, func(cur columnItems) columnItems {
				pos := len(cur)
				if in.Position == nil {
					in.Position = &pos
				}
				return appendItem(cur, Item[models.Column]{Ref: ref, Value: models.Column{
					WorkspaceID: in.WorkspaceID,
					Title:       in.Title,
					Color:       in.Color,
					Position:    *in.Position,
				}})
			})
		},
		Commit: func(ctx context.Context) (*models.Column, error) {
			return c.Backend.CreateColumn(ctx, in)
		},
		OnSuccess: func(qc *querycache.Cache, col *models.Column) {
			querycache.UpdateIfCached(qc, key, func(cur columnItems) columnItems {
				return replaceRef(cur, ref, col.ID.Int(), *col)
			})
		},
	})
}

// UpdateColumn needs the workspace to find the cached list. A zero
// workspaceID is looked up among the cached column lists; when the column
// is not cached the update goes straight to the backend.
func (c *Client) UpdateColumn(ctx context.Context, workspaceID types.WorkspaceID, id types.ColumnID, patch ColumnPatch) (*models.Column, error) {
	if err := optional(patch.Title, func(s string) error { return checkTitle(s, maxNameLength) }); err != nil {
		return nil, err
	}
	if err := optional(patch.Color, checkHex); err != nil {
		return nil, err
	}
	if workspaceID == 0 {
		workspaceID, _ = c.columnWorkspace(id)
	}

	var keys []querycache.Key
	if workspaceID.Valid() {
		keys = append(keys, ColumnsKey(workspaceID))
	}
	return querycache.Mutate(ctx, c.Cache, querycache.Mutation[*models.Column]{
		Keys: keys,
		Optimistic: func(qc *querycache.Cache) {
			for _, k := range keys {
				querycache.UpdateIfCached(qc, k, func(cur columnItems) columnItems {
					return mapItem(cur, id.Int(), func(col models.Column) models.Column {
						if patch.Title != nil {
							col.Title = strings.TrimSpace(*patch.Title)
						}
						if patch.Color != nil {
							col.Color = *patch.Color
						}
						return col
					})
				})
			}
		},
		Commit: func(ctx context.Context) (*models.Column, error) {
			return c.Backend.UpdateColumn(ctx, id, patch)
		},
		OnSuccess: func(qc *querycache.Cache, col *models.Column) {
			querycache.UpdateIfCached(qc, ColumnsKey(col.WorkspaceID), func(cur columnItems) columnItems {
				return mapItem(cur, id.Int(), func(models.Column) models.Column { return *col })
			})
		},
	})
}

// DeleteColumn removes the column and, optimistically, the tasks in it
func (c *Client) DeleteColumn(ctx context.Context, workspaceID types.WorkspaceID, id types.ColumnID) error {
	if workspaceID == 0 {
		workspaceID, _ = c.columnWorkspace(id)
	}

	var keys []querycache.Key
	if workspaceID.Valid() {
		keys = append(keys, ColumnsKey(workspaceID), TasksKey(workspaceID))
	}
	_, err := querycache.Mutate(ctx, c.Cache, querycache.Mutation[struct{}]{
		Keys: keys,
		Optimistic: func(qc *querycache.Cache) {
			if !workspaceID.Valid() {
				return
			}
			querycache.UpdateIfCached(qc, ColumnsKey(workspaceID), func(cur columnItems) columnItems {
				return removeItems(cur, func(it Item[models.Column]) bool { return it.Ref.Is(id.Int()) })
			})
			querycache.UpdateIfCached(qc, TasksKey(workspaceID), func(cur taskItems) taskItems {
				return removeItems(cur, func(it Item[models.Task]) bool { return it.Value.ColumnID == id })
			})
		},
		Commit: func(ctx context.Context) (struct{}, error) {
			return struct{}{}, c.Backend.DeleteColumn(ctx, id)
		},
	})
	return err
}

// ReorderColumns gives the columns in ids positions 0..n-1 and writes them
// in one batch. A zero workspaceID is resolved from the cached column
// lists, failing with ErrParentNotCached when none holds ids[0].
func (c *Client) ReorderColumns(ctx context.Context, workspaceID types.WorkspaceID, ids []types.ColumnID) error {
	if len(ids) == 0 {
		return nil
	}
	if workspaceID == 0 {
		ws, ok := c.columnWorkspace(ids[0])
		if !ok {
			return ErrParentNotCached
		}
		workspaceID = ws
	}

	positions := make([]models.ColumnPosition, len(ids))
	rank := make(map[int]int, len(ids))
	for i, id := range ids {
		if !id.Valid() {
			return ErrInvalidTarget
		}
		positions[i] = models.ColumnPosition{ID: id, Position: i}
		rank[id.Int()] = i
	}

	key := ColumnsKey(workspaceID)
	_, err := querycache.Mutate(ctx, c.Cache, querycache.Mutation[struct{}]{
		Keys: []querycache.Key{key, TasksKey(workspaceID)},
		Optimistic: func(qc *querycache.Cache) {
			querycache.UpdateIfCached(qc, key, func(cur columnItems) columnItems {
				return reorderItems(cur, rank, func(col models.Column, pos int) models.Column {
					col.Position = pos
					return col
				})
			})
		},
		Commit: func(ctx context.Context) (struct{}, error) {
			return struct{}{}, c.Backend.UpdateColumnPositions(ctx, workspaceID, positions)
		},
	})
	return err
}

// MoveColumn shifts a column by delta places within its workspace
func (c *Client) MoveColumn(ctx context.Context, workspaceID types.WorkspaceID, id types.ColumnID, delta int) error {
	cols, err := c.Columns(ctx, workspaceID)
	if err != nil {
		return err
	}
	from := -1
	ids := make([]types.ColumnID, 0, len(cols))
	for _, it := range cols {
		if it.Ref.IsPending() {
			continue
		}
		if it.Ref.Is(id.Int()) {
			from = len(ids)
		}
		ids = append(ids, it.Value.ID)
	}
	if from < 0 {
		return ErrInvalidTarget
	}
	to := from + delta
	switch {
	case to < 0:
		return models.ErrAlreadyFirstColumn
	case to >= len(ids):
		return models.ErrAlreadyLastColumn
	}
	ids[from], ids[to] = ids[to], ids[from]
	return c.ReorderColumns(ctx, workspaceID, ids)
}

// columnWorkspace scans the cached column lists for the column's workspace
func (c *Client) columnWorkspace(id types.ColumnID) (types.WorkspaceID, bool) {
	for _, v := range c.Cache.Scan(columnsPrefix) {
		cols, ok := v.(columnItems)
		if !ok {
			continue
		}
		if col, found := findItem(cols, id.Int()); found {
			return col.WorkspaceID, true
		}
	}
	return 0, false
}
