package board

import (
	"context"

	"github.com/MahdiIsse/project-management-sub001/internal/models"
	"github.com/MahdiIsse/project-management-sub001/internal/querycache"
	"github.com/MahdiIsse/project-management-sub001/internal/types"
)

// MoveTask places a task at index toIndex of column toColumn (clamped to
// the column's length) and renumbers the affected columns. Every changed
// position is written in one batch. A zero workspaceID is resolved from the
// cached task lists, failing with ErrParentNotCached.
func (c *Client) MoveTask(ctx context.Context, workspaceID types.WorkspaceID, id types.TaskID, toColumn types.ColumnID, toIndex int) error {
	if workspaceID == 0 {
		ws, ok := c.taskWorkspace(id)
		if !ok {
			return ErrParentNotCached
		}
		workspaceID = ws
	}
	if !toColumn.Valid() {
		return ErrInvalidTarget
	}

	current, err := c.Tasks(ctx, workspaceID)
	if err != nil {
		return err
	}
	if _, _, err := planMove(current, id, toColumn, toIndex); err != nil {
		return err
	}

	key := TasksKey(workspaceID)
	var positions []models.TaskPosition
	_, err = querycache.Mutate(ctx, c.Cache, querycache.Mutation[struct{}]{
		Keys: []querycache.Key{key},
		Optimistic: func(qc *querycache.Cache) {
			patched := querycache.UpdateIfCached(qc, key, func(cur taskItems) taskItems {
				next, pos, err := planMove(cur, id, toColumn, toIndex)
				if err != nil {
					next, pos, _ = planMove(current, id, toColumn, toIndex)
				}
				positions = pos
				return next
			})
			if !patched {
				_, positions, _ = planMove(current, id, toColumn, toIndex)
			}
		},
		Commit: func(ctx context.Context) (struct{}, error) {
			return struct{}{}, c.Backend.UpdateTaskPositions(ctx, workspaceID, positions)
		},
	})
	return err
}

// MoveTaskBy moves a task delta places up (negative) or down within its
// column.
func (c *Client) MoveTaskBy(ctx context.Context, workspaceID types.WorkspaceID, id types.TaskID, delta int) error {
	t, col, err := c.locateTask(ctx, workspaceID, id)
	if err != nil {
		return err
	}
	idx := indexOf(col, id)
	to := idx + delta
	switch {
	case to < 0:
		return models.ErrAlreadyFirstTask
	case to >= len(col):
		return models.ErrAlreadyLastTask
	}
	return c.MoveTask(ctx, t.WorkspaceID, id, t.ColumnID, to)
}

// MoveTaskToNeighbour moves a task to the column dir places left (negative)
// or right, keeping its index where the target column allows.
func (c *Client) MoveTaskToNeighbour(ctx context.Context, workspaceID types.WorkspaceID, id types.TaskID, dir int) error {
	t, col, err := c.locateTask(ctx, workspaceID, id)
	if err != nil {
		return err
	}
	cols, err := c.Columns(ctx, t.WorkspaceID)
	if err != nil {
		return err
	}
	from := -1
	for i, it := range cols {
		if it.Ref.Is(t.ColumnID.Int()) {
			from = i
		}
	}
	to := from + dir
	switch {
	case from < 0:
		return ErrInvalidTarget
	case to < 0:
		return models.ErrAlreadyFirstColumn
	case to >= len(cols):
		return models.ErrAlreadyLastColumn
	}
	target := cols[to]
	if target.Ref.IsPending() {
		return ErrInvalidTarget
	}
	return c.MoveTask(ctx, t.WorkspaceID, id, target.Value.ID, indexOf(col, id))
}

func (c *Client) locateTask(ctx context.Context, workspaceID types.WorkspaceID, id types.TaskID) (models.Task, taskItems, error) {
	if workspaceID == 0 {
		ws, ok := c.taskWorkspace(id)
		if !ok {
			return models.Task{}, nil, ErrParentNotCached
		}
		workspaceID = ws
	}
	tasks, err := c.Tasks(ctx, workspaceID)
	if err != nil {
		return models.Task{}, nil, err
	}
	t, ok := findItem(tasks, id.Int())
	if !ok {
		return models.Task{}, nil, ErrInvalidTarget
	}
	return t, ColumnTasks(tasks, t.ColumnID), nil
}

func indexOf(col taskItems, id types.TaskID) int {
	for i, it := range col {
		if it.Ref.Is(id.Int()) {
			return i
		}
	}
	return -1
}

// planMove computes the task list after a move and the positions to write.
// Only committed tasks are sent; pending ones are renumbered locally.
func planMove(list taskItems, id types.TaskID, toColumn types.ColumnID, toIndex int) (taskItems, []models.TaskPosition, error) {
	moving, ok := findItem(list, id.Int())
	if !ok {
		return nil, nil, ErrInvalidTarget
	}
	from := moving.ColumnID

	without := removeItems(list, func(it Item[models.Task]) bool { return it.Ref.Is(id.Int()) })
	dest := ColumnTasks(without, toColumn)
	if toIndex < 0 {
		toIndex = 0
	}
	if toIndex > len(dest) {
		toIndex = len(dest)
	}

	moved := Item[models.Task]{Ref: types.Committed(id.Int()), Value: moving}
	moved.Value.ColumnID = toColumn
	dest = append(dest[:toIndex:toIndex], append(taskItems{moved}, dest[toIndex:]...)...)

	changed := map[types.Ref]models.Task{}
	var positions []models.TaskPosition
	renumber := func(col taskItems, colID types.ColumnID) {
		for i, it := range col {
			v := it.Value
			v.ColumnID = colID
			v.Position = i
			changed[it.Ref] = v
			if sid, ok := it.Ref.ServerID(); ok {
				positions = append(positions, models.TaskPosition{ID: types.TaskID(sid), ColumnID: colID, Position: i})
			}
		}
	}
	renumber(dest, toColumn)
	if from != toColumn {
		renumber(ColumnTasks(without, from), from)
	}

	out := make(taskItems, 0, len(list))
	for _, it := range list {
		if v, ok := changed[it.Ref]; ok {
			it.Value = v
		}
		out = append(out, it)
	}
	sortTasks(out)
	return out, positions, nil
}
