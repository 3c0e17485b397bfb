package board

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/MahdiIsse/project-management-sub001/internal/models"
	"github.com/MahdiIsse/project-management-sub001/internal/querycache"
	"github.com/MahdiIsse/project-management-sub001/internal/types"
)

type taskItems = []Item[models.Task]

func taskID(t models.Task) int { return t.ID.Int() }

// Tasks returns every task of a workspace grouped by column, each column
// in position order.
func (c *Client) Tasks(ctx context.Context, workspaceID types.WorkspaceID) (taskItems, error) {
	return querycache.Query(ctx, c.Cache, TasksKey(workspaceID), func(ctx context.Context) (taskItems, error) {
		tasks, err := c.Backend.ListTasks(ctx, workspaceID)
		if err != nil {
			return nil, err
		}
		return committedItems(tasks, taskID), nil
	})
}

// ColumnTasks returns the tasks of one column from a workspace task list
func ColumnTasks(tasks taskItems, columnID types.ColumnID) taskItems {
	var out taskItems
	for _, it := range tasks {
		if it.Value.ColumnID == columnID {
			out = append(out, it)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Value.Position < out[j].Value.Position })
	return out
}

func (c *Client) CreateTask(ctx context.Context, in TaskInput) (*models.Task, error) {
	in.Title = strings.TrimSpace(in.Title)
	if !in.ColumnID.Valid() {
		return nil, ErrInvalidTarget
	}
	if err := checkTitle(in.Title, maxTaskTitleLength); err != nil {
		return nil, err
	}
	if in.Priority == "" {
		in.Priority = models.DefaultPriority
	}
	if !in.Priority.Valid() {
		return nil, fmt.Errorf("%w %q", models.ErrInvalidPriority, in.Priority)
	}
	if in.WorkspaceID == 0 {
		in.WorkspaceID, _ = c.columnWorkspace(in.ColumnID)
	}

	var keys []querycache.Key
	if in.WorkspaceID.Valid() {
		keys = append(keys, TasksKey(in.WorkspaceID))
	}
	ref := types.NewPending()
	pending := models.Task{
		WorkspaceID: in.WorkspaceID,
		ColumnID:    in.ColumnID,
		Title:       in.Title,
		Description: in.Description,
		DueDate:     in.DueDate,
		Priority:    in.Priority,
		Assignees:   c.cachedAssignees(in.AssigneeIDs),
		Tags:        c.cachedTags(in.TagIDs),
	}

	return querycache.Mutate(ctx, c.Cache, querycache.Mutation[*models.Task]{
		Keys: keys,
		Optimistic: func(qc *querycache.Cache) {
			for _, k := range keys {
				querycache.UpdateIfCached(qc, k, func(cur taskItems) taskItems {
					pos := len(ColumnTasks(cur, in.ColumnID))
					if in.Position == nil {
						in.Position = &pos
					}
					pending.Position = *in.Position
					return appendItem(cur, Item[models.Task]{Ref: ref, Value: pending})
				})
			}
		},
		Commit: func(ctx context.Context) (*models.Task, error) {
			return c.Backend.CreateTask(ctx, in)
		},
		OnSuccess: func(qc *querycache.Cache, t *models.Task) {
			querycache.UpdateIfCached(qc, TasksKey(t.WorkspaceID), func(cur taskItems) taskItems {
				return replaceRef(cur, ref, t.ID.Int(), *t)
			})
		},
	})
}

func (c *Client) UpdateTask(ctx context.Context, workspaceID types.WorkspaceID, id types.TaskID, patch TaskPatch) (*models.Task, error) {
	if err := optional(patch.Title, func(s string) error { return checkTitle(s, maxTaskTitleLength) }); err != nil {
		return nil, err
	}
	if patch.Priority != nil && !patch.Priority.Valid() {
		return nil, fmt.Errorf("%w %q", models.ErrInvalidPriority, *patch.Priority)
	}

	return c.mutateTask(ctx, workspaceID, id, func(t models.Task) models.Task {
		if patch.Title != nil {
			t.Title = strings.TrimSpace(*patch.Title)
		}
		if patch.Description != nil {
			t.Description = *patch.Description
		}
		if patch.ClearDueDate {
			t.DueDate = nil
		} else if patch.DueDate != nil {
			due := *patch.DueDate
			t.DueDate = &due
		}
		if patch.Priority != nil {
			t.Priority = *patch.Priority
		}
		if patch.ColumnID != nil {
			t.ColumnID = *patch.ColumnID
		}
		return t
	}, func(ctx context.Context) (*models.Task, error) {
		return c.Backend.UpdateTask(ctx, id, patch)
	})
}

// CyclePriority advances a task Low → Medium → High → Low
func (c *Client) CyclePriority(ctx context.Context, workspaceID types.WorkspaceID, id types.TaskID) (*models.Task, error) {
	t, ok := c.cachedTask(workspaceID, id)
	if !ok {
		fetched, err := c.Backend.GetTask(ctx, id)
		if err != nil {
			return nil, err
		}
		t = *fetched
	}
	next := models.Priorities[0]
	for i, p := range models.Priorities {
		if p == t.Priority {
			next = models.Priorities[(i+1)%len(models.Priorities)]
		}
	}
	return c.UpdateTask(ctx, t.WorkspaceID, id, TaskPatch{Priority: &next})
}

func (c *Client) DeleteTask(ctx context.Context, workspaceID types.WorkspaceID, id types.TaskID) error {
	if workspaceID == 0 {
		workspaceID, _ = c.taskWorkspace(id)
	}
	var keys []querycache.Key
	if workspaceID.Valid() {
		keys = append(keys, TasksKey(workspaceID))
	}
	_, err := querycache.Mutate(ctx, c.Cache, querycache.Mutation[struct{}]{
		Keys: keys,
		Optimistic: func(qc *querycache.Cache) {
			for _, k := range keys {
				querycache.UpdateIfCached(qc, k, func(cur taskItems) taskItems {
					return removeItems(cur, func(it Item[models.Task]) bool { return it.Ref.Is(id.Int()) })
				})
			}
		},
		Commit: func(ctx context.Context) (struct{}, error) {
			return struct{}{}, c.Backend.DeleteTask(ctx, id)
		},
	})
	return err
}

// AddAssignee attaches an assignee to a task. The assignee shown in the
// optimistic state comes from the cached assignee list, or from the backend
// when the list is not cached.
func (c *Client) AddAssignee(ctx context.Context, workspaceID types.WorkspaceID, id types.TaskID, assigneeID types.AssigneeID) (*models.Task, error) {
	a, err := c.lookupAssignee(ctx, assigneeID)
	if err != nil {
		return nil, err
	}
	return c.mutateTask(ctx, workspaceID, id, func(t models.Task) models.Task {
		if !t.HasAssignee(assigneeID) {
			t = t.Clone()
			t.Assignees = append(t.Assignees, *a)
		}
		return t
	}, func(ctx context.Context) (*models.Task, error) {
		return c.Backend.AddAssignee(ctx, id, assigneeID)
	})
}

func (c *Client) RemoveAssignee(ctx context.Context, workspaceID types.WorkspaceID, id types.TaskID, assigneeID types.AssigneeID) (*models.Task, error) {
	return c.mutateTask(ctx, workspaceID, id, func(t models.Task) models.Task {
		t = t.Clone()
		t.Assignees = removeFrom(t.Assignees, func(a models.Assignee) bool { return a.ID == assigneeID })
		return t
	}, func(ctx context.Context) (*models.Task, error) {
		return c.Backend.RemoveAssignee(ctx, id, assigneeID)
	})
}

func (c *Client) AddTag(ctx context.Context, workspaceID types.WorkspaceID, id types.TaskID, tagID types.TagID) (*models.Task, error) {
	g, err := c.lookupTag(ctx, tagID)
	if err != nil {
		return nil, err
	}
	return c.mutateTask(ctx, workspaceID, id, func(t models.Task) models.Task {
		if !t.HasTag(tagID) {
			t = t.Clone()
			t.Tags = append(t.Tags, *g)
		}
		return t
	}, func(ctx context.Context) (*models.Task, error) {
		return c.Backend.AddTag(ctx, id, tagID)
	})
}

func (c *Client) RemoveTag(ctx context.Context, workspaceID types.WorkspaceID, id types.TaskID, tagID types.TagID) (*models.Task, error) {
	return c.mutateTask(ctx, workspaceID, id, func(t models.Task) models.Task {
		t = t.Clone()
		t.Tags = removeFrom(t.Tags, func(g models.Tag) bool { return g.ID == tagID })
		return t
	}, func(ctx context.Context) (*models.Task, error) {
		return c.Backend.RemoveTag(ctx, id, tagID)
	})
}

// mutateTask runs an optimistic single-task change. patch must not modify
// slices of its argument in place.
func (c *Client) mutateTask(ctx context.Context, workspaceID types.WorkspaceID, id types.TaskID,
	patch func(models.Task) models.Task, commit func(context.Context) (*models.Task, error)) (*models.Task, error) {
	if workspaceID == 0 {
		workspaceID, _ = c.taskWorkspace(id)
	}
	var keys []querycache.Key
	if workspaceID.Valid() {
		keys = append(keys, TasksKey(workspaceID))
	}

	return querycache.Mutate(ctx, c.Cache, querycache.Mutation[*models.Task]{
		Keys: keys,
		Optimistic: func(qc *querycache.Cache) {
			for _, k := range keys {
				querycache.UpdateIfCached(qc, k, func(cur taskItems) taskItems {
					return mapItem(cur, id.Int(), patch)
				})
			}
		},
		Commit: commit,
		OnSuccess: func(qc *querycache.Cache, t *models.Task) {
			querycache.UpdateIfCached(qc, TasksKey(t.WorkspaceID), func(cur taskItems) taskItems {
				return mapItem(cur, id.Int(), func(models.Task) models.Task { return *t })
			})
		},
	})
}

func removeFrom[T any](in []T, drop func(T) bool) []T {
	out := make([]T, 0, len(in))
	for _, v := range in {
		if !drop(v) {
			out = append(out, v)
		}
	}
	return out
}

func (c *Client) cachedTask(workspaceID types.WorkspaceID, id types.TaskID) (models.Task, bool) {
	if workspaceID == 0 {
		workspaceID, _ = c.taskWorkspace(id)
	}
	tasks, ok := querycache.Get[taskItems](c.Cache, TasksKey(workspaceID))
	if !ok {
		return models.Task{}, false
	}
	return findItem(tasks, id.Int())
}

// taskWorkspace scans the cached task lists for the task's workspace
func (c *Client) taskWorkspace(id types.TaskID) (types.WorkspaceID, bool) {
	for _, v := range c.Cache.Scan(tasksPrefix) {
		tasks, ok := v.(taskItems)
		if !ok {
			continue
		}
		if t, found := findItem(tasks, id.Int()); found {
			return t.WorkspaceID, true
		}
	}
	return 0, false
}

func (c *Client) cachedAssignees(ids []types.AssigneeID) []models.Assignee {
	list, _ := querycache.Get[assigneeItems](c.Cache, AssigneesKey)
	var out []models.Assignee
	for _, id := range ids {
		if a, ok := findItem(list, id.Int()); ok {
			out = append(out, a)
		}
	}
	return out
}

func (c *Client) cachedTags(ids []types.TagID) []models.Tag {
	list, _ := querycache.Get[tagItems](c.Cache, TagsKey)
	var out []models.Tag
	for _, id := range ids {
		if g, ok := findItem(list, id.Int()); ok {
			out = append(out, g)
		}
	}
	return out
}

func (c *Client) lookupAssignee(ctx context.Context, id types.AssigneeID) (*models.Assignee, error) {
	if list, ok := querycache.Get[assigneeItems](c.Cache, AssigneesKey); ok {
		if a, found := findItem(list, id.Int()); found {
			return &a, nil
		}
	}
	return c.Backend.GetAssignee(ctx, id)
}

func (c *Client) lookupTag(ctx context.Context, id types.TagID) (*models.Tag, error) {
	if list, ok := querycache.Get[tagItems](c.Cache, TagsKey); ok {
		if g, found := findItem(list, id.Int()); found {
			return &g, nil
		}
	}
	return c.Backend.GetTag(ctx, id)
}
