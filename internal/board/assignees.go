package board

import (
	"context"
	"strings"

	"github.com/MahdiIsse/project-management-sub001/internal/models"
	"github.com/MahdiIsse/project-management-sub001/internal/querycache"
	"github.com/MahdiIsse/project-management-sub001/internal/types"
)

type assigneeItems = []Item[models.Assignee]

func assigneeID(a models.Assignee) int { return a.ID.Int() }

// Assignees returns the owner's assignees sorted by name
func (c *Client) Assignees(ctx context.Context) (assigneeItems, error) {
	return querycache.Query(ctx, c.Cache, AssigneesKey, func(ctx context.Context) (assigneeItems, error) {
		people, err := c.Backend.ListAssignees(ctx)
		if err != nil {
			return nil, err
		}
		return committedItems(people, assigneeID), nil
	})
}

func (c *Client) CreateAssignee(ctx context.Context, in AssigneeInput) (*models.Assignee, error) {
	in.Name = strings.TrimSpace(in.Name)
	if err := checkTitle(in.Name, maxNameLength); err != nil {
		return nil, err
	}

	ref := types.NewPending()
	return querycache.Mutate(ctx, c.Cache, querycache.Mutation[*models.Assignee]{
		Keys: []querycache.Key{AssigneesKey},
		Optimistic: func(qc *querycache.Cache) {
			querycache.UpdateIfCached(qc, AssigneesKey, func(cur assigneeItems) assigneeItems {
				return appendItem(cur, Item[models.Assignee]{Ref: ref, Value: models.Assignee{Name: in.Name, AvatarURL: in.AvatarURL}})
			})
		},
		Commit: func(ctx context.Context) (*models.Assignee, error) {
			return c.Backend.CreateAssignee(ctx, in)
		},
		OnSuccess: func(qc *querycache.Cache, a *models.Assignee) {
			querycache.UpdateIfCached(qc, AssigneesKey, func(cur assigneeItems) assigneeItems {
				return replaceRef(cur, ref, a.ID.Int(), *a)
			})
		},
	})
}

// UpdateAssignee also rewrites the assignee on every cached task
func (c *Client) UpdateAssignee(ctx context.Context, id types.AssigneeID, patch AssigneePatch) (*models.Assignee, error) {
	if err := optional(patch.Name, func(s string) error { return checkTitle(s, maxNameLength) }); err != nil {
		return nil, err
	}

	apply := func(a models.Assignee) models.Assignee {
		if patch.Name != nil {
			a.Name = strings.TrimSpace(*patch.Name)
		}
		if patch.AvatarURL != nil {
			a.AvatarURL = *patch.AvatarURL
		}
		return a
	}
	taskKeys := c.cachedTaskKeys()
	return querycache.Mutate(ctx, c.Cache, querycache.Mutation[*models.Assignee]{
		Keys: append([]querycache.Key{AssigneesKey}, taskKeys...),
		Optimistic: func(qc *querycache.Cache) {
			querycache.UpdateIfCached(qc, AssigneesKey, func(cur assigneeItems) assigneeItems {
				return mapItem(cur, id.Int(), apply)
			})
			mapCachedTasks(qc, taskKeys, func(t models.Task) models.Task {
				if !t.HasAssignee(id) {
					return t
				}
				t = t.Clone()
				for i, a := range t.Assignees {
					if a.ID == id {
						t.Assignees[i] = apply(a)
					}
				}
				return t
			})
		},
		Commit: func(ctx context.Context) (*models.Assignee, error) {
			return c.Backend.UpdateAssignee(ctx, id, patch)
		},
		OnSuccess: func(qc *querycache.Cache, a *models.Assignee) {
			querycache.UpdateIfCached(qc, AssigneesKey, func(cur assigneeItems) assigneeItems {
				return mapItem(cur, id.Int(), func(models.Assignee) models.Assignee { return *a })
			})
		},
	})
}

// SetAvatar records an avatar already uploaded through the backend
func (c *Client) SetAvatar(a *models.Assignee) {
	querycache.UpdateIfCached(c.Cache, AssigneesKey, func(cur assigneeItems) assigneeItems {
		return mapItem(cur, a.ID.Int(), func(models.Assignee) models.Assignee { return *a })
	})
	c.Cache.Invalidate(append([]querycache.Key{AssigneesKey}, c.cachedTaskKeys()...)...)
}

// DeleteAssignee also unassigns them from every cached task
func (c *Client) DeleteAssignee(ctx context.Context, id types.AssigneeID) error {
	taskKeys := c.cachedTaskKeys()
	_, err := querycache.Mutate(ctx, c.Cache, querycache.Mutation[struct{}]{
		Keys: append([]querycache.Key{AssigneesKey}, taskKeys...),
		Optimistic: func(qc *querycache.Cache) {
			querycache.UpdateIfCached(qc, AssigneesKey, func(cur assigneeItems) assigneeItems {
				return removeItems(cur, func(it Item[models.Assignee]) bool { return it.Ref.Is(id.Int()) })
			})
			mapCachedTasks(qc, taskKeys, func(t models.Task) models.Task {
				if !t.HasAssignee(id) {
					return t
				}
				t = t.Clone()
				t.Assignees = removeFrom(t.Assignees, func(a models.Assignee) bool { return a.ID == id })
				return t
			})
		},
		Commit: func(ctx context.Context) (struct{}, error) {
			return struct{}{}, c.Backend.DeleteAssignee(ctx, id)
		},
	})
	return err
}
