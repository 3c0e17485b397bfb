package board

import (
	"context"
	"strings"

	"github.com/MahdiIsse/project-management-sub001/internal/models"
	"github.com/MahdiIsse/project-management-sub001/internal/querycache"
	"github.com/MahdiIsse/project-management-sub001/internal/types"
)

type tagItems = []Item[models.Tag]

func tagID(t models.Tag) int { return t.ID.Int() }

// Tags returns the owner's tags sorted by name
func (c *Client) Tags(ctx context.Context) (tagItems, error) {
	return querycache.Query(ctx, c.Cache, TagsKey, func(ctx context.Context) (tagItems, error) {
		tags, err := c.Backend.ListTags(ctx)
		if err != nil {
			return nil, err
		}
		return committedItems(tags, tagID), nil
	})
}

func (c *Client) CreateTag(ctx context.Context, in TagInput) (*models.Tag, error) {
	in.Name = strings.TrimSpace(in.Name)
	if err := checkTitle(in.Name, maxNameLength); err != nil {
		return nil, err
	}
	if err := checkTagColor(in.Color); err != nil {
		return nil, err
	}
	color := in.Color
	if color == "" {
		color = models.DefaultTagColor
	}

	ref := types.NewPending()
	return querycache.Mutate(ctx, c.Cache, querycache.Mutation[*models.Tag]{
		Keys: []querycache.Key{TagsKey},
		Optimistic: func(qc *querycache.Cache) {
			querycache.UpdateIfCached(qc, TagsKey, func(cur tagItems) tagItems {
				return appendItem(cur, Item[models.Tag]{Ref: ref, Value: models.Tag{Name: in.Name, Color: color}})
			})
		},
		Commit: func(ctx context.Context) (*models.Tag, error) {
			return c.Backend.CreateTag(ctx, in)
		},
		OnSuccess: func(qc *querycache.Cache, g *models.Tag) {
			querycache.UpdateIfCached(qc, TagsKey, func(cur tagItems) tagItems {
				return replaceRef(cur, ref, g.ID.Int(), *g)
			})
		},
	})
}

// UpdateTag also rewrites the tag on every cached task carrying it
func (c *Client) UpdateTag(ctx context.Context, id types.TagID, patch TagPatch) (*models.Tag, error) {
	if err := optional(patch.Name, func(s string) error { return checkTitle(s, maxNameLength) }); err != nil {
		return nil, err
	}
	if err := optional(patch.Color, checkTagColor); err != nil {
		return nil, err
	}

	apply := func(g models.Tag) models.Tag {
		if patch.Name != nil {
			g.Name = strings.TrimSpace(*patch.Name)
		}
		if patch.Color != nil {
			g.Color = *patch.Color
		}
		return g
	}
	taskKeys := c.cachedTaskKeys()
	return querycache.Mutate(ctx, c.Cache, querycache.Mutation[*models.Tag]{
		Keys: append([]querycache.Key{TagsKey}, taskKeys...),
		Optimistic: func(qc *querycache.Cache) {
			querycache.UpdateIfCached(qc, TagsKey, func(cur tagItems) tagItems {
				return mapItem(cur, id.Int(), apply)
			})
			mapCachedTasks(qc, taskKeys, func(t models.Task) models.Task {
				return withTags(t, id, apply)
			})
		},
		Commit: func(ctx context.Context) (*models.Tag, error) {
			return c.Backend.UpdateTag(ctx, id, patch)
		},
		OnSuccess: func(qc *querycache.Cache, g *models.Tag) {
			querycache.UpdateIfCached(qc, TagsKey, func(cur tagItems) tagItems {
				return mapItem(cur, id.Int(), func(models.Tag) models.Tag { return *g })
			})
		},
	})
}

// DeleteTag also detaches the tag from every cached task
func (c *Client) DeleteTag(ctx context.Context, id types.TagID) error {
	taskKeys := c.cachedTaskKeys()
	_, err := querycache.Mutate(ctx, c.Cache, querycache.Mutation[struct{}]{
		Keys: append([]querycache.Key{TagsKey}, taskKeys...),
		Optimistic: func(qc *querycache.Cache) {
			querycache.UpdateIfCached(qc, TagsKey, func(cur tagItems) tagItems {
				return removeItems(cur, func(it Item[models.Tag]) bool { return it.Ref.Is(id.Int()) })
			})
			mapCachedTasks(qc, taskKeys, func(t models.Task) models.Task {
				if !t.HasTag(id) {
					return t
				}
				t = t.Clone()
				t.Tags = removeFrom(t.Tags, func(g models.Tag) bool { return g.ID == id })
				return t
			})
		},
		Commit: func(ctx context.Context) (struct{}, error) {
			return struct{}{}, c.Backend.DeleteTag(ctx, id)
		},
	})
	return err
}

func withTags(t models.Task, id types.TagID, fn func(models.Tag) models.Tag) models.Task {
	if !t.HasTag(id) {
		return t
	}
	t = t.Clone()
	for i, g := range t.Tags {
		if g.ID == id {
			t.Tags[i] = fn(g)
		}
	}
	return t
}
