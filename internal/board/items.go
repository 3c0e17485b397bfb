package board

import (
	"sort"

	"github.com/MahdiIsse/project-management-sub001/internal/models"
	"github.com/MahdiIsse/project-management-sub001/internal/querycache"
	"github.com/MahdiIsse/project-management-sub001/internal/types"
)

// Helpers over cached lists. Each returns a new slice and never writes
// into its argument, so snapshots taken earlier stay intact.

func committedItems[T any](values []T, id func(T) int) []Item[T] {
	out := make([]Item[T], len(values))
	for i, v := range values {
		out[i] = Item[T]{Ref: types.Committed(id(v)), Value: v}
	}
	return out
}

// Values unwraps a cached list
func Values[T any](items []Item[T]) []T {
	out := make([]T, len(items))
	for i, it := range items {
		out[i] = it.Value
	}
	return out
}

func appendItem[T any](list []Item[T], it Item[T]) []Item[T] {
	out := make([]Item[T], 0, len(list)+1)
	out = append(out, list...)
	return append(out, it)
}

// replaceRef swaps the item with ref for a committed one. If ref is not in
// the list the committed item is appended unless it is already there.
func replaceRef[T any](list []Item[T], ref types.Ref, id int, v T) []Item[T] {
	out := make([]Item[T], 0, len(list)+1)
	found := false
	for _, it := range list {
		switch {
		case it.Ref == ref:
			out = append(out, Item[T]{Ref: types.Committed(id), Value: v})
			found = true
		case it.Ref.Is(id):
			// A refetch already brought the record in
			if !found {
				out = append(out, Item[T]{Ref: it.Ref, Value: v})
				found = true
			}
		default:
			out = append(out, it)
		}
	}
	if !found {
		out = append(out, Item[T]{Ref: types.Committed(id), Value: v})
	}
	return out
}

func mapItem[T any](list []Item[T], id int, fn func(T) T) []Item[T] {
	out := make([]Item[T], len(list))
	for i, it := range list {
		if it.Ref.Is(id) {
			it.Value = fn(it.Value)
		}
		out[i] = it
	}
	return out
}

func removeItems[T any](list []Item[T], drop func(Item[T]) bool) []Item[T] {
	out := make([]Item[T], 0, len(list))
	for _, it := range list {
		if !drop(it) {
			out = append(out, it)
		}
	}
	return out
}

func findItem[T any](list []Item[T], id int) (T, bool) {
	for _, it := range list {
		if it.Ref.Is(id) {
			return it.Value, true
		}
	}
	var zero T
	return zero, false
}

// cachedTaskKeys lists every cached task list
func (c *Client) cachedTaskKeys() []querycache.Key {
	var keys []querycache.Key
	for k := range c.Cache.Scan(tasksPrefix) {
		keys = append(keys, k)
	}
	return keys
}

// mapCachedTasks rewrites every cached task with fn
func mapCachedTasks(qc *querycache.Cache, keys []querycache.Key, fn func(models.Task) models.Task) {
	for _, k := range keys {
		querycache.UpdateIfCached(qc, k, func(cur []Item[models.Task]) []Item[models.Task] {
			out := make([]Item[models.Task], len(cur))
			for i, it := range cur {
				it.Value = fn(it.Value)
				out[i] = it
			}
			return out
		})
	}
}

// sortTasks orders tasks by column, keeping columns in the order they first
// appear, then by position.
func sortTasks(list []Item[models.Task]) {
	rank := map[types.ColumnID]int{}
	for _, it := range list {
		if _, ok := rank[it.Value.ColumnID]; !ok {
			rank[it.Value.ColumnID] = len(rank)
		}
	}
	sort.SliceStable(list, func(i, j int) bool {
		a, b := list[i].Value, list[j].Value
		if a.ColumnID != b.ColumnID {
			return rank[a.ColumnID] < rank[b.ColumnID]
		}
		return a.Position < b.Position
	})
}
