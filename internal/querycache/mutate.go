package querycache

import (
	"context"
	"log/slog"
)

// Mutation describes an optimistic write against the cache.
type Mutation[R any] struct {
	// Keys are the queries the write touches
	Keys []Key

	// Optimistic patches the cache with the predicted result. It runs
	// synchronously before Commit.
	Optimistic func(c *Cache)

	// Commit performs the write against the backend
	Commit func(ctx context.Context) (R, error)

	// OnSuccess reconciles the cache with the committed result, e.g.
	// replacing a pending item by the stored record.
	OnSuccess func(c *Cache, result R)

	// OnError runs after the snapshot has been restored
	OnError func(err error)
}

// Mutate runs m through the optimistic protocol:
//
//  1. cancel in-flight fetches of m.Keys
//  2. snapshot m.Keys
//  3. apply m.Optimistic
//  4. commit
//  5. on error restore the snapshot, on success apply m.OnSuccess
//  6. invalidate m.Keys whatever the outcome
//
// The cancel in step 1 keeps a fetch started before the patch from
// overwriting it with pre-write data.
func Mutate[R any](ctx context.Context, c *Cache, m Mutation[R]) (R, error) {
	c.Cancel(m.Keys...)
	snap := c.Snapshot(m.Keys...)

	if m.Optimistic != nil {
		m.Optimistic(c)
	}

	defer c.Invalidate(m.Keys...)

	result, err := m.Commit(ctx)
	if err != nil {
		c.Restore(snap)
		slog.Debug("mutation rolled back", "keys", m.Keys, "error", err)
		if m.OnError != nil {
			m.OnError(err)
		}
		var zero R
		return zero, err
	}

	if m.OnSuccess != nil {
		m.OnSuccess(c, result)
	}
	return result, nil
}
