package querycache

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// DefaultRetryDelay is the pause between fetch attempts
const DefaultRetryDelay = 200 * time.Millisecond

type queryOptions struct {
	retries    int
	retryDelay time.Duration
	staleTime  *time.Duration
}

// QueryOption configures one Query call
type QueryOption func(*queryOptions)

// WithRetry retries a failed fetch n more times
func WithRetry(n int) QueryOption {
	return func(o *queryOptions) {
		if n > 0 {
			o.retries = n
		}
	}
}

// WithRetryDelay sets the pause between attempts
func WithRetryDelay(d time.Duration) QueryOption {
	return func(o *queryOptions) { o.retryDelay = d }
}

// WithStaleTime overrides the cache's default stale time for this query
func WithStaleTime(d time.Duration) QueryOption {
	return func(o *queryOptions) { o.staleTime = &d }
}

// Query returns the cached value for key while it is fresh, and otherwise
// fetches it. Concurrent callers for one key share a single fetch.
//
// The fetch runs detached from ctx so that one caller giving up does not
// fail the others; ctx only bounds how long this caller waits. Cancel(key)
// stops the fetch itself.
func Query[T any](ctx context.Context, c *Cache, key Key, fetch func(context.Context) (T, error), opts ...QueryOption) (T, error) {
	o := queryOptions{retryDelay: DefaultRetryDelay}
	for _, opt := range opts {
		opt(&o)
	}

	var zero T
	for {
		c.mu.Lock()
		staleTime := c.staleTime
		if o.staleTime != nil {
			staleTime = *o.staleTime
		}

		e := c.entryLocked(key)
		if c.freshLocked(e, staleTime) {
			cached := e.value
			c.mu.Unlock()
			v, ok := cached.(T)
			if !ok {
				return zero, fmt.Errorf("query %s: cached %T is not %T", key, cached, zero)
			}
			return v, nil
		}

		cl := e.inflight
		if cl == nil {
			cl = c.startLocked(ctx, key, e, func(ctx context.Context) (any, error) {
				return fetch(ctx)
			}, o)
		}
		c.mu.Unlock()

		select {
		case <-cl.done:
		case <-ctx.Done():
			return zero, ctx.Err()
		}

		// A superseded fetch stored nothing; whatever replaced it is
		// in the cache now, so look again.
		if cl.discarded {
			continue
		}
		if cl.err != nil {
			return zero, cl.err
		}
		v, ok := cl.value.(T)
		if !ok {
			return zero, fmt.Errorf("query %s: fetched %T is not %T", key, cl.value, zero)
		}
		return v, nil
	}
}

// Refetch drops freshness for key and queries it again
func Refetch[T any](ctx context.Context, c *Cache, key Key, fetch func(context.Context) (T, error), opts ...QueryOption) (T, error) {
	c.Invalidate(key)
	return Query(ctx, c, key, fetch, opts...)
}

func (c *Cache) startLocked(ctx context.Context, key Key, e *entry, fetch func(context.Context) (any, error), o queryOptions) *call {
	fetchCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	cl := &call{
		done:   make(chan struct{}),
		cancel: cancel,
		gen:    e.gen,
	}
	e.inflight = cl

	go func() {
		defer cancel()
		value, err := runWithRetry(fetchCtx, key, fetch, o)
		c.finish(key, cl, value, err)
	}()
	return cl
}

func runWithRetry(ctx context.Context, key Key, fetch func(context.Context) (any, error), o queryOptions) (any, error) {
	var lastErr error
	for attempt := 0; attempt <= o.retries; attempt++ {
		if attempt > 0 {
			slog.Debug("retrying query", "key", key, "attempt", attempt, "error", lastErr)
			select {
			case <-time.After(o.retryDelay):
			case <-ctx.Done():
				return nil, ErrCancelled
			}
		}
		value, err := fetch(ctx)
		if err == nil {
			return value, nil
		}
		if ctx.Err() != nil {
			return nil, ErrCancelled
		}
		lastErr = err
	}
	return nil, lastErr
}

func (c *Cache) finish(key Key, cl *call, value any, err error) {
	stored := false

	c.mu.Lock()
	cl.value, cl.err = value, err
	e, ok := c.entries[key]
	if ok && e.inflight == cl && e.gen == cl.gen {
		e.inflight = nil
		if err == nil {
			e.value = value
			e.has = true
			e.invalid = cl.staled
			e.updatedAt = c.now()
			stored = true
		}
	} else {
		cl.discarded = true
	}
	c.mu.Unlock()

	if err != nil && !cl.discarded {
		slog.Warn("query failed", "key", key, "error", err)
	}
	if stored {
		c.notify(key)
	}
	close(cl.done)
}
