// Package querycache is a client-side query cache with optimistic
// mutations. A Cache is an explicit object owned by whoever builds it;
// there is no package-level instance.
//
// Cached values are treated as immutable. Code that changes a cached list
// builds a new slice and stores it with Set or Update.
package querycache

import (
	"context"
	"errors"
	"iter"
	"log/slog"
	"sort"
	"sync"
	"time"
)

// ErrCancelled is returned by a fetch that Cancel stopped
var ErrCancelled = errors.New("query cancelled")

// Cache holds query results by key
type Cache struct {
	mu        sync.Mutex
	entries   map[Key]*entry
	staleTime time.Duration
	now       func() time.Time
	listeners []func(Key)
}

type entry struct {
	value     any
	has       bool
	updatedAt time.Time
	invalid   bool

	// gen advances on every write that supersedes an in-flight fetch.
	// A fetch only stores its result while gen still equals call.gen.
	gen      uint64
	inflight *call
}

type call struct {
	done   chan struct{}
	cancel context.CancelFunc
	gen    uint64
	value  any
	err    error

	discarded bool // superseded before it finished; result was not stored
	staled    bool // invalidated while running; stored result stays stale
}

// Option configures a Cache
type Option func(*Cache)

// WithDefaultStaleTime sets how long a fetched value stays fresh. Zero
// keeps values fresh until invalidated.
func WithDefaultStaleTime(d time.Duration) Option {
	return func(c *Cache) { c.staleTime = d }
}

// WithClock replaces time.Now, for tests
func WithClock(now func() time.Time) Option {
	return func(c *Cache) { c.now = now }
}

// New creates an empty cache
func New(opts ...Option) *Cache {
	c := &Cache{
		entries: make(map[Key]*entry),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// OnChange registers fn to run after a key's value or staleness changes.
// fn runs without the cache lock held and must not block.
func (c *Cache) OnChange(fn func(Key)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.listeners = append(c.listeners, fn)
}

func (c *Cache) notify(keys ...Key) {
	c.mu.Lock()
	listeners := append([]func(Key){}, c.listeners...)
	c.mu.Unlock()
	for _, k := range keys {
		for _, fn := range listeners {
			fn(k)
		}
	}
}

func (c *Cache) entryLocked(key Key) *entry {
	e, ok := c.entries[key]
	if !ok {
		e = &entry{}
		c.entries[key] = e
	}
	return e
}

// supersedeLocked stops the in-flight fetch of e, if any, so its result
// can never be stored.
func (e *entry) supersedeLocked() {
	e.gen++
	if e.inflight != nil {
		e.inflight.discarded = true
		e.inflight.cancel()
		e.inflight = nil
	}
}

func (c *Cache) freshLocked(e *entry, staleTime time.Duration) bool {
	if !e.has || e.invalid {
		return false
	}
	return staleTime <= 0 || c.now().Sub(e.updatedAt) < staleTime
}

// Get returns the cached value for key. ok is false when nothing is cached
// or the value is not a T.
func Get[T any](c *Cache, key Key) (T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var zero T
	e, found := c.entries[key]
	if !found || !e.has {
		return zero, false
	}
	v, ok := e.value.(T)
	if !ok {
		return zero, false
	}
	return v, true
}

// Set stores value under key as fresh data, superseding any in-flight fetch
func (c *Cache) Set(key Key, value any) {
	c.mu.Lock()
	c.setLocked(key, value)
	c.mu.Unlock()
	c.notify(key)
}

func (c *Cache) setLocked(key Key, value any) {
	e := c.entryLocked(key)
	e.supersedeLocked()
	e.value = value
	e.has = true
	e.invalid = false
	e.updatedAt = c.now()
}

// Update replaces the value under key with fn(current). cached is false
// when nothing (or no T) was cached; fn still decides what to store.
func Update[T any](c *Cache, key Key, fn func(current T, cached bool) T) {
	c.mu.Lock()
	var cur T
	cached := false
	if e, ok := c.entries[key]; ok && e.has {
		cur, cached = e.value.(T)
	}
	c.setLocked(key, fn(cur, cached))
	c.mu.Unlock()
	c.notify(key)
}

// UpdateIfCached is Update that leaves absent keys absent
func UpdateIfCached[T any](c *Cache, key Key, fn func(current T) T) bool {
	c.mu.Lock()
	e, ok := c.entries[key]
	if !ok || !e.has {
		c.mu.Unlock()
		return false
	}
	cur, ok := e.value.(T)
	if !ok {
		c.mu.Unlock()
		return false
	}
	c.setLocked(key, fn(cur))
	c.mu.Unlock()
	c.notify(key)
	return true
}

// Remove drops key from the cache
func (c *Cache) Remove(keys ...Key) {
	c.mu.Lock()
	for _, k := range keys {
		if e, ok := c.entries[k]; ok {
			e.supersedeLocked()
			delete(c.entries, k)
		}
	}
	c.mu.Unlock()
	c.notify(keys...)
}

// Cancel stops in-flight fetches for keys. A cancelled fetch never writes
// its result, even if the fetch function ignores its context.
func (c *Cache) Cancel(keys ...Key) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, k := range keys {
		if e, ok := c.entries[k]; ok && e.inflight != nil {
			slog.Debug("cancelling in-flight query", "key", k)
			e.supersedeLocked()
		}
	}
}

// Invalidate marks keys stale so the next Query refetches them
func (c *Cache) Invalidate(keys ...Key) {
	c.mu.Lock()
	for _, k := range keys {
		if e, ok := c.entries[k]; ok {
			c.invalidateLocked(e)
		}
	}
	c.mu.Unlock()
	c.notify(keys...)
}

// InvalidatePrefix marks every key under prefix stale
func (c *Cache) InvalidatePrefix(prefix Key) {
	var keys []Key
	c.mu.Lock()
	for k, e := range c.entries {
		if k.HasPrefix(prefix) {
			c.invalidateLocked(e)
			keys = append(keys, k)
		}
	}
	c.mu.Unlock()
	c.notify(keys...)
}

func (c *Cache) invalidateLocked(e *entry) {
	e.invalid = true
	if e.inflight != nil {
		e.inflight.staled = true
	}
}

// IsStale reports whether key has no value or must be refetched
func (c *Cache) IsStale(key Key) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	return !ok || !c.freshLocked(e, c.staleTime)
}

// Keys returns every key holding a value, sorted
func (c *Cache) Keys() []Key {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Key, 0, len(c.entries))
	for k, e := range c.entries {
		if e.has {
			out = append(out, k)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Scan yields the cached values under prefix in key order. The values are
// read at call time; writes during iteration are not observed.
func (c *Cache) Scan(prefix Key) iter.Seq2[Key, any] {
	return func(yield func(Key, any) bool) {
		type kv struct {
			k Key
			v any
		}
		c.mu.Lock()
		var items []kv
		for k, e := range c.entries {
			if e.has && k.HasPrefix(prefix) {
				items = append(items, kv{k, e.value})
			}
		}
		c.mu.Unlock()

		sort.Slice(items, func(i, j int) bool { return items[i].k < items[j].k })
		for _, it := range items {
			if !yield(it.k, it.v) {
				return
			}
		}
	}
}
