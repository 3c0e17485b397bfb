package querycache

import "time"

// Snapshot is an exact copy of some cache entries: value, presence and
// staleness.
type Snapshot struct {
	entries map[Key]snapEntry
}

type snapEntry struct {
	value     any
	has       bool
	invalid   bool
	updatedAt time.Time
}

// Snapshot copies the entries for keys. Keys with nothing cached are
// recorded as absent so Restore removes whatever was written since.
func (c *Cache) Snapshot(keys ...Key) Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	snap := Snapshot{entries: make(map[Key]snapEntry, len(keys))}
	for _, k := range keys {
		if e, ok := c.entries[k]; ok && e.has {
			snap.entries[k] = snapEntry{value: e.value, has: true, invalid: e.invalid, updatedAt: e.updatedAt}
		} else {
			snap.entries[k] = snapEntry{}
		}
	}
	return snap
}

// Keys lists the keys the snapshot covers
func (s Snapshot) Keys() []Key {
	out := make([]Key, 0, len(s.entries))
	for k := range s.entries {
		out = append(out, k)
	}
	return out
}

// Restore puts the snapshot back. Entries written since the snapshot are
// overwritten, not merged, and in-flight fetches for them are superseded.
func (c *Cache) Restore(s Snapshot) {
	c.mu.Lock()
	keys := make([]Key, 0, len(s.entries))
	for k, se := range s.entries {
		keys = append(keys, k)
		e, ok := c.entries[k]
		if !se.has {
			if ok {
				e.supersedeLocked()
				delete(c.entries, k)
			}
			continue
		}
		e = c.entryLocked(k)
		e.supersedeLocked()
		e.value = se.value
		e.has = true
		e.invalid = se.invalid
		e.updatedAt = se.updatedAt
	}
	c.mu.Unlock()
	c.notify(keys...)
}
