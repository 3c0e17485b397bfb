package querycache

import (
	"fmt"
	"strings"
)

// Key names one cached query, e.g. "columns:7". Parts are joined with ':'.
type Key string

// KeyOf builds a key from its parts
func KeyOf(parts ...any) Key {
	ss := make([]string, len(parts))
	for i, p := range parts {
		ss[i] = fmt.Sprint(p)
	}
	return Key(strings.Join(ss, ":"))
}

// HasPrefix reports whether k equals prefix or continues it after a ':'
// boundary. "tasks:1" has prefix "tasks" but not "task".
func (k Key) HasPrefix(prefix Key) bool {
	if prefix == "" {
		return true
	}
	if !strings.HasPrefix(string(k), string(prefix)) {
		return false
	}
	return len(k) == len(prefix) || k[len(prefix)] == ':'
}
