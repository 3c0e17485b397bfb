package types

import (
	"fmt"
	"sync/atomic"
	"time"
)

// Ref identifies a cached record that is either still waiting for the server
// (Pending, carrying a client generated temporary id) or already stored
// (Committed, carrying the server id). The zero value is not a valid Ref.
type Ref struct {
	tempID    string
	committed int
}

var tempSeq atomic.Uint64

// Pending returns a Ref for a record that only exists in the local cache
func Pending(tempID string) Ref {
	return Ref{tempID: tempID}
}

// Committed returns a Ref for a record the server has assigned id to
func Committed(id int) Ref {
	return Ref{committed: id}
}

// NewPending returns a Pending ref with a fresh temporary id of the form
// optimistic-<unix nanos>-<sequence>.
func NewPending() Ref {
	return Pending(fmt.Sprintf("optimistic-%d-%d", time.Now().UnixNano(), tempSeq.Add(1)))
}

// IsPending reports whether the record is still awaiting server confirmation
func (r Ref) IsPending() bool {
	return r.tempID != ""
}

// IsZero reports whether r was never set
func (r Ref) IsZero() bool {
	return r.tempID == "" && r.committed == 0
}

// TempID returns the temporary id of a Pending ref
func (r Ref) TempID() (string, bool) {
	return r.tempID, r.tempID != ""
}

// ServerID returns the server id of a Committed ref
func (r Ref) ServerID() (int, bool) {
	if r.tempID != "" || r.committed == 0 {
		return 0, false
	}
	return r.committed, true
}

// Is reports whether r is the committed ref for the given server id
func (r Ref) Is(id int) bool {
	got, ok := r.ServerID()
	return ok && got == id
}

func (r Ref) String() string {
	if r.tempID != "" {
		return "pending(" + r.tempID + ")"
	}
	return fmt.Sprintf("committed(%d)", r.committed)
}
