package events

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

// Local is an in-process EventPublisher. Every event sent is stamped and
// delivered to each Listen channel whose subscription matches. The API
// server uses it to feed its websocket hub, tests use it as a recorder.
type Local struct {
	mu        sync.Mutex
	listeners map[chan Event]struct{}
	sent      []Event
	seq       atomic.Int64
	workspace int
	closed    bool
}

var _ EventPublisher = (*Local)(nil)

func NewLocal() *Local {
	return &Local{listeners: make(map[chan Event]struct{})}
}

func (l *Local) Connect(ctx context.Context) error { return nil }

// SendEvent never blocks; listeners that fall behind miss events
func (l *Local) SendEvent(event Event) error {
	if event.Type == "" {
		event.Type = EventDatabaseChanged
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	event.SequenceID = l.seq.Add(1)

	l.mu.Lock()
	defer l.mu.Unlock()
	l.sent = append(l.sent, event)
	if l.workspace != 0 && event.WorkspaceID != 0 && event.WorkspaceID != l.workspace {
		return nil
	}
	for ch := range l.listeners {
		select {
		case ch <- event:
		default:
		}
	}
	return nil
}

// Listen returns a channel closed when ctx is done or the publisher closes
func (l *Local) Listen(ctx context.Context) (<-chan Event, error) {
	ch := make(chan Event, 32)

	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		close(ch)
		return ch, nil
	}
	l.listeners[ch] = struct{}{}
	l.mu.Unlock()

	go func() {
		<-ctx.Done()
		l.mu.Lock()
		defer l.mu.Unlock()
		if _, ok := l.listeners[ch]; ok {
			delete(l.listeners, ch)
			close(ch)
		}
	}()
	return ch, nil
}

// Subscribe restricts delivery to one workspace (0 = all)
func (l *Local) Subscribe(workspaceID int) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.workspace = workspaceID
	return nil
}

// Sent returns a copy of every event sent so far
func (l *Local) Sent() []Event {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]Event(nil), l.sent...)
}

func (l *Local) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return nil
	}
	l.closed = true
	for ch := range l.listeners {
		delete(l.listeners, ch)
		close(ch)
	}
	return nil
}

// Tee fans SendEvent out to several publishers. Listen and Subscribe go to
// the first one.
type Tee []EventPublisher

var _ EventPublisher = Tee(nil)

func (t Tee) Connect(ctx context.Context) error {
	for _, p := range t {
		if err := p.Connect(ctx); err != nil {
			return err
		}
	}
	return nil
}

func (t Tee) SendEvent(event Event) error {
	var firstErr error
	for _, p := range t {
		if err := p.SendEvent(event); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (t Tee) Listen(ctx context.Context) (<-chan Event, error) {
	if len(t) == 0 {
		ch := make(chan Event)
		close(ch)
		return ch, nil
	}
	return t[0].Listen(ctx)
}

func (t Tee) Subscribe(workspaceID int) error {
	if len(t) == 0 {
		return nil
	}
	return t[0].Subscribe(workspaceID)
}

func (t Tee) Close() error {
	var firstErr error
	for _, p := range t {
		if err := p.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
