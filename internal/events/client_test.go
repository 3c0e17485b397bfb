package events

import (
	"context"
	"encoding/json"
	"net"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupMockDaemon accepts a single client, records what it sends on the
// returned channel and writes anything pushed to the outgoing channel.
func setupMockDaemon(t *testing.T) (string, chan Message, chan Message) {
	t.Helper()

	socketPath := filepath.Join(t.TempDir(), "test.sock")
	listener, err := (&net.ListenConfig{}).Listen(context.Background(), "unix", socketPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = listener.Close() })

	received := make(chan Message, 20)
	outgoing := make(chan Message, 20)

	go func() {
		conn, err := listener.Accept()
		if err != nil {
			return
		}
		defer func() { _ = conn.Close() }()

		go func() {
			enc := json.NewEncoder(conn)
			for msg := range outgoing {
				if err := enc.Encode(msg); err != nil {
					return
				}
			}
		}()

		dec := json.NewDecoder(conn)
		for {
			var msg Message
			if err := dec.Decode(&msg); err != nil {
				return
			}
			received <- msg
		}
	}()

	return socketPath, received, outgoing
}

func nextMessage(t *testing.T, ch chan Message) Message {
	t.Helper()
	select {
	case msg := <-ch:
		return msg
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for message")
		return Message{}
	}
}

func TestClient_ConnectSubscribesToAll(t *testing.T) {
	socketPath, received, _ := setupMockDaemon(t)

	c := NewClient(socketPath)
	require.NoError(t, c.Connect(context.Background()))
	defer func() { _ = c.Close() }()

	msg := nextMessage(t, received)
	assert.Equal(t, "subscribe", msg.Type)
	require.NotNil(t, msg.Subscribe)
	assert.Equal(t, 0, msg.Subscribe.WorkspaceID)
}

func TestClient_BatchesEventsWithinDebounce(t *testing.T) {
	socketPath, received, _ := setupMockDaemon(t)

	c := NewClient(socketPath, WithDebounce(50*time.Millisecond))
	require.NoError(t, c.Connect(context.Background()))
	defer func() { _ = c.Close() }()
	nextMessage(t, received) // subscription

	require.NoError(t, c.SendEvent(Event{WorkspaceID: 1, Entity: EntityTask}))
	require.NoError(t, c.SendEvent(Event{WorkspaceID: 1, Entity: EntityTask}))
	require.NoError(t, c.SendEvent(Event{WorkspaceID: 2, Entity: EntityColumn}))

	msg := nextMessage(t, received)
	assert.Equal(t, "event", msg.Type)
	require.NotNil(t, msg.Event)
	assert.Equal(t, 0, msg.Event.WorkspaceID, "events from several workspaces widen to all")
	assert.Equal(t, EntityAny, msg.Event.Entity)

	select {
	case extra := <-received:
		t.Fatalf("expected one batched event, got another: %+v", extra)
	case <-time.After(150 * time.Millisecond):
	}
}

func TestClient_ListenDropsDuplicatesAndAnswersPing(t *testing.T) {
	socketPath, received, outgoing := setupMockDaemon(t)

	c := NewClient(socketPath)
	require.NoError(t, c.Connect(context.Background()))
	defer func() { _ = c.Close() }()
	nextMessage(t, received)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	ch, err := c.Listen(ctx)
	require.NoError(t, err)

	outgoing <- Message{Type: "event", Event: &Event{WorkspaceID: 3, SequenceID: 1}}
	outgoing <- Message{Type: "event", Event: &Event{WorkspaceID: 3, SequenceID: 1}}
	outgoing <- Message{Type: "ping"}
	outgoing <- Message{Type: "event", Event: &Event{WorkspaceID: 4, SequenceID: 2}}

	first := <-ch
	second := <-ch
	assert.Equal(t, int64(1), first.SequenceID)
	assert.Equal(t, 4, second.WorkspaceID)

	pong := nextMessage(t, received)
	assert.Equal(t, "pong", pong.Type)
}

func TestClient_CloseWithoutConnect(t *testing.T) {
	c := NewClient(filepath.Join(t.TempDir(), "missing.sock"))
	assert.NoError(t, c.Close())
	assert.NoError(t, c.Close())
	assert.Error(t, c.SendEvent(Event{}))
}
