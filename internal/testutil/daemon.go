package testutil

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/MahdiIsse/project-management-sub001/internal/daemon"
	"github.com/MahdiIsse/project-management-sub001/internal/events"
)

// SetupTestDaemon starts a daemon on a temporary socket and waits for it.
// Cleanup is automatic via t.Cleanup().
func SetupTestDaemon(t *testing.T) (*daemon.Server, string) {
	t.Helper()

	socketPath := filepath.Join(t.TempDir(), "workboard-test.sock")
	server, err := daemon.NewServer(socketPath)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(func() {
		cancel()
		_ = server.Shutdown()
	})

	go func() { _ = server.Start(ctx) }()

	require.Eventually(t, func() bool {
		_, err := os.Stat(socketPath)
		return err == nil
	}, 2*time.Second, 10*time.Millisecond, "timeout waiting for daemon socket")

	return server, socketPath
}

// SetupTestClient connects an event client with a short debounce
func SetupTestClient(t *testing.T, socketPath string) *events.Client {
	t.Helper()

	client := events.NewClient(socketPath, events.WithDebounce(20*time.Millisecond))
	t.Cleanup(func() { _ = client.Close() })

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, client.Connect(ctx))

	return client
}

// WaitForEvent returns the next event or fails the test on timeout
func WaitForEvent(t *testing.T, ch <-chan events.Event, timeout time.Duration) events.Event {
	t.Helper()

	select {
	case event, ok := <-ch:
		if !ok {
			t.Fatal("event channel closed unexpectedly")
		}
		return event
	case <-time.After(timeout):
		t.Fatalf("timeout waiting for event after %v", timeout)
		return events.Event{}
	}
}
