// Package daemon runs the change-notification hub every local workboard
// process connects to over a Unix socket.
package daemon

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/MahdiIsse/project-management-sub001/internal/events"
)

const (
	pingInterval   = 30 * time.Second
	healthInterval = 60 * time.Second
	staleAfter     = 90 * time.Second
)

// client represents a connected client to the daemon
type client struct {
	conn         net.Conn
	send         chan events.Message
	subscription events.SubscribeMessage
	lastPong     time.Time
	mu           sync.Mutex // Protects subscription and lastPong
	closeOnce    sync.Once  // Ensures send channel is closed only once
}

func (c *client) subscribedTo(workspaceID int) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return workspaceID == 0 || c.subscription.WorkspaceID == 0 || c.subscription.WorkspaceID == workspaceID
}

// envelope is an event on its way through the broadcast loop. from is nil
// for events injected with Broadcast.
type envelope struct {
	event events.Event
	from  *client
}

// Server is the workboard event daemon
type Server struct {
	socketPath       string
	listener         net.Listener
	clients          map[*client]bool
	mu               sync.RWMutex
	ctx              context.Context
	cancel           context.CancelFunc
	broadcast        chan envelope
	metrics          *Metrics
	sequenceCounter  atomic.Int64
	clientBufferSize int
	shutdownOnce     sync.Once
}

// Option configures a Server
type Option func(*serverOptions)

type serverOptions struct {
	broadcastBuffer int
	clientBuffer    int
}

// WithBuffers sizes the broadcast queue and each client's send queue.
// Non-positive values keep the defaults.
func WithBuffers(broadcast, perClient int) Option {
	return func(o *serverOptions) {
		if broadcast > 0 {
			o.broadcastBuffer = broadcast
		}
		if perClient > 0 {
			o.clientBuffer = perClient
		}
	}
}

// NewServer creates the socket listener. Start runs the loops.
func NewServer(socketPath string, opts ...Option) (*Server, error) {
	o := serverOptions{broadcastBuffer: 100, clientBuffer: 10}
	for _, opt := range opts {
		opt(&o)
	}

	if dir := filepath.Dir(socketPath); dir != "" {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return nil, fmt.Errorf("failed to create socket directory: %w", err)
		}
	}

	// Remove stale socket file if it exists
	if _, err := os.Stat(socketPath); err == nil {
		if err := os.Remove(socketPath); err != nil {
			return nil, fmt.Errorf("failed to remove stale socket: %w", err)
		}
	}

	lc := net.ListenConfig{}
	listener, err := lc.Listen(context.Background(), "unix", socketPath)
	if err != nil {
		return nil, fmt.Errorf("failed to create socket listener: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &Server{
		socketPath:       socketPath,
		listener:         listener,
		clients:          make(map[*client]bool),
		ctx:              ctx,
		cancel:           cancel,
		broadcast:        make(chan envelope, o.broadcastBuffer),
		metrics:          NewMetrics(),
		clientBufferSize: o.clientBuffer,
	}, nil
}

// Metrics exposes the live counters
func (s *Server) Metrics() *Metrics { return s.metrics }

// Start runs the accept, broadcast and health loops until ctx is cancelled
// or Shutdown is called.
func (s *Server) Start(ctx context.Context) error {
	slog.Info("daemon starting", "socket", s.socketPath)

	combinedCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	go func() {
		<-s.ctx.Done()
		cancel()
	}()

	acceptErr := make(chan error, 1)
	go func() {
		acceptErr <- s.acceptLoop(combinedCtx)
	}()

	go s.broadcastLoop(combinedCtx)
	go s.monitorHealth(combinedCtx)

	select {
	case <-combinedCtx.Done():
		slog.Info("daemon context cancelled, shutting down")
	case err := <-acceptErr:
		if err != nil {
			slog.Error("accept loop error", "error", err)
		}
	}

	return s.Shutdown()
}

func (s *Server) acceptLoop(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		// Deadline so the loop can observe cancellation
		if ul, ok := s.listener.(*net.UnixListener); ok {
			if err := ul.SetDeadline(time.Now().Add(1 * time.Second)); err != nil {
				slog.Error("error setting listener deadline", "error", err)
			}
		}

		conn, err := s.listener.Accept()
		if err != nil {
			if netErr, ok := err.(net.Error); ok && netErr.Timeout() {
				continue
			}
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("accept error: %w", err)
		}

		c := &client{
			conn:     conn,
			send:     make(chan events.Message, s.clientBufferSize),
			lastPong: time.Now(),
		}

		s.mu.Lock()
		s.clients[c] = true
		s.mu.Unlock()
		s.updateClientCount()

		slog.Debug("client connected", "clients", s.getClientCount())

		go s.handleClient(c)
		go s.clientWriter(c)
	}
}

// broadcastLoop stamps each event with a sequence number and forwards it to
// every subscribed client except the one that sent it.
func (s *Server) broadcastLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return

		case env, ok := <-s.broadcast:
			if !ok {
				return
			}
			event := env.event
			event.SequenceID = s.sequenceCounter.Add(1)
			s.metrics.IncRefreshesTotal()

			s.mu.RLock()
			for c := range s.clients {
				if c == env.from || !c.subscribedTo(event.WorkspaceID) {
					continue
				}
				msg := events.Message{
					Version: events.ProtocolVersion,
					Type:    "event",
					Event:   &event,
				}
				if !s.sendToClient(c, msg) {
					slog.Warn("client send queue full, event dropped", "workspace_id", event.WorkspaceID)
				}
			}
			s.mu.RUnlock()
		}
	}
}

func (s *Server) handleClient(c *client) {
	defer func() {
		s.removeClient(c)
		slog.Debug("client disconnected", "clients", s.getClientCount())
	}()

	decoder := json.NewDecoder(c.conn)

	for {
		var msg events.Message
		if err := decoder.Decode(&msg); err != nil {
			return
		}

		if msg.Version != 0 && msg.Version != events.ProtocolVersion {
			slog.Warn("protocol version mismatch", "got", msg.Version, "want", events.ProtocolVersion)
		}

		switch msg.Type {
		case "event":
			if msg.Event == nil {
				continue
			}
			s.metrics.IncEventsReceived()
			select {
			case s.broadcast <- envelope{event: *msg.Event, from: c}:
			default:
				slog.Warn("broadcast channel full")
			}

		case "subscribe":
			if msg.Subscribe != nil {
				c.mu.Lock()
				c.subscription = *msg.Subscribe
				c.mu.Unlock()
				slog.Debug("client subscribed", "workspace_id", msg.Subscribe.WorkspaceID)
			}

		case "pong":
			c.mu.Lock()
			c.lastPong = time.Now()
			c.mu.Unlock()
		}
	}
}

func (s *Server) clientWriter(c *client) {
	encoder := json.NewEncoder(c.conn)
	for msg := range c.send {
		if err := encoder.Encode(msg); err != nil {
			return
		}
	}
}

// monitorHealth pings every client and drops the ones that stopped answering
func (s *Server) monitorHealth(ctx context.Context) {
	pingTicker := time.NewTicker(pingInterval)
	defer pingTicker.Stop()

	healthTicker := time.NewTicker(healthInterval)
	defer healthTicker.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case <-pingTicker.C:
			pingMsg := events.Message{
				Version: events.ProtocolVersion,
				Type:    "ping",
				Event:   &events.Event{Type: events.EventPing},
			}
			for _, c := range s.snapshotClients() {
				if !s.sendToClient(c, pingMsg) {
					slog.Warn("failed to send ping to client (queue full)")
				}
			}

		case <-healthTicker.C:
			// Collect first, remove outside the server lock
			now := time.Now()
			var stale []*client
			for _, c := range s.snapshotClients() {
				c.mu.Lock()
				lastPong := c.lastPong
				c.mu.Unlock()
				if now.Sub(lastPong) > staleAfter {
					stale = append(stale, c)
				}
			}
			for _, c := range stale {
				slog.Info("removing stale client")
				s.removeClient(c)
			}
		}
	}
}

// Broadcast injects an event as if a client had sent it (non-blocking)
func (s *Server) Broadcast(event events.Event) error {
	select {
	case <-s.ctx.Done():
		return fmt.Errorf("daemon is shut down")
	default:
	}
	select {
	case s.broadcast <- envelope{event: event}:
		return nil
	default:
		return fmt.Errorf("broadcast channel full")
	}
}

// Shutdown closes the listener and every client. It is safe to call twice.
func (s *Server) Shutdown() error {
	s.shutdownOnce.Do(func() {
		slog.Info("shutting down daemon", "metrics", s.metrics.GetSnapshot())

		s.cancel()

		if s.listener != nil {
			if err := s.listener.Close(); err != nil {
				slog.Debug("error closing listener", "error", err)
			}
		}

		s.mu.Lock()
		for c := range s.clients {
			if err := c.conn.Close(); err != nil {
				slog.Debug("error closing client connection", "error", err)
			}
			c.closeOnce.Do(func() { close(c.send) })
		}
		s.clients = make(map[*client]bool)
		s.mu.Unlock()
		s.updateClientCount()

		if err := os.Remove(s.socketPath); err != nil && !os.IsNotExist(err) {
			slog.Warn("failed to remove socket file", "error", err)
		}
	})

	return nil
}

func (s *Server) snapshotClients() []*client {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*client, 0, len(s.clients))
	for c := range s.clients {
		out = append(out, c)
	}
	return out
}

func (s *Server) getClientCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.clients)
}

func (s *Server) updateClientCount() {
	s.metrics.SetConnectedClients(int32(s.getClientCount()))
}

func (s *Server) removeClient(c *client) {
	s.mu.Lock()
	delete(s.clients, c)
	s.mu.Unlock()

	if err := c.conn.Close(); err != nil {
		slog.Debug("error closing client connection", "error", err)
	}
	c.closeOnce.Do(func() { close(c.send) })

	s.updateClientCount()
}

// sendToClient reports false when the client's queue is full
func (s *Server) sendToClient(c *client, msg events.Message) (ok bool) {
	// A client removed concurrently has a closed send channel
	defer func() {
		if recover() != nil {
			ok = false
		}
	}()
	select {
	case c.send <- msg:
		s.metrics.IncEventsSent()
		return true
	default:
		return false
	}
}
