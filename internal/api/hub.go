package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/websocket"

	"github.com/MahdiIsse/project-management-sub001/internal/auth"
	"github.com/MahdiIsse/project-management-sub001/internal/dto"
	"github.com/MahdiIsse/project-management-sub001/internal/events"
	"github.com/MahdiIsse/project-management-sub001/internal/types"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait
	pingPeriod = (pongWait * 9) / 10

	// The feed is one-way; clients only send control frames
	maxMessageSize = 512

	sendBuffer = 64
)

// client is one websocket subscriber. workspace 0 subscribes to every
// workspace of the owner.
type client struct {
	hub       *Hub
	conn      *websocket.Conn
	send      chan []byte
	owner     types.OwnerID
	workspace int
}

// wants reports whether ev concerns this subscriber. Events without an
// owner or workspace are hints for everyone they could concern.
func (c *client) wants(ev events.Event) bool {
	if ev.Owner != "" && ev.Owner != string(c.owner) {
		return false
	}
	return c.workspace == 0 || ev.WorkspaceID == 0 || ev.WorkspaceID == c.workspace
}

// Hub fans change events out to the connected websocket clients
type Hub struct {
	clients    map[*client]bool
	broadcast  chan events.Event
	register   chan *client
	unregister chan *client
	done       chan struct{}
}

// NewHub creates a hub. Nothing is delivered until Run is called.
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*client]bool),
		broadcast:  make(chan events.Event, sendBuffer),
		register:   make(chan *client),
		unregister: make(chan *client),
		done:       make(chan struct{}),
	}
}

// Run delivers events until ctx is done, then closes every client
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			for c := range h.clients {
				delete(h.clients, c)
				close(c.send)
			}
			return
		case c := <-h.register:
			h.clients[c] = true
			slog.Debug("websocket client connected", "owner", c.owner, "workspace", c.workspace)
		case c := <-h.unregister:
			if h.clients[c] {
				delete(h.clients, c)
				close(c.send)
				slog.Debug("websocket client disconnected", "owner", c.owner)
			}
		case ev := <-h.broadcast:
			msg, err := json.Marshal(dto.ChangeToDto(ev))
			if err != nil {
				slog.Error("failed to encode change", "error", err)
				continue
			}
			for c := range h.clients {
				if !c.wants(ev) {
					continue
				}
				select {
				case c.send <- msg:
				default:
					// A client that cannot keep up is dropped; it refetches on reconnect
					slog.Warn("websocket client too slow, dropping", "owner", c.owner)
					delete(h.clients, c)
					close(c.send)
				}
			}
		}
	}
}

// Publish queues ev for delivery. It is dropped once the hub has stopped.
func (h *Hub) Publish(ev events.Event) {
	select {
	case h.broadcast <- ev:
	case <-h.done:
	}
}

func (h *Hub) add(c *client) bool {
	select {
	case h.register <- c:
		return true
	case <-h.done:
		return false
	}
}

func (h *Hub) remove(c *client) {
	select {
	case h.unregister <- c:
	case <-h.done:
	}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Origin is enforced by the bearer token rather than the header
	CheckOrigin: func(r *http.Request) bool { return true },
}

// handleWebSocket streams the signed-in owner's changes. ?workspace=N
// narrows the feed to one workspace plus global events.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	owner, err := auth.UserFromContext(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	var wsID int
	if raw := r.URL.Query().Get("workspace"); raw != "" {
		wsID, err = strconv.Atoi(raw)
		if err != nil || wsID < 0 {
			writeError(w, r, badRequest("invalid workspace %q", raw))
			return
		}
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already answered the request
		slog.Warn("websocket upgrade failed", "error", err)
		return
	}

	c := &client{
		hub:       s.hub,
		conn:      conn,
		send:      make(chan []byte, sendBuffer),
		owner:     owner,
		workspace: wsID,
	}
	if !s.hub.add(c) {
		_ = conn.Close()
		return
	}
	go c.writePump()
	go c.readPump()
}

// readPump discards client frames and keeps the read deadline alive. It
// unregisters the client once the connection breaks.
func (c *client) readPump() {
	defer func() {
		c.hub.remove(c)
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure, websocket.CloseNormalClosure) {
				slog.Debug("websocket read error", "owner", c.owner, "error", err)
			}
			return
		}
	}
}

// writePump sends one change per text frame and pings on a timer
func (c *client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseGoingAway, ""))
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
