package apiclient

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/gorilla/websocket"

	"github.com/MahdiIsse/project-management-sub001/internal/auth"
	"github.com/MahdiIsse/project-management-sub001/internal/dto"
	"github.com/MahdiIsse/project-management-sub001/internal/events"
)

// Watch subscribes to the server's change feed. workspaceID 0 receives
// changes for every workspace. The channel closes when ctx is done or the
// connection drops; feed it to board.Client.Watch.
func (c *Client) Watch(ctx context.Context, workspaceID int) (<-chan events.Event, error) {
	u, err := url.Parse(c.baseURL + "/api/ws")
	if err != nil {
		return nil, fmt.Errorf("invalid api url: %w", err)
	}
	switch u.Scheme {
	case "https":
		u.Scheme = "wss"
	default:
		u.Scheme = "ws"
	}
	if workspaceID != 0 {
		u.RawQuery = url.Values{"workspace": {strconv.Itoa(workspaceID)}}.Encode()
	}

	header := http.Header{}
	if c.token != "" {
		header.Set("Authorization", "Bearer "+c.token)
	}
	conn, resp, err := websocket.DefaultDialer.DialContext(ctx, u.String(), header)
	if err != nil {
		if resp != nil {
			defer resp.Body.Close()
			if resp.StatusCode >= 300 && resp.StatusCode < 400 {
				return nil, auth.ErrNotAuthenticated
			}
			if resp.StatusCode >= 400 {
				return nil, readError(resp)
			}
		}
		return nil, fmt.Errorf("failed to open change feed: %w", err)
	}

	ch := make(chan events.Event, 32)
	go func() {
		<-ctx.Done()
		_ = conn.Close()
	}()
	go func() {
		defer close(ch)
		for {
			var msg dto.ChangeDto
			if err := conn.ReadJSON(&msg); err != nil {
				if ctx.Err() == nil && !isClosed(err) {
					slog.Warn("change feed closed", "error", err)
				}
				return
			}
			select {
			case ch <- dto.ChangeToEvent(msg):
			case <-ctx.Done():
				return
			}
		}
	}()
	return ch, nil
}

func isClosed(err error) bool {
	var closeErr *websocket.CloseError
	if errors.As(err, &closeErr) {
		return closeErr.Code == websocket.CloseNormalClosure || closeErr.Code == websocket.CloseGoingAway
	}
	return strings.Contains(err.Error(), "use of closed network connection")
}
