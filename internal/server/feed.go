package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/muurk/shoplist/internal/logging"
)

// EventsPath is where the change feed is served
const EventsPath = "/events"

// EventsURL derives the change-feed URL from an item collection URL
// (e.g. http://host:8080/items -> ws://host:8080/events).
func EventsURL(endpoint string) (string, error) {
	u, err := url.Parse(endpoint)
	if err != nil {
		return "", fmt.Errorf("invalid endpoint %q: %w", endpoint, err)
	}

	switch u.Scheme {
	case "http":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	case "ws", "wss":
	default:
		return "", fmt.Errorf("unsupported endpoint scheme %q", u.Scheme)
	}

	path := strings.TrimRight(u.Path, "/")
	if i := strings.LastIndex(path, "/"); i >= 0 {
		path = path[:i]
	}
	u.Path = path + EventsPath
	u.RawQuery = ""
	return u.String(), nil
}

// Subscribe connects to the change feed at eventsURL and calls fn for each
// event until ctx is cancelled or the server closes the feed. A normal close
// returns nil.
func Subscribe(ctx context.Context, eventsURL string, fn func(Event)) error {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, eventsURL, nil)
	if err != nil {
		return fmt.Errorf("failed to connect to %s: %w", eventsURL, err)
	}
	defer func() { _ = conn.Close() }()

	logging.Info("Subscribed to change feed", zap.String("url", eventsURL))

	stop := context.AfterFunc(ctx, func() {
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(writeWait))
		_ = conn.Close()
	})
	defer stop()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil || websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return nil
			}
			return fmt.Errorf("change feed read failed: %w", err)
		}

		var ev Event
		if err := json.Unmarshal(data, &ev); err != nil {
			logging.Warn("Ignoring malformed event", zap.Error(err))
			continue
		}
		fn(ev)
	}
}
