// Package realtime subscribes to the server's websocket change stream and
// turns frames into typed events. The subscriber owns the connection; the
// consumer reads from Changes until the context ends or the stream closes.
package realtime

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/gorilla/websocket"
)

// VideoRow carries the post-update column values of one video row as sent
// over the stream.
type VideoRow struct {
	ID          string  `json:"id"`
	Identifier  string  `json:"identifier"`
	PlaybackID  string  `json:"playback_id"`
	Status      string  `json:"status"`
	Duration    float64 `json:"duration"`
	AspectRatio string  `json:"aspect_ratio"`
}

// VideoChange is one change event.
type VideoChange struct {
	New VideoRow `json:"new"`
}

// Subscriber holds an open websocket subscription for one space.
type Subscriber struct {
	conn    *websocket.Conn
	changes chan VideoChange
}

// dialer is swapped in tests.
var dialer = websocket.DefaultDialer

// Subscribe opens the change stream for videos in the given space. The
// access token authenticates the connection; events arrive on Changes in
// the order the server sent them.
func Subscribe(ctx context.Context, serverURL, accessToken, spaceID string) (*Subscriber, error) {
	wsURL, err := streamURL(serverURL, accessToken, spaceID)
	if err != nil {
		return nil, err
	}

	conn, resp, err := dialer.DialContext(ctx, wsURL, nil)
	if err != nil {
		if resp != nil && resp.StatusCode == http.StatusUnauthorized {
			return nil, fmt.Errorf("subscription rejected: %w", err)
		}
		return nil, fmt.Errorf("failed to connect: %w", err)
	}

	s := &Subscriber{
		conn:    conn,
		changes: make(chan VideoChange, 16),
	}
	go s.readLoop(ctx)
	return s, nil
}

// Changes returns the event channel. It is closed when the connection ends.
func (s *Subscriber) Changes() <-chan VideoChange {
	return s.changes
}

// Close tears down the connection. The Changes channel closes shortly after.
func (s *Subscriber) Close() error {
	return s.conn.Close()
}

func (s *Subscriber) readLoop(ctx context.Context) {
	defer close(s.changes)
	defer s.conn.Close()

	for {
		var change VideoChange
		if err := s.conn.ReadJSON(&change); err != nil {
			return
		}
		select {
		case s.changes <- change:
		case <-ctx.Done():
			return
		}
	}
}

func streamURL(serverURL, accessToken, spaceID string) (string, error) {
	u, err := url.Parse(serverURL)
	if err != nil {
		return "", fmt.Errorf("invalid server url: %w", err)
	}
	switch u.Scheme {
	case "http":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	}
	u.Path = strings.TrimSuffix(u.Path, "/") + "/realtime/ws"
	q := u.Query()
	q.Set("token", accessToken)
	q.Set("space_id", spaceID)
	q.Set("field", "videos")
	u.RawQuery = q.Encode()
	return u.String(), nil
}
