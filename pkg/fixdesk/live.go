package fixdesk

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"sync"

	ws "github.com/gorilla/websocket"
)

// EventType names a live event.
type EventType string

const (
	EventTaskGroupUpdated     EventType = "TaskGroupUpdated"
	EventNotificationReceived EventType = "NotificationReceived"
	EventInventoryUpdated     EventType = "InventoryUpdated"
)

// Event is a server push received over a Subscription.
type Event struct {
	Type        EventType `json:"type"`
	TaskGroupID string    `json:"taskGroupId,omitempty"`
	Message     string    `json:"message,omitempty"`
	Roles       []string  `json:"roles,omitempty"`
}

// Notify broadcasts a message to live subscribers of the site. When roles
// are given only subscribers with one of them receive it.
func (c *Client) Notify(ctx context.Context, message string, roles ...Role) (*Event, error) {
	body := struct {
		Message string `json:"message"`
		Roles   []Role `json:"roles,omitempty"`
	}{message, roles}

	var evt Event
	if err := c.do(ctx, http.MethodPost, c.sitePath("/notifications"), body, http.StatusAccepted, &evt); err != nil {
		return nil, err
	}
	return &evt, nil
}

// Subscription is an open live channel. Events are delivered in order on
// Events until the connection ends, after which Err reports why.
type Subscription struct {
	conn   *ws.Conn
	events chan Event
	done   chan struct{}
	stop   func() bool

	mu     sync.Mutex
	err    error
	closed bool
}

// Subscribe opens the site's live channel. token identifies the session;
// a second subscription with the same token replaces the first. The
// subscription ends when ctx is cancelled; Err then returns ctx's error.
func (c *Client) Subscribe(ctx context.Context, token string, role Role) (*Subscription, error) {
	q := url.Values{}
	q.Set("token", token)
	q.Set("role", string(role))
	wsURL := "ws" + strings.TrimPrefix(c.baseURL, "http") + c.sitePath("/live") + "?" + q.Encode()

	header := http.Header{}
	header.Set(actorHeader, c.actor)

	conn, resp, err := ws.DefaultDialer.DialContext(ctx, wsURL, header)
	if err != nil {
		if resp != nil && resp.StatusCode != http.StatusSwitchingProtocols {
			defer resp.Body.Close()
			return nil, parseErrorResponse(resp)
		}
		if isConnectionRefused(err) {
			return nil, ErrServerNotRunning
		}
		return nil, err
	}

	s := &Subscription{conn: conn, events: make(chan Event, 16), done: make(chan struct{})}
	s.stop = context.AfterFunc(ctx, func() {
		s.mu.Lock()
		if !s.closed {
			s.err = ctx.Err()
		}
		s.mu.Unlock()
		_ = s.Close()
	})
	go s.readLoop()
	return s, nil
}

func (s *Subscription) readLoop() {
	defer close(s.events)
	defer s.stop()
	for {
		var evt Event
		if err := s.conn.ReadJSON(&evt); err != nil {
			s.mu.Lock()
			if !s.closed && !ws.IsCloseError(err, ws.CloseNormalClosure, ws.CloseGoingAway) {
				s.err = err
			}
			s.mu.Unlock()
			return
		}
		select {
		case s.events <- evt:
		case <-s.done:
			return
		}
	}
}

// Events returns the channel of received events. It is closed when the
// subscription ends.
func (s *Subscription) Events() <-chan Event {
	return s.events
}

// Err returns the error that ended the subscription, or nil after a clean
// close.
func (s *Subscription) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// Close ends the subscription.
func (s *Subscription) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	close(s.done)
	s.mu.Unlock()
	s.stop()

	_ = s.conn.WriteMessage(ws.CloseMessage, ws.FormatCloseMessage(ws.CloseNormalClosure, ""))
	return s.conn.Close()
}
