package live

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	ws "github.com/gorilla/websocket"

	"github.com/fixdesk/fixdesk/internal/metrics"
)

const (
	writeWait  = 5 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 30 * time.Second
)

// key identifies a subscription. A newer connection with the same key
// replaces the older one.
type key struct {
	site  string
	token string
	role  string
}

// client wraps a WebSocket connection with a mutex for thread-safe writes.
type client struct {
	key  key
	conn *ws.Conn
	mu   sync.Mutex
}

func (c *client) write(data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return c.conn.WriteMessage(ws.TextMessage, data)
}

// Hub maintains connected subscribers and fans events out to them.
type Hub struct {
	mu      sync.RWMutex
	clients map[key]*client
	logger  *slog.Logger
}

// NewHub creates a new Hub.
func NewHub(logger *slog.Logger) *Hub {
	if logger == nil {
		logger = slog.Default()
	}
	return &Hub{
		clients: make(map[key]*client),
		logger:  logger.With("component", "live"),
	}
}

func (h *Hub) register(c *client) {
	h.mu.Lock()
	old := h.clients[c.key]
	h.clients[c.key] = c
	count := len(h.clients)
	h.mu.Unlock()

	if old != nil {
		_ = old.conn.Close()
	}
	metrics.UpdateLiveClients(count)
}

func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	if h.clients[c.key] == c {
		delete(h.clients, c.key)
	}
	count := len(h.clients)
	h.mu.Unlock()

	_ = c.conn.Close()
	metrics.UpdateLiveClients(count)
}

// Count returns the number of connected subscribers.
func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Publish sends the event to every subscriber of the site it is addressed to.
// Subscribers whose connection fails are dropped.
func (h *Hub) Publish(site string, evt Event) {
	data, err := json.Marshal(evt)
	if err != nil {
		h.logger.Error("marshal event", "error", err)
		return
	}
	metrics.RecordLiveEvent(string(evt.Type))

	h.mu.RLock()
	targets := make([]*client, 0, len(h.clients))
	for k, c := range h.clients {
		if k.site == site && evt.reaches(k.role) {
			targets = append(targets, c)
		}
	}
	h.mu.RUnlock()

	for _, c := range targets {
		if err := c.write(data); err != nil {
			h.logger.Debug("drop subscriber", "site", site, "role", c.key.role, "error", err)
			h.unregister(c)
		}
	}
}

// Close disconnects every subscriber.
func (h *Hub) Close() {
	h.mu.Lock()
	clients := h.clients
	h.clients = make(map[key]*client)
	h.mu.Unlock()

	for _, c := range clients {
		_ = c.conn.Close()
	}
	metrics.UpdateLiveClients(0)
}

var upgrader = ws.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Serve upgrades the request and keeps the subscription alive with pings
// until the peer goes away. It blocks for the lifetime of the connection.
func (h *Hub) Serve(w http.ResponseWriter, r *http.Request, site, token, role string) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("upgrade failed", "error", err)
		return
	}

	c := &client{key: key{site: site, token: token, role: role}, conn: conn}
	h.register(c)
	h.logger.Info("subscriber connected", "site", site, "role", role, "total", h.Count())

	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	done := make(chan struct{})
	go func() {
		ticker := time.NewTicker(pingPeriod)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				c.mu.Lock()
				err := conn.WriteControl(ws.PingMessage, nil, time.Now().Add(writeWait))
				c.mu.Unlock()
				if err != nil {
					return
				}
			}
		}
	}()

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
	close(done)
	h.unregister(c)
	h.logger.Info("subscriber disconnected", "site", site, "role", role)
}

// SiteEvents publishes service change notifications for one site.
type SiteEvents struct {
	Hub  *Hub
	Site string
}

// TaskGroupUpdated publishes a TaskGroupUpdated event.
func (e SiteEvents) TaskGroupUpdated(groupID string) {
	e.Hub.Publish(e.Site, TaskGroupUpdated(groupID))
}

// InventoryUpdated publishes an InventoryUpdated event.
func (e SiteEvents) InventoryUpdated() {
	e.Hub.Publish(e.Site, InventoryUpdated())
}
