package live

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	ws "github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startHub(t *testing.T) (*Hub, *httptest.Server) {
	t.Helper()
	hub := NewHub(nil)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		hub.Serve(w, r, q.Get("site"), q.Get("token"), q.Get("role"))
	}))
	t.Cleanup(func() {
		hub.Close()
		srv.Close()
	})
	return hub, srv
}

func dial(t *testing.T, srv *httptest.Server, site, token, role string) *ws.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "?site=" + site + "&token=" + token + "&role=" + role
	conn, _, err := ws.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func waitForClients(t *testing.T, hub *Hub, n int) {
	t.Helper()
	require.Eventually(t, func() bool { return hub.Count() == n }, 2*time.Second, 10*time.Millisecond)
}

func readEvent(t *testing.T, conn *ws.Conn) (Event, error) {
	t.Helper()
	var evt Event
	_ = conn.SetReadDeadline(time.Now().Add(300 * time.Millisecond))
	err := conn.ReadJSON(&evt)
	return evt, err
}

func TestEvent_Reaches(t *testing.T) {
	assert.True(t, InventoryUpdated().reaches("staff"))
	assert.True(t, Notification("hi", "admin", "manager").reaches("manager"))
	assert.False(t, Notification("hi", "admin").reaches("technician"))
}

func TestHub_PublishScopedBySite(t *testing.T) {
	hub, srv := startHub(t)
	a := dial(t, srv, "north", "t1", "admin")
	b := dial(t, srv, "south", "t2", "admin")
	waitForClients(t, hub, 2)

	hub.Publish("north", TaskGroupUpdated("tg-1"))

	evt, err := readEvent(t, a)
	require.NoError(t, err)
	assert.Equal(t, TypeTaskGroupUpdated, evt.Type)
	assert.Equal(t, "tg-1", evt.TaskGroupID)

	_, err = readEvent(t, b)
	assert.Error(t, err, "other site receives nothing")
}

func TestHub_NotificationRoles(t *testing.T) {
	hub, srv := startHub(t)
	admin := dial(t, srv, "north", "t1", "admin")
	tech := dial(t, srv, "north", "t2", "technician")
	waitForClients(t, hub, 2)

	hub.Publish("north", Notification("audit due", "admin"))

	evt, err := readEvent(t, admin)
	require.NoError(t, err)
	assert.Equal(t, "audit due", evt.Message)

	_, err = readEvent(t, tech)
	assert.Error(t, err)
}

func TestHub_SameKeyReplacesConnection(t *testing.T) {
	hub, srv := startHub(t)
	first := dial(t, srv, "north", "t1", "admin")
	waitForClients(t, hub, 1)
	second := dial(t, srv, "north", "t1", "admin")

	// The first connection is closed by the server.
	_ = first.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, _, err := first.ReadMessage()
	require.Error(t, err)
	assert.False(t, isTimeout(err), "expected the server to close the replaced connection")
	waitForClients(t, hub, 1)

	hub.Publish("north", InventoryUpdated())
	evt, err := readEvent(t, second)
	require.NoError(t, err)
	assert.Equal(t, TypeInventoryUpdated, evt.Type)
}

func TestSiteEvents(t *testing.T) {
	hub, srv := startHub(t)
	conn := dial(t, srv, "north", "t1", "staff")
	waitForClients(t, hub, 1)

	SiteEvents{Hub: hub, Site: "north"}.TaskGroupUpdated("tg-9")
	evt, err := readEvent(t, conn)
	require.NoError(t, err)
	assert.Equal(t, "tg-9", evt.TaskGroupID)
}

func isTimeout(err error) bool {
	type timeout interface{ Timeout() bool }
	te, ok := err.(timeout)
	return ok && te.Timeout()
}
