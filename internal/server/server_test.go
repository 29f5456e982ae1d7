package server_test

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"testing"
	"time"

	ws "github.com/gorilla/websocket"

	"github.com/fixdesk/fixdesk/internal/server"
	"github.com/fixdesk/fixdesk/internal/store"
)

func newManager(t *testing.T) *store.Manager {
	t.Helper()

	tmpDir, err := os.MkdirTemp("", "fixdesk-server-test-*")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(tmpDir) })

	manager, err := store.NewManager(tmpDir)
	if err != nil {
		t.Fatalf("failed to create manager: %v", err)
	}
	t.Cleanup(func() { manager.Close() })
	return manager
}

func startServer(t *testing.T) (*server.Server, chan error) {
	t.Helper()

	srv := server.New(server.Options{Address: "localhost:0", Manager: newManager(t)})

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start()
	}()

	deadline := time.Now().Add(2 * time.Second)
	for srv.Addr() == "" {
		if time.Now().After(deadline) {
			t.Fatal("server did not start")
		}
		time.Sleep(10 * time.Millisecond)
	}
	return srv, errChan
}

func TestServer_StartAndShutdown(t *testing.T) {
	srv, errChan := startServer(t)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		t.Errorf("shutdown error: %v", err)
	}

	select {
	case err := <-errChan:
		if err != nil && err != http.ErrServerClosed {
			t.Errorf("unexpected error from Start: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Error("server did not stop after shutdown")
	}
}

func TestServer_ServesHealth(t *testing.T) {
	srv, _ := startServer(t)
	defer srv.Shutdown(context.Background())

	resp, err := http.Get("http://" + srv.Addr() + "/v1/health")
	if err != nil {
		t.Fatalf("failed to make request: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Errorf("expected status 200, got %d", resp.StatusCode)
	}

	var health map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&health); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if health["status"] != "ok" {
		t.Errorf("expected status 'ok', got %q", health["status"])
	}
}

func TestServer_ShutdownDisconnectsLiveSubscribers(t *testing.T) {
	srv, _ := startServer(t)

	url := "ws://" + srv.Addr() + "/v1/sites/plant-a/live?token=t1&role=admin"
	conn, _, err := ws.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("failed to dial live endpoint: %v", err)
	}
	defer conn.Close()

	deadline := time.Now().Add(2 * time.Second)
	for srv.Hub().Count() != 1 {
		if time.Now().After(deadline) {
			t.Fatal("subscriber was not registered")
		}
		time.Sleep(10 * time.Millisecond)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		t.Fatalf("shutdown error: %v", err)
	}

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	if _, _, err := conn.ReadMessage(); err == nil {
		t.Error("expected the live connection to be closed")
	}
}

func TestServer_DefaultAddress(t *testing.T) {
	if server.DefaultAddress != "localhost:7480" {
		t.Errorf("expected default address 'localhost:7480', got %q", server.DefaultAddress)
	}
}
