package daemon

import (
	"context"
	"io"
	"net/http"
	"sync/atomic"
	"testing"
	"time"

	"github.com/teamsync/teamsync/internal/config"
)

func setupTestServer(t *testing.T, handler http.Handler) (*Server, context.CancelFunc, <-chan error) {
	t.Helper()

	server, err := NewServer(config.ServerConfig{
		Addr:            "127.0.0.1:0",
		ShutdownTimeout: 2 * time.Second,
	}, handler, nil)
	if err != nil {
		t.Fatalf("Failed to create test server: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- server.Start(ctx) }()

	t.Cleanup(func() {
		cancel()
		_ = server.Shutdown()
	})
	return server, cancel, done
}

func TestServer_ServesAndShutsDown(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, "pong")
	})
	server, cancel, done := setupTestServer(t, handler)

	resp, err := http.Get("http://" + server.Addr() + "/ping")
	if err != nil {
		t.Fatalf("GET failed: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if string(body) != "pong" {
		t.Errorf("body = %q, want pong", body)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Start returned %v after cancel, want nil", err)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("Timeout waiting for server shutdown")
	}

	if _, err := http.Get("http://" + server.Addr() + "/ping"); err == nil {
		t.Error("server should refuse connections after shutdown")
	}
}

func TestServer_BackgroundLoopsStopWithServer(t *testing.T) {
	server, err := NewServer(config.ServerConfig{Addr: "127.0.0.1:0"}, http.NotFoundHandler(), nil)
	if err != nil {
		t.Fatalf("Failed to create test server: %v", err)
	}

	var started, stopped atomic.Bool
	server.Go(func(ctx context.Context) error {
		started.Store(true)
		<-ctx.Done()
		stopped.Store(true)
		return nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- server.Start(ctx) }()

	deadline := time.Now().Add(2 * time.Second)
	for !started.Load() && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	cancel()

	if err := <-done; err != nil {
		t.Fatalf("Start returned %v", err)
	}
	if !stopped.Load() {
		t.Error("background loop should be cancelled and awaited by Start")
	}
}

func TestNewServer_AddressInUse(t *testing.T) {
	first, _, _ := setupTestServer(t, http.NotFoundHandler())

	if _, err := NewServer(config.ServerConfig{Addr: first.Addr()}, http.NotFoundHandler(), nil); err == nil {
		t.Error("binding an address in use should fail")
	}
}
