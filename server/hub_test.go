package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/pthm-cable/ecosim/config"
	"github.com/pthm-cable/ecosim/game"
)

func newTestGame(t *testing.T) *game.Game {
	t.Helper()
	cfg := config.Defaults()
	cfg.Population.Initial = 5
	cfg.World.InitialFood = 10
	g, err := game.NewGame(cfg, game.Options{Seed: 3, Headless: true})
	if err != nil {
		t.Fatalf("NewGame: %v", err)
	}
	t.Cleanup(g.Unload)
	return g
}

func dial(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for %s", what)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestHubBroadcastsFrames(t *testing.T) {
	hub := NewHub(8)
	srv := httptest.NewServer(hub.Routes())
	defer srv.Close()

	conn := dial(t, srv)
	waitFor(t, "client registration", func() bool { return hub.Clients() == 1 })

	g := newTestGame(t)
	NewBridge(hub, g, time.Second).Sync(context.Background(), time.Now())

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, msg, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read: %v", err)
	}

	var v game.View
	if err := json.Unmarshal(msg, &v); err != nil {
		t.Fatalf("decode frame: %v", err)
	}
	if len(v.Creatures) != 5 {
		t.Errorf("creatures = %d, want 5", len(v.Creatures))
	}
	if v.Stats.Alive != 5 {
		t.Errorf("alive = %d, want 5", v.Stats.Alive)
	}
}

func TestHubForwardsCommands(t *testing.T) {
	hub := NewHub(8)
	srv := httptest.NewServer(hub.Routes())
	defer srv.Close()

	conn := dial(t, srv)
	if err := conn.WriteJSON(game.Command{Type: game.CmdPause}); err != nil {
		t.Fatalf("write: %v", err)
	}
	// Malformed messages are dropped without closing the connection
	if err := conn.WriteMessage(websocket.TextMessage, []byte("{not json")); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := conn.WriteJSON(game.Command{Type: game.CmdSpeed, Speed: 2}); err != nil {
		t.Fatalf("write: %v", err)
	}
	waitFor(t, "queued commands", func() bool { return len(hub.commands) == 2 })

	g := newTestGame(t)
	NewBridge(hub, g, time.Second).Sync(context.Background(), time.Now())

	if !g.Paused() {
		t.Error("game not paused after pause command")
	}
	if g.Speed() != 2 {
		t.Errorf("speed = %v, want 2", g.Speed())
	}
	if len(hub.commands) != 0 {
		t.Errorf("%d commands left in queue", len(hub.commands))
	}
}

func TestBridgeThrottlesFrames(t *testing.T) {
	hub := NewHub(1)
	g := newTestGame(t)
	b := NewBridge(hub, g, time.Second)

	start := time.Now()
	b.Sync(context.Background(), start)
	first := hub.last

	g.Step()
	b.Sync(context.Background(), start.Add(100*time.Millisecond))
	if string(hub.last) != string(first) {
		t.Error("frame published before interval elapsed")
	}

	b.Sync(context.Background(), start.Add(time.Second))
	if string(hub.last) == string(first) {
		t.Error("frame not published after interval elapsed")
	}
}

func TestStateEndpoint(t *testing.T) {
	hub := NewHub(1)
	srv := httptest.NewServer(hub.Routes())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/state")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Errorf("status before first frame = %d, want 503", resp.StatusCode)
	}

	if err := hub.Broadcast(map[string]int{"tick": 7}); err != nil {
		t.Fatalf("broadcast: %v", err)
	}
	resp, err = http.Get(srv.URL + "/state")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()
	var got map[string]int
	if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got["tick"] != 7 {
		t.Errorf("tick = %d, want 7", got["tick"])
	}
}
