// Package server exposes the running simulation to websocket observers.
// The hub never touches simulation state: the frame loop pushes encoded
// snapshots in and drains operator commands out.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"github.com/pthm-cable/ecosim/game"
)

const (
	writeWait   = 5 * time.Second
	readWait    = 60 * time.Second
	clientQueue = 4
)

// Hub fans frames out to every connected client and collects their commands.
type Hub struct {
	upgrader websocket.Upgrader

	mu      sync.Mutex
	clients map[uint64]chan []byte
	last    []byte

	nextID   atomic.Uint64
	commands chan game.Command
}

// NewHub creates a hub whose command queue holds up to queue pending commands.
func NewHub(queue int) *Hub {
	return &Hub{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4 * 1024,
			WriteBufferSize: 64 * 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		clients:  make(map[uint64]chan []byte),
		commands: make(chan game.Command, max(1, queue)),
	}
}

// Commands returns the queue of commands received from clients.
func (h *Hub) Commands() <-chan game.Command {
	return h.commands
}

// Clients returns the number of connected clients.
func (h *Hub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Broadcast encodes v once and queues it for every client. A client whose
// queue is full skips this frame.
func (h *Hub) Broadcast(v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	h.last = b
	for _, out := range h.clients {
		select {
		case out <- b:
		default:
		}
	}
	return nil
}

// Routes returns the HTTP handlers: /ws for the stream, /state for the last frame.
func (h *Hub) Routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", h.handleWS)
	mux.HandleFunc("/state", h.handleState)
	return mux
}

func (h *Hub) handleState(rw http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		rw.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	h.mu.Lock()
	b := h.last
	h.mu.Unlock()
	if b == nil {
		http.Error(rw, "no frame yet", http.StatusServiceUnavailable)
		return
	}
	rw.Header().Set("Content-Type", "application/json")
	_, _ = rw.Write(b)
}

func (h *Hub) handleWS(rw http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(rw, r, nil)
	if err != nil {
		slog.Warn("websocket upgrade failed", "remote", r.RemoteAddr, "error", err)
		return
	}
	defer conn.Close()

	id := h.nextID.Add(1)
	out := make(chan []byte, clientQueue)
	h.mu.Lock()
	h.clients[id] = out
	if h.last != nil {
		out <- h.last
	}
	h.mu.Unlock()
	slog.Info("observer connected", "id", id, "remote", r.RemoteAddr)

	defer func() {
		h.mu.Lock()
		delete(h.clients, id)
		h.mu.Unlock()
		slog.Info("observer disconnected", "id", id)
	}()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	// Writer
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			select {
			case <-ctx.Done():
				return
			case b := <-out:
				_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
				if err := conn.WriteMessage(websocket.TextMessage, b); err != nil {
					cancel()
					return
				}
			}
		}
	}()

	// Reader: every text message is a command
	for {
		_ = conn.SetReadDeadline(time.Now().Add(readWait))
		_, msg, err := conn.ReadMessage()
		if err != nil {
			break
		}
		var cmd game.Command
		if err := json.Unmarshal(msg, &cmd); err != nil || cmd.Type == "" {
			slog.Debug("ignoring malformed command", "id", id, "error", err)
			continue
		}
		select {
		case h.commands <- cmd:
		default:
			slog.Warn("command queue full, dropping", "id", id, "type", cmd.Type)
		}
	}

	cancel()
	_ = conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, "bye"),
		time.Now().Add(time.Second))

	select {
	case <-done:
	case <-time.After(500 * time.Millisecond):
	}
}

// Serve runs the HTTP server until ctx is cancelled.
func Serve(ctx context.Context, addr string, h *Hub) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	srv := &http.Server{
		Handler:           h.Routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	slog.Info("observer server listening", "addr", ln.Addr().String())
	if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
