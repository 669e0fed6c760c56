package server

import (
	"context"
	"log/slog"
	"time"

	"github.com/pthm-cable/ecosim/game"
)

// Bridge connects a hub to a game from the frame loop goroutine.
type Bridge struct {
	hub      *Hub
	game     *game.Game
	interval time.Duration
	lastSent time.Time
}

// NewBridge creates a bridge publishing at most one frame per interval.
func NewBridge(h *Hub, g *game.Game, interval time.Duration) *Bridge {
	return &Bridge{hub: h, game: g, interval: interval}
}

// Sync applies every queued command, then publishes a snapshot if the
// frame interval has elapsed. It must run between frames.
func (b *Bridge) Sync(ctx context.Context, now time.Time) {
	for drained := false; !drained; {
		select {
		case cmd := <-b.hub.Commands():
			if err := b.game.SafeApply(ctx, cmd); err != nil {
				slog.Warn("observer command failed", "type", cmd.Type, "error", err)
			}
		default:
			drained = true
		}
	}

	if !b.lastSent.IsZero() && now.Sub(b.lastSent) < b.interval {
		return
	}
	b.lastSent = now
	if err := b.hub.Broadcast(b.game.View()); err != nil {
		slog.Error("failed to encode frame", "error", err)
	}
}
