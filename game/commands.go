package game

import (
	"context"
	"fmt"
	"log/slog"
)

// CommandType names an operator command.
type CommandType string

const (
	CmdPause       CommandType = "pause"
	CmdResume      CommandType = "resume"
	CmdTogglePause CommandType = "toggle_pause"
	CmdRestart     CommandType = "restart"
	CmdSpeed       CommandType = "speed"
	CmdSave        CommandType = "save"
	CmdLoad        CommandType = "load"
	CmdSpawn       CommandType = "spawn"
	CmdSelect      CommandType = "select"
)

// Command is an operator request, as sent by the UI or a websocket client.
type Command struct {
	Type  CommandType `json:"type"`
	Speed float64     `json:"speed,omitempty"`
	Count int         `json:"count,omitempty"`
	X     float32     `json:"x,omitempty"`
	Y     float32     `json:"y,omitempty"`
}

// Apply runs a command between frames.
func (g *Game) Apply(ctx context.Context, cmd Command) error {
	switch cmd.Type {
	case CmdPause:
		g.Pause()
	case CmdResume:
		g.Resume()
	case CmdTogglePause:
		g.TogglePause()
	case CmdRestart:
		g.Restart()
	case CmdSpeed:
		g.SetSpeed(cmd.Speed)
	case CmdSave:
		return g.Save(ctx)
	case CmdLoad:
		return g.Load(ctx)
	case CmdSpawn:
		g.SpawnRandom(cmd.Count)
	case CmdSelect:
		g.SelectAt(cmd.X, cmd.Y)
	default:
		return fmt.Errorf("unknown command %q", cmd.Type)
	}
	return nil
}

// SafeApply is Apply under the same panic guard as SafeUpdate, for commands
// issued from the frame loop.
func (g *Game) SafeApply(ctx context.Context, cmd Command) error {
	return g.guard(string(cmd.Type), func() error {
		return g.Apply(ctx, cmd)
	})
}

// applyAll runs commands in order, logging failures with their source.
func (g *Game) applyAll(ctx context.Context, source string, cmds []Command) {
	for _, cmd := range cmds {
		if err := g.SafeApply(ctx, cmd); err != nil {
			slog.Warn("command failed", "source", source, "command", cmd.Type, "error", err)
		}
	}
}

// Pause stops ticks; frames keep running.
func (g *Game) Pause() {
	g.paused = true
}

// Resume re-enables ticks.
func (g *Game) Resume() {
	g.paused = false
}

// TogglePause flips the pause gate.
func (g *Game) TogglePause() {
	g.paused = !g.paused
}

// SetSpeed sets the tick multiplier, clamped to the configured range.
func (g *Game) SetSpeed(s float64) {
	g.speed = clampSpeed(g.cfg, s)
	slog.Debug("speed changed", "speed", g.speed)
}
