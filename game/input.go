package game

import (
	"context"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/ecosim/ui"
)

const (
	// speedStep is the multiplier change per +/- key press.
	speedStep = 0.5
	panSpeed  = 12 // screen pixels per frame
	zoomStep  = 1.1
)

// HandleInput processes keyboard and mouse input for one frame.
func (g *Game) HandleInput() {
	var cmds []Command

	if rl.IsKeyPressed(rl.KeySpace) {
		cmds = append(cmds, Command{Type: CmdTogglePause})
	}
	if rl.IsKeyPressed(rl.KeyR) {
		cmds = append(cmds, Command{Type: CmdRestart})
	}
	if rl.IsKeyPressed(rl.KeyN) {
		cmds = append(cmds, Command{Type: CmdSpawn, Count: 10})
	}

	if rl.IsKeyPressed(rl.KeyEqual) || rl.IsKeyPressed(rl.KeyKpAdd) {
		cmds = append(cmds, Command{Type: CmdSpeed, Speed: g.speed + speedStep})
	}
	if rl.IsKeyPressed(rl.KeyMinus) || rl.IsKeyPressed(rl.KeyKpSubtract) {
		cmds = append(cmds, Command{Type: CmdSpeed, Speed: g.speed - speedStep})
	}

	if rl.IsKeyPressed(rl.KeyF5) {
		cmds = append(cmds, Command{Type: CmdSave})
	}
	if rl.IsKeyPressed(rl.KeyF9) {
		cmds = append(cmds, Command{Type: CmdLoad})
	}

	g.handleCameraInput()

	// Clicks over the control panel belong to raygui
	if rl.IsMouseButtonPressed(rl.MouseButtonLeft) {
		m := rl.GetMousePosition()
		if !rl.CheckCollisionPointRec(m, controlsBounds) {
			x, y := g.cam.ScreenToWorld(m.X, m.Y)
			cmds = append(cmds, Command{Type: CmdSelect, X: x, Y: y})
		}
	}
	if rl.IsMouseButtonPressed(rl.MouseButtonRight) {
		g.ClearSelection()
	}

	g.applyAll(context.Background(), "keyboard", cmds)
}

// controlsBounds is the screen area of the raygui control panel.
var controlsBounds = rl.Rectangle{X: 10, Y: 110, Width: 200, Height: 150}

func (g *Game) handleCameraInput() {
	if rl.IsWindowResized() {
		g.cam.Resize(float32(rl.GetScreenWidth()), float32(rl.GetScreenHeight()))
		g.insp = ui.NewInspectorPanel(int32(rl.GetScreenWidth())-250, 10, 240)
	}

	if wheel := rl.GetMouseWheelMove(); wheel != 0 {
		m := rl.GetMousePosition()
		factor := float32(zoomStep)
		if wheel < 0 {
			factor = 1 / factor
		}
		g.cam.ZoomAt(factor, m.X, m.Y)
	}

	var dx, dy float32
	if rl.IsKeyDown(rl.KeyLeft) {
		dx -= panSpeed
	}
	if rl.IsKeyDown(rl.KeyRight) {
		dx += panSpeed
	}
	if rl.IsKeyDown(rl.KeyUp) {
		dy -= panSpeed
	}
	if rl.IsKeyDown(rl.KeyDown) {
		dy += panSpeed
	}
	// Middle-drag pans
	if rl.IsMouseButtonDown(rl.MouseButtonMiddle) {
		d := rl.GetMouseDelta()
		dx -= d.X
		dy -= d.Y
	}
	if dx != 0 || dy != 0 {
		g.cam.Pan(dx, dy)
	}

	if rl.IsKeyPressed(rl.KeyHome) {
		g.cam.Reset()
	}
}
