package ui

import (
	"fmt"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"
)

// Actions are the operator requests raised by the controls panel this frame.
// Speed is always the slider value; the caller compares it to the current one.
type Actions struct {
	TogglePause bool
	Restart     bool
	Save        bool
	Load        bool
	Spawn       bool
	Speed       float64
}

// ControlsPanel renders the raygui button strip and speed slider.
type ControlsPanel struct {
	renderer *Renderer
	x, y     int32
	width    int32
}

// NewControlsPanel creates a new controls panel.
func NewControlsPanel(x, y, width int32) *ControlsPanel {
	return &ControlsPanel{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
		width:    width,
	}
}

// Draw renders the panel and reports which controls were used.
func (c *ControlsPanel) Draw(speed float64, paused bool, minSpeed, maxSpeed float64) Actions {
	r := c.renderer
	pad := float32(r.Theme.Padding)
	px, py := float32(c.x), float32(c.y)
	w := float32(c.width)
	half := (w - pad*3) / 2

	r.DrawPanel(c.x, c.y, c.width, 150)

	a := Actions{Speed: speed}
	row := py + pad

	pauseText := "Pause"
	if paused {
		pauseText = "Resume"
	}
	a.TogglePause = gui.Button(rl.Rectangle{X: px + pad, Y: row, Width: half, Height: 24}, pauseText)
	a.Restart = gui.Button(rl.Rectangle{X: px + pad*2 + half, Y: row, Width: half, Height: 24}, "Restart")
	row += 30

	a.Save = gui.Button(rl.Rectangle{X: px + pad, Y: row, Width: half, Height: 24}, "Save")
	a.Load = gui.Button(rl.Rectangle{X: px + pad*2 + half, Y: row, Width: half, Height: 24}, "Load")
	row += 30

	a.Spawn = gui.Button(rl.Rectangle{X: px + pad, Y: row, Width: w - pad*2, Height: 24}, "Spawn 10")
	row += 32

	rl.DrawText(fmt.Sprintf("Speed %.1fx", speed), int32(px+pad), int32(row), r.Theme.FontSize, r.Theme.LabelColor)
	row += 14
	v := gui.SliderBar(
		rl.Rectangle{X: px + pad, Y: row, Width: w - pad*2, Height: 14},
		"", "",
		float32(speed), float32(minSpeed), float32(maxSpeed),
	)
	if v != float32(speed) {
		a.Speed = float64(v)
	}
	return a
}
