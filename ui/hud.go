package ui

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/ecosim/components"
)

// HUDData holds everything the top-left HUD shows.
type HUDData struct {
	Title         string
	Tick          int64
	FPS           int
	Speed         float64
	Paused        bool
	ByDiet        [components.NumDiets]int
	MaxGeneration int
	Plants        int
	Meat          int
}

// HUD renders the main heads-up display.
type HUD struct {
	renderer *Renderer
}

// NewHUD creates a new HUD renderer.
func NewHUD() *HUD {
	return &HUD{renderer: NewRenderer()}
}

// Draw renders the HUD.
func (h *HUD) Draw(data HUDData) {
	r := h.renderer
	r.DrawPanel(5, 5, 300, 95)

	rl.DrawText(data.Title, 15, 12, 20, rl.RayWhite)

	// Population by diet, each in its color
	x := int32(15)
	names := components.DietNames()
	for d, n := range data.ByDiet {
		text := fmt.Sprintf("%s %d", names[d], n)
		rl.DrawText(text, x, 38, 14, DietColors[d])
		x += rl.MeasureText(text, 14) + 12
	}

	rl.DrawText(
		fmt.Sprintf("Gen %d | Plants %d | Meat %d", data.MaxGeneration, data.Plants, data.Meat),
		15, 56, 14, rl.LightGray,
	)
	rl.DrawText(
		fmt.Sprintf("Tick %d | Speed %.1fx | FPS %d", data.Tick, data.Speed, data.FPS),
		15, 74, 14, rl.LightGray,
	)

	if data.Paused {
		rl.DrawText("PAUSED", 230, 12, 16, rl.Yellow)
	}
}

// DrawControls renders the key legend at the bottom of the screen.
func (h *HUD) DrawControls(screenHeight int32, legend string) {
	rl.DrawText(legend, 10, screenHeight-22, 14, rl.Gray)
}
