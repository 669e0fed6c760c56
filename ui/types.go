// Package ui draws the raylib heads-up display, the creature inspector and
// the raygui control panel. It only reads plain data structs so it never
// touches simulation state.
package ui

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/ecosim/components"
)

// Theme holds UI styling constants.
type Theme struct {
	PanelBg        rl.Color
	PanelBorder    rl.Color
	SectionHeader  rl.Color
	LabelColor     rl.Color
	ValueColor     rl.Color
	BarBg          rl.Color
	BarFill        rl.Color
	BarFillLow     rl.Color
	BarFillMedium  rl.Color
	BarFillHigh    rl.Color
	Padding        int32
	LineHeight     int32
	LabelWidth     int32
	BarHeight      int32
	FontSize       int32
	HeaderFontSize int32
}

// DefaultTheme returns the default UI theme.
func DefaultTheme() Theme {
	return Theme{
		PanelBg:        rl.Color{R: 12, G: 24, B: 32, A: 225},
		PanelBorder:    rl.Color{R: 50, G: 80, B: 95, A: 255},
		SectionHeader:  rl.Color{R: 120, G: 220, B: 200, A: 255},
		LabelColor:     rl.LightGray,
		ValueColor:     rl.RayWhite,
		BarBg:          rl.Color{R: 35, G: 45, B: 50, A: 255},
		BarFill:        rl.Color{R: 90, G: 170, B: 210, A: 255},
		BarFillLow:     rl.Color{R: 210, G: 90, B: 90, A: 255},
		BarFillMedium:  rl.Color{R: 210, G: 180, B: 90, A: 255},
		BarFillHigh:    rl.Color{R: 100, G: 210, B: 120, A: 255},
		Padding:        10,
		LineHeight:     16,
		LabelWidth:     70,
		BarHeight:      10,
		FontSize:       12,
		HeaderFontSize: 14,
	}
}

// DietColors are the HUD colors for herbivores, omnivores and carnivores.
var DietColors = [components.NumDiets]rl.Color{
	{R: 110, G: 220, B: 120, A: 255},
	{R: 230, G: 200, B: 90, A: 255},
	{R: 235, G: 95, B: 95, A: 255},
}

// HSV converts a hue in degrees with saturation and value in [0, 1].
func HSV(hue, sat, val float32, alpha uint8) rl.Color {
	c := rl.ColorFromHSV(hue, sat, val)
	c.A = alpha
	return c
}
