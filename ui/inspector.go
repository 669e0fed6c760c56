package ui

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/ecosim/components"
)

// InspectorData is the detail snapshot of one selected creature.
type InspectorData struct {
	ID         uint64
	Diet       string
	State      string
	Generation int
	Hue        float32
	Energy     float32
	MaxEnergy  float32
	Age        int32
	Speed      float32
	Genome     components.Genome
	FleeTicks  int32
	ReproTicks int32

	Kills       int
	Children    int
	PlantsEaten int
	MeatEaten   int
}

// InspectorPanel renders the selected creature's details.
type InspectorPanel struct {
	renderer *Renderer
	x, y     int32
	width    int32
}

// NewInspectorPanel creates a new inspector panel.
func NewInspectorPanel(x, y, width int32) *InspectorPanel {
	return &InspectorPanel{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
		width:    width,
	}
}

// Draw renders the inspector for one creature.
func (p *InspectorPanel) Draw(d InspectorData) {
	r := p.renderer
	pad := r.Theme.Padding
	inner := p.width - pad*2
	fields := components.GenomeFieldDescriptors()

	height := pad*2 + r.Theme.LineHeight*int32(14+len(fields)) + 16
	r.DrawPanel(p.x, p.y, p.width, height)

	x := p.x + pad
	y := p.y + pad

	// Title swatch in the creature's own hue
	rl.DrawCircle(x+6, y+7, 6, HSV(d.Hue, 0.7, 0.9, 255))
	rl.DrawText(fmt.Sprintf("Creature #%d", d.ID), x+18, y, 16, rl.RayWhite)
	y += r.Theme.LineHeight + 6

	y = r.DrawSectionHeader(x, y, "STATUS")
	y = r.DrawLabelValue(x, y, "Diet", d.Diet)
	y = r.DrawLabelValue(x, y, "State", d.State)
	y = r.DrawLabelValue(x, y, "Gen", fmt.Sprintf("%d", d.Generation))
	y = r.DrawLabelValue(x, y, "Age", fmt.Sprintf("%d", d.Age))
	y = r.DrawLabelValue(x, y, "Speed", fmt.Sprintf("%.2f", d.Speed))
	y = r.DrawEnergyBar(x, y, "Energy", d.Energy, d.MaxEnergy, inner)

	y = r.DrawSectionHeader(x, y, "GENOME")
	for _, fd := range fields {
		y = r.DrawRangeBar(x, y, fd, components.GenomeValue(&d.Genome, fd.ID), inner)
	}

	y = r.DrawSectionHeader(x, y, "HISTORY")
	y = r.DrawLabelValue(x, y, "Kills", fmt.Sprintf("%d", d.Kills))
	y = r.DrawLabelValue(x, y, "Children", fmt.Sprintf("%d", d.Children))
	y = r.DrawLabelValue(x, y, "Eaten", fmt.Sprintf("%d plant / %d meat", d.PlantsEaten, d.MeatEaten))
	r.DrawLabelValue(x, y, "Cooldown", fmt.Sprintf("flee %d / repro %d", d.FleeTicks, d.ReproTicks))
}
