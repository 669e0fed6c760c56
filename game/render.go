package game

import (
	"context"
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/ecosim/components"
	"github.com/pthm-cable/ecosim/systems"
	"github.com/pthm-cable/ecosim/ui"
)

const controlsLegend = "[Space] pause  [R] restart  [+/-] speed  [N] spawn  [F5] save  [F9] load  [Click] select  [Wheel/Arrows] zoom/pan  [Home] reset view"

// Draw renders one frame and applies any control panel actions.
func (g *Game) Draw() {
	rl.BeginDrawing()
	rl.ClearBackground(rl.Color{R: 8, G: 14, B: 20, A: 255})

	rl.BeginMode2D(rl.Camera2D{
		Offset: rl.Vector2{X: g.cam.ViewportW / 2, Y: g.cam.ViewportH / 2},
		Target: rl.Vector2{X: g.cam.X, Y: g.cam.Y},
		Zoom:   g.cam.Zoom,
	})
	g.drawBiomes()
	g.drawFood()
	g.drawCreatures()
	g.drawSelection()
	rl.EndMode2D()

	s := g.Stats()
	g.hud.Draw(ui.HUDData{
		Title:         "Ecosystem",
		Tick:          s.Tick,
		FPS:           s.FPS,
		Speed:         s.Speed,
		Paused:        s.Paused,
		ByDiet:        s.ByDiet,
		MaxGeneration: s.MaxGeneration,
		Plants:        s.Plants,
		Meat:          s.Meat,
	})
	g.hud.DrawControls(int32(rl.GetScreenHeight()), controlsLegend)

	actions := g.controls.Draw(g.speed, g.paused, g.cfg.Sim.MinSpeed, g.cfg.Sim.MaxSpeed)

	if data, ok := g.Inspect(); ok {
		g.insp.Draw(data)
	}

	rl.EndDrawing()

	g.applyActions(actions)
}

// applyActions runs panel actions after the frame so the buttons never
// observe a half-updated world.
func (g *Game) applyActions(a ui.Actions) {
	var cmds []Command
	if a.TogglePause {
		cmds = append(cmds, Command{Type: CmdTogglePause})
	}
	if a.Restart {
		cmds = append(cmds, Command{Type: CmdRestart})
	}
	if a.Save {
		cmds = append(cmds, Command{Type: CmdSave})
	}
	if a.Load {
		cmds = append(cmds, Command{Type: CmdLoad})
	}
	if a.Spawn {
		cmds = append(cmds, Command{Type: CmdSpawn, Count: 10})
	}
	if a.Speed != g.speed {
		cmds = append(cmds, Command{Type: CmdSpeed, Speed: a.Speed})
	}
	g.applyAll(context.Background(), "controls", cmds)
}

// drawBiomes tints each quadrant: greener for richer food, bluer for faster travel.
func (g *Game) drawBiomes() {
	halfW, halfH := g.width/2, g.height/2
	b := g.world.Biomes()
	for qy := range 2 {
		for qx := range 2 {
			x := float32(qx) * halfW
			y := float32(qy) * halfH
			zone := b.Zone(x+halfW/2, y+halfH/2)
			tint := rl.Color{
				R: 10,
				G: uint8(min(255, 14+zone.FoodMod*22)),
				B: uint8(min(255, 16+zone.SpeedMod*18)),
				A: 255,
			}
			rl.DrawRectangle(int32(x), int32(y), int32(halfW)+1, int32(halfH)+1, tint)
		}
	}
}

func (g *Game) drawFood() {
	wave := float32(math.Sin(float64(g.tick) * 0.05))
	for _, fe := range g.world.FoodEntities() {
		pos, food, ok := g.world.Food(fe)
		if !ok || !g.cam.IsVisible(pos.X, pos.Y, 12) {
			continue
		}
		center := rl.Vector2{X: pos.X, Y: pos.Y}

		switch shape := food.Shape.(type) {
		case components.PlantShape:
			stem := rl.Color{R: 70, G: 170, B: 80, A: 200}
			for _, t := range shape.Tendrils {
				a := float64(t.Angle + wave*0.25)
				tip := rl.Vector2{
					X: pos.X + float32(math.Cos(a))*t.Length,
					Y: pos.Y + float32(math.Sin(a))*t.Length,
				}
				rl.DrawLineEx(center, tip, 1, stem)
			}
			rl.DrawCircleV(center, 3, rl.Color{R: 90, G: 210, B: 100, A: 255})

		case components.MeatShape:
			alpha := uint8(255 * foodFade(food))
			col := rl.Color{R: 190, G: 60, B: 60, A: alpha}
			var v [components.MeatBlobVertices]rl.Vector2
			for i, off := range shape.Offsets {
				a := float64(i) / components.MeatBlobVertices * 2 * math.Pi
				v[i] = rl.Vector2{
					X: pos.X + float32(math.Cos(a))*5*off,
					Y: pos.Y + float32(math.Sin(a))*5*off,
				}
			}
			for i := range v {
				next := v[(i+1)%len(v)]
				rl.DrawTriangle(center, next, v[i], col)
			}
		}
	}
}

func (g *Game) drawCreatures() {
	now := g.pop.Now()
	retire := g.cfg.Corpse.RetireAfter
	for _, e := range g.pop.Entities() {
		c := g.pop.MustGet(e)
		if !g.cam.IsVisible(c.Pos.X, c.Pos.Y, c.Genome.Size) {
			continue
		}
		center := rl.Vector2{X: c.Pos.X, Y: c.Pos.Y}
		deg := c.Rot.Heading * rl.Rad2deg

		if !c.Alive() {
			fade := float32(1)
			if retire > 0 {
				fade = max(0, 1-float32(now.Sub(c.Org.DeathTime))/float32(retire))
			}
			rl.DrawPoly(center, 3, c.Genome.Size, deg, rl.Color{R: 110, G: 110, B: 110, A: uint8(160 * fade)})
			continue
		}

		val := 0.45 + 0.55*c.Energy.Ratio()
		rl.DrawPoly(center, 3, c.Genome.Size, deg, ui.HSV(c.Org.Hue, 0.75, val, 255))

		// Nose marker in the diet color
		nose := rl.Vector2{
			X: c.Pos.X + float32(math.Cos(float64(c.Rot.Heading)))*c.Genome.Size,
			Y: c.Pos.Y + float32(math.Sin(float64(c.Rot.Heading)))*c.Genome.Size,
		}
		rl.DrawCircleV(nose, 1.5, ui.DietColors[c.Genome.Diet])
	}
}

func (g *Game) drawSelection() {
	c, ok := g.Selected()
	if !ok {
		return
	}
	center := rl.Vector2{X: c.Pos.X, Y: c.Pos.Y}
	rl.DrawCircleLinesV(center, c.Genome.Size+selectPad, rl.Yellow)
	rl.DrawCircleLinesV(center, c.Genome.Perception, rl.Color{R: 255, G: 255, B: 255, A: 40})

	if p, ok := g.targetPoint(c); ok {
		rl.DrawLineV(center, rl.Vector2{X: p.X, Y: p.Y}, stateColor(c))
	}
}

// stateColor picks the target line color: red when hunting, blue when fleeing.
func stateColor(c systems.Creature) rl.Color {
	switch c.Behavior.State {
	case components.StateHunt:
		return rl.Color{R: 235, G: 95, B: 95, A: 200}
	case components.StateFlee:
		return rl.Color{R: 90, G: 160, B: 235, A: 200}
	}
	return rl.Color{R: 200, G: 200, B: 200, A: 160}
}
