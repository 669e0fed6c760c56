// Package systems holds the simulation rules: food index, world, creature behavior and genetics.
package systems

import (
	"math"

	"github.com/mlange-42/ark/ecs"
)

// cellKey addresses a grid cell by integer coordinates. Cells may be negative.
type cellKey struct {
	col, row int
}

type gridEntry struct {
	e    ecs.Entity
	x, y float32
}

// FoodGrid buckets food positions into fixed-size cells for range queries.
// It holds a snapshot: after spawns or removals it must be rebuilt before it is queried.
type FoodGrid struct {
	cellSize float32
	cells    map[cellKey][]gridEntry
}

// NewFoodGrid creates an empty grid with the given cell size.
func NewFoodGrid(cellSize float32) *FoodGrid {
	return &FoodGrid{
		cellSize: cellSize,
		cells:    make(map[cellKey][]gridEntry),
	}
}

// Clear removes all entries while keeping bucket capacity.
func (g *FoodGrid) Clear() {
	for k, bucket := range g.cells {
		g.cells[k] = bucket[:0]
	}
}

// Insert adds an entity at the given position.
func (g *FoodGrid) Insert(e ecs.Entity, x, y float32) {
	k := g.key(x, y)
	g.cells[k] = append(g.cells[k], gridEntry{e: e, x: x, y: y})
}

// QueryInto appends every entity whose distance to (x, y) is strictly less than radius.
// Cells are visited column-major around the query cell, entries in insertion order,
// so the result order is deterministic for a given grid.
func (g *FoodGrid) QueryInto(dst []ecs.Entity, x, y, radius float32) []ecs.Entity {
	center := g.key(x, y)
	cellRange := int(math.Ceil(float64(radius / g.cellSize)))
	radiusSq := radius * radius

	for dc := -cellRange; dc <= cellRange; dc++ {
		for dr := -cellRange; dr <= cellRange; dr++ {
			bucket := g.cells[cellKey{center.col + dc, center.row + dr}]
			for _, en := range bucket {
				if distanceSq(x, y, en.x, en.y) < radiusSq {
					dst = append(dst, en.e)
				}
			}
		}
	}
	return dst
}

// Query returns a fresh slice of entities within radius.
func (g *FoodGrid) Query(x, y, radius float32) []ecs.Entity {
	return g.QueryInto(nil, x, y, radius)
}

func (g *FoodGrid) key(x, y float32) cellKey {
	return cellKey{
		col: int(math.Floor(float64(x / g.cellSize))),
		row: int(math.Floor(float64(y / g.cellSize))),
	}
}
