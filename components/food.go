// Package components defines ECS components for the simulation.
package components

import "math"

// FoodKind discriminates plant food from meat.
type FoodKind uint8

const (
	FoodPlant FoodKind = iota
	FoodMeat
)

// Food is a consumable item. Position lives in its own component.
// Age increases every world tick; meat is removed once Age >= Decay.
type Food struct {
	Kind   FoodKind
	Energy float32
	Age    float32
	Decay  float32 // +Inf for plants
	Shape  FoodShape
}

// IsMeat reports whether the food is meat.
func (f *Food) IsMeat() bool {
	return f.Kind == FoodMeat
}

// Expired reports whether the food has reached its decay horizon.
func (f *Food) Expired() bool {
	return f.Age >= f.Decay
}

// NoDecay is the decay horizon of plant food.
var NoDecay = float32(math.Inf(1))

// FoodShape is the per-kind appearance data consumed by renderers.
// Exactly one of PlantShape or MeatShape is stored, selected by Food.Kind.
type FoodShape interface {
	foodShape()
}

// Tendril is one wavy strand of a plant.
type Tendril struct {
	Angle  float32
	Length float32
}

// PlantShape holds the tendrils of a plant.
type PlantShape struct {
	Tendrils []Tendril
}

// MeatBlobVertices is the vertex count of a meat blob.
const MeatBlobVertices = 5

// MeatShape holds the per-vertex radius scale of a meat blob.
type MeatShape struct {
	Offsets [MeatBlobVertices]float32
}

func (PlantShape) foodShape() {}
func (MeatShape) foodShape()  {}
