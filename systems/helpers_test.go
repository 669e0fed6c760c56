package systems

import (
	"math"
	"math/rand"
	"testing"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/ecosim/components"
	"github.com/pthm-cable/ecosim/config"
)

// newTestSim builds a world and population sharing one ECS world.
// Plant regrowth is disabled so tests control the food population.
func newTestSim(t *testing.T, mutate func(*config.Config)) (*World, *Population) {
	t.Helper()
	cfg := config.Defaults()
	cfg.World.BaseSpawnRate = 0
	if mutate != nil {
		mutate(cfg)
	}
	ew := ecs.NewWorld()
	rng := rand.New(rand.NewSource(7))
	return NewWorld(ew, cfg, rng), NewPopulation(ew, cfg, rng)
}

func genome(diet components.Diet, size, speed float32) components.Genome {
	return components.Genome{
		Speed:      speed,
		Perception: 100,
		Size:       size,
		Diet:       diet,
		Efficiency: 1,
	}
}

func approxEqual(a, b, eps float32) bool {
	return math.Abs(float64(a-b)) <= float64(eps)
}
