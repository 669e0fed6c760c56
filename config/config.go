// Package config provides configuration loading and access for the simulation.
package config

import (
	_ "embed"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all simulation configuration parameters.
type Config struct {
	Screen       ScreenConfig       `yaml:"screen"`
	World        WorldConfig        `yaml:"world"`
	Biomes       []BiomeConfig      `yaml:"biomes"`
	Population   PopulationConfig   `yaml:"population"`
	Creature     CreatureConfig     `yaml:"creature"`
	Reproduction ReproductionConfig `yaml:"reproduction"`
	Combat       CombatConfig       `yaml:"combat"`
	Corpse       CorpseConfig       `yaml:"corpse"`
	Sim          SimConfig          `yaml:"sim"`
	Telemetry    TelemetryConfig    `yaml:"telemetry"`
	Persist      PersistConfig      `yaml:"persist"`
	Server       ServerConfig       `yaml:"server"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds display settings.
type ScreenConfig struct {
	Width     int `yaml:"width"`
	Height    int `yaml:"height"`
	TargetFPS int `yaml:"target_fps"`
}

// WorldConfig holds world dimensions and food dynamics.
type WorldConfig struct {
	Width         int     `yaml:"width"`  // 0 = use screen width
	Height        int     `yaml:"height"` // 0 = use screen height
	GridCellSize  float64 `yaml:"grid_cell_size"`
	BaseSpawnRate float64 `yaml:"base_spawn_rate"` // plant spawns per 60 ticks at speed 1
	InitialFood   int     `yaml:"initial_food"`
	PlantEnergy   float64 `yaml:"plant_energy"`
	MeatDecay     float64 `yaml:"meat_decay"` // ticks until meat disappears
	ClusterChance float64 `yaml:"cluster_chance"`
	ClusterMin    float64 `yaml:"cluster_min"`
	ClusterMax    float64 `yaml:"cluster_max"`
	UniformMargin float64 `yaml:"uniform_margin"`
	EdgeMargin    float64 `yaml:"edge_margin"`
	BiomeBlend    float64 `yaml:"biome_blend"`
}

// BiomeConfig describes one quadrant biome. Order is NW, NE, SW, SE.
type BiomeConfig struct {
	Name     string  `yaml:"name"`
	FoodMod  float64 `yaml:"food_mod"`
	SpeedMod float64 `yaml:"speed_mod"`
}

// GenomeConfig is a literal genome used for injected founders.
type GenomeConfig struct {
	Speed      float64 `yaml:"speed"`
	Perception float64 `yaml:"perception"`
	Size       float64 `yaml:"size"`
	Diet       int     `yaml:"diet"`
	Efficiency float64 `yaml:"efficiency"`
}

// PopulationConfig holds population management parameters.
type PopulationConfig struct {
	Initial         int          `yaml:"initial"`
	Max             int          `yaml:"max"`
	LowThreshold    int          `yaml:"low_threshold"`
	LowTicks        int          `yaml:"low_ticks"`
	LowRespawn      int          `yaml:"low_respawn"`
	HerbivoreRescue int          `yaml:"herbivore_rescue"`
	RescueGenome    GenomeConfig `yaml:"rescue_genome"`
}

// CreatureConfig holds locomotion and metabolism parameters.
type CreatureConfig struct {
	EnergyPerSize       float64 `yaml:"energy_per_size"`
	InitialEnergy       float64 `yaml:"initial_energy"` // fraction of max
	InitialSpeed        float64 `yaml:"initial_speed"`
	Hunger              float64 `yaml:"hunger"` // hungry below this fraction of max
	IdleCost            float64 `yaml:"idle_cost"`
	MoveCost            float64 `yaml:"move_cost"`
	SizeNorm            float64 `yaml:"size_norm"`
	Drag                float64 `yaml:"drag"`
	TurnRate            float64 `yaml:"turn_rate"`
	Thrust              float64 `yaml:"thrust"`
	FacingThreshold     float64 `yaml:"facing_threshold"`
	WanderTurnChance    float64 `yaml:"wander_turn_chance"`
	WanderTurnRange     float64 `yaml:"wander_turn_range"`
	EdgeRestitution     float64 `yaml:"edge_restitution"`
	EatQueryPad         float64 `yaml:"eat_query_pad"`
	EatReachPad         float64 `yaml:"eat_reach_pad"`
	CarnivorePlantYield float64 `yaml:"carnivore_plant_yield"`
}

// ReproductionConfig holds reproduction and mutation parameters.
type ReproductionConfig struct {
	Threshold      float64 `yaml:"threshold"`
	MaturityAge    int     `yaml:"maturity_age"`
	Cooldown       int     `yaml:"cooldown"`
	Cost           float64 `yaml:"cost"`
	MutationRate   float64 `yaml:"mutation_rate"`
	MutationScale  float64 `yaml:"mutation_scale"`
	HueDriftChance float64 `yaml:"hue_drift_chance"`
	HueDrift       float64 `yaml:"hue_drift"`
	OffsetFactor   float64 `yaml:"offset_factor"`
}

// CombatConfig holds predation parameters.
type CombatConfig struct {
	AttackRatio  float64 `yaml:"attack_ratio"`
	BaseKill     float64 `yaml:"base_kill"`
	SizeFactor   float64 `yaml:"size_factor"`
	SpeedFactor  float64 `yaml:"speed_factor"`
	FleeCooldown int     `yaml:"flee_cooldown"`
	Reward       float64 `yaml:"reward"`
	MeatFraction float64 `yaml:"meat_fraction"`
}

// CorpseConfig holds corpse retention parameters.
type CorpseConfig struct {
	RetireAfter time.Duration `yaml:"retire_after"` // wall-clock
}

// SimConfig holds run-speed parameters.
type SimConfig struct {
	Speed    float64 `yaml:"speed"`
	MinSpeed float64 `yaml:"min_speed"`
	MaxSpeed float64 `yaml:"max_speed"`
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	WindowTicks int `yaml:"window_ticks"`
}

// PersistConfig selects the save store.
type PersistConfig struct {
	Backend string `yaml:"backend"` // memory, sqlite, file
	Path    string `yaml:"path"`
	Key     string `yaml:"key"`
}

// ServerConfig holds websocket observer settings.
type ServerConfig struct {
	Addr          string        `yaml:"addr"` // empty = disabled
	FrameInterval time.Duration `yaml:"frame_interval"`
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	WorldW32 float32 // Effective world width
	WorldH32 float32 // Effective world height
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	cfg.computeDerived()

	return cfg, nil
}

// Defaults returns a fresh copy of the embedded defaults.
func Defaults() *Config {
	cfg, err := Load("")
	if err != nil {
		panic(fmt.Sprintf("config: embedded defaults invalid: %v", err))
	}
	return cfg
}

func (c *Config) validate() error {
	if len(c.Biomes) != 4 {
		return fmt.Errorf("config: expected 4 biomes (NW, NE, SW, SE), got %d", len(c.Biomes))
	}
	if c.World.GridCellSize <= 0 {
		return fmt.Errorf("config: world.grid_cell_size must be positive")
	}
	if c.Population.Max <= 0 {
		return fmt.Errorf("config: population.max must be positive")
	}
	if c.Sim.MinSpeed <= 0 || c.Sim.MaxSpeed < c.Sim.MinSpeed {
		return fmt.Errorf("config: invalid sim speed range [%v, %v]", c.Sim.MinSpeed, c.Sim.MaxSpeed)
	}
	return nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	worldW := c.World.Width
	if worldW == 0 {
		worldW = c.Screen.Width
	}
	worldH := c.World.Height
	if worldH == 0 {
		worldH = c.Screen.Height
	}
	c.Derived.WorldW32 = float32(worldW)
	c.Derived.WorldH32 = float32(worldH)
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
