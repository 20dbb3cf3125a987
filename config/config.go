// Package config provides configuration loading and access for the wonderland engine.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// NumFoodSources is the number of food sources in the scene.
const NumFoodSources = 4

// Config holds all engine and host configuration parameters.
type Config struct {
	Episode   EpisodeConfig   `yaml:"episode"`
	Daylight  DaylightConfig  `yaml:"daylight"`
	Babble    BabbleConfig    `yaml:"babble"`
	Food      FoodConfig      `yaml:"food"`
	Health    HealthConfig    `yaml:"health"`
	Bully     BullyConfig     `yaml:"bully"`
	Scene     SceneConfig     `yaml:"scene"`
	Neural    NeuralConfig    `yaml:"neural"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// EpisodeConfig controls how the host drives tries.
type EpisodeConfig struct {
	Tries            int     `yaml:"tries"`              // Tries per individual
	StepsPerTry      int     `yaml:"steps_per_try"`      // Maximum ticks per try
	TerminateOnDeath bool    `yaml:"terminate_on_death"` // End the try when health drops to DeathHealth
	DeathHealth      float64 `yaml:"death_health"`       // Health at or below this terminates the try
}

// DaylightConfig holds the day/night oscillator parameters.
type DaylightConfig struct {
	Change  float64 `yaml:"change"`  // Level change per tick
	Upper   float64 `yaml:"upper"`   // Level above this starts falling
	Lower   float64 `yaml:"lower"`   // Level at or below this starts rising
	Initial float64 `yaml:"initial"` // Level before the first tick
}

// BabbleConfig holds the social drive parameters.
type BabbleConfig struct {
	Increment         float64 `yaml:"increment"`           // Growth per tick away from friends
	Decrement         float64 `yaml:"decrement"`           // Decay per tick near a friend
	MaxFriendDistance float64 `yaml:"max_friend_distance"` // Ground-plane distance counted as "near"
}

// FoodConfig holds food source parameters.
type FoodConfig struct {
	MaxEatDistance  float64    `yaml:"max_eat_distance"`
	Increment       float64    `yaml:"increment"`      // Hunger removed by a good source
	Decrement       float64    `yaml:"decrement"`      // Hunger added per tick
	EatThreshold    float64    `yaml:"eat_threshold"`  // EatFood signal above this consumes
	InitialHunger   float64    `yaml:"initial_hunger"` // Hunger at reset
	Color           [3]float64 `yaml:"color"`          // RGB of an enabled source
	TypeLightBright float64    `yaml:"type_light_bright"`
	TypeLightDim    float64    `yaml:"type_light_dim"`
}

// HealthConfig holds health homeostasis parameters.
type HealthConfig struct {
	Setpoint float64 `yaml:"setpoint"` // Value health is pulled toward
	Change   float64 `yaml:"change"`   // Pull per tick
	Initial  float64 `yaml:"initial"`  // Health at reset
	GoodFood float64 `yaml:"good_food"`
	BadFood  float64 `yaml:"bad_food"`
}

// BullyConfig holds adversary parameters.
type BullyConfig struct {
	MaxDistance float64 `yaml:"max_distance"`
	Pain        float64 `yaml:"pain"` // Health removed per adversary in range
}

// SceneConfig holds the headless host scene layout and motion.
type SceneConfig struct {
	ArenaHalfSize float64      `yaml:"arena_half_size"` // Arena spans [-h, h] on X and Z
	AliceStart    [3]float64   `yaml:"alice_start"`
	FriendStarts  [][3]float64 `yaml:"friend_starts"`
	BadGuyStarts  [][3]float64 `yaml:"badguy_starts"`
	FoodPositions [][3]float64 `yaml:"food_positions"`
	AliceSpeed    float64      `yaml:"alice_speed"`  // Max forward distance per tick
	AliceTurn     float64      `yaml:"alice_turn"`   // Max heading change per tick (rad)
	FriendSpeed   float64      `yaml:"friend_speed"` // Distance per tick
	BadGuySpeed   float64      `yaml:"badguy_speed"` // Distance per tick
	NoiseScale    float64      `yaml:"noise_scale"`  // Wander noise frequency per tick
	SensorRange   float64      `yaml:"sensor_range"` // Light sensor falloff distance
}

// NeuralConfig holds brain parameters.
type NeuralConfig struct {
	InitSigma float64 `yaml:"init_sigma"` // Std-dev scale of random initial weights
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	StatsWindow         int `yaml:"stats_window"` // Ticks per stats window
	PerfCollectorWindow int `yaml:"perf_collector_window"`
	BookmarkHistory     int `yaml:"bookmark_history"` // Windows of rolling history for bookmark detection
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

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// Validate rejects configurations the host cannot run.
func (c *Config) Validate() error {
	var errs []error
	if c.Episode.Tries < 1 {
		errs = append(errs, fmt.Errorf("episode.tries must be >= 1, got %d", c.Episode.Tries))
	}
	if c.Episode.StepsPerTry < 1 {
		errs = append(errs, fmt.Errorf("episode.steps_per_try must be >= 1, got %d", c.Episode.StepsPerTry))
	}
	if n := len(c.Scene.FoodPositions); n != NumFoodSources {
		errs = append(errs, fmt.Errorf("scene.food_positions needs %d entries, got %d", NumFoodSources, n))
	}
	if n := len(c.Scene.FriendStarts); n != 2 {
		errs = append(errs, fmt.Errorf("scene.friend_starts needs 2 entries, got %d", n))
	}
	if n := len(c.Scene.BadGuyStarts); n != 2 {
		errs = append(errs, fmt.Errorf("scene.badguy_starts needs 2 entries, got %d", n))
	}
	if c.Telemetry.StatsWindow < 1 {
		errs = append(errs, fmt.Errorf("telemetry.stats_window must be >= 1, got %d", c.Telemetry.StatsWindow))
	}
	return errors.Join(errs...)
}

// Clone returns a deep copy of the configuration.
func (c *Config) Clone() *Config {
	out := *c
	out.Scene.FriendStarts = append([][3]float64(nil), c.Scene.FriendStarts...)
	out.Scene.BadGuyStarts = append([][3]float64(nil), c.Scene.BadGuyStarts...)
	out.Scene.FoodPositions = append([][3]float64(nil), c.Scene.FoodPositions...)
	return &out
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
