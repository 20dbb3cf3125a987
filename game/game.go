package game

import (
	"fmt"
	"log/slog"
	"math/rand"

	"github.com/pthm-cable/wonderland/config"
	"github.com/pthm-cable/wonderland/neural"
	"github.com/pthm-cable/wonderland/telemetry"
	"github.com/pthm-cable/wonderland/wonderland"
)

// Options configures a Game.
type Options struct {
	Seed      int64          // Base seed; try i is reset with Seed+i
	Config    *config.Config // nil uses config.Cfg()
	Brain     *neural.FFNN   // nil draws a random brain from Seed
	LogStats  bool           // Log window and try stats via slog
	OutputDir string         // CSV and config output; empty disables

	StatsCallback func(telemetry.WindowStats) // Called on every telemetry flush
	TryCallback   func(telemetry.TryStats)    // Called when a try ends
}

// Game drives the homeostatic engine through tries in a headless scene.
type Game struct {
	cfg    *config.Config
	seed   int64
	rng    *rand.Rand
	scene  *Scene
	engine *wonderland.Engine
	brain  *neural.FFNN

	// Sensor scratch
	sensors  neural.SensoryInputs
	inputBuf []float32

	// Current try
	try       int
	tick      int32
	tryStats  telemetry.TryStats
	tries     []telemetry.TryStats
	totalFit  float64
	lastDelta float64

	// Telemetry
	collector     *telemetry.Collector
	perfCollector *telemetry.PerfCollector
	bookmarks     *telemetry.BookmarkDetector
	outputManager *telemetry.OutputManager
	logStats      bool
	statsCallback func(telemetry.WindowStats)
	tryCallback   func(telemetry.TryStats)
}

// NewGame creates a game with its scene, engine and brain.
func NewGame(opts Options) (*Game, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Cfg()
	}

	g := &Game{
		cfg:           cfg,
		seed:          opts.Seed,
		rng:           rand.New(rand.NewSource(opts.Seed)),
		scene:         NewScene(cfg),
		engine:        wonderland.NewEngine(cfg),
		brain:         opts.Brain,
		inputBuf:      make([]float32, neural.NumInputs),
		collector:     telemetry.NewCollector(cfg.Telemetry.StatsWindow),
		perfCollector: telemetry.NewPerfCollector(cfg.Telemetry.PerfCollectorWindow),
		bookmarks:     telemetry.NewBookmarkDetector(cfg.Telemetry.BookmarkHistory, cfg.Health.Setpoint),
		logStats:      opts.LogStats,
		statsCallback: opts.StatsCallback,
		tryCallback:   opts.TryCallback,
	}

	if g.brain == nil {
		g.brain = neural.NewFFNN(g.rng, cfg.Neural.InitSigma)
	}

	om, err := telemetry.NewOutputManager(opts.OutputDir)
	if err != nil {
		return nil, fmt.Errorf("creating output manager: %w", err)
	}
	g.outputManager = om
	if om != nil {
		if err := om.WriteConfig(cfg); err != nil {
			om.Close()
			return nil, fmt.Errorf("writing config: %w", err)
		}
		if err := om.WriteFile("brain.json", g.brain.SaveJSON); err != nil {
			om.Close()
			return nil, err
		}
		slog.Info("output enabled", "dir", om.Dir())
	}

	return g, nil
}

// Close flushes and closes any output files.
func (g *Game) Close() error {
	return g.outputManager.Close()
}

// Engine returns the homeostatic engine.
func (g *Game) Engine() *wonderland.Engine {
	return g.engine
}

// Scene returns the ECS scene.
func (g *Game) Scene() *Scene {
	return g.scene
}

// Brain returns the network driving Alice.
func (g *Game) Brain() *neural.FFNN {
	return g.brain
}

// Tick returns the tick within the current try.
func (g *Game) Tick() int32 {
	return g.tick
}

// Fitness returns the summed fitness of all completed tries.
func (g *Game) Fitness() float64 {
	return g.totalFit
}

// Tries returns the summaries of completed tries.
func (g *Game) Tries() []telemetry.TryStats {
	return g.tries
}

// TrySeed returns the engine seed of try i.
func (g *Game) TrySeed(i int) int64 {
	return g.seed + int64(i)
}
