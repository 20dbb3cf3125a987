package main

import (
	"flag"
	"log/slog"
	"os"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/pthm-cable/wonderland/config"
	"github.com/pthm-cable/wonderland/game"
	"github.com/pthm-cable/wonderland/neural"
	"github.com/pthm-cable/wonderland/persistence"
	"github.com/pthm-cable/wonderland/telemetry"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	seed := flag.Int64("seed", 0, "Base seed; try i uses seed+i (0 = time-based)")
	tries := flag.Int("tries", 0, "Tries to run (0 = use config)")
	steps := flag.Int("steps", 0, "Steps per try (0 = use config)")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs and config snapshot")
	dbPath := flag.String("db", "", "SQLite database for run history (empty = disabled)")
	brainPath := flag.String("brain", "", "Brain weights JSON (empty = random brain)")
	logStats := flag.Bool("log-stats", false, "Output stats via slog")

	flag.Parse()

	// Set up slog (JSON to stdout for structured logging)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// Initialize config before anything else
	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg().Clone()
	if *tries > 0 {
		cfg.Episode.Tries = *tries
	}
	if *steps > 0 {
		cfg.Episode.StepsPerTry = *steps
	}

	// Set up seed
	rngSeed := *seed
	if rngSeed == 0 {
		rngSeed = time.Now().UnixNano()
	}

	var brain *neural.FFNN
	if *brainPath != "" {
		b, err := neural.LoadJSON(*brainPath)
		if err != nil {
			slog.Error("failed to load brain", "error", err)
			os.Exit(1)
		}
		brain = b
	}

	// Optional run history
	var db *persistence.DB
	run := persistence.NewRun(rngSeed, cfg.Episode.Tries, cfg.Episode.StepsPerTry, *brainPath)
	if *dbPath != "" {
		d, err := persistence.Open(*dbPath)
		if err != nil {
			slog.Error("failed to open database", "error", err)
			os.Exit(1)
		}
		defer d.Close()
		db = d
		if err := db.SaveRun(run); err != nil {
			slog.Error("failed to save run", "error", err)
			os.Exit(1)
		}
	}

	opts := game.Options{
		Seed:      rngSeed,
		Config:    cfg,
		Brain:     brain,
		LogStats:  *logStats,
		OutputDir: *outputDir,
		TryCallback: func(ts telemetry.TryStats) {
			if db == nil {
				return
			}
			if err := db.SaveTry(run.ID, ts); err != nil {
				slog.Error("failed to save try", "error", err)
			}
		},
	}

	g, err := game.NewGame(opts)
	if err != nil {
		slog.Error("failed to create game", "error", err)
		os.Exit(1)
	}
	defer g.Close()

	slog.Info("starting run",
		"run_id", run.ID,
		"seed", rngSeed,
		"tries", cfg.Episode.Tries,
		"steps_per_try", cfg.Episode.StepsPerTry,
	)

	start := time.Now()
	run.TotalFitness = g.Run()

	if db != nil {
		if err := db.SaveRun(run); err != nil {
			slog.Error("failed to save run", "error", err)
		}
	}

	var ticks, died int
	for _, ts := range g.Tries() {
		ticks += ts.Ticks
		if ts.Died {
			died++
		}
	}
	elapsed := time.Since(start)
	var tps int64
	if elapsed > 0 {
		tps = int64(float64(ticks) / elapsed.Seconds())
	}
	slog.Info("run finished",
		"run_id", run.ID,
		"fitness", humanize.Commaf(run.TotalFitness),
		"ticks", humanize.Comma(int64(ticks)),
		"died", died,
		"ticks_per_sec", humanize.Comma(tps),
		"elapsed", elapsed.Round(time.Millisecond).String(),
	)
}
