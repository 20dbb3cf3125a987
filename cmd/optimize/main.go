// Package main provides CMA-ES optimization of Alice's brain weights
// against the homeostatic fitness engine.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/gocarina/gocsv"
	"gonum.org/v1/gonum/optimize"

	"github.com/pthm-cable/wonderland/config"
)

// formatDuration formats a duration as HH:MM:SS or MM:SS for shorter durations.
func formatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	h := d / time.Hour
	d -= h * time.Hour
	m := d / time.Minute
	d -= m * time.Minute
	s := d / time.Second

	if h > 0 {
		return fmt.Sprintf("%dh%02dm%02ds", h, m, s)
	}
	return fmt.Sprintf("%dm%02ds", m, s)
}

// evalRow is one line of optimize_log.csv.
type evalRow struct {
	Eval       int     `csv:"eval"`
	Fitness    float64 `csv:"fitness"`
	Best       float64 `csv:"best"`
	DeathRate  float64 `csv:"death_rate"`
	ElapsedSec float64 `csv:"elapsed_sec"`
}

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Base config YAML file (empty = use defaults)")
	steps := flag.Int("steps", 0, "Steps per try (0 = use config)")
	tries := flag.Int("tries", 0, "Tries per evaluation and seed (0 = use config)")
	seeds := flag.Int("seeds", 3, "Number of seeds per evaluation")
	maxEvals := flag.Int("max-evals", 200, "Maximum number of evaluations")
	population := flag.Int("population", 0, "CMA-ES population size (0 = auto)")
	bound := flag.Float64("bound", 5, "Absolute bound on every weight")
	outputDir := flag.String("output", "", "Output directory for results")
	flag.Parse()

	if *outputDir == "" {
		log.Fatal("--output is required")
	}

	// Create output directory
	if err := os.MkdirAll(*outputDir, 0755); err != nil {
		log.Fatalf("failed to create output directory: %v", err)
	}

	// Load base config
	if err := config.Init(*configPath); err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	baseCfg := config.Cfg().Clone()
	if *steps > 0 {
		baseCfg.Episode.StepsPerTry = *steps
	}
	if *tries > 0 {
		baseCfg.Episode.Tries = *tries
	}

	params := NewParamVector(*bound)

	// Generate seeds for evaluation
	evalSeeds := make([]int64, *seeds)
	for i := range evalSeeds {
		evalSeeds[i] = int64(i*1000 + 42)
	}

	evaluator := NewFitnessEvaluator(params, evalSeeds, baseCfg)

	// Set up CMA-ES
	dim := params.Dim()
	initX := params.InitialVector(1, baseCfg.Neural.InitSigma)

	problem := optimize.Problem{
		Func: evaluator.Evaluate,
	}

	settings := &optimize.Settings{
		FuncEvaluations: *maxEvals,
		Concurrent:      0, // Sequential evaluation; seeds already run in parallel
	}

	// Zero population lets CmaEsChol pick 4 + floor(3*ln(n))
	method := &optimize.CmaEsChol{
		InitStepSize: 0.5,
		Population:   *population,
	}

	// Open log file
	logPath := filepath.Join(*outputDir, "optimize_log.csv")
	logFile, err := os.Create(logPath)
	if err != nil {
		log.Fatalf("failed to create log file: %v", err)
	}
	defer logFile.Close()

	// Track evaluations and timing
	evalCount := 0
	headerWritten := false
	startTime := time.Now()

	// Wrap the function to log evaluations
	originalFunc := problem.Func
	problem.Func = func(x []float64) float64 {
		fitness := originalFunc(x)
		evalCount++

		best, _ := evaluator.Best()
		elapsed := time.Since(startTime)
		row := []evalRow{{
			Eval:       evalCount,
			Fitness:    fitness,
			Best:       best,
			DeathRate:  evaluator.LastDeathRate(),
			ElapsedSec: elapsed.Seconds(),
		}}
		if !headerWritten {
			err = gocsv.Marshal(row, logFile)
			headerWritten = true
		} else {
			err = gocsv.MarshalWithoutHeaders(row, logFile)
		}
		if err != nil {
			log.Printf("failed to write log row: %v", err)
		}

		// Calculate timing
		avgPerEval := elapsed / time.Duration(evalCount)
		remaining := time.Duration(*maxEvals-evalCount) * avgPerEval

		fmt.Printf("Eval %d/%d: fitness=%.0f deaths=%.0f%% (best=%.0f) | elapsed: %s, ETA: %s\n",
			evalCount, *maxEvals, -fitness, 100*evaluator.LastDeathRate(), -best,
			formatDuration(elapsed), formatDuration(remaining))

		return fitness
	}

	// Run optimization
	fmt.Printf("Starting CMA-ES optimization with %d weights, population=%d, max_evals=%d\n",
		dim, *population, *maxEvals)
	fmt.Printf("Seeds per evaluation: %d, tries: %d, steps per try: %d\n",
		*seeds, baseCfg.Episode.Tries, baseCfg.Episode.StepsPerTry)

	result, err := optimize.Minimize(problem, initX, settings, method)
	if err != nil {
		log.Printf("optimization ended: %v", err)
	}

	// Use best weights found (may be from any evaluation, not just final)
	bestFitness, bestX := evaluator.Best()
	if bestX == nil && result != nil {
		bestX = params.Clamp(result.X)
	}

	totalTime := time.Since(startTime)
	fmt.Printf("\nOptimization complete after %d evaluations in %s\n", evalCount, formatDuration(totalTime))
	fmt.Printf("Best fitness: %.0f\n", -bestFitness)

	if bestX == nil {
		log.Fatal("no evaluation completed")
	}

	brain, err := params.Brain(bestX)
	if err != nil {
		log.Fatalf("failed to build best brain: %v", err)
	}
	brainPath := filepath.Join(*outputDir, "best_brain.json")
	if err := brain.SaveJSON(brainPath); err != nil {
		log.Printf("failed to write best brain: %v", err)
	} else {
		fmt.Printf("\nBest brain saved to: %s\n", brainPath)
	}

	configOutPath := filepath.Join(*outputDir, "best_config.yaml")
	if err := baseCfg.WriteYAML(configOutPath); err != nil {
		log.Printf("failed to write best config: %v", err)
	} else {
		fmt.Printf("Config saved to: %s\n", configOutPath)
	}
}
