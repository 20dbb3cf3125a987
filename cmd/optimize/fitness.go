package main

import (
	"log/slog"
	"math"
	"sync"

	"github.com/pthm-cable/wonderland/config"
	"github.com/pthm-cable/wonderland/game"
)

// FitnessEvaluator runs headless games and computes fitness.
type FitnessEvaluator struct {
	params     *ParamVector
	seeds      []int64
	baseConfig *config.Config

	// Best run tracking
	mu            sync.Mutex
	bestFitness   float64
	bestX         []float64
	lastDeathRate float64 // fraction of tries that ended in death, most recent Evaluate call
}

// NewFitnessEvaluator creates a new evaluator.
func NewFitnessEvaluator(params *ParamVector, seeds []int64, baseCfg *config.Config) *FitnessEvaluator {
	return &FitnessEvaluator{
		params:      params,
		seeds:       seeds,
		baseConfig:  baseCfg,
		bestFitness: math.Inf(1),
	}
}

// seedResult holds the result from one seed evaluation.
type seedResult struct {
	fitness float64
	tries   int
	died    int
}

// Evaluate computes fitness for a weight vector (lower = better).
// Fitness is the negated mean accumulated fitness over all seeds.
func (fe *FitnessEvaluator) Evaluate(x []float64) float64 {
	// Run all seeds in parallel
	results := make([]seedResult, len(fe.seeds))
	var wg sync.WaitGroup

	for i, seed := range fe.seeds {
		wg.Add(1)
		go func(idx int, s int64) {
			defer wg.Done()
			results[idx] = fe.runGame(x, s)
		}(i, seed)
	}
	wg.Wait()

	// Aggregate results
	var total float64
	var tries, died int
	for _, r := range results {
		total += r.fitness
		tries += r.tries
		died += r.died
	}
	fitness := -total / float64(len(fe.seeds))

	fe.mu.Lock()
	if fitness < fe.bestFitness {
		fe.bestFitness = fitness
		fe.bestX = fe.params.Clamp(x)
	}
	if tries > 0 {
		fe.lastDeathRate = float64(died) / float64(tries)
	}
	fe.mu.Unlock()

	return fitness
}

// runGame executes all tries of a single headless game.
func (fe *FitnessEvaluator) runGame(x []float64, seed int64) seedResult {
	brain, err := fe.params.Brain(x)
	if err != nil {
		slog.Error("invalid weight vector", "error", err)
		return seedResult{}
	}

	// Each goroutine gets its own game; the config is shared read-only
	g, err := game.NewGame(game.Options{
		Seed:   seed,
		Config: fe.baseConfig,
		Brain:  brain,
	})
	if err != nil {
		slog.Error("failed to create game", "error", err)
		return seedResult{}
	}
	defer g.Close()

	r := seedResult{fitness: g.Run()}
	for _, ts := range g.Tries() {
		r.tries++
		if ts.Died {
			r.died++
		}
	}
	return r
}

// Best returns the best fitness seen and its clamped weight vector.
func (fe *FitnessEvaluator) Best() (float64, []float64) {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.bestFitness, fe.bestX
}

// LastDeathRate returns the death rate from the most recent evaluation.
func (fe *FitnessEvaluator) LastDeathRate() float64 {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.lastDeathRate
}
