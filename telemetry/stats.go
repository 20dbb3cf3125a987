// Package telemetry aggregates per-tick samples into windowed and per-try
// statistics and writes them as CSV.
package telemetry

import (
	"log/slog"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// WindowStats holds aggregated statistics for a window of ticks within one try.
type WindowStats struct {
	Try             int   `csv:"try"`
	WindowStartTick int32 `csv:"-"`
	WindowEndTick   int32 `csv:"window_end"`

	// Vitals distribution sampled every tick
	HealthMean float64 `csv:"health_mean"`
	HealthStd  float64 `csv:"health_std"`
	HealthP10  float64 `csv:"health_p10"`
	HealthP50  float64 `csv:"health_p50"`
	HealthP90  float64 `csv:"health_p90"`
	HungerMean float64 `csv:"hunger_mean"`
	HungerP50  float64 `csv:"hunger_p50"`
	BabbleMean float64 `csv:"babble_mean"`
	BabbleP50  float64 `csv:"babble_p50"`

	// Daylight at window end
	DayLight float64 `csv:"daylight"`

	// Events during window
	GoodEaten     int `csv:"good_eaten"`
	BadEaten      int `csv:"bad_eaten"`
	FoodTouched   int `csv:"food_touched"`
	BullyHits     int `csv:"bully_hits"`
	FriendTicks   int `csv:"friend_ticks"`
	DaylightFlips int `csv:"daylight_flips"`
}

// TryStats summarizes one completed try.
type TryStats struct {
	Try         int     `csv:"try"`
	Seed        int64   `csv:"seed"`
	Ticks       int     `csv:"ticks"`
	Fitness     float64 `csv:"fitness"`
	Died        bool    `csv:"died"`
	FinalHealth float64 `csv:"final_health"`
	FinalHunger float64 `csv:"final_hunger"`
	GoodEaten   int     `csv:"good_eaten"`
	BadEaten    int     `csv:"bad_eaten"`
	BullyHits   int     `csv:"bully_hits"`
}

// Percentile calculates the p-th percentile of a sorted slice.
// p should be in [0, 1]. Returns 0 if slice is empty.
func Percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if p <= 0 {
		return sorted[0]
	}
	if p >= 1 {
		return sorted[n-1]
	}

	// Linear interpolation
	idx := p * float64(n-1)
	lo := int(idx)
	hi := lo + 1
	if hi >= n {
		return sorted[n-1]
	}

	frac := idx - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}

// Distribution is the summary of one sampled quantity.
type Distribution struct {
	Mean, Std     float64
	P10, P50, P90 float64
}

// Summarize computes mean, population standard deviation and percentiles.
// values is not modified.
func Summarize(values []float64) Distribution {
	if len(values) == 0 {
		return Distribution{}
	}

	mean, std := stat.PopMeanStdDev(values, nil)

	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	return Distribution{
		Mean: mean,
		Std:  std,
		P10:  Percentile(sorted, 0.10),
		P50:  Percentile(sorted, 0.50),
		P90:  Percentile(sorted, 0.90),
	}
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("try", s.Try),
		slog.Int("window_start", int(s.WindowStartTick)),
		slog.Int("window_end", int(s.WindowEndTick)),
		slog.Float64("health_mean", s.HealthMean),
		slog.Float64("health_std", s.HealthStd),
		slog.Float64("health_p10", s.HealthP10),
		slog.Float64("health_p50", s.HealthP50),
		slog.Float64("health_p90", s.HealthP90),
		slog.Float64("hunger_mean", s.HungerMean),
		slog.Float64("hunger_p50", s.HungerP50),
		slog.Float64("babble_mean", s.BabbleMean),
		slog.Float64("babble_p50", s.BabbleP50),
		slog.Float64("daylight", s.DayLight),
		slog.Int("good_eaten", s.GoodEaten),
		slog.Int("bad_eaten", s.BadEaten),
		slog.Int("food_touched", s.FoodTouched),
		slog.Int("bully_hits", s.BullyHits),
		slog.Int("friend_ticks", s.FriendTicks),
		slog.Int("daylight_flips", s.DaylightFlips),
	)
}

// LogStats logs the window stats using slog.
func (s WindowStats) LogStats() {
	slog.Info("stats",
		"try", s.Try,
		"window_end", s.WindowEndTick,
		"health_mean", s.HealthMean,
		"health_p10", s.HealthP10,
		"health_p90", s.HealthP90,
		"hunger_mean", s.HungerMean,
		"babble_mean", s.BabbleMean,
		"daylight", s.DayLight,
		"good_eaten", s.GoodEaten,
		"bad_eaten", s.BadEaten,
		"food_touched", s.FoodTouched,
		"bully_hits", s.BullyHits,
		"friend_ticks", s.FriendTicks,
		"daylight_flips", s.DaylightFlips,
	)
}

// LogValue implements slog.LogValuer for structured logging.
func (s TryStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("try", s.Try),
		slog.Int64("seed", s.Seed),
		slog.Int("ticks", s.Ticks),
		slog.Float64("fitness", s.Fitness),
		slog.Bool("died", s.Died),
		slog.Float64("final_health", s.FinalHealth),
		slog.Float64("final_hunger", s.FinalHunger),
		slog.Int("good_eaten", s.GoodEaten),
		slog.Int("bad_eaten", s.BadEaten),
		slog.Int("bully_hits", s.BullyHits),
	)
}
