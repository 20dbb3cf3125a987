package game

import (
	"log/slog"

	"github.com/pthm-cable/wonderland/telemetry"
)

// recordTelemetry feeds the last step into the collector and flushes full windows.
func (g *Game) recordTelemetry() {
	s := g.engine.State()
	ev := g.engine.LastEvents()

	touched := 0
	for _, t := range ev.Food.Touched {
		if t {
			touched++
		}
	}

	g.collector.Record(g.tick, telemetry.Sample{
		Health:          s.Health,
		Hunger:          s.Hunger,
		Babble:          s.BabbleDrive,
		DayLight:        s.Daylight.Level,
		GoodEaten:       ev.Food.AteGood,
		BadEaten:        ev.Food.AteBad,
		FoodTouched:     touched,
		BullyHits:       ev.BullyHits,
		NearFriend:      ev.NearFriend,
		DaylightFlipped: ev.DaylightFlipped,
	})

	g.tryStats.GoodEaten += ev.Food.AteGood
	g.tryStats.BadEaten += ev.Food.AteBad
	g.tryStats.BullyHits += ev.BullyHits

	if g.collector.ShouldFlush(g.tick) {
		g.flushTelemetry()
	}
}

// flushTelemetry writes out the pending stats window, if any.
func (g *Game) flushTelemetry() {
	if !g.collector.Pending() {
		return
	}

	stats := g.collector.Flush()
	perfStats := g.perfCollector.Stats()
	bookmarks := g.bookmarks.Check(stats)

	// Call stats callback if provided
	if g.statsCallback != nil {
		g.statsCallback(stats)
	}

	// Log stats if enabled (console output)
	if g.logStats {
		stats.LogStats()
		perfStats.LogStats()
		for _, b := range bookmarks {
			b.LogBookmark()
		}
	}

	// Write to CSV if output manager is enabled
	if g.outputManager != nil {
		if err := g.outputManager.WriteTelemetry(stats); err != nil {
			slog.Error("failed to write telemetry", "error", err)
		}
		if err := g.outputManager.WritePerf(perfStats, g.try, stats.WindowEndTick); err != nil {
			slog.Error("failed to write perf", "error", err)
		}
		if err := g.outputManager.WriteBookmarks(bookmarks); err != nil {
			slog.Error("failed to write bookmarks", "error", err)
		}
	}
}

// emitTry reports a finished try.
func (g *Game) emitTry(ts telemetry.TryStats) {
	if g.tryCallback != nil {
		g.tryCallback(ts)
	}

	if g.logStats {
		if ts.Died {
			slog.Info("try terminated", "try", ts)
		} else {
			slog.Info("try complete", "try", ts)
		}
	}

	if g.outputManager != nil {
		if err := g.outputManager.WriteTry(ts); err != nil {
			slog.Error("failed to write try", "error", err)
		}
	}
}

// logRun logs the summary of all tries.
func (g *Game) logRun() {
	if !g.logStats {
		return
	}
	died := 0
	for _, ts := range g.tries {
		if ts.Died {
			died++
		}
	}
	slog.Info("run complete",
		"seed", g.seed,
		"tries", len(g.tries),
		"died", died,
		"fitness", g.totalFit,
	)
}
