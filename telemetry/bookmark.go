package telemetry

import (
	"fmt"
	"log/slog"
)

// BookmarkType identifies the type of bookmark.
type BookmarkType string

const (
	BookmarkForageBreakthrough BookmarkType = "forage_breakthrough"
	BookmarkBullySpike         BookmarkType = "bully_spike"
	BookmarkHungerCrisis       BookmarkType = "hunger_crisis"
	BookmarkStableHomeostasis  BookmarkType = "stable_homeostasis"
)

// Thresholds for the detectors.
const (
	hungerCrisisLevel   = 1.0  // mean hunger per window
	stableHealthStd     = 0.02 // health std within a window
	stableHealthBand    = 0.05 // distance of mean health from setpoint
	stableWindowsNeeded = 5
)

// Bookmark represents an automatically triggered bookmark.
type Bookmark struct {
	Type        BookmarkType `csv:"type"`
	Try         int          `csv:"try"`
	Tick        int32        `csv:"tick"`
	Description string       `csv:"description"`
}

// LogBookmark logs the bookmark using slog.
func (b Bookmark) LogBookmark() {
	slog.Info("bookmark",
		"type", string(b.Type),
		"try", b.Try,
		"tick", b.Tick,
		"description", b.Description,
	)
}

// BookmarkDetector detects interesting moments within a try.
type BookmarkDetector struct {
	setpoint float64

	// Rolling history (circular buffer)
	history     []WindowStats
	historySize int
	historyIdx  int
	historyFull bool

	// State tracking
	inHungerCrisis     bool
	stableWindowsCount int
}

// NewBookmarkDetector creates a detector with the given history size.
// setpoint is the health value homeostasis pulls toward.
func NewBookmarkDetector(historySize int, setpoint float64) *BookmarkDetector {
	if historySize < 3 {
		historySize = 3
	}
	return &BookmarkDetector{
		setpoint:    setpoint,
		history:     make([]WindowStats, historySize),
		historySize: historySize,
	}
}

// Reset clears history at the start of a try.
func (bd *BookmarkDetector) Reset() {
	bd.historyIdx = 0
	bd.historyFull = false
	bd.inHungerCrisis = false
	bd.stableWindowsCount = 0
}

// Check analyzes the latest stats and returns any triggered bookmarks.
func (bd *BookmarkDetector) Check(stats WindowStats) []Bookmark {
	var bookmarks []Bookmark

	if bd.historyFull || bd.historyIdx > 0 {
		// Forage breakthrough: good food eaten > 2x rolling average
		if b := bd.checkForageBreakthrough(stats); b != nil {
			bookmarks = append(bookmarks, *b)
		}

		// Bully spike: bully hits > 2x rolling average
		if b := bd.checkBullySpike(stats); b != nil {
			bookmarks = append(bookmarks, *b)
		}
	}

	// Hunger crisis: mean hunger crosses the crisis level
	if b := bd.checkHungerCrisis(stats); b != nil {
		bookmarks = append(bookmarks, *b)
	}

	// Stable homeostasis: health held at setpoint over several windows
	if b := bd.checkStableHomeostasis(stats); b != nil {
		bookmarks = append(bookmarks, *b)
	}

	bd.addToHistory(stats)

	return bookmarks
}

func (bd *BookmarkDetector) addToHistory(stats WindowStats) {
	bd.history[bd.historyIdx] = stats
	bd.historyIdx = (bd.historyIdx + 1) % bd.historySize
	if bd.historyIdx == 0 {
		bd.historyFull = true
	}
}

func (bd *BookmarkDetector) getHistory() []WindowStats {
	if bd.historyFull {
		return bd.history
	}
	return bd.history[:bd.historyIdx]
}

func (bd *BookmarkDetector) checkForageBreakthrough(stats WindowStats) *Bookmark {
	history := bd.getHistory()
	if len(history) < 3 {
		return nil
	}

	var total int
	for _, h := range history {
		total += h.GoodEaten
	}
	avg := float64(total) / float64(len(history))

	if stats.GoodEaten >= 2 && float64(stats.GoodEaten) > avg*2.0 {
		return &Bookmark{
			Type:        BookmarkForageBreakthrough,
			Try:         stats.Try,
			Tick:        stats.WindowEndTick,
			Description: fmt.Sprintf("Ate %d good sources, average %.2f", stats.GoodEaten, avg),
		}
	}

	return nil
}

func (bd *BookmarkDetector) checkBullySpike(stats WindowStats) *Bookmark {
	history := bd.getHistory()
	if len(history) < 3 {
		return nil
	}

	var total int
	for _, h := range history {
		total += h.BullyHits
	}
	avg := float64(total) / float64(len(history))

	if stats.BullyHits >= 5 && float64(stats.BullyHits) > avg*2.0 {
		return &Bookmark{
			Type:        BookmarkBullySpike,
			Try:         stats.Try,
			Tick:        stats.WindowEndTick,
			Description: fmt.Sprintf("%d bully hits, average %.2f", stats.BullyHits, avg),
		}
	}

	return nil
}

func (bd *BookmarkDetector) checkHungerCrisis(stats WindowStats) *Bookmark {
	if stats.HungerMean <= hungerCrisisLevel {
		bd.inHungerCrisis = false
		return nil
	}
	if bd.inHungerCrisis {
		return nil
	}
	bd.inHungerCrisis = true

	return &Bookmark{
		Type:        BookmarkHungerCrisis,
		Try:         stats.Try,
		Tick:        stats.WindowEndTick,
		Description: fmt.Sprintf("Mean hunger %.3f above %.1f", stats.HungerMean, hungerCrisisLevel),
	}
}

func (bd *BookmarkDetector) checkStableHomeostasis(stats WindowStats) *Bookmark {
	d := stats.HealthMean - bd.setpoint
	if d < 0 {
		d = -d
	}
	if stats.HealthStd < stableHealthStd && d < stableHealthBand {
		bd.stableWindowsCount++
	} else {
		bd.stableWindowsCount = 0
	}

	if bd.stableWindowsCount == stableWindowsNeeded { // trigger exactly once per streak
		return &Bookmark{
			Type:        BookmarkStableHomeostasis,
			Try:         stats.Try,
			Tick:        stats.WindowEndTick,
			Description: fmt.Sprintf("Health held at %.3f for %d windows", stats.HealthMean, stableWindowsNeeded),
		}
	}

	return nil
}
