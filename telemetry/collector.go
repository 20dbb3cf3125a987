package telemetry

// Sample is the engine state observed at the end of one tick.
type Sample struct {
	Health, Hunger, Babble, DayLight float64

	GoodEaten, BadEaten int
	FoodTouched         int
	BullyHits           int
	NearFriend          bool
	DaylightFlipped     bool
}

// Collector accumulates per-tick samples within tick windows and produces WindowStats.
type Collector struct {
	windowDurationTicks int32

	// Current window tracking
	try             int
	windowStartTick int32
	lastTick        int32

	health []float64
	hunger []float64
	babble []float64
	day    float64

	goodEaten     int
	badEaten      int
	foodTouched   int
	bullyHits     int
	friendTicks   int
	daylightFlips int
}

// NewCollector creates a new stats collector that flushes every windowTicks ticks.
func NewCollector(windowTicks int) *Collector {
	if windowTicks < 1 {
		windowTicks = 1
	}
	return &Collector{
		windowDurationTicks: int32(windowTicks),
		health:              make([]float64, 0, windowTicks),
		hunger:              make([]float64, 0, windowTicks),
		babble:              make([]float64, 0, windowTicks),
	}
}

// BeginTry discards any partial window and starts counting for a new try.
func (c *Collector) BeginTry(try int) {
	c.try = try
	c.windowStartTick = 0
	c.lastTick = 0
	c.reset()
}

// Record adds the sample of one tick.
func (c *Collector) Record(tick int32, s Sample) {
	c.lastTick = tick
	c.health = append(c.health, s.Health)
	c.hunger = append(c.hunger, s.Hunger)
	c.babble = append(c.babble, s.Babble)
	c.day = s.DayLight

	c.goodEaten += s.GoodEaten
	c.badEaten += s.BadEaten
	c.foodTouched += s.FoodTouched
	c.bullyHits += s.BullyHits
	if s.NearFriend {
		c.friendTicks++
	}
	if s.DaylightFlipped {
		c.daylightFlips++
	}
}

// ShouldFlush returns true if enough ticks have passed to flush the window.
func (c *Collector) ShouldFlush(currentTick int32) bool {
	return currentTick-c.windowStartTick >= c.windowDurationTicks
}

// Pending reports whether samples have been recorded since the last flush.
func (c *Collector) Pending() bool {
	return len(c.health) > 0
}

// Flush produces a WindowStats and resets counters for the next window.
func (c *Collector) Flush() WindowStats {
	h := Summarize(c.health)
	hu := Summarize(c.hunger)
	b := Summarize(c.babble)

	stats := WindowStats{
		Try:             c.try,
		WindowStartTick: c.windowStartTick,
		WindowEndTick:   c.lastTick,

		HealthMean: h.Mean,
		HealthStd:  h.Std,
		HealthP10:  h.P10,
		HealthP50:  h.P50,
		HealthP90:  h.P90,
		HungerMean: hu.Mean,
		HungerP50:  hu.P50,
		BabbleMean: b.Mean,
		BabbleP50:  b.P50,

		DayLight: c.day,

		GoodEaten:     c.goodEaten,
		BadEaten:      c.badEaten,
		FoodTouched:   c.foodTouched,
		BullyHits:     c.bullyHits,
		FriendTicks:   c.friendTicks,
		DaylightFlips: c.daylightFlips,
	}

	// Reset for next window
	c.windowStartTick = c.lastTick
	c.reset()

	return stats
}

func (c *Collector) reset() {
	c.health = c.health[:0]
	c.hunger = c.hunger[:0]
	c.babble = c.babble[:0]
	c.goodEaten = 0
	c.badEaten = 0
	c.foodTouched = 0
	c.bullyHits = 0
	c.friendTicks = 0
	c.daylightFlips = 0
}

// WindowDurationTicks returns the number of ticks per window.
func (c *Collector) WindowDurationTicks() int32 {
	return c.windowDurationTicks
}
