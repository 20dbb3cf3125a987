package game

import (
	"math/rand"

	"github.com/pthm-cable/wonderland/components"
	"github.com/pthm-cable/wonderland/telemetry"
)

// Run runs every configured try and returns the summed fitness.
func (g *Game) Run() float64 {
	for i := 0; i < g.cfg.Episode.Tries; i++ {
		g.RunTry(i)
	}
	g.logRun()
	return g.totalFit
}

// RunTry resets the engine and scene with seed+i and steps until the try
// reaches steps_per_try or Alice dies.
func (g *Game) RunTry(i int) telemetry.TryStats {
	g.beginTry(i)
	for !g.Step() {
	}
	return g.endTry()
}

// beginTry resets per-try state.
func (g *Game) beginTry(i int) {
	seed := g.TrySeed(i)
	g.try = i
	g.tick = 0
	g.engine.Reset(seed)
	g.scene.Reset(seed, rand.New(rand.NewSource(seed)))
	g.collector.BeginTry(i)
	g.bookmarks.Reset()
	g.tryStats = telemetry.TryStats{Try: i, Seed: seed}
}

// Step runs a single tick and reports whether the try is over.
func (g *Game) Step() (done bool) {
	g.perfCollector.StartTick()

	// 1. Light sensors and homeostatic feedback
	g.perfCollector.StartPhase(telemetry.PhaseSense)
	g.sense()

	// 2. Brain
	g.perfCollector.StartPhase(telemetry.PhaseBrain)
	left, right, eat := g.brain.Forward(g.sensors.AsSlice(g.inputBuf))
	g.scene.SetMotor(components.Motor{Left: float64(left), Right: float64(right), EatFood: float64(eat)})

	// 3. Movement
	g.perfCollector.StartPhase(telemetry.PhaseMotion)
	g.scene.Move()

	// 4. Homeostatic engine
	g.perfCollector.StartPhase(telemetry.PhaseEngine)
	g.lastDelta = g.engine.Step(g.scene.Inputs())
	g.tick++

	// 5. Visual outputs back into the scene
	g.perfCollector.StartPhase(telemetry.PhaseWriteBack)
	g.scene.WriteBack(g.engine.Outputs())

	// 6. Telemetry
	g.perfCollector.StartPhase(telemetry.PhaseTelemetry)
	g.recordTelemetry()

	g.perfCollector.EndTick()

	return g.dead() || int(g.tick) >= g.cfg.Episode.StepsPerTry
}

// sense fills the network inputs from the scene and the engine state.
func (g *Game) sense() {
	food, foodType, friends, badGuys := g.scene.Sense(g.cfg.Scene.SensorRange)
	out := g.engine.Outputs()

	g.sensors.Food.Left, g.sensors.Food.Right = float32(food.Left), float32(food.Right)
	g.sensors.FoodType.Left, g.sensors.FoodType.Right = float32(foodType.Left), float32(foodType.Right)
	g.sensors.Friends.Left, g.sensors.Friends.Right = float32(friends.Left), float32(friends.Right)
	g.sensors.BadGuys.Left, g.sensors.BadGuys.Right = float32(badGuys.Left), float32(badGuys.Right)
	g.sensors.Health = float32(out.Health)
	g.sensors.Hunger = float32(out.Hunger)
	g.sensors.Babble = float32(out.BabbleDrive)
	g.sensors.DayLight = float32(out.DayLight)
}

// dead reports whether the try ends early on low health.
func (g *Game) dead() bool {
	ep := &g.cfg.Episode
	return ep.TerminateOnDeath && g.engine.State().Health <= ep.DeathHealth
}

// endTry finalizes the try summary and emits it.
func (g *Game) endTry() telemetry.TryStats {
	g.flushTelemetry()

	s := g.engine.State()
	ts := &g.tryStats
	ts.Ticks = int(g.tick)
	ts.Fitness = s.Fitness
	ts.Died = g.dead()
	ts.FinalHealth = s.Health
	ts.FinalHunger = s.Hunger

	g.tries = append(g.tries, *ts)
	g.totalFit += ts.Fitness
	g.emitTry(*ts)
	return *ts
}
