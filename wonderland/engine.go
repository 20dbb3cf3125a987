// Package wonderland is the homeostatic fitness engine for the Alice scenario.
//
// An Engine owns a single AgentState. The host calls Reset at the start of
// every try and Step once per simulation tick; Step runs the daylight, social,
// food and bully subsystems in that fixed order. The order matters because
// health is written by the food chain and the bullies in the same tick.
package wonderland

import (
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/wonderland/config"
	"github.com/pthm-cable/wonderland/systems"
)

// fitnessPerTick is the constant contribution of one tick.
const fitnessPerTick = 1.0

// AgentState is the complete mutable state of one episode.
type AgentState struct {
	Health      float64
	Hunger      float64
	BabbleDrive float64
	Daylight    systems.Daylight
	Food        [systems.NumFood]systems.FoodSource

	Fitness float64 // accumulated fitness of the current try
	Seed    int64   // randomization seed of the current try
}

// Inputs is the per-tick snapshot the host supplies to Step.
type Inputs struct {
	Alice   r3.Vec
	Friends [2]r3.Vec
	BadGuys [2]r3.Vec
	Food    [systems.NumFood]r3.Vec
	EatFood float64 // eat-food neuron activation
}

// FoodOutput is the visual state of one food source.
type FoodOutput struct {
	Light     float64
	TypeLight float64
	Color     systems.Color
}

// Outputs is the per-tick write-back consumed by the host.
type Outputs struct {
	Health      float64
	Hunger      float64
	BabbleDrive float64
	DayLight    float64
	Ambient     r3.Vec
	Food        [systems.NumFood]FoodOutput
}

// Events summarizes what the subsystems observed during the last Step.
type Events struct {
	DaylightFlipped bool
	NearFriend      bool
	Food            systems.FoodEvents
	BullyHits       int
}

// Engine runs the homeostatic update.
type Engine struct {
	params systems.Params
	init   initialValues
	state  AgentState
	last   Events
	tick   int
}

type initialValues struct {
	health float64
	hunger float64
}

// NewEngine creates an engine with daylight at its configured initial level.
// Reset must be called before the first Step of each try.
func NewEngine(cfg *config.Config) *Engine {
	e := &Engine{
		params: systems.NewParams(cfg),
		init: initialValues{
			health: cfg.Health.Initial,
			hunger: cfg.Food.InitialHunger,
		},
	}
	e.state.Daylight = systems.Daylight{
		Level:     cfg.Daylight.Initial,
		Direction: systems.Rising,
		Ambient:   systems.AmbientFor(cfg.Daylight.Initial),
	}
	for i := range e.state.Food {
		e.state.Food[i].ID = i
	}
	return e
}

// FoodTypesForSeed returns the food type pattern selected by seed.
// Odd seeds give bad/good/bad/good, everything else good/bad/good/bad.
// A negative odd seed has remainder -1 and falls into the second group.
func FoodTypesForSeed(seed int64) [systems.NumFood]systems.FoodType {
	if seed%2 == 1 {
		return [systems.NumFood]systems.FoodType{systems.FoodBad, systems.FoodGood, systems.FoodBad, systems.FoodGood}
	}
	return [systems.NumFood]systems.FoodType{systems.FoodGood, systems.FoodBad, systems.FoodGood, systems.FoodBad}
}

// Reset starts a new try. Daylight and babble drive carry over between
// tries; they belong to the world, not to the individual.
func (e *Engine) Reset(seed int64) {
	types := FoodTypesForSeed(seed)
	for i := range e.state.Food {
		e.state.Food[i].Type = types[i]
		e.state.Food[i].Enabled = true
	}
	e.state.Health = e.init.health
	e.state.Hunger = e.init.hunger
	e.state.Fitness = 0
	e.state.Seed = seed
	e.last = Events{}
	e.tick = 0
}

// Step advances the engine by one tick and returns the fitness delta.
func (e *Engine) Step(in Inputs) float64 {
	s := &e.state
	for i := range s.Food {
		s.Food[i].Position = in.Food[i]
	}

	var ev Events
	ev.DaylightFlipped = systems.UpdateDaylight(&s.Daylight, e.params.Daylight)
	ev.NearFriend = systems.UpdateBabble(&s.BabbleDrive, in.Alice, in.Friends, e.params.Babble)

	vitals := systems.Vitals{Health: s.Health, Hunger: s.Hunger}
	ev.Food = systems.UpdateFood(&vitals, &s.Food, in.Alice, in.EatFood, e.params.Food)
	s.Health, s.Hunger = vitals.Health, vitals.Hunger

	ev.BullyHits = systems.UpdateBully(&s.Health, in.Alice, in.BadGuys, e.params.Bully)

	e.last = ev
	e.tick++

	delta := e.FitnessDelta()
	s.Fitness += delta
	return delta
}

// FitnessDelta is the contribution of one tick. It does not depend on state;
// selection pressure comes from the host ending tries early.
func (e *Engine) FitnessDelta() float64 {
	return fitnessPerTick
}

// Outputs returns the values the host writes back into the scene.
func (e *Engine) Outputs() Outputs {
	s := &e.state
	out := Outputs{
		Health:      s.Health,
		Hunger:      s.Hunger,
		BabbleDrive: s.BabbleDrive,
		DayLight:    s.Daylight.Level,
		Ambient:     s.Daylight.Ambient,
	}
	for i, f := range s.Food {
		out.Food[i] = FoodOutput{Light: f.Light, TypeLight: f.TypeLight, Color: f.Color}
	}
	return out
}

// State returns a copy of the current state.
func (e *Engine) State() AgentState {
	return e.state
}

// LastEvents returns the events of the most recent Step.
func (e *Engine) LastEvents() Events {
	return e.last
}

// Tick returns the number of steps since the last Reset.
func (e *Engine) Tick() int {
	return e.tick
}
