package wonderland

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/wonderland/config"
	"github.com/pthm-cable/wonderland/systems"
)

func init() {
	config.MustInit("")
}

// quietInputs keeps Alice away from food, friends and bad guys.
func quietInputs() Inputs {
	return Inputs{
		Alice:   r3.Vec{},
		Friends: [2]r3.Vec{{X: 5}, {X: -5}},
		BadGuys: [2]r3.Vec{{Z: 5}, {Z: -5}},
		Food:    [systems.NumFood]r3.Vec{{X: 1}, {X: 2}, {X: 3}, {X: 4}},
	}
}

func newTestEngine(seed int64) *Engine {
	e := NewEngine(config.Cfg())
	e.Reset(seed)
	return e
}

func TestReset_FoodTypesBySeed(t *testing.T) {
	even := [systems.NumFood]systems.FoodType{systems.FoodGood, systems.FoodBad, systems.FoodGood, systems.FoodBad}
	odd := [systems.NumFood]systems.FoodType{systems.FoodBad, systems.FoodGood, systems.FoodBad, systems.FoodGood}

	tests := []struct {
		seed int64
		want [systems.NumFood]systems.FoodType
	}{
		{0, even},
		{2, even},
		{1000, even},
		{1, odd},
		{7, odd},
		{12345, odd},
		{-4, even},
		{-3, even}, // remainder is -1, not 1
	}

	for _, tt := range tests {
		e := newTestEngine(tt.seed)
		s := e.State()
		for i, f := range s.Food {
			if f.Type != tt.want[i] {
				t.Errorf("seed %d: food %d type = %v, want %v", tt.seed, i, f.Type, tt.want[i])
			}
		}
	}
}

func TestReset_InitialVitals(t *testing.T) {
	e := newTestEngine(3)

	// Dirty the state, then reset again
	in := quietInputs()
	in.Alice = r3.Vec{X: 1}
	in.EatFood = 1
	e.Step(in)

	e.Reset(4)
	s := e.State()

	if s.Health != 0.5 {
		t.Errorf("health = %v, want 0.5", s.Health)
	}
	if s.Hunger != 0.4 {
		t.Errorf("hunger = %v, want 0.4", s.Hunger)
	}
	for i, f := range s.Food {
		if !f.Enabled {
			t.Errorf("food %d disabled after reset", i)
		}
	}
	if s.Fitness != 0 || e.Tick() != 0 {
		t.Errorf("fitness/tick not reset: %v/%d", s.Fitness, e.Tick())
	}
	if s.Seed != 4 {
		t.Errorf("seed = %d, want 4", s.Seed)
	}
}

func TestReset_KeepsDaylightAndBabble(t *testing.T) {
	e := newTestEngine(0)
	for i := 0; i < 10; i++ {
		e.Step(quietInputs())
	}
	before := e.State()

	e.Reset(1)
	after := e.State()

	if after.Daylight != before.Daylight {
		t.Errorf("daylight changed on reset: %+v -> %+v", before.Daylight, after.Daylight)
	}
	if after.BabbleDrive != before.BabbleDrive {
		t.Errorf("babble drive changed on reset: %v -> %v", before.BabbleDrive, after.BabbleDrive)
	}
}

func TestStep_ConstantFitness(t *testing.T) {
	e := newTestEngine(0)

	inputs := []Inputs{quietInputs()}
	eat := quietInputs()
	eat.Alice = r3.Vec{X: 1}
	eat.EatFood = 1
	inputs = append(inputs, eat)
	bullied := quietInputs()
	bullied.BadGuys = [2]r3.Vec{{}, {}}
	inputs = append(inputs, bullied)

	for i := 0; i < 30; i++ {
		if d := e.Step(inputs[i%len(inputs)]); d != 1.0 {
			t.Fatalf("tick %d: delta = %v, want 1.0", i, d)
		}
	}
	if e.FitnessDelta() != 1.0 {
		t.Error("FitnessDelta must be 1.0")
	}
	if e.State().Fitness != 30 {
		t.Errorf("accumulated fitness = %v, want 30", e.State().Fitness)
	}
}

func TestStep_HealthSettlesWithoutEvents(t *testing.T) {
	e := newTestEngine(0)
	e.state.Health = 0.9

	prev := e.State().Health
	for i := 0; i < 100; i++ {
		e.Step(quietInputs())
		h := e.State().Health
		if h > prev || h < 0.5 {
			t.Fatalf("tick %d: health %v -> %v", i, prev, h)
		}
		prev = h
	}
	if prev != 0.5 {
		t.Errorf("health = %v, want 0.5", prev)
	}
}

func TestStep_GoodFood(t *testing.T) {
	e := newTestEngine(0) // food 0 is good
	in := quietInputs()
	in.Food[0] = r3.Vec{X: 0.02, Z: 0.02}
	in.EatFood = 1.0
	hungerBefore := e.State().Hunger

	e.Step(in)
	s := e.State()

	if s.Health != 1.0 {
		t.Errorf("health = %v, want exactly 1.0", s.Health)
	}
	wantHunger := hungerBefore + 0.00005 - 1.0
	if math.Abs(s.Hunger-wantHunger) > 1e-12 {
		t.Errorf("hunger = %v, want %v", s.Hunger, wantHunger)
	}
	if s.Food[0].Enabled {
		t.Error("food 0 should be disabled")
	}
	for i := 1; i < systems.NumFood; i++ {
		if !s.Food[i].Enabled {
			t.Errorf("food %d should be enabled", i)
		}
	}
	if ev := e.LastEvents(); ev.Food.AteGood != 1 || !ev.Food.Touched[0] {
		t.Errorf("events = %+v", ev)
	}
}

func TestStep_BadFood(t *testing.T) {
	e := newTestEngine(1) // food 0 is bad
	in := quietInputs()
	in.Food[0] = r3.Vec{X: 0.01}
	in.EatFood = 1.0

	e.Step(in)
	s := e.State()

	if s.Health != 0.0 {
		t.Errorf("health = %v, want exactly 0.0", s.Health)
	}
	if s.Food[0].Enabled || !s.Food[1].Enabled || !s.Food[2].Enabled || !s.Food[3].Enabled {
		t.Errorf("enable pattern wrong: %+v", s.Food)
	}
}

func TestStep_BullyBothAdversaries(t *testing.T) {
	e := newTestEngine(0)
	in := quietInputs()
	in.BadGuys = [2]r3.Vec{{X: 0.05}, {Z: -0.07}}
	before := e.State().Health

	e.Step(in)

	got := e.State().Health
	if math.Abs((before-got)-0.2) > 1e-12 {
		t.Errorf("health dropped by %v, want 0.2", before-got)
	}
	if e.LastEvents().BullyHits != 2 {
		t.Errorf("bully hits = %d, want 2", e.LastEvents().BullyHits)
	}
}

func TestStep_BullyAfterFood(t *testing.T) {
	e := newTestEngine(0)
	in := quietInputs()
	in.Food[0] = r3.Vec{}
	in.EatFood = 1
	in.BadGuys = [2]r3.Vec{{}, {X: 5}}

	e.Step(in)

	// Food sets health to 1.0, then one bully removes 0.1
	if got := e.State().Health; math.Abs(got-0.9) > 1e-12 {
		t.Errorf("health = %v, want 0.9", got)
	}
}

func TestStep_BabbleAndDaylight(t *testing.T) {
	e := newTestEngine(0)
	in := quietInputs()

	e.Step(in)
	s := e.State()
	if math.Abs(s.BabbleDrive-0.0002) > 1e-12 {
		t.Errorf("babble = %v, want 0.0002", s.BabbleDrive)
	}
	if math.Abs(s.Daylight.Level-0.0001) > 1e-12 {
		t.Errorf("daylight = %v, want 0.0001", s.Daylight.Level)
	}

	in.Friends[1] = r3.Vec{X: 0.08}
	e.Step(in)
	if got := e.State().BabbleDrive; math.Abs(got-(0.0002-0.003)) > 1e-12 {
		t.Errorf("babble = %v after friend contact", got)
	}
	if !e.LastEvents().NearFriend {
		t.Error("expected friend contact event")
	}
}

func TestOutputs(t *testing.T) {
	e := newTestEngine(0)
	in := quietInputs()
	in.Food[2] = r3.Vec{}

	e.Step(in)
	out := e.Outputs()
	s := e.State()

	if out.Health != s.Health || out.Hunger != s.Hunger || out.BabbleDrive != s.BabbleDrive {
		t.Errorf("outputs do not mirror state: %+v", out)
	}
	if out.DayLight != s.Daylight.Level || out.Ambient != systems.AmbientFor(s.Daylight.Level) {
		t.Errorf("daylight outputs wrong: %+v", out)
	}
	if out.Food[2].Light != 0 || out.Food[2].TypeLight != 0 || !out.Food[2].Color.Transparent {
		t.Errorf("food 2 outputs = %+v", out.Food[2])
	}
	if out.Food[0].Light != 1 || out.Food[0].TypeLight != 1 || out.Food[1].TypeLight != 0.5 {
		t.Errorf("enabled food outputs wrong: %+v", out.Food)
	}
}
