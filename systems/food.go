package systems

import (
	"fmt"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/wonderland/config"
)

// NumFood is the number of food sources.
const NumFood = config.NumFoodSources

// FoodType is the hidden quality of a food source.
type FoodType uint8

const (
	FoodBad  FoodType = 0
	FoodGood FoodType = 1
)

// String returns "good" or "bad".
func (t FoodType) String() string {
	if t == FoodGood {
		return "good"
	}
	return "bad"
}

// Color is either an RGB triple or the transparent marker.
type Color struct {
	RGB         [3]float64
	Transparent bool
}

// Transparent is the color of a disabled food source.
var Transparent = Color{Transparent: true}

// String formats the color the way the scene binds it: "(r, g, b)" or "transparent".
func (c Color) String() string {
	if c.Transparent {
		return "transparent"
	}
	return fmt.Sprintf("(%g, %g, %g)", c.RGB[0], c.RGB[1], c.RGB[2])
}

// FoodSource is one consumable source and its visual outputs.
type FoodSource struct {
	ID        int
	Type      FoodType
	Enabled   bool
	Position  r3.Vec
	Light     float64
	TypeLight float64
	Color     Color
}

// Vitals is the slice of agent state the food chain reads and writes.
type Vitals struct {
	Health float64
	Hunger float64
}

// FoodEvents reports what happened at the food sources during one tick.
type FoodEvents struct {
	Touched [NumFood]bool // reached while enabled, so disabled this tick
	AteGood int
	AteBad  int
}

// Any returns true if any source was reached this tick.
func (e FoodEvents) Any() bool {
	for _, t := range e.Touched {
		if t {
			return true
		}
	}
	return false
}

// PullHealth moves health one step toward the setpoint without crossing it.
func PullHealth(health, setpoint, change float64) float64 {
	if health > setpoint {
		health -= change
		if health < setpoint {
			health = setpoint
		}
	} else {
		health += change
		if health > setpoint {
			health = setpoint
		}
	}
	return health
}

// UpdateFood runs the food chain for one tick: hunger creep, health
// homeostasis, type lights, consumption checks and visuals, in that order.
func UpdateFood(v *Vitals, foods *[NumFood]FoodSource, alice r3.Vec, eatFood float64, p FoodParams) FoodEvents {
	var ev FoodEvents

	v.Hunger += p.Decrement
	v.Health = PullHealth(v.Health, p.Setpoint, p.HealthChange)

	// Fixed pattern, independent of the true types.
	// TODO: derive type lights from FoodSource.Type once the type sensor is meant to be informative.
	for i := range foods {
		if i%2 == 0 {
			foods[i].TypeLight = p.TypeLightBright
		} else {
			foods[i].TypeLight = p.TypeLightDim
		}
	}

	for i := range foods {
		if !foods[i].Enabled || Distance2D(alice, foods[i].Position) > p.MaxEatDistance {
			continue
		}
		if eatFood > p.EatThreshold {
			if foods[i].Type == FoodGood {
				v.Health = p.GoodHealth
				v.Hunger -= p.Increment
				ev.AteGood++
			} else {
				v.Health = p.BadHealth
				ev.AteBad++
			}
		}
		DisableFoodSource(foods, i)
		ev.Touched[i] = true
	}

	UpdateFoodVisuals(foods, p.Color)

	return ev
}

// DisableFoodSource disables source idx and re-enables every other source.
func DisableFoodSource(foods *[NumFood]FoodSource, idx int) {
	for i := range foods {
		foods[i].Enabled = true
	}
	foods[idx].Enabled = false
}

// UpdateFoodVisuals sets light and color from the enabled state.
// Disabled sources also lose their type light.
func UpdateFoodVisuals(foods *[NumFood]FoodSource, color Color) {
	for i := range foods {
		f := &foods[i]
		if f.Enabled {
			f.Light = 1.0
			f.Color = color
		} else {
			f.Light = 0.0
			f.TypeLight = 0.0
			f.Color = Transparent
		}
	}
}
