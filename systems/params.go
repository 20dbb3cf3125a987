package systems

import "github.com/pthm-cable/wonderland/config"

// Params bundles the per-subsystem constants resolved from config.
// Built once per engine so the tick path never touches the config global.
type Params struct {
	Daylight DaylightParams
	Babble   BabbleParams
	Food     FoodParams
	Bully    BullyParams
}

// DaylightParams configures UpdateDaylight.
type DaylightParams struct {
	Change float64
	Upper  float64
	Lower  float64
}

// BabbleParams configures UpdateBabble.
type BabbleParams struct {
	Increment   float64
	Decrement   float64
	MaxDistance float64
}

// FoodParams configures UpdateFood.
type FoodParams struct {
	MaxEatDistance  float64
	Increment       float64
	Decrement       float64
	EatThreshold    float64
	Setpoint        float64
	HealthChange    float64
	GoodHealth      float64
	BadHealth       float64
	TypeLightBright float64
	TypeLightDim    float64
	Color           Color
}

// BullyParams configures UpdateBully.
type BullyParams struct {
	MaxDistance float64
	Pain        float64
}

// NewParams resolves subsystem parameters from cfg.
func NewParams(cfg *config.Config) Params {
	return Params{
		Daylight: DaylightParams{
			Change: cfg.Daylight.Change,
			Upper:  cfg.Daylight.Upper,
			Lower:  cfg.Daylight.Lower,
		},
		Babble: BabbleParams{
			Increment:   cfg.Babble.Increment,
			Decrement:   cfg.Babble.Decrement,
			MaxDistance: cfg.Babble.MaxFriendDistance,
		},
		Food: FoodParams{
			MaxEatDistance:  cfg.Food.MaxEatDistance,
			Increment:       cfg.Food.Increment,
			Decrement:       cfg.Food.Decrement,
			EatThreshold:    cfg.Food.EatThreshold,
			Setpoint:        cfg.Health.Setpoint,
			HealthChange:    cfg.Health.Change,
			GoodHealth:      cfg.Health.GoodFood,
			BadHealth:       cfg.Health.BadFood,
			TypeLightBright: cfg.Food.TypeLightBright,
			TypeLightDim:    cfg.Food.TypeLightDim,
			Color:           Color{RGB: cfg.Food.Color},
		},
		Bully: BullyParams{
			MaxDistance: cfg.Bully.MaxDistance,
			Pain:        cfg.Bully.Pain,
		},
	}
}
