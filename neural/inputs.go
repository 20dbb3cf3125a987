package neural

// LightPair is a left/right pair of light sensor readings in [0,1].
type LightPair struct {
	Left, Right float32
}

// SensoryInputs holds Alice's sensor readings for one tick.
// Layout: food (2) + food type (2) + friends (2) + bad guys (2) + homeostatic (4) = 12 total
type SensoryInputs struct {
	// Light sensors, one left/right pair per category
	Food     LightPair
	FoodType LightPair
	Friends  LightPair
	BadGuys  LightPair

	// Homeostatic control parameters fed back from the engine
	Health   float32
	Hunger   float32
	Babble   float32
	DayLight float32
}

// AsSlice writes the inputs into dst in network order and returns it.
// dst must have room for NumInputs values; a nil dst allocates.
func (s *SensoryInputs) AsSlice(dst []float32) []float32 {
	if len(dst) < NumInputs {
		dst = make([]float32, NumInputs)
	}
	dst[0] = s.Food.Left
	dst[1] = s.Food.Right
	dst[2] = s.FoodType.Left
	dst[3] = s.FoodType.Right
	dst[4] = s.Friends.Left
	dst[5] = s.Friends.Right
	dst[6] = s.BadGuys.Left
	dst[7] = s.BadGuys.Right
	dst[8] = s.Health
	dst[9] = clampSym(s.Hunger)
	dst[10] = clampSym(s.Babble)
	dst[11] = s.DayLight
	return dst[:NumInputs]
}

// clampSym keeps the unbounded drives in [-1, 1] so they cannot saturate the hidden layer.
func clampSym(x float32) float32 {
	if x > 1 {
		return 1
	}
	if x < -1 {
		return -1
	}
	return x
}
