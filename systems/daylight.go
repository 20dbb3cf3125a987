package systems

import "gonum.org/v1/gonum/spatial/r3"

// Direction is the travel direction of the daylight oscillator.
type Direction int8

const (
	Rising  Direction = 1
	Falling Direction = -1
)

// String returns "rising" or "falling".
func (d Direction) String() string {
	if d == Falling {
		return "falling"
	}
	return "rising"
}

// Daylight is the day/night oscillator state.
type Daylight struct {
	Level     float64
	Direction Direction
	Ambient   r3.Vec // derived from Level every tick
}

// AmbientFor returns the ambient light color for a daylight level.
func AmbientFor(level float64) r3.Vec {
	return r3.Vec{
		X: 0.4 + 0.4*level,
		Y: 0.4 + 0.4*level,
		Z: 0.6 + 0.2*level,
	}
}

// UpdateDaylight advances the oscillator by one tick and reports whether the
// direction flipped. Bounds are checked before the increment, so the level can
// overshoot either bound by one step.
func UpdateDaylight(d *Daylight, p DaylightParams) (flipped bool) {
	prev := d.Direction
	if d.Level > p.Upper {
		d.Direction = Falling
	} else if d.Level <= p.Lower {
		d.Direction = Rising
	}
	if d.Direction == 0 {
		d.Direction = Rising
	}

	d.Level += p.Change * float64(d.Direction)
	d.Ambient = AmbientFor(d.Level)

	return prev != 0 && prev != d.Direction
}
