package systems

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// sensorSplay is the angle of each light sensor off the heading.
const sensorSplay = math.Pi / 4

// LightSource is anything a light sensor can see.
type LightSource struct {
	Position  r3.Vec
	Intensity float64 // [0,1], zero sources are skipped
}

// LightReading is the pair of left and right sensor values, each in [0,1).
type LightReading struct {
	Left, Right float64
}

// SenseLights computes the left/right light sensor response of an observer at
// pos facing heading (radians from +X toward +Z on the ground plane). A
// positive relative angle is on the observer's left. Each sensor responds with
// the cosine of its angle to the source, falling off linearly to zero at
// sensorRange; contributions are summed and smoothly saturated.
func SenseLights(pos r3.Vec, heading float64, sources []LightSource, sensorRange float64) LightReading {
	var left, right float64
	for _, s := range sources {
		if s.Intensity <= 0 {
			continue
		}

		dist := Distance2D(pos, s.Position)
		if dist > sensorRange {
			continue
		}
		weight := s.Intensity * (1 - dist/sensorRange)

		if dist < 1e-9 {
			// On top of the source: both sensors see it fully
			left += weight
			right += weight
			continue
		}

		// Angle to source relative to heading
		angle := math.Atan2(s.Position.Z-pos.Z, s.Position.X-pos.X)
		rel := NormalizeAngle(angle - heading)

		left += weight * clamp01(math.Cos(rel-sensorSplay))
		right += weight * clamp01(math.Cos(rel+sensorSplay))
	}

	return LightReading{Left: smoothSaturate(left), Right: smoothSaturate(right)}
}

// NormalizeAngle wraps angle to [-pi, pi].
func NormalizeAngle(a float64) float64 {
	for a > math.Pi {
		a -= 2 * math.Pi
	}
	for a < -math.Pi {
		a += 2 * math.Pi
	}
	return a
}

func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}

// smoothSaturate uses 1 - exp(-x) for smooth [0,1] saturation.
func smoothSaturate(x float64) float64 {
	if x <= 0 {
		return 0
	}
	return 1.0 - math.Exp(-x)
}
