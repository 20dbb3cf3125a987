package systems

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Distance2D returns the Euclidean distance of a and b in the x-z ground plane.
func Distance2D(a, b r3.Vec) float64 {
	dx := a.X - b.X
	dz := a.Z - b.Z
	return math.Sqrt(dx*dx + dz*dz)
}

// Distance3D returns the Euclidean distance of a and b.
func Distance3D(a, b r3.Vec) float64 {
	return r3.Norm(r3.Sub(a, b))
}
