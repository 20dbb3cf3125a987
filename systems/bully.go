package systems

import "gonum.org/v1/gonum/spatial/r3"

// UpdateBully applies pain for every bad guy within range of Alice.
// Both bad guys hurt independently in the same tick. Returns the hit count.
func UpdateBully(health *float64, alice r3.Vec, badGuys [2]r3.Vec, p BullyParams) (hits int) {
	for _, bg := range badGuys {
		if Distance2D(alice, bg) <= p.MaxDistance {
			*health -= p.Pain
			hits++
		}
	}
	return hits
}
