package systems

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"
)

func TestDistance2D(t *testing.T) {
	tests := []struct {
		name string
		a, b r3.Vec
		want float64
	}{
		{"same point", r3.Vec{X: 1, Y: 2, Z: 3}, r3.Vec{X: 1, Y: 2, Z: 3}, 0},
		{"ignores y", r3.Vec{X: 0, Y: 0, Z: 0}, r3.Vec{X: 0, Y: 5, Z: 0}, 0},
		{"3-4-5 triangle", r3.Vec{X: 0, Y: 1, Z: 0}, r3.Vec{X: 3, Y: -7, Z: 4}, 5},
		{"symmetric", r3.Vec{X: 3, Z: 4}, r3.Vec{}, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Distance2D(tt.a, tt.b)
			if math.Abs(got-tt.want) > 1e-12 {
				t.Errorf("Distance2D(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestDistance3D(t *testing.T) {
	tests := []struct {
		name string
		a, b r3.Vec
		want float64
	}{
		{"same point", r3.Vec{X: 1, Y: 1, Z: 1}, r3.Vec{X: 1, Y: 1, Z: 1}, 0},
		{"y only", r3.Vec{}, r3.Vec{Y: 2}, 2},
		{"2-3-6 box", r3.Vec{}, r3.Vec{X: 2, Y: 3, Z: 6}, 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Distance3D(tt.a, tt.b)
			if math.Abs(got-tt.want) > 1e-12 {
				t.Errorf("Distance3D(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}
