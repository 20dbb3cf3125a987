package main

import (
	"math/rand"

	"github.com/pthm-cable/wonderland/neural"
)

// ParamVector describes the search space: every weight and bias of Alice's brain.
type ParamVector struct {
	Bound float64 // Weights are clamped to [-Bound, Bound]
}

// NewParamVector creates the weight search space.
func NewParamVector(bound float64) *ParamVector {
	return &ParamVector{Bound: bound}
}

// Dim returns the number of optimized parameters.
func (p *ParamVector) Dim() int {
	return neural.NumWeights
}

// InitialVector draws a starting point from the network's own initializer.
func (p *ParamVector) InitialVector(seed int64, sigma float64) []float64 {
	return p.Clamp(neural.NewFFNN(rand.New(rand.NewSource(seed)), sigma).Vector())
}

// Clamp returns a copy of x with every entry inside the bounds.
func (p *ParamVector) Clamp(x []float64) []float64 {
	out := make([]float64, len(x))
	for i, v := range x {
		switch {
		case v < -p.Bound:
			out[i] = -p.Bound
		case v > p.Bound:
			out[i] = p.Bound
		default:
			out[i] = v
		}
	}
	return out
}

// Brain builds the network for a clamped parameter vector.
func (p *ParamVector) Brain(x []float64) (*neural.FFNN, error) {
	return neural.FromVector(p.Clamp(x))
}
