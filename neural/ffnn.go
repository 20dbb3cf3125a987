// Package neural provides the feedforward network that drives Alice.
package neural

import (
	"fmt"
	"math"
	"math/rand"
)

// Network dimensions (compile-time constants for array sizing).
const (
	NumInputs  = 12 // 4 light categories x (left, right) + health, hunger, babble, daylight
	NumHidden  = 8
	NumOutputs = 3 // left motor, right motor, eat food
)

// NumWeights is the length of the flattened parameter vector.
const NumWeights = NumHidden*NumInputs + NumHidden + NumOutputs*NumHidden + NumOutputs

// FFNN is a simple two-layer feedforward neural network.
type FFNN struct {
	W1 [NumHidden][NumInputs]float32  // input -> hidden weights
	B1 [NumHidden]float32             // hidden biases
	W2 [NumOutputs][NumHidden]float32 // hidden -> output weights
	B2 [NumOutputs]float32            // output biases
}

// NewFFNN creates a randomly initialized network.
// The eat output is biased toward zero so naive brains do not eat everything they touch.
func NewFFNN(rng *rand.Rand, sigma float64) *FFNN {
	nn := &FFNN{}
	// Xavier initialization
	scale1 := float32(sigma * math.Sqrt(2.0/float64(NumInputs)))
	scale2 := float32(sigma * math.Sqrt(2.0/float64(NumHidden)))

	for i := range nn.W1 {
		for j := range nn.W1[i] {
			nn.W1[i][j] = float32(rng.NormFloat64()) * scale1
		}
	}
	for i := range nn.W2 {
		for j := range nn.W2[i] {
			nn.W2[i][j] = float32(rng.NormFloat64()) * scale2
		}
	}

	// Motors start slightly forward so Alice explores.
	nn.B2[0] = 0.3
	nn.B2[1] = 0.3
	nn.B2[2] = -1.0

	return nn
}

// Forward computes the network output.
// Returns: left [-1,1], right [-1,1], eat [0,1]
func (nn *FFNN) Forward(inputs []float32) (left, right, eat float32) {
	var hidden [NumHidden]float32
	for i := 0; i < NumHidden; i++ {
		sum := nn.B1[i]
		for j := 0; j < NumInputs; j++ {
			sum += nn.W1[i][j] * inputs[j]
		}
		hidden[i] = tanh(sum)
	}

	var outputs [NumOutputs]float32
	for i := 0; i < NumOutputs; i++ {
		sum := nn.B2[i]
		for j := 0; j < NumHidden; j++ {
			sum += nn.W2[i][j] * hidden[j]
		}
		outputs[i] = sum
	}

	left = tanh(outputs[0])
	right = tanh(outputs[1])
	eat = saturate01(outputs[2]*0.5 + 0.5)

	return left, right, eat
}

// saturate01 clamps x to [0, 1].
func saturate01(x float32) float32 {
	if x <= 0 {
		return 0
	}
	if x >= 1 {
		return 1
	}
	return x
}

// Mutate perturbs weights and biases with Gaussian noise.
func (nn *FFNN) Mutate(rng *rand.Rand, strength float32) {
	for i := range nn.W1 {
		for j := range nn.W1[i] {
			nn.W1[i][j] += float32(rng.NormFloat64()) * strength
		}
		nn.B1[i] += float32(rng.NormFloat64()) * strength
	}

	for i := range nn.W2 {
		for j := range nn.W2[i] {
			nn.W2[i][j] += float32(rng.NormFloat64()) * strength
		}
		nn.B2[i] += float32(rng.NormFloat64()) * strength
	}
}

// Clone creates a deep copy of the network.
func (nn *FFNN) Clone() *FFNN {
	clone := *nn
	return &clone
}

// tanh uses a fast rational approximation avoiding float64 conversion.
func tanh(x float32) float32 {
	if x > 4 {
		return 1
	}
	if x < -4 {
		return -1
	}
	x2 := x * x
	return x * (27 + x2) / (27 + 9*x2)
}

// Vector flattens all parameters as W1, B1, W2, B2 for the optimizer.
func (nn *FFNN) Vector() []float64 {
	v := make([]float64, 0, NumWeights)
	for i := range nn.W1 {
		for _, w := range nn.W1[i] {
			v = append(v, float64(w))
		}
	}
	for _, b := range nn.B1 {
		v = append(v, float64(b))
	}
	for i := range nn.W2 {
		for _, w := range nn.W2[i] {
			v = append(v, float64(w))
		}
	}
	for _, b := range nn.B2 {
		v = append(v, float64(b))
	}
	return v
}

// FromVector builds a network from a vector produced by Vector.
func FromVector(v []float64) (*FFNN, error) {
	if len(v) != NumWeights {
		return nil, fmt.Errorf("weight vector has %d entries, want %d", len(v), NumWeights)
	}
	nn := &FFNN{}
	k := 0
	for i := range nn.W1 {
		for j := range nn.W1[i] {
			nn.W1[i][j] = float32(v[k])
			k++
		}
	}
	for i := range nn.B1 {
		nn.B1[i] = float32(v[k])
		k++
	}
	for i := range nn.W2 {
		for j := range nn.W2[i] {
			nn.W2[i][j] = float32(v[k])
			k++
		}
	}
	for i := range nn.B2 {
		nn.B2[i] = float32(v[k])
		k++
	}
	return nn, nil
}

// BrainWeights holds flattened network weights for serialization.
type BrainWeights struct {
	W1 []float32 `json:"w1"` // [NumHidden * NumInputs]
	B1 []float32 `json:"b1"` // [NumHidden]
	W2 []float32 `json:"w2"` // [NumOutputs * NumHidden]
	B2 []float32 `json:"b2"` // [NumOutputs]
}

// MarshalWeights flattens the network weights for JSON serialization.
func (nn *FFNN) MarshalWeights() BrainWeights {
	bw := BrainWeights{
		W1: make([]float32, NumHidden*NumInputs),
		B1: make([]float32, NumHidden),
		W2: make([]float32, NumOutputs*NumHidden),
		B2: make([]float32, NumOutputs),
	}

	for i := 0; i < NumHidden; i++ {
		for j := 0; j < NumInputs; j++ {
			bw.W1[i*NumInputs+j] = nn.W1[i][j]
		}
	}
	copy(bw.B1, nn.B1[:])

	for i := 0; i < NumOutputs; i++ {
		for j := 0; j < NumHidden; j++ {
			bw.W2[i*NumHidden+j] = nn.W2[i][j]
		}
	}
	copy(bw.B2, nn.B2[:])

	return bw
}

// UnmarshalWeights restores network weights from flattened form.
// Short slices leave the remaining weights untouched.
func (nn *FFNN) UnmarshalWeights(bw BrainWeights) {
	for i := 0; i < NumHidden; i++ {
		for j := 0; j < NumInputs; j++ {
			if i*NumInputs+j < len(bw.W1) {
				nn.W1[i][j] = bw.W1[i*NumInputs+j]
			}
		}
	}
	for i := 0; i < NumHidden && i < len(bw.B1); i++ {
		nn.B1[i] = bw.B1[i]
	}

	for i := 0; i < NumOutputs; i++ {
		for j := 0; j < NumHidden; j++ {
			if i*NumHidden+j < len(bw.W2) {
				nn.W2[i][j] = bw.W2[i*NumHidden+j]
			}
		}
	}
	for i := 0; i < NumOutputs && i < len(bw.B2); i++ {
		nn.B2[i] = bw.B2[i]
	}
}
