package main

import (
	"math"
	"testing"

	"github.com/pthm-cable/wonderland/config"
	"github.com/pthm-cable/wonderland/neural"
)

func init() {
	config.MustInit("")
}

func TestEvaluate_StillBrainSurvives(t *testing.T) {
	cfg := config.Cfg().Clone()
	cfg.Episode.StepsPerTry = 20
	cfg.Episode.Tries = 2

	fe := NewFitnessEvaluator(NewParamVector(5), []int64{42, 1042}, cfg)

	// All-zero weights: no motion, eat signal stays at 0.5
	got := fe.Evaluate(make([]float64, neural.NumWeights))

	if got != -40 {
		t.Errorf("fitness = %v, want -40", got)
	}
	if fe.LastDeathRate() != 0 {
		t.Errorf("death rate = %v, want 0", fe.LastDeathRate())
	}
	best, x := fe.Best()
	if best != -40 || len(x) != neural.NumWeights {
		t.Errorf("best = %v with %d weights", best, len(x))
	}
}

func TestEvaluate_DeathLowersFitness(t *testing.T) {
	cfg := config.Cfg().Clone()
	cfg.Episode.StepsPerTry = 100
	cfg.Episode.Tries = 1
	cfg.Scene.BadGuyStarts = [][3]float64{{0, 0, 0}, {0, 0, 0}}
	cfg.Scene.BadGuySpeed = 0

	fe := NewFitnessEvaluator(NewParamVector(5), []int64{7}, cfg)
	got := fe.Evaluate(make([]float64, neural.NumWeights))

	if got != -3 {
		t.Errorf("fitness = %v, want -3", got)
	}
	if fe.LastDeathRate() != 1 {
		t.Errorf("death rate = %v, want 1", fe.LastDeathRate())
	}
}

func TestParamVector_Clamp(t *testing.T) {
	p := NewParamVector(2)
	in := []float64{-5, -2, 0, 1.5, 9}
	got := p.Clamp(in)
	want := []float64{-2, -2, 0, 1.5, 2}

	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Clamp[%d] = %v, want %v", i, got[i], want[i])
		}
	}
	if in[0] != -5 {
		t.Error("Clamp modified its input")
	}
}

func TestParamVector_InitialVector(t *testing.T) {
	p := NewParamVector(0.5)
	x := p.InitialVector(1, 1.0)

	if len(x) != p.Dim() {
		t.Fatalf("len = %d, want %d", len(x), p.Dim())
	}
	for i, v := range x {
		if math.Abs(v) > 0.5 {
			t.Errorf("weight %d = %v outside bound", i, v)
		}
	}

	brain, err := p.Brain(x)
	if err != nil {
		t.Fatal(err)
	}
	if brain.B2[2] != -0.5 {
		t.Errorf("eat bias = %v, want clamped -0.5", brain.B2[2])
	}
}
