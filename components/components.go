// Package components defines ECS components for the wonderland scene.
package components

import "gonum.org/v1/gonum/spatial/r3"

// Kind identifies what a scene entity is.
type Kind uint8

const (
	KindAlice Kind = iota
	KindFriend
	KindBadGuy
	KindFood
)

// String returns the scene name of the kind.
func (k Kind) String() string {
	switch k {
	case KindAlice:
		return "alice"
	case KindFriend:
		return "friend"
	case KindBadGuy:
		return "badguy"
	case KindFood:
		return "food"
	}
	return "unknown"
}

// Position represents an entity's world position. Y is up; the ground plane is x-z.
type Position struct {
	X, Y, Z float64
}

// Vec returns the position as a gonum vector.
func (p Position) Vec() r3.Vec {
	return r3.Vec{X: p.X, Y: p.Y, Z: p.Z}
}

// PositionOf converts a vector to a Position.
func PositionOf(v r3.Vec) Position {
	return Position{X: v.X, Y: v.Y, Z: v.Z}
}

// Heading is the ground-plane facing angle in radians, measured from +X toward +Z.
type Heading struct {
	Angle float64
}

// Role tags an entity with its kind and index within that kind.
type Role struct {
	Kind  Kind
	Index uint8
}

// Wander drives noise-based motion for friends and bad guys.
type Wander struct {
	Speed  float64 // distance per tick
	Offset float64 // noise-space offset so walkers decorrelate
}

// Motor holds Alice's differential-drive commands for the current tick.
type Motor struct {
	Left, Right float64 // [-1, 1]
	EatFood     float64 // [0, 1]
}

// FoodVisual mirrors the engine's per-source visual outputs.
type FoodVisual struct {
	Light     float64
	TypeLight float64
	Color     string
}
