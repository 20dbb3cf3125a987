package game

import (
	"math"
	"math/rand"
	"testing"

	"github.com/pthm-cable/wonderland/components"
	"github.com/pthm-cable/wonderland/config"
)

func newRand(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}

func TestScene_ResetPlacesEntities(t *testing.T) {
	cfg := config.Cfg()
	s := NewScene(cfg)
	s.Reset(1, newRand(1))

	in := s.Inputs()
	if in.Alice != vecOf(cfg.Scene.AliceStart) {
		t.Errorf("alice = %v", in.Alice)
	}
	for i := range in.Food {
		if in.Food[i] != vecOf(cfg.Scene.FoodPositions[i]) {
			t.Errorf("food %d = %v", i, in.Food[i])
		}
	}
	for i := range in.Friends {
		if in.Friends[i] != vecOf(cfg.Scene.FriendStarts[i]) {
			t.Errorf("friend %d = %v", i, in.Friends[i])
		}
		if in.BadGuys[i] != vecOf(cfg.Scene.BadGuyStarts[i]) {
			t.Errorf("bad guy %d = %v", i, in.BadGuys[i])
		}
	}
}

func TestScene_MoveStaysInArena(t *testing.T) {
	cfg := config.Cfg().Clone()
	cfg.Scene.FriendSpeed = 0.05
	cfg.Scene.BadGuySpeed = 0.05
	s := NewScene(cfg)
	s.Reset(7, newRand(7))
	s.SetMotor(components.Motor{Left: 1, Right: 0.8})

	half := cfg.Scene.ArenaHalfSize
	for i := 0; i < 2000; i++ {
		s.Move()
		in := s.Inputs()
		for _, p := range append([]struct{ X, Z float64 }{{in.Alice.X, in.Alice.Z}},
			struct{ X, Z float64 }{in.Friends[0].X, in.Friends[0].Z},
			struct{ X, Z float64 }{in.BadGuys[1].X, in.BadGuys[1].Z}) {
			if math.Abs(p.X) > half+1e-12 || math.Abs(p.Z) > half+1e-12 {
				t.Fatalf("tick %d: entity left the arena at (%v, %v)", i, p.X, p.Z)
			}
		}
	}
}

func TestScene_DifferentialDrive(t *testing.T) {
	cfg := config.Cfg()
	s := NewScene(cfg)
	s.Reset(0, newRand(0))
	start, heading := s.AlicePose()

	// Equal motors drive straight
	s.SetMotor(components.Motor{Left: 1, Right: 1})
	s.Move()
	pos, h := s.AlicePose()
	if h != heading {
		t.Errorf("heading changed %v -> %v", heading, h)
	}
	moved := math.Hypot(pos.X-start.X, pos.Z-start.Z)
	if math.Abs(moved-cfg.Scene.AliceSpeed) > 1e-12 {
		t.Errorf("moved %v, want %v", moved, cfg.Scene.AliceSpeed)
	}

	// Opposite motors turn in place
	s.SetMotor(components.Motor{Left: -1, Right: 1})
	s.Move()
	pos2, h2 := s.AlicePose()
	if pos2 != pos {
		t.Errorf("turning in place moved Alice %v -> %v", pos, pos2)
	}
	want := heading + cfg.Scene.AliceTurn
	if math.Abs(math.Remainder(h2-want, 2*math.Pi)) > 1e-9 {
		t.Errorf("heading = %v, want %v", h2, want)
	}
}

func TestScene_SenseSeesBadGuy(t *testing.T) {
	cfg := config.Cfg().Clone()
	cfg.Scene.BadGuyStarts = [][3]float64{{0.1, 0, 0}, {0.1, 0, 0}}
	cfg.Scene.FriendStarts = [][3]float64{{-0.5, 0, 0.5}, {-0.5, 0, 0.5}}
	s := NewScene(cfg)
	s.Reset(0, newRand(0))

	// Face +X toward the bad guys
	s.headMap.Get(s.alice).Angle = 0

	_, _, friends, badGuys := s.Sense(cfg.Scene.SensorRange)
	if badGuys.Left <= 0 || badGuys.Right <= 0 {
		t.Errorf("bad guys ahead not sensed: %+v", badGuys)
	}
	if friends.Left != 0 || friends.Right != 0 {
		t.Errorf("friends out of range sensed: %+v", friends)
	}
}

func TestScene_PositionByRole(t *testing.T) {
	cfg := config.Cfg()
	s := NewScene(cfg)
	s.Reset(0, newRand(0))

	got := s.Position(components.Role{Kind: components.KindFood, Index: 2})
	if got != vecOf(cfg.Scene.FoodPositions[2]) {
		t.Errorf("food 2 at %v", got)
	}
}
