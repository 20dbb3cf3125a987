package game

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/pthm-cable/wonderland/components"
	"github.com/pthm-cable/wonderland/config"
	"github.com/pthm-cable/wonderland/neural"
	"github.com/pthm-cable/wonderland/telemetry"
)

func init() {
	config.MustInit("")
}

// stillBrain never moves and never eats.
func stillBrain() *neural.FFNN {
	return &neural.FFNN{}
}

// eagerBrain stands still and always eats.
func eagerBrain() *neural.FFNN {
	nn := &neural.FFNN{}
	nn.B2[2] = 1
	return nn
}

func testConfig(steps int) *config.Config {
	cfg := config.Cfg().Clone()
	cfg.Episode.StepsPerTry = steps
	cfg.Episode.Tries = 1
	return cfg
}

func newTestGame(t *testing.T, cfg *config.Config, brain *neural.FFNN) *Game {
	t.Helper()
	g, err := NewGame(Options{Seed: 10, Config: cfg, Brain: brain})
	if err != nil {
		t.Fatalf("NewGame: %v", err)
	}
	t.Cleanup(func() { g.Close() })
	return g
}

func TestRunTry_StopsAtStepLimit(t *testing.T) {
	g := newTestGame(t, testConfig(50), stillBrain())

	ts := g.RunTry(0)

	if ts.Ticks != 50 || ts.Fitness != 50 || ts.Died {
		t.Errorf("try = %+v, want 50 ticks survived", ts)
	}
	if ts.Seed != 10 {
		t.Errorf("seed = %d, want 10", ts.Seed)
	}
}

func TestRunTry_TerminatesOnDeath(t *testing.T) {
	cfg := testConfig(1000)
	cfg.Scene.BadGuyStarts = [][3]float64{{0, 0, 0}, {0, 0, 0}}
	cfg.Scene.BadGuySpeed = 0
	g := newTestGame(t, cfg, stillBrain())

	ts := g.RunTry(0)

	// 0.5 -> 0.3 -> 0.11 -> -0.08
	if !ts.Died || ts.Ticks != 3 || ts.Fitness != 3 {
		t.Errorf("try = %+v, want death after 3 ticks", ts)
	}
	if ts.BullyHits != 6 {
		t.Errorf("bully hits = %d, want 6", ts.BullyHits)
	}
	if math.Abs(ts.FinalHealth-(-0.08)) > 1e-9 {
		t.Errorf("final health = %v, want -0.08", ts.FinalHealth)
	}
}

func TestRunTry_KeepsGoingWithoutTermination(t *testing.T) {
	cfg := testConfig(20)
	cfg.Episode.TerminateOnDeath = false
	cfg.Scene.BadGuyStarts = [][3]float64{{0, 0, 0}, {0, 0, 0}}
	cfg.Scene.BadGuySpeed = 0
	g := newTestGame(t, cfg, stillBrain())

	ts := g.RunTry(0)

	if ts.Died || ts.Ticks != 20 || ts.Fitness != 20 {
		t.Errorf("try = %+v, want all 20 ticks", ts)
	}
}

func TestRunTry_GoodFoodAtStart(t *testing.T) {
	cfg := testConfig(1)
	cfg.Scene.FoodPositions[0] = [3]float64{0, 0, 0}
	g := newTestGame(t, cfg, eagerBrain())

	ts := g.RunTry(0) // seed 10 is even, food 0 is good

	if ts.GoodEaten != 1 || ts.BadEaten != 0 {
		t.Errorf("try = %+v, want one good source eaten", ts)
	}
	if ts.FinalHealth != 1.0 {
		t.Errorf("final health = %v, want 1.0", ts.FinalHealth)
	}
	if vis := g.Scene().FoodVisual(0); vis.Color != "transparent" || vis.Light != 0 {
		t.Errorf("eaten source visual = %+v", vis)
	}
}

func TestRunTry_BadFoodKills(t *testing.T) {
	cfg := testConfig(100)
	cfg.Scene.FoodPositions[0] = [3]float64{0, 0, 0}
	g := newTestGame(t, cfg, eagerBrain())

	ts := g.RunTry(1) // seed 11 is odd, food 0 is bad

	if !ts.Died || ts.Ticks != 1 || ts.BadEaten != 1 {
		t.Errorf("try = %+v, want immediate death by bad food", ts)
	}
}

func TestRun_SumsTries(t *testing.T) {
	cfg := testConfig(10)
	cfg.Episode.Tries = 3

	var seen []telemetry.TryStats
	g, err := NewGame(Options{
		Seed:        100,
		Config:      cfg,
		Brain:       stillBrain(),
		TryCallback: func(ts telemetry.TryStats) { seen = append(seen, ts) },
	})
	if err != nil {
		t.Fatal(err)
	}
	defer g.Close()

	if got := g.Run(); got != 30 {
		t.Errorf("Run() = %v, want 30", got)
	}
	if len(seen) != 3 || len(g.Tries()) != 3 {
		t.Fatalf("callbacks = %d, tries = %d, want 3", len(seen), len(g.Tries()))
	}
	for i, ts := range seen {
		if ts.Try != i || ts.Seed != 100+int64(i) {
			t.Errorf("try %d = %+v", i, ts)
		}
	}
}

func TestGame_WriteBackAfterStep(t *testing.T) {
	g := newTestGame(t, testConfig(1), stillBrain())
	g.RunTry(0)

	for i := 0; i < 4; i++ {
		vis := g.Scene().FoodVisual(i)
		if vis.Light != 1 || vis.Color != "(150, 150, 180)" {
			t.Errorf("food %d visual = %+v", i, vis)
		}
	}
}

func TestGame_Deterministic(t *testing.T) {
	cfg := testConfig(500)
	brainA := neural.NewFFNN(newRand(3), 1.0)
	brainB := brainA.Clone()

	a := newTestGame(t, cfg, brainA)
	b := newTestGame(t, cfg, brainB)

	if ta, tb := a.RunTry(2), b.RunTry(2); ta != tb {
		t.Errorf("same seed and brain diverged:\n%+v\n%+v", ta, tb)
	}
	alice := components.Role{Kind: components.KindAlice}
	if a.Scene().Position(alice) != b.Scene().Position(alice) {
		t.Error("Alice positions diverged")
	}
}

func TestGame_StatsCallbackWindows(t *testing.T) {
	cfg := testConfig(250)
	cfg.Telemetry.StatsWindow = 100

	var windows []telemetry.WindowStats
	g, err := NewGame(Options{
		Seed:          1,
		Config:        cfg,
		Brain:         stillBrain(),
		StatsCallback: func(ws telemetry.WindowStats) { windows = append(windows, ws) },
	})
	if err != nil {
		t.Fatal(err)
	}
	defer g.Close()

	g.RunTry(0)

	// Two full windows plus the partial one flushed at the end of the try
	if len(windows) != 3 {
		t.Fatalf("got %d windows, want 3", len(windows))
	}
	if windows[0].WindowEndTick != 100 || windows[2].WindowEndTick != 250 {
		t.Errorf("window ends = %d, %d", windows[0].WindowEndTick, windows[2].WindowEndTick)
	}
}

func TestGame_OutputDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	cfg := testConfig(20)
	cfg.Episode.Tries = 2

	g, err := NewGame(Options{Seed: 5, Config: cfg, Brain: stillBrain(), OutputDir: dir})
	if err != nil {
		t.Fatal(err)
	}
	g.Run()
	if err := g.Close(); err != nil {
		t.Fatal(err)
	}

	for _, name := range []string{"telemetry.csv", "tries.csv", "perf.csv", "bookmarks.csv", "config.yaml", "brain.json"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("%s missing: %v", name, err)
		}
	}

	brain, err := neural.LoadJSON(filepath.Join(dir, "brain.json"))
	if err != nil {
		t.Fatal(err)
	}
	if *brain != *stillBrain() {
		t.Error("saved brain differs")
	}
}
