// Package persistence provides SQLite-based storage of runs and their tries.
package persistence

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/pthm-cable/wonderland/telemetry"
)

// DB wraps a SQLite connection for run history.
type DB struct {
	conn *sqlx.DB
}

// Run is one invocation of the host: a brain evaluated over a number of tries.
type Run struct {
	ID           string    `db:"id"`
	StartedAt    time.Time `db:"started_at"`
	Seed         int64     `db:"seed"`
	Tries        int       `db:"tries"`
	StepsPerTry  int       `db:"steps_per_try"`
	BrainPath    string    `db:"brain_path"`
	TotalFitness float64   `db:"total_fitness"`
}

// NewRun creates a run record with a fresh ID.
func NewRun(seed int64, tries, stepsPerTry int, brainPath string) Run {
	return Run{
		ID:          uuid.NewString(),
		StartedAt:   time.Now().UTC(),
		Seed:        seed,
		Tries:       tries,
		StepsPerTry: stepsPerTry,
		BrainPath:   brainPath,
	}
}

// tryRow is the database shape of telemetry.TryStats.
type tryRow struct {
	RunID       string  `db:"run_id"`
	Try         int     `db:"try"`
	Seed        int64   `db:"seed"`
	Ticks       int     `db:"ticks"`
	Fitness     float64 `db:"fitness"`
	Died        bool    `db:"died"`
	FinalHealth float64 `db:"final_health"`
	FinalHunger float64 `db:"final_hunger"`
	GoodEaten   int     `db:"good_eaten"`
	BadEaten    int     `db:"bad_eaten"`
	BullyHits   int     `db:"bully_hits"`
}

// Open opens or creates a SQLite database at the given path.
func Open(path string) (*DB, error) {
	conn, err := sqlx.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return db, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		started_at TIMESTAMP NOT NULL,
		seed INTEGER NOT NULL,
		tries INTEGER NOT NULL,
		steps_per_try INTEGER NOT NULL,
		brain_path TEXT NOT NULL,
		total_fitness REAL NOT NULL
	);

	CREATE TABLE IF NOT EXISTS tries (
		run_id TEXT NOT NULL REFERENCES runs(id),
		try INTEGER NOT NULL,
		seed INTEGER NOT NULL,
		ticks INTEGER NOT NULL,
		fitness REAL NOT NULL,
		died INTEGER NOT NULL,
		final_health REAL NOT NULL,
		final_hunger REAL NOT NULL,
		good_eaten INTEGER NOT NULL,
		bad_eaten INTEGER NOT NULL,
		bully_hits INTEGER NOT NULL,
		PRIMARY KEY (run_id, try)
	);

	CREATE INDEX IF NOT EXISTS idx_runs_fitness ON runs(total_fitness);
	`
	_, err := db.conn.Exec(schema)
	return err
}

// SaveRun inserts or updates a run record.
func (db *DB) SaveRun(r Run) error {
	_, err := db.conn.NamedExec(`INSERT INTO runs
		(id, started_at, seed, tries, steps_per_try, brain_path, total_fitness)
		VALUES (:id, :started_at, :seed, :tries, :steps_per_try, :brain_path, :total_fitness)
		ON CONFLICT(id) DO UPDATE SET total_fitness = excluded.total_fitness`, r)
	if err != nil {
		return fmt.Errorf("save run %s: %w", r.ID, err)
	}
	return nil
}

// SaveTry records the summary of one try of a run.
func (db *DB) SaveTry(runID string, ts telemetry.TryStats) error {
	row := tryRow{
		RunID:       runID,
		Try:         ts.Try,
		Seed:        ts.Seed,
		Ticks:       ts.Ticks,
		Fitness:     ts.Fitness,
		Died:        ts.Died,
		FinalHealth: ts.FinalHealth,
		FinalHunger: ts.FinalHunger,
		GoodEaten:   ts.GoodEaten,
		BadEaten:    ts.BadEaten,
		BullyHits:   ts.BullyHits,
	}
	_, err := db.conn.NamedExec(`INSERT OR REPLACE INTO tries
		(run_id, try, seed, ticks, fitness, died, final_health, final_hunger,
		 good_eaten, bad_eaten, bully_hits)
		VALUES (:run_id, :try, :seed, :ticks, :fitness, :died, :final_health, :final_hunger,
		 :good_eaten, :bad_eaten, :bully_hits)`, row)
	if err != nil {
		return fmt.Errorf("save try %d of run %s: %w", ts.Try, runID, err)
	}
	return nil
}

// LoadTries returns the tries of a run in order.
func (db *DB) LoadTries(runID string) ([]telemetry.TryStats, error) {
	var rows []tryRow
	err := db.conn.Select(&rows, `SELECT run_id, try, seed, ticks, fitness, died,
		final_health, final_hunger, good_eaten, bad_eaten, bully_hits
		FROM tries WHERE run_id = ? ORDER BY try`, runID)
	if err != nil {
		return nil, fmt.Errorf("load tries of run %s: %w", runID, err)
	}

	out := make([]telemetry.TryStats, len(rows))
	for i, r := range rows {
		out[i] = telemetry.TryStats{
			Try:         r.Try,
			Seed:        r.Seed,
			Ticks:       r.Ticks,
			Fitness:     r.Fitness,
			Died:        r.Died,
			FinalHealth: r.FinalHealth,
			FinalHunger: r.FinalHunger,
			GoodEaten:   r.GoodEaten,
			BadEaten:    r.BadEaten,
			BullyHits:   r.BullyHits,
		}
	}
	return out, nil
}

// LoadRun returns a single run by ID.
func (db *DB) LoadRun(id string) (Run, error) {
	var r Run
	err := db.conn.Get(&r, `SELECT id, started_at, seed, tries, steps_per_try, brain_path, total_fitness
		FROM runs WHERE id = ?`, id)
	if err != nil {
		return Run{}, fmt.Errorf("load run %s: %w", id, err)
	}
	return r, nil
}

// BestRuns returns up to limit runs ordered by total fitness, best first.
func (db *DB) BestRuns(limit int) ([]Run, error) {
	var runs []Run
	err := db.conn.Select(&runs, `SELECT id, started_at, seed, tries, steps_per_try, brain_path, total_fitness
		FROM runs ORDER BY total_fitness DESC, started_at LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("best runs: %w", err)
	}
	return runs, nil
}
