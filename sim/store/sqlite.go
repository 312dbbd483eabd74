// Package store persists finished simulation runs in SQLite so that runs can
// be listed and their reaction histories reloaded later.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
	_ "modernc.org/sqlite" // SQLite driver

	"github.com/episim/episim/sim"
	"github.com/episim/episim/sim/network"
)

// timeLayout sorts lexicographically in time order.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// ErrRunNotFound is returned when no run has the requested ID.
var ErrRunNotFound = errors.New("run not found")

// RunSummary is the stored description of one run.
type RunSummary struct {
	ID         string
	CreatedAt  time.Time
	Nodes      int
	Steps      int
	StartTime  float64
	EndTime    float64
	Status     string
	Final      sim.Counts
	AttackRate float64
	Parameters *sim.Parameters // nil when not recorded
}

// Store is a SQLite-backed results store.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the database at path.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path+"?_pragma=foreign_keys(1)")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1) // SQLite works best with single writer

	if err := InitSchema(context.Background(), db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error { return s.db.Close() }

// SaveResult stores res with its reaction history and count series in one
// transaction. params may be nil.
func (s *Store) SaveResult(ctx context.Context, params *sim.Parameters, res *sim.Result) error {
	var paramsYAML sql.NullString
	if params != nil {
		data, err := yaml.Marshal(params)
		if err != nil {
			return fmt.Errorf("failed to marshal parameters: %w", err)
		}
		paramsYAML = sql.NullString{String: string(data), Valid: true}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	final := res.FinalCounts()
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO runs (id, created_at, nodes, steps, start_time, end_time, status,
			final_s, final_i, final_r, attack_rate, parameters)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		res.RunID, time.Now().UTC().Format(timeLayout), res.Nodes, res.Steps,
		res.StartTime, res.EndTime, res.Status.String(),
		final.S, final.I, final.R, res.AttackRate(), paramsYAML); err != nil {
		return fmt.Errorf("failed to insert run %s: %w", res.RunID, err)
	}

	insReaction, err := tx.PrepareContext(ctx,
		`INSERT INTO reactions (run_id, seq, t, kind, source, target) VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare reaction insert: %w", err)
	}
	defer insReaction.Close()
	for i, r := range res.History {
		var source sql.NullInt64
		target := r.Nodes[0]
		if r.Kind == sim.Infection {
			source = sql.NullInt64{Int64: int64(r.Nodes[0]), Valid: true}
			target = r.Nodes[1]
		}
		if _, err := insReaction.ExecContext(ctx, res.RunID, i+1, r.Time, r.Kind.String(), source, int(target)); err != nil {
			return fmt.Errorf("failed to insert reaction %d: %w", i+1, err)
		}
	}

	insCounts, err := tx.PrepareContext(ctx,
		`INSERT INTO counts (run_id, seq, t, s, i, r) VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare counts insert: %w", err)
	}
	defer insCounts.Close()
	for i, p := range res.Series {
		if _, err := insCounts.ExecContext(ctx, res.RunID, i, p.Time, p.S, p.I, p.R); err != nil {
			return fmt.Errorf("failed to insert counts %d: %w", i, err)
		}
	}
	return tx.Commit()
}

// LoadReactions returns the reaction history of a run in firing order.
func (s *Store) LoadReactions(ctx context.Context, runID string) ([]sim.Reaction, error) {
	if _, err := s.GetRun(ctx, runID); err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT t, kind, source, target FROM reactions WHERE run_id = ? ORDER BY seq`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query reactions: %w", err)
	}
	defer rows.Close()

	history := make([]sim.Reaction, 0)
	for rows.Next() {
		var (
			t      float64
			kind   string
			source sql.NullInt64
			target int64
		)
		if err := rows.Scan(&t, &kind, &source, &target); err != nil {
			return nil, fmt.Errorf("failed to scan reaction: %w", err)
		}
		k, err := sim.ParseEventKind(kind)
		if err != nil {
			return nil, fmt.Errorf("run %s: %w", runID, err)
		}
		r := sim.Reaction{Time: t, Kind: k, Nodes: []network.Node{network.Node(target)}}
		if k == sim.Infection {
			r.Nodes = []network.Node{network.Node(source.Int64), network.Node(target)}
		}
		history = append(history, r)
	}
	return history, rows.Err()
}

// LoadSeries returns the compartment counts of a run, starting at t0.
func (s *Store) LoadSeries(ctx context.Context, runID string) ([]sim.CountsAt, error) {
	if _, err := s.GetRun(ctx, runID); err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT t, s, i, r FROM counts WHERE run_id = ? ORDER BY seq`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query counts: %w", err)
	}
	defer rows.Close()

	series := make([]sim.CountsAt, 0)
	for rows.Next() {
		var p sim.CountsAt
		if err := rows.Scan(&p.Time, &p.S, &p.I, &p.R); err != nil {
			return nil, fmt.Errorf("failed to scan counts: %w", err)
		}
		series = append(series, p)
	}
	return series, rows.Err()
}

const runColumns = `id, created_at, nodes, steps, start_time, end_time, status,
	final_s, final_i, final_r, attack_rate, parameters`

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(row scanner) (*RunSummary, error) {
	var (
		run       RunSummary
		createdAt string
		params    sql.NullString
	)
	if err := row.Scan(&run.ID, &createdAt, &run.Nodes, &run.Steps, &run.StartTime, &run.EndTime,
		&run.Status, &run.Final.S, &run.Final.I, &run.Final.R, &run.AttackRate, &params); err != nil {
		return nil, err
	}
	t, err := time.Parse(timeLayout, createdAt)
	if err != nil {
		return nil, fmt.Errorf("failed to parse created_at of run %s: %w", run.ID, err)
	}
	run.CreatedAt = t
	if params.Valid {
		var p sim.Parameters
		if err := yaml.Unmarshal([]byte(params.String), &p); err != nil {
			return nil, fmt.Errorf("failed to parse parameters of run %s: %w", run.ID, err)
		}
		run.Parameters = &p
	}
	return &run, nil
}

// GetRun returns the stored summary of one run.
func (s *Store) GetRun(ctx context.Context, runID string) (*RunSummary, error) {
	run, err := scanRun(s.db.QueryRowContext(ctx, `SELECT `+runColumns+` FROM runs WHERE id = ?`, runID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load run %s: %w", runID, err)
	}
	return run, nil
}

// ListRuns returns every stored run, oldest first.
func (s *Store) ListRuns(ctx context.Context) ([]RunSummary, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+runColumns+` FROM runs ORDER BY created_at, rowid`)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	runs := make([]RunSummary, 0)
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, *run)
	}
	return runs, rows.Err()
}

// DeleteRun removes a run together with its history and counts.
func (s *Store) DeleteRun(ctx context.Context, runID string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM runs WHERE id = ?`, runID)
	if err != nil {
		return fmt.Errorf("failed to delete run %s: %w", runID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete run %s: %w", runID, err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrRunNotFound, runID)
	}
	return nil
}
