// Package sqlite provides the SQLite-backed run-history store.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/visionforge/yolotrain-cli/internal/core/domain"
	"github.com/visionforge/yolotrain-cli/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.RunStore = (*Store)(nil)

// schema creates the run-history table. Timestamps are stored as
// RFC3339 text; ended_at is empty while a run is in flight.
const schema = `
CREATE TABLE IF NOT EXISTS training_runs (
	id             TEXT PRIMARY KEY,
	artifact       TEXT NOT NULL,
	device         TEXT NOT NULL,
	dataset_folder TEXT NOT NULL,
	config_file    TEXT NOT NULL DEFAULT '',
	output_dir     TEXT NOT NULL,
	state          TEXT NOT NULL,
	error          TEXT NOT NULL DEFAULT '',
	started_at     TEXT NOT NULL,
	ended_at       TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS idx_training_runs_started_at
	ON training_runs(started_at DESC);
`

// Store is a SQLite-based run-history store.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore creates a run store at the specified data directory.
// If dataDir is empty, defaults to ~/.yolotrain/data/runs.db.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".yolotrain", "data")
	}

	if err := os.MkdirAll(dataDir, 0o700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "runs.db")

	// Open database with WAL mode for better concurrency
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &Store{db: db, path: dbPath}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// Save stores or updates a run record by ID.
func (s *Store) Save(ctx context.Context, run *domain.TrainingRun) error {
	if run == nil || run.ID == "" {
		return domain.ErrInvalidInput
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO training_runs
			(id, artifact, device, dataset_folder, config_file, output_dir, state, error, started_at, ended_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			artifact = excluded.artifact,
			device = excluded.device,
			dataset_folder = excluded.dataset_folder,
			config_file = excluded.config_file,
			output_dir = excluded.output_dir,
			state = excluded.state,
			error = excluded.error,
			started_at = excluded.started_at,
			ended_at = excluded.ended_at
	`, run.ID, run.Artifact, run.Device, run.DatasetFolder, run.ConfigFile,
		run.OutputDir, string(run.State), run.Error,
		formatTime(run.StartedAt), formatTime(run.EndedAt))

	if err != nil {
		return fmt.Errorf("saving run: %w", err)
	}
	return nil
}

// Get retrieves a run by ID.
func (s *Store) Get(ctx context.Context, id string) (*domain.TrainingRun, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, artifact, device, dataset_folder, config_file, output_dir, state, error, started_at, ended_at
		FROM training_runs WHERE id = ?
	`, id)

	run, err := scanRun(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: run %s", domain.ErrNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	return run, nil
}

// List returns all runs, most recently started first.
func (s *Store) List(ctx context.Context) ([]domain.TrainingRun, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, artifact, device, dataset_folder, config_file, output_dir, state, error, started_at, ended_at
		FROM training_runs
		ORDER BY started_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var runs []domain.TrainingRun //nolint:prealloc // size unknown from query
	for rows.Next() {
		run, err := scanRun(rows.Scan)
		if err != nil {
			return nil, err
		}
		runs = append(runs, *run)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating runs: %w", err)
	}
	return runs, nil
}

// scanRun reads one run row via the given scan function.
func scanRun(scan func(...any) error) (*domain.TrainingRun, error) {
	var (
		run       domain.TrainingRun
		state     string
		startedAt string
		endedAt   string
	)

	err := scan(&run.ID, &run.Artifact, &run.Device, &run.DatasetFolder,
		&run.ConfigFile, &run.OutputDir, &state, &run.Error, &startedAt, &endedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning run: %w", err)
	}

	run.State = domain.RunState(state)
	if run.StartedAt, err = parseTime(startedAt); err != nil {
		return nil, fmt.Errorf("parsing started_at: %w", err)
	}
	if run.EndedAt, err = parseTime(endedAt); err != nil {
		return nil, fmt.Errorf("parsing ended_at: %w", err)
	}
	return &run, nil
}

// formatTime renders a timestamp as RFC3339 text, empty for zero times.
func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339Nano)
}

// parseTime parses RFC3339 text, returning zero for empty strings.
func parseTime(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	return time.Parse(time.RFC3339Nano, s)
}
