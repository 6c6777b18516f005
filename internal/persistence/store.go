// Package persistence stores ranking run outputs in PostgreSQL. Each run
// is one row with its full payload as JSONB, so historical rankings can be
// replayed or diffed without recomputation.
package persistence

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/rs/zerolog/log"
)

// RunKind distinguishes team runs from player runs.
type RunKind string

const (
	RunKindTeams   RunKind = "teams"
	RunKindPlayers RunKind = "players"
)

// ErrRunNotFound marks a lookup with no stored run.
var ErrRunNotFound = errors.New("ranking run not found")

// Run is one stored ranking run.
type Run struct {
	RunID       string          `db:"run_id" json:"run_id"`
	LeagueID    string          `db:"league_id" json:"league_id"`
	Season      int             `db:"season" json:"season"`
	Kind        RunKind         `db:"kind" json:"kind"`
	Payload     json.RawMessage `db:"payload" json:"payload"`
	GeneratedAt time.Time       `db:"generated_at" json:"generated_at"`
	CreatedAt   time.Time       `db:"created_at" json:"created_at"`
}

// Store persists ranking runs.
type Store struct {
	db      *sqlx.DB
	timeout time.Duration
}

// NewStore wraps a database handle.
func NewStore(db *sqlx.DB, timeout time.Duration) *Store {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Store{db: db, timeout: timeout}
}

// Open connects to PostgreSQL and verifies the connection.
func Open(databaseURL string, timeout time.Duration) (*Store, error) {
	db, err := sqlx.Connect("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)
	return NewStore(db, timeout), nil
}

// Close releases the connection pool.
func (s *Store) Close() error { return s.db.Close() }

// SaveRun stores one run. The run ID must be a valid UUID; a blank ID gets
// one assigned.
func (s *Store) SaveRun(ctx context.Context, run Run) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	if run.RunID == "" {
		run.RunID = uuid.NewString()
	} else if _, err := uuid.Parse(run.RunID); err != nil {
		return "", fmt.Errorf("invalid run id %q: %w", run.RunID, err)
	}

	query := `
		INSERT INTO ranking_runs (run_id, league_id, season, kind, payload, generated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := s.db.ExecContext(ctx, query,
		run.RunID, run.LeagueID, run.Season, run.Kind, []byte(run.Payload), run.GeneratedAt)
	if err != nil {
		return "", fmt.Errorf("failed to insert ranking run: %w", err)
	}

	log.Debug().Str("run_id", run.RunID).Str("kind", string(run.Kind)).
		Str("league_id", run.LeagueID).Msg("ranking run stored")
	return run.RunID, nil
}

// LatestRun returns the most recent run for a league, season and kind.
func (s *Store) LatestRun(ctx context.Context, leagueID string, season int, kind RunKind) (*Run, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	query := `
		SELECT run_id, league_id, season, kind, payload, generated_at, created_at
		FROM ranking_runs
		WHERE league_id = $1 AND season = $2 AND kind = $3
		ORDER BY generated_at DESC
		LIMIT 1`

	var run Run
	err := s.db.GetContext(ctx, &run, query, leagueID, season, kind)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrRunNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query latest run: %w", err)
	}
	return &run, nil
}

// ListRuns returns runs for a league ordered newest first.
func (s *Store) ListRuns(ctx context.Context, leagueID string, limit int) ([]Run, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	if limit <= 0 {
		limit = 20
	}
	query := `
		SELECT run_id, league_id, season, kind, payload, generated_at, created_at
		FROM ranking_runs
		WHERE league_id = $1
		ORDER BY generated_at DESC
		LIMIT $2`

	var runs []Run
	if err := s.db.SelectContext(ctx, &runs, query, leagueID, limit); err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	return runs, nil
}

// PruneRuns deletes runs older than the retention window, returning how
// many rows were removed.
func (s *Store) PruneRuns(ctx context.Context, retention time.Duration) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	cutoff := time.Now().UTC().Add(-retention)
	res, err := s.db.ExecContext(ctx, `DELETE FROM ranking_runs WHERE generated_at < $1`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to prune runs: %w", err)
	}
	removed, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	if removed > 0 {
		log.Info().Int64("removed", removed).Time("cutoff", cutoff).Msg("pruned old ranking runs")
	}
	return removed, nil
}

// Migrate creates the schema if it does not exist.
func (s *Store) Migrate(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	schema := `
		CREATE TABLE IF NOT EXISTS ranking_runs (
			run_id UUID PRIMARY KEY,
			league_id TEXT NOT NULL,
			season INT NOT NULL,
			kind TEXT NOT NULL,
			payload JSONB NOT NULL,
			generated_at TIMESTAMPTZ NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		);
		CREATE INDEX IF NOT EXISTS idx_ranking_runs_lookup
			ON ranking_runs (league_id, season, kind, generated_at DESC);`

	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}
	return nil
}
