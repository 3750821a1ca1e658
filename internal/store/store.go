// Package store persists completed analysis results in a SQLite database so
// they can be retrieved later by ID. Persistence is optional; the service
// runs without it when no storage directory is configured.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/faris-sait/ClauseGuard24/internal/risk"
	"github.com/faris-sait/ClauseGuard24/internal/types"
)

const dbFileName = "clauseguard.db"

// schema holds one row per completed analysis. Summary and risks are stored
// as JSON because they are only ever read back whole.
const schema = `
CREATE TABLE IF NOT EXISTS analyses (
	id TEXT PRIMARY KEY,
	url TEXT NOT NULL,
	title TEXT NOT NULL,
	risk_score INTEGER NOT NULL,
	summary TEXT NOT NULL,
	risks TEXT NOT NULL,
	analysis_time REAL NOT NULL,
	created_at TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_analyses_created_at ON analyses(created_at);
`

// Store is a SQLite-backed archive of analysis results
type Store struct {
	db     *sql.DB
	dbPath string
}

// Open opens or creates the analysis database under dir
func Open(dir string) (*Store, error) {
	if dir == "" {
		return nil, ErrNoStorageDir
	}

	if err := os.MkdirAll(dir, 0750); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrOpenDatabase, err)
	}

	dbPath := filepath.Join(dir, dbFileName)

	db, err := sql.Open("sqlite", dbPath+"?mode=rwc")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrOpenDatabase, err)
	}

	// SQLite only supports one writer
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
		db.Close() //nolint:errcheck // already failing

		return nil, fmt.Errorf("%w: enabling WAL: %v", ErrOpenDatabase, err)
	}

	if _, err := db.ExecContext(context.Background(), schema); err != nil {
		db.Close() //nolint:errcheck // already failing

		return nil, fmt.Errorf("%w: initializing schema: %v", ErrOpenDatabase, err)
	}

	return &Store{db: db, dbPath: dbPath}, nil
}

// Save writes one completed analysis. Saving an existing ID replaces the row.
func (s *Store) Save(ctx context.Context, result *types.AnalysisResult) error {
	summary, err := json.Marshal(result.Summary)
	if err != nil {
		return fmt.Errorf("encoding summary: %w", err)
	}

	risks, err := json.Marshal(result.Risks)
	if err != nil {
		return fmt.Errorf("encoding risks: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO analyses (id, url, title, risk_score, summary, risks, analysis_time, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		result.ID,
		result.URL,
		result.Title,
		result.RiskScore,
		string(summary),
		string(risks),
		result.AnalysisTime,
		result.CreatedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("saving analysis %s: %w", result.ID, err)
	}

	return nil
}

// Get returns the analysis with the given ID, or ErrNotFound
func (s *Store) Get(ctx context.Context, id string) (*types.AnalysisResult, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, url, title, risk_score, summary, risks, analysis_time, created_at
		FROM analyses WHERE id = ?`, id)

	return scanResult(row)
}

// List returns the most recent analyses, newest first, up to limit
func (s *Store) List(ctx context.Context, limit int) ([]*types.AnalysisResult, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, url, title, risk_score, summary, risks, analysis_time, created_at
		FROM analyses ORDER BY created_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("listing analyses: %w", err)
	}
	defer rows.Close() //nolint:errcheck // read-only cursor

	var results []*types.AnalysisResult

	for rows.Next() {
		result, err := scanResult(rows)
		if err != nil {
			return nil, err
		}

		results = append(results, result)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listing analyses: %w", err)
	}

	return results, nil
}

// Close closes the underlying database
func (s *Store) Close() error {
	return s.db.Close()
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows
type rowScanner interface {
	Scan(dest ...any) error
}

func scanResult(row rowScanner) (*types.AnalysisResult, error) {
	var (
		result    types.AnalysisResult
		summary   string
		risks     string
		createdAt string
	)

	err := row.Scan(
		&result.ID,
		&result.URL,
		&result.Title,
		&result.RiskScore,
		&summary,
		&risks,
		&result.AnalysisTime,
		&createdAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("reading analysis row: %w", err)
	}

	if err := json.Unmarshal([]byte(summary), &result.Summary); err != nil {
		return nil, fmt.Errorf("decoding summary: %w", err)
	}

	if err := json.Unmarshal([]byte(risks), &result.Risks); err != nil {
		return nil, fmt.Errorf("decoding risks: %w", err)
	}

	if result.Risks == nil {
		result.Risks = []risk.Finding{}
	}

	parsed, err := time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return nil, fmt.Errorf("decoding created_at: %w", err)
	}

	result.CreatedAt = parsed

	return &result, nil
}
