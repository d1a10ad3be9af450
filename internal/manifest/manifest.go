// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package manifest persists per-document run outcomes in SQLite, so batch
// results survive the process and can be reported on later.
package manifest

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/pdfforge/pkg/types"
)

// Store manages the run-manifest SQLite database.
type Store struct {
	db *sql.DB
}

// Open opens or creates the manifest database at path, creating the parent
// directory and schema as needed.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating manifest directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("opening manifest database: %w", err)
	}

	s := &Store{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating manifest schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS documents (
		input_path TEXT PRIMARY KEY,
		output_path TEXT NOT NULL,
		outcome TEXT NOT NULL,
		parts INTEGER NOT NULL DEFAULT 0,
		error TEXT,
		completed_at TEXT NOT NULL
	)`)
	return err
}

// Record upserts the outcome for one input document. Re-running a batch
// over the same inputs replaces their previous rows.
func (s *Store) Record(ctx context.Context, r types.DocumentResult) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO documents (input_path, output_path, outcome, parts, error, completed_at)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(input_path) DO UPDATE SET
			output_path = excluded.output_path,
			outcome = excluded.outcome,
			parts = excluded.parts,
			error = excluded.error,
			completed_at = excluded.completed_at`,
		r.InputPath, r.OutputPath, string(r.Outcome), r.Parts, r.Err,
		r.CompletedAt.UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("recording %s: %w", r.InputPath, err)
	}
	return nil
}

// List returns recorded results, optionally filtered by outcome (empty
// outcome returns everything), ordered by input path.
func (s *Store) List(ctx context.Context, outcome types.Outcome) ([]types.DocumentResult, error) {
	query := `SELECT input_path, output_path, outcome, parts, error, completed_at
		FROM documents`
	args := []any{}
	if outcome != "" {
		query += ` WHERE outcome = ?`
		args = append(args, string(outcome))
	}
	query += ` ORDER BY input_path`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing manifest: %w", err)
	}
	defer rows.Close()

	var results []types.DocumentResult
	for rows.Next() {
		var r types.DocumentResult
		var outcomeStr, completedAt string
		var errText sql.NullString
		if err := rows.Scan(&r.InputPath, &r.OutputPath, &outcomeStr, &r.Parts, &errText, &completedAt); err != nil {
			return nil, fmt.Errorf("scanning manifest row: %w", err)
		}
		r.Outcome = types.Outcome(outcomeStr)
		r.Err = errText.String
		if ts, err := time.Parse(time.RFC3339, completedAt); err == nil {
			r.CompletedAt = ts
		}
		results = append(results, r)
	}
	return results, rows.Err()
}

// Summary counts recorded documents per outcome.
type Summary struct {
	Converted int `yaml:"converted"`
	Skipped   int `yaml:"skipped"`
	Filtered  int `yaml:"filtered"`
	Failed    int `yaml:"failed"`
}

// Total returns the total number of recorded documents.
func (s Summary) Total() int {
	return s.Converted + s.Skipped + s.Filtered + s.Failed
}

// Summarize tallies all recorded documents by outcome.
func (s *Store) Summarize(ctx context.Context) (Summary, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT outcome, COUNT(*) FROM documents GROUP BY outcome`)
	if err != nil {
		return Summary{}, fmt.Errorf("summarizing manifest: %w", err)
	}
	defer rows.Close()

	var sum Summary
	for rows.Next() {
		var outcome string
		var count int
		if err := rows.Scan(&outcome, &count); err != nil {
			return Summary{}, fmt.Errorf("scanning summary row: %w", err)
		}
		switch types.Outcome(outcome) {
		case types.OutcomeConverted:
			sum.Converted = count
		case types.OutcomeSkipped:
			sum.Skipped = count
		case types.OutcomeFiltered:
			sum.Filtered = count
		case types.OutcomeFailed:
			sum.Failed = count
		}
	}
	return sum, rows.Err()
}

// ExportYAML writes all recorded results to w as YAML.
func (s *Store) ExportYAML(ctx context.Context, w io.Writer) error {
	results, err := s.List(ctx, "")
	if err != nil {
		return err
	}
	data, err := yaml.Marshal(results)
	if err != nil {
		return fmt.Errorf("marshaling manifest export: %w", err)
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("writing manifest export: %w", err)
	}
	return nil
}
