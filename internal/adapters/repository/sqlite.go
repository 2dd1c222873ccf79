// Package repository defines the ledger store interface and errors.
package repository

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/okian/shellhunt/internal/domain/model"
	"github.com/okian/shellhunt/pkg/metrics"

	_ "modernc.org/sqlite"
)

// Timestamps persist as RFC3339Nano UTC text so a save/load cycle is
// lossless.
const sqliteTimeFormat = time.RFC3339Nano

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS progress (
    team_key  TEXT PRIMARY KEY,
    id        TEXT NOT NULL,
    team_name TEXT NOT NULL,
    level     INTEGER NOT NULL,
    ts        TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS feedback (
    team_key  TEXT PRIMARY KEY,
    id        TEXT NOT NULL,
    team_name TEXT NOT NULL,
    level     INTEGER NOT NULL,
    rating    INTEGER NOT NULL CHECK (rating BETWEEN 1 AND 5),
    comments  TEXT NOT NULL DEFAULT '',
    ts        TEXT NOT NULL
);
`

// SQLiteStore implements Store on a single SQLite database file.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (creating if needed) the database at path and
// ensures the schema exists.
func NewSQLiteStore(ctx context.Context, path string) (*SQLiteStore, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("%w: path is required", ErrOpen)
	}

	dsn := filepath.Clean(path) + "?_journal_mode=WAL&_busy_timeout=5000&_synchronous=NORMAL"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrOpen, err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%w: %w", ErrOpen, err)
	}
	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%w: %w", ErrOpen, err)
	}
	return &SQLiteStore{db: db}, nil
}

// GetProgress returns the progress record for teamKey.
func (s *SQLiteStore) GetProgress(ctx context.Context, teamKey string) (model.Progress, bool, error) {
	defer observeQuery(time.Now())

	row := s.db.QueryRowContext(ctx,
		`SELECT id, team_name, level, ts FROM progress WHERE team_key = ?`, teamKey)

	var rec model.Progress
	var ts string
	if err := row.Scan(&rec.ID, &rec.TeamName, &rec.Level, &ts); err != nil {
		if err == sql.ErrNoRows {
			return model.Progress{}, false, nil
		}
		metrics.RecordStoreError()
		return model.Progress{}, false, fmt.Errorf("%w: %w", ErrQuery, err)
	}
	rec.TeamKey = teamKey
	parsed, err := time.Parse(sqliteTimeFormat, ts)
	if err != nil {
		metrics.RecordStoreError()
		return model.Progress{}, false, fmt.Errorf("%w: %w", ErrQuery, err)
	}
	rec.Timestamp = parsed
	return rec, true, nil
}

// PutProgress creates or replaces the progress record for its TeamKey.
func (s *SQLiteStore) PutProgress(ctx context.Context, rec model.Progress) error {
	defer observeUpdate(time.Now())

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO progress (team_key, id, team_name, level, ts)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(team_key) DO UPDATE SET
		   id = excluded.id,
		   team_name = excluded.team_name,
		   level = excluded.level,
		   ts = excluded.ts`,
		rec.TeamKey, rec.ID, rec.TeamName, rec.Level, rec.Timestamp.UTC().Format(sqliteTimeFormat))
	if err != nil {
		metrics.RecordStoreError()
		return fmt.Errorf("%w: %w", ErrWrite, err)
	}
	return nil
}

// ListProgress returns every current progress record.
func (s *SQLiteStore) ListProgress(ctx context.Context) ([]model.Progress, error) {
	defer observeQuery(time.Now())

	rows, err := s.db.QueryContext(ctx,
		`SELECT team_key, id, team_name, level, ts FROM progress`)
	if err != nil {
		metrics.RecordStoreError()
		return nil, fmt.Errorf("%w: %w", ErrQuery, err)
	}
	defer func() { _ = rows.Close() }()

	var out []model.Progress
	for rows.Next() {
		var rec model.Progress
		var ts string
		if err := rows.Scan(&rec.TeamKey, &rec.ID, &rec.TeamName, &rec.Level, &ts); err != nil {
			metrics.RecordStoreError()
			return nil, fmt.Errorf("%w: %w", ErrQuery, err)
		}
		parsed, err := time.Parse(sqliteTimeFormat, ts)
		if err != nil {
			metrics.RecordStoreError()
			return nil, fmt.Errorf("%w: %w", ErrQuery, err)
		}
		rec.Timestamp = parsed
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		metrics.RecordStoreError()
		return nil, fmt.Errorf("%w: %w", ErrQuery, err)
	}
	return out, nil
}

// GetFeedback returns the feedback record for teamKey.
func (s *SQLiteStore) GetFeedback(ctx context.Context, teamKey string) (model.Feedback, bool, error) {
	defer observeQuery(time.Now())

	row := s.db.QueryRowContext(ctx,
		`SELECT id, team_name, level, rating, comments, ts FROM feedback WHERE team_key = ?`, teamKey)

	var rec model.Feedback
	var ts string
	if err := row.Scan(&rec.ID, &rec.TeamName, &rec.Level, &rec.Rating, &rec.Comments, &ts); err != nil {
		if err == sql.ErrNoRows {
			return model.Feedback{}, false, nil
		}
		metrics.RecordStoreError()
		return model.Feedback{}, false, fmt.Errorf("%w: %w", ErrQuery, err)
	}
	rec.TeamKey = teamKey
	parsed, err := time.Parse(sqliteTimeFormat, ts)
	if err != nil {
		metrics.RecordStoreError()
		return model.Feedback{}, false, fmt.Errorf("%w: %w", ErrQuery, err)
	}
	rec.Timestamp = parsed
	return rec, true, nil
}

// PutFeedback creates or replaces the feedback record for its TeamKey.
func (s *SQLiteStore) PutFeedback(ctx context.Context, rec model.Feedback) error {
	defer observeUpdate(time.Now())

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO feedback (team_key, id, team_name, level, rating, comments, ts)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(team_key) DO UPDATE SET
		   id = excluded.id,
		   team_name = excluded.team_name,
		   level = excluded.level,
		   rating = excluded.rating,
		   comments = excluded.comments,
		   ts = excluded.ts`,
		rec.TeamKey, rec.ID, rec.TeamName, rec.Level, rec.Rating, rec.Comments,
		rec.Timestamp.UTC().Format(sqliteTimeFormat))
	if err != nil {
		metrics.RecordStoreError()
		return fmt.Errorf("%w: %w", ErrWrite, err)
	}
	return nil
}

// ListFeedback returns every current feedback record.
func (s *SQLiteStore) ListFeedback(ctx context.Context) ([]model.Feedback, error) {
	defer observeQuery(time.Now())

	rows, err := s.db.QueryContext(ctx,
		`SELECT team_key, id, team_name, level, rating, comments, ts FROM feedback`)
	if err != nil {
		metrics.RecordStoreError()
		return nil, fmt.Errorf("%w: %w", ErrQuery, err)
	}
	defer func() { _ = rows.Close() }()

	var out []model.Feedback
	for rows.Next() {
		var rec model.Feedback
		var ts string
		if err := rows.Scan(&rec.TeamKey, &rec.ID, &rec.TeamName, &rec.Level, &rec.Rating, &rec.Comments, &ts); err != nil {
			metrics.RecordStoreError()
			return nil, fmt.Errorf("%w: %w", ErrQuery, err)
		}
		parsed, err := time.Parse(sqliteTimeFormat, ts)
		if err != nil {
			metrics.RecordStoreError()
			return nil, fmt.Errorf("%w: %w", ErrQuery, err)
		}
		rec.Timestamp = parsed
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		metrics.RecordStoreError()
		return nil, fmt.Errorf("%w: %w", ErrQuery, err)
	}
	return out, nil
}

// ResetAll deletes every record in one transaction and reports counts.
func (s *SQLiteStore) ResetAll(ctx context.Context) (int, int, error) {
	defer observeUpdate(time.Now())

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		metrics.RecordStoreError()
		return 0, 0, fmt.Errorf("%w: %w", ErrWrite, err)
	}
	defer func() { _ = tx.Rollback() }()

	progressRes, err := tx.ExecContext(ctx, `DELETE FROM progress`)
	if err != nil {
		metrics.RecordStoreError()
		return 0, 0, fmt.Errorf("%w: %w", ErrWrite, err)
	}
	feedbackRes, err := tx.ExecContext(ctx, `DELETE FROM feedback`)
	if err != nil {
		metrics.RecordStoreError()
		return 0, 0, fmt.Errorf("%w: %w", ErrWrite, err)
	}
	if err := tx.Commit(); err != nil {
		metrics.RecordStoreError()
		return 0, 0, fmt.Errorf("%w: %w", ErrWrite, err)
	}

	deletedProgress, _ := progressRes.RowsAffected()
	deletedFeedback, _ := feedbackRes.RowsAffected()
	return int(deletedProgress), int(deletedFeedback), nil
}

// Counts reports the number of progress and feedback records.
func (s *SQLiteStore) Counts(ctx context.Context) (int, int, error) {
	defer observeQuery(time.Now())

	var progress, feedback int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM progress`).Scan(&progress); err != nil {
		metrics.RecordStoreError()
		return 0, 0, fmt.Errorf("%w: %w", ErrQuery, err)
	}
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM feedback`).Scan(&feedback); err != nil {
		metrics.RecordStoreError()
		return 0, 0, fmt.Errorf("%w: %w", ErrQuery, err)
	}
	return progress, feedback, nil
}

// Close releases the underlying database connection.
func (s *SQLiteStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}
