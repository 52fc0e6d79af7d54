// Package history keeps per-question answer history in a local SQLite
// file: an append-only attempt log plus aggregate counters and a favorite
// flag per question.
package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	// Pure Go SQLite driver (no CGO).
	_ "modernc.org/sqlite"
)

// Store is the SQLite-backed history database.
type Store struct {
	db *sql.DB
}

// Summary is the aggregate record for one question.
type Summary struct {
	QuestionID   uuid.UUID
	TotalCount   int
	TotalCorrect int
	Favorite     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Open creates a Store at dsn, applies pragmas, and runs migrations.
func Open(dsn string) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply pragmas: %w", err)
	}

	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// RecordAttempt appends one attempt and folds it into the aggregate row.
func (s *Store) RecordAttempt(ctx context.Context, questionID uuid.UUID, correct bool) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().UTC()
	id := questionID.String()
	correctInt := 0
	if correct {
		correctInt = 1
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO answer_attempts (question_uuid, is_correct, created_at) VALUES (?, ?, ?)`,
		id, correctInt, now); err != nil {
		return fmt.Errorf("insert attempt: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO answer_history (question_uuid, total_count, total_correct, is_favorite, created_at, updated_at)
		VALUES (?, 1, ?, 0, ?, ?)
		ON CONFLICT(question_uuid) DO UPDATE SET
			total_count = total_count + 1,
			total_correct = total_correct + excluded.total_correct,
			updated_at = excluded.updated_at`,
		id, correctInt, now, now); err != nil {
		return fmt.Errorf("upsert history: %w", err)
	}

	return tx.Commit()
}

// RecentOutcomes returns up to limit attempt outcomes for a question,
// most recent first.
func (s *Store) RecentOutcomes(ctx context.Context, questionID uuid.UUID, limit int) ([]bool, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT is_correct FROM answer_attempts
		 WHERE question_uuid = ?
		 ORDER BY created_at DESC, id DESC
		 LIMIT ?`,
		questionID.String(), limit)
	if err != nil {
		return nil, fmt.Errorf("query attempts: %w", err)
	}
	defer rows.Close()

	var out []bool
	for rows.Next() {
		var c int
		if err := rows.Scan(&c); err != nil {
			return nil, fmt.Errorf("scan attempt: %w", err)
		}
		out = append(out, c != 0)
	}
	return out, rows.Err()
}

// SetFavorite flips the favorite flag, creating an empty aggregate row if
// the question has never been answered.
func (s *Store) SetFavorite(ctx context.Context, questionID uuid.UUID, favorite bool) error {
	now := time.Now().UTC()
	favInt := 0
	if favorite {
		favInt = 1
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO answer_history (question_uuid, total_count, total_correct, is_favorite, created_at, updated_at)
		VALUES (?, 0, 0, ?, ?, ?)
		ON CONFLICT(question_uuid) DO UPDATE SET
			is_favorite = excluded.is_favorite,
			updated_at = excluded.updated_at`,
		questionID.String(), favInt, now, now)
	if err != nil {
		return fmt.Errorf("set favorite: %w", err)
	}
	return nil
}

// IsFavorite reports the favorite flag; unknown questions are not favorites.
func (s *Store) IsFavorite(ctx context.Context, questionID uuid.UUID) (bool, error) {
	var fav int
	err := s.db.QueryRowContext(ctx,
		`SELECT is_favorite FROM answer_history WHERE question_uuid = ?`,
		questionID.String()).Scan(&fav)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("query favorite: %w", err)
	}
	return fav != 0, nil
}

// Summary returns the aggregate record for one question, zero-valued when
// the question has never been seen.
func (s *Store) Summary(ctx context.Context, questionID uuid.UUID) (Summary, error) {
	out := Summary{QuestionID: questionID}
	var fav int
	err := s.db.QueryRowContext(ctx,
		`SELECT total_count, total_correct, is_favorite, created_at, updated_at
		 FROM answer_history WHERE question_uuid = ?`,
		questionID.String()).Scan(&out.TotalCount, &out.TotalCorrect, &fav, &out.CreatedAt, &out.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return out, nil
	}
	if err != nil {
		return out, fmt.Errorf("query summary: %w", err)
	}
	out.Favorite = fav != 0
	return out, nil
}

// Summaries returns all aggregate records, most recently updated first.
func (s *Store) Summaries(ctx context.Context) ([]Summary, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT question_uuid, total_count, total_correct, is_favorite, created_at, updated_at
		 FROM answer_history ORDER BY updated_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("query summaries: %w", err)
	}
	defer rows.Close()

	var out []Summary
	for rows.Next() {
		var s Summary
		var id string
		var fav int
		if err := rows.Scan(&id, &s.TotalCount, &s.TotalCorrect, &fav, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan summary: %w", err)
		}
		qid, err := uuid.Parse(id)
		if err != nil {
			continue
		}
		s.QuestionID = qid
		s.Favorite = fav != 0
		out = append(out, s)
	}
	return out, rows.Err()
}

// Favorites returns the IDs of all favorited questions.
func (s *Store) Favorites(ctx context.Context) ([]uuid.UUID, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT question_uuid FROM answer_history WHERE is_favorite = 1`)
	if err != nil {
		return nil, fmt.Errorf("query favorites: %w", err)
	}
	defer rows.Close()

	var out []uuid.UUID
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan favorite: %w", err)
		}
		if qid, err := uuid.Parse(id); err == nil {
			out = append(out, qid)
		}
	}
	return out, rows.Err()
}

// applyPragmas configures SQLite for single-user performance.
func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
		"PRAGMA synchronous = NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return fmt.Errorf("%s: %w", p, err)
		}
	}
	return nil
}

// DefaultDBPath resolves the database file path in priority order:
// 1. TOEIQ_DB environment variable
// 2. $XDG_DATA_HOME/toeiq/toeiq.db
// 3. ~/.local/share/toeiq/toeiq.db
func DefaultDBPath() (string, error) {
	if p := os.Getenv("TOEIQ_DB"); p != "" {
		return p, ensureDir(p)
	}

	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		dataHome = filepath.Join(home, ".local", "share")
	}

	p := filepath.Join(dataHome, "toeiq", "toeiq.db")
	return p, ensureDir(p)
}

// EnsureDir creates the parent directory for a database path. Used when
// the path comes from a flag rather than DefaultDBPath.
func EnsureDir(path string) error {
	return ensureDir(path)
}

func ensureDir(path string) error {
	return os.MkdirAll(filepath.Dir(path), 0o755)
}
