package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/rowanvale/lexdrill/internal/domain"
	"github.com/rowanvale/lexdrill/internal/store"
)

// SessionStore implements store.SessionStore on SQLite.
type SessionStore struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewSessionStore creates the SQLite session-history store.
func NewSessionStore(db *sql.DB, logger *slog.Logger) *SessionStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &SessionStore{
		db:     db,
		logger: logger.With(slog.String("component", "session_store")),
	}
}

var _ store.SessionStore = (*SessionStore)(nil)

// RecordSession implements store.SessionStore.RecordSession.
func (s *SessionStore) RecordSession(ctx context.Context, stats *domain.SessionStats) error {
	if stats == nil {
		return fmt.Errorf("%w: nil session stats", store.ErrInvalidEntity)
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO study_sessions
			(id, list_id, new_words, review_words, correct_count, incorrect_count,
			 starred_count, total_words, duration_seconds, started_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		stats.SessionID.String(),
		stats.ListID,
		stats.NewWords,
		stats.ReviewWords,
		stats.CorrectCount,
		stats.IncorrectCount,
		stats.StarredCount,
		stats.TotalWords,
		stats.DurationSeconds,
		stats.StartedAt.UTC(),
	)
	if err != nil {
		return store.NewStoreError("study session", "record", err)
	}
	return nil
}

// ListSessions implements store.SessionStore.ListSessions, newest first.
func (s *SessionStore) ListSessions(ctx context.Context, limit int) ([]*domain.SessionStats, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, list_id, new_words, review_words, correct_count, incorrect_count,
		       starred_count, total_words, duration_seconds, started_at
		FROM study_sessions ORDER BY started_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, store.NewStoreError("study session", "list", err)
	}
	defer closeRows(rows, s.logger)

	var sessions []*domain.SessionStats
	for rows.Next() {
		var (
			stats     domain.SessionStats
			id        string
			startedAt time.Time
		)
		if err := rows.Scan(
			&id, &stats.ListID, &stats.NewWords, &stats.ReviewWords,
			&stats.CorrectCount, &stats.IncorrectCount, &stats.StarredCount,
			&stats.TotalWords, &stats.DurationSeconds, &startedAt,
		); err != nil {
			return nil, err
		}
		parsed, err := uuid.Parse(id)
		if err != nil {
			return nil, fmt.Errorf("%w: session id %q", store.ErrInvalidEntity, id)
		}
		stats.SessionID = parsed
		stats.StartedAt = startedAt.UTC()
		sessions = append(sessions, &stats)
	}
	return sessions, rows.Err()
}
