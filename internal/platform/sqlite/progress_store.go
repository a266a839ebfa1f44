package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/rowanvale/lexdrill/internal/domain"
	"github.com/rowanvale/lexdrill/internal/domain/fsrs"
	"github.com/rowanvale/lexdrill/internal/store"
)

// ProgressStore implements store.ProgressStore on SQLite.
type ProgressStore struct {
	db     *sql.DB
	model  fsrs.Service
	logger *slog.Logger
	now    func() time.Time
}

// NewProgressStore creates the SQLite progress store. The memory model is
// needed to materialize fresh cards in GetOrCreate.
func NewProgressStore(db *sql.DB, model fsrs.Service, logger *slog.Logger) *ProgressStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if model == nil {
		panic("model cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &ProgressStore{
		db:     db,
		model:  model,
		logger: logger.With(slog.String("component", "progress_store")),
		now:    time.Now,
	}
}

var _ store.ProgressStore = (*ProgressStore)(nil)

// GetOrCreate implements store.ProgressStore.GetOrCreate.
func (s *ProgressStore) GetOrCreate(ctx context.Context, itemID int64) (*domain.MemoryCard, error) {
	card, err := s.getCard(ctx, s.db, itemID)
	if err == nil {
		return card, nil
	}
	if !errors.Is(err, store.ErrCardNotFound) {
		return nil, err
	}

	card = s.model.NewCard(itemID, s.now().UTC())
	if err := s.insertCard(ctx, s.db, card); err != nil {
		return nil, err
	}
	return card, nil
}

// Save implements store.ProgressStore.Save. The scalar columns, the state
// blob, and the review log (when present) are written in one transaction.
func (s *ProgressStore) Save(ctx context.Context, card *domain.MemoryCard, log *domain.ReviewLog) error {
	if card == nil {
		return fmt.Errorf("%w: nil card", store.ErrInvalidEntity)
	}
	if err := card.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	blob, err := store.EncodeCardState(card)
	if err != nil {
		return err
	}

	return store.RunInTransaction(ctx, s.db, s.logger, func(ctx context.Context, tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO memory_cards (item_id, state, due_at, starred, algo_state, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT (item_id) DO UPDATE SET
				state = excluded.state,
				due_at = excluded.due_at,
				starred = excluded.starred,
				algo_state = excluded.algo_state,
				updated_at = excluded.updated_at`,
			card.ItemID,
			string(card.State),
			card.DueAt.UTC(),
			boolToInt(card.Starred),
			string(blob),
			card.CreatedAt.UTC(),
			card.UpdatedAt.UTC(),
		)
		if err != nil {
			return store.NewStoreError("memory card", "save", err)
		}

		if log != nil {
			if err := insertReviewLog(ctx, tx, log); err != nil {
				return err
			}
		}
		return nil
	})
}

// QueryDue implements store.ProgressStore.QueryDue.
func (s *ProgressStore) QueryDue(ctx context.Context, listID string, asOf time.Time) ([]int64, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT c.item_id
		FROM memory_cards c
		JOIN words w ON w.id = c.item_id
		WHERE w.list_id = ? AND c.due_at <= ? AND c.state != ?
		ORDER BY c.due_at ASC, c.item_id ASC`,
		listID, asOf.UTC(), string(domain.CardStateNew),
	)
	if err != nil {
		return nil, store.NewStoreError("memory card", "query due", err)
	}
	defer closeRows(rows, s.logger)

	return scanIDs(rows)
}

// QueryNew implements store.ProgressStore.QueryNew. Insertion order (the
// words table's rowid) keeps repeated calls deterministic.
func (s *ProgressStore) QueryNew(ctx context.Context, listID string, limit int) ([]int64, error) {
	if limit <= 0 {
		return nil, nil
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT w.id
		FROM words w
		LEFT JOIN memory_cards c ON c.item_id = w.id
		WHERE w.list_id = ? AND (c.item_id IS NULL OR c.state = ?)
		ORDER BY w.id ASC
		LIMIT ?`,
		listID, string(domain.CardStateNew), limit,
	)
	if err != nil {
		return nil, store.NewStoreError("memory card", "query new", err)
	}
	defer closeRows(rows, s.logger)

	return scanIDs(rows)
}

// ToggleStarred implements store.ProgressStore.ToggleStarred.
func (s *ProgressStore) ToggleStarred(ctx context.Context, itemID int64) (bool, error) {
	var starred bool
	err := store.RunInTransaction(ctx, s.db, s.logger, func(ctx context.Context, tx *sql.Tx) error {
		// Materialize the card first so unstudied words can be starred too.
		if _, err := s.getCard(ctx, tx, itemID); err != nil {
			if !errors.Is(err, store.ErrCardNotFound) {
				return err
			}
			if err := s.insertCard(ctx, tx, s.model.NewCard(itemID, s.now().UTC())); err != nil {
				return err
			}
		}

		if _, err := tx.ExecContext(ctx,
			`UPDATE memory_cards SET starred = 1 - starred, updated_at = ? WHERE item_id = ?`,
			s.now().UTC(), itemID,
		); err != nil {
			return store.NewStoreError("memory card", "toggle starred", err)
		}

		row := tx.QueryRowContext(ctx, `SELECT starred FROM memory_cards WHERE item_id = ?`, itemID)
		var v int
		if err := row.Scan(&v); err != nil {
			return store.NewStoreError("memory card", "toggle starred", err)
		}
		starred = v != 0
		return nil
	})
	return starred, err
}

// QueryStarred implements store.ProgressStore.QueryStarred.
func (s *ProgressStore) QueryStarred(ctx context.Context) ([]int64, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT item_id FROM memory_cards WHERE starred = 1 ORDER BY item_id ASC`)
	if err != nil {
		return nil, store.NewStoreError("memory card", "query starred", err)
	}
	defer closeRows(rows, s.logger)

	return scanIDs(rows)
}

func (s *ProgressStore) getCard(ctx context.Context, q store.DBTX, itemID int64) (*domain.MemoryCard, error) {
	row := q.QueryRowContext(ctx, `
		SELECT item_id, algo_state, starred, created_at, updated_at
		FROM memory_cards WHERE item_id = ?`, itemID)

	var (
		card      domain.MemoryCard
		blob      string
		starred   int
		createdAt time.Time
		updatedAt time.Time
	)
	if err := row.Scan(&card.ItemID, &blob, &starred, &createdAt, &updatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrCardNotFound
		}
		return nil, store.NewStoreError("memory card", "get", err)
	}

	if err := store.DecodeCardState([]byte(blob), &card); err != nil {
		return nil, err
	}
	card.Starred = starred != 0
	card.CreatedAt = createdAt.UTC()
	card.UpdatedAt = updatedAt.UTC()
	return &card, nil
}

func (s *ProgressStore) insertCard(ctx context.Context, q store.DBTX, card *domain.MemoryCard) error {
	blob, err := store.EncodeCardState(card)
	if err != nil {
		return err
	}
	_, err = q.ExecContext(ctx, `
		INSERT INTO memory_cards (item_id, state, due_at, starred, algo_state, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (item_id) DO NOTHING`,
		card.ItemID,
		string(card.State),
		card.DueAt.UTC(),
		boolToInt(card.Starred),
		string(blob),
		card.CreatedAt.UTC(),
		card.UpdatedAt.UTC(),
	)
	if err != nil {
		return store.NewStoreError("memory card", "create", err)
	}
	return nil
}

func insertReviewLog(ctx context.Context, tx *sql.Tx, log *domain.ReviewLog) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO review_logs
			(item_id, rating, state_before, stability, difficulty, elapsed_days, scheduled_days, reviewed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		log.ItemID,
		int(log.Rating),
		string(log.StateBefore),
		log.Stability,
		log.Difficulty,
		log.ElapsedDays,
		log.ScheduledDays,
		log.ReviewedAt.UTC(),
	)
	if err != nil {
		return store.NewStoreError("review log", "create", err)
	}
	return nil
}

func scanIDs(rows *sql.Rows) ([]int64, error) {
	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func closeRows(rows *sql.Rows, logger *slog.Logger) {
	if err := rows.Close(); err != nil {
		logger.Warn("failed to close rows", slog.String("error", err.Error()))
	}
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
