package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/rowanvale/lexdrill/internal/domain"
	"github.com/rowanvale/lexdrill/internal/store"
)

// WordStore implements store.WordStore on PostgreSQL.
type WordStore struct {
	db     *sql.DB
	logger *slog.Logger
	now    func() time.Time
}

// NewWordStore creates the PostgreSQL word store.
func NewWordStore(db *sql.DB, logger *slog.Logger) *WordStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &WordStore{
		db:     db,
		logger: logger.With(slog.String("component", "word_store")),
		now:    time.Now,
	}
}

var _ store.WordStore = (*WordStore)(nil)

// GetByID implements store.WordStore.GetByID.
func (s *WordStore) GetByID(ctx context.Context, id int64) (*domain.Word, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, list_id, text, translation, phonetic, examples, created_at
		FROM words WHERE id = $1`, id)
	return scanWord(row)
}

// GetByListID implements store.WordStore.GetByListID.
func (s *WordStore) GetByListID(ctx context.Context, listID string) ([]*domain.Word, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, list_id, text, translation, phonetic, examples, created_at
		FROM words WHERE list_id = $1 ORDER BY id ASC`, listID)
	if err != nil {
		return nil, store.NewStoreError("word", "list", err)
	}
	defer closeRows(rows, s.logger)

	var words []*domain.Word
	for rows.Next() {
		w, err := scanWord(rows)
		if err != nil {
			return nil, err
		}
		words = append(words, w)
	}
	return words, rows.Err()
}

// CreateMultiple implements store.WordStore.CreateMultiple.
func (s *WordStore) CreateMultiple(ctx context.Context, words []*domain.Word) error {
	for _, w := range words {
		if err := w.Validate(); err != nil {
			return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
		}
	}

	return store.RunInTransaction(ctx, s.db, s.logger, func(ctx context.Context, tx *sql.Tx) error {
		now := s.now().UTC()
		for _, w := range words {
			examples, err := json.Marshal(w.Examples)
			if err != nil {
				return fmt.Errorf("%w: encode examples: %v", store.ErrInvalidEntity, err)
			}
			createdAt := w.CreatedAt
			if createdAt.IsZero() {
				createdAt = now
			}
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO words (list_id, text, translation, phonetic, examples, created_at)
				VALUES ($1, $2, $3, $4, $5, $6)
				ON CONFLICT (list_id, text) DO NOTHING`,
				w.ListID, w.Text, w.Translation, w.Phonetic, string(examples), createdAt.UTC(),
			); err != nil {
				if isUniqueViolation(err) {
					return store.ErrWordExists
				}
				return store.NewStoreError("word", "create", err)
			}
		}
		return nil
	})
}

// ListWordLists implements store.WordStore.ListWordLists.
func (s *WordStore) ListWordLists(ctx context.Context) ([]domain.WordListInfo, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT list_id, COUNT(*) FROM words GROUP BY list_id ORDER BY list_id ASC`)
	if err != nil {
		return nil, store.NewStoreError("word", "list word lists", err)
	}
	defer closeRows(rows, s.logger)

	var lists []domain.WordListInfo
	for rows.Next() {
		var info domain.WordListInfo
		if err := rows.Scan(&info.ListID, &info.WordCount); err != nil {
			return nil, err
		}
		lists = append(lists, info)
	}
	return lists, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanWord(row rowScanner) (*domain.Word, error) {
	var (
		w        domain.Word
		examples string
		created  time.Time
	)
	if err := row.Scan(&w.ID, &w.ListID, &w.Text, &w.Translation, &w.Phonetic, &examples, &created); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrWordNotFound
		}
		return nil, store.NewStoreError("word", "get", err)
	}
	if examples != "" {
		if err := json.Unmarshal([]byte(examples), &w.Examples); err != nil {
			return nil, fmt.Errorf("%w: decode examples: %v", store.ErrInvalidEntity, err)
		}
	}
	w.CreatedAt = created.UTC()
	return &w, nil
}
