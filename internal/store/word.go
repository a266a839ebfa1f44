package store

import (
	"context"

	"github.com/rowanvale/lexdrill/internal/domain"
)

// WordStore provides the vocabulary content: word text, translation, and
// metadata per list. The core reads it only to populate study items for
// display; scheduling never depends on word content.
type WordStore interface {
	// GetByID retrieves a word by its ID.
	// Returns ErrWordNotFound if it does not exist.
	GetByID(ctx context.Context, id int64) (*domain.Word, error)

	// GetByListID returns all words in a list in insertion order.
	GetByListID(ctx context.Context, listID string) ([]*domain.Word, error)

	// CreateMultiple inserts words in one transaction; words whose text
	// already exists in the target list are skipped.
	CreateMultiple(ctx context.Context, words []*domain.Word) error

	// ListWordLists returns a summary of every known word list.
	ListWordLists(ctx context.Context) ([]domain.WordListInfo, error)
}

// SessionStore records completed study sessions for long-term statistics.
// The session engine hands it one finalized SessionStats per completed
// session; its storage schema is its own concern.
type SessionStore interface {
	RecordSession(ctx context.Context, stats *domain.SessionStats) error
	ListSessions(ctx context.Context, limit int) ([]*domain.SessionStats, error)
}
