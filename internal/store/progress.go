package store

import (
	"context"
	"time"

	"github.com/rowanvale/lexdrill/internal/domain"
)

// ProgressStore persists per-item learning state. It is the only shared
// mutable resource the core touches; every call is atomic on its own and
// no cross-call transaction is required (spaced-repetition updates are
// independent per item).
type ProgressStore interface {
	// GetOrCreate returns the memory card for an item, inserting a fresh
	// card (state New, due immediately) if none exists yet. Idempotent.
	GetOrCreate(ctx context.Context, itemID int64) (*domain.MemoryCard, error)

	// Save upserts a card, keyed by item ID, and appends the review log in
	// the same atomic write when one is supplied. The card's scalar query
	// columns and its serialized algorithm state are updated together; no
	// partial write is ever observable.
	Save(ctx context.Context, card *domain.MemoryCard, log *domain.ReviewLog) error

	// QueryDue returns the item IDs in a list whose card is due at asOf
	// (DueAt <= asOf, inclusive) and has been studied before (state !=
	// New), ordered by ascending DueAt so the most overdue come first.
	QueryDue(ctx context.Context, listID string, asOf time.Time) ([]int64, error)

	// QueryNew returns up to limit item IDs in a list that have no card
	// yet or whose card is still New, in stable insertion order so
	// repeated calls without intervening study are deterministic.
	QueryNew(ctx context.Context, listID string, limit int) ([]int64, error)

	// ToggleStarred flips the starred flag on an item's card (creating the
	// card if needed) and returns the new value.
	ToggleStarred(ctx context.Context, itemID int64) (bool, error)

	// QueryStarred returns the IDs of all starred items.
	QueryStarred(ctx context.Context) ([]int64, error)
}
