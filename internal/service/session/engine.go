// Package session runs interactive study sessions: it materializes the
// scheduler's queue into study items, applies ratings through the memory
// model, and persists each outcome before advancing.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/rowanvale/lexdrill/internal/domain"
	"github.com/rowanvale/lexdrill/internal/domain/fsrs"
	"github.com/rowanvale/lexdrill/internal/store"
)

// Status is the lifecycle state of a session.
type Status string

// Session lifecycle states. A session is InProgress from the moment Start
// returns a non-empty queue until the last rating is submitted; an empty
// queue completes immediately.
const (
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
)

// Common session errors.
var (
	ErrSessionCompleted = errors.New("session is already completed")
	ErrNoCurrentItem    = errors.New("session has no current item")
)

// QueueBuilder produces the ordered item IDs for a session.
// *scheduler.Scheduler satisfies it.
type QueueBuilder interface {
	BuildQueue(ctx context.Context, settings domain.StudySettings) ([]int64, error)
}

// Engine drives one study session. All methods are safe for concurrent
// use; the engine serializes rating submissions so each one observes the
// card state left by the previous one.
type Engine struct {
	mu       sync.Mutex
	id       uuid.UUID
	settings domain.StudySettings
	items    []*domain.StudyItem
	index    int
	stats    domain.SessionStats
	status   Status

	model    fsrs.Service
	progress store.ProgressStore
	recorder store.SessionStore
	logger   *slog.Logger
	now      func() time.Time
}

// Snapshot is a point-in-time view of a session, safe to hand to callers.
type Snapshot struct {
	ID        uuid.UUID            `json:"id"`
	Status    Status               `json:"status"`
	Settings  domain.StudySettings `json:"settings"`
	Position  int                  `json:"position"`
	Total     int                  `json:"total"`
	Remaining int                  `json:"remaining"`
	Stats     domain.SessionStats  `json:"stats"`
}

// start builds the session's items from the queue. Called once, by the
// Manager, before the engine is published.
func (e *Engine) start(ctx context.Context, queue QueueBuilder, words store.WordStore, settings domain.StudySettings) error {
	now := e.now().UTC()
	e.id = uuid.New()
	e.settings = settings
	e.stats = domain.SessionStats{
		SessionID: e.id,
		ListID:    settings.ListID,
		StartedAt: now,
	}

	ids, err := queue.BuildQueue(ctx, settings)
	if err != nil {
		return fmt.Errorf("build study queue: %w", err)
	}
	if len(ids) == 0 {
		// Nothing to study. The session completes without ever touching
		// the progress store and leaves no history record behind.
		e.status = StatusCompleted
		return nil
	}

	list, err := words.GetByListID(ctx, settings.ListID)
	if err != nil {
		return fmt.Errorf("load word list %q: %w", settings.ListID, err)
	}
	byID := make(map[int64]*domain.Word, len(list))
	for _, w := range list {
		byID[w.ID] = w
	}

	items := make([]*domain.StudyItem, 0, len(ids))
	for _, id := range ids {
		word, ok := byID[id]
		if !ok {
			// The word was deleted between scheduling and loading.
			e.logger.Warn("skipping scheduled item with no word",
				slog.Int64("item_id", id),
				slog.String("list_id", settings.ListID))
			continue
		}
		card, err := e.progress.GetOrCreate(ctx, id)
		if err != nil {
			return fmt.Errorf("load card for item %d: %w", id, err)
		}
		items = append(items, &domain.StudyItem{
			Word:      word,
			Card:      card,
			IsNewWord: card.State == domain.CardStateNew,
		})
	}

	if len(items) == 0 {
		e.status = StatusCompleted
		return nil
	}

	e.items = items
	e.status = StatusInProgress
	e.logger.Info("session started",
		slog.String("session_id", e.id.String()),
		slog.String("list_id", settings.ListID),
		slog.Int("items", len(items)))
	return nil
}

// CurrentItem returns the item awaiting a rating.
func (e *Engine) CurrentItem() (*domain.StudyItem, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.status != StatusInProgress {
		return nil, ErrNoCurrentItem
	}
	return e.items[e.index], nil
}

// SubmitRating applies a rating to the current item. The updated card is
// persisted together with its review log before the session advances; if
// persistence fails the session position and stats are unchanged, so the
// same item can be rated again.
func (e *Engine) SubmitRating(ctx context.Context, rating domain.ReviewRating) (*domain.MemoryCard, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.status != StatusInProgress {
		return nil, ErrSessionCompleted
	}
	if !rating.IsValid() {
		return nil, domain.ErrInvalidRating
	}

	item := e.items[e.index]
	next, log, err := e.model.Review(item.Card, rating, e.now())
	if err != nil {
		return nil, fmt.Errorf("apply rating: %w", err)
	}
	if err := e.progress.Save(ctx, next, log); err != nil {
		return nil, fmt.Errorf("save review for item %d: %w", item.Card.ItemID, err)
	}

	item.Card = next
	if item.IsNewWord {
		e.stats.NewWords++
	} else {
		e.stats.ReviewWords++
	}
	if rating.IsCorrect() {
		e.stats.CorrectCount++
	} else {
		e.stats.IncorrectCount++
	}

	e.index++
	if e.index >= len(e.items) {
		e.complete(ctx)
	}
	return next, nil
}

// ToggleStar flips the starred flag on the current item and returns the
// new value. Starring does not advance the session.
func (e *Engine) ToggleStar(ctx context.Context) (bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.status != StatusInProgress {
		return false, ErrNoCurrentItem
	}
	item := e.items[e.index]
	starred, err := e.progress.ToggleStarred(ctx, item.Card.ItemID)
	if err != nil {
		return false, fmt.Errorf("toggle star for item %d: %w", item.Card.ItemID, err)
	}
	item.Card.Starred = starred
	return starred, nil
}

// Status returns the session's lifecycle state.
func (e *Engine) Status() Status {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.status
}

// Stats returns a copy of the session's accumulated statistics.
func (e *Engine) Stats() domain.SessionStats {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.stats
}

// Snapshot returns a point-in-time view of the session.
func (e *Engine) Snapshot() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()

	remaining := 0
	if e.status == StatusInProgress {
		remaining = len(e.items) - e.index
	}
	return Snapshot{
		ID:        e.id,
		Status:    e.status,
		Settings:  e.settings,
		Position:  e.index,
		Total:     len(e.items),
		Remaining: remaining,
		Stats:     e.stats,
	}
}

// complete finalizes stats and hands them to the session recorder. Caller
// holds e.mu.
func (e *Engine) complete(ctx context.Context) {
	e.status = StatusCompleted
	e.stats.TotalWords = len(e.items)
	e.stats.DurationSeconds = int(e.now().UTC().Sub(e.stats.StartedAt).Seconds())
	for _, item := range e.items {
		if item.Card.Starred {
			e.stats.StarredCount++
		}
	}

	// History is best-effort. A recorder failure must not turn an
	// otherwise successful final rating into an error.
	stats := e.stats
	if err := e.recorder.RecordSession(ctx, &stats); err != nil {
		e.logger.Error("failed to record completed session",
			slog.String("session_id", e.id.String()),
			slog.String("error", err.Error()))
	}

	e.logger.Info("session completed",
		slog.String("session_id", e.id.String()),
		slog.Int("total_words", e.stats.TotalWords),
		slog.Int("correct", e.stats.CorrectCount),
		slog.Int("incorrect", e.stats.IncorrectCount))
}
