// Package scheduler builds the ordered queue of item IDs for one study
// session from the progress store's due/new queries.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/samber/lo"

	"github.com/rowanvale/lexdrill/internal/domain"
	"github.com/rowanvale/lexdrill/internal/platform/logger"
	"github.com/rowanvale/lexdrill/internal/store"
)

// Scheduler selects and orders candidate items for a session. It is pure
// read-then-compute over the progress store: building a queue never writes
// anything.
type Scheduler struct {
	progress store.ProgressStore
	logger   *slog.Logger
	now      func() time.Time
}

// New creates a Scheduler.
func New(progress store.ProgressStore, log *slog.Logger) *Scheduler {
	if progress == nil {
		panic("progress store cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}
	return &Scheduler{
		progress: progress,
		logger:   log.With(slog.String("component", "scheduler")),
		now:      time.Now,
	}
}

// BuildQueue returns the item IDs for a session, in presentation order.
//
// Due items come back most-overdue-first (ascending due time) and are
// capped at ReviewLimit; new items keep insertion order and are capped at
// NewWordsLimit. In Mixed mode the due items precede the new ones, so
// overdue material is reviewed before anything new is introduced. When the
// order is Random the combined set is shuffled instead. An empty queue is
// a valid result, not an error.
func (s *Scheduler) BuildQueue(ctx context.Context, settings domain.StudySettings) ([]int64, error) {
	if err := settings.Validate(); err != nil {
		return nil, err
	}

	log := logger.FromContextOrDefault(ctx, s.logger)

	var due, fresh []int64
	var err error

	if settings.StudyMode != domain.StudyModeNewOnly {
		due, err = s.dueItems(ctx, settings)
		if err != nil {
			return nil, err
		}
	}
	if settings.StudyMode != domain.StudyModeReviewOnly {
		fresh, err = s.progress.QueryNew(ctx, settings.ListID, settings.NewWordsLimit)
		if err != nil {
			return nil, fmt.Errorf("query new items: %w", err)
		}
	}

	queue := make([]int64, 0, len(due)+len(fresh))
	queue = append(queue, due...)
	queue = append(queue, fresh...)

	if settings.StudyOrder == domain.StudyOrderRandom {
		queue = lo.Shuffle(queue)
	}

	log.Debug("built study queue",
		slog.String("list_id", settings.ListID),
		slog.String("mode", string(settings.StudyMode)),
		slog.Int("due", len(due)),
		slog.Int("new", len(fresh)))

	return queue, nil
}

func (s *Scheduler) dueItems(ctx context.Context, settings domain.StudySettings) ([]int64, error) {
	if settings.ReviewLimit == 0 {
		return nil, nil
	}
	due, err := s.progress.QueryDue(ctx, settings.ListID, s.now().UTC())
	if err != nil {
		return nil, fmt.Errorf("query due items: %w", err)
	}
	if len(due) > settings.ReviewLimit {
		due = due[:settings.ReviewLimit]
	}
	return due, nil
}
