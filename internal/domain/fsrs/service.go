package fsrs

import (
	"errors"
	"time"

	"github.com/rowanvale/lexdrill/internal/domain"
)

// Common errors.
var (
	ErrNilCard       = errors.New("memory card cannot be nil")
	ErrInvalidRating = domain.ErrInvalidRating
)

// Service is the memory model: given a card and a rating it computes the
// next card state deterministically. Implementations are pure; all inputs
// come through the arguments and persistence is the caller's concern.
type Service interface {
	// NewCard returns the initial card for an item: state New, due
	// immediately, zero stability, midpoint difficulty, zero counters.
	NewCard(itemID int64, now time.Time) *domain.MemoryCard

	// Review applies a rating and returns the updated card together with
	// an immutable review log record. The input card is never mutated.
	// Returns ErrNilCard or ErrInvalidRating on contract violations.
	Review(
		card *domain.MemoryCard,
		rating domain.ReviewRating,
		now time.Time,
	) (*domain.MemoryCard, *domain.ReviewLog, error)

	// Retrievability estimates the probability of successful recall at the
	// given time. Display-only: scheduling decisions compare DueAt, never
	// this value.
	Retrievability(card *domain.MemoryCard, at time.Time) float64
}

type defaultService struct {
	params Params
}

// NewService creates a memory model with the given parameters.
func NewService(params Params) Service {
	return &defaultService{params: params}
}

// NewDefaultService creates a memory model with the published default
// parameters and 90% target retention.
func NewDefaultService() Service {
	return &defaultService{params: DefaultParams()}
}

func (s *defaultService) NewCard(itemID int64, now time.Time) *domain.MemoryCard {
	now = now.UTC()
	return &domain.MemoryCard{
		ItemID:     itemID,
		State:      domain.CardStateNew,
		Stability:  0,
		Difficulty: 5.0,
		DueAt:      now, // immediately eligible
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

func (s *defaultService) Review(
	card *domain.MemoryCard,
	rating domain.ReviewRating,
	now time.Time,
) (*domain.MemoryCard, *domain.ReviewLog, error) {
	if card == nil {
		return nil, nil, ErrNilCard
	}
	if !rating.IsValid() {
		return nil, nil, ErrInvalidRating
	}

	now = now.UTC()
	w := s.params.Weights

	elapsed := elapsedDays(card, now)
	retrievability := forgettingCurve(elapsed, card.Stability)

	next := card.Clone()
	next.ReviewCount++
	reviewedAt := now
	next.LastReviewedAt = &reviewedAt
	next.UpdatedAt = now

	switch card.State {
	case domain.CardStateNew:
		// First exposure: stability and difficulty are seeded from the
		// rating alone.
		next.Stability = initStability(w, rating)
		next.Difficulty = initDifficulty(w, rating)
		switch rating {
		case domain.RatingAgain:
			next.LapseCount++
			next.State = domain.CardStateLearning
			next.DueAt = now.Add(time.Duration(s.params.AgainStepMinutes) * time.Minute)
		case domain.RatingHard:
			next.State = domain.CardStateLearning
			next.DueAt = now.Add(time.Duration(s.params.HardStepMinutes) * time.Minute)
		default: // Good, Easy graduate straight to day-scale review
			next.State = domain.CardStateReview
			next.DueAt = now.AddDate(0, 0, nextInterval(next.Stability, s.params))
		}

	case domain.CardStateLearning, domain.CardStateRelearning:
		next.Difficulty = nextDifficulty(w, card.Difficulty, rating)
		switch rating {
		case domain.RatingAgain:
			next.LapseCount++
			next.State = domain.CardStateRelearning
			next.Stability = nextForgetStability(w, card.Difficulty, card.Stability, retrievability)
			next.DueAt = now.Add(time.Duration(s.params.AgainStepMinutes) * time.Minute)
		case domain.RatingHard:
			// Repeat the learning step; the card has not graduated yet.
			next.DueAt = now.Add(time.Duration(s.params.HardStepMinutes) * time.Minute)
		default:
			next.State = domain.CardStateReview
			next.Stability = nextRecallStability(w, card.Difficulty, card.Stability, retrievability, rating)
			next.DueAt = now.AddDate(0, 0, nextInterval(next.Stability, s.params))
		}

	case domain.CardStateReview:
		next.Difficulty = nextDifficulty(w, card.Difficulty, rating)
		if rating == domain.RatingAgain {
			next.LapseCount++
			next.State = domain.CardStateRelearning
			next.Stability = nextForgetStability(w, card.Difficulty, card.Stability, retrievability)
			next.DueAt = now.Add(time.Duration(s.params.RelearnStepMinutes) * time.Minute)
		} else {
			next.Stability = nextRecallStability(w, card.Difficulty, card.Stability, retrievability, rating)
			next.DueAt = now.AddDate(0, 0, nextInterval(next.Stability, s.params))
		}

	default:
		return nil, nil, domain.ErrInvalidCardState
	}

	log := &domain.ReviewLog{
		ItemID:        card.ItemID,
		Rating:        rating,
		StateBefore:   card.State,
		Stability:     next.Stability,
		Difficulty:    next.Difficulty,
		ElapsedDays:   elapsed,
		ScheduledDays: scheduledDays(now, next.DueAt),
		ReviewedAt:    now,
	}

	return next, log, nil
}

func (s *defaultService) Retrievability(card *domain.MemoryCard, at time.Time) float64 {
	if card == nil || card.LastReviewedAt == nil || card.Stability <= 0 {
		// Nothing has been learned yet, so nothing has been forgotten.
		return 1.0
	}
	elapsed := at.UTC().Sub(card.LastReviewedAt.UTC()).Hours() / 24.0
	if elapsed < 0 {
		elapsed = 0
	}
	return forgettingCurve(elapsed, card.Stability)
}

// elapsedDays is the time since the last review, in fractional days.
// Zero for cards that have never been reviewed.
func elapsedDays(card *domain.MemoryCard, now time.Time) float64 {
	if card.LastReviewedAt == nil {
		return 0
	}
	d := now.Sub(card.LastReviewedAt.UTC()).Hours() / 24.0
	if d < 0 {
		return 0
	}
	return d
}

// scheduledDays is the whole-day distance to the next due time; zero for
// minute-scale learning steps.
func scheduledDays(now, dueAt time.Time) int {
	d := int(dueAt.Sub(now).Hours() / 24.0)
	if d < 0 {
		return 0
	}
	return d
}
