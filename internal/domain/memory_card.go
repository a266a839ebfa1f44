package domain

import (
	"errors"
	"time"
)

// CardState represents where a card sits in its learning lifecycle.
type CardState string

// Possible card states. A word without a persisted card is conceptually New
// as well; stores materialize the card lazily on first encounter.
const (
	CardStateNew        CardState = "new"
	CardStateLearning   CardState = "learning"
	CardStateReview     CardState = "review"
	CardStateRelearning CardState = "relearning"
)

// IsValid reports whether s is one of the four defined card states.
func (s CardState) IsValid() bool {
	switch s {
	case CardStateNew, CardStateLearning, CardStateReview, CardStateRelearning:
		return true
	default:
		return false
	}
}

// ReviewRating is the user's self-graded recall quality for one
// presentation of a word. The numeric values follow the common
// spaced-repetition convention (Again=1 .. Easy=4).
type ReviewRating int

// Possible review rating values.
const (
	RatingAgain ReviewRating = 1
	RatingHard  ReviewRating = 2
	RatingGood  ReviewRating = 3
	RatingEasy  ReviewRating = 4
)

// IsValid reports whether r is one of the four defined ratings.
// Anything else is a caller contract violation, not a recoverable state.
func (r ReviewRating) IsValid() bool {
	return r >= RatingAgain && r <= RatingEasy
}

// IsCorrect reports whether the rating counts as a successful recall.
// Good and Easy are correct; Again and Hard are not.
func (r ReviewRating) IsCorrect() bool {
	return r >= RatingGood
}

// String returns the lowercase name used in APIs and logs.
func (r ReviewRating) String() string {
	switch r {
	case RatingAgain:
		return "again"
	case RatingHard:
		return "hard"
	case RatingGood:
		return "good"
	case RatingEasy:
		return "easy"
	default:
		return "invalid"
	}
}

// ParseReviewRating converts the wire representation of a rating back into
// a ReviewRating. Returns ErrInvalidRating for unknown values.
func ParseReviewRating(s string) (ReviewRating, error) {
	switch s {
	case "again":
		return RatingAgain, nil
	case "hard":
		return RatingHard, nil
	case "good":
		return RatingGood, nil
	case "easy":
		return RatingEasy, nil
	default:
		return 0, ErrInvalidRating
	}
}

// Common validation errors for MemoryCard.
var (
	ErrInvalidRating        = errors.New("invalid review rating")
	ErrInvalidCardState     = errors.New("invalid card state")
	ErrEmptyCardItemID      = errors.New("memory card item ID cannot be zero")
	ErrNegativeStability    = errors.New("stability must be greater than or equal to 0")
	ErrDifficultyOutOfRange = errors.New("difficulty must be within [1, 10]")
	ErrZeroDueAt            = errors.New("memory card due time cannot be zero")
)

// MemoryCard tracks the estimated memory state of one vocabulary item.
// Stability and difficulty follow the FSRS forgetting-curve model; DueAt is
// the absolute UTC instant at which the item becomes eligible for review
// again (inclusive: DueAt <= now means due).
//
// Cards are owned by the persistent store. The session engine holds
// transient copies and state transitions happen only through the memory
// model's Review; nothing else mutates the algorithm fields.
type MemoryCard struct {
	ItemID         int64      `json:"item_id"`
	State          CardState  `json:"state"`
	Stability      float64    `json:"stability"`  // estimated memory half-life scale, in days; 0 until first review
	Difficulty     float64    `json:"difficulty"` // intrinsic item difficulty in [1, 10]
	DueAt          time.Time  `json:"due_at"`
	LastReviewedAt *time.Time `json:"last_reviewed_at,omitempty"`
	ReviewCount    int        `json:"review_count"`
	LapseCount     int        `json:"lapse_count"`
	Starred        bool       `json:"starred"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// Validate checks the card's invariants.
func (c *MemoryCard) Validate() error {
	if c.ItemID == 0 {
		return ErrEmptyCardItemID
	}
	if !c.State.IsValid() {
		return ErrInvalidCardState
	}
	if c.Stability < 0 {
		return ErrNegativeStability
	}
	if c.Difficulty < 1 || c.Difficulty > 10 {
		return ErrDifficultyOutOfRange
	}
	if c.DueAt.IsZero() {
		return ErrZeroDueAt
	}
	return nil
}

// IsDue reports whether the card is eligible for review at the given time.
func (c *MemoryCard) IsDue(at time.Time) bool {
	return !c.DueAt.After(at)
}

// Clone returns an independent copy of the card.
func (c *MemoryCard) Clone() *MemoryCard {
	cp := *c
	if c.LastReviewedAt != nil {
		t := *c.LastReviewedAt
		cp.LastReviewedAt = &t
	}
	return &cp
}

// ReviewLog is the immutable record of a single review: the rating given,
// the state the card was in before the review, and the resulting memory
// estimates. Logs are append-only and persisted together with the updated
// card.
type ReviewLog struct {
	ItemID        int64        `json:"item_id"`
	Rating        ReviewRating `json:"rating"`
	StateBefore   CardState    `json:"state_before"`
	Stability     float64      `json:"stability"`
	Difficulty    float64      `json:"difficulty"`
	ElapsedDays   float64      `json:"elapsed_days"`
	ScheduledDays int          `json:"scheduled_days"`
	ReviewedAt    time.Time    `json:"reviewed_at"`
}
