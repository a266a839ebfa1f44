package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// StudyMode selects which kinds of items a session draws from.
type StudyMode string

// Possible study modes.
const (
	StudyModeMixed      StudyMode = "mixed"
	StudyModeNewOnly    StudyMode = "new_only"
	StudyModeReviewOnly StudyMode = "review_only"
)

// IsValid reports whether m is a defined study mode.
func (m StudyMode) IsValid() bool {
	switch m {
	case StudyModeMixed, StudyModeNewOnly, StudyModeReviewOnly:
		return true
	default:
		return false
	}
}

// StudyOrder selects how the session queue is ordered.
type StudyOrder string

// Possible study orders. Sequential keeps due items most-overdue-first and
// new items in insertion order; Random shuffles the combined queue.
const (
	StudyOrderSequential StudyOrder = "sequential"
	StudyOrderRandom     StudyOrder = "random"
)

// IsValid reports whether o is a defined study order.
func (o StudyOrder) IsValid() bool {
	return o == StudyOrderSequential || o == StudyOrderRandom
}

// Common validation errors for StudySettings.
var (
	ErrEmptySettingsListID = errors.New("study settings list ID cannot be empty")
	ErrNegativeLimit       = errors.New("study limits must be greater than or equal to 0")
	ErrInvalidStudyMode    = errors.New("invalid study mode")
	ErrInvalidStudyOrder   = errors.New("invalid study order")
)

// StudySettings describes what one study session should contain.
type StudySettings struct {
	ListID        string     `json:"list_id"`
	NewWordsLimit int        `json:"new_words_limit"`
	ReviewLimit   int        `json:"review_limit"`
	StudyMode     StudyMode  `json:"study_mode"`
	StudyOrder    StudyOrder `json:"study_order"`
}

// Validate checks the settings' invariants.
func (s StudySettings) Validate() error {
	if s.ListID == "" {
		return ErrEmptySettingsListID
	}
	if s.NewWordsLimit < 0 || s.ReviewLimit < 0 {
		return ErrNegativeLimit
	}
	if !s.StudyMode.IsValid() {
		return ErrInvalidStudyMode
	}
	if !s.StudyOrder.IsValid() {
		return ErrInvalidStudyOrder
	}
	return nil
}

// StudyItem pairs a word's display content with a snapshot of its memory
// card for the duration of one session. It is never persisted; sessions
// rebuild their items from the stores every time.
type StudyItem struct {
	Word      *Word       `json:"word"`
	Card      *MemoryCard `json:"card"`
	IsNewWord bool        `json:"is_new_word"`
}

// SessionStats accumulates what happened during one study session. The
// counters are purely additive over the ratings submitted in that session;
// they are never recomputed from the store, so they reflect exactly the
// work done even if external state changes concurrently.
type SessionStats struct {
	SessionID       uuid.UUID `json:"session_id"`
	ListID          string    `json:"list_id"`
	NewWords        int       `json:"new_words"`
	ReviewWords     int       `json:"review_words"`
	CorrectCount    int       `json:"correct_count"`
	IncorrectCount  int       `json:"incorrect_count"`
	StarredCount    int       `json:"starred_count"`
	TotalWords      int       `json:"total_words"`
	DurationSeconds int       `json:"duration_seconds"`
	StartedAt       time.Time `json:"started_at"`
}
