package store

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/rowanvale/lexdrill/internal/domain"
)

// CardStateVersion is the current schema version of the serialized
// algorithm state. Bump it when the record layout changes and add a
// migration branch in DecodeCardState.
const CardStateVersion = 1

// cardStateRecord is the versioned serialized form of a card's algorithm
// state. Backends persist it as an opaque blob next to the denormalized
// scalar columns used for querying; both are written together in Save so
// neither can drift from the other.
type cardStateRecord struct {
	Version        int        `json:"v"`
	State          string     `json:"state"`
	Stability      float64    `json:"stability"`
	Difficulty     float64    `json:"difficulty"`
	DueAt          time.Time  `json:"due_at"`
	LastReviewedAt *time.Time `json:"last_reviewed_at,omitempty"`
	ReviewCount    int        `json:"review_count"`
	LapseCount     int        `json:"lapse_count"`
}

// EncodeCardState serializes the card's algorithm state into the versioned
// blob form. The starred flag and timestamps are not part of the algorithm
// state; they live only in their own columns.
func EncodeCardState(card *domain.MemoryCard) ([]byte, error) {
	if card == nil {
		return nil, fmt.Errorf("%w: nil card", ErrInvalidEntity)
	}
	rec := cardStateRecord{
		Version:        CardStateVersion,
		State:          string(card.State),
		Stability:      card.Stability,
		Difficulty:     card.Difficulty,
		DueAt:          card.DueAt.UTC(),
		LastReviewedAt: card.LastReviewedAt,
		ReviewCount:    card.ReviewCount,
		LapseCount:     card.LapseCount,
	}
	data, err := json.Marshal(rec)
	if err != nil {
		return nil, fmt.Errorf("encode card state: %w", err)
	}
	return data, nil
}

// DecodeCardState parses a serialized state blob into the given card,
// filling the algorithm fields. Returns an error for blobs written by an
// unknown (newer) schema version.
func DecodeCardState(data []byte, card *domain.MemoryCard) error {
	var rec cardStateRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return fmt.Errorf("decode card state: %w", err)
	}
	if rec.Version != CardStateVersion {
		return fmt.Errorf("%w: unsupported card state version %d", ErrInvalidEntity, rec.Version)
	}

	card.State = domain.CardState(rec.State)
	card.Stability = rec.Stability
	card.Difficulty = rec.Difficulty
	card.DueAt = rec.DueAt
	card.LastReviewedAt = rec.LastReviewedAt
	card.ReviewCount = rec.ReviewCount
	card.LapseCount = rec.LapseCount

	if !card.State.IsValid() {
		return fmt.Errorf("%w: card state %q", ErrInvalidEntity, rec.State)
	}
	return nil
}
