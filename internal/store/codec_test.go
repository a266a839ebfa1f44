package store

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rowanvale/lexdrill/internal/domain"
)

func TestCardStateRoundTrip(t *testing.T) {
	t.Parallel()

	reviewed := time.Date(2026, 3, 10, 9, 30, 0, 0, time.UTC)
	card := &domain.MemoryCard{
		ItemID:         42,
		State:          domain.CardStateReview,
		Stability:      12.75,
		Difficulty:     4.2,
		DueAt:          reviewed.AddDate(0, 0, 13),
		LastReviewedAt: &reviewed,
		ReviewCount:    5,
		LapseCount:     1,
	}

	blob, err := EncodeCardState(card)
	require.NoError(t, err)

	var decoded domain.MemoryCard
	decoded.ItemID = card.ItemID
	require.NoError(t, DecodeCardState(blob, &decoded))

	assert.Equal(t, card.State, decoded.State)
	assert.Equal(t, card.Stability, decoded.Stability)
	assert.Equal(t, card.Difficulty, decoded.Difficulty)
	assert.True(t, card.DueAt.Equal(decoded.DueAt))
	require.NotNil(t, decoded.LastReviewedAt)
	assert.True(t, reviewed.Equal(*decoded.LastReviewedAt))
	assert.Equal(t, card.ReviewCount, decoded.ReviewCount)
	assert.Equal(t, card.LapseCount, decoded.LapseCount)
}

func TestEncodeCardStateNilCard(t *testing.T) {
	t.Parallel()

	_, err := EncodeCardState(nil)
	assert.ErrorIs(t, err, ErrInvalidEntity)
}

func TestDecodeCardStateRejectsUnknownVersion(t *testing.T) {
	t.Parallel()

	blob, err := json.Marshal(map[string]any{
		"v":     CardStateVersion + 1,
		"state": "review",
	})
	require.NoError(t, err)

	var card domain.MemoryCard
	assert.ErrorIs(t, DecodeCardState(blob, &card), ErrInvalidEntity)
}

func TestDecodeCardStateRejectsBadState(t *testing.T) {
	t.Parallel()

	blob, err := json.Marshal(map[string]any{
		"v":     CardStateVersion,
		"state": "archived",
	})
	require.NoError(t, err)

	var card domain.MemoryCard
	assert.ErrorIs(t, DecodeCardState(blob, &card), ErrInvalidEntity)
}

func TestDecodeCardStateRejectsGarbage(t *testing.T) {
	t.Parallel()

	var card domain.MemoryCard
	assert.Error(t, DecodeCardState([]byte("not json"), &card))
}
