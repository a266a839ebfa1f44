package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestReviewRating(t *testing.T) {
	t.Parallel()

	t.Run("validity", func(t *testing.T) {
		t.Parallel()

		assert.True(t, RatingAgain.IsValid())
		assert.True(t, RatingEasy.IsValid())
		assert.False(t, ReviewRating(0).IsValid())
		assert.False(t, ReviewRating(5).IsValid())
	})

	t.Run("correctness split", func(t *testing.T) {
		t.Parallel()

		assert.False(t, RatingAgain.IsCorrect())
		assert.False(t, RatingHard.IsCorrect())
		assert.True(t, RatingGood.IsCorrect())
		assert.True(t, RatingEasy.IsCorrect())
	})

	t.Run("string round trip", func(t *testing.T) {
		t.Parallel()

		for _, r := range []ReviewRating{RatingAgain, RatingHard, RatingGood, RatingEasy} {
			parsed, err := ParseReviewRating(r.String())
			assert.NoError(t, err)
			assert.Equal(t, r, parsed)
		}

		_, err := ParseReviewRating("perfect")
		assert.ErrorIs(t, err, ErrInvalidRating)
	})
}

func TestMemoryCardValidate(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC)

	valid := func() *MemoryCard {
		return &MemoryCard{
			ItemID:     1,
			State:      CardStateReview,
			Stability:  3.5,
			Difficulty: 5.0,
			DueAt:      now,
			CreatedAt:  now,
			UpdatedAt:  now,
		}
	}

	tests := []struct {
		name    string
		mutate  func(*MemoryCard)
		wantErr error
	}{
		{"valid card", func(c *MemoryCard) {}, nil},
		{"zero item ID", func(c *MemoryCard) { c.ItemID = 0 }, ErrEmptyCardItemID},
		{"unknown state", func(c *MemoryCard) { c.State = "archived" }, ErrInvalidCardState},
		{"negative stability", func(c *MemoryCard) { c.Stability = -0.1 }, ErrNegativeStability},
		{"difficulty too low", func(c *MemoryCard) { c.Difficulty = 0.5 }, ErrDifficultyOutOfRange},
		{"difficulty too high", func(c *MemoryCard) { c.Difficulty = 10.5 }, ErrDifficultyOutOfRange},
		{"zero due time", func(c *MemoryCard) { c.DueAt = time.Time{} }, ErrZeroDueAt},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			card := valid()
			tt.mutate(card)
			err := card.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestMemoryCardClone(t *testing.T) {
	t.Parallel()

	reviewed := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	card := &MemoryCard{
		ItemID:         1,
		State:          CardStateReview,
		Stability:      3.5,
		Difficulty:     5.0,
		DueAt:          reviewed.AddDate(0, 0, 4),
		LastReviewedAt: &reviewed,
	}

	clone := card.Clone()
	assert.Equal(t, card, clone)

	*clone.LastReviewedAt = reviewed.AddDate(0, 0, 1)
	clone.Stability = 99
	assert.Equal(t, reviewed, *card.LastReviewedAt, "clone must not share pointers")
	assert.Equal(t, 3.5, card.Stability)
}

func TestStudySettingsValidate(t *testing.T) {
	t.Parallel()

	valid := StudySettings{
		ListID:        "hsk1",
		NewWordsLimit: 10,
		ReviewLimit:   50,
		StudyMode:     StudyModeMixed,
		StudyOrder:    StudyOrderSequential,
	}
	assert.NoError(t, valid.Validate())

	tests := []struct {
		name    string
		mutate  func(*StudySettings)
		wantErr error
	}{
		{"empty list", func(s *StudySettings) { s.ListID = "" }, ErrEmptySettingsListID},
		{"negative new limit", func(s *StudySettings) { s.NewWordsLimit = -1 }, ErrNegativeLimit},
		{"negative review limit", func(s *StudySettings) { s.ReviewLimit = -1 }, ErrNegativeLimit},
		{"bad mode", func(s *StudySettings) { s.StudyMode = "cram" }, ErrInvalidStudyMode},
		{"bad order", func(s *StudySettings) { s.StudyOrder = "fifo" }, ErrInvalidStudyOrder},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			s := valid
			tt.mutate(&s)
			assert.ErrorIs(t, s.Validate(), tt.wantErr)
		})
	}
}
