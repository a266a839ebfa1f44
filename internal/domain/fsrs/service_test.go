package fsrs

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rowanvale/lexdrill/internal/domain"
)

var testNow = time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC)

// reviewCard builds a card that has graduated to day-scale review and is
// currently due.
func reviewCard(itemID int64) *domain.MemoryCard {
	reviewed := testNow.AddDate(0, 0, -10)
	return &domain.MemoryCard{
		ItemID:         itemID,
		State:          domain.CardStateReview,
		Stability:      10.0,
		Difficulty:     5.0,
		DueAt:          testNow.AddDate(0, 0, -1),
		LastReviewedAt: &reviewed,
		ReviewCount:    3,
		CreatedAt:      reviewed,
		UpdatedAt:      reviewed,
	}
}

func TestNewCard(t *testing.T) {
	t.Parallel()

	svc := NewDefaultService()
	card := svc.NewCard(42, testNow)

	assert.Equal(t, int64(42), card.ItemID)
	assert.Equal(t, domain.CardStateNew, card.State)
	assert.Zero(t, card.Stability)
	assert.True(t, card.IsDue(testNow), "new cards are immediately eligible")
	assert.Zero(t, card.ReviewCount)
	assert.Zero(t, card.LapseCount)
	assert.Nil(t, card.LastReviewedAt)
}

func TestReviewContractViolations(t *testing.T) {
	t.Parallel()

	svc := NewDefaultService()

	_, _, err := svc.Review(nil, domain.RatingGood, testNow)
	assert.ErrorIs(t, err, ErrNilCard)

	_, _, err = svc.Review(reviewCard(1), domain.ReviewRating(0), testNow)
	assert.ErrorIs(t, err, ErrInvalidRating)

	_, _, err = svc.Review(reviewCard(1), domain.ReviewRating(5), testNow)
	assert.ErrorIs(t, err, ErrInvalidRating)
}

func TestReviewDoesNotMutateInput(t *testing.T) {
	t.Parallel()

	svc := NewDefaultService()
	card := reviewCard(1)
	before := card.Clone()

	_, _, err := svc.Review(card, domain.RatingGood, testNow)
	require.NoError(t, err)

	assert.Equal(t, before, card)
}

func TestReviewNewCard(t *testing.T) {
	t.Parallel()

	svc := NewDefaultService()

	t.Run("good graduates straight to review", func(t *testing.T) {
		t.Parallel()

		card := svc.NewCard(1, testNow)
		next, log, err := svc.Review(card, domain.RatingGood, testNow)
		require.NoError(t, err)

		assert.Equal(t, domain.CardStateReview, next.State)
		assert.Greater(t, next.Stability, 0.0)
		assert.True(t, next.DueAt.After(testNow), "graduated card is due in the future")
		assert.Equal(t, 1, next.ReviewCount)
		assert.Zero(t, next.LapseCount)

		require.NotNil(t, log)
		assert.Equal(t, domain.CardStateNew, log.StateBefore)
		assert.Equal(t, domain.RatingGood, log.Rating)
	})

	t.Run("again enters learning after one minute and counts a lapse", func(t *testing.T) {
		t.Parallel()

		card := svc.NewCard(1, testNow)
		next, _, err := svc.Review(card, domain.RatingAgain, testNow)
		require.NoError(t, err)

		assert.Equal(t, domain.CardStateLearning, next.State)
		assert.Equal(t, testNow.Add(time.Minute), next.DueAt)
		assert.Equal(t, 1, next.LapseCount)
	})

	t.Run("hard enters learning with the longer step", func(t *testing.T) {
		t.Parallel()

		card := svc.NewCard(1, testNow)
		next, _, err := svc.Review(card, domain.RatingHard, testNow)
		require.NoError(t, err)

		assert.Equal(t, domain.CardStateLearning, next.State)
		assert.Equal(t, testNow.Add(5*time.Minute), next.DueAt)
		assert.Zero(t, next.LapseCount)
	})

	t.Run("easy seeds higher stability than good", func(t *testing.T) {
		t.Parallel()

		good, _, err := svc.Review(svc.NewCard(1, testNow), domain.RatingGood, testNow)
		require.NoError(t, err)
		easy, _, err := svc.Review(svc.NewCard(1, testNow), domain.RatingEasy, testNow)
		require.NoError(t, err)

		assert.Greater(t, easy.Stability, good.Stability)
		assert.True(t, easy.DueAt.After(good.DueAt))
	})
}

func TestReviewLearningCard(t *testing.T) {
	t.Parallel()

	svc := NewDefaultService()

	learning := func() *domain.MemoryCard {
		reviewed := testNow.Add(-time.Minute)
		return &domain.MemoryCard{
			ItemID:         1,
			State:          domain.CardStateLearning,
			Stability:      0.5,
			Difficulty:     6.0,
			DueAt:          testNow,
			LastReviewedAt: &reviewed,
			ReviewCount:    1,
			CreatedAt:      testNow.Add(-time.Hour),
			UpdatedAt:      reviewed,
		}
	}

	t.Run("good graduates to review", func(t *testing.T) {
		t.Parallel()

		next, _, err := svc.Review(learning(), domain.RatingGood, testNow)
		require.NoError(t, err)

		assert.Equal(t, domain.CardStateReview, next.State)
		assert.True(t, next.DueAt.After(testNow.Add(time.Hour)), "graduation moves to day scale")
	})

	t.Run("hard repeats the learning step without graduating", func(t *testing.T) {
		t.Parallel()

		next, _, err := svc.Review(learning(), domain.RatingHard, testNow)
		require.NoError(t, err)

		assert.Equal(t, domain.CardStateLearning, next.State)
		assert.Equal(t, testNow.Add(5*time.Minute), next.DueAt)
	})

	t.Run("again stays minute scale and counts a lapse", func(t *testing.T) {
		t.Parallel()

		next, _, err := svc.Review(learning(), domain.RatingAgain, testNow)
		require.NoError(t, err)

		assert.Equal(t, domain.CardStateRelearning, next.State)
		assert.Equal(t, testNow.Add(time.Minute), next.DueAt)
		assert.Equal(t, 1, next.LapseCount)
	})
}

func TestReviewReviewCard(t *testing.T) {
	t.Parallel()

	svc := NewDefaultService()

	t.Run("again lapses without increasing stability", func(t *testing.T) {
		t.Parallel()

		card := reviewCard(1)
		next, _, err := svc.Review(card, domain.RatingAgain, testNow)
		require.NoError(t, err)

		assert.Equal(t, domain.CardStateRelearning, next.State)
		assert.LessOrEqual(t, next.Stability, card.Stability)
		assert.Equal(t, card.LapseCount+1, next.LapseCount)
		assert.Equal(t, testNow.Add(10*time.Minute), next.DueAt)
	})

	t.Run("successful recall grows stability", func(t *testing.T) {
		t.Parallel()

		card := reviewCard(1)
		next, _, err := svc.Review(card, domain.RatingGood, testNow)
		require.NoError(t, err)

		assert.Equal(t, domain.CardStateReview, next.State)
		assert.Greater(t, next.Stability, card.Stability)
		assert.Equal(t, card.LapseCount, next.LapseCount)
	})

	t.Run("due time is monotonic in the rating", func(t *testing.T) {
		t.Parallel()

		var prev time.Time
		for _, rating := range []domain.ReviewRating{
			domain.RatingAgain, domain.RatingHard, domain.RatingGood, domain.RatingEasy,
		} {
			next, _, err := svc.Review(reviewCard(1), rating, testNow)
			require.NoError(t, err)
			if !prev.IsZero() {
				assert.False(t, next.DueAt.Before(prev),
					"rating %s scheduled earlier than the previous rating", rating)
			}
			prev = next.DueAt
		}
	})

	t.Run("review count increments exactly once per review", func(t *testing.T) {
		t.Parallel()

		card := reviewCard(1)
		for _, rating := range []domain.ReviewRating{
			domain.RatingAgain, domain.RatingHard, domain.RatingGood, domain.RatingEasy,
		} {
			next, _, err := svc.Review(card, rating, testNow)
			require.NoError(t, err)
			assert.Equal(t, card.ReviewCount+1, next.ReviewCount)
		}
	})

	t.Run("log snapshots the transition", func(t *testing.T) {
		t.Parallel()

		card := reviewCard(7)
		next, log, err := svc.Review(card, domain.RatingGood, testNow)
		require.NoError(t, err)
		require.NotNil(t, log)

		assert.Equal(t, int64(7), log.ItemID)
		assert.Equal(t, domain.CardStateReview, log.StateBefore)
		assert.Equal(t, next.Stability, log.Stability)
		assert.Equal(t, next.Difficulty, log.Difficulty)
		assert.InDelta(t, 10.0, log.ElapsedDays, 0.01)
		assert.Equal(t, testNow, log.ReviewedAt)
	})
}

func TestRetrievability(t *testing.T) {
	t.Parallel()

	svc := NewDefaultService()

	t.Run("unreviewed card retains everything", func(t *testing.T) {
		t.Parallel()

		assert.Equal(t, 1.0, svc.Retrievability(nil, testNow))
		assert.Equal(t, 1.0, svc.Retrievability(svc.NewCard(1, testNow), testNow))
	})

	t.Run("bounded and decaying", func(t *testing.T) {
		t.Parallel()

		card := reviewCard(1)
		prev := 1.01
		for _, days := range []int{0, 1, 10, 100} {
			r := svc.Retrievability(card, card.LastReviewedAt.AddDate(0, 0, days))
			assert.Greater(t, r, 0.0)
			assert.LessOrEqual(t, r, 1.0)
			assert.Less(t, r, prev)
			prev = r
		}
	})
}
