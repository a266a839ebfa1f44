package fsrs

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rowanvale/lexdrill/internal/domain"
)

func TestForgettingCurve(t *testing.T) {
	t.Parallel()

	t.Run("starts at one and stays within bounds", func(t *testing.T) {
		t.Parallel()

		assert.Equal(t, 1.0, forgettingCurve(0, 10))
		assert.Equal(t, 1.0, forgettingCurve(-1, 10))

		for _, elapsed := range []float64{0.5, 1, 7, 30, 365} {
			r := forgettingCurve(elapsed, 10)
			assert.Greater(t, r, 0.0)
			assert.Less(t, r, 1.0)
		}
	})

	t.Run("decays monotonically with elapsed time", func(t *testing.T) {
		t.Parallel()

		prev := 1.0
		for _, elapsed := range []float64{1, 2, 5, 10, 50, 200} {
			r := forgettingCurve(elapsed, 10)
			assert.Less(t, r, prev)
			prev = r
		}
	})

	t.Run("higher stability retains more", func(t *testing.T) {
		t.Parallel()

		assert.Greater(t, forgettingCurve(10, 50), forgettingCurve(10, 5))
	})

	t.Run("retrievability at stability days is ninety percent", func(t *testing.T) {
		t.Parallel()

		// The factor constant is defined so R(S) = 0.9 exactly.
		assert.InDelta(t, 0.9, forgettingCurve(10, 10), 1e-9)
	})
}

func TestNextInterval(t *testing.T) {
	t.Parallel()

	p := DefaultParams()

	t.Run("at least one day", func(t *testing.T) {
		t.Parallel()

		assert.Equal(t, 1, nextInterval(0.01, p))
	})

	t.Run("capped at maximum interval", func(t *testing.T) {
		t.Parallel()

		capped := p
		capped.MaximumInterval = 30
		assert.Equal(t, 30, nextInterval(1e6, capped))
	})

	t.Run("ninety percent retention maps stability to itself", func(t *testing.T) {
		t.Parallel()

		// With DesiredRetention = 0.9 the inverted curve returns S days.
		assert.Equal(t, 10, nextInterval(10, p))
		assert.Equal(t, 100, nextInterval(100, p))
	})

	t.Run("grows with stability", func(t *testing.T) {
		t.Parallel()

		assert.Greater(t, nextInterval(50, p), nextInterval(5, p))
	})
}

func TestInitStability(t *testing.T) {
	t.Parallel()

	w := DefaultWeights()

	prev := 0.0
	for _, rating := range []domain.ReviewRating{
		domain.RatingAgain, domain.RatingHard, domain.RatingGood, domain.RatingEasy,
	} {
		s := initStability(w, rating)
		assert.Greater(t, s, prev, "stability should rise with rating %s", rating)
		prev = s
	}
}

func TestInitDifficulty(t *testing.T) {
	t.Parallel()

	w := DefaultWeights()

	for _, rating := range []domain.ReviewRating{
		domain.RatingAgain, domain.RatingHard, domain.RatingGood, domain.RatingEasy,
	} {
		d := initDifficulty(w, rating)
		assert.GreaterOrEqual(t, d, 1.0)
		assert.LessOrEqual(t, d, 10.0)
	}

	// Failing the first exposure marks the item harder than acing it.
	assert.Greater(t, initDifficulty(w, domain.RatingAgain), initDifficulty(w, domain.RatingEasy))
}

func TestNextDifficulty(t *testing.T) {
	t.Parallel()

	w := DefaultWeights()

	t.Run("again raises difficulty and easy lowers it", func(t *testing.T) {
		t.Parallel()

		assert.Greater(t, nextDifficulty(w, 5.0, domain.RatingAgain), 5.0)
		assert.Less(t, nextDifficulty(w, 5.0, domain.RatingEasy), 5.0)
	})

	t.Run("stays clamped under repeated failures", func(t *testing.T) {
		t.Parallel()

		d := 5.0
		for i := 0; i < 100; i++ {
			d = nextDifficulty(w, d, domain.RatingAgain)
		}
		assert.LessOrEqual(t, d, 10.0)
		assert.GreaterOrEqual(t, d, 1.0)
	})
}

func TestNextRecallStability(t *testing.T) {
	t.Parallel()

	w := DefaultWeights()

	t.Run("grows on successful recall", func(t *testing.T) {
		t.Parallel()

		next := nextRecallStability(w, 5.0, 10.0, 0.9, domain.RatingGood)
		assert.Greater(t, next, 10.0)
	})

	t.Run("hard grows less than good, easy more", func(t *testing.T) {
		t.Parallel()

		hard := nextRecallStability(w, 5.0, 10.0, 0.9, domain.RatingHard)
		good := nextRecallStability(w, 5.0, 10.0, 0.9, domain.RatingGood)
		easy := nextRecallStability(w, 5.0, 10.0, 0.9, domain.RatingEasy)
		assert.Less(t, hard, good)
		assert.Greater(t, easy, good)
	})

	t.Run("easier items grow faster", func(t *testing.T) {
		t.Parallel()

		easyItem := nextRecallStability(w, 2.0, 10.0, 0.9, domain.RatingGood)
		hardItem := nextRecallStability(w, 9.0, 10.0, 0.9, domain.RatingGood)
		assert.Greater(t, easyItem, hardItem)
	})
}

func TestNextForgetStability(t *testing.T) {
	t.Parallel()

	w := DefaultWeights()

	t.Run("never exceeds previous stability", func(t *testing.T) {
		t.Parallel()

		for _, stability := range []float64{0.1, 1, 10, 100, 1000} {
			next := nextForgetStability(w, 5.0, stability, 0.7)
			assert.LessOrEqual(t, next, stability)
			assert.GreaterOrEqual(t, next, 0.01)
		}
	})
}
