package fsrs

import (
	"math"

	"github.com/rowanvale/lexdrill/internal/domain"
)

// The functions in this file are the pure FSRS-4.5 update rules. They take
// and return plain numbers; state-machine handling and card plumbing live
// in service.go.

// forgettingCurve returns the estimated recall probability after
// elapsedDays given the card's stability. It is 1.0 at elapsed 0 and
// decays monotonically towards 0.
func forgettingCurve(elapsedDays, stability float64) float64 {
	if elapsedDays <= 0 {
		return 1.0
	}
	if stability <= 0 {
		return 0.0
	}
	return math.Pow(1.0+factor*elapsedDays/stability, decay)
}

// nextInterval inverts the forgetting curve at the desired retention: the
// returned number of days is when retrievability is expected to have
// decayed to p.DesiredRetention. Clamped to [1, MaximumInterval].
func nextInterval(stability float64, p Params) int {
	raw := stability / factor * (math.Pow(p.DesiredRetention, 1.0/decay) - 1.0)
	days := int(math.Round(raw))
	if days < 1 {
		days = 1
	}
	if days > p.MaximumInterval {
		days = p.MaximumInterval
	}
	return days
}

// initStability is the first-review stability, taken directly from the
// per-rating weights w0..w3.
func initStability(w Weights, rating domain.ReviewRating) float64 {
	return math.Max(w[rating-1], 0.1)
}

// initDifficulty is the first-review difficulty estimate:
// D0(G) = w4 - e^(w5*(G-1)) + 1, clamped to [1, 10].
func initDifficulty(w Weights, rating domain.ReviewRating) float64 {
	d := w[4] - math.Exp(w[5]*float64(rating-1)) + 1.0
	return clampDifficulty(d)
}

// nextDifficulty adjusts difficulty after a review and applies mean
// reversion towards the default-rating initial difficulty, so repeated
// identical ratings do not run away to the bounds.
func nextDifficulty(w Weights, difficulty float64, rating domain.ReviewRating) float64 {
	delta := -w[6] * float64(rating-domain.RatingGood)
	d := difficulty + delta*(10.0-difficulty)/9.0
	d = w[7]*initDifficulty(w, domain.RatingEasy) + (1.0-w[7])*d
	return clampDifficulty(d)
}

// nextRecallStability grows stability after a successful review. The
// growth shrinks as difficulty rises, as stability accumulates, and as the
// review happens earlier (higher retrievability); Hard answers are
// penalised by w15 and Easy answers boosted by w16.
func nextRecallStability(
	w Weights,
	difficulty, stability, retrievability float64,
	rating domain.ReviewRating,
) float64 {
	hardPenalty := 1.0
	if rating == domain.RatingHard {
		hardPenalty = w[15]
	}
	easyBonus := 1.0
	if rating == domain.RatingEasy {
		easyBonus = w[16]
	}

	growth := math.Exp(w[8]) *
		(11.0 - difficulty) *
		math.Pow(stability, -w[9]) *
		(math.Exp(w[10]*(1.0-retrievability)) - 1.0) *
		hardPenalty * easyBonus

	return stability * (1.0 + growth)
}

// nextForgetStability is the post-lapse stability. The formula can exceed
// the previous stability for very small values, so the result is clamped
// to never increase on failure.
func nextForgetStability(w Weights, difficulty, stability, retrievability float64) float64 {
	s := w[11] *
		math.Pow(difficulty, -w[12]) *
		(math.Pow(stability+1.0, w[13]) - 1.0) *
		math.Exp(w[14]*(1.0-retrievability))

	s = math.Min(s, stability)
	return math.Max(s, 0.01)
}

func clampDifficulty(d float64) float64 {
	return math.Min(math.Max(d, 1.0), 10.0)
}
