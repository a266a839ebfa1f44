package fsrs

// Weights is the FSRS parameter vector. The indices follow the published
// numbering: w0..w3 initial stability per rating, w4..w7 difficulty
// initialisation and mean reversion, w8..w10 recall stability growth,
// w11..w14 post-lapse stability, w15 hard penalty, w16 easy bonus,
// w17..w18 short-term terms (unused by this scheduler).
type Weights [19]float64

// DefaultWeights returns the published FSRS-4.5 default parameter vector.
// These are tuned constants from the reference model, not values to guess
// at; deviating changes long-term scheduling quality.
func DefaultWeights() Weights {
	return Weights{
		0.4072, 1.1829, 3.1262, 15.4722, 7.2102,
		0.5316, 1.0651, 0.0234, 1.616, 0.1544,
		1.0824, 1.9813, 0.0953, 0.2975, 2.2042,
		0.2407, 2.9466, 0.5034, 0.6567,
	}
}

// Constants of the FSRS-4.5 forgetting curve R(t) = (1 + factor*t/S)^decay.
// The factor is chosen so that R(S) equals 0.9 exactly: stability is the
// number of days for recall probability to decay to 90%.
const (
	decay  = -0.5
	factor = 19.0 / 81.0
)

// Params configures the scheduler built on top of the weight vector.
type Params struct {
	Weights Weights

	// DesiredRetention is the recall probability targeted when converting
	// stability into the next interval. Typical value 0.9.
	DesiredRetention float64

	// MaximumInterval caps the computed interval, in days.
	MaximumInterval int

	// Learning-step delays, in minutes, for cards that have not graduated
	// to day-scale intervals yet.
	AgainStepMinutes   int // failed card, immediate re-drill
	HardStepMinutes    int // hard answer repeats the learning step
	RelearnStepMinutes int // lapsed review card re-enters in this many minutes
}

// DefaultParams returns the standard scheduler configuration: published
// FSRS-4.5 weights, 90% target retention, and Anki-style learning steps.
func DefaultParams() Params {
	return Params{
		Weights:            DefaultWeights(),
		DesiredRetention:   0.9,
		MaximumInterval:    36500,
		AgainStepMinutes:   1,
		HardStepMinutes:    5,
		RelearnStepMinutes: 10,
	}
}
