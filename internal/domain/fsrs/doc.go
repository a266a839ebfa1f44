// Package fsrs implements the forgetting-curve memory model used for
// scheduling reviews. It follows the FSRS-4.5 formulation: each card
// carries a stability (days for recall probability to decay to 90%) and a
// difficulty (intrinsic resistance to consolidation, 1-10), updated per
// review, with the next due date computed by inverting the power
// forgetting curve at the configured target retention.
package fsrs
