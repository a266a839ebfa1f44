// Package domain contains the core entities of the vocabulary trainer:
// words, per-word memory cards, review ratings and logs, study settings,
// and session statistics. Domain types carry their own validation but no
// persistence or scheduling logic.
package domain
