package models

import "errors"

// Custom errors
var (
	// ErrMissingHistory marks a row whose trailing window is not yet
	// satisfied. Such rows are excluded, never back-filled.
	ErrMissingHistory = errors.New("insufficient trailing history for required window")

	// ErrUnresolvedOpponent marks a quote whose player's current team matches
	// neither listed team (trade or name mismatch). The row is excluded
	// rather than guessed.
	ErrUnresolvedOpponent = errors.New("player team matches neither quoted team")

	// ErrIncompleteQuote marks a quote missing a side's odds or its line.
	ErrIncompleteQuote = errors.New("market quote missing line or one side's odds")

	// ErrNoEligibleCandidates is the run-level condition for a run that
	// produced zero scoreable rows. Distinct from a slate with zero edge.
	ErrNoEligibleCandidates = errors.New("no eligible candidates after upstream filters")

	ErrMalformedMatchup = errors.New("matchup string is neither home (vs.) nor away (@) format")
	ErrNotFound         = errors.New("record not found")
	ErrDuplicateKey     = errors.New("duplicate key violation")
)
