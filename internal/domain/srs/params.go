// Package srs implements the SM-2 style spaced-repetition scheduler and the
// grade-preview generator built on top of it. Both are pure: they never touch
// the wall clock or mutate their inputs, so they are safe to call concurrently
// from any number of sessions.
package srs

import (
	"time"

	"github.com/mnemohq/mnemo-api/internal/domain"
)

// Params defines all configurable parameters for the scheduling algorithm.
// The defaults reproduce the classic SM-2 constants; they are collected here
// so the numeric policy lives in one declared place instead of inline literals.
type Params struct {
	// MinEase is the floor the ease multiplier is clamped to after every update.
	MinEase float64

	// InitialEase seeds cards that have never been reviewed.
	InitialEase float64

	// FirstInterval and SecondInterval are the fixed intervals, in days, for
	// the first and second consecutive pass. From the third pass on the
	// interval grows by the ease multiplier.
	FirstInterval  int
	SecondInterval int

	// BlackoutDelay is how long after a grade of 0 or 1 the card comes back.
	BlackoutDelay time.Duration

	// RecalledDelay is how long after a grade of 2 the card comes back.
	RecalledDelay time.Duration
}

// DefaultParams returns the standard SM-2 parameter set.
func DefaultParams() Params {
	return Params{
		MinEase:        domain.MinEase,
		InitialEase:    domain.InitialEase,
		FirstInterval:  1,
		SecondInterval: 6,
		BlackoutDelay:  10 * time.Minute,
		RecalledDelay:  30 * time.Minute,
	}
}
