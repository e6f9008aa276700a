package srs

import (
	"math"
	"time"

	"github.com/mnemohq/mnemo-api/internal/domain"
)

// Scheduler computes the next review state for a card from its current state
// and a recall grade. It is stateless apart from its parameter set.
type Scheduler struct {
	params Params
}

// NewScheduler creates a Scheduler with the default SM-2 parameters.
func NewScheduler() *Scheduler {
	return NewSchedulerWithParams(DefaultParams())
}

// NewSchedulerWithParams creates a Scheduler with a custom parameter set.
func NewSchedulerWithParams(params Params) *Scheduler {
	return &Scheduler{params: params}
}

// Next computes the scheduling step for one review: given the card's current
// memory state and the grade the reviewer submitted, it returns the new
// interval, ease, repetition count and absolute due timestamp. Deterministic
// given now; never mutates state.
//
// Grades outside 0-5 are a caller contract violation and are rejected with
// domain.ErrInvalidGrade before any computation.
func (s *Scheduler) Next(
	state domain.ReviewState,
	grade domain.Grade,
	now time.Time,
) (domain.ReviewResult, error) {
	if !grade.IsValid() {
		return domain.ReviewResult{}, domain.ErrInvalidGrade
	}

	// The ease update runs for every grade, failing ones included. Classic
	// SM-2 implementations often freeze ease on failure; this scheduler
	// deliberately keeps the formula's behavior for compatibility with the
	// review histories it inherited.
	ease := nextEase(state.Ease, grade, s.params.MinEase)

	result := domain.ReviewResult{
		Ease: math.Round(ease*100) / 100,
	}

	if !grade.Passed() {
		result.Repetitions = 0
		result.IntervalDays = 0
		result.DueAt = now.Add(s.failureDelay(grade))
		return result, nil
	}

	result.Repetitions = state.Repetitions + 1
	result.IntervalDays = s.nextInterval(state.IntervalDays, result.Repetitions, ease)
	result.DueAt = now.Add(time.Duration(result.IntervalDays) * 24 * time.Hour)

	return result, nil
}

// nextEase applies the SM-2 ease formula and clamps the result to the floor.
//
//	EF' = EF + (0.1 - (5-q) * (0.08 + (5-q)*0.02))
func nextEase(ease float64, grade domain.Grade, minEase float64) float64 {
	q := float64(grade)
	next := ease + (0.1 - (5-q)*(0.08+(5-q)*0.02))
	if next < minEase {
		next = minEase
	}
	return next
}

// nextInterval determines the day-granularity interval for a passed review.
// The first two passes use fixed intervals; afterwards the previous interval
// grows by the unrounded ease, floored at one day.
func (s *Scheduler) nextInterval(currentDays, repetitions int, ease float64) int {
	switch repetitions {
	case 1:
		return s.params.FirstInterval
	case 2:
		return s.params.SecondInterval
	}

	days := int(math.Round(float64(currentDays) * ease))
	if days < 1 {
		days = 1
	}
	return days
}

// failureDelay returns the short re-review offset for a failing grade.
func (s *Scheduler) failureDelay(grade domain.Grade) time.Duration {
	if grade <= domain.GradeAgain {
		return s.params.BlackoutDelay
	}
	return s.params.RecalledDelay
}
