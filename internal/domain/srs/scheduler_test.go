package srs

import (
	"testing"
	"time"

	"github.com/mnemohq/mnemo-api/internal/domain"
)

func TestNextNewCardGoodGrade(t *testing.T) {
	t.Parallel()
	scheduler := NewScheduler()
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	result, err := scheduler.Next(domain.NewReviewState(), domain.GradeGood, now)
	if err != nil {
		t.Fatalf("Next returned unexpected error: %v", err)
	}

	if result.Repetitions != 1 {
		t.Errorf("Expected repetitions 1, got %d", result.Repetitions)
	}
	if result.IntervalDays != 1 {
		t.Errorf("Expected interval 1, got %d", result.IntervalDays)
	}
	// The ease formula yields exactly 0 adjustment for grade 4.
	if result.Ease != 2.5 {
		t.Errorf("Expected ease to stay at 2.5, got %f", result.Ease)
	}
	if expected := now.Add(24 * time.Hour); !result.DueAt.Equal(expected) {
		t.Errorf("Expected due at %v, got %v", expected, result.DueAt)
	}
}

func TestNextNewCardAgainGrade(t *testing.T) {
	t.Parallel()
	scheduler := NewScheduler()
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	result, err := scheduler.Next(domain.NewReviewState(), domain.GradeAgain, now)
	if err != nil {
		t.Fatalf("Next returned unexpected error: %v", err)
	}

	if result.Repetitions != 0 {
		t.Errorf("Expected repetitions 0, got %d", result.Repetitions)
	}
	if result.IntervalDays != 0 {
		t.Errorf("Expected interval 0, got %d", result.IntervalDays)
	}
	if expected := now.Add(10 * time.Minute); !result.DueAt.Equal(expected) {
		t.Errorf("Expected due at %v, got %v", expected, result.DueAt)
	}
}

func TestNextMatureCardEasyGrade(t *testing.T) {
	t.Parallel()
	scheduler := NewScheduler()
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	state := domain.ReviewState{IntervalDays: 6, Ease: 2.5, Repetitions: 2}
	result, err := scheduler.Next(state, domain.GradeEasy, now)
	if err != nil {
		t.Fatalf("Next returned unexpected error: %v", err)
	}

	// newEase = 2.5 + (0.1 - 0*(0.08+0)) = 2.6
	if result.Ease != 2.6 {
		t.Errorf("Expected ease 2.6, got %f", result.Ease)
	}
	if result.Repetitions != 3 {
		t.Errorf("Expected repetitions 3, got %d", result.Repetitions)
	}
	// round(6 * 2.6) = 16
	if result.IntervalDays != 16 {
		t.Errorf("Expected interval 16, got %d", result.IntervalDays)
	}
	if expected := now.Add(16 * 24 * time.Hour); !result.DueAt.Equal(expected) {
		t.Errorf("Expected due at %v, got %v", expected, result.DueAt)
	}
}

func TestNextFailingGrades(t *testing.T) {
	t.Parallel()
	scheduler := NewScheduler()
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	testCases := []struct {
		name          string
		grade         domain.Grade
		expectedDelay time.Duration
	}{
		{
			name:          "Blackout comes back in 10 minutes",
			grade:         domain.GradeBlackout,
			expectedDelay: 10 * time.Minute,
		},
		{
			name:          "Again comes back in 10 minutes",
			grade:         domain.GradeAgain,
			expectedDelay: 10 * time.Minute,
		},
		{
			name:          "Recalled comes back in 30 minutes",
			grade:         domain.GradeRecalled,
			expectedDelay: 30 * time.Minute,
		},
	}

	state := domain.ReviewState{IntervalDays: 12, Ease: 2.1, Repetitions: 4}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			result, err := scheduler.Next(state, tc.grade, now)
			if err != nil {
				t.Fatalf("Next returned unexpected error: %v", err)
			}

			if result.Repetitions != 0 {
				t.Errorf("Expected repetitions to reset to 0, got %d", result.Repetitions)
			}
			if result.IntervalDays != 0 {
				t.Errorf("Expected interval to reset to 0, got %d", result.IntervalDays)
			}
			if expected := now.Add(tc.expectedDelay); !result.DueAt.Equal(expected) {
				t.Errorf("Expected due at %v, got %v", expected, result.DueAt)
			}
		})
	}
}

func TestNextEaseUpdatesOnFailure(t *testing.T) {
	t.Parallel()
	scheduler := NewScheduler()
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	// The ease formula runs for failing grades too; a grade of 1 applies
	// 0.1 - 4*(0.08 + 4*0.02) = -0.54.
	state := domain.ReviewState{IntervalDays: 12, Ease: 2.5, Repetitions: 4}
	result, err := scheduler.Next(state, domain.GradeAgain, now)
	if err != nil {
		t.Fatalf("Next returned unexpected error: %v", err)
	}

	if result.Ease != 1.96 {
		t.Errorf("Expected ease 1.96, got %f", result.Ease)
	}
}

func TestNextEaseNeverBelowFloor(t *testing.T) {
	t.Parallel()
	scheduler := NewScheduler()
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	for grade := domain.GradeBlackout; grade <= domain.GradeEasy; grade++ {
		state := domain.ReviewState{IntervalDays: 0, Ease: domain.MinEase, Repetitions: 0}
		result, err := scheduler.Next(state, grade, now)
		if err != nil {
			t.Fatalf("Next returned unexpected error for grade %d: %v", grade, err)
		}

		if result.Ease < domain.MinEase {
			t.Errorf("Grade %d produced ease %f below floor %f", grade, result.Ease, domain.MinEase)
		}
	}
}

func TestNextPassIncrementsRepetitions(t *testing.T) {
	t.Parallel()
	scheduler := NewScheduler()
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	state := domain.ReviewState{IntervalDays: 6, Ease: 1.8, Repetitions: 2}
	for grade := domain.GradeHard; grade <= domain.GradeEasy; grade++ {
		result, err := scheduler.Next(state, grade, now)
		if err != nil {
			t.Fatalf("Next returned unexpected error for grade %d: %v", grade, err)
		}

		if result.Repetitions != state.Repetitions+1 {
			t.Errorf("Grade %d: expected repetitions %d, got %d",
				grade, state.Repetitions+1, result.Repetitions)
		}
	}
}

func TestNextSecondPassUsesFixedInterval(t *testing.T) {
	t.Parallel()
	scheduler := NewScheduler()
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	state := domain.ReviewState{IntervalDays: 1, Ease: 2.5, Repetitions: 1}
	result, err := scheduler.Next(state, domain.GradeGood, now)
	if err != nil {
		t.Fatalf("Next returned unexpected error: %v", err)
	}

	if result.IntervalDays != 6 {
		t.Errorf("Expected second-pass interval 6, got %d", result.IntervalDays)
	}
}

func TestNextIntervalFlooredAtOneDay(t *testing.T) {
	t.Parallel()
	scheduler := NewScheduler()
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	// A card that lapsed and then passed twice can reach repetitions >= 2
	// with interval 0 never happening, but a degenerate stored row with a
	// tiny interval must still schedule at least a day out.
	state := domain.ReviewState{IntervalDays: 0, Ease: 1.3, Repetitions: 5}
	result, err := scheduler.Next(state, domain.GradeHard, now)
	if err != nil {
		t.Fatalf("Next returned unexpected error: %v", err)
	}

	if result.IntervalDays != 1 {
		t.Errorf("Expected interval floored at 1, got %d", result.IntervalDays)
	}
}

func TestNextRejectsOutOfRangeGrades(t *testing.T) {
	t.Parallel()
	scheduler := NewScheduler()
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	for _, grade := range []domain.Grade{-1, 6, 42} {
		_, err := scheduler.Next(domain.NewReviewState(), grade, now)
		if err != domain.ErrInvalidGrade {
			t.Errorf("Grade %d: expected ErrInvalidGrade, got %v", grade, err)
		}
	}
}

func TestNextDoesNotMutateState(t *testing.T) {
	t.Parallel()
	scheduler := NewScheduler()
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	state := domain.ReviewState{IntervalDays: 6, Ease: 2.5, Repetitions: 2}
	before := state

	if _, err := scheduler.Next(state, domain.GradeEasy, now); err != nil {
		t.Fatalf("Next returned unexpected error: %v", err)
	}

	if state != before {
		t.Errorf("Expected state to be unchanged, got %+v (was %+v)", state, before)
	}
}
