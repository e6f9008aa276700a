package domain

import (
	"errors"
	"time"
)

// Grade is a recall-quality signal on the 0-5 SM-2 scale.
//
// Grades 0-2 count as failed reviews, grades 3-5 as passed. The review UI
// only ever submits 1 ("again"), 3 ("hard"), 4 ("good") and 5 ("easy");
// 0 and 2 belong to the algorithm's domain but are not user-reachable.
type Grade int

// Possible grade values.
const (
	GradeBlackout Grade = 0 // complete blackout
	GradeAgain    Grade = 1 // incorrect, remembered on seeing the answer
	GradeRecalled Grade = 2 // incorrect, but the answer was easy to recall
	GradeHard     Grade = 3 // correct with serious difficulty
	GradeGood     Grade = 4 // correct with hesitation
	GradeEasy     Grade = 5 // perfect recall
)

// IsValid reports whether the grade is within the 0-5 scale.
func (g Grade) IsValid() bool {
	return g >= GradeBlackout && g <= GradeEasy
}

// Passed reports whether the grade counts as a successful recall.
func (g Grade) Passed() bool {
	return g >= GradeHard
}

// ReviewOutcome represents the grade button a reviewer pressed.
type ReviewOutcome string

// Possible review outcome values.
const (
	ReviewOutcomeAgain ReviewOutcome = "again"
	ReviewOutcomeHard  ReviewOutcome = "hard"
	ReviewOutcomeGood  ReviewOutcome = "good"
	ReviewOutcomeEasy  ReviewOutcome = "easy"
)

// outcomeGrades maps the user-reachable outcome labels onto the 0-5 scale.
var outcomeGrades = map[ReviewOutcome]Grade{
	ReviewOutcomeAgain: GradeAgain,
	ReviewOutcomeHard:  GradeHard,
	ReviewOutcomeGood:  GradeGood,
	ReviewOutcomeEasy:  GradeEasy,
}

// Grade returns the numeric grade for the outcome label.
// Returns ErrInvalidReviewOutcome for unknown labels.
func (o ReviewOutcome) Grade() (Grade, error) {
	g, ok := outcomeGrades[o]
	if !ok {
		return 0, ErrInvalidReviewOutcome
	}
	return g, nil
}

// ReviewOutcomes lists the user-reachable outcome labels in grading order.
func ReviewOutcomes() []ReviewOutcome {
	return []ReviewOutcome{
		ReviewOutcomeAgain,
		ReviewOutcomeHard,
		ReviewOutcomeGood,
		ReviewOutcomeEasy,
	}
}

// Validation errors for ReviewState.
var (
	ErrNegativeInterval    = errors.New("interval days must be greater than or equal to 0")
	ErrEaseBelowMinimum    = errors.New("ease must be at least 1.3")
	ErrNegativeRepetitions = errors.New("repetitions must be greater than or equal to 0")
	ErrUnscheduledInterval = errors.New("interval days must be 0 when repetitions is 0")
)

// MinEase is the floor the ease multiplier is clamped to.
const MinEase = 1.3

// InitialEase is the ease assigned to a card that has never been reviewed.
const InitialEase = 2.5

// ReviewState is the per-card scheduling memory the scheduler operates on.
//
// IntervalDays is the number of days until the next scheduled review after
// the last pass; 0 means the card is new or just failed and is not yet
// scheduled on a day granularity. Repetitions counts consecutive passed
// reviews and resets to 0 on any failure.
type ReviewState struct {
	IntervalDays int     `json:"interval_days"`
	Ease         float64 `json:"ease"`
	Repetitions  int     `json:"repetitions"`
}

// NewReviewState returns the default state for a never-reviewed card.
func NewReviewState() ReviewState {
	return ReviewState{
		IntervalDays: 0,
		Ease:         InitialEase,
		Repetitions:  0,
	}
}

// Validate checks the ReviewState invariants.
// Returns an error if any field is outside its legal range.
func (s ReviewState) Validate() error {
	if s.IntervalDays < 0 {
		return ErrNegativeInterval
	}

	if s.Ease < MinEase {
		return ErrEaseBelowMinimum
	}

	if s.Repetitions < 0 {
		return ErrNegativeRepetitions
	}

	// A day-granularity interval is only meaningful once the card has passed
	// at least once since its last failure.
	if s.Repetitions == 0 && s.IntervalDays != 0 {
		return ErrUnscheduledInterval
	}

	return nil
}

// ReviewResult is the output of one scheduling step.
type ReviewResult struct {
	IntervalDays int       `json:"interval_days"`
	Ease         float64   `json:"ease"` // rounded to 2 decimal places
	Repetitions  int       `json:"repetitions"`
	DueAt        time.Time `json:"due_at"`
}

// State returns the ReviewResult's scheduling memory as a ReviewState,
// dropping the due timestamp.
func (r ReviewResult) State() ReviewState {
	return ReviewState{
		IntervalDays: r.IntervalDays,
		Ease:         r.Ease,
		Repetitions:  r.Repetitions,
	}
}
