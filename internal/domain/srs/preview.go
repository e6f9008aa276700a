package srs

import (
	"fmt"
	"math"
	"time"

	"github.com/mnemohq/mnemo-api/internal/domain"
)

// Day-threshold boundaries for the compact duration labels.
const (
	hoursPerDay  = 24
	daysPerMonth = 30
	daysPerYear  = 365
)

// Previews computes, for each grade button the review UI offers, the
// human-readable "time until due" label that pressing it would yield.
// Nothing is persisted; this is safe to call on every render for live
// button labels.
func (s *Scheduler) Previews(
	state domain.ReviewState,
	now time.Time,
) (map[domain.ReviewOutcome]string, error) {
	previews := make(map[domain.ReviewOutcome]string, 4)

	for _, outcome := range domain.ReviewOutcomes() {
		grade, err := outcome.Grade()
		if err != nil {
			return nil, err
		}

		result, err := s.Next(state, grade, now)
		if err != nil {
			return nil, err
		}

		previews[outcome] = formatDueIn(result.DueAt.Sub(now))
	}

	return previews, nil
}

// formatDueIn renders a due offset as a compact label: "10m", "3h", "1d",
// "16d", "2mo", "1y".
func formatDueIn(d time.Duration) string {
	if d < time.Hour {
		return fmt.Sprintf("%dm", int(math.Round(d.Minutes())))
	}

	if d < hoursPerDay*time.Hour {
		return fmt.Sprintf("%dh", int(math.Round(d.Hours())))
	}

	days := int(math.Round(d.Hours() / hoursPerDay))
	switch {
	case days <= 1:
		return "1d"
	case days < daysPerMonth:
		return fmt.Sprintf("%dd", days)
	case days < daysPerYear:
		return fmt.Sprintf("%dmo", int(math.Round(float64(days)/daysPerMonth)))
	default:
		return fmt.Sprintf("%dy", int(math.Round(float64(days)/daysPerYear)))
	}
}
