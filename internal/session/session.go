// Package session implements the review session controller: an ordered walk
// over a fixed sequence of due cards with a flip/reveal protocol, grade
// submission through the scheduler, and completion tracking.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/mnemohq/mnemo-api/internal/domain"
	"github.com/mnemohq/mnemo-api/internal/domain/srs"
)

// Common session errors.
var (
	// ErrEmptySession is returned when a controller is constructed with no cards.
	ErrEmptySession = errors.New("session requires at least one card")

	// ErrSessionComplete is returned when flip or grade is called after the
	// last card has been graded.
	ErrSessionComplete = errors.New("session is complete")

	// ErrCardNotFlipped is returned when a grade is submitted before the
	// current card's answer has been revealed.
	ErrCardNotFlipped = errors.New("card must be flipped before grading")

	// ErrSubmissionInFlight is returned when a grade is submitted while a
	// previous submission for the same card has not yet resolved.
	ErrSubmissionInFlight = errors.New("grade submission already in flight")
)

// Recorder persists the outcome of one graded review. A Recorder must be
// safe to retry: the controller does not advance past a card until a call
// succeeds, so a failed write may be re-issued with the same arguments.
type Recorder interface {
	RecordOutcome(
		ctx context.Context,
		cardID uuid.UUID,
		result domain.ReviewResult,
		grade domain.Grade,
	) error
}

// Controller drives a user through a fixed sequence of cards.
//
// The card list is captured at construction and never re-fetched or
// reordered. Exactly one card is current at a time; the submitting guard
// makes the window between issuing a persistence write and receiving its
// result a critical section for grade re-entry, while read-only observers
// (progress, previews) stay callable throughout.
type Controller struct {
	cards     []domain.Card
	scheduler *srs.Scheduler
	recorder  Recorder
	logger    *slog.Logger
	now       func() time.Time

	mu         sync.Mutex
	index      int
	flipped    bool
	completed  int
	submitting bool
}

// Option customizes a Controller at construction.
type Option func(*Controller)

// WithClock overrides the controller's time source. Used by tests and by
// callers that need deterministic scheduling.
func WithClock(now func() time.Time) Option {
	return func(c *Controller) {
		c.now = now
	}
}

// WithScheduler overrides the default scheduler, e.g. to supply custom
// algorithm parameters.
func WithScheduler(scheduler *srs.Scheduler) Option {
	return func(c *Controller) {
		c.scheduler = scheduler
	}
}

// New creates a session controller over the given card sequence.
// Returns ErrEmptySession if the sequence is empty.
func New(
	cards []domain.Card,
	recorder Recorder,
	logger *slog.Logger,
	opts ...Option,
) (*Controller, error) {
	if len(cards) == 0 {
		return nil, ErrEmptySession
	}
	if recorder == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("recorder cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	c := &Controller{
		cards:     append([]domain.Card(nil), cards...),
		scheduler: srs.NewScheduler(),
		recorder:  recorder,
		logger:    logger.With(slog.String("component", "review_session")),
		now:       func() time.Time { return time.Now().UTC() },
	}

	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// Flip reveals the current card's answer. It is a no-op if the card is
// already flipped or the session is complete.
func (c *Controller) Flip() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.index >= len(c.cards) {
		return
	}
	c.flipped = true
}

// Grade submits a recall grade for the current card. The card must have been
// flipped first. On success the outcome is durably recorded, the completed
// count advances, and the session moves to the next card (or completes).
//
// A failed persistence write leaves the session on the same card with the
// answer still revealed, so the caller may retry the same grade. Duplicate
// submissions while a write is in flight are rejected with
// ErrSubmissionInFlight before any scheduling computation occurs.
func (c *Controller) Grade(ctx context.Context, grade domain.Grade) (domain.ReviewResult, error) {
	c.mu.Lock()
	if c.index >= len(c.cards) {
		c.mu.Unlock()
		return domain.ReviewResult{}, ErrSessionComplete
	}
	if !c.flipped {
		c.mu.Unlock()
		return domain.ReviewResult{}, ErrCardNotFlipped
	}
	if c.submitting {
		c.mu.Unlock()
		return domain.ReviewResult{}, ErrSubmissionInFlight
	}
	card := c.cards[c.index]
	c.submitting = true
	c.mu.Unlock()

	result, err := c.scheduler.Next(card.StartingState(), grade, c.now())
	if err != nil {
		c.endSubmission()
		return domain.ReviewResult{}, err
	}

	if err := c.recorder.RecordOutcome(ctx, card.ID, result, grade); err != nil {
		c.endSubmission()
		c.logger.Warn("failed to record review outcome",
			slog.String("card_id", card.ID.String()),
			slog.Int("grade", int(grade)),
			slog.String("error", err.Error()))
		return domain.ReviewResult{}, fmt.Errorf("failed to record review outcome: %w", err)
	}

	c.mu.Lock()
	c.completed++
	c.index++
	c.flipped = false
	c.submitting = false
	done := c.index >= len(c.cards)
	c.mu.Unlock()

	c.logger.Debug("graded card",
		slog.String("card_id", card.ID.String()),
		slog.Int("grade", int(grade)),
		slog.Int("interval_days", result.IntervalDays),
		slog.Float64("ease", result.Ease),
		slog.Bool("session_complete", done))

	return result, nil
}

// endSubmission reverts the controller to the flipped, gradeable state after
// a failed submission.
func (c *Controller) endSubmission() {
	c.mu.Lock()
	c.submitting = false
	c.mu.Unlock()
}

// Reset restarts the walk from the first card and zeroes the completed
// count. Already-persisted outcomes are untouched; a reset is not an undo.
// Returns ErrSubmissionInFlight if a grade submission has not yet resolved.
func (c *Controller) Reset() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.submitting {
		return ErrSubmissionInFlight
	}

	c.index = 0
	c.flipped = false
	c.completed = 0
	return nil
}

// CurrentCard returns the card currently being reviewed.
// The second return value is false once the session is complete.
func (c *Controller) CurrentCard() (domain.Card, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.index >= len(c.cards) {
		return domain.Card{}, false
	}
	return c.cards[c.index], true
}

// Flipped reports whether the current card's answer is revealed.
func (c *Controller) Flipped() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.flipped
}

// IsComplete reports whether every card in the sequence has been graded.
func (c *Controller) IsComplete() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.index >= len(c.cards)
}

// Completed returns how many cards have been graded so far.
func (c *Controller) Completed() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.completed
}

// Len returns the fixed length of the card sequence.
func (c *Controller) Len() int {
	return len(c.cards)
}

// Progress returns the percentage of the session completed, 0-100.
func (c *Controller) Progress() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.cards) == 0 {
		return 0
	}
	return float64(c.completed) / float64(len(c.cards)) * 100
}

// GradePreviews returns the "time until due" label for each grade button,
// computed from the current card's state without persisting anything.
// Returns ErrSessionComplete once there is no current card.
func (c *Controller) GradePreviews() (map[domain.ReviewOutcome]string, error) {
	c.mu.Lock()
	if c.index >= len(c.cards) {
		c.mu.Unlock()
		return nil, ErrSessionComplete
	}
	card := c.cards[c.index]
	c.mu.Unlock()

	return c.scheduler.Previews(card.StartingState(), c.now())
}
