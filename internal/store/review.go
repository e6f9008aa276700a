package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/mnemohq/mnemo-api/internal/domain"
)

// ReviewStore defines the interface for persisting review outcomes.
type ReviewStore interface {
	// RecordOutcome durably records one graded review: it upserts the
	// card's scheduling state and appends an entry to the review log.
	// The write is idempotent-safe to retry; a session controller does not
	// advance past a card until a call succeeds.
	RecordOutcome(
		ctx context.Context,
		userID, cardID uuid.UUID,
		result domain.ReviewResult,
		grade domain.Grade,
	) error

	// GetState retrieves the stored scheduling state for a user/card pair.
	// Returns ErrReviewStateNotFound if the card has never been reviewed.
	GetState(ctx context.Context, userID, cardID uuid.UUID) (*domain.ReviewState, error)

	// WithTx returns a new ReviewStore instance that uses the provided transaction.
	WithTx(tx *sql.Tx) ReviewStore
}
