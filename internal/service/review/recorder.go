package review

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/mnemohq/mnemo-api/internal/domain"
	"github.com/mnemohq/mnemo-api/internal/session"
	"github.com/mnemohq/mnemo-api/internal/store"
)

// OutcomeRecorder persists one user's graded review outcome atomically.
type OutcomeRecorder interface {
	RecordOutcome(
		ctx context.Context,
		userID, cardID uuid.UUID,
		result domain.ReviewResult,
		grade domain.Grade,
	) error
}

// TxOutcomeRecorder writes outcomes through a ReviewStore inside a database
// transaction, so the state upsert and the log append land together.
type TxOutcomeRecorder struct {
	db          *sql.DB
	reviewStore store.ReviewStore
}

// NewTxOutcomeRecorder creates a transactional OutcomeRecorder.
func NewTxOutcomeRecorder(db *sql.DB, reviewStore store.ReviewStore) *TxOutcomeRecorder {
	if db == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("db cannot be nil")
	}
	if reviewStore == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("reviewStore cannot be nil")
	}

	return &TxOutcomeRecorder{db: db, reviewStore: reviewStore}
}

// Ensure TxOutcomeRecorder implements OutcomeRecorder
var _ OutcomeRecorder = (*TxOutcomeRecorder)(nil)

// RecordOutcome implements OutcomeRecorder.
func (r *TxOutcomeRecorder) RecordOutcome(
	ctx context.Context,
	userID, cardID uuid.UUID,
	result domain.ReviewResult,
	grade domain.Grade,
) error {
	return store.RunInTransaction(ctx, r.db, func(ctx context.Context, tx *sql.Tx) error {
		return r.reviewStore.WithTx(tx).RecordOutcome(ctx, userID, cardID, result, grade)
	})
}

// userRecorder adapts an OutcomeRecorder to the session.Recorder interface
// by binding the session owner's user ID.
type userRecorder struct {
	recorder OutcomeRecorder
	userID   uuid.UUID
}

// Ensure userRecorder implements session.Recorder
var _ session.Recorder = (*userRecorder)(nil)

func (r *userRecorder) RecordOutcome(
	ctx context.Context,
	cardID uuid.UUID,
	result domain.ReviewResult,
	grade domain.Grade,
) error {
	return r.recorder.RecordOutcome(ctx, r.userID, cardID, result, grade)
}
