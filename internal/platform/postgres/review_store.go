package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/mnemohq/mnemo-api/internal/domain"
	"github.com/mnemohq/mnemo-api/internal/store"
)

// ReviewStore implements the store.ReviewStore interface
// using a PostgreSQL database as the storage backend.
type ReviewStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewReviewStore creates a new PostgreSQL implementation of the ReviewStore
// interface. It accepts a database connection or transaction that should be
// initialized and managed by the caller.
func NewReviewStore(db store.DBTX, logger *slog.Logger) *ReviewStore {
	if db == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &ReviewStore{
		db:     db,
		logger: logger.With(slog.String("component", "review_store")),
	}
}

// Ensure ReviewStore implements store.ReviewStore interface
var _ store.ReviewStore = (*ReviewStore)(nil)

// RecordOutcome implements store.ReviewStore.RecordOutcome.
//
// The scheduling state upsert and the log append should run in a single
// transaction; callers wrap this method with store.RunInTransaction and a
// WithTx-bound store. A retried call after a failure re-applies the same
// state and appends a second log row for the same reviewed_at, which the
// log's primary key tolerates.
func (s *ReviewStore) RecordOutcome(
	ctx context.Context,
	userID, cardID uuid.UUID,
	result domain.ReviewResult,
	grade domain.Grade,
) error {
	if !grade.IsValid() {
		return fmt.Errorf("%w: %w", store.ErrInvalidEntity, domain.ErrInvalidGrade)
	}

	const upsertState = `
		INSERT INTO review_states
			(user_id, card_id, interval_days, ease, repetitions, due_at,
			 review_count, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, 1, NOW(), NOW())
		ON CONFLICT (user_id, card_id) DO UPDATE SET
			interval_days = EXCLUDED.interval_days,
			ease          = EXCLUDED.ease,
			repetitions   = EXCLUDED.repetitions,
			due_at        = EXCLUDED.due_at,
			review_count  = review_states.review_count + 1,
			updated_at    = NOW()`

	_, err := s.db.ExecContext(ctx, upsertState,
		userID, cardID, result.IntervalDays, result.Ease, result.Repetitions, result.DueAt)
	if err != nil {
		return fmt.Errorf("failed to upsert review state: %w", err)
	}

	const appendLog = `
		INSERT INTO review_logs
			(id, user_id, card_id, grade, interval_days, ease, due_at, reviewed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())`

	_, err = s.db.ExecContext(ctx, appendLog,
		uuid.New(), userID, cardID, int(grade),
		result.IntervalDays, result.Ease, result.DueAt)
	if err != nil {
		return fmt.Errorf("failed to append review log: %w", err)
	}

	s.logger.Debug("recorded review outcome",
		slog.String("user_id", userID.String()),
		slog.String("card_id", cardID.String()),
		slog.Int("grade", int(grade)),
		slog.Int("interval_days", result.IntervalDays))

	return nil
}

// GetState implements store.ReviewStore.GetState.
func (s *ReviewStore) GetState(
	ctx context.Context,
	userID, cardID uuid.UUID,
) (*domain.ReviewState, error) {
	const query = `
		SELECT interval_days, ease, repetitions
		FROM review_states
		WHERE user_id = $1 AND card_id = $2`

	var state domain.ReviewState
	err := s.db.QueryRowContext(ctx, query, userID, cardID).
		Scan(&state.IntervalDays, &state.Ease, &state.Repetitions)
	if err != nil {
		return nil, mapRowError(err, store.ErrReviewStateNotFound)
	}

	return &state, nil
}

// WithTx implements store.ReviewStore.WithTx.
func (s *ReviewStore) WithTx(tx *sql.Tx) store.ReviewStore {
	return &ReviewStore{
		db:     tx,
		logger: s.logger,
	}
}
