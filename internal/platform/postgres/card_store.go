package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/mnemohq/mnemo-api/internal/domain"
	"github.com/mnemohq/mnemo-api/internal/store"
)

// CardStore implements the store.CardStore interface
// using a PostgreSQL database as the storage backend.
type CardStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewCardStore creates a new PostgreSQL implementation of the CardStore
// interface. It accepts a database connection or transaction that should be
// initialized and managed by the caller.
func NewCardStore(db store.DBTX, logger *slog.Logger) *CardStore {
	if db == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &CardStore{
		db:     db,
		logger: logger.With(slog.String("component", "card_store")),
	}
}

// Ensure CardStore implements store.CardStore interface
var _ store.CardStore = (*CardStore)(nil)

// Create implements store.CardStore.Create.
func (s *CardStore) Create(ctx context.Context, card *domain.Card) error {
	if err := card.Validate(); err != nil {
		return fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}

	const query = `
		INSERT INTO cards (id, user_id, front, back, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := s.db.ExecContext(ctx, query,
		card.ID, card.UserID, card.Front, card.Back, card.CreatedAt, card.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert card: %w", err)
	}

	return nil
}

// GetByID implements store.CardStore.GetByID.
// The card's review state is attached when one has been recorded.
func (s *CardStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Card, error) {
	const query = `
		SELECT c.id, c.user_id, c.front, c.back, c.created_at, c.updated_at,
		       rs.interval_days, rs.ease, rs.repetitions
		FROM cards c
		LEFT JOIN review_states rs ON rs.card_id = c.id AND rs.user_id = c.user_id
		WHERE c.id = $1`

	card, err := scanCard(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, mapRowError(err, store.ErrCardNotFound)
	}
	return card, nil
}

// FetchSessionCards implements store.CardStore.FetchSessionCards.
// Never-reviewed cards sort first, then stored states by ascending due time;
// ties break on creation time so the order is stable across fetches.
func (s *CardStore) FetchSessionCards(
	ctx context.Context,
	userID uuid.UUID,
	now time.Time,
	limit int,
) ([]domain.Card, error) {
	const query = `
		SELECT c.id, c.user_id, c.front, c.back, c.created_at, c.updated_at,
		       rs.interval_days, rs.ease, rs.repetitions
		FROM cards c
		LEFT JOIN review_states rs ON rs.card_id = c.id AND rs.user_id = c.user_id
		WHERE c.user_id = $1
		  AND (rs.due_at IS NULL OR rs.due_at <= $2)
		ORDER BY rs.due_at ASC NULLS FIRST, c.created_at ASC
		LIMIT $3`

	rows, err := s.db.QueryContext(ctx, query, userID, now, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query session cards: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			s.logger.Warn("failed to close rows", slog.String("error", closeErr.Error()))
		}
	}()

	var cards []domain.Card
	for rows.Next() {
		card, err := scanCard(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan session card: %w", err)
		}
		cards = append(cards, *card)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate session cards: %w", err)
	}

	return cards, nil
}

// CountDue implements store.CardStore.CountDue.
func (s *CardStore) CountDue(ctx context.Context, userID uuid.UUID, now time.Time) (int, error) {
	const query = `
		SELECT COUNT(*)
		FROM cards c
		LEFT JOIN review_states rs ON rs.card_id = c.id AND rs.user_id = c.user_id
		WHERE c.user_id = $1
		  AND (rs.due_at IS NULL OR rs.due_at <= $2)`

	var count int
	if err := s.db.QueryRowContext(ctx, query, userID, now).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count due cards: %w", err)
	}

	return count, nil
}

// WithTx implements store.CardStore.WithTx.
func (s *CardStore) WithTx(tx *sql.Tx) store.CardStore {
	return &CardStore{
		db:     tx,
		logger: s.logger,
	}
}

// scanCard reads one card row with its optional review state columns.
func scanCard(row rowScanner) (*domain.Card, error) {
	var (
		card         domain.Card
		intervalDays sql.NullInt64
		ease         sql.NullFloat64
		repetitions  sql.NullInt64
	)

	err := row.Scan(&card.ID, &card.UserID, &card.Front, &card.Back,
		&card.CreatedAt, &card.UpdatedAt,
		&intervalDays, &ease, &repetitions)
	if err != nil {
		return nil, err
	}

	// All three state columns are NOT NULL in review_states, so presence of
	// any one means the card has a stored state.
	if intervalDays.Valid {
		card.State = &domain.ReviewState{
			IntervalDays: int(intervalDays.Int64),
			Ease:         ease.Float64,
			Repetitions:  int(repetitions.Int64),
		}
	}

	return &card, nil
}
