package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/mnemohq/mnemo-api/internal/domain"
)

// CardStore defines the interface for card data persistence.
type CardStore interface {
	// Create saves a new card to the store.
	// Returns validation errors if the card data is invalid.
	Create(ctx context.Context, card *domain.Card) error

	// GetByID retrieves a card by its unique ID, with its stored review
	// state attached when one exists.
	// Returns ErrCardNotFound if the card does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Card, error)

	// FetchSessionCards retrieves the ordered list of cards due for review
	// for a user at the given time, up to limit. Cards that have never been
	// reviewed come first (State == nil), then stored states by ascending
	// due time. Called once at session construction; the session never
	// re-fetches mid-walk.
	FetchSessionCards(ctx context.Context, userID uuid.UUID, now time.Time, limit int) ([]domain.Card, error)

	// CountDue returns how many of the user's cards are due at the given time.
	CountDue(ctx context.Context, userID uuid.UUID, now time.Time) (int, error)

	// WithTx returns a new CardStore instance that uses the provided transaction.
	// The transaction should be created and managed by the caller.
	WithTx(tx *sql.Tx) CardStore
}
