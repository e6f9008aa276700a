package postgres

import (
	"database/sql"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mnemohq/mnemo-api/internal/store"
)

func TestMapRowError(t *testing.T) {
	t.Parallel()

	err := mapRowError(sql.ErrNoRows, store.ErrCardNotFound)
	if !errors.Is(err, store.ErrCardNotFound) {
		t.Errorf("Expected ErrCardNotFound, got %v", err)
	}
	if !errors.Is(err, store.ErrNotFound) {
		t.Errorf("Expected mapped error to wrap ErrNotFound, got %v", err)
	}

	opaque := errors.New("connection refused")
	if got := mapRowError(opaque, store.ErrCardNotFound); got != opaque {
		t.Errorf("Expected non-row errors to pass through, got %v", got)
	}
}

func TestMapUniqueViolation(t *testing.T) {
	t.Parallel()

	pgErr := &pgconn.PgError{Code: uniqueViolationCode}
	err := mapUniqueViolation(pgErr, store.ErrEmailExists)
	if !errors.Is(err, store.ErrEmailExists) {
		t.Errorf("Expected ErrEmailExists, got %v", err)
	}

	otherPgErr := &pgconn.PgError{Code: "23503"} // foreign key violation
	if got := mapUniqueViolation(otherPgErr, store.ErrEmailExists); !errors.Is(got, otherPgErr) {
		t.Errorf("Expected other pg errors to pass through, got %v", got)
	}
}
