// Package postgres provides PostgreSQL-backed implementations of the store
// interfaces, using the pgx driver through database/sql.
package postgres

import (
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// PostgreSQL error codes
const uniqueViolationCode = "23505"

// isUniqueViolation checks if the given error is a PostgreSQL unique
// constraint violation, such as a duplicate email address.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode
}

// mapRowError translates low-level row errors to the store's sentinel for
// the given entity. notFound must wrap store.ErrNotFound.
func mapRowError(err error, notFound error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return notFound
	}
	return err
}

// mapUniqueViolation translates a unique constraint violation to the store's
// duplicate sentinel for the given entity. duplicate must wrap store.ErrDuplicate.
func mapUniqueViolation(err error, duplicate error) error {
	if isUniqueViolation(err) {
		return duplicate
	}
	return err
}
