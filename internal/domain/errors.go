// Package domain defines the core business entities and errors.
package domain

import "errors"

// Common domain errors used across the application.
var (
	// ErrValidation is returned when a domain entity fails validation.
	// This is often wrapped with a more specific error message.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidID is returned when an ID is malformed or invalid.
	ErrInvalidID = errors.New("invalid ID")

	// ErrInvalidGrade is returned when a recall grade is outside the 0-5 scale.
	ErrInvalidGrade = errors.New("grade must be between 0 and 5")

	// ErrInvalidReviewOutcome is returned when a review outcome label is not valid.
	ErrInvalidReviewOutcome = errors.New("invalid review outcome")

	// ErrUnauthorized is returned when an operation is not permitted.
	ErrUnauthorized = errors.New("unauthorized operation")
)
