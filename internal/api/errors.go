package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/mnemohq/mnemo-api/internal/api/shared"
	"github.com/mnemohq/mnemo-api/internal/domain"
	"github.com/mnemohq/mnemo-api/internal/service/auth"
	"github.com/mnemohq/mnemo-api/internal/service/review"
	"github.com/mnemohq/mnemo-api/internal/session"
	"github.com/mnemohq/mnemo-api/internal/store"
)

// MapErrorToStatusCode maps internal errors to HTTP status codes. Unknown
// errors map to 500 so internal error types never leak through the status.
func MapErrorToStatusCode(err error) int {
	switch {
	// Authentication errors
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized

	// Not found errors
	case errors.Is(err, store.ErrUserNotFound),
		errors.Is(err, store.ErrCardNotFound),
		errors.Is(err, store.ErrReviewStateNotFound),
		errors.Is(err, review.ErrNoActiveSession):
		return http.StatusNotFound

	// Conflict errors
	case errors.Is(err, store.ErrEmailExists),
		errors.Is(err, session.ErrSubmissionInFlight):
		return http.StatusConflict

	// Bad request errors
	case errors.Is(err, store.ErrInvalidEntity),
		errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrInvalidID),
		errors.Is(err, domain.ErrInvalidGrade),
		errors.Is(err, domain.ErrInvalidReviewOutcome),
		errors.Is(err, session.ErrCardNotFlipped),
		errors.Is(err, session.ErrSessionComplete):
		return http.StatusBadRequest

	// Special cases
	case errors.Is(err, review.ErrNoCardsDue):
		return http.StatusNoContent

	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a sanitized, user-facing message for an error.
// Internal details never appear here.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	switch {
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken):
		return "Invalid token"

	case errors.Is(err, domain.ErrUnauthorized):
		return "Unauthorized"

	case errors.Is(err, store.ErrUserNotFound):
		return "User not found"

	case errors.Is(err, store.ErrCardNotFound):
		return "Card not found"

	case errors.Is(err, store.ErrReviewStateNotFound):
		return "Review state not found"

	case errors.Is(err, review.ErrNoActiveSession):
		return "No active review session"

	case errors.Is(err, store.ErrEmailExists):
		return "Email already exists"

	case errors.Is(err, session.ErrSubmissionInFlight):
		return "A grade submission is already in progress"

	case errors.Is(err, session.ErrCardNotFlipped):
		return "Card must be flipped before grading"

	case errors.Is(err, session.ErrSessionComplete):
		return "Session is already complete"

	case errors.Is(err, domain.ErrInvalidGrade),
		errors.Is(err, domain.ErrInvalidReviewOutcome):
		return "Invalid review grade"

	case errors.Is(err, store.ErrInvalidEntity),
		errors.Is(err, domain.ErrValidation):
		return "Invalid entity data"

	case errors.Is(err, domain.ErrInvalidID):
		return "Invalid ID format"

	default:
		return "An unexpected error occurred"
	}
}

// HandleAPIError maps an error to a status code and safe message, logs the
// redacted original, and writes the JSON error response. An empty defaultMsg
// uses the mapped safe message.
func HandleAPIError(w http.ResponseWriter, r *http.Request, err error, defaultMsg string) {
	status := MapErrorToStatusCode(err)

	if status == http.StatusNoContent {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	message := defaultMsg
	if message == "" {
		message = GetSafeErrorMessage(err)
	}

	shared.RespondWithErrorAndLog(w, r, status, message, err)
}

// SanitizeValidationError turns a struct validation error into a
// user-friendly message without echoing internal type names.
func SanitizeValidationError(err error) string {
	errMsg := err.Error()

	// validator errors look like:
	// "Key: 'LoginRequest.Email' Error:Field validation for 'Email' failed on the 'required' tag"
	if strings.Contains(errMsg, "Field validation") {
		parts := strings.Split(errMsg, "Error:")
		if len(parts) >= 2 {
			fieldParts := strings.Split(parts[1], "'")
			if len(fieldParts) >= 3 {
				field := fieldParts[1]
				var tag string
				if len(fieldParts) >= 5 {
					tag = fieldParts[3]
				}
				if tag != "" {
					return fmt.Sprintf("Invalid %s: %s", field, validationTagMessage(tag))
				}
				return fmt.Sprintf("Invalid %s", field)
			}
		}
	}

	return "Validation error"
}

func validationTagMessage(tag string) string {
	switch tag {
	case "required":
		return "required field"
	case "email":
		return "invalid email format"
	case "min":
		return "too short"
	case "max":
		return "too long"
	case "oneof":
		return "invalid value"
	default:
		return "validation failed"
	}
}
