package api

import (
	"time"

	"github.com/google/uuid"
	"github.com/mnemohq/mnemo-api/internal/domain"
)

// Common request/response structures

// RegisterRequest defines the payload for the user registration endpoint.
type RegisterRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=12,max=72"`
}

// LoginRequest defines the payload for the user login endpoint.
type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=1"`
}

// AuthResponse defines the successful response for authentication endpoints.
type AuthResponse struct {
	UserID uuid.UUID `json:"user_id"`
	Token  string    `json:"token"`
}

// CreateCardRequest defines the payload for creating a card.
type CreateCardRequest struct {
	Front string `json:"front" validate:"required"`
	Back  string `json:"back"  validate:"required"`
}

// CardResponse is the public representation of a card. Back is omitted
// until the card has been flipped in a session context.
type CardResponse struct {
	ID        uuid.UUID `json:"id"`
	Front     string    `json:"front"`
	Back      string    `json:"back,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// DueCountResponse reports how many cards are currently due for review.
type DueCountResponse struct {
	Due int `json:"due"`
}

// GradeRequest defines the payload for grading the current session card.
type GradeRequest struct {
	Outcome string `json:"outcome" validate:"required,oneof=again hard good easy"`
}

// ReviewResultResponse is the scheduling outcome returned after a grade.
type ReviewResultResponse struct {
	IntervalDays int       `json:"interval_days"`
	Ease         float64   `json:"ease"`
	Repetitions  int       `json:"repetitions"`
	DueAt        time.Time `json:"due_at"`
}

// SessionResponse is a snapshot of the user's active review session.
// CurrentCard and Previews are omitted once the session is complete;
// the card's back and the grade previews appear only after a flip.
type SessionResponse struct {
	TotalCards  int                             `json:"total_cards"`
	Completed   int                             `json:"completed"`
	Progress    float64                         `json:"progress"`
	Complete    bool                            `json:"complete"`
	Flipped     bool                            `json:"flipped"`
	CurrentCard *CardResponse                   `json:"current_card,omitempty"`
	Previews    map[domain.ReviewOutcome]string `json:"previews,omitempty"`
}
