package domain

import (
	"errors"
	"testing"

	"github.com/google/uuid"
)

func TestNewCard(t *testing.T) {
	userID := uuid.New()

	card, err := NewCard(userID, "What is the capital of France?", "Paris")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if card.ID == uuid.Nil {
		t.Error("Expected card ID to be generated")
	}

	if card.UserID != userID {
		t.Errorf("Expected user ID %s, got %s", userID, card.UserID)
	}

	if card.State != nil {
		t.Error("Expected new card to carry no review state")
	}
}

func TestNewCardValidation(t *testing.T) {
	userID := uuid.New()

	testCases := []struct {
		name     string
		front    string
		back     string
		expected error
	}{
		{"empty front", "", "back", ErrCardFrontEmpty},
		{"whitespace front", "   ", "back", ErrCardFrontEmpty},
		{"empty back", "front", "", ErrCardBackEmpty},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewCard(userID, tc.front, tc.back)
			if !errors.Is(err, tc.expected) {
				t.Errorf("Expected %v, got %v", tc.expected, err)
			}
		})
	}
}

func TestCardStartingState(t *testing.T) {
	card := &Card{ID: uuid.New(), UserID: uuid.New(), Front: "f", Back: "b"}

	state := card.StartingState()
	if state != NewReviewState() {
		t.Errorf("Expected new-card default state, got %+v", state)
	}

	prior := ReviewState{IntervalDays: 6, Ease: 2.2, Repetitions: 2}
	card.State = &prior

	state = card.StartingState()
	if state != prior {
		t.Errorf("Expected stored state %+v, got %+v", prior, state)
	}
}

func TestCardValidateInvalidState(t *testing.T) {
	card := &Card{
		ID:     uuid.New(),
		UserID: uuid.New(),
		Front:  "front",
		Back:   "back",
		State:  &ReviewState{IntervalDays: -1, Ease: 2.5, Repetitions: 1},
	}

	if err := card.Validate(); !errors.Is(err, ErrNegativeInterval) {
		t.Errorf("Expected ErrNegativeInterval, got %v", err)
	}
}
