package api

import (
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/mnemohq/mnemo-api/internal/api/shared"
	"github.com/mnemohq/mnemo-api/internal/domain"
	"github.com/mnemohq/mnemo-api/internal/store"
)

// TimeFunc supplies the current time for due-date arithmetic.
type TimeFunc func() time.Time

// CardHandler handles card management API requests.
type CardHandler struct {
	cardStore store.CardStore
	validator *validator.Validate
	timeFunc  TimeFunc
}

// NewCardHandler creates a new CardHandler with the given dependencies.
func NewCardHandler(cardStore store.CardStore, timeFunc TimeFunc) *CardHandler {
	return &CardHandler{
		cardStore: cardStore,
		validator: validator.New(),
		timeFunc:  timeFunc,
	}
}

// CreateCard handles POST /cards.
func (h *CardHandler) CreateCard(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	var req CreateCardRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	card, err := domain.NewCard(userID, req.Front, req.Back)
	if err != nil {
		HandleAPIError(w, r, err, "Invalid card data")
		return
	}

	if err := h.cardStore.Create(r.Context(), card); err != nil {
		HandleAPIError(w, r, err, "Failed to create card")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, CardResponse{
		ID:        card.ID,
		Front:     card.Front,
		Back:      card.Back,
		CreatedAt: card.CreatedAt,
	})
}

// DueCount handles GET /cards/due-count.
func (h *CardHandler) DueCount(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	count, err := h.cardStore.CountDue(r.Context(), userID, h.timeFunc())
	if err != nil {
		HandleAPIError(w, r, err, "Failed to count due cards")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, DueCountResponse{Due: count})
}
