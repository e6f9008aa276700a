package api

import (
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/mnemohq/mnemo-api/internal/api/shared"
	"github.com/mnemohq/mnemo-api/internal/domain"
	"github.com/mnemohq/mnemo-api/internal/service/review"
	"github.com/mnemohq/mnemo-api/internal/session"
)

// SessionHandler handles review session API requests. All routes require an
// authenticated user; the session itself lives in the review service.
type SessionHandler struct {
	reviewService *review.Service
	validator     *validator.Validate
}

// NewSessionHandler creates a new SessionHandler with the given dependencies.
func NewSessionHandler(reviewService *review.Service) *SessionHandler {
	return &SessionHandler{
		reviewService: reviewService,
		validator:     validator.New(),
	}
}

// StartSession handles POST /sessions. It replaces any session the user
// already had with a fresh walk over the currently due cards.
func (h *SessionHandler) StartSession(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	ctrl, err := h.reviewService.StartSession(r.Context(), userID)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, snapshotSession(ctrl))
}

// GetSession handles GET /sessions.
func (h *SessionHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	ctrl, err := h.reviewService.Session(userID)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, snapshotSession(ctrl))
}

// FlipCard handles POST /sessions/flip, revealing the current card's answer.
func (h *SessionHandler) FlipCard(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	ctrl, err := h.reviewService.Session(userID)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	ctrl.Flip()
	shared.RespondWithJSON(w, r, http.StatusOK, snapshotSession(ctrl))
}

// GradeCard handles POST /sessions/grade. The card must be flipped; the
// outcome is persisted before the session advances.
func (h *SessionHandler) GradeCard(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	var req GradeRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	grade, err := domain.ReviewOutcome(req.Outcome).Grade()
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	ctrl, err := h.reviewService.Session(userID)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	result, err := ctrl.Grade(r.Context(), grade)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, struct {
		Result  ReviewResultResponse `json:"result"`
		Session SessionResponse      `json:"session"`
	}{
		Result: ReviewResultResponse{
			IntervalDays: result.IntervalDays,
			Ease:         result.Ease,
			Repetitions:  result.Repetitions,
			DueAt:        result.DueAt,
		},
		Session: snapshotSession(ctrl),
	})
}

// ResetSession handles POST /sessions/reset, restarting the walk from the
// first card without undoing persisted outcomes.
func (h *SessionHandler) ResetSession(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	ctrl, err := h.reviewService.Session(userID)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	if err := ctrl.Reset(); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, snapshotSession(ctrl))
}

// snapshotSession builds the public view of a session. The back of the
// current card and the grade previews are visible only after a flip.
func snapshotSession(ctrl *session.Controller) SessionResponse {
	resp := SessionResponse{
		TotalCards: ctrl.Len(),
		Completed:  ctrl.Completed(),
		Progress:   ctrl.Progress(),
		Complete:   ctrl.IsComplete(),
		Flipped:    ctrl.Flipped(),
	}

	card, ok := ctrl.CurrentCard()
	if !ok {
		return resp
	}

	cardResp := &CardResponse{
		ID:        card.ID,
		Front:     card.Front,
		CreatedAt: card.CreatedAt,
	}
	if resp.Flipped {
		cardResp.Back = card.Back

		if previews, err := ctrl.GradePreviews(); err == nil {
			resp.Previews = previews
		}
	}
	resp.CurrentCard = cardResp

	return resp
}
