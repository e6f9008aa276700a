package api_test

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mnemohq/mnemo-api/internal/api"
	"github.com/mnemohq/mnemo-api/internal/api/shared"
	"github.com/mnemohq/mnemo-api/internal/domain"
	"github.com/mnemohq/mnemo-api/internal/service/review"
	"github.com/mnemohq/mnemo-api/internal/store"
)

type stubCardStore struct {
	cards []domain.Card
}

func (s *stubCardStore) Create(ctx context.Context, card *domain.Card) error { return nil }

func (s *stubCardStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Card, error) {
	return nil, store.ErrCardNotFound
}

func (s *stubCardStore) FetchSessionCards(
	ctx context.Context,
	userID uuid.UUID,
	now time.Time,
	limit int,
) ([]domain.Card, error) {
	return s.cards, nil
}

func (s *stubCardStore) CountDue(ctx context.Context, userID uuid.UUID, now time.Time) (int, error) {
	return len(s.cards), nil
}

func (s *stubCardStore) WithTx(tx *sql.Tx) store.CardStore { return s }

type stubRecorder struct {
	err   error
	calls int
}

func (s *stubRecorder) RecordOutcome(
	ctx context.Context,
	userID, cardID uuid.UUID,
	result domain.ReviewResult,
	grade domain.Grade,
) error {
	if s.err != nil {
		return s.err
	}
	s.calls++
	return nil
}

func newSessionHandler(t *testing.T, cards []domain.Card, recorder *stubRecorder) *api.SessionHandler {
	t.Helper()

	svc, err := review.NewService(&stubCardStore{cards: cards}, recorder, 20, nil)
	require.NoError(t, err)
	return api.NewSessionHandler(svc)
}

func authedRequest(t *testing.T, method, path string, body interface{}, userID uuid.UUID) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	ctx := context.WithValue(req.Context(), shared.UserIDContextKey, userID)
	return req.WithContext(ctx)
}

func decodeSession(t *testing.T, body *bytes.Buffer) api.SessionResponse {
	t.Helper()

	var resp api.SessionResponse
	require.NoError(t, json.NewDecoder(body).Decode(&resp))
	return resp
}

func sessionCards(userID uuid.UUID, fronts ...string) []domain.Card {
	cards := make([]domain.Card, 0, len(fronts))
	for _, front := range fronts {
		card, _ := domain.NewCard(userID, front, "answer to "+front)
		cards = append(cards, *card)
	}
	return cards
}

func TestStartSessionReturnsSnapshot(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	handler := newSessionHandler(t, sessionCards(userID, "q1", "q2"), &stubRecorder{})

	rr := httptest.NewRecorder()
	handler.StartSession(rr, authedRequest(t, http.MethodPost, "/sessions", nil, userID))

	require.Equal(t, http.StatusCreated, rr.Code)
	resp := decodeSession(t, rr.Body)
	assert.Equal(t, 2, resp.TotalCards)
	assert.Equal(t, 0, resp.Completed)
	assert.False(t, resp.Flipped)
	require.NotNil(t, resp.CurrentCard)
	assert.Equal(t, "q1", resp.CurrentCard.Front)
	assert.Empty(t, resp.CurrentCard.Back, "back must stay hidden until flip")
	assert.Empty(t, resp.Previews)
}

func TestStartSessionNoCardsDue(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	handler := newSessionHandler(t, nil, &stubRecorder{})

	rr := httptest.NewRecorder()
	handler.StartSession(rr, authedRequest(t, http.MethodPost, "/sessions", nil, userID))

	assert.Equal(t, http.StatusNoContent, rr.Code)
}

func TestGetSessionWithoutStart(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	handler := newSessionHandler(t, sessionCards(userID, "q1"), &stubRecorder{})

	rr := httptest.NewRecorder()
	handler.GetSession(rr, authedRequest(t, http.MethodGet, "/sessions", nil, userID))

	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestFlipRevealsBackAndPreviews(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	handler := newSessionHandler(t, sessionCards(userID, "q1"), &stubRecorder{})

	rr := httptest.NewRecorder()
	handler.StartSession(rr, authedRequest(t, http.MethodPost, "/sessions", nil, userID))
	require.Equal(t, http.StatusCreated, rr.Code)

	rr = httptest.NewRecorder()
	handler.FlipCard(rr, authedRequest(t, http.MethodPost, "/sessions/flip", nil, userID))

	require.Equal(t, http.StatusOK, rr.Code)
	resp := decodeSession(t, rr.Body)
	assert.True(t, resp.Flipped)
	require.NotNil(t, resp.CurrentCard)
	assert.Equal(t, "answer to q1", resp.CurrentCard.Back)
	require.Len(t, resp.Previews, 4)
	assert.Equal(t, "10m", resp.Previews[domain.ReviewOutcomeAgain])
	assert.Equal(t, "1d", resp.Previews[domain.ReviewOutcomeGood])
}

func TestGradeRequiresFlip(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	handler := newSessionHandler(t, sessionCards(userID, "q1"), &stubRecorder{})

	rr := httptest.NewRecorder()
	handler.StartSession(rr, authedRequest(t, http.MethodPost, "/sessions", nil, userID))
	require.Equal(t, http.StatusCreated, rr.Code)

	rr = httptest.NewRecorder()
	handler.GradeCard(rr, authedRequest(t, http.MethodPost, "/sessions/grade",
		api.GradeRequest{Outcome: "good"}, userID))

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestGradeAdvancesAndCompletes(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	recorder := &stubRecorder{}
	handler := newSessionHandler(t, sessionCards(userID, "q1"), recorder)

	rr := httptest.NewRecorder()
	handler.StartSession(rr, authedRequest(t, http.MethodPost, "/sessions", nil, userID))
	require.Equal(t, http.StatusCreated, rr.Code)

	rr = httptest.NewRecorder()
	handler.FlipCard(rr, authedRequest(t, http.MethodPost, "/sessions/flip", nil, userID))
	require.Equal(t, http.StatusOK, rr.Code)

	rr = httptest.NewRecorder()
	handler.GradeCard(rr, authedRequest(t, http.MethodPost, "/sessions/grade",
		api.GradeRequest{Outcome: "good"}, userID))

	require.Equal(t, http.StatusOK, rr.Code)

	var resp struct {
		Result  api.ReviewResultResponse `json:"result"`
		Session api.SessionResponse      `json:"session"`
	}
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	assert.Equal(t, 1, resp.Result.IntervalDays)
	assert.Equal(t, 2.5, resp.Result.Ease)
	assert.Equal(t, 1, resp.Result.Repetitions)
	assert.True(t, resp.Session.Complete)
	assert.Equal(t, float64(100), resp.Session.Progress)
	assert.Nil(t, resp.Session.CurrentCard)
	assert.Equal(t, 1, recorder.calls)
}

func TestGradeRejectsUnknownOutcome(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	handler := newSessionHandler(t, sessionCards(userID, "q1"), &stubRecorder{})

	rr := httptest.NewRecorder()
	handler.StartSession(rr, authedRequest(t, http.MethodPost, "/sessions", nil, userID))
	require.Equal(t, http.StatusCreated, rr.Code)

	rr = httptest.NewRecorder()
	handler.GradeCard(rr, authedRequest(t, http.MethodPost, "/sessions/grade",
		api.GradeRequest{Outcome: "perfect"}, userID))

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestResetSession(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	handler := newSessionHandler(t, sessionCards(userID, "q1", "q2"), &stubRecorder{})

	rr := httptest.NewRecorder()
	handler.StartSession(rr, authedRequest(t, http.MethodPost, "/sessions", nil, userID))
	require.Equal(t, http.StatusCreated, rr.Code)

	rr = httptest.NewRecorder()
	handler.FlipCard(rr, authedRequest(t, http.MethodPost, "/sessions/flip", nil, userID))
	require.Equal(t, http.StatusOK, rr.Code)

	rr = httptest.NewRecorder()
	handler.GradeCard(rr, authedRequest(t, http.MethodPost, "/sessions/grade",
		api.GradeRequest{Outcome: "good"}, userID))
	require.Equal(t, http.StatusOK, rr.Code)

	rr = httptest.NewRecorder()
	handler.ResetSession(rr, authedRequest(t, http.MethodPost, "/sessions/reset", nil, userID))

	require.Equal(t, http.StatusOK, rr.Code)
	resp := decodeSession(t, rr.Body)
	assert.Equal(t, 0, resp.Completed)
	assert.False(t, resp.Flipped)
	require.NotNil(t, resp.CurrentCard)
	assert.Equal(t, "q1", resp.CurrentCard.Front)
}

func TestSessionRoutesRequireUser(t *testing.T) {
	t.Parallel()

	handler := newSessionHandler(t, nil, &stubRecorder{})

	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/sessions", nil)
	handler.StartSession(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}
