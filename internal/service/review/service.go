// Package review owns live review sessions: it builds a session controller
// from a user's due cards, keeps at most one active session per user, and
// routes graded outcomes through the transactional recorder.
package review

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/mnemohq/mnemo-api/internal/session"
	"github.com/mnemohq/mnemo-api/internal/store"
)

// Common service errors.
var (
	// ErrNoCardsDue is returned when a session is requested but the user has
	// no cards due for review.
	ErrNoCardsDue = errors.New("no cards due for review")

	// ErrNoActiveSession is returned when an operation targets a session that
	// was never started.
	ErrNoActiveSession = errors.New("no active review session")
)

// Service manages review sessions for all users. Sessions live in memory;
// only graded outcomes are persisted, so a lost session costs nothing but
// the walk position.
type Service struct {
	cardStore    store.CardStore
	recorder     OutcomeRecorder
	logger       *slog.Logger
	sessionLimit int
	now          func() time.Time

	mu       sync.Mutex
	sessions map[uuid.UUID]*session.Controller
}

// ServiceOption customizes a Service at construction.
type ServiceOption func(*Service)

// WithClock overrides the service's time source, propagated to the sessions
// it creates.
func WithClock(now func() time.Time) ServiceOption {
	return func(s *Service) {
		s.now = now
	}
}

// NewService creates a review session service.
// sessionLimit caps how many due cards a single session may contain.
func NewService(
	cardStore store.CardStore,
	recorder OutcomeRecorder,
	sessionLimit int,
	logger *slog.Logger,
	opts ...ServiceOption,
) (*Service, error) {
	if cardStore == nil {
		return nil, errors.New("cardStore cannot be nil")
	}
	if recorder == nil {
		return nil, errors.New("recorder cannot be nil")
	}
	if sessionLimit <= 0 {
		return nil, fmt.Errorf("sessionLimit must be positive, got %d", sessionLimit)
	}
	if logger == nil {
		logger = slog.Default()
	}

	s := &Service{
		cardStore:    cardStore,
		recorder:     recorder,
		logger:       logger.With(slog.String("component", "review_service")),
		sessionLimit: sessionLimit,
		now:          func() time.Time { return time.Now().UTC() },
		sessions:     make(map[uuid.UUID]*session.Controller),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s, nil
}

// StartSession fetches the user's due cards and begins a new session over
// them, replacing any session the user already had. Returns ErrNoCardsDue
// when nothing is due.
func (s *Service) StartSession(ctx context.Context, userID uuid.UUID) (*session.Controller, error) {
	cards, err := s.cardStore.FetchSessionCards(ctx, userID, s.now(), s.sessionLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch session cards: %w", err)
	}
	if len(cards) == 0 {
		return nil, ErrNoCardsDue
	}

	ctrl, err := session.New(
		cards,
		&userRecorder{recorder: s.recorder, userID: userID},
		s.logger,
		session.WithClock(s.now),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	s.mu.Lock()
	s.sessions[userID] = ctrl
	s.mu.Unlock()

	s.logger.Info("started review session",
		slog.String("user_id", userID.String()),
		slog.Int("card_count", len(cards)))

	return ctrl, nil
}

// Session returns the user's active session.
// Returns ErrNoActiveSession if none has been started.
func (s *Service) Session(userID uuid.UUID) (*session.Controller, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ctrl, ok := s.sessions[userID]
	if !ok {
		return nil, ErrNoActiveSession
	}
	return ctrl, nil
}

// EndSession discards the user's active session, if any. Persisted outcomes
// are unaffected.
func (s *Service) EndSession(userID uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, userID)
}
