package main

import (
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/mnemohq/mnemo-api/internal/config"
	"github.com/mnemohq/mnemo-api/internal/platform/postgres"
	"github.com/mnemohq/mnemo-api/internal/service/auth"
	"github.com/mnemohq/mnemo-api/internal/service/review"
	"github.com/mnemohq/mnemo-api/internal/store"
)

// application holds the wired dependency graph for the server.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	userStore   store.UserStore
	cardStore   store.CardStore
	reviewStore store.ReviewStore

	jwtService    auth.JWTService
	hasher        auth.PasswordHasher
	reviewService *review.Service

	timeFunc func() time.Time
}

// newApplication connects to the database, runs migrations, and constructs
// the stores and services.
func newApplication(cfg *config.Config, logger *slog.Logger) (*application, error) {
	db, err := setupAppDatabase(cfg, logger)
	if err != nil {
		return nil, err
	}

	if err := postgres.MigrateUp(db); err != nil {
		closeDatabase(db, logger)
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	jwtService, err := auth.NewJWTService(cfg.Auth)
	if err != nil {
		closeDatabase(db, logger)
		return nil, fmt.Errorf("failed to create JWT service: %w", err)
	}

	userStore := postgres.NewUserStore(db, logger)
	cardStore := postgres.NewCardStore(db, logger)
	reviewStore := postgres.NewReviewStore(db, logger)

	recorder := review.NewTxOutcomeRecorder(db, reviewStore)
	reviewService, err := review.NewService(cardStore, recorder, cfg.Review.SessionLimit, logger)
	if err != nil {
		closeDatabase(db, logger)
		return nil, fmt.Errorf("failed to create review service: %w", err)
	}

	return &application{
		config:        cfg,
		logger:        logger,
		db:            db,
		userStore:     userStore,
		cardStore:     cardStore,
		reviewStore:   reviewStore,
		jwtService:    jwtService,
		hasher:        auth.NewBcryptHasher(),
		reviewService: reviewService,
		timeFunc:      func() time.Time { return time.Now().UTC() },
	}, nil
}

// cleanup releases the application's resources.
func (app *application) cleanup() {
	if app.db != nil {
		closeDatabase(app.db, app.logger)
		app.db = nil
	}
}

func closeDatabase(db *sql.DB, logger *slog.Logger) {
	if err := db.Close(); err != nil {
		logger.Error("Failed to close database connection", "error", err)
	}
}
