package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/mnemohq/mnemo-api/internal/api"
	apiMiddleware "github.com/mnemohq/mnemo-api/internal/api/middleware"
)

// setupRouter configures the application router with all routes and
// middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.Trace)

	authHandler := api.NewAuthHandler(app.userStore, app.jwtService, app.hasher)
	cardHandler := api.NewCardHandler(app.cardStore, api.TimeFunc(app.timeFunc))
	sessionHandler := api.NewSessionHandler(app.reviewService)
	authMiddleware := apiMiddleware.NewAuthMiddleware(app.jwtService)

	r.Route("/api", func(r chi.Router) {
		// Authentication endpoints (public)
		r.Post("/auth/register", authHandler.Register)
		r.Post("/auth/login", authHandler.Login)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)

			// Card management endpoints
			r.Post("/cards", cardHandler.CreateCard)
			r.Get("/cards/due-count", cardHandler.DueCount)

			// Review session endpoints
			r.Post("/sessions", sessionHandler.StartSession)
			r.Get("/sessions", sessionHandler.GetSession)
			r.Post("/sessions/flip", sessionHandler.FlipCard)
			r.Post("/sessions/grade", sessionHandler.GradeCard)
			r.Post("/sessions/reset", sessionHandler.ResetSession)
		})
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			app.logger.Error("Failed to write health check response", "error", err)
		}
	})

	return r
}
