// Package main provides the API router setup.
package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/printworks/answer-engine/cmd/answer-api/handlers"
	"github.com/printworks/answer-engine/cmd/answer-api/middleware"
	"github.com/printworks/answer-engine/internal/app"
	"github.com/printworks/answer-engine/internal/observability"
)

// NewRouter creates the main API router with all routes configured.
func NewRouter(logger *observability.Logger, engine *app.App) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.CORS([]string{"*"}))
	r.Use(chimiddleware.Timeout(engine.Config.Server.ReadTimeout))

	// Health check (unauthenticated)
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"healthy","service":"answer-engine"}`))
	})

	r.Get("/ready", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if engine.Holder.Current() == nil || engine.Holder.Current().Len() == 0 {
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte(`{"status":"catalog empty"}`))
			return
		}
		w.Write([]byte(`{"status":"ready"}`))
	})

	answerHandler := handlers.NewAnswerHandler(logger, engine.Service)
	catalogHandler := handlers.NewCatalogHandler(logger, engine)

	// API v1 routes
	r.Route("/v1", func(r chi.Router) {
		r.Post("/answer", answerHandler.Answer)

		r.Route("/catalog", func(r chi.Router) {
			r.Get("/categories", catalogHandler.Categories)
			r.Get("/stats", catalogHandler.Stats)
			r.Post("/reload", catalogHandler.Reload)
		})
	})

	return r
}
