package server

import (
	"net/http"

	"github.com/clearnote-ai/clearnoteai/internal/api"
	"github.com/clearnote-ai/clearnoteai/internal/api/handlers"
	"github.com/clearnote-ai/clearnoteai/internal/api/middleware"
	"github.com/go-chi/chi/v5"
)

type RouterConfig struct {
	DocumentHandler *handlers.DocumentHandler
	QueryHandler    *handlers.QueryHandler
	HealthHandler   *handlers.HealthHandler
	MaxBodyBytes    int64
}

func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	maxBodyBytes := cfg.MaxBodyBytes
	if maxBodyBytes <= 0 {
		maxBodyBytes = 5 * 1024 * 1024
	}

	r.Use(middleware.RequestID)
	r.Use(middleware.SentryMiddleware)
	r.Use(middleware.AccessLog)
	r.Use(middleware.MaxBodyBytes(maxBodyBytes))

	if cfg.HealthHandler != nil {
		r.Get("/health", cfg.HealthHandler.Health)
	} else {
		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			api.Success(w, http.StatusOK, map[string]string{"status": "ok"})
		})
	}

	r.Route("/documents", func(r chi.Router) {
		r.Post("/", cfg.DocumentHandler.Ingest)
		r.Get("/", cfg.DocumentHandler.List)
		r.Get("/{id}", cfg.DocumentHandler.Get)
		r.Get("/{id}/chunks", cfg.DocumentHandler.Chunks)
		r.Delete("/{id}", cfg.DocumentHandler.Delete)
	})

	r.Post("/query", cfg.QueryHandler.Query)
	r.Get("/stats", cfg.DocumentHandler.Stats)

	return r
}
