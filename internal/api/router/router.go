// Package router wires every HTTP endpoint onto a chi router.
package router

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/sanjuanmotors/concierge/internal/bookings"
	"github.com/sanjuanmotors/concierge/internal/conversation"
	"github.com/sanjuanmotors/concierge/internal/messaging"
	"github.com/sanjuanmotors/concierge/pkg/logging"
)

// Config holds router configuration.
type Config struct {
	Logger              *logging.Logger
	MessagingHandler    *messaging.Handler
	BookingsHandler     *bookings.Handler
	ConversationHandler *conversation.Handler
	MetricsHandler      http.Handler
}

// New creates a chi router with all routes configured.
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))

	r.Get("/health", healthCheck)

	r.Route("/bot", func(r chi.Router) {
		r.Post("/whatsapp", cfg.MessagingHandler.Webhook)
		r.Post("/send", cfg.MessagingHandler.Send)
	})

	r.Route("/appointments", func(r chi.Router) {
		r.Get("/{contactID}", cfg.BookingsHandler.ListByContact)
		r.Put("/status", cfg.BookingsHandler.UpdateStatus)
	})

	r.Delete("/conversation/{contactID}", cfg.ConversationHandler.Reset)
	r.Post("/cleanup", cfg.ConversationHandler.Cleanup)

	if cfg.MetricsHandler != nil {
		r.Handle("/metrics", cfg.MetricsHandler)
	}

	return r
}

func healthCheck(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}
