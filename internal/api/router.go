package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/cors"

	"github.com/careflow/demo-api/internal/booking"
	"github.com/careflow/demo-api/internal/messaging"
)

type RouterConfig struct {
	Bookings *booking.Service
	Messages *messaging.Service
	Store    *booking.Store
	APIKey   string
	SlotDays int
}

func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Apply middleware. CORS is wide open on purpose: the demo is embedded
	// from arbitrary origins.
	r.Use(RequestIDMiddleware)
	r.Use(LoggingMiddleware)
	r.Use(cors.AllowAll().Handler)

	// Health endpoint, no key required
	r.Get("/health", healthHandler(cfg.APIKey))

	// Everything else sits behind the shared secret
	r.Group(func(r chi.Router) {
		r.Use(RequireAPIKey(cfg.APIKey))

		// Calendar
		r.Get("/slots", listSlotsHandler(cfg.Bookings))
		r.Post("/book", bookHandler(cfg.Bookings))
		r.Post("/reschedule", rescheduleHandler(cfg.Bookings))
		r.Post("/cancel", cancelHandler(cfg.Bookings))
		r.Get("/bookings/{id}", getBookingHandler(cfg.Bookings))

		// Messaging
		r.Post("/message/send", sendMessageHandler(cfg.Messages))
		r.Get("/messages", listMessagesHandler(cfg.Messages))

		// Insurance
		r.Post("/insurance/verify", verifyInsuranceHandler())

		// Demo administration
		r.Post("/admin/reseed", reseedHandler(cfg.Store, cfg.Messages, cfg.SlotDays))
	})

	return r
}
