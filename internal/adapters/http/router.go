package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/amani-patrick/Amnii-WAF/internal/application"
)

// Handler is the HTTP adapter entrypoint for the billing control plane.
// Keeping only the application dependency here preserves clean adapter boundaries.
type Handler struct {
	service *application.Service
}

// NewHandler constructs an HTTP handler bound to the application service.
func NewHandler(service *application.Service) *Handler {
	return &Handler{service: service}
}

// NewRouter registers routes and the middleware stack. Payment endpoints sit
// behind the bearer-token gate; registration, login, and the plan catalog are
// public.
func NewRouter(handler *Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(requestIDMiddleware)
	r.Use(recoverMiddleware)
	r.Use(loggingMiddleware)

	r.Get("/healthz", handler.healthz)
	r.Get("/readyz", handler.readyz)

	r.Post("/register", handler.register)
	r.Post("/login", handler.login)
	r.Get("/plans", handler.listPlans)

	r.Group(func(r chi.Router) {
		r.Use(handler.authMiddleware)
		r.Post("/payment", handler.charge)
		r.Get("/payments", handler.listPayments)
	})

	return r
}
