package http

import (
	"net/http"

	"github.com/amani-patrick/Amnii-WAF/internal/application"
)

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	var req application.RegisterRequest
	if err := decodeBody(r, &req); err != nil {
		writeValidationError(r.Context(), w, "register", err)
		return
	}
	req.IPAddress = readIP(r)

	account, err := h.service.Register(r.Context(), req)
	if err != nil {
		writeMappedError(r.Context(), w, "register", err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"message": "account created",
		"account": account,
	})
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req application.LoginRequest
	if err := decodeBody(r, &req); err != nil {
		writeValidationError(r.Context(), w, "login", err)
		return
	}
	req.IPAddress = readIP(r)
	req.UserAgent = r.UserAgent()

	res, err := h.service.Login(r.Context(), req)
	if err != nil {
		writeMappedError(r.Context(), w, "login", err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *Handler) listPlans(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"plans": h.service.ListPlans(r.Context()),
	})
}
