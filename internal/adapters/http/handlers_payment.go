package http

import (
	"net/http"
	"strings"

	"github.com/amani-patrick/Amnii-WAF/internal/application"
)

func (h *Handler) charge(w http.ResponseWriter, r *http.Request) {
	claims, ok := requireClaims(w, r)
	if !ok {
		return
	}

	var req application.ChargeRequest
	if err := decodeBody(r, &req); err != nil {
		writeValidationError(r.Context(), w, "charge", err)
		return
	}
	req.IdempotencyKey = strings.TrimSpace(r.Header.Get("Idempotency-Key"))

	payment, err := h.service.Charge(r.Context(), claims.AccountID, req)
	if err != nil {
		writeMappedError(r.Context(), w, "charge", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message": "payment recorded",
		"payment": payment,
	})
}

func (h *Handler) listPayments(w http.ResponseWriter, r *http.Request) {
	claims, ok := requireClaims(w, r)
	if !ok {
		return
	}

	limit := parseIntDefault(r.URL.Query().Get("limit"), 20)
	offset := parseIntDefault(r.URL.Query().Get("offset"), 0)

	payments, err := h.service.ListPayments(r.Context(), claims.AccountID, limit, offset)
	if err != nil {
		writeMappedError(r.Context(), w, "list_payments", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"payments": payments,
	})
}
