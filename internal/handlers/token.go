package handlers

import (
	"LinkKeeper/internal/service"
	"encoding/json"
	"net/http"

	"go.uber.org/zap"
)

// TokenHandler обслуживает выпуск и отзыв bearer-токенов.
type TokenHandler struct {
	Tokens *service.TokenService
	Logger *zap.SugaredLogger
}

func NewTokenHandler(tokens *service.TokenService, logger *zap.SugaredLogger) *TokenHandler {
	return &TokenHandler{Tokens: tokens, Logger: logger}
}

// List — GET /api/tokens: без сырых значений.
func (h *TokenHandler) List(w http.ResponseWriter, r *http.Request) {
	ts, err := h.Tokens.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ts)
}

// Create — POST /api/tokens. Сырое значение возвращается один раз
// и больше никогда не отдаётся.
func (h *TokenHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, service.ErrValidation)
		return
	}

	m := requestMeta(r)
	t, value, err := h.Tokens.Issue(r.Context(), req.Name, m.Actor, m.IP)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"id":    t.ID,
		"name":  t.Name,
		"token": value,
	})
}

// Revoke — POST /api/tokens/{id}/revoke. Необратимо.
func (h *TokenHandler) Revoke(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, err)
		return
	}
	m := requestMeta(r)
	if err := h.Tokens.Revoke(r.Context(), id, m.Actor, m.IP); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"id": id, "status": "revoked"})
}
