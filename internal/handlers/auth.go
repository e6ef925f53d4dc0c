package handlers

import (
	"LinkKeeper/internal/middleware"
	"LinkKeeper/internal/service"
	"encoding/json"
	"net/http"

	"go.uber.org/zap"
)

// AuthHandler — вход администратора.
type AuthHandler struct {
	Auth   *service.AuthService
	Logger *zap.SugaredLogger
}

func NewAuthHandler(auth *service.AuthService, logger *zap.SugaredLogger) *AuthHandler {
	return &AuthHandler{Auth: auth, Logger: logger}
}

// Login — POST /api/auth/login: пароль → JWT-сессия.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, service.ErrValidation)
		return
	}

	ip := middleware.GetIPFromContext(r.Context())
	token, err := h.Auth.Login(r.Context(), req.Password, ip)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"token": token})
}
