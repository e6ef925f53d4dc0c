package handlers

import (
	"LinkKeeper/internal/middleware"
	"LinkKeeper/internal/service"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError мапит ошибки сервиса в HTTP-статусы.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, service.ErrValidation):
		status = http.StatusBadRequest
	case errors.Is(err, service.ErrLoginFailed), errors.Is(err, service.ErrInvalidToken):
		status = http.StatusUnauthorized
	case errors.Is(err, service.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, service.ErrNotPending),
		errors.Is(err, service.ErrTransition),
		errors.Is(err, service.ErrDefaultCategory):
		status = http.StatusConflict
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

// requestMeta — атрибуция вызова из контекста запроса.
func requestMeta(r *http.Request) service.Meta {
	actor, _ := middleware.GetActorFromContext(r.Context())
	return service.Meta{
		Actor: actor,
		IP:    middleware.GetIPFromContext(r.Context()),
	}
}

// idParam разбирает числовой {id} из пути.
func idParam(r *http.Request) (uint, error) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, service.ErrValidation
	}
	return uint(id), nil
}

func queryInt(r *http.Request, key string) int {
	v, _ := strconv.Atoi(r.URL.Query().Get(key))
	return v
}
