package handlers

import (
	"LinkKeeper/internal/repo"
	"LinkKeeper/internal/service"
	"net/http"

	"go.uber.org/zap"
)

// ActivityHandler отдаёт журнал аудита.
type ActivityHandler struct {
	Activity *service.ActivityService
	Logger   *zap.SugaredLogger
}

func NewActivityHandler(activity *service.ActivityService, logger *zap.SugaredLogger) *ActivityHandler {
	return &ActivityHandler{Activity: activity, Logger: logger}
}

// List — GET /api/activity: постранично, с фильтрами.
func (h *ActivityHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page := queryInt(r, "page")

	entries, total, err := h.Activity.List(r.Context(), repo.ActivityFilter{
		Action:   q.Get("action"),
		Resource: q.Get("resource"),
		Status:   q.Get("status"),
		Actor:    q.Get("actor"),
		Search:   q.Get("search"),
		Page:     page,
		PageSize: queryInt(r, "page_size"),
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, pageResponse{Items: entries, Total: total, Page: max(page, 1)})
}
