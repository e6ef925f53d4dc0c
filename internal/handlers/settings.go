package handlers

import (
	"LinkKeeper/internal/model"
	"LinkKeeper/internal/service"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// SettingsHandler обслуживает типизированный стор настроек.
type SettingsHandler struct {
	Settings *service.SettingsService
	Activity *service.ActivityService
	Logger   *zap.SugaredLogger
}

func NewSettingsHandler(settings *service.SettingsService, activity *service.ActivityService, logger *zap.SugaredLogger) *SettingsHandler {
	return &SettingsHandler{Settings: settings, Activity: activity, Logger: logger}
}

// GetAll — GET /api/settings: дефолты, перекрытые сохранёнными строками.
// Секреты уходят клиенту маской, сырые значения не покидают сервер.
func (h *SettingsHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	views, err := h.Settings.GetAll(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, views)
}

type settingUpdate struct {
	Key         string `json:"key"`
	Value       string `json:"value"`
	Type        string `json:"type,omitempty"`
	Description string `json:"description,omitempty"`
}

// Update — PUT /api/settings: батч апсертов. Присланная для секретного
// ключа маска оставляет сохранённое значение нетронутым.
func (h *SettingsHandler) Update(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var updates []settingUpdate
	if err := json.NewDecoder(r.Body).Decode(&updates); err != nil || len(updates) == 0 {
		writeError(w, service.ErrValidation)
		return
	}

	var failed error
	applied := 0
	for _, u := range updates {
		if err := h.Settings.Set(r.Context(), u.Key, u.Value, u.Type, u.Description); err != nil {
			failed = fmt.Errorf("%w: key %q", err, u.Key)
			break
		}
		applied++
	}

	m := requestMeta(r)
	if h.Activity != nil {
		status := model.ActivitySuccess
		if failed != nil {
			status = model.ActivityFailed
		}
		h.Activity.Record(r.Context(), service.Entry{
			Action:   model.ActionSettingsUpdate,
			Resource: "settings",
			Actor:    m.Actor,
			Status:   status,
			Duration: time.Since(start),
			Err:      failed,
			Details:  fmt.Sprintf(`{"applied":%d}`, applied),
			IP:       m.IP,
		})
	}

	if failed != nil {
		writeError(w, failed)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"applied": applied})
}
