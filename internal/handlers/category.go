package handlers

import (
	"LinkKeeper/internal/model"
	"LinkKeeper/internal/service"
	"encoding/json"
	"net/http"

	"go.uber.org/zap"
)

// CategoryHandler обслуживает реестр рубрик.
type CategoryHandler struct {
	Categories *service.CategoryService
	Logger     *zap.SugaredLogger
}

func NewCategoryHandler(categories *service.CategoryService, logger *zap.SugaredLogger) *CategoryHandler {
	return &CategoryHandler{Categories: categories, Logger: logger}
}

// List — GET /api/categories: рубрики в порядке display_order.
func (h *CategoryHandler) List(w http.ResponseWriter, r *http.Request) {
	cs, err := h.Categories.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, cs)
}

type categoryRequest struct {
	Name        string `json:"name"`
	Slug        string `json:"slug,omitempty"`
	Icon        string `json:"icon,omitempty"`
	Color       string `json:"color,omitempty"`
	Description string `json:"description,omitempty"`
	IsActive    *bool  `json:"is_active,omitempty"`
}

// Create — POST /api/categories.
func (h *CategoryHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req categoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, service.ErrValidation)
		return
	}

	c := model.Category{
		Name:        req.Name,
		Slug:        req.Slug,
		Icon:        req.Icon,
		Color:       req.Color,
		Description: req.Description,
	}
	if err := h.Categories.Create(r.Context(), &c, requestMeta(r).Actor, requestMeta(r).IP); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, c)
}

// Update — PUT /api/categories/{id}.
func (h *CategoryHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, err)
		return
	}

	var req categoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, service.ErrValidation)
		return
	}

	updates := map[string]any{}
	if req.Name != "" {
		updates["name"] = req.Name
	}
	if req.Slug != "" {
		updates["slug"] = req.Slug
	}
	if req.Icon != "" {
		updates["icon"] = req.Icon
	}
	if req.Color != "" {
		updates["color"] = req.Color
	}
	if req.Description != "" {
		updates["description"] = req.Description
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}

	m := requestMeta(r)
	if err := h.Categories.Update(r.Context(), id, updates, m.Actor, m.IP); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"id": id})
}

// Delete — DELETE /api/categories/{id}; системная рубрика защищена.
func (h *CategoryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, err)
		return
	}
	m := requestMeta(r)
	if err := h.Categories.Delete(r.Context(), id, m.Actor, m.IP); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"id": id})
}

// Reorder — POST /api/categories/reorder: display_order по порядку id.
func (h *CategoryHandler) Reorder(w http.ResponseWriter, r *http.Request) {
	var req struct {
		IDs []uint `json:"ids"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || len(req.IDs) == 0 {
		writeError(w, service.ErrValidation)
		return
	}
	m := requestMeta(r)
	if err := h.Categories.Reorder(r.Context(), req.IDs, m.Actor, m.IP); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
