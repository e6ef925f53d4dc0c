package handlers

import (
	"LinkKeeper/internal/model"
	"LinkKeeper/internal/service"
	"encoding/json"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// LinkHandler обслуживает ингест, ревью и публичный каталог ссылок.
type LinkHandler struct {
	Links  *service.LinkService
	Logger *zap.SugaredLogger
}

func NewLinkHandler(links *service.LinkService, logger *zap.SugaredLogger) *LinkHandler {
	return &LinkHandler{Links: links, Logger: logger}
}

// AddLinkRequest — тело POST /api/links.
type AddLinkRequest struct {
	URL         string   `json:"url"`
	SkipConfirm bool     `json:"skip_confirm,omitempty"`
	Direct      bool     `json:"direct,omitempty"`
	Category    string   `json:"category,omitempty"`
	Tags        []string `json:"tags,omitempty"`
}

// PublicLink — публичная проекция ссылки: только финальные поля.
type PublicLink struct {
	ID          uint       `json:"id"`
	URL         string     `json:"url"`
	Domain      string     `json:"domain"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Category    string     `json:"category"`
	Tags        []string   `json:"tags"`
	ReadingTime int        `json:"reading_time"`
	PublishedAt *time.Time `json:"published_at,omitempty"`
}

func toPublicLink(l model.Link) PublicLink {
	var tags []string
	if err := json.Unmarshal([]byte(l.FinalTags()), &tags); err != nil || tags == nil {
		tags = []string{}
	}
	return PublicLink{
		ID:          l.ID,
		URL:         l.URL,
		Domain:      l.Domain,
		Title:       l.Title,
		Description: l.FinalDescription(),
		Category:    l.FinalCategory(),
		Tags:        tags,
		ReadingTime: l.AIReadingTime,
		PublishedAt: l.PublishedAt,
	}
}

type pageResponse struct {
	Items any   `json:"items"`
	Total int64 `json:"total"`
	Page  int   `json:"page"`
}

// Add — POST /api/links: scrape → analyze → build → create.
func (h *LinkHandler) Add(w http.ResponseWriter, r *http.Request) {
	var req AddLinkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.Logger.Warnw("Add: invalid request body", "error", err)
		writeError(w, service.ErrValidation)
		return
	}

	link, err := h.Links.Add(r.Context(), service.AddRequest{
		URL:         req.URL,
		SkipConfirm: req.SkipConfirm,
		Direct:      req.Direct,
		Category:    req.Category,
		Tags:        req.Tags,
	}, requestMeta(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, link)
}

// GetPending — GET /api/links/pending/{id}: полная запись для ревью.
func (h *LinkHandler) GetPending(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, err)
		return
	}
	link, err := h.Links.GetPending(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, link)
}

// ListPending — GET /api/links/pending: очередь ревью.
func (h *LinkHandler) ListPending(w http.ResponseWriter, r *http.Request) {
	page := queryInt(r, "page")
	links, total, err := h.Links.ListPending(r.Context(), page, queryInt(r, "page_size"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, pageResponse{Items: links, Total: total, Page: max(page, 1)})
}

// ConfirmRequest — тело POST /api/links/{id}/confirm.
type ConfirmRequest struct {
	Title       *string  `json:"title,omitempty"`
	Description string   `json:"description"`
	Category    string   `json:"category"`
	Tags        []string `json:"tags"`
	ReadingTime *int     `json:"reading_time,omitempty"`
	Publish     bool     `json:"publish"`
}

// Confirm — POST /api/links/{id}/confirm.
func (h *LinkHandler) Confirm(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, err)
		return
	}

	var req ConfirmRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.Logger.Warnw("Confirm: invalid request body", "link_id", id, "error", err)
		writeError(w, service.ErrValidation)
		return
	}

	link, err := h.Links.Confirm(r.Context(), id, &service.ConfirmEdits{
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		Tags:        req.Tags,
		ReadingTime: req.ReadingTime,
	}, req.Publish, requestMeta(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, link)
}

// UpdateRequest — тело PUT /api/links/{id}; nil-поля не трогаются.
type UpdateRequest struct {
	Title       *string  `json:"title,omitempty"`
	Description *string  `json:"description,omitempty"`
	Category    *string  `json:"category,omitempty"`
	Tags        []string `json:"tags,omitempty"`
	ReadingTime *int     `json:"reading_time,omitempty"`
}

// Update — PUT /api/links/{id}: правка опубликованной ссылки.
func (h *LinkHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, err)
		return
	}

	var req UpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.Logger.Warnw("Update: invalid request body", "link_id", id, "error", err)
		writeError(w, service.ErrValidation)
		return
	}

	link, err := h.Links.Update(r.Context(), id, service.UpdateEdits{
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		Tags:        req.Tags,
		ReadingTime: req.ReadingTime,
	}, requestMeta(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, link)
}

// Delete — DELETE /api/links/{id}: мягкое удаление.
func (h *LinkHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := h.Links.SoftDelete(r.Context(), id, requestMeta(r)); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"id": id, "status": model.StatusDeleted})
}

// Restore — POST /api/links/{id}/restore: восстановление с ре-публикацией.
func (h *LinkHandler) Restore(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, err)
		return
	}
	link, err := h.Links.Restore(r.Context(), id, requestMeta(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, link)
}

// BatchRequest — тело POST /api/links/batch.
type BatchRequest struct {
	IDs    []uint `json:"ids"`
	Action string `json:"action"` // confirm | delete
}

// Batch — POST /api/links/batch: построчные исходы в порядке входных id.
func (h *LinkHandler) Batch(w http.ResponseWriter, r *http.Request) {
	var req BatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || len(req.IDs) == 0 {
		writeError(w, service.ErrValidation)
		return
	}

	var results []service.BatchResult
	switch req.Action {
	case "confirm":
		results = h.Links.BatchConfirm(r.Context(), req.IDs, requestMeta(r))
	case "delete":
		results = h.Links.BatchDelete(r.Context(), req.IDs, requestMeta(r))
	default:
		writeError(w, service.ErrValidation)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"results": results})
}

// List — GET /api/links: публичный каталог, только финальные поля.
func (h *LinkHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page := queryInt(r, "page")

	links, total, err := h.Links.List(r.Context(), service.CatalogFilter{
		Category: q.Get("category"),
		Tag:      q.Get("tag"),
		Domain:   q.Get("domain"),
		Month:    q.Get("month"),
		Search:   q.Get("search"),
		Page:     page,
		PageSize: queryInt(r, "page_size"),
	})
	if err != nil {
		writeError(w, err)
		return
	}

	items := make([]PublicLink, 0, len(links))
	for _, l := range links {
		items = append(items, toPublicLink(l))
	}
	writeJSON(w, http.StatusOK, pageResponse{Items: items, Total: total, Page: max(page, 1)})
}

// RebuildIndex — POST /api/search/rebuild: пересборка поискового индекса.
func (h *LinkHandler) RebuildIndex(w http.ResponseWriter, r *http.Request) {
	if err := h.Links.RebuildIndex(r.Context()); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
