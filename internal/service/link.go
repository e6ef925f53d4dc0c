package service

import (
	"LinkKeeper/internal/ai"
	"LinkKeeper/internal/model"
	"LinkKeeper/internal/repo"
	"LinkKeeper/internal/scrape"
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
)

// ContentScraper — контракт подсистемы скрейпинга.
type ContentScraper interface {
	Scrape(ctx context.Context, url string) (*scrape.Result, error)
}

// ContentAnalyzer — контракт подсистемы AI-анализа.
type ContentAnalyzer interface {
	Analyze(ctx context.Context, in ai.Input, cfg ai.Settings) (*ai.Analysis, error)
}

// Действия машины состояний ссылки.
type linkAction string

const (
	actionConfirm linkAction = "confirm"
	actionUpdate  linkAction = "update"
	actionDelete  linkAction = "delete"
	actionRestore linkAction = "restore"
)

// transitions — таблица переходов: действие → допустимые исходные статусы.
// Легальность перехода проверяется в одном месте, а не по хендлерам.
var transitions = map[linkAction][]string{
	actionConfirm: {model.StatusPending},
	actionUpdate:  {model.StatusPublished},
	actionDelete:  {model.StatusPending, model.StatusPublished},
	actionRestore: {model.StatusDeleted},
}

func allowedFrom(a linkAction, status string) bool {
	for _, st := range transitions[a] {
		if st == status {
			return true
		}
	}
	return false
}

// Meta — атрибуция вызова для журнала аудита.
type Meta struct {
	Actor string
	IP    string
}

// LinkService — жизненный цикл ссылки: ингест, подтверждение, публикация,
// мягкое удаление, восстановление и батч-варианты.
type LinkService struct {
	links      repo.LinkRepository
	search     *SearchService
	activity   *ActivityService
	settings   *SettingsService
	categories *CategoryService
	scraper    ContentScraper
	analyzer   ContentAnalyzer
	logger     *zap.SugaredLogger
}

func NewLinkService(
	links repo.LinkRepository,
	search *SearchService,
	activity *ActivityService,
	settings *SettingsService,
	categories *CategoryService,
	scraper ContentScraper,
	analyzer ContentAnalyzer,
	logger *zap.SugaredLogger,
) *LinkService {
	return &LinkService{
		links:      links,
		search:     search,
		activity:   activity,
		settings:   settings,
		categories: categories,
		scraper:    scraper,
		analyzer:   analyzer,
		logger:     logger,
	}
}

// AddRequest — параметры ингеста.
type AddRequest struct {
	URL         string
	SkipConfirm bool
	// Direct — прямой ингест (шорткаты/автоматизация): публикация сразу,
	// user-поля только из пресетов.
	Direct   bool
	Category string
	Tags     []string
}

// Add прогоняет URL через scrape → analyze → build → create.
// Отказ скрейпа или AI не валит операцию: ссылка создаётся с
// ai_analysis_failed=true и фолбэк-полями.
func (s *LinkService) Add(ctx context.Context, req AddRequest, m Meta) (*model.Link, error) {
	start := time.Now()

	link, err := s.add(ctx, req)

	resourceID := ""
	if link != nil {
		resourceID = fmt.Sprint(link.ID)
	}
	s.activity.Record(ctx, Entry{
		Action:     model.ActionLinkAdd,
		Resource:   "link",
		ResourceID: resourceID,
		Actor:      m.Actor,
		Status:     statusOf(err),
		Duration:   time.Since(start),
		Err:        err,
		Details:    fmt.Sprintf(`{"url":%q,"skip_confirm":%v,"direct":%v}`, req.URL, req.SkipConfirm, req.Direct),
		IP:         m.IP,
	})
	return link, err
}

func (s *LinkService) add(ctx context.Context, req AddRequest) (*model.Link, error) {
	u, err := url.Parse(strings.TrimSpace(req.URL))
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("%w: invalid url %q", ErrValidation, req.URL)
	}

	var scraped ScrapedContent
	var analysis *ai.Analysis
	var aiErr string

	res, scrapeErr := s.scraper.Scrape(ctx, u.String())
	if scrapeErr != nil {
		// Скрейп не удался: анализировать нечего, деградируем до фолбэка.
		aiErr = scrapeErr.Error()
		if s.logger != nil {
			s.logger.Warnw("link: scrape failed", "url", u.String(), "error", scrapeErr)
		}
	} else {
		scraped = ScrapedContent{Title: res.Title, Description: res.Description}

		names, err := s.categories.ActiveNames(ctx)
		if err != nil {
			return nil, err
		}

		aiCtx, cancel := context.WithTimeout(ctx, s.AITimeout(ctx))
		analysis, err = s.analyzer.Analyze(aiCtx, ai.Input{
			URL:        u.String(),
			Title:      res.Title,
			Content:    res.Content,
			Categories: names,
		}, s.settings.AISettings(ctx))
		cancel()
		if err != nil {
			analysis = nil
			aiErr = err.Error()
			if s.logger != nil {
				s.logger.Warnw("link: ai analysis failed", "url", u.String(), "error", err)
			}
		}
	}

	link := BuildLink(BuildParams{
		URL:             u.String(),
		Domain:          u.Hostname(),
		Scraped:         scraped,
		Analysis:        analysis,
		AIError:         aiErr,
		SkipConfirm:     req.SkipConfirm,
		PresetCategory:  req.Category,
		PresetTags:      req.Tags,
		ForceUserFields: req.Direct,
		DefaultCategory: model.DefaultCategoryName,
		Now:             time.Now().UTC(),
	})

	if err := s.links.Create(ctx, &link); err != nil {
		return nil, err
	}

	// Запись индекса строго после записи ссылки.
	if link.Status == model.StatusPublished {
		if err := s.search.OnPublish(ctx, &link); err != nil {
			return nil, err
		}
	}
	return &link, nil
}

// AITimeout — таймаут AI-вызова из настроек.
func (s *LinkService) AITimeout(ctx context.Context) time.Duration {
	return s.settings.AITimeout(ctx)
}

// ConfirmEdits — правки ревью. nil-поля не меняются.
type ConfirmEdits struct {
	Title       *string
	Description string
	Category    string
	Tags        []string
	ReadingTime *int
}

// Confirm финализирует pending-ссылку. edits == nil (батч-путь) принимает
// AI-поля как финальные. publish=false сохраняет черновик, оставляя pending.
// Переход из pending защищён условным UPDATE: из двух конкурирующих
// подтверждений выигрывает ровно одно, проигравший получает ErrNotPending.
func (s *LinkService) Confirm(ctx context.Context, id uint, edits *ConfirmEdits, publish bool, m Meta) (*model.Link, error) {
	start := time.Now()

	link, err := s.confirm(ctx, id, edits, publish)

	action := model.ActionLinkConfirm
	if publish {
		action = model.ActionLinkPublish
	}
	s.activity.Record(ctx, Entry{
		Action:     action,
		Resource:   "link",
		ResourceID: fmt.Sprint(id),
		Actor:      m.Actor,
		Status:     statusOf(err),
		Duration:   time.Since(start),
		Err:        err,
		IP:         m.IP,
	})
	return link, err
}

func (s *LinkService) confirm(ctx context.Context, id uint, edits *ConfirmEdits, publish bool) (*model.Link, error) {
	link, err := s.getLink(ctx, id)
	if err != nil {
		return nil, err
	}
	if !allowedFrom(actionConfirm, link.Status) {
		return nil, fmt.Errorf("%w: link %d has status %q", ErrNotPending, id, link.Status)
	}

	var description, category string
	var tags []string
	updates := map[string]any{}

	if edits == nil {
		// Принять как есть: AI-выход становится финальной проекцией.
		description = link.AISummary
		category = link.AICategory
		tags = decodeTags(link.AITags)
	} else {
		if edits.Title != nil {
			if strings.TrimSpace(*edits.Title) == "" {
				return nil, fmt.Errorf("%w: title must not be empty", ErrValidation)
			}
			updates["title"] = strings.TrimSpace(*edits.Title)
		}
		description = strings.TrimSpace(edits.Description)
		if description == "" {
			return nil, fmt.Errorf("%w: description is required", ErrValidation)
		}
		category = strings.TrimSpace(edits.Category)
		if category == "" {
			return nil, fmt.Errorf("%w: category is required", ErrValidation)
		}
		tags = edits.Tags
		if edits.ReadingTime != nil {
			if *edits.ReadingTime < 1 {
				return nil, fmt.Errorf("%w: reading time must be a positive integer", ErrValidation)
			}
			updates["ai_reading_time"] = *edits.ReadingTime
		}
	}

	updates["user_description"] = description
	updates["user_category"] = category
	updates["user_tags"] = encodeTags(tags)
	if publish {
		updates["status"] = model.StatusPublished
		updates["published_at"] = time.Now().UTC()
	}

	rows, err := s.links.UpdateWhereStatus(ctx, id, transitions[actionConfirm], updates)
	if err != nil {
		return nil, err
	}
	if rows == 0 {
		// Проигранная гонка: кто-то уже увёл ссылку из pending.
		return nil, fmt.Errorf("%w: link %d", ErrNotPending, id)
	}

	link, err = s.getLink(ctx, id)
	if err != nil {
		return nil, err
	}
	if publish {
		if err := s.search.OnPublish(ctx, link); err != nil {
			return nil, err
		}
	}
	return link, nil
}

// UpdateEdits — частичная правка опубликованной ссылки.
type UpdateEdits struct {
	Title       *string
	Description *string
	Category    *string
	Tags        []string
	ReadingTime *int
}

// Update правит опубликованную ссылку без смены статуса и переиндексирует её.
func (s *LinkService) Update(ctx context.Context, id uint, edits UpdateEdits, m Meta) (*model.Link, error) {
	start := time.Now()

	link, err := s.update(ctx, id, edits)

	s.activity.Record(ctx, Entry{
		Action:     model.ActionLinkUpdate,
		Resource:   "link",
		ResourceID: fmt.Sprint(id),
		Actor:      m.Actor,
		Status:     statusOf(err),
		Duration:   time.Since(start),
		Err:        err,
		IP:         m.IP,
	})
	return link, err
}

func (s *LinkService) update(ctx context.Context, id uint, edits UpdateEdits) (*model.Link, error) {
	link, err := s.getLink(ctx, id)
	if err != nil {
		return nil, err
	}
	if !allowedFrom(actionUpdate, link.Status) {
		return nil, fmt.Errorf("%w: cannot update link in %q status", ErrTransition, link.Status)
	}

	updates := map[string]any{}
	if edits.Title != nil {
		if strings.TrimSpace(*edits.Title) == "" {
			return nil, fmt.Errorf("%w: title must not be empty", ErrValidation)
		}
		updates["title"] = strings.TrimSpace(*edits.Title)
	}
	if edits.Description != nil {
		if strings.TrimSpace(*edits.Description) == "" {
			return nil, fmt.Errorf("%w: description must not be empty", ErrValidation)
		}
		updates["user_description"] = strings.TrimSpace(*edits.Description)
	}
	if edits.Category != nil {
		if strings.TrimSpace(*edits.Category) == "" {
			return nil, fmt.Errorf("%w: category must not be empty", ErrValidation)
		}
		updates["user_category"] = strings.TrimSpace(*edits.Category)
	}
	if edits.Tags != nil {
		updates["user_tags"] = encodeTags(edits.Tags)
	}
	if edits.ReadingTime != nil {
		if *edits.ReadingTime < 1 {
			return nil, fmt.Errorf("%w: reading time must be a positive integer", ErrValidation)
		}
		updates["ai_reading_time"] = *edits.ReadingTime
	}
	if len(updates) == 0 {
		return link, nil
	}

	rows, err := s.links.UpdateWhereStatus(ctx, id, transitions[actionUpdate], updates)
	if err != nil {
		return nil, err
	}
	if rows == 0 {
		return nil, fmt.Errorf("%w: link %d is no longer published", ErrTransition, id)
	}

	link, err = s.getLink(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.search.OnPublish(ctx, link); err != nil {
		return nil, err
	}
	return link, nil
}

// SoftDelete переводит ссылку в deleted, не стирая полей: обратимо.
// Опубликованная ссылка пропадает из индекса.
func (s *LinkService) SoftDelete(ctx context.Context, id uint, m Meta) error {
	start := time.Now()

	err := s.softDelete(ctx, id)

	s.activity.Record(ctx, Entry{
		Action:     model.ActionLinkDelete,
		Resource:   "link",
		ResourceID: fmt.Sprint(id),
		Actor:      m.Actor,
		Status:     statusOf(err),
		Duration:   time.Since(start),
		Err:        err,
		IP:         m.IP,
	})
	return err
}

func (s *LinkService) softDelete(ctx context.Context, id uint) error {
	link, err := s.getLink(ctx, id)
	if err != nil {
		return err
	}
	if !allowedFrom(actionDelete, link.Status) {
		return fmt.Errorf("%w: cannot delete link in %q status", ErrTransition, link.Status)
	}
	wasPublished := link.Status == model.StatusPublished

	rows, err := s.links.UpdateWhereStatus(ctx, id, transitions[actionDelete], map[string]any{
		"status": model.StatusDeleted,
	})
	if err != nil {
		return err
	}
	if rows == 0 {
		return fmt.Errorf("%w: link %d already deleted", ErrTransition, id)
	}

	if wasPublished {
		return s.search.OnUnpublish(ctx, id)
	}
	return nil
}

// Restore возвращает удалённую ссылку. Восстановление — всегда
// ре-публикация: published с новым published_at и свежей строкой индекса.
func (s *LinkService) Restore(ctx context.Context, id uint, m Meta) (*model.Link, error) {
	start := time.Now()

	link, err := s.restore(ctx, id)

	s.activity.Record(ctx, Entry{
		Action:     model.ActionLinkRestore,
		Resource:   "link",
		ResourceID: fmt.Sprint(id),
		Actor:      m.Actor,
		Status:     statusOf(err),
		Duration:   time.Since(start),
		Err:        err,
		IP:         m.IP,
	})
	return link, err
}

func (s *LinkService) restore(ctx context.Context, id uint) (*model.Link, error) {
	link, err := s.getLink(ctx, id)
	if err != nil {
		return nil, err
	}
	if !allowedFrom(actionRestore, link.Status) {
		return nil, fmt.Errorf("%w: cannot restore link in %q status", ErrTransition, link.Status)
	}

	rows, err := s.links.UpdateWhereStatus(ctx, id, transitions[actionRestore], map[string]any{
		"status":       model.StatusPublished,
		"published_at": time.Now().UTC(),
	})
	if err != nil {
		return nil, err
	}
	if rows == 0 {
		return nil, fmt.Errorf("%w: link %d is not deleted", ErrTransition, id)
	}

	link, err = s.getLink(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.search.OnPublish(ctx, link); err != nil {
		return nil, err
	}
	return link, nil
}

// BatchResult — исход операции над одним id.
type BatchResult struct {
	ID    uint   `json:"id"`
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

// BatchConfirm подтверждает и публикует ссылки по одной, принимая AI-поля
// как финальные. Итоги — в порядке входных id; один битый id не
// останавливает остальные.
func (s *LinkService) BatchConfirm(ctx context.Context, ids []uint, m Meta) []BatchResult {
	results := make([]BatchResult, 0, len(ids))
	for _, id := range ids {
		_, err := s.Confirm(ctx, id, nil, true, m)
		results = append(results, batchResult(id, err))
	}
	return results
}

// BatchDelete мягко удаляет ссылки по одной; семантика исходов как у BatchConfirm.
func (s *LinkService) BatchDelete(ctx context.Context, ids []uint, m Meta) []BatchResult {
	results := make([]BatchResult, 0, len(ids))
	for _, id := range ids {
		err := s.SoftDelete(ctx, id, m)
		results = append(results, batchResult(id, err))
	}
	return results
}

func batchResult(id uint, err error) BatchResult {
	r := BatchResult{ID: id, OK: err == nil}
	if err != nil {
		r.Error = err.Error()
	}
	return r
}

// CatalogFilter — фильтры публичного каталога.
type CatalogFilter struct {
	Category string
	Tag      string
	Domain   string
	Month    string // "2006-01"
	Search   string
	Page     int
	PageSize int
}

// List — публичная постраничная выборка опубликованных ссылок.
// Текстовый поиск идёт через индекс, структурные фильтры — по колонкам.
func (s *LinkService) List(ctx context.Context, f CatalogFilter) ([]model.Link, int64, error) {
	if f.PageSize <= 0 {
		f.PageSize = s.settings.Int(ctx, KeyCatalogPageSize)
	}
	if f.PageSize <= 0 {
		f.PageSize = 20
	}

	lf := repo.LinkFilter{
		Status:   model.StatusPublished,
		Category: f.Category,
		Tag:      f.Tag,
		Domain:   f.Domain,
		Month:    f.Month,
		Page:     f.Page,
		PageSize: f.PageSize,
	}

	if q := strings.TrimSpace(f.Search); q != "" {
		ids, err := s.search.Search(ctx, q)
		if err != nil {
			return nil, 0, err
		}
		if len(ids) == 0 {
			return []model.Link{}, 0, nil
		}
		lf.IDs = ids
	}

	return s.links.List(ctx, lf)
}

// ListPending — постраничная выборка очереди ревью.
func (s *LinkService) ListPending(ctx context.Context, page, pageSize int) ([]model.Link, int64, error) {
	if pageSize <= 0 {
		pageSize = s.settings.Int(ctx, KeyCatalogPageSize)
	}
	if pageSize <= 0 {
		pageSize = 20
	}
	return s.links.List(ctx, repo.LinkFilter{
		Status:   model.StatusPending,
		Page:     page,
		PageSize: pageSize,
	})
}

// GetPending возвращает полную запись pending-ссылки (AI- и user-поля) для ревью.
func (s *LinkService) GetPending(ctx context.Context, id uint) (*model.Link, error) {
	link, err := s.getLink(ctx, id)
	if err != nil {
		return nil, err
	}
	if link.Status != model.StatusPending {
		return nil, fmt.Errorf("%w: link %d has status %q", ErrNotPending, id, link.Status)
	}
	return link, nil
}

// RebuildIndex пересобирает поисковый индекс из опубликованных ссылок.
func (s *LinkService) RebuildIndex(ctx context.Context) error {
	published, err := s.links.ListPublished(ctx)
	if err != nil {
		return err
	}
	return s.search.Rebuild(ctx, published)
}

func (s *LinkService) getLink(ctx context.Context, id uint) (*model.Link, error) {
	link, err := s.links.GetByID(ctx, id)
	if err != nil {
		if isRecordNotFound(err) {
			return nil, fmt.Errorf("%w: link %d", ErrNotFound, id)
		}
		return nil, err
	}
	return link, nil
}
