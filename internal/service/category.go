package service

import (
	"LinkKeeper/internal/model"
	"LinkKeeper/internal/repo"
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"go.uber.org/zap"
)

// CategoryService — реестр рубрик каталога.
type CategoryService struct {
	repo     repo.CategoryRepository
	activity *ActivityService
	logger   *zap.SugaredLogger
}

func NewCategoryService(r repo.CategoryRepository, activity *ActivityService, logger *zap.SugaredLogger) *CategoryService {
	return &CategoryService{repo: r, activity: activity, logger: logger}
}

// Системные рубрики первого запуска. Повторный посев ничего не перетирает.
var seedCategories = []model.Category{
	{Name: model.DefaultCategoryName, Slug: "uncategorized", Icon: "folder", Color: "#9ca3af", Description: "Catch-all bucket", DisplayOrder: 0},
	{Name: "Technology", Slug: "technology", Icon: "cpu", Color: "#3b82f6", DisplayOrder: 1},
	{Name: "Design", Slug: "design", Icon: "palette", Color: "#ec4899", DisplayOrder: 2},
	{Name: "Tools", Slug: "tools", Icon: "wrench", Color: "#f59e0b", DisplayOrder: 3},
	{Name: "Reading", Slug: "reading", Icon: "book", Color: "#10b981", DisplayOrder: 4},
}

// Seed заливает системные рубрики, не трогая существующие.
func (s *CategoryService) Seed(ctx context.Context) error {
	for i := range seedCategories {
		c := seedCategories[i]
		if err := s.repo.SeedIfAbsent(ctx, &c); err != nil {
			return err
		}
	}
	return nil
}

// List возвращает рубрики в порядке display_order.
func (s *CategoryService) List(ctx context.Context) ([]model.Category, error) {
	return s.repo.List(ctx)
}

// ActiveNames — имена активных рубрик для промпта AI.
func (s *CategoryService) ActiveNames(ctx context.Context) ([]string, error) {
	cs, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(cs))
	for _, c := range cs {
		if c.IsActive {
			names = append(names, c.Name)
		}
	}
	return names, nil
}

// Create добавляет рубрику в конец списка.
func (s *CategoryService) Create(ctx context.Context, c *model.Category, actor, ip string) error {
	start := time.Now()

	err := s.create(ctx, c)

	s.activity.Record(ctx, Entry{
		Action:     model.ActionCategoryCreate,
		Resource:   "category",
		ResourceID: c.Name,
		Actor:      actor,
		Status:     statusOf(err),
		Duration:   time.Since(start),
		Err:        err,
		IP:         ip,
	})
	return err
}

func (s *CategoryService) create(ctx context.Context, c *model.Category) error {
	c.Name = strings.TrimSpace(c.Name)
	if c.Name == "" {
		return fmt.Errorf("%w: category name is required", ErrValidation)
	}
	if c.Slug == "" {
		c.Slug = slugify(c.Name)
	}
	c.IsActive = true

	existing, err := s.repo.List(ctx)
	if err != nil {
		return err
	}
	c.DisplayOrder = len(existing)

	return s.repo.Create(ctx, c)
}

// Update правит поля рубрики по id.
func (s *CategoryService) Update(ctx context.Context, id uint, updates map[string]any, actor, ip string) error {
	start := time.Now()

	err := s.update(ctx, id, updates)

	s.activity.Record(ctx, Entry{
		Action:     model.ActionCategoryUpdate,
		Resource:   "category",
		ResourceID: fmt.Sprint(id),
		Actor:      actor,
		Status:     statusOf(err),
		Duration:   time.Since(start),
		Err:        err,
		IP:         ip,
	})
	return err
}

func (s *CategoryService) update(ctx context.Context, id uint, updates map[string]any) error {
	if name, ok := updates["name"].(string); ok && strings.TrimSpace(name) == "" {
		return fmt.Errorf("%w: category name is required", ErrValidation)
	}
	rows, err := s.repo.Update(ctx, id, updates)
	if err != nil {
		return err
	}
	if rows == 0 {
		return fmt.Errorf("%w: category %d", ErrNotFound, id)
	}
	return nil
}

// Delete удаляет рубрику. Системную рубрику по умолчанию удалить нельзя;
// ссылки, ссылающиеся на удалённую рубрику, сохраняют устаревшую строку.
func (s *CategoryService) Delete(ctx context.Context, id uint, actor, ip string) error {
	start := time.Now()

	err := s.delete(ctx, id)

	s.activity.Record(ctx, Entry{
		Action:     model.ActionCategoryDelete,
		Resource:   "category",
		ResourceID: fmt.Sprint(id),
		Actor:      actor,
		Status:     statusOf(err),
		Duration:   time.Since(start),
		Err:        err,
		IP:         ip,
	})
	return err
}

func (s *CategoryService) delete(ctx context.Context, id uint) error {
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) || isRecordNotFound(err) {
			return fmt.Errorf("%w: category %d", ErrNotFound, id)
		}
		return err
	}
	if c.Name == model.DefaultCategoryName {
		return ErrDefaultCategory
	}
	_, err = s.repo.Delete(ctx, id)
	return err
}

// Reorder присваивает display_order по порядку переданных id.
func (s *CategoryService) Reorder(ctx context.Context, ids []uint, actor, ip string) error {
	start := time.Now()

	var err error
	for i, id := range ids {
		if _, uerr := s.repo.Update(ctx, id, map[string]any{"display_order": i}); uerr != nil {
			err = uerr
			break
		}
	}

	s.activity.Record(ctx, Entry{
		Action:   model.ActionCategoryUpdate,
		Resource: "category",
		Actor:    actor,
		Status:   statusOf(err),
		Duration: time.Since(start),
		Err:      err,
		Details:  fmt.Sprintf(`{"reordered":%d}`, len(ids)),
		IP:       ip,
	})
	return err
}

var nonSlugRe = regexp.MustCompile(`[^a-z0-9]+`)

func slugify(name string) string {
	s := nonSlugRe.ReplaceAllString(strings.ToLower(name), "-")
	return strings.Trim(s, "-")
}
