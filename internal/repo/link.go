package repo

import (
	"LinkKeeper/internal/model"
	"context"
	"time"

	"gorm.io/gorm"
)

// LinkFilter — параметры выборки публичного каталога и ревью-списков.
type LinkFilter struct {
	Status   string
	Category string // финальная категория: user_category, иначе ai_category
	Tag      string
	Domain   string
	Month    string // "2006-01" по published_at
	IDs      []uint
	Page     int
	PageSize int
}

// LinkRepository — контракт доступа к ссылкам для слоя сервиса.
type LinkRepository interface {
	Create(ctx context.Context, link *model.Link) error
	GetByID(ctx context.Context, id uint) (*model.Link, error)

	// UpdateWhereStatus выполняет условный UPDATE: изменения применяются
	// только если текущий статус строки входит в from. Возвращает число
	// затронутых строк — 0 означает проигранную гонку за переход.
	UpdateWhereStatus(ctx context.Context, id uint, from []string, updates map[string]any) (int64, error)

	List(ctx context.Context, f LinkFilter) ([]model.Link, int64, error)
	ListPublished(ctx context.Context) ([]model.Link, error)
}

type linkRepo struct {
	db *gorm.DB
}

// NewLinkRepository создаёт gorm-реализацию репозитория ссылок.
func NewLinkRepository(db *gorm.DB) LinkRepository {
	return &linkRepo{db: db}
}

func (r *linkRepo) Create(ctx context.Context, link *model.Link) error {
	return r.db.WithContext(ctx).Create(link).Error
}

func (r *linkRepo) GetByID(ctx context.Context, id uint) (*model.Link, error) {
	var link model.Link
	if err := r.db.WithContext(ctx).First(&link, id).Error; err != nil {
		return nil, err
	}
	return &link, nil
}

func (r *linkRepo) UpdateWhereStatus(ctx context.Context, id uint, from []string, updates map[string]any) (int64, error) {
	tx := r.db.WithContext(ctx).
		Model(&model.Link{}).
		Where("id = ? AND status IN ?", id, from).
		Updates(updates)
	return tx.RowsAffected, tx.Error
}

func (r *linkRepo) List(ctx context.Context, f LinkFilter) ([]model.Link, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.Link{})

	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if len(f.IDs) > 0 {
		q = q.Where("id IN ?", f.IDs)
	}
	if f.Category != "" {
		q = q.Where("COALESCE(user_category, ai_category) = ?", f.Category)
	}
	if f.Tag != "" {
		// Теги хранятся JSON-массивом строк, ищем точное вхождение элемента.
		q = q.Where(`COALESCE(user_tags, ai_tags) LIKE ?`, `%"`+f.Tag+`"%`)
	}
	if f.Domain != "" {
		q = q.Where("domain = ?", f.Domain)
	}
	if f.Month != "" {
		if start, err := time.Parse("2006-01", f.Month); err == nil {
			end := start.AddDate(0, 1, 0)
			q = q.Where("published_at >= ? AND published_at < ?", start, end)
		}
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if f.PageSize > 0 {
		page := f.Page
		if page < 1 {
			page = 1
		}
		q = q.Offset((page - 1) * f.PageSize).Limit(f.PageSize)
	}

	var links []model.Link
	if err := q.Order("created_at DESC, id DESC").Find(&links).Error; err != nil {
		return nil, 0, err
	}
	return links, total, nil
}

func (r *linkRepo) ListPublished(ctx context.Context) ([]model.Link, error) {
	var links []model.Link
	err := r.db.WithContext(ctx).
		Where("status = ?", model.StatusPublished).
		Find(&links).Error
	return links, err
}
