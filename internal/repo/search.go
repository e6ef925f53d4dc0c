package repo

import (
	"LinkKeeper/internal/model"
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SearchRepository — доступ к денормализованному полнотекстовому индексу.
type SearchRepository interface {
	// Upsert вставляет либо перезаписывает строку индекса по link_id.
	Upsert(ctx context.Context, row *model.LinkSearchIndex) error
	Delete(ctx context.Context, linkID uint) error

	// Search возвращает id опубликованных ссылок, у которых запрос
	// встречается в одном из индексируемых полей; свежие — первыми.
	Search(ctx context.Context, query string) ([]uint, error)

	ListIDs(ctx context.Context) ([]uint, error)
	DeleteExcept(ctx context.Context, keep []uint) error
}

type searchRepo struct {
	db *gorm.DB
}

// NewSearchRepository создаёт gorm-реализацию репозитория индекса.
func NewSearchRepository(db *gorm.DB) SearchRepository {
	return &searchRepo{db: db}
}

func (r *searchRepo) Upsert(ctx context.Context, row *model.LinkSearchIndex) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "link_id"}},
		UpdateAll: true,
	}).Create(row).Error
}

func (r *searchRepo) Delete(ctx context.Context, linkID uint) error {
	return r.db.WithContext(ctx).
		Delete(&model.LinkSearchIndex{}, "link_id = ?", linkID).Error
}

func (r *searchRepo) Search(ctx context.Context, query string) ([]uint, error) {
	like := "%" + query + "%"
	var ids []uint
	err := r.db.WithContext(ctx).
		Model(&model.LinkSearchIndex{}).
		Where("title LIKE ? OR description LIKE ? OR tags LIKE ? OR domain LIKE ? OR category LIKE ?",
			like, like, like, like, like).
		Order("updated_at DESC").
		Pluck("link_id", &ids).Error
	return ids, err
}

func (r *searchRepo) ListIDs(ctx context.Context) ([]uint, error) {
	var ids []uint
	err := r.db.WithContext(ctx).
		Model(&model.LinkSearchIndex{}).
		Pluck("link_id", &ids).Error
	return ids, err
}

func (r *searchRepo) DeleteExcept(ctx context.Context, keep []uint) error {
	q := r.db.WithContext(ctx)
	if len(keep) == 0 {
		return q.Where("1 = 1").Delete(&model.LinkSearchIndex{}).Error
	}
	return q.Where("link_id NOT IN ?", keep).Delete(&model.LinkSearchIndex{}).Error
}
