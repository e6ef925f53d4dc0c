package repo

import (
	"LinkKeeper/internal/model"
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CategoryRepository — контракт доступа к категориям.
type CategoryRepository interface {
	List(ctx context.Context) ([]model.Category, error)
	GetByID(ctx context.Context, id uint) (*model.Category, error)
	GetByName(ctx context.Context, name string) (*model.Category, error)
	Create(ctx context.Context, c *model.Category) error
	Update(ctx context.Context, id uint, updates map[string]any) (int64, error)
	Delete(ctx context.Context, id uint) (int64, error)
	SeedIfAbsent(ctx context.Context, c *model.Category) error
}

type categoryRepo struct {
	db *gorm.DB
}

// NewCategoryRepository создаёт gorm-реализацию репозитория категорий.
func NewCategoryRepository(db *gorm.DB) CategoryRepository {
	return &categoryRepo{db: db}
}

func (r *categoryRepo) List(ctx context.Context) ([]model.Category, error) {
	var cs []model.Category
	err := r.db.WithContext(ctx).Order("display_order, id").Find(&cs).Error
	return cs, err
}

func (r *categoryRepo) GetByID(ctx context.Context, id uint) (*model.Category, error) {
	var c model.Category
	if err := r.db.WithContext(ctx).First(&c, id).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *categoryRepo) GetByName(ctx context.Context, name string) (*model.Category, error) {
	var c model.Category
	if err := r.db.WithContext(ctx).Where("name = ?", name).First(&c).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *categoryRepo) Create(ctx context.Context, c *model.Category) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *categoryRepo) Update(ctx context.Context, id uint, updates map[string]any) (int64, error) {
	tx := r.db.WithContext(ctx).
		Model(&model.Category{}).
		Where("id = ?", id).
		Updates(updates)
	return tx.RowsAffected, tx.Error
}

func (r *categoryRepo) Delete(ctx context.Context, id uint) (int64, error) {
	tx := r.db.WithContext(ctx).Delete(&model.Category{}, id)
	return tx.RowsAffected, tx.Error
}

func (r *categoryRepo) SeedIfAbsent(ctx context.Context, c *model.Category) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoNothing: true,
	}).Create(c).Error
}
