package repo

import (
	"LinkKeeper/internal/model"
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SettingRepository — контракт доступа к настройкам.
type SettingRepository interface {
	Get(ctx context.Context, key string) (*model.Setting, error)
	GetAll(ctx context.Context) ([]model.Setting, error)

	// Upsert: сначала UPDATE по ключу; если строк не затронуто — INSERT.
	Upsert(ctx context.Context, s *model.Setting) error

	// SeedIfAbsent вставляет строку только если ключа ещё нет.
	// Повторный посев не перетирает сохранённые значения.
	SeedIfAbsent(ctx context.Context, s *model.Setting) error
}

type settingRepo struct {
	db *gorm.DB
}

// NewSettingRepository создаёт gorm-реализацию репозитория настроек.
func NewSettingRepository(db *gorm.DB) SettingRepository {
	return &settingRepo{db: db}
}

func (r *settingRepo) Get(ctx context.Context, key string) (*model.Setting, error) {
	var s model.Setting
	if err := r.db.WithContext(ctx).Where("key = ?", key).First(&s).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *settingRepo) GetAll(ctx context.Context) ([]model.Setting, error) {
	var ss []model.Setting
	err := r.db.WithContext(ctx).Order("key").Find(&ss).Error
	return ss, err
}

func (r *settingRepo) Upsert(ctx context.Context, s *model.Setting) error {
	tx := r.db.WithContext(ctx).
		Model(&model.Setting{}).
		Where("key = ?", s.Key).
		Updates(map[string]any{
			"value":       s.Value,
			"type":        s.Type,
			"description": s.Description,
		})
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected > 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *settingRepo) SeedIfAbsent(ctx context.Context, s *model.Setting) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoNothing: true,
	}).Create(s).Error
}
