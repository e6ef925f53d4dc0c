package repo

import (
	"LinkKeeper/internal/model"
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// TokenRepository — контракт доступа к API-токенам.
type TokenRepository interface {
	Create(ctx context.Context, t *model.ApiToken) error

	// CreateIfAbsent пытается создать токен; при конфликте по имени ничего
	// не делает. created=true, если запись создана именно этой операцией.
	// Используется бутстрапом первого запуска: гонка двух стартов даёт
	// ровно один токен за счёт уникального индекса, без прикладных локов.
	CreateIfAbsent(ctx context.Context, t *model.ApiToken) (created bool, err error)

	GetByValue(ctx context.Context, token string) (*model.ApiToken, error)
	GetByID(ctx context.Context, id uint) (*model.ApiToken, error)
	List(ctx context.Context) ([]model.ApiToken, error)
	Count(ctx context.Context) (int64, error)
	MarkUsed(ctx context.Context, id uint, at time.Time, ip string) error
	Revoke(ctx context.Context, id uint, at time.Time) (int64, error)
}

type tokenRepo struct {
	db *gorm.DB
}

// NewTokenRepository создаёт gorm-реализацию репозитория токенов.
func NewTokenRepository(db *gorm.DB) TokenRepository {
	return &tokenRepo{db: db}
}

func (r *tokenRepo) Create(ctx context.Context, t *model.ApiToken) error {
	return r.db.WithContext(ctx).Create(t).Error
}

func (r *tokenRepo) CreateIfAbsent(ctx context.Context, t *model.ApiToken) (bool, error) {
	tx := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoNothing: true,
	}).Create(t)
	if tx.Error != nil {
		return false, tx.Error
	}
	return tx.RowsAffected > 0, nil
}

func (r *tokenRepo) GetByValue(ctx context.Context, token string) (*model.ApiToken, error) {
	var t model.ApiToken
	if err := r.db.WithContext(ctx).Where("token = ?", token).First(&t).Error; err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *tokenRepo) GetByID(ctx context.Context, id uint) (*model.ApiToken, error) {
	var t model.ApiToken
	if err := r.db.WithContext(ctx).First(&t, id).Error; err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *tokenRepo) List(ctx context.Context) ([]model.ApiToken, error) {
	var ts []model.ApiToken
	err := r.db.WithContext(ctx).Order("created_at DESC").Find(&ts).Error
	return ts, err
}

func (r *tokenRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.ApiToken{}).Count(&n).Error
	return n, err
}

func (r *tokenRepo) MarkUsed(ctx context.Context, id uint, at time.Time, ip string) error {
	return r.db.WithContext(ctx).
		Model(&model.ApiToken{}).
		Where("id = ?", id).
		Updates(map[string]any{"last_used_at": at, "last_used_ip": ip}).Error
}

func (r *tokenRepo) Revoke(ctx context.Context, id uint, at time.Time) (int64, error) {
	// Условный UPDATE: уже отозванный токен не трогаем.
	tx := r.db.WithContext(ctx).
		Model(&model.ApiToken{}).
		Where("id = ? AND status = ?", id, model.TokenActive).
		Updates(map[string]any{"status": model.TokenRevoked, "revoked_at": at})
	return tx.RowsAffected, tx.Error
}
