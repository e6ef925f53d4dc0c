package repo

import (
	"LinkKeeper/internal/model"
	"context"

	"gorm.io/gorm"
)

// ActivityFilter — параметры выборки журнала аудита.
type ActivityFilter struct {
	Action   string
	Resource string
	Status   string
	Actor    string
	Search   string // по error_message и details
	Page     int
	PageSize int
}

// ActivityRepository — append-only доступ к журналу аудита.
// Обновления и удаления контрактом не предусмотрены.
type ActivityRepository interface {
	Create(ctx context.Context, e *model.ActivityLog) error
	List(ctx context.Context, f ActivityFilter) ([]model.ActivityLog, int64, error)
}

type activityRepo struct {
	db *gorm.DB
}

// NewActivityRepository создаёт gorm-реализацию репозитория аудита.
func NewActivityRepository(db *gorm.DB) ActivityRepository {
	return &activityRepo{db: db}
}

func (r *activityRepo) Create(ctx context.Context, e *model.ActivityLog) error {
	return r.db.WithContext(ctx).Create(e).Error
}

func (r *activityRepo) List(ctx context.Context, f ActivityFilter) ([]model.ActivityLog, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.ActivityLog{})

	if f.Action != "" {
		q = q.Where("action = ?", f.Action)
	}
	if f.Resource != "" {
		q = q.Where("resource = ?", f.Resource)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.Actor != "" {
		q = q.Where("actor = ?", f.Actor)
	}
	if f.Search != "" {
		like := "%" + f.Search + "%"
		q = q.Where("error_message LIKE ? OR details LIKE ?", like, like)
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

	var es []model.ActivityLog
	if err := q.Order("created_at DESC, id DESC").Find(&es).Error; err != nil {
		return nil, 0, err
	}
	return es, total, nil
}
