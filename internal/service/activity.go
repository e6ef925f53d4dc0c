package service

import (
	"LinkKeeper/internal/model"
	"LinkKeeper/internal/repo"
	"context"
	"time"

	"go.uber.org/zap"
)

// ActivityService пишет и читает журнал аудита. Запись append-only.
type ActivityService struct {
	repo   repo.ActivityRepository
	logger *zap.SugaredLogger
}

func NewActivityService(r repo.ActivityRepository, logger *zap.SugaredLogger) *ActivityService {
	return &ActivityService{repo: r, logger: logger}
}

// Entry — параметры одной записи аудита.
type Entry struct {
	Action     string
	Resource   string
	ResourceID string
	Actor      string
	Status     string
	Duration   time.Duration
	Err        error
	Details    string
	IP         string
}

// Record добавляет запись. Отказ записи аудита логируется, но не валит
// основную операцию — она к этому моменту уже состоялась.
func (s *ActivityService) Record(ctx context.Context, e Entry) {
	row := model.ActivityLog{
		Action:     e.Action,
		Resource:   e.Resource,
		ResourceID: e.ResourceID,
		Status:     e.Status,
		DurationMs: e.Duration.Milliseconds(),
		Details:    e.Details,
		IP:         e.IP,
	}
	if e.Actor != "" {
		a := e.Actor
		row.Actor = &a
	}
	if e.Err != nil {
		row.ErrorMessage = e.Err.Error()
	}

	if err := s.repo.Create(ctx, &row); err != nil && s.logger != nil {
		s.logger.Errorw("activity: failed to record",
			"action", e.Action, "resource_id", e.ResourceID, "error", err)
	}
}

// List — постраничная выборка журнала с фильтрами.
func (s *ActivityService) List(ctx context.Context, f repo.ActivityFilter) ([]model.ActivityLog, int64, error) {
	if f.PageSize <= 0 {
		f.PageSize = 20
	}
	return s.repo.List(ctx, f)
}
