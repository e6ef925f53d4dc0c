package service

import (
	"LinkKeeper/internal/model"
	"LinkKeeper/internal/repo"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// bootstrapTokenName — имя токена, создаваемого при первом запуске.
// Уникальный индекс по имени гарантирует не более одного такого токена
// даже при гонке двух стартующих инстансов.
const bootstrapTokenName = "bootstrap"

// TokenService выпускает, проверяет и отзывает bearer-токены.
type TokenService struct {
	repo     repo.TokenRepository
	activity *ActivityService
	logger   *zap.SugaredLogger
}

func NewTokenService(r repo.TokenRepository, activity *ActivityService, logger *zap.SugaredLogger) *TokenService {
	return &TokenService{repo: r, activity: activity, logger: logger}
}

// newTokenValue генерирует непрозрачное значение с фиксированным префиксом.
func newTokenValue() string {
	return model.TokenPrefix + strings.ReplaceAll(uuid.NewString(), "-", "")
}

// Issue создаёт активный токен. Сырое значение возвращается единственный
// раз — в JSON модели поле Token не сериализуется.
func (s *TokenService) Issue(ctx context.Context, name, actor, ip string) (*model.ApiToken, string, error) {
	start := time.Now()

	if strings.TrimSpace(name) == "" {
		return nil, "", fmt.Errorf("%w: token name is required", ErrValidation)
	}

	value := newTokenValue()
	t := &model.ApiToken{
		Token:  value,
		Name:   strings.TrimSpace(name),
		Status: model.TokenActive,
	}
	err := s.repo.Create(ctx, t)

	s.activity.Record(ctx, Entry{
		Action:     model.ActionTokenCreate,
		Resource:   "token",
		ResourceID: t.Name,
		Actor:      actor,
		Status:     statusOf(err),
		Duration:   time.Since(start),
		Err:        err,
		IP:         ip,
	})
	if err != nil {
		return nil, "", err
	}
	return t, value, nil
}

// Verify проверяет предъявленный токен: точное совпадение значения и
// статус active. Успех обновляет last_used_at/last_used_ip и возвращает
// идентичность для атрибуции в журнале аудита.
func (s *TokenService) Verify(ctx context.Context, presented, ip string) (*model.ApiToken, error) {
	if !strings.HasPrefix(presented, model.TokenPrefix) {
		return nil, ErrInvalidToken
	}

	t, err := s.repo.GetByValue(ctx, presented)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}
	if t.Status != model.TokenActive {
		return nil, ErrInvalidToken
	}

	now := time.Now().UTC()
	if err := s.repo.MarkUsed(ctx, t.ID, now, ip); err != nil && s.logger != nil {
		s.logger.Warnw("token: failed to mark usage", "id", t.ID, "error", err)
	}
	t.LastUsedAt = &now
	t.LastUsedIP = ip
	return t, nil
}

// Revoke отзывает токен. Необратимо: повторная активация не предусмотрена.
func (s *TokenService) Revoke(ctx context.Context, id uint, actor, ip string) error {
	start := time.Now()

	err := s.revoke(ctx, id)

	s.activity.Record(ctx, Entry{
		Action:     model.ActionTokenRevoke,
		Resource:   "token",
		ResourceID: fmt.Sprint(id),
		Actor:      actor,
		Status:     statusOf(err),
		Duration:   time.Since(start),
		Err:        err,
		IP:         ip,
	})
	return err
}

func (s *TokenService) revoke(ctx context.Context, id uint) error {
	rows, err := s.repo.Revoke(ctx, id, time.Now().UTC())
	if err != nil {
		return err
	}
	if rows > 0 {
		return nil
	}
	// Ни одной строки: либо токена нет, либо он уже отозван.
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: token %d", ErrNotFound, id)
		}
		return err
	}
	return fmt.Errorf("%w: token already revoked", ErrValidation)
}

// List возвращает все токены без сырых значений.
func (s *TokenService) List(ctx context.Context) ([]model.ApiToken, error) {
	return s.repo.List(ctx)
}

// Bootstrap создаёт первый токен, если в базе нет ни одного.
// Возвращённое значение показывается оператору ровно один раз.
func (s *TokenService) Bootstrap(ctx context.Context) (value string, created bool, err error) {
	n, err := s.repo.Count(ctx)
	if err != nil {
		return "", false, err
	}
	if n > 0 {
		return "", false, nil
	}

	value = newTokenValue()
	created, err = s.repo.CreateIfAbsent(ctx, &model.ApiToken{
		Token:  value,
		Name:   bootstrapTokenName,
		Status: model.TokenActive,
	})
	if err != nil || !created {
		return "", false, err
	}
	return value, true, nil
}

// statusOf — статус записи аудита по исходу операции.
func statusOf(err error) string {
	if err != nil {
		return model.ActivityFailed
	}
	return model.ActivitySuccess
}
