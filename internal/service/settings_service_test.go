package service

import (
	"LinkKeeper/internal/model"
	"LinkKeeper/internal/repo"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newSettings(t *testing.T) (*SettingsService, repo.SettingRepository) {
	t.Helper()
	db := newTestDB(t)
	r := repo.NewSettingRepository(db)
	return NewSettingsService(r, zap.NewNop().Sugar()), r
}

func TestSettingsService_Seed_Idempotent(t *testing.T) {
	s, r := newSettings(t)
	ctx := context.Background()

	require.NoError(t, s.Seed(ctx))

	// оператор поменял значение
	require.NoError(t, s.Set(ctx, KeyCatalogPageSize, "50", "", ""))

	// повторный посев не перетирает сохранённое
	require.NoError(t, s.Seed(ctx))
	assert.Equal(t, 50, s.Int(ctx, KeyCatalogPageSize))

	// на каждый ключ ровно одна строка
	rows, err := r.GetAll(ctx)
	require.NoError(t, err)
	assert.Len(t, rows, len(defaults))
}

func TestSettingsService_Get_FallsBackToDefault(t *testing.T) {
	s, r := newSettings(t)
	ctx := context.Background()

	// посева не было — читается встроенный дефолт
	assert.Equal(t, "openai", s.String(ctx, KeyAIProvider))
	assert.Equal(t, 20, s.Int(ctx, KeyCatalogPageSize))

	// битая строка в базе схлопывается в дефолт, а не в ошибку
	require.NoError(t, r.Upsert(ctx, &model.Setting{
		Key: KeyCatalogPageSize, Value: "not-a-number", Type: model.SettingNumber,
	}))
	assert.Equal(t, 20, s.Int(ctx, KeyCatalogPageSize))

	// неизвестный ключ — nil без паники
	assert.Nil(t, s.Get(ctx, "no.such.key"))
}

func TestSettingsService_Set_Validation(t *testing.T) {
	s, _ := newSettings(t)
	ctx := context.Background()

	// значение не разбирается объявленным типом
	err := s.Set(ctx, KeyAITemperature, "warm", "", "")
	assert.ErrorIs(t, err, ErrValidation)

	require.NoError(t, s.Set(ctx, KeyAITemperature, "0.7", "", ""))
	assert.InDelta(t, 0.7, s.Float(ctx, KeyAITemperature), 1e-9)
}

func TestSettingsService_SecretMasking(t *testing.T) {
	s, _ := newSettings(t)
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, KeyAIAPIKey, "sk-real-key", "", ""))

	// наружу секрет не отдаётся
	views, err := s.GetAll(ctx)
	require.NoError(t, err)
	var view *SettingView
	for i := range views {
		if views[i].Key == KeyAIAPIKey {
			view = &views[i]
			break
		}
	}
	require.NotNil(t, view)
	assert.True(t, view.IsSecret)
	assert.Nil(t, view.Value)

	// клиент вернул маску обратно — сохранённое значение не тронуто
	require.NoError(t, s.Set(ctx, KeyAIAPIKey, model.SecretMask, "", ""))
	assert.Equal(t, "sk-real-key", s.AISettings(ctx).APIKey)

	// явное новое значение перезаписывает
	require.NoError(t, s.Set(ctx, KeyAIAPIKey, "sk-new-key", "", ""))
	assert.Equal(t, "sk-new-key", s.AISettings(ctx).APIKey)
}

func TestSettingsService_AITimeout(t *testing.T) {
	s, _ := newSettings(t)
	ctx := context.Background()

	// дефолт 30 секунд
	assert.Equal(t, float64(30), s.AITimeout(ctx).Seconds())

	require.NoError(t, s.Set(ctx, KeyAITimeoutSeconds, "5", "", ""))
	assert.Equal(t, float64(5), s.AITimeout(ctx).Seconds())

	// нулевой или отрицательный таймаут схлопывается в дефолт
	require.NoError(t, s.Set(ctx, KeyAITimeoutSeconds, "0", "", ""))
	assert.Equal(t, float64(30), s.AITimeout(ctx).Seconds())
}
