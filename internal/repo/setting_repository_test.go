package repo

import (
	"LinkKeeper/internal/model"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSettingRepository_Upsert_UpdateThenInsert(t *testing.T) {
	db := newTestDB(t)
	r := NewSettingRepository(db)
	ctx := context.Background()

	// ключа нет — ветка INSERT
	assert.NoError(t, r.Upsert(ctx, &model.Setting{
		Key: "catalog.page_size", Value: "20", Type: model.SettingNumber,
	}))

	// ключ есть — ветка UPDATE, дубликата не появляется
	assert.NoError(t, r.Upsert(ctx, &model.Setting{
		Key: "catalog.page_size", Value: "50", Type: model.SettingNumber,
	}))

	all, err := r.GetAll(ctx)
	assert.NoError(t, err)
	assert.Len(t, all, 1)
	assert.Equal(t, "50", all[0].Value)
}

func TestSettingRepository_SeedIfAbsent_Idempotent(t *testing.T) {
	db := newTestDB(t)
	r := NewSettingRepository(db)
	ctx := context.Background()

	s := model.Setting{Key: "ai.provider", Value: "openai", Type: model.SettingString}
	assert.NoError(t, r.SeedIfAbsent(ctx, &s))

	// повторный посев не перетирает сохранённое значение
	s2 := model.Setting{Key: "ai.provider", Value: "anthropic", Type: model.SettingString}
	assert.NoError(t, r.SeedIfAbsent(ctx, &s2))

	got, err := r.Get(ctx, "ai.provider")
	assert.NoError(t, err)
	assert.Equal(t, "openai", got.Value)

	all, err := r.GetAll(ctx)
	assert.NoError(t, err)
	assert.Len(t, all, 1)
}
