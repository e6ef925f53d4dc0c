package repo

import (
	"LinkKeeper/internal/model"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTokenRepository_CreateIfAbsent_Once(t *testing.T) {
	db := newTestDB(t)
	r := NewTokenRepository(db)
	ctx := context.Background()

	// первая вставка создаёт запись
	created, err := r.CreateIfAbsent(ctx, &model.ApiToken{
		Token: "lk_aaa", Name: "bootstrap", Status: model.TokenActive,
	})
	assert.NoError(t, err)
	assert.True(t, created)

	// гонка: второй инстанс с тем же именем — ничего не создано
	created, err = r.CreateIfAbsent(ctx, &model.ApiToken{
		Token: "lk_bbb", Name: "bootstrap", Status: model.TokenActive,
	})
	assert.NoError(t, err)
	assert.False(t, created)

	n, err := r.Count(ctx)
	assert.NoError(t, err)
	assert.Equal(t, int64(1), n)

	// выжило значение первой вставки
	got, err := r.GetByValue(ctx, "lk_aaa")
	assert.NoError(t, err)
	assert.Equal(t, "bootstrap", got.Name)
}

func TestTokenRepository_Revoke_Conditional(t *testing.T) {
	db := newTestDB(t)
	r := NewTokenRepository(db)
	ctx := context.Background()

	tok := model.ApiToken{Token: "lk_ccc", Name: "ci", Status: model.TokenActive}
	assert.NoError(t, r.Create(ctx, &tok))

	rows, err := r.Revoke(ctx, tok.ID, time.Now().UTC())
	assert.NoError(t, err)
	assert.Equal(t, int64(1), rows)

	// повторный отзыв не затрагивает строк
	rows, err = r.Revoke(ctx, tok.ID, time.Now().UTC())
	assert.NoError(t, err)
	assert.Equal(t, int64(0), rows)

	got, err := r.GetByID(ctx, tok.ID)
	assert.NoError(t, err)
	assert.Equal(t, model.TokenRevoked, got.Status)
	assert.NotNil(t, got.RevokedAt)
}

func TestTokenRepository_MarkUsed(t *testing.T) {
	db := newTestDB(t)
	r := NewTokenRepository(db)
	ctx := context.Background()

	tok := model.ApiToken{Token: "lk_ddd", Name: "cli", Status: model.TokenActive}
	assert.NoError(t, r.Create(ctx, &tok))

	at := time.Now().UTC()
	assert.NoError(t, r.MarkUsed(ctx, tok.ID, at, "10.0.0.1"))

	got, err := r.GetByID(ctx, tok.ID)
	assert.NoError(t, err)
	assert.Equal(t, "10.0.0.1", got.LastUsedIP)
	if assert.NotNil(t, got.LastUsedAt) {
		assert.WithinDuration(t, at, *got.LastUsedAt, 2*time.Second)
	}
}
