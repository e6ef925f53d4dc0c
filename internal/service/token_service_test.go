package service

import (
	"LinkKeeper/internal/model"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenService_Issue_And_Verify(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	tok, value, err := env.tokens.Issue(ctx, "ci", "admin", "10.0.0.1")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(value, model.TokenPrefix))
	assert.Equal(t, "ci", tok.Name)

	got, err := env.tokens.Verify(ctx, value, "10.0.0.2")
	require.NoError(t, err)
	assert.Equal(t, tok.ID, got.ID)
	// предъявление фиксирует последнее использование
	assert.Equal(t, "10.0.0.2", got.LastUsedIP)
	assert.NotNil(t, got.LastUsedAt)

	row := env.lastActivity(t, model.ActionTokenCreate)
	require.NotNil(t, row)
	assert.Equal(t, model.ActivitySuccess, row.Status)
}

func TestTokenService_Issue_RequiresName(t *testing.T) {
	env := newTestEnv(t)

	_, _, err := env.tokens.Issue(context.Background(), "  ", "admin", "")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestTokenService_Verify_Rejects(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	// чужой формат и несуществующее значение
	_, err := env.tokens.Verify(ctx, "Bearer xyz", "")
	assert.ErrorIs(t, err, ErrInvalidToken)
	_, err = env.tokens.Verify(ctx, model.TokenPrefix+"deadbeef", "")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenService_Revoke(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	tok, value, err := env.tokens.Issue(ctx, "ci", "admin", "")
	require.NoError(t, err)

	require.NoError(t, env.tokens.Revoke(ctx, tok.ID, "admin", ""))

	// отозванный токен больше не проходит проверку
	_, err = env.tokens.Verify(ctx, value, "")
	assert.ErrorIs(t, err, ErrInvalidToken)

	// повторный отзыв и отзыв несуществующего различимы
	err = env.tokens.Revoke(ctx, tok.ID, "admin", "")
	assert.ErrorIs(t, err, ErrValidation)
	err = env.tokens.Revoke(ctx, 9999, "admin", "")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestTokenService_Bootstrap_Once(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	value, created, err := env.tokens.Bootstrap(ctx)
	require.NoError(t, err)
	assert.True(t, created)
	assert.True(t, strings.HasPrefix(value, model.TokenPrefix))

	// повторный старт видит существующий токен и ничего не создаёт
	value2, created2, err := env.tokens.Bootstrap(ctx)
	require.NoError(t, err)
	assert.False(t, created2)
	assert.Empty(t, value2)

	all, err := env.tokens.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)

	// бутстрап-токен сразу рабочий
	got, err := env.tokens.Verify(ctx, value, "")
	require.NoError(t, err)
	assert.Equal(t, "bootstrap", got.Name)
}

func TestTokenService_Bootstrap_SkippedWhenTokensExist(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, _, err := env.tokens.Issue(ctx, "ci", "admin", "")
	require.NoError(t, err)

	_, created, err := env.tokens.Bootstrap(ctx)
	require.NoError(t, err)
	assert.False(t, created)
}
