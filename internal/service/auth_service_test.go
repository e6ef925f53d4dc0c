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

func newAuth(t *testing.T, password string) (*AuthService, *ActivityService) {
	t.Helper()
	db := newTestDB(t)
	activity := NewActivityService(repo.NewActivityRepository(db), zap.NewNop().Sugar())
	return NewAuthService("test-secret", password, activity, zap.NewNop().Sugar()), activity
}

func TestAuthService_Login_And_ParseToken(t *testing.T) {
	s, activity := newAuth(t, "correct horse")
	ctx := context.Background()

	token, err := s.Login(ctx, "correct horse", "10.0.0.5")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	subject, err := s.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, AdminActor, subject)

	rows, _, err := activity.List(ctx, repo.ActivityFilter{Action: model.ActionLoginSuccess})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "10.0.0.5", rows[0].IP)
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	s, activity := newAuth(t, "correct horse")
	ctx := context.Background()

	_, err := s.Login(ctx, "battery staple", "10.0.0.5")
	assert.ErrorIs(t, err, ErrLoginFailed)

	// неудачная попытка зафиксирована с IP
	rows, _, err := activity.List(ctx, repo.ActivityFilter{Action: model.ActionLoginFailed})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, model.ActivityFailed, rows[0].Status)
	assert.Equal(t, "10.0.0.5", rows[0].IP)
}

func TestAuthService_Login_DisabledWithoutPassword(t *testing.T) {
	s, _ := newAuth(t, "")

	_, err := s.Login(context.Background(), "anything", "")
	assert.ErrorIs(t, err, ErrLoginFailed)
}

func TestAuthService_ParseToken_Invalid(t *testing.T) {
	s, _ := newAuth(t, "pw")

	_, err := s.ParseToken("not-a-jwt")
	assert.ErrorIs(t, err, ErrInvalidToken)

	// токен, подписанный другим секретом, не принимается
	db := newTestDB(t)
	activity := NewActivityService(repo.NewActivityRepository(db), zap.NewNop().Sugar())
	forged := NewAuthService("another-secret", "pw", activity, zap.NewNop().Sugar())
	token, err := forged.Login(context.Background(), "pw", "")
	require.NoError(t, err)
	_, err = s.ParseToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
