package service

import (
	"errors"

	"gorm.io/gorm"
)

// Сентинельные ошибки слоя сервисов. Хендлеры мапят их в HTTP-статусы,
// конкретика добавляется через fmt.Errorf("%w: ...").
var (
	ErrNotFound     = errors.New("not found")
	ErrValidation   = errors.New("validation failed")
	ErrNotPending   = errors.New("link is not in pending state")
	ErrTransition   = errors.New("illegal status transition")
	ErrInvalidToken = errors.New("invalid or revoked token")
	ErrLoginFailed  = errors.New("login failed")

	// ErrDefaultCategory — системную категорию удалить нельзя.
	ErrDefaultCategory = errors.New("default category cannot be deleted")
)

// isRecordNotFound переводит gorm-ошибку на язык сервиса.
func isRecordNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
