package model

import "time"

// Статусы API-токена.
const (
	TokenActive  = "active"
	TokenRevoked = "revoked"
)

// TokenPrefix — фиксированный узнаваемый префикс значений API-токенов.
const TokenPrefix = "lk_"

// ApiToken — bearer-учётка для мутирующих и привилегированных операций.
// Отозванный токен никогда не аутентифицируется снова; повторная
// активация не предусмотрена.
type ApiToken struct {
	ID         uint       `gorm:"primaryKey" json:"id"`
	Token      string     `gorm:"uniqueIndex;not null" json:"-"`
	Name       string     `gorm:"uniqueIndex;not null" json:"name"`
	Status     string     `gorm:"not null;default:'active'" json:"status"`
	CreatedAt  time.Time  `gorm:"autoCreateTime" json:"created_at"`
	RevokedAt  *time.Time `json:"revoked_at,omitempty"`
	LastUsedAt *time.Time `json:"last_used_at,omitempty"`
	LastUsedIP string     `json:"last_used_ip,omitempty"`
}

func (ApiToken) TableName() string { return "api_tokens" }
