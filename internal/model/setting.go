package model

import "time"

// Типы значений настроек. Значение всегда хранится строкой и декодируется
// на границе SettingsService согласно Type.
const (
	SettingString  = "string"
	SettingNumber  = "number"
	SettingBoolean = "boolean"
	SettingJSON    = "json"
)

// Setting — типизированная строка конфигурации.
// Инвариант: декодирование Value по Type никогда не роняет вызывающего —
// при ошибке используется встроенный дефолт для ключа.
type Setting struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Key         string    `gorm:"uniqueIndex;not null" json:"key"`
	Value       string    `gorm:"not null" json:"value"`
	Type        string    `gorm:"not null;default:'string'" json:"type"`
	Description string    `json:"description"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Setting) TableName() string { return "settings" }
