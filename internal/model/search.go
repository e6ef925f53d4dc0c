package model

import "time"

// LinkSearchIndex — денормализованная строка полнотекстового индекса.
// Инвариант: строка существует тогда и только тогда, когда ссылка
// опубликована. Поля — финальная (user*) проекция, не AI-выход.
type LinkSearchIndex struct {
	LinkID      uint      `gorm:"primaryKey" json:"link_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Tags        string    `json:"tags"`
	Domain      string    `gorm:"index" json:"domain"`
	Category    string    `gorm:"index" json:"category"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (LinkSearchIndex) TableName() string { return "link_search_index" }
