package model

import "time"

// DefaultCategoryName — системная категория-свалка; её нельзя удалить,
// в неё попадают ссылки, для которых AI вернул неизвестную категорию.
const DefaultCategoryName = "Uncategorized"

// Category — именованная упорядоченная рубрика каталога.
// Ссылки ссылаются на неё по имени (нестрогая связь): переименование или
// удаление категории оставляет в ссылках устаревшую строку.
type Category struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Name         string    `gorm:"uniqueIndex;not null" json:"name"`
	Slug         string    `gorm:"not null" json:"slug"`
	Icon         string    `json:"icon"`
	Color        string    `json:"color"`
	Description  string    `json:"description"`
	DisplayOrder int       `gorm:"not null;default:0" json:"display_order"`
	IsActive     bool      `gorm:"not null;default:true" json:"is_active"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Category) TableName() string { return "categories" }
