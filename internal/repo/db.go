package repo

import (
	"LinkKeeper/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// InitDB открывает соединение с БД и прогоняет автомиграции всех моделей.
func InitDB(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}
	if err := Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

// Migrate выполняет автомиграции. Вынесено отдельно, чтобы тесты могли
// использовать in-memory SQLite с тем же набором моделей.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.Link{},
		&model.Category{},
		&model.ApiToken{},
		&model.Setting{},
		&model.ActivityLog{},
		&model.LinkSearchIndex{},
	)
}
