package model

import "time"

// Статусы жизненного цикла ссылки.
const (
	StatusPending   = "pending"
	StatusPublished = "published"
	StatusDeleted   = "deleted"
)

// Link — запись закладки: кандидат на публикацию или уже опубликованная ссылка.
// Поля AI* — неизменяемый след того, что вернул анализ (provenance),
// поля User* — подтверждённая проекция, которая реально отдаётся наружу.
// Эти два набора никогда не смешиваются при рендеринге.
type Link struct {
	ID     uint   `gorm:"primaryKey" json:"id"`
	URL    string `gorm:"not null" json:"url"`
	Domain string `gorm:"index" json:"domain"`
	Title  string `json:"title"`

	// Описание, извлечённое скрейпером из исходной страницы.
	OriginalDescription string `json:"original_description"`

	// Результат AI-анализа. AITags хранится как JSON-массив строк.
	AISummary        string  `json:"ai_summary"`
	AICategory       string  `json:"ai_category"`
	AITags           string  `gorm:"not null;default:'[]'" json:"ai_tags"`
	AIReadingTime    int     `gorm:"not null;default:1" json:"ai_reading_time"`
	AIAnalysisFailed bool    `gorm:"not null;default:false" json:"ai_analysis_failed"`
	AIError          *string `json:"ai_error,omitempty"`

	// Подтверждённые поля. Заполняются только после confirm
	// либо при ингесте со skip-confirm. UserTags — JSON-массив строк.
	UserDescription *string `json:"user_description,omitempty"`
	UserCategory    *string `json:"user_category,omitempty"`
	UserTags        *string `json:"user_tags,omitempty"`

	Status string `gorm:"not null;default:'pending';index" json:"status"`

	CreatedAt   time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
	PublishedAt *time.Time `json:"published_at,omitempty"`
}

func (Link) TableName() string { return "links" }

// FinalDescription — описание, которое отдаётся публично:
// подтверждённое, иначе AI-выход.
func (l *Link) FinalDescription() string {
	if l.UserDescription != nil {
		return *l.UserDescription
	}
	return l.AISummary
}

// FinalCategory — публичная категория: подтверждённая, иначе AI-выход.
func (l *Link) FinalCategory() string {
	if l.UserCategory != nil {
		return *l.UserCategory
	}
	return l.AICategory
}

// FinalTags — публичные теги (JSON-массив строк).
func (l *Link) FinalTags() string {
	if l.UserTags != nil {
		return *l.UserTags
	}
	return l.AITags
}
