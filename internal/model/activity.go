package model

import "time"

// Действия журнала аудита.
const (
	ActionLinkAdd        = "link_add"
	ActionLinkConfirm    = "link_confirm"
	ActionLinkUpdate     = "link_update"
	ActionLinkPublish    = "link_publish"
	ActionLinkDelete     = "link_delete"
	ActionLinkRestore    = "link_restore"
	ActionTokenCreate    = "token_create"
	ActionTokenRevoke    = "token_revoke"
	ActionSettingsUpdate = "settings_update"
	ActionCategoryCreate = "category_create"
	ActionCategoryUpdate = "category_update"
	ActionCategoryDelete = "category_delete"
	ActionLoginSuccess   = "login_success"
	ActionLoginFailed    = "login_failed"
)

// Статусы записи аудита.
const (
	ActivitySuccess = "success"
	ActivityFailed  = "failed"
	ActivityPending = "pending"
)

// ActivityLog — неизменяемая запись аудита. Только append: записи никогда
// не правятся и не удаляются.
type ActivityLog struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Action       string    `gorm:"not null;index" json:"action"`
	Resource     string    `gorm:"index" json:"resource"`
	ResourceID   string    `json:"resource_id"`
	Actor        *string   `json:"actor,omitempty"`
	Status       string    `gorm:"not null;index" json:"status"`
	DurationMs   int64     `json:"duration_ms"`
	ErrorMessage string    `json:"error_message,omitempty"`
	Details      string    `json:"details,omitempty"`
	IP           string    `json:"ip,omitempty"`
	CreatedAt    time.Time `gorm:"autoCreateTime;index" json:"created_at"`
}

func (ActivityLog) TableName() string { return "activity_logs" }
