package models

import "time"

// ActivityLog is a single audit-trail entry. Entries are written best-effort
// after successful mutations and never block the operation they describe.
type ActivityLog struct {
	ID        string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	UserID    *string   `json:"user_id" gorm:"index;type:varchar(36)"`
	Action    string    `json:"action" gorm:"type:varchar(50)"`
	Details   string    `json:"details"`
	IPAddress string    `json:"ip_address" gorm:"type:varchar(45)"`
	UserAgent string    `json:"user_agent"`
	CreatedAt time.Time `json:"created_at"`
}
