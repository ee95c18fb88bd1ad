package repositories

import "aura/internal/models"

// ActivityLogRepository defines the interface for audit-trail data access.
type ActivityLogRepository interface {
	Create(entry *models.ActivityLog) error
	GetAll() ([]models.ActivityLog, error)
}
