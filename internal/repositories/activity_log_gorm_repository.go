package repositories

import (
	"fmt"

	"aura/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMActivityLogRepository is a GORM implementation of ActivityLogRepository.
type GORMActivityLogRepository struct {
	db *gorm.DB
}

// NewGORMActivityLogRepository creates a new instance of GORMActivityLogRepository.
func NewGORMActivityLogRepository(db *gorm.DB) *GORMActivityLogRepository {
	return &GORMActivityLogRepository{
		db: db,
	}
}

// Create appends an audit-trail entry.
func (r *GORMActivityLogRepository) Create(entry *models.ActivityLog) error {
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	if err := r.db.Create(entry).Error; err != nil {
		return fmt.Errorf("failed to create activity log entry: %w", err)
	}
	return nil
}

// GetAll retrieves the audit trail, newest first.
func (r *GORMActivityLogRepository) GetAll() ([]models.ActivityLog, error) {
	var entries []models.ActivityLog
	if err := r.db.Order("created_at DESC").Find(&entries).Error; err != nil {
		return nil, fmt.Errorf("failed to get activity log: %w", err)
	}
	return entries, nil
}
