package services

import (
	"log"

	"aura/internal/models"
	"aura/internal/repositories"
)

// ActivityService writes the audit trail. Recording is strictly best-effort:
// a failed write is logged and swallowed so it can never fail the operation
// being audited.
type ActivityService struct {
	repo repositories.ActivityLogRepository
}

// NewActivityService creates a new ActivityService.
func NewActivityService(repo repositories.ActivityLogRepository) *ActivityService {
	return &ActivityService{
		repo: repo,
	}
}

// Record appends an audit entry for a completed action. userID may be nil for
// anonymous events.
func (s *ActivityService) Record(userID *string, action, details, ipAddress, userAgent string) {
	entry := &models.ActivityLog{
		UserID:    userID,
		Action:    action,
		Details:   details,
		IPAddress: ipAddress,
		UserAgent: userAgent,
	}
	if err := s.repo.Create(entry); err != nil {
		log.Printf("Failed to record activity %s: %v", action, err)
	}
}

// List returns the audit trail, newest first (admin view).
func (s *ActivityService) List() ([]models.ActivityLog, error) {
	return s.repo.GetAll()
}
