package handlers

import (
	"log"

	"aura/internal/middleware"
	"aura/internal/services"

	"github.com/gofiber/fiber/v2"
)

// LogHandler exposes the audit trail to admins.
type LogHandler struct {
	activity *services.ActivityService
}

// NewLogHandler creates a new LogHandler.
func NewLogHandler(activity *services.ActivityService) *LogHandler {
	return &LogHandler{
		activity: activity,
	}
}

// RegisterRoutes registers the audit-trail routes (admin only).
func (h *LogHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/logs", middleware.AdminRequired(), h.HandleListLogs)
}

// HandleListLogs returns the audit trail, newest first.
func (h *LogHandler) HandleListLogs(c *fiber.Ctx) error {
	entries, err := h.activity.List()
	if err != nil {
		log.Printf("Error listing activity log: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve activity log",
		})
	}
	return c.JSON(entries)
}
