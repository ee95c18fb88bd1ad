package handlers

import (
	"errors"
	"fmt"
	"log"

	"aura/internal/middleware"
	"aura/internal/models"
	"aura/internal/services"

	"github.com/gofiber/fiber/v2"
)

// UserHandler handles admin-only user administration.
type UserHandler struct {
	authService *services.AuthService
	activity    *services.ActivityService
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(authService *services.AuthService, activity *services.ActivityService) *UserHandler {
	return &UserHandler{
		authService: authService,
		activity:    activity,
	}
}

// RegisterRoutes registers the user administration routes. The whole group is
// admin only.
func (h *UserHandler) RegisterRoutes(router fiber.Router) {
	userRoutes := router.Group("/users", middleware.AdminRequired())
	userRoutes.Get("/", h.HandleListUsers)
	userRoutes.Patch("/", h.HandleSetUserStatus)
}

// HandleListUsers returns all user accounts.
func (h *UserHandler) HandleListUsers(c *fiber.Ctx) error {
	users, err := h.authService.ListUsers()
	if err != nil {
		log.Printf("Error listing users: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve users",
		})
	}
	return c.JSON(users)
}

// SetUserStatusRequest is the PATCH body for activating/deactivating a user.
type SetUserStatusRequest struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

// HandleSetUserStatus activates or deactivates a user account. Accounts are
// deactivated rather than deleted so the audit trail and order history keep
// their owner.
func (h *UserHandler) HandleSetUserStatus(c *fiber.Ctx) error {
	var req SetUserStatusRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing user status body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if req.ID == "" || req.Status == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "User ID and status required",
		})
	}

	if err := h.authService.SetUserStatus(req.ID, req.Status); err != nil {
		if errors.Is(err, models.ErrUserNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": "User not found",
			})
		}
		log.Printf("Error setting status for user %s: %v", req.ID, err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": err.Error(),
		})
	}

	action := "ACTIVATE_USER"
	if req.Status == models.UserDeactivated {
		action = "DEACTIVATE_USER"
	}
	actorID := middleware.SessionUserID(c)
	h.activity.Record(&actorID, action,
		fmt.Sprintf("Admin %s user ID: %s", req.Status, req.ID), c.IP(), c.Get("User-Agent"))

	return c.JSON(fiber.Map{
		"message": fmt.Sprintf("User %s", req.Status),
	})
}
