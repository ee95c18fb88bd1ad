package handlers

import (
	"errors"
	"fmt"
	"log"

	"aura/internal/middleware"
	"aura/internal/models"
	"aura/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// OrderHandler handles HTTP requests for the order workflow.
type OrderHandler struct {
	service  *services.OrderService
	activity *services.ActivityService
	validate *validator.Validate
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(service *services.OrderService, activity *services.ActivityService) *OrderHandler {
	return &OrderHandler{
		service:  service,
		activity: activity,
		validate: validator.New(),
	}
}

// RegisterRoutes registers the order routes. Listing and checkout are open to
// any authenticated user; status changes and deletion are admin only.
func (h *OrderHandler) RegisterRoutes(router fiber.Router) {
	orderRoutes := router.Group("/orders")
	orderRoutes.Get("/", h.HandleListOrders)
	orderRoutes.Get("/:id", h.HandleGetOrderByID)
	orderRoutes.Post("/", h.HandleCreateOrder)
	orderRoutes.Patch("/:id", middleware.AdminRequired(), h.HandleUpdateOrderStatus)
	orderRoutes.Delete("/:id", middleware.AdminRequired(), h.HandleDeleteOrder)
}

// HandleListOrders returns orders scoped by role: admins see every order,
// other users only their own.
func (h *OrderHandler) HandleListOrders(c *fiber.Ctx) error {
	orders, err := h.service.ListOrders(middleware.SessionUserID(c), middleware.SessionIsAdmin(c))
	if err != nil {
		log.Printf("Error listing orders: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve orders",
		})
	}
	return c.JSON(orders)
}

// HandleGetOrderByID returns a single order, subject to ownership scoping.
func (h *OrderHandler) HandleGetOrderByID(c *fiber.Ctx) error {
	orderID := c.Params("id")
	order, err := h.service.GetOrderByID(orderID, middleware.SessionUserID(c), middleware.SessionIsAdmin(c))
	if err != nil {
		if errors.Is(err, models.ErrOrderNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": fmt.Sprintf("Order with ID %s not found", orderID),
			})
		}
		log.Printf("Error getting order %s: %v", orderID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve order",
		})
	}
	return c.JSON(order)
}

// HandleCreateOrder runs checkout: stock validation, order creation and stock
// reservation in one transaction.
func (h *OrderHandler) HandleCreateOrder(c *fiber.Ctx) error {
	var req services.CreateOrderRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing order request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	if err := h.validate.Struct(req); err != nil {
		return validationErrorResponse(c, err)
	}

	userID := middleware.SessionUserID(c)
	order, err := h.service.CreateOrder(userID, req)
	if err != nil {
		return h.orderErrorResponse(c, err, "Could not create order")
	}

	h.activity.Record(&userID, "CREATE_ORDER",
		fmt.Sprintf("Order #%s created. Total: $%.2f", order.ID, order.TotalAmount),
		c.IP(), c.Get("User-Agent"))

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Order created",
		"id":      order.ID,
	})
}

// UpdateOrderStatusRequest is the PATCH body for a status change.
type UpdateOrderStatusRequest struct {
	Status models.OrderStatus `json:"status" validate:"required"`
}

// HandleUpdateOrderStatus applies an admin-issued status change, including
// the stock reconciliation on the Cancelled boundary.
func (h *OrderHandler) HandleUpdateOrderStatus(c *fiber.Ctx) error {
	orderID := c.Params("id")
	var req UpdateOrderStatusRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing status update body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if req.Status == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Status is required",
		})
	}
	if !req.Status.Valid() {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": fmt.Sprintf("Invalid order status: %s", req.Status),
		})
	}

	if err := h.service.UpdateOrderStatus(orderID, req.Status); err != nil {
		return h.orderErrorResponse(c, err, "Could not update order status")
	}

	actorID := middleware.SessionUserID(c)
	h.activity.Record(&actorID, "ORDER_STATUS_CHANGE",
		fmt.Sprintf("Order #%s status changed to: %s", orderID, req.Status),
		c.IP(), c.Get("User-Agent"))

	return c.JSON(fiber.Map{
		"message": "Order status updated",
	})
}

// HandleDeleteOrder hard-deletes an order and its items.
func (h *OrderHandler) HandleDeleteOrder(c *fiber.Ctx) error {
	orderID := c.Params("id")
	if err := h.service.DeleteOrder(orderID); err != nil {
		return h.orderErrorResponse(c, err, "Could not delete order")
	}

	actorID := middleware.SessionUserID(c)
	h.activity.Record(&actorID, "DELETE_ORDER",
		fmt.Sprintf("Admin deleted order ID: %s", orderID), c.IP(), c.Get("User-Agent"))

	return c.JSON(fiber.Map{
		"message": "Order deleted",
	})
}

// orderErrorResponse maps order workflow errors to HTTP statuses. Stock
// shortfalls surface the exact deficit so the UI can present actionable text;
// unexpected errors are logged and returned as a generic message.
func (h *OrderHandler) orderErrorResponse(c *fiber.Ctx, err error, genericMessage string) error {
	var stockErr *models.InsufficientStockError
	switch {
	case errors.As(err, &stockErr):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message":   stockErr.Error(),
			"product":   stockErr.ProductName,
			"available": stockErr.Available,
			"requested": stockErr.Requested,
		})
	case errors.Is(err, models.ErrProductNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": err.Error(),
		})
	case errors.Is(err, models.ErrOrderNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": "Order not found",
		})
	default:
		log.Printf("Order workflow error: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": genericMessage,
		})
	}
}
