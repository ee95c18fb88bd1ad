package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"aura/internal/models"
	"aura/pkg/rabbitmq"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// OrderItemRequest is one cart line in a checkout request. UnitPrice is the
// price the customer saw when adding the item to the cart; it becomes the
// immutable snapshot on the order item and is deliberately not re-read from
// the product at checkout time.
type OrderItemRequest struct {
	ProductID string  `json:"product_id" validate:"required"`
	Quantity  int     `json:"quantity" validate:"required,gt=0"`
	UnitPrice float64 `json:"unit_price" validate:"required,gt=0"`
}

// CreateOrderRequest is the checkout payload.
type CreateOrderRequest struct {
	CustomerName  string             `json:"customer_name" validate:"required,min=1"`
	CustomerEmail string             `json:"customer_email" validate:"omitempty,email"`
	Items         []OrderItemRequest `json:"items" validate:"required,min=1,dive"`
}

// OrderService handles the order workflow: checkout with stock reservation,
// status transitions with stock reconciliation on the Cancelled boundary, the
// role-scoped order projection, and order deletion.
//
// Checkout and transitions are single multi-table transactions with row locks
// on the touched products (and order), so the service drives *gorm.DB
// directly instead of going through per-entity repositories.
type OrderService struct {
	db       *gorm.DB
	ledger   StockLedger
	mqClient *rabbitmq.Client
}

// NewOrderService creates a new OrderService.
func NewOrderService(db *gorm.DB, mqClient *rabbitmq.Client) *OrderService {
	return &OrderService{
		db:       db,
		mqClient: mqClient,
	}
}

// CreateOrder atomically validates stock for every cart line, persists the
// order with its items, and reserves the stock. Any failure rolls the whole
// transaction back: no partial order, no partial stock deduction. Two
// concurrent checkouts against the same product serialize on its row lock;
// the loser observes the decremented stock and may legitimately fail with an
// insufficient-stock error.
func (s *OrderService) CreateOrder(userID string, req CreateOrderRequest) (*models.Order, error) {
	order := &models.Order{
		ID:            uuid.New().String(),
		UserID:        userID,
		CustomerName:  req.CustomerName,
		CustomerEmail: req.CustomerEmail,
		Status:        models.StatusPending,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		// Validate every line under a row lock before mutating anything.
		// The first violation aborts the whole checkout.
		for _, item := range req.Items {
			var product models.Product
			if err := lockForUpdate(tx).First(&product, "id = ?", item.ProductID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return fmt.Errorf("%w: id %s", models.ErrProductNotFound, item.ProductID)
				}
				return fmt.Errorf("failed to lock product %s: %w", item.ProductID, err)
			}
			if product.Stock < item.Quantity {
				return &models.InsufficientStockError{
					ProductName: product.Name,
					Available:   product.Stock,
					Requested:   item.Quantity,
				}
			}
		}

		var total float64
		for _, item := range req.Items {
			total += float64(item.Quantity) * item.UnitPrice
		}
		order.TotalAmount = total

		for _, item := range req.Items {
			productID := item.ProductID
			order.Items = append(order.Items, models.OrderItem{
				ID:        uuid.New().String(),
				OrderID:   order.ID,
				ProductID: &productID,
				Quantity:  item.Quantity,
				UnitPrice: item.UnitPrice,
			})
		}

		if err := tx.Create(order).Error; err != nil {
			return fmt.Errorf("failed to create order: %w", err)
		}

		for _, item := range req.Items {
			if err := s.ledger.Reserve(tx, item.ProductID, item.Quantity); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publishOrderEvent("order.created", map[string]interface{}{
		"order_id": order.ID,
		"user_id":  order.UserID,
		"status":   order.Status,
		"total":    order.TotalAmount,
	})

	return order, nil
}

// UpdateOrderStatus applies an admin-issued status change, reconciling stock
// when the transition crosses the Cancelled boundary:
//
//   - Active -> Cancelled: stock for every item with a live product ref is
//     restored unconditionally.
//   - Cancelled -> Active: stock is re-reserved with validation; the first
//     shortfall aborts the whole transition and the order stays Cancelled.
//   - Same status or Active -> Active: no stock effect; the write still
//     happens, so re-sending the current status is an idempotent success.
//
// Items whose product was deleted are skipped in both directions.
func (s *OrderService) UpdateOrderStatus(orderID string, newStatus models.OrderStatus) error {
	if !newStatus.Valid() {
		return fmt.Errorf("invalid order status: %s", newStatus)
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var order models.Order
		if err := lockForUpdate(tx).First(&order, "id = ?", orderID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: id %s", models.ErrOrderNotFound, orderID)
			}
			return fmt.Errorf("failed to lock order %s: %w", orderID, err)
		}

		if newStatus != order.Status {
			var items []models.OrderItem
			if err := tx.Find(&items, "order_id = ?", orderID).Error; err != nil {
				return fmt.Errorf("failed to load items for order %s: %w", orderID, err)
			}

			switch {
			case newStatus.Cancelled():
				// Goods return to inventory; no upper bound is enforced.
				for i := range items {
					if err := s.ledger.Release(tx, items[i].ProductID, items[i].Quantity); err != nil {
						return err
					}
				}
			case order.Status.Cancelled():
				for i := range items {
					productID, ok := items[i].ProductRef()
					if !ok {
						continue
					}
					err := s.ledger.Reserve(tx, productID, items[i].Quantity)
					if errors.Is(err, models.ErrProductNotFound) {
						// Product deleted while the order sat cancelled.
						continue
					}
					if err != nil {
						return err
					}
				}
			}
		}

		if err := tx.Model(&models.Order{}).Where("id = ?", orderID).
			Update("status", newStatus).Error; err != nil {
			return fmt.Errorf("failed to update status for order %s: %w", orderID, err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.publishOrderEvent("order.status_changed", map[string]interface{}{
		"order_id": orderID,
		"status":   newStatus,
	})

	return nil
}

// ListOrders returns the role-scoped order projection: all orders for admins,
// the caller's own orders otherwise, newest first, each with its line items
// attached. Item product names reflect the current catalog; items whose
// product was deleted carry a placeholder name instead of failing.
func (s *OrderService) ListOrders(userID string, isAdmin bool) ([]models.Order, error) {
	query := s.db.Preload("Items.Product").Order("created_at DESC")
	if !isAdmin {
		query = query.Where("user_id = ?", userID)
	}

	var orders []models.Order
	if err := query.Find(&orders).Error; err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}

	for i := range orders {
		if orders[i].Items == nil {
			orders[i].Items = []models.OrderItem{}
		}
		for j := range orders[i].Items {
			item := &orders[i].Items[j]
			if item.Product != nil {
				item.ProductName = item.Product.Name
			} else {
				item.ProductName = models.DeletedProductName
			}
		}
	}
	return orders, nil
}

// GetOrderByID returns a single order with items, subject to the same access
// scoping as ListOrders. Non-owners get a not-found rather than a hint that
// the order exists.
func (s *OrderService) GetOrderByID(orderID, userID string, isAdmin bool) (*models.Order, error) {
	var order models.Order
	if err := s.db.Preload("Items.Product").First(&order, "id = ?", orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: id %s", models.ErrOrderNotFound, orderID)
		}
		return nil, fmt.Errorf("failed to get order %s: %w", orderID, err)
	}
	if !isAdmin && order.UserID != userID {
		return nil, fmt.Errorf("%w: id %s", models.ErrOrderNotFound, orderID)
	}

	if order.Items == nil {
		order.Items = []models.OrderItem{}
	}
	for i := range order.Items {
		if order.Items[i].Product != nil {
			order.Items[i].ProductName = order.Items[i].Product.Name
		} else {
			order.Items[i].ProductName = models.DeletedProductName
		}
	}
	return &order, nil
}

// DeleteOrder hard-deletes an order and its line items. Stock is not touched:
// deletion is an administrative cleanup, not a cancellation.
func (s *OrderService) DeleteOrder(orderID string) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&models.OrderItem{}, "order_id = ?", orderID).Error; err != nil {
			return fmt.Errorf("failed to delete items for order %s: %w", orderID, err)
		}
		res := tx.Delete(&models.Order{}, "id = ?", orderID)
		if res.Error != nil {
			return fmt.Errorf("failed to delete order %s: %w", orderID, res.Error)
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("%w: id %s", models.ErrOrderNotFound, orderID)
		}
		return nil
	})
}

// publishOrderEvent emits an order lifecycle event to RabbitMQ. Publishing is
// best-effort: a missing client or a broker failure is logged, never surfaced.
func (s *OrderService) publishOrderEvent(routingKey string, payload map[string]interface{}) {
	if s.mqClient == nil {
		return
	}
	body, err := json.Marshal(payload)
	if err != nil {
		log.Printf("Failed to marshal %s event: %v", routingKey, err)
		return
	}
	if err := s.mqClient.Publish(routingKey, body); err != nil {
		log.Printf("Warning: failed to publish %s event: %v", routingKey, err)
	}
}
