package models

import "time"

// OrderStatus is the lifecycle status of an order. Any status may move to any
// other; only the Cancelled boundary carries stock semantics.
type OrderStatus string

const (
	StatusPending    OrderStatus = "Pending"
	StatusProcessing OrderStatus = "Processing"
	StatusShipped    OrderStatus = "Shipped"
	StatusDelivered  OrderStatus = "Delivered"
	StatusCancelled  OrderStatus = "Cancelled"
)

// Valid reports whether s is one of the known statuses.
func (s OrderStatus) Valid() bool {
	switch s {
	case StatusPending, StatusProcessing, StatusShipped, StatusDelivered, StatusCancelled:
		return true
	}
	return false
}

// Cancelled reports whether s is the cancelled meta-state. Every other status
// is "active": its goods are committed and deducted from stock.
func (s OrderStatus) Cancelled() bool {
	return s == StatusCancelled
}

// DeletedProductName is the placeholder shown for items whose product row no
// longer exists.
const DeletedProductName = "Deleted Product"

// OrderItem is a single line item of an order. UnitPrice is the price
// snapshot taken at purchase time and never changes afterwards, regardless of
// later product edits.
type OrderItem struct {
	ID        string   `json:"id" gorm:"primaryKey;type:varchar(36)"`
	OrderID   string   `json:"order_id" gorm:"index;type:varchar(36)"`
	ProductID *string  `json:"product_id" gorm:"type:varchar(36)"`
	Product   *Product `json:"-" gorm:"foreignKey:ProductID"`
	Quantity  int      `json:"quantity"`
	UnitPrice float64  `json:"unit_price"`

	// ProductName is filled by the order projection: the current product name,
	// or DeletedProductName when the referenced product was removed.
	ProductName string `json:"product_name" gorm:"-"`
}

// ProductRef returns the referenced product id and whether that product still
// exists. Items whose product was deleted keep their history but take no part
// in stock accounting.
func (i *OrderItem) ProductRef() (string, bool) {
	if i.ProductID == nil {
		return "", false
	}
	return *i.ProductID, true
}

// Order represents a customer order and its line items. Items are created
// atomically with the order and removed only when the order is deleted.
type Order struct {
	ID            string      `json:"id" gorm:"primaryKey;type:varchar(36)"`
	UserID        string      `json:"user_id" gorm:"index;type:varchar(36)"`
	CustomerName  string      `json:"customer_name"`
	CustomerEmail string      `json:"customer_email"`
	TotalAmount   float64     `json:"total_amount"`
	Status        OrderStatus `json:"status" gorm:"type:varchar(20)"`
	Items         []OrderItem `json:"items"`
	CreatedAt     time.Time   `json:"created_at"`
	UpdatedAt     time.Time   `json:"updated_at"`
}
