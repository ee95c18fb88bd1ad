package models

import "time"

// Product represents a product in the store.
//
// Stock is the authoritative inventory count. It is mutated only through the
// stock ledger's guarded reserve/release operations; the column-level check
// constraint is a last-resort guard against any path that would drive it
// negative.
type Product struct {
	ID          string    `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Name        string    `json:"name" validate:"required,min=2,max=100"`
	Description string    `json:"description" validate:"omitempty,max=500"`
	Price       float64   `json:"price" validate:"required,gt=0"`
	Stock       int       `json:"stock" gorm:"check:stock >= 0" validate:"gte=0"`
	Category    string    `json:"category" validate:"required"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
