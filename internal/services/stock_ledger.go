package services

import (
	"errors"
	"fmt"

	"aura/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// lockForUpdate adds SELECT ... FOR UPDATE semantics to the query. SQLite has
// a single-writer model and rejects the FOR UPDATE syntax, so the clause is
// only applied on dialects that support row locks.
func lockForUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "sqlite" {
		return tx
	}
	return tx.Clauses(clause.Locking{Strength: "UPDATE"})
}

// StockLedger performs the only two mutations allowed on product stock:
// guarded reservation (checkout, un-cancel) and unconditional release
// (cancellation). Both operate on the caller's transaction so that an order's
// stock adjustments commit or roll back together with the order itself.
type StockLedger struct{}

// Reserve decrements stock for a product by qty. The product row is locked
// for the remainder of the transaction; concurrent reservations against the
// same product serialize on that lock, and the loser sees the updated count.
// Returns models.ErrProductNotFound if the product row does not exist, or an
// *models.InsufficientStockError if fewer than qty units are available.
func (StockLedger) Reserve(tx *gorm.DB, productID string, qty int) error {
	var product models.Product
	if err := lockForUpdate(tx).First(&product, "id = ?", productID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: id %s", models.ErrProductNotFound, productID)
		}
		return fmt.Errorf("failed to lock product %s: %w", productID, err)
	}

	if product.Stock < qty {
		return &models.InsufficientStockError{
			ProductName: product.Name,
			Available:   product.Stock,
			Requested:   qty,
		}
	}

	if err := tx.Model(&models.Product{}).Where("id = ?", productID).
		UpdateColumn("stock", gorm.Expr("stock - ?", qty)).Error; err != nil {
		return fmt.Errorf("failed to reserve stock for product %s: %w", productID, err)
	}
	return nil
}

// Release returns qty units to a product's stock, unconditionally. A nil
// productID means the item's product was deleted; there is no row to adjust
// and the call is a no-op.
func (StockLedger) Release(tx *gorm.DB, productID *string, qty int) error {
	if productID == nil {
		return nil
	}
	if err := tx.Model(&models.Product{}).Where("id = ?", *productID).
		UpdateColumn("stock", gorm.Expr("stock + ?", qty)).Error; err != nil {
		return fmt.Errorf("failed to release stock for product %s: %w", *productID, err)
	}
	return nil
}
