package repositories_test

import (
	"fmt"
	"strings"
	"testing"

	"aura/internal/models"
	"aura/internal/repositories"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newRepoTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.Product{},
		&models.Order{},
		&models.OrderItem{},
	))
	return db
}

func TestGORMProductRepository_CRUD(t *testing.T) {
	db := newRepoTestDB(t)
	repo := repositories.NewGORMProductRepository(db)

	product := &models.Product{Name: "Desk Mat", Price: 19.99, Stock: 30, Category: "accessories"}
	require.NoError(t, repo.Create(product))
	assert.NotEmpty(t, product.ID)

	fetched, err := repo.GetByID(product.ID)
	require.NoError(t, err)
	assert.Equal(t, "Desk Mat", fetched.Name)

	fetched.Price = 24.99
	require.NoError(t, repo.Update(fetched))
	fetched, err = repo.GetByID(product.ID)
	require.NoError(t, err)
	assert.InDelta(t, 24.99, fetched.Price, 0.001)

	_, err = repo.GetByID("missing")
	assert.ErrorIs(t, err, models.ErrProductNotFound)
}

func TestGORMProductRepository_DeleteDetachesOrderItems(t *testing.T) {
	db := newRepoTestDB(t)
	repo := repositories.NewGORMProductRepository(db)

	product := &models.Product{Name: "Mug", Price: 9.99, Stock: 12, Category: "kitchen"}
	require.NoError(t, repo.Create(product))

	order := &models.Order{
		ID:           uuid.New().String(),
		UserID:       "user-1",
		CustomerName: "Jamie Doe",
		Status:       models.StatusPending,
	}
	require.NoError(t, db.Create(order).Error)
	item := &models.OrderItem{
		ID:        uuid.New().String(),
		OrderID:   order.ID,
		ProductID: &product.ID,
		Quantity:  2,
		UnitPrice: 9.99,
	}
	require.NoError(t, db.Create(item).Error)

	require.NoError(t, repo.Delete(product.ID))

	// The product row is gone, the historical item survives detached with its
	// price snapshot intact.
	_, err := repo.GetByID(product.ID)
	assert.ErrorIs(t, err, models.ErrProductNotFound)

	var stored models.OrderItem
	require.NoError(t, db.First(&stored, "id = ?", item.ID).Error)
	assert.Nil(t, stored.ProductID)
	assert.InDelta(t, 9.99, stored.UnitPrice, 0.001)

	assert.ErrorIs(t, repo.Delete(product.ID), models.ErrProductNotFound)
}
