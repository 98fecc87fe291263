package store

import (
	"context"
	"os"
	"testing"
	"time"

	"petcare-store/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("Integration test - requires database (set TEST_DATABASE_URL)")
	}

	s, err := NewStore(url, Options{})
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	ctx := context.Background()
	require.NoError(t, s.Migrate(ctx))
	_, err = s.GetDB().ExecContext(ctx,
		"TRUNCATE products, orders, shipping_zones, users, processed_events")
	require.NoError(t, err)
	return s
}

func TestCreateOrder(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	order := sampleOrder()
	require.NoError(t, s.CreateOrder(ctx, order))

	retrieved, err := s.GetOrderByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, order.User, retrieved.User)
	assert.True(t, order.TotalPrice.Equal(retrieved.TotalPrice))
	assert.Equal(t, order.ShippingAddress, retrieved.ShippingAddress)
	assert.Equal(t, order.OrderItems[0].Name, retrieved.OrderItems[0].Name)
	assert.Nil(t, retrieved.PaymentResult)
	assert.Nil(t, retrieved.PaidAt)
}

func TestAmountsKeepTheirScale(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	order := sampleOrder()
	order.OrderItems[0].Price = decimal.RequireFromString("25.999")
	order.TaxPrice = decimal.RequireFromString("0.125")
	order.TotalPrice = decimal.RequireFromString("25.999")
	require.NoError(t, s.CreateOrder(ctx, order))

	got, err := s.GetOrderByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, "25.999", got.TotalPrice.String())
	assert.Equal(t, "0.125", got.TaxPrice.String())
	assert.Equal(t, "25.999", got.OrderItems[0].Price.String())

	product := &models.Product{
		Name:        "Catnip Mouse",
		Description: "Plush mouse filled with catnip",
		Price:       decimal.RequireFromString("3.4567"),
		Category:    models.CategoryCats,
		Brand:       "Purrfect",
		Rating:      decimal.RequireFromString("4.125"),
	}
	require.NoError(t, s.CreateProduct(ctx, product))

	gotProduct, err := s.GetProductByID(ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, "3.4567", gotProduct.Price.String())
	assert.Equal(t, "4.125", gotProduct.Rating.String())
}

func TestUpdateOrderMarksPaid(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	order := sampleOrder()
	require.NoError(t, s.CreateOrder(ctx, order))

	order.MarkPaid(models.PaymentResult{ID: "pay_1", Status: "captured", EmailAddress: "a@b.co"}, time.Now())
	require.NoError(t, s.UpdateOrder(ctx, order))

	got, err := s.GetOrderByID(ctx, order.ID)
	require.NoError(t, err)
	assert.True(t, got.IsPaid)
	require.NotNil(t, got.PaymentResult)
	assert.Equal(t, "pay_1", got.PaymentResult.ID)
	assert.False(t, got.PaidAt.Before(got.CreatedAt))
}

func TestGetOrderNotFound(t *testing.T) {
	s := openTestStore(t)

	_, err := s.GetOrderByID(context.Background(), models.NewID())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUserEmailUnique(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.CreateUser(ctx, &models.User{Name: "A", Email: "a@example.com", PasswordHash: "h"}))
	err := s.CreateUser(ctx, &models.User{Name: "B", Email: "a@example.com", PasswordHash: "h"})
	assert.ErrorIs(t, err, ErrDuplicate)
}

func TestSeedAndZoneLookup(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, Seed(ctx, s))

	zone, err := s.GetShippingZoneByType(ctx, models.ZoneNational)
	require.NoError(t, err)
	assert.Equal(t, "All India", zone.Name)
	assert.Equal(t, 5, zone.EstimatedDays.Min)

	products, err := s.ListProducts(ctx, models.CategoryDogs)
	require.NoError(t, err)
	assert.NotEmpty(t, products)
}
