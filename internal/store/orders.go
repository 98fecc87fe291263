package store

import (
	"context"
	"fmt"

	"petcare-store/internal/models"
)

const orderColumns = `id, user_id, order_items, shipping_address, payment_method,
	tax_price, shipping_price, total_price, is_paid, paid_at, payment_result,
	is_delivered, delivered_at, created_at, updated_at`

// CreateOrder inserts an order, assigning its id and timestamps
func (s *Store) CreateOrder(ctx context.Context, order *models.Order) error {
	if order.ID == "" {
		order.ID = models.NewID()
	}
	now := s.timestamp()
	order.CreatedAt, order.UpdatedAt = now, now

	_, err := s.db.NamedExecContext(ctx, `
		INSERT INTO orders (`+orderColumns+`)
		VALUES (:id, :user_id, :order_items, :shipping_address, :payment_method,
			:tax_price, :shipping_price, :total_price, :is_paid, :paid_at, :payment_result,
			:is_delivered, :delivered_at, :created_at, :updated_at)`, order)
	if err != nil {
		return fmt.Errorf("failed to insert order: %w", err)
	}
	return nil
}

// ListOrders retrieves every order
func (s *Store) ListOrders(ctx context.Context) ([]models.Order, error) {
	orders := []models.Order{}
	err := s.db.SelectContext(ctx, &orders,
		"SELECT "+orderColumns+" FROM orders ORDER BY created_at, id")
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	return orders, nil
}

// GetOrderByID retrieves an order by ID
func (s *Store) GetOrderByID(ctx context.Context, id string) (*models.Order, error) {
	var order models.Order
	err := s.db.GetContext(ctx, &order, "SELECT "+orderColumns+" FROM orders WHERE id = $1", id)
	if err != nil {
		return nil, notFound(err)
	}
	return &order, nil
}

// UpdateOrder writes back the mutable order fields
func (s *Store) UpdateOrder(ctx context.Context, order *models.Order) error {
	order.UpdatedAt = s.timestamp()

	res, err := s.db.NamedExecContext(ctx, `
		UPDATE orders SET
			is_paid = :is_paid,
			paid_at = :paid_at,
			payment_result = :payment_result,
			is_delivered = :is_delivered,
			delivered_at = :delivered_at,
			updated_at = :updated_at
		WHERE id = :id`, order)
	if err != nil {
		return fmt.Errorf("failed to update order: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
