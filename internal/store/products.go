package store

import (
	"context"
	"fmt"

	"petcare-store/internal/models"
)

const productColumns = `id, name, description, price, category, brand, stock,
	rating, num_reviews, image, created_at, updated_at`

// CreateProduct inserts a product, assigning its id and timestamps
func (s *Store) CreateProduct(ctx context.Context, p *models.Product) error {
	if p.ID == "" {
		p.ID = models.NewID()
	}
	now := s.timestamp()
	p.CreatedAt, p.UpdatedAt = now, now

	_, err := s.db.NamedExecContext(ctx, `
		INSERT INTO products (`+productColumns+`)
		VALUES (:id, :name, :description, :price, :category, :brand, :stock,
			:rating, :num_reviews, :image, :created_at, :updated_at)`, p)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("failed to insert product: %w", err)
	}
	return nil
}

// ListProducts retrieves products, optionally filtered by category
func (s *Store) ListProducts(ctx context.Context, category models.Category) ([]models.Product, error) {
	products := []models.Product{}
	var err error
	if category == "" {
		err = s.db.SelectContext(ctx, &products,
			"SELECT "+productColumns+" FROM products ORDER BY created_at, id")
	} else {
		err = s.db.SelectContext(ctx, &products,
			"SELECT "+productColumns+" FROM products WHERE category = $1 ORDER BY created_at, id", category)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	return products, nil
}

// GetProductByID retrieves a product by ID
func (s *Store) GetProductByID(ctx context.Context, id string) (*models.Product, error) {
	var product models.Product
	err := s.db.GetContext(ctx, &product, "SELECT "+productColumns+" FROM products WHERE id = $1", id)
	if err != nil {
		return nil, notFound(err)
	}
	return &product, nil
}

// CountProducts returns the catalog size
func (s *Store) CountProducts(ctx context.Context) (int, error) {
	var n int
	err := s.db.GetContext(ctx, &n, "SELECT COUNT(*) FROM products")
	return n, err
}
