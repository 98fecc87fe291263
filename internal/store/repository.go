package store

import (
	"context"
	"errors"

	"petcare-store/internal/models"
)

var (
	// ErrNotFound is returned when a lookup matches no record
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate is returned when an insert violates a unique key
	ErrDuplicate = errors.New("duplicate record")
)

// ProductRepository persists the catalog
type ProductRepository interface {
	CreateProduct(ctx context.Context, product *models.Product) error
	// ListProducts returns every product, or only those in category when
	// it is non-empty.
	ListProducts(ctx context.Context, category models.Category) ([]models.Product, error)
	GetProductByID(ctx context.Context, id string) (*models.Product, error)
	CountProducts(ctx context.Context) (int, error)
}

// OrderRepository persists orders
type OrderRepository interface {
	CreateOrder(ctx context.Context, order *models.Order) error
	ListOrders(ctx context.Context) ([]models.Order, error)
	GetOrderByID(ctx context.Context, id string) (*models.Order, error)
	// UpdateOrder overwrites the stored order. There is no version check;
	// the last writer wins.
	UpdateOrder(ctx context.Context, order *models.Order) error
}

// ShippingZoneRepository reads the shipping rate cards
type ShippingZoneRepository interface {
	CreateShippingZone(ctx context.Context, zone *models.ShippingZone) error
	ListShippingZones(ctx context.Context) ([]models.ShippingZone, error)
	// GetShippingZoneByType returns the oldest zone of type zt
	GetShippingZoneByType(ctx context.Context, zt models.ZoneType) (*models.ShippingZone, error)
}

// UserRepository persists registered users. Email is unique.
type UserRepository interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
}

// EventLog records consumed events so redeliveries are skipped
type EventLog interface {
	IsEventProcessed(ctx context.Context, eventID string) (bool, error)
	MarkEventProcessed(ctx context.Context, eventID, eventType string) error
}

// Repository is everything the services need from a backing store
type Repository interface {
	ProductRepository
	OrderRepository
	ShippingZoneRepository
	UserRepository
	EventLog
	Ping(ctx context.Context) error
	Close() error
}
