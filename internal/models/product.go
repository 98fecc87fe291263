package models

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Category is the animal group a product is sold for
type Category string

const (
	CategoryDogs         Category = "dogs"
	CategoryCats         Category = "cats"
	CategoryBirds        Category = "birds"
	CategoryFish         Category = "fish"
	CategorySmallAnimals Category = "small-animals"
	CategoryReptiles     Category = "reptiles"
)

// Categories lists every accepted category
var Categories = []Category{
	CategoryDogs,
	CategoryCats,
	CategoryBirds,
	CategoryFish,
	CategorySmallAnimals,
	CategoryReptiles,
}

// Valid reports whether c is one of Categories
func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// Product represents a catalog entry
type Product struct {
	ID          string          `db:"id" json:"_id"`
	Name        string          `db:"name" json:"name"`
	Description string          `db:"description" json:"description"`
	Price       decimal.Decimal `db:"price" json:"price"`
	Category    Category        `db:"category" json:"category"`
	Brand       string          `db:"brand" json:"brand"`
	Stock       int             `db:"stock" json:"stock"`
	Rating      decimal.Decimal `db:"rating" json:"rating"`
	NumReviews  int             `db:"num_reviews" json:"numReviews"`
	Image       string          `db:"image" json:"image"`
	CreatedAt   time.Time       `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time       `db:"updated_at" json:"updatedAt"`
}

// CreateProductRequest is the payload accepted by POST /api/products
type CreateProductRequest struct {
	Name        string           `json:"name" validate:"min=2,max=200"`
	Description string           `json:"description" validate:"min=10,max=2000"`
	Price       *decimal.Decimal `json:"price" validate:"required,gte=0.01"`
	Category    Category         `json:"category" validate:"category"`
	Brand       string           `json:"brand" validate:"min=1,max=100"`
	Stock       *int             `json:"stock" validate:"required,min=0"`
	Rating      *decimal.Decimal `json:"rating,omitempty" validate:"omitempty,min=0,max=5"`
	NumReviews  *int             `json:"numReviews,omitempty" validate:"omitempty,min=0"`
	Image       string           `json:"image,omitempty"`
}

// Normalize trims the free-text fields.
func (r CreateProductRequest) Normalize() CreateProductRequest {
	r.Name = strings.TrimSpace(r.Name)
	r.Description = strings.TrimSpace(r.Description)
	r.Brand = strings.TrimSpace(r.Brand)
	r.Image = strings.TrimSpace(r.Image)
	return r
}

// ToProduct builds a product from a validated request, applying defaults
// for the optional fields. ID and timestamps are left to the store.
func (r CreateProductRequest) ToProduct() *Product {
	p := &Product{
		Name:        r.Name,
		Description: r.Description,
		Category:    r.Category,
		Brand:       r.Brand,
		Rating:      decimal.Zero,
		Image:       r.Image,
	}
	if r.Price != nil {
		p.Price = *r.Price
	}
	if r.Stock != nil {
		p.Stock = *r.Stock
	}
	if r.Rating != nil {
		p.Rating = *r.Rating
	}
	if r.NumReviews != nil {
		p.NumReviews = *r.NumReviews
	}
	return p
}
