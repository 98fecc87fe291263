package store

import (
	"context"
	"fmt"

	"petcare-store/internal/models"
	"petcare-store/internal/pricing"

	"github.com/shopspring/decimal"
)

// Seed loads the shipping zones and a starter catalog into an empty store.
// Tables that already hold rows are left alone.
func Seed(ctx context.Context, repo Repository) error {
	zones, err := repo.ListShippingZones(ctx)
	if err != nil {
		return err
	}
	if len(zones) == 0 {
		for _, zone := range pricing.DefaultZones() {
			zone := zone
			if err := repo.CreateShippingZone(ctx, &zone); err != nil {
				return fmt.Errorf("failed to seed zone %s: %w", zone.Name, err)
			}
		}
	}

	count, err := repo.CountProducts(ctx)
	if err != nil {
		return err
	}
	if count == 0 {
		for _, p := range SampleProducts() {
			p := p
			if err := repo.CreateProduct(ctx, &p); err != nil {
				return fmt.Errorf("failed to seed product %s: %w", p.Name, err)
			}
		}
	}
	return nil
}

// SampleProducts is the starter catalog
func SampleProducts() []models.Product {
	price := decimal.RequireFromString
	return []models.Product{
		{
			Name:        "Premium Dog Food",
			Description: "High-quality nutrition for adult dogs with real chicken and vegetables",
			Price:       price("2499"),
			Category:    models.CategoryDogs,
			Brand:       "Royal Canin",
			Stock:       50,
			Rating:      price("4.5"),
			NumReviews:  128,
		},
		{
			Name:        "Interactive Cat Toy",
			Description: "Feather wand toy that keeps indoor cats active and entertained",
			Price:       price("349"),
			Category:    models.CategoryCats,
			Brand:       "Petstages",
			Stock:       120,
			Rating:      price("4.2"),
			NumReviews:  64,
		},
		{
			Name:        "Bird Seed Mix",
			Description: "Balanced seed blend for parakeets, finches and canaries",
			Price:       price("299"),
			Category:    models.CategoryBirds,
			Brand:       "Vitakraft",
			Stock:       80,
			Rating:      price("4.0"),
			NumReviews:  22,
		},
		{
			Name:        "Aquarium Filter",
			Description: "Quiet internal filter for freshwater tanks up to 100 litres",
			Price:       price("1299"),
			Category:    models.CategoryFish,
			Brand:       "Boyu",
			Stock:       30,
			Rating:      price("4.3"),
			NumReviews:  41,
		},
		{
			Name:        "Hamster Cage",
			Description: "Two-level cage with wheel, water bottle and hideout",
			Price:       price("1899"),
			Category:    models.CategorySmallAnimals,
			Brand:       "Savic",
			Stock:       15,
			Rating:      price("4.1"),
			NumReviews:  17,
		},
		{
			Name:        "Reptile Heat Lamp",
			Description: "Basking lamp that keeps terrarium temperatures steady",
			Price:       price("899"),
			Category:    models.CategoryReptiles,
			Brand:       "Exo Terra",
			Stock:       25,
			Rating:      price("4.4"),
			NumReviews:  9,
		},
	}
}
