package store

import (
	"context"
	"fmt"

	"petcare-store/internal/models"
)

const zoneColumns = `id, name, type, areas, base_rate, per_kg_rate,
	free_shipping_threshold, estimated_days, created_at, updated_at`

// CreateShippingZone inserts a zone
func (s *Store) CreateShippingZone(ctx context.Context, zone *models.ShippingZone) error {
	if zone.ID == "" {
		zone.ID = models.NewID()
	}
	now := s.timestamp()
	zone.CreatedAt, zone.UpdatedAt = now, now

	_, err := s.db.NamedExecContext(ctx, `
		INSERT INTO shipping_zones (`+zoneColumns+`)
		VALUES (:id, :name, :type, :areas, :base_rate, :per_kg_rate,
			:free_shipping_threshold, :estimated_days, :created_at, :updated_at)`, zone)
	if err != nil {
		return fmt.Errorf("failed to insert shipping zone: %w", err)
	}
	return nil
}

// ListShippingZones retrieves every zone
func (s *Store) ListShippingZones(ctx context.Context) ([]models.ShippingZone, error) {
	zones := []models.ShippingZone{}
	err := s.db.SelectContext(ctx, &zones,
		"SELECT "+zoneColumns+" FROM shipping_zones ORDER BY created_at, id")
	if err != nil {
		return nil, fmt.Errorf("failed to list shipping zones: %w", err)
	}
	return zones, nil
}

// GetShippingZoneByType retrieves the first zone of the given type
func (s *Store) GetShippingZoneByType(ctx context.Context, zt models.ZoneType) (*models.ShippingZone, error) {
	var zone models.ShippingZone
	err := s.db.GetContext(ctx, &zone,
		"SELECT "+zoneColumns+" FROM shipping_zones WHERE type = $1 ORDER BY created_at, id LIMIT 1", zt)
	if err != nil {
		return nil, notFound(err)
	}
	return &zone, nil
}
