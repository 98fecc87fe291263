package models

import (
	"database/sql/driver"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// ZoneType groups shipping destinations by distance
type ZoneType string

const (
	ZoneLocal    ZoneType = "local"
	ZoneState    ZoneType = "state"
	ZoneNational ZoneType = "national"
)

// DayRange is an inclusive delivery estimate in days
type DayRange struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

func (r DayRange) Value() (driver.Value, error) {
	return valueJSON(r)
}

func (r *DayRange) Scan(src interface{}) error {
	type plain DayRange
	return scanJSON(src, (*plain)(r))
}

// AreaList is the set of area names a zone covers
type AreaList []string

func (a AreaList) Value() (driver.Value, error) {
	if a == nil {
		a = AreaList{}
	}
	return valueJSON([]string(a))
}

func (a *AreaList) Scan(src interface{}) error {
	return scanJSON(src, (*[]string)(a))
}

// ShippingZone holds the rate card for one zone. Zones are seeded at
// setup and read-only afterwards.
type ShippingZone struct {
	ID                    string          `db:"id" json:"_id"`
	Name                  string          `db:"name" json:"name"`
	Type                  ZoneType        `db:"type" json:"type"`
	Areas                 AreaList        `db:"areas" json:"areas"`
	BaseRate              decimal.Decimal `db:"base_rate" json:"baseRate"`
	PerKgRate             decimal.Decimal `db:"per_kg_rate" json:"perKgRate"`
	FreeShippingThreshold decimal.Decimal `db:"free_shipping_threshold" json:"freeShippingThreshold"`
	EstimatedDays         DayRange        `db:"estimated_days" json:"estimatedDays"`
	CreatedAt             time.Time       `db:"created_at" json:"createdAt"`
	UpdatedAt             time.Time       `db:"updated_at" json:"updatedAt"`
}

// ShippingQuoteRequest is the payload accepted by POST /api/shipping/calculate
type ShippingQuoteRequest struct {
	Pincode    string           `json:"pincode" validate:"postalcode"`
	Weight     *decimal.Decimal `json:"weight" validate:"required,min=0"`
	OrderValue *decimal.Decimal `json:"orderValue" validate:"required,min=0"`
}

// Normalize trims the pincode
func (r ShippingQuoteRequest) Normalize() ShippingQuoteRequest {
	r.Pincode = strings.TrimSpace(r.Pincode)
	return r
}

// ShippingQuote is the calculated cost of shipping one parcel
type ShippingQuote struct {
	Zone          string          `json:"zone"`
	ZoneType      ZoneType        `json:"zoneType"`
	Cost          decimal.Decimal `json:"cost"`
	EstimatedDays DayRange        `json:"estimatedDays"`
	FreeShipping  bool            `json:"freeShipping"`
}
