// Package pricing resolves a postal code to a shipping zone and prices a
// parcel against that zone's rate card.
package pricing

import (
	"strings"

	"petcare-store/internal/models"

	"github.com/shopspring/decimal"
)

// LocalPrefixes are the two-digit postal prefixes served by the local zone
var LocalPrefixes = []string{"70", "71", "72", "73"}

// ClassifyPostalCode maps a postal code to a zone type. Only the local
// prefixes are recognised; everything else is national. No rule resolves
// to ZoneState, so the state zone is never quoted.
func ClassifyPostalCode(postalCode string) models.ZoneType {
	for _, prefix := range LocalPrefixes {
		if strings.HasPrefix(postalCode, prefix) {
			return models.ZoneLocal
		}
	}
	return models.ZoneNational
}

// Cost returns baseRate + weight × perKgRate, or zero once orderValue
// reaches the zone's free-shipping threshold.
func Cost(zone models.ShippingZone, weight, orderValue decimal.Decimal) (decimal.Decimal, bool) {
	if QualifiesForFreeShipping(zone, orderValue) {
		return decimal.Zero, true
	}
	return zone.BaseRate.Add(weight.Mul(zone.PerKgRate)), false
}

// QualifiesForFreeShipping reports orderValue >= the zone threshold
func QualifiesForFreeShipping(zone models.ShippingZone, orderValue decimal.Decimal) bool {
	return orderValue.GreaterThanOrEqual(zone.FreeShippingThreshold)
}

// Quote prices a parcel against zone
func Quote(zone models.ShippingZone, weight, orderValue decimal.Decimal) models.ShippingQuote {
	cost, free := Cost(zone, weight, orderValue)
	return models.ShippingQuote{
		Zone:          zone.Name,
		ZoneType:      zone.Type,
		Cost:          cost,
		EstimatedDays: zone.EstimatedDays,
		FreeShipping:  free,
	}
}
