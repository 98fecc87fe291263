package pricing

import (
	"petcare-store/internal/models"

	"github.com/shopspring/decimal"
)

// DefaultZones is the rate card seeded into an empty store
func DefaultZones() []models.ShippingZone {
	return []models.ShippingZone{
		{
			Name: "West Bengal Local",
			Type: models.ZoneLocal,
			Areas: models.AreaList{
				"Kolkata", "Howrah", "Durgapur", "Asansol", "Siliguri",
				"Bardhaman", "Malda", "Baharampur", "Habra", "Kharagpur",
				"Shantipur", "Dankuni", "Dhulian", "Ranaghat", "Chinsurah",
			},
			BaseRate:              decimal.NewFromInt(40),
			PerKgRate:             decimal.NewFromInt(10),
			FreeShippingThreshold: decimal.NewFromInt(999),
			EstimatedDays:         models.DayRange{Min: 1, Max: 3},
		},
		{
			Name: "Eastern India",
			Type: models.ZoneState,
			Areas: models.AreaList{
				"Odisha", "Jharkhand", "Bihar", "Assam", "Tripura",
				"Manipur", "Meghalaya", "Nagaland", "Arunachal Pradesh", "Mizoram", "Sikkim",
			},
			BaseRate:              decimal.NewFromInt(80),
			PerKgRate:             decimal.NewFromInt(15),
			FreeShippingThreshold: decimal.NewFromInt(1499),
			EstimatedDays:         models.DayRange{Min: 3, Max: 7},
		},
		{
			Name: "All India",
			Type: models.ZoneNational,
			Areas: models.AreaList{
				"Delhi", "Mumbai", "Chennai", "Bangalore", "Hyderabad",
				"Pune", "Ahmedabad", "Surat", "Jaipur", "Lucknow", "Other Cities",
			},
			BaseRate:              decimal.NewFromInt(120),
			PerKgRate:             decimal.NewFromInt(20),
			FreeShippingThreshold: decimal.NewFromInt(1999),
			EstimatedDays:         models.DayRange{Min: 5, Max: 10},
		},
	}
}
