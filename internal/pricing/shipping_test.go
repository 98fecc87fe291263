package pricing

import (
	"fmt"
	"testing"

	"petcare-store/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func zoneOf(t *testing.T, zt models.ZoneType) models.ShippingZone {
	t.Helper()
	for _, z := range DefaultZones() {
		if z.Type == zt {
			return z
		}
	}
	require.FailNow(t, "zone not seeded", string(zt))
	return models.ShippingZone{}
}

func TestClassifyPostalCode(t *testing.T) {
	tests := map[string]models.ZoneType{
		"700001": models.ZoneLocal,
		"711101": models.ZoneLocal,
		"721301": models.ZoneLocal,
		"734001": models.ZoneLocal,
		"110001": models.ZoneNational,
		"751001": models.ZoneNational, // Odisha, still not the state zone
		"400001": models.ZoneNational,
		"":       models.ZoneNational,
	}

	for code, want := range tests {
		assert.Equal(t, want, ClassifyPostalCode(code), code)
	}
}

func TestClassifierNeverReturnsState(t *testing.T) {
	for prefix := 0; prefix < 100; prefix++ {
		code := fmt.Sprintf("%02d0001", prefix)
		assert.NotEqual(t, models.ZoneState, ClassifyPostalCode(code), code)
	}
}

func TestCostFormula(t *testing.T) {
	local := zoneOf(t, models.ZoneLocal)

	cost, free := Cost(local, decimal.RequireFromString("2.5"), decimal.NewFromInt(500))

	assert.False(t, free)
	assert.True(t, decimal.NewFromInt(65).Equal(cost), cost.String())
}

func TestCostFreeAtThreshold(t *testing.T) {
	national := zoneOf(t, models.ZoneNational)

	below, free := Cost(national, decimal.NewFromInt(1), decimal.RequireFromString("1998.99"))
	assert.False(t, free)
	assert.True(t, decimal.NewFromInt(140).Equal(below))

	at, free := Cost(national, decimal.NewFromInt(1), decimal.NewFromInt(1999))
	assert.True(t, free)
	assert.True(t, at.IsZero())

	above, free := Cost(national, decimal.NewFromInt(50), decimal.NewFromInt(5000))
	assert.True(t, free)
	assert.True(t, above.IsZero())
}

func TestCostMonotonicInWeight(t *testing.T) {
	for _, zone := range DefaultZones() {
		prev := decimal.NewFromInt(-1)
		for w := 0; w <= 40; w++ {
			weight := decimal.NewFromInt(int64(w)).Div(decimal.NewFromInt(4))
			cost, _ := Cost(zone, weight, decimal.NewFromInt(100))
			assert.True(t, cost.GreaterThanOrEqual(prev), "%s at %s", zone.Name, weight)
			prev = cost
		}
	}
}

func TestZeroThresholdMeansAlwaysFree(t *testing.T) {
	zone := models.ShippingZone{Name: "Promo", BaseRate: decimal.NewFromInt(10), PerKgRate: decimal.NewFromInt(1)}

	cost, free := Cost(zone, decimal.NewFromInt(3), decimal.Zero)

	assert.True(t, free)
	assert.True(t, cost.IsZero())
}

func TestQuote(t *testing.T) {
	local := zoneOf(t, models.ZoneLocal)

	q := Quote(local, decimal.NewFromInt(1), decimal.NewFromInt(200))

	assert.Equal(t, "West Bengal Local", q.Zone)
	assert.Equal(t, models.ZoneLocal, q.ZoneType)
	assert.True(t, decimal.NewFromInt(50).Equal(q.Cost))
	assert.Equal(t, models.DayRange{Min: 1, Max: 3}, q.EstimatedDays)
	assert.False(t, q.FreeShipping)
}
