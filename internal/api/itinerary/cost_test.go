package itinerary

import (
	"testing"

	"github.com/FACorreiaa/go-trip-planner/internal/types"
	"github.com/stretchr/testify/assert"
)

func TestCostEstimator_PlaceCost(t *testing.T) {
	est := NewCostEstimator()

	t.Run("explicit price tier wins over budget level", func(t *testing.T) {
		rec := types.PlaceRecord{Name: "Louvre", PriceTier: tierPtr(3)}
		got := est.PlaceCost(rec, types.CategoryAttraction, 1)
		assert.Equal(t, placeRates[types.CategoryAttraction][3], got)
	})

	t.Run("explicit free tier costs nothing", func(t *testing.T) {
		rec := types.PlaceRecord{Name: "Jardin du Luxembourg", PriceTier: tierPtr(0)}
		assert.Zero(t, est.PlaceCost(rec, types.CategoryAttraction, 5))
	})

	t.Run("missing tier derives from budget level", func(t *testing.T) {
		rec := types.PlaceRecord{Name: "Unknown Spot"}
		got := est.PlaceCost(rec, types.CategoryRestaurant, 5)
		assert.Equal(t, placeRates[types.CategoryRestaurant][4], got)
	})

	t.Run("unknown category prices as attraction", func(t *testing.T) {
		rec := types.PlaceRecord{Name: "Mystery", PriceTier: tierPtr(2)}
		assert.Equal(t,
			est.PlaceCost(rec, types.CategoryAttraction, 3),
			est.PlaceCost(rec, "spelunking", 3),
		)
	})

	t.Run("out-of-range tiers are treated as unknown", func(t *testing.T) {
		rec := types.PlaceRecord{Name: "Odd", PriceTier: tierPtr(9)}
		got := est.PlaceCost(rec, types.CategoryHotel, 3)
		assert.Equal(t, placeRates[types.CategoryHotel][TierForBudgetLevel(3)], got)
	})
}

func TestTierForBudgetLevel(t *testing.T) {
	// Higher budget level must never yield a lower tier.
	prev := 0
	for level := 1; level <= 5; level++ {
		tier := TierForBudgetLevel(level)
		assert.GreaterOrEqual(t, tier, prev, "tier regressed at level %d", level)
		assert.GreaterOrEqual(t, tier, 1)
		assert.LessOrEqual(t, tier, 4)
		prev = tier
	}
	assert.Equal(t, 1, TierForBudgetLevel(1))
	assert.Equal(t, 4, TierForBudgetLevel(5))
}

func TestCostEstimator_TransportCost(t *testing.T) {
	est := NewCostEstimator()

	assert.Equal(t, 5.0, est.TransportCost(10, types.ModeDriving))
	assert.Equal(t, 2.0, est.TransportCost(10, types.ModeTransit))
	assert.Equal(t, 0.0, est.TransportCost(10, types.ModeWalking))
	assert.Equal(t, 0.5, est.TransportCost(10, types.ModeBicycling))
	assert.Equal(t, 0.0, est.TransportCost(-3, types.ModeDriving))
}

func TestHaversine(t *testing.T) {
	paris := types.Coordinates{Lat: 48.8566, Lng: 2.3522}
	london := types.Coordinates{Lat: 51.5074, Lng: -0.1278}

	km := Haversine(paris, london)
	assert.InDelta(t, 344, km, 5, "Paris-London great-circle distance")
	assert.Zero(t, Haversine(paris, paris))
}
