package itinerary

import (
	"math"

	"github.com/FACorreiaa/go-trip-planner/internal/types"
)

// placeRates is the flat per-visit cost table, keyed by category and price
// tier (tier 0 = free, paid tiers run 1-4). Values are currency amounts.
var placeRates = map[string][5]float64{
	types.CategoryAttraction: {0, 10, 18, 30, 50},
	types.CategoryRestaurant: {0, 12, 25, 45, 80},
	types.CategoryHotel:      {0, 40, 75, 130, 220},
	types.CategoryActivity:   {0, 15, 28, 50, 90},
}

// transportRates is the per-km cost by mode. Walking is free.
var transportRates = map[types.TransportMode]float64{
	types.ModeDriving:   0.50,
	types.ModeTransit:   0.20,
	types.ModeWalking:   0,
	types.ModeBicycling: 0.05,
}

// CostEstimator maps place records and transport legs to flat monetary
// estimates using the fixed rate tables above.
type CostEstimator struct{}

func NewCostEstimator() *CostEstimator {
	return &CostEstimator{}
}

// PlaceCost estimates one visit. Records carrying an explicit tier use it
// directly (tier 0 means free); records with no pricing signal derive the
// tier from the caller's 1-5 budget level. Unknown categories price as
// attractions.
func (e *CostEstimator) PlaceCost(record types.PlaceRecord, category string, budgetLevel int) float64 {
	tier := -1
	if record.PriceTier != nil && *record.PriceTier >= 0 && *record.PriceTier <= 4 {
		tier = *record.PriceTier
	}
	if tier < 0 {
		tier = TierForBudgetLevel(budgetLevel)
	}
	rates, ok := placeRates[category]
	if !ok {
		rates = placeRates[types.CategoryAttraction]
	}
	return rates[tier]
}

// TransportCost estimates a leg: distance times the per-km rate for the mode.
func (e *CostEstimator) TransportCost(distanceKm float64, mode types.TransportMode) float64 {
	if distanceKm < 0 {
		return 0
	}
	return distanceKm * transportRates[mode]
}

// TierForBudgetLevel maps the 1-5 budget level onto a 1-4 price tier.
// The mapping is monotonic: a higher budget never yields a lower tier.
func TierForBudgetLevel(level int) int {
	tier := level * 4 / 5
	if tier < 1 {
		tier = 1
	}
	if tier > 4 {
		tier = 4
	}
	return tier
}

// Round2 rounds a monetary amount to two decimal places.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
