package types

import "github.com/google/uuid"

// DayPlan is a single day of the generated itinerary. Money fields are
// rounded to two decimals, distances are kilometers.
type DayPlan struct {
	Day                 string             `json:"day"`
	Attractions         []string           `json:"attractions"`
	Dining              []string           `json:"dining"`
	Activities          []string           `json:"activities"`
	Hotels              []string           `json:"hotels"`
	EstimatedCost       float64            `json:"estimated_cost"`
	CostBreakdown       map[string]float64 `json:"cost_breakdown"`
	TravelCost          float64            `json:"travel_cost"` // nonzero only on day 1
	TravelDistance      float64            `json:"travel_distance"`
	LocalTravelDistance float64            `json:"local_travel_distance"`
}

// Itinerary is the terminal artifact returned to the caller. It is never
// persisted and never mutated after assembly.
type Itinerary struct {
	ID              uuid.UUID          `json:"id"`
	Destination     string             `json:"destination"`
	Duration        int                `json:"duration"`
	Days            []DayPlan          `json:"days"`
	TotalBudget     float64            `json:"total_budget"`
	BudgetBreakdown map[string]float64 `json:"budget_breakdown"`
}
