package types

import (
	"strings"
	"time"
)

// UserPreference is the intake record the planning engine consumes.
// Interests are stored as a comma-separated string and split on use.
type UserPreference struct {
	ID          int        `json:"id"`
	Source      string     `json:"source"`
	Destination string     `json:"destination"`
	Duration    int        `json:"duration"`
	Budget      *float64   `json:"budget,omitempty"`
	Interests   string     `json:"interests"`
	Halal       bool       `json:"halal"`
	Vegetarian  bool       `json:"vegetarian"`
	TravelDate  *time.Time `json:"travel_date,omitempty"`
}

// InterestList splits, trims and deduplicates the stored interests,
// preserving first-seen order.
func (p UserPreference) InterestList() []string {
	seen := make(map[string]struct{})
	var out []string
	for _, raw := range strings.Split(p.Interests, ",") {
		interest := strings.ToLower(strings.TrimSpace(raw))
		if interest == "" {
			continue
		}
		if _, ok := seen[interest]; ok {
			continue
		}
		seen[interest] = struct{}{}
		out = append(out, interest)
	}
	return out
}

// BudgetLevel maps the absolute budget onto the 1-5 scale the cost
// estimator expects. Higher budget always maps to a higher level.
func (p UserPreference) BudgetLevel() int {
	if p.Budget == nil {
		return 3
	}
	level := int(*p.Budget/1000) + 1
	if level < 1 {
		level = 1
	}
	if level > 5 {
		level = 5
	}
	return level
}

type CreatePreferenceRequest struct {
	Source      string   `json:"source"`
	Destination string   `json:"destination"`
	Duration    int      `json:"duration"`
	Budget      *float64 `json:"budget,omitempty"`
	Interests   string   `json:"interests"`
	Halal       bool     `json:"halal"`
	Vegetarian  bool     `json:"vegetarian"`
	TravelDate  *string  `json:"travel_date,omitempty"`
}
