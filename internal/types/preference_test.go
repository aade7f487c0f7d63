package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUserPreference_InterestList(t *testing.T) {
	tests := []struct {
		name      string
		interests string
		want      []string
	}{
		{"simple", "art,food", []string{"art", "food"}},
		{"trims and lowercases", " Art , FOOD ", []string{"art", "food"}},
		{"drops empties and duplicates", "art,,art, ,food", []string{"art", "food"}},
		{"whitespace only", "  ,  ", nil},
		{"empty", "", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := UserPreference{Interests: tt.interests}
			assert.Equal(t, tt.want, p.InterestList())
		})
	}
}

func TestUserPreference_BudgetLevel(t *testing.T) {
	level := func(budget float64) int {
		return (&UserPreference{Budget: &budget}).BudgetLevel()
	}

	assert.Equal(t, 3, (&UserPreference{}).BudgetLevel(), "nil budget defaults to mid-range")
	assert.Equal(t, 1, level(0))
	assert.Equal(t, 1, level(999))
	assert.Equal(t, 2, level(1000))
	assert.Equal(t, 3, level(2500))
	assert.Equal(t, 5, level(4000))
	assert.Equal(t, 5, level(50000), "level is capped")
	assert.Equal(t, 1, level(-100), "negative budgets floor at the lowest level")
}
