package itinerary

import (
	"context"
	"net/http"
	"time"

	"github.com/FACorreiaa/go-trip-planner/internal/types"
)

// SearchQuery is the normalized query every place provider understands.
// Keyword narrows the search (destination-qualified top-ups, dietary hints);
// PlaceTypeHint is an OSM-style feature tag only some providers can use.
type SearchQuery struct {
	Coords        types.Coordinates
	Category      string
	Keyword       string
	PriceTier     int
	PlaceTypeHint string
}

// PlaceProvider is one external place-data source. Implementations return
// normalized PlaceRecords; transport and parse errors are returned as-is and
// absorbed by the aggregator, never propagated to the caller.
type PlaceProvider interface {
	Name() string
	Search(ctx context.Context, q SearchQuery) ([]types.PlaceRecord, error)
}

func newHTTPClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &http.Client{Timeout: timeout}
}
