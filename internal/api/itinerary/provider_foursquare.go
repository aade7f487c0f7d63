package itinerary

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/FACorreiaa/go-trip-planner/internal/types"
)

var _ PlaceProvider = (*FoursquareProvider)(nil)

// FoursquareProvider is the first fallback source (Places API v3 shape).
// Ratings come back on a 0-10 scale and are halved during normalization.
type FoursquareProvider struct {
	logger  *slog.Logger
	client  *http.Client
	baseURL string
	apiKey  string
}

func NewFoursquareProvider(baseURL, apiKey string, timeout time.Duration, logger *slog.Logger) *FoursquareProvider {
	return &FoursquareProvider{
		logger:  logger,
		client:  newHTTPClient(timeout),
		baseURL: baseURL,
		apiKey:  apiKey,
	}
}

func (p *FoursquareProvider) Name() string { return "foursquare" }

type foursquareResponse struct {
	Results []struct {
		FsqID    string  `json:"fsq_id"`
		Name     string  `json:"name"`
		Rating   float64 `json:"rating"`
		Price    int     `json:"price"`
		Geocodes struct {
			Main struct {
				Latitude  float64 `json:"latitude"`
				Longitude float64 `json:"longitude"`
			} `json:"main"`
		} `json:"geocodes"`
	} `json:"results"`
}

func (p *FoursquareProvider) Search(ctx context.Context, q SearchQuery) ([]types.PlaceRecord, error) {
	params := url.Values{}
	params.Set("ll", fmt.Sprintf("%f,%f", q.Coords.Lat, q.Coords.Lng))
	params.Set("radius", "5000")
	params.Set("limit", "10")
	query := q.Category
	if q.Keyword != "" {
		query = q.Keyword
	}
	params.Set("query", query)

	reqURL := fmt.Sprintf("%s/places/search?%s", p.baseURL, params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("foursquare: build request: %w", err)
	}
	req.Header.Set("Authorization", p.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("foursquare: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("foursquare: unexpected status %s", resp.Status)
	}

	var parsed foursquareResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("foursquare: decode response: %w", err)
	}

	records := make([]types.PlaceRecord, 0, len(parsed.Results))
	for _, res := range parsed.Results {
		if res.Name == "" {
			continue
		}
		rec := types.PlaceRecord{
			Name:       res.Name,
			ExternalID: res.FsqID,
			Rating:     res.Rating / 2, // 0-10 scale normalized to 0-5
			Location: types.Coordinates{
				Lat: res.Geocodes.Main.Latitude,
				Lng: res.Geocodes.Main.Longitude,
			},
		}
		// Foursquare price runs 1-4; zero means the field was absent.
		if res.Price >= 1 {
			price := res.Price
			rec.PriceTier = &price
		}
		records = append(records, rec)
	}
	return records, nil
}
