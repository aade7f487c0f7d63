package itinerary

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"sort"
	"time"

	"github.com/FACorreiaa/go-trip-planner/internal/types"
)

// primaryResultCap is the provider's own prominence cap: only the top rated
// results survive normalization. Fallback merges may push pools above this.
const primaryResultCap = 15

var _ PlaceProvider = (*GooglePlacesProvider)(nil)

// GooglePlacesProvider is the primary, richest place source (Places Nearby
// Search API shape: price_level 0-4, rating 0-5, geometry coordinates).
type GooglePlacesProvider struct {
	logger  *slog.Logger
	client  *http.Client
	baseURL string
	apiKey  string
}

func NewGooglePlacesProvider(baseURL, apiKey string, timeout time.Duration, logger *slog.Logger) *GooglePlacesProvider {
	return &GooglePlacesProvider{
		logger:  logger,
		client:  newHTTPClient(timeout),
		baseURL: baseURL,
		apiKey:  apiKey,
	}
}

func (p *GooglePlacesProvider) Name() string { return "google_places" }

type googlePlacesResponse struct {
	Results []struct {
		PlaceID    string  `json:"place_id"`
		Name       string  `json:"name"`
		Rating     float64 `json:"rating"`
		PriceLevel *int    `json:"price_level"` // 0 = free; absent = no pricing signal
		Geometry   struct {
			Location struct {
				Lat float64 `json:"lat"`
				Lng float64 `json:"lng"`
			} `json:"location"`
		} `json:"geometry"`
	} `json:"results"`
	Status string `json:"status"`
}

func (p *GooglePlacesProvider) Search(ctx context.Context, q SearchQuery) ([]types.PlaceRecord, error) {
	params := url.Values{}
	params.Set("location", fmt.Sprintf("%f,%f", q.Coords.Lat, q.Coords.Lng))
	params.Set("radius", "5000")
	params.Set("key", p.apiKey)
	keyword := q.Category
	if q.Keyword != "" {
		keyword = q.Keyword
	}
	params.Set("keyword", keyword)
	if q.PriceTier >= 1 && q.PriceTier <= 4 {
		params.Set("maxprice", fmt.Sprintf("%d", q.PriceTier))
	}

	reqURL := fmt.Sprintf("%s/nearbysearch/json?%s", p.baseURL, params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("google places: build request: %w", err)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("google places: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("google places: unexpected status %s", resp.Status)
	}

	var parsed googlePlacesResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("google places: decode response: %w", err)
	}
	if parsed.Status != "OK" && parsed.Status != "ZERO_RESULTS" {
		return nil, fmt.Errorf("google places: api status %s", parsed.Status)
	}

	records := make([]types.PlaceRecord, 0, len(parsed.Results))
	for _, res := range parsed.Results {
		if res.Name == "" {
			continue
		}
		records = append(records, types.PlaceRecord{
			Name:       res.Name,
			ExternalID: res.PlaceID,
			PriceTier:  res.PriceLevel,
			Rating:     res.Rating,
			Location:   types.Coordinates{Lat: res.Geometry.Location.Lat, Lng: res.Geometry.Location.Lng},
		})
	}

	// Keep the most prominent results only.
	sort.SliceStable(records, func(i, j int) bool { return records[i].Rating > records[j].Rating })
	if len(records) > primaryResultCap {
		records = records[:primaryResultCap]
	}
	return records, nil
}
