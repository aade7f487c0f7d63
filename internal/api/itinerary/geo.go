package itinerary

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/FACorreiaa/go-trip-planner/internal/types"
	"github.com/patrickmn/go-cache"
)

// GeoResolver resolves a free-form place name to coordinates. Resolution
// failure returns types.ErrNotFound; callers must degrade to a fallback
// coordinate instead of aborting the request.
type GeoResolver interface {
	Resolve(ctx context.Context, placeName string) (types.Coordinates, error)
}

var _ GeoResolver = (*NominatimResolver)(nil)

// NominatimResolver geocodes through a Nominatim-compatible endpoint.
// Results are memoized so repeated lookups within a request (and across
// closely spaced requests for the same destination) cost one upstream call.
type NominatimResolver struct {
	logger    *slog.Logger
	client    *http.Client
	baseURL   string
	userAgent string
	cache     *cache.Cache
}

func NewNominatimResolver(baseURL, userAgent string, timeout time.Duration, logger *slog.Logger) *NominatimResolver {
	return &NominatimResolver{
		logger:    logger,
		client:    newHTTPClient(timeout),
		baseURL:   baseURL,
		userAgent: userAgent,
		cache:     cache.New(10*time.Minute, 20*time.Minute),
	}
}

type nominatimResult struct {
	DisplayName string `json:"display_name"`
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
}

func (g *NominatimResolver) Resolve(ctx context.Context, placeName string) (types.Coordinates, error) {
	if cached, found := g.cache.Get(placeName); found {
		return cached.(types.Coordinates), nil
	}

	params := url.Values{}
	params.Set("q", placeName)
	params.Set("format", "json")
	params.Set("limit", "1")

	reqURL := fmt.Sprintf("%s/search?%s", g.baseURL, params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return types.Coordinates{}, fmt.Errorf("geocoding: build request: %w", err)
	}
	// Nominatim requires an identifying User-Agent.
	req.Header.Set("User-Agent", g.userAgent)

	resp, err := g.client.Do(req)
	if err != nil {
		g.logger.WarnContext(ctx, "Geocoding request failed", slog.String("place", placeName), slog.Any("error", err))
		return types.Coordinates{}, types.ErrNotFound
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		g.logger.WarnContext(ctx, "Geocoding returned non-200", slog.String("place", placeName), slog.String("status", resp.Status))
		return types.Coordinates{}, types.ErrNotFound
	}

	var results []nominatimResult
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		g.logger.WarnContext(ctx, "Geocoding response decode failed", slog.String("place", placeName), slog.Any("error", err))
		return types.Coordinates{}, types.ErrNotFound
	}
	if len(results) == 0 {
		return types.Coordinates{}, types.ErrNotFound
	}

	lat, latErr := strconv.ParseFloat(results[0].Lat, 64)
	lng, lngErr := strconv.ParseFloat(results[0].Lon, 64)
	if latErr != nil || lngErr != nil {
		return types.Coordinates{}, types.ErrNotFound
	}

	coords := types.Coordinates{Lat: lat, Lng: lng}
	g.cache.Set(placeName, coords, cache.DefaultExpiration)
	return coords, nil
}
