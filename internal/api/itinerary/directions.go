package itinerary

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"time"

	"github.com/FACorreiaa/go-trip-planner/internal/types"
)

// DirectionsProvider computes a driving leg between two coordinates.
type DirectionsProvider interface {
	Route(ctx context.Context, from, to types.Coordinates) (types.TransportLeg, error)
}

var _ DirectionsProvider = (*OSRMDirections)(nil)

// OSRMDirections queries an OSRM-compatible routing endpoint.
type OSRMDirections struct {
	logger  *slog.Logger
	client  *http.Client
	baseURL string
}

func NewOSRMDirections(baseURL string, timeout time.Duration, logger *slog.Logger) *OSRMDirections {
	return &OSRMDirections{
		logger:  logger,
		client:  newHTTPClient(timeout),
		baseURL: baseURL,
	}
}

type osrmResponse struct {
	Code   string `json:"code"`
	Routes []struct {
		Distance float64 `json:"distance"` // meters
		Duration float64 `json:"duration"` // seconds
	} `json:"routes"`
}

func (d *OSRMDirections) Route(ctx context.Context, from, to types.Coordinates) (types.TransportLeg, error) {
	// OSRM wants lng,lat ordering.
	reqURL := fmt.Sprintf("%s/route/v1/driving/%f,%f;%f,%f?overview=false",
		d.baseURL, from.Lng, from.Lat, to.Lng, to.Lat)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return types.TransportLeg{}, fmt.Errorf("directions: build request: %w", err)
	}

	resp, err := d.client.Do(req)
	if err != nil {
		return types.TransportLeg{}, fmt.Errorf("directions: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return types.TransportLeg{}, fmt.Errorf("directions: unexpected status %s", resp.Status)
	}

	var parsed osrmResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return types.TransportLeg{}, fmt.Errorf("directions: decode response: %w", err)
	}
	if parsed.Code != "Ok" || len(parsed.Routes) == 0 {
		return types.TransportLeg{}, fmt.Errorf("directions: no route found (code %s)", parsed.Code)
	}

	return types.TransportLeg{
		DistanceKm:  parsed.Routes[0].Distance / 1000,
		DurationMin: parsed.Routes[0].Duration / 60,
		Mode:        types.ModeDriving,
	}, nil
}

const earthRadiusKm = 6371.0

// Haversine returns the great-circle distance between two coordinates in km.
// Used for local legs and as the degraded fallback when routing fails.
func Haversine(a, b types.Coordinates) float64 {
	latA := a.Lat * math.Pi / 180
	latB := b.Lat * math.Pi / 180
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLng := (b.Lng - a.Lng) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(latA)*math.Cos(latB)*math.Sin(dLng/2)*math.Sin(dLng/2)
	return 2 * earthRadiusKm * math.Asin(math.Sqrt(h))
}
