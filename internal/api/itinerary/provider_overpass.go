package itinerary

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/FACorreiaa/go-trip-planner/internal/types"
	"golang.org/x/time/rate"
)

var _ PlaceProvider = (*OverpassProvider)(nil)

// OverpassProvider is the second, broadest fallback (OpenStreetMap Overpass
// API). It only answers queries that carry a place-type hint and it returns
// no pricing or rating signal, so records come back without a price tier.
//
// The limiter enforces the Overpass fair-use policy client-side. It is
// injected by whoever owns the adapter's lifecycle, not global state.
type OverpassProvider struct {
	logger    *slog.Logger
	client    *http.Client
	baseURL   string
	userAgent string
	limiter   *rate.Limiter
}

func NewOverpassProvider(baseURL, contactAddress string, timeout time.Duration, limiter *rate.Limiter, logger *slog.Logger) *OverpassProvider {
	return &OverpassProvider{
		logger:    logger,
		client:    newHTTPClient(timeout),
		baseURL:   baseURL,
		userAgent: fmt.Sprintf("WanderPlan/1.0 (%s)", contactAddress),
		limiter:   limiter,
	}
}

func (p *OverpassProvider) Name() string { return "overpass" }

// RequiresPlaceTypeHint reports that this adapter cannot answer untyped queries.
func (p *OverpassProvider) RequiresPlaceTypeHint() bool { return true }

type overpassResponse struct {
	Elements []struct {
		ID   int64             `json:"id"`
		Lat  float64           `json:"lat"`
		Lon  float64           `json:"lon"`
		Tags map[string]string `json:"tags"`
	} `json:"elements"`
}

func (p *OverpassProvider) Search(ctx context.Context, q SearchQuery) ([]types.PlaceRecord, error) {
	if q.PlaceTypeHint == "" {
		return nil, fmt.Errorf("overpass: place-type hint required")
	}
	if p.limiter != nil {
		if err := p.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("overpass: rate limit wait: %w", err)
		}
	}

	// Hints arrive as "key=value" OSM tags, e.g. "tourism=attraction".
	key, value, found := strings.Cut(q.PlaceTypeHint, "=")
	if !found {
		key, value = "tourism", q.PlaceTypeHint
	}

	query := fmt.Sprintf(`
[out:json];
(
  node[%q=%q]["name"](around:5000,%f,%f);
);
out 10;
`, key, value, q.Coords.Lat, q.Coords.Lng)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL, strings.NewReader("data="+query))
	if err != nil {
		return nil, fmt.Errorf("overpass: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("User-Agent", p.userAgent)

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("overpass: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("overpass: unexpected status %s", resp.Status)
	}

	var parsed overpassResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("overpass: decode response: %w", err)
	}

	records := make([]types.PlaceRecord, 0, len(parsed.Elements))
	for _, el := range parsed.Elements {
		name := el.Tags["name"]
		if name == "" {
			continue
		}
		records = append(records, types.PlaceRecord{
			Name:       name,
			ExternalID: fmt.Sprintf("osm:%d", el.ID),
			Location:   types.Coordinates{Lat: el.Lat, Lng: el.Lon},
		})
	}
	return records, nil
}
