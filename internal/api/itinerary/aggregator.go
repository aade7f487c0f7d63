package itinerary

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/FACorreiaa/go-trip-planner/app/observability/metrics"
	"github.com/FACorreiaa/go-trip-planner/internal/types"
	"github.com/patrickmn/go-cache"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// hintOnlyProvider marks adapters that can only answer queries carrying a
// place-type hint and must be skipped otherwise.
type hintOnlyProvider interface {
	RequiresPlaceTypeHint() bool
}

// sufficiencyThreshold is the volume at which the fallback chain
// short-circuits: once a tier has supplied this many candidates, weaker
// tiers are not queried.
const sufficiencyThreshold = 5

// Aggregator merges results from an ordered provider chain into deduplicated
// candidate pools. Provider failures are absorbed into empty results and
// recorded; they never fail itinerary generation.
type Aggregator struct {
	logger     *slog.Logger
	chain      []PlaceProvider // ordered strongest to broadest
	pools      *cache.Cache
	appMetrics *metrics.AppMetrics // optional
}

// NewAggregator builds an aggregator over the ordered provider chain.
// appMetrics may be nil (tests).
func NewAggregator(chain []PlaceProvider, appMetrics *metrics.AppMetrics, logger *slog.Logger) *Aggregator {
	return &Aggregator{
		logger:     logger,
		chain:      chain,
		pools:      cache.New(5*time.Minute, 10*time.Minute),
		appMetrics: appMetrics,
	}
}

// Pooled returns the deduplicated candidate pool for one category at one
// location, memoized briefly so repeated fetches within a planning run (or
// closely spaced runs for the same destination) reuse the merged result.
// The pool is capped by the primary provider's own prominence cap but is not
// re-truncated after fallback merges.
func (a *Aggregator) Pooled(ctx context.Context, coords types.Coordinates, category, placeTypeHint string, priceTier int) []types.PlaceRecord {
	cacheKey := fmt.Sprintf("%s|%s|%.4f,%.4f", category, placeTypeHint, coords.Lat, coords.Lng)
	if cached, found := a.pools.Get(cacheKey); found {
		return cached.([]types.PlaceRecord)
	}

	ctx, span := otel.Tracer("PlaceAggregator").Start(ctx, "Pooled", trace.WithAttributes(
		attribute.String("category", category),
	))
	defer span.End()

	pool := a.searchChain(ctx, SearchQuery{
		Coords:        coords,
		Category:      category,
		PriceTier:     priceTier,
		PlaceTypeHint: placeTypeHint,
	}, sufficiencyThreshold)

	span.SetAttributes(attribute.Int("pool.size", len(pool)))
	a.pools.Set(cacheKey, pool, cache.DefaultExpiration)
	return pool
}

// TopUp issues a narrower destination-qualified query when a filtered pool
// has run low. Results are not cached; the caller merges them into its pool.
func (a *Aggregator) TopUp(ctx context.Context, coords types.Coordinates, category, keyword, placeTypeHint string) []types.PlaceRecord {
	ctx, span := otel.Tracer("PlaceAggregator").Start(ctx, "TopUp", trace.WithAttributes(
		attribute.String("category", category),
		attribute.String("keyword", keyword),
	))
	defer span.End()

	return a.searchChain(ctx, SearchQuery{
		Coords:        coords,
		Category:      category,
		Keyword:       keyword,
		PlaceTypeHint: placeTypeHint,
	}, sufficiencyThreshold)
}

// searchChain walks the provider chain in order, merging name-deduplicated
// results until the volume threshold is met. Dedup is case-sensitive exact
// name match; that is the dedup key for the whole system.
func (a *Aggregator) searchChain(ctx context.Context, q SearchQuery, threshold int) []types.PlaceRecord {
	var pool []types.PlaceRecord
	seen := make(map[string]struct{})

	for _, provider := range a.chain {
		if len(pool) >= threshold {
			break
		}
		// The broadest tier only understands place-type hints.
		if hp, ok := provider.(hintOnlyProvider); ok && hp.RequiresPlaceTypeHint() && q.PlaceTypeHint == "" {
			continue
		}

		if a.appMetrics != nil {
			a.appMetrics.ProviderCallsTotal.Add(ctx, 1)
		}
		records, err := provider.Search(ctx, q)
		if err != nil {
			// Expected and routine: absorb, record, continue down the chain.
			a.logger.WarnContext(ctx, "Place provider call failed",
				slog.String("provider", provider.Name()),
				slog.String("category", q.Category),
				slog.Any("error", err),
			)
			if a.appMetrics != nil {
				a.appMetrics.ProviderErrorsTotal.Add(ctx, 1)
			}
			continue
		}

		for _, rec := range records {
			if rec.Name == "" {
				continue
			}
			if _, dup := seen[rec.Name]; dup {
				continue
			}
			seen[rec.Name] = struct{}{}
			pool = append(pool, rec)
		}
	}
	return pool
}
