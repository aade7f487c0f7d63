package itinerary

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/FACorreiaa/go-trip-planner/app/observability/metrics"
	"github.com/FACorreiaa/go-trip-planner/internal/types"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"
)

// defaultInterest fills in when a preference arrives with no usable interests.
const defaultInterest = "sightseeing"

// defaultDestinationCoords is the documented fallback landmark (Eiffel Tower)
// substituted when the destination itself cannot be geocoded. Generation
// must never abort solely because geocoding failed.
var defaultDestinationCoords = types.Coordinates{Lat: 48.8584, Lng: 2.2945}

// sourceFallbackOffsetDeg displaces the source near the destination when the
// source cannot be geocoded, so the inter-city leg stays small but nonzero.
const sourceFallbackOffsetDeg = 0.5

var _ Service = (*ServiceImpl)(nil)

// Service is the itinerary synthesis engine: a function of a preference id
// returning a complete, budget-annotated multi-day plan.
type Service interface {
	GenerateItinerary(ctx context.Context, preferenceID int) (*types.Itinerary, error)
}

// PreferenceReader is the slice of the storage collaborator the engine needs.
type PreferenceReader interface {
	GetPreference(ctx context.Context, id int) (*types.UserPreference, error)
}

type ServiceImpl struct {
	logger     *slog.Logger
	prefs      PreferenceReader
	geo        GeoResolver
	directions DirectionsProvider
	agg        *Aggregator
	est        *CostEstimator
	appMetrics *metrics.AppMetrics // optional
}

func NewServiceImpl(prefs PreferenceReader, geo GeoResolver, directions DirectionsProvider, agg *Aggregator, appMetrics *metrics.AppMetrics, logger *slog.Logger) *ServiceImpl {
	return &ServiceImpl{
		logger:     logger,
		prefs:      prefs,
		geo:        geo,
		directions: directions,
		agg:        agg,
		est:        NewCostEstimator(),
		appMetrics: appMetrics,
	}
}

// GenerateItinerary assembles the full plan: resolve coordinates, prefetch
// candidate pools concurrently, choose lodging once, run the day loop, and
// total the budget. Provider failures degrade to placeholders; only a missing
// preference or an unexpected internal fault surfaces as an error.
func (s *ServiceImpl) GenerateItinerary(ctx context.Context, preferenceID int) (itin *types.Itinerary, err error) {
	ctx, span := otel.Tracer("ItineraryService").Start(ctx, "GenerateItinerary", trace.WithAttributes(
		attribute.Int("preference.id", preferenceID),
	))
	defer span.End()

	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			s.logger.ErrorContext(ctx, "Panic during itinerary assembly",
				slog.Int("preferenceID", preferenceID),
				slog.Any("panic", r),
			)
			span.SetStatus(codes.Error, "generation panic")
			itin = nil
			err = fmt.Errorf("%w: internal error during day assembly", types.ErrGenerationFailure)
		}
		if s.appMetrics != nil {
			s.appMetrics.ItineraryRequestsTotal.Add(ctx, 1)
			s.appMetrics.GenerationDurationSeconds.Record(ctx, time.Since(start).Seconds())
		}
	}()

	pref, err := s.prefs.GetPreference(ctx, preferenceID)
	if err != nil {
		if errors.Is(err, types.ErrNotFound) {
			return nil, err
		}
		s.logger.ErrorContext(ctx, "Failed to load preference", slog.Any("error", err))
		span.RecordError(err)
		return nil, fmt.Errorf("%w: loading preference: %v", types.ErrGenerationFailure, err)
	}
	if pref.Duration < 1 {
		return nil, types.ErrInvalidDuration
	}

	interests := pref.InterestList()
	if len(interests) == 0 {
		interests = []string{defaultInterest}
	}

	destCoords, err := s.geo.Resolve(ctx, pref.Destination)
	if err != nil {
		// Degraded continuation: documented default landmark.
		s.logger.WarnContext(ctx, "Destination geocoding failed, using default coordinates",
			slog.String("destination", pref.Destination),
		)
		destCoords = defaultDestinationCoords
	}

	p := newPlanner(s.agg, s.est, pref, destCoords, interests, s.logger)

	// Pools for the base categories and every interest are independent
	// network fan-outs; warm them concurrently before the sequential day loop.
	g, gctx := errgroup.WithContext(ctx)
	poolKeys := append([]string{
		types.CategoryAttraction,
		types.CategoryRestaurant,
		types.CategoryHotel,
	}, interests...)
	for _, key := range poolKeys {
		g.Go(func() error {
			p.prefetch(gctx, key)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		// Prefetch absorbs provider errors; only context cancellation lands here.
		return nil, fmt.Errorf("%w: %v", types.ErrGenerationFailure, err)
	}

	p.chooseHotel(ctx)

	intercity, intercityCost := s.intercityLeg(ctx, pref.Source, destCoords)

	days := make([]types.DayPlan, 0, pref.Duration)
	for day := 1; day <= pref.Duration; day++ {
		days = append(days, p.planDay(ctx, day, intercity, intercityCost))
	}

	itinerary := &types.Itinerary{
		ID:          uuid.New(),
		Destination: pref.Destination,
		Duration:    pref.Duration,
		Days:        days,
	}
	itinerary.BudgetBreakdown = make(map[string]float64)
	for _, d := range days {
		for category, amount := range d.CostBreakdown {
			itinerary.BudgetBreakdown[category] = Round2(itinerary.BudgetBreakdown[category] + amount)
		}
		itinerary.TotalBudget = Round2(itinerary.TotalBudget + d.EstimatedCost)
	}

	span.SetAttributes(attribute.Int("days", len(days)), attribute.Float64("total_budget", itinerary.TotalBudget))
	span.SetStatus(codes.Ok, "Itinerary generated")
	return itinerary, nil
}

// intercityLeg resolves the source and routes the one-time leg to the
// destination. Source geocoding failure falls back to an offset near the
// destination; routing failure falls back to the haversine distance.
func (s *ServiceImpl) intercityLeg(ctx context.Context, source string, destCoords types.Coordinates) (types.TransportLeg, float64) {
	srcCoords, err := s.geo.Resolve(ctx, source)
	if err != nil {
		s.logger.WarnContext(ctx, "Source geocoding failed, using offset fallback", slog.String("source", source))
		srcCoords = types.Coordinates{Lat: destCoords.Lat + sourceFallbackOffsetDeg, Lng: destCoords.Lng}
	}

	leg, err := s.directions.Route(ctx, srcCoords, destCoords)
	if err != nil {
		s.logger.WarnContext(ctx, "Directions lookup failed, using haversine fallback", slog.Any("error", err))
		if s.appMetrics != nil {
			s.appMetrics.ProviderErrorsTotal.Add(ctx, 1)
		}
		leg = types.TransportLeg{
			DistanceKm: Haversine(srcCoords, destCoords),
			Mode:       types.ModeDriving,
		}
	}
	return leg, s.est.TransportCost(leg.DistanceKm, leg.Mode)
}
