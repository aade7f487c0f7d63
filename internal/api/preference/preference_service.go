package preference

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/FACorreiaa/go-trip-planner/internal/types"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var _ Service = (*ServiceImpl)(nil)

// Service defines the business logic contract for preference intake.
type Service interface {
	CreatePreference(ctx context.Context, req types.CreatePreferenceRequest) (*types.UserPreference, error)
	GetPreference(ctx context.Context, id int) (*types.UserPreference, error)
}

type ServiceImpl struct {
	logger     *slog.Logger
	repository Repository
}

func NewServiceImpl(repository Repository, logger *slog.Logger) *ServiceImpl {
	return &ServiceImpl{
		logger:     logger,
		repository: repository,
	}
}

func (s *ServiceImpl) CreatePreference(ctx context.Context, req types.CreatePreferenceRequest) (*types.UserPreference, error) {
	ctx, span := otel.Tracer("PreferenceService").Start(ctx, "CreatePreference", trace.WithAttributes(
		attribute.String("destination", req.Destination),
		attribute.Int("duration", req.Duration),
	))
	defer span.End()

	if strings.TrimSpace(req.Destination) == "" {
		return nil, fmt.Errorf("destination is required")
	}
	if req.Duration < 1 {
		return nil, types.ErrInvalidDuration
	}

	pref := types.UserPreference{
		Source:      strings.TrimSpace(req.Source),
		Destination: strings.TrimSpace(req.Destination),
		Duration:    req.Duration,
		Budget:      req.Budget,
		Interests:   req.Interests,
		Halal:       req.Halal,
		Vegetarian:  req.Vegetarian,
	}
	if req.TravelDate != nil {
		parsed, err := time.Parse("2006-01-02", *req.TravelDate)
		if err != nil {
			return nil, fmt.Errorf("invalid travel_date, expected YYYY-MM-DD: %w", err)
		}
		pref.TravelDate = &parsed
	}

	id, err := s.repository.SavePreference(ctx, pref)
	if err != nil {
		s.logger.ErrorContext(ctx, "Repository failed to save preference", slog.Any("error", err))
		span.RecordError(err)
		return nil, fmt.Errorf("failed to save preference: %w", err)
	}
	pref.ID = id

	span.SetStatus(codes.Ok, "Preference saved")
	return &pref, nil
}

func (s *ServiceImpl) GetPreference(ctx context.Context, id int) (*types.UserPreference, error) {
	ctx, span := otel.Tracer("PreferenceService").Start(ctx, "GetPreference", trace.WithAttributes(
		attribute.Int("preference.id", id),
	))
	defer span.End()

	pref, err := s.repository.GetPreference(ctx, id)
	if err != nil {
		s.logger.ErrorContext(ctx, "Repository failed to get preference", slog.Any("error", err))
		span.RecordError(err)
		return nil, err
	}

	span.SetStatus(codes.Ok, "Preference retrieved")
	return pref, nil
}
