package itinerary

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/FACorreiaa/go-trip-planner/internal/api"
	"github.com/FACorreiaa/go-trip-planner/internal/types"
	"go.opentelemetry.io/otel"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
)

type Handler struct {
	service Service
	logger  *slog.Logger
}

func NewHandler(service Service, logger *slog.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// PlanTrip generates a multi-day itinerary for a stored preference record.
func (h *Handler) PlanTrip(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("ItineraryHandler").Start(r.Context(), "PlanTrip", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/itineraries/plan/{preferenceID}"),
	))
	defer span.End()

	l := h.logger.With(slog.String("handler", "PlanTrip"))
	l.DebugContext(ctx, "Plan trip handler invoked")

	idStr := chi.URLParam(r, "preferenceID")
	preferenceID, err := strconv.Atoi(idStr)
	if err != nil {
		l.ErrorContext(ctx, "Invalid preference ID format", slog.String("id", idStr))
		api.ErrorResponse(w, r, http.StatusBadRequest, "Invalid preference ID format")
		return
	}
	l = l.With(slog.Int("preferenceID", preferenceID))

	itin, err := h.service.GenerateItinerary(ctx, preferenceID)
	if err != nil {
		switch {
		case errors.Is(err, types.ErrNotFound):
			l.ErrorContext(ctx, "Preference not found")
			api.ErrorResponse(w, r, http.StatusNotFound, "Preference not found")
		case errors.Is(err, types.ErrInvalidDuration):
			l.ErrorContext(ctx, "Invalid trip duration")
			api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		default:
			l.ErrorContext(ctx, "Itinerary generation failed", slog.Any("error", err))
			api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to generate itinerary")
		}
		return
	}

	l.InfoContext(ctx, "Itinerary generated successfully",
		slog.String("destination", itin.Destination),
		slog.Int("days", len(itin.Days)),
	)
	api.WriteJSONResponse(w, r, http.StatusOK, itin)
}
