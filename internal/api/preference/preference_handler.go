package preference

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

// CreatePreference stores a new travel preference record and returns it with its id.
func (h *Handler) CreatePreference(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("PreferenceHandler").Start(r.Context(), "CreatePreference", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/preferences"),
	))
	defer span.End()

	l := h.logger.With(slog.String("handler", "CreatePreference"))
	l.DebugContext(ctx, "Create preference handler invoked")

	var req types.CreatePreferenceRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		l.ErrorContext(ctx, "Failed to decode request body", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	pref, err := h.service.CreatePreference(ctx, req)
	if err != nil {
		if errors.Is(err, types.ErrInvalidDuration) {
			l.ErrorContext(ctx, "Invalid duration", slog.Int("duration", req.Duration))
			api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
			return
		}
		l.ErrorContext(ctx, "Failed to create preference", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to save preferences")
		return
	}

	l.InfoContext(ctx, "Preferences saved successfully", slog.Int("preferenceID", pref.ID))
	api.WriteJSONResponse(w, r, http.StatusCreated, pref)
}

// GetPreference returns a stored preference record by id.
func (h *Handler) GetPreference(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("PreferenceHandler").Start(r.Context(), "GetPreference", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/preferences/{preferenceID}"),
	))
	defer span.End()

	l := h.logger.With(slog.String("handler", "GetPreference"))

	idStr := chi.URLParam(r, "preferenceID")
	id, err := strconv.Atoi(idStr)
	if err != nil {
		l.ErrorContext(ctx, "Invalid preference ID format", slog.String("id", idStr))
		api.ErrorResponse(w, r, http.StatusBadRequest, "Invalid preference ID format")
		return
	}

	pref, err := h.service.GetPreference(ctx, id)
	if err != nil {
		if errors.Is(err, types.ErrNotFound) {
			api.ErrorResponse(w, r, http.StatusNotFound, "Preference not found")
			return
		}
		l.ErrorContext(ctx, "Failed to get preference", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to get preference")
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, pref)
}
