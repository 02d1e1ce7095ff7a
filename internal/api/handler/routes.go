// Package handler provides the HTTP handlers for the TripForge API.
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/tripforge/tripforge/internal/api/models"
	"github.com/tripforge/tripforge/internal/api/response"
	"github.com/tripforge/tripforge/internal/baseroute"
	"github.com/tripforge/tripforge/internal/provider/resilience"
	"github.com/tripforge/tripforge/internal/route"
	"github.com/tripforge/tripforge/internal/snow"
	"github.com/tripforge/tripforge/internal/terrain"
	"github.com/tripforge/tripforge/internal/traffic"
	"github.com/tripforge/tripforge/internal/transit"
	"github.com/tripforge/tripforge/internal/weather"
)

// RouteOptimizer turns a continuous segment chain into stitched results.
// Supports lets the handler reject unregistered activity types before any
// provider work starts.
type RouteOptimizer interface {
	Optimize(ctx context.Context, segments []route.Segment) ([]route.OptimizationResult, error)
	Supports(activity route.ActivityType) bool
}

// RouteHandler serves the optimization endpoints.
type RouteHandler struct {
	optimizer RouteOptimizer
	validate  *validator.Validate
	logger    zerolog.Logger
}

// NewRouteHandler creates a route handler.
func NewRouteHandler(optimizer RouteOptimizer, logger zerolog.Logger) *RouteHandler {
	return &RouteHandler{
		optimizer: optimizer,
		validate:  validator.New(),
		logger:    logger,
	}
}

// Optimize handles POST /v1/routes:optimize - multi-segment optimization.
func (h *RouteHandler) Optimize(w http.ResponseWriter, r *http.Request) {
	var input models.OptimizeRequest
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, r, "invalid JSON body", nil)
		return
	}
	if fieldErrors := h.validateStruct(input); fieldErrors != nil {
		response.BadRequest(w, r, "request validation failed", fieldErrors)
		return
	}
	if fieldErrors := h.checkActivities(input.Segments); fieldErrors != nil {
		response.BadRequest(w, r, "request validation failed", fieldErrors)
		return
	}

	segments := make([]route.Segment, len(input.Segments))
	for i, s := range input.Segments {
		segments[i] = s.Segment()
	}

	results, err := h.optimizer.Optimize(r.Context(), segments)
	if err != nil {
		h.writeOptimizeError(w, r, err)
		return
	}

	resp := models.NewOptimizeResponse(models.Timestamp(time.Now()), results)
	response.JSON(w, r, http.StatusOK, resp)
}

// Compute handles POST /v1/routes:compute - a single leg.
func (h *RouteHandler) Compute(w http.ResponseWriter, r *http.Request) {
	var input models.ComputeRequest
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, r, "invalid JSON body", nil)
		return
	}
	if fieldErrors := h.validateStruct(input); fieldErrors != nil {
		response.BadRequest(w, r, "request validation failed", fieldErrors)
		return
	}

	if !h.optimizer.Supports(input.ActivityType) {
		response.BadRequest(w, r, "request validation failed", []models.FieldError{
			unsupportedActivity("activityType", input.ActivityType),
		})
		return
	}

	segment := route.Segment{
		StartPoint:   input.StartPoint.Geo(),
		EndPoint:     input.EndPoint.Geo(),
		ActivityType: input.ActivityType,
		Preferences:  input.Preferences,
	}

	results, err := h.optimizer.Optimize(r.Context(), []route.Segment{segment})
	if err != nil {
		h.writeOptimizeError(w, r, err)
		return
	}

	resp := models.ComputeResponse{
		GeneratedAt: models.Timestamp(time.Now()),
		Result:      results[0],
	}
	response.JSON(w, r, http.StatusOK, resp)
}

// checkActivities rejects segments whose activity type has no registered
// optimizer. The oneof validation already bounds the enum; this catches
// deployments wired with fewer modes.
func (h *RouteHandler) checkActivities(segments []models.SegmentInput) []models.FieldError {
	var fieldErrors []models.FieldError
	for i, s := range segments {
		if !h.optimizer.Supports(s.ActivityType) {
			field := fmt.Sprintf("segments[%d].activityType", i)
			fieldErrors = append(fieldErrors, unsupportedActivity(field, s.ActivityType))
		}
	}
	return fieldErrors
}

func unsupportedActivity(field string, activity route.ActivityType) models.FieldError {
	return models.FieldError{
		Field:   field,
		Message: "no optimizer registered for activity type " + string(activity),
		Code:    "unsupported",
	}
}

// validateStruct maps validator failures to API field errors.
func (h *RouteHandler) validateStruct(input any) []models.FieldError {
	err := h.validate.Struct(input)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []models.FieldError{{Field: "", Message: err.Error()}}
	}

	fieldErrors := make([]models.FieldError, 0, len(verrs))
	for _, fe := range verrs {
		fieldErrors = append(fieldErrors, models.FieldError{
			Field:   fe.Namespace(),
			Message: "failed " + fe.Tag() + " validation",
			Code:    fe.Tag(),
		})
	}
	return fieldErrors
}

func (h *RouteHandler) writeOptimizeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, route.ErrNoSegments),
		errors.Is(err, route.ErrDiscontinuousChain),
		errors.Is(err, route.ErrUnsupportedActivity):
		response.BadRequest(w, r, err.Error(), nil)

	case isProviderFailure(err):
		h.logger.Warn().Err(err).Msg("optimization failed on upstream provider")
		response.ServiceUnavailable(w, r, "an upstream data provider is unavailable")

	default:
		h.logger.Error().Err(err).Msg("optimization failed")
		response.InternalError(w, r, "route optimization failed")
	}
}

func isProviderFailure(err error) bool {
	providerErrs := []error{
		route.ErrProviderUnavailable,
		resilience.ErrCircuitOpen,
		traffic.ErrProviderUnavailable,
		weather.ErrProviderUnavailable,
		terrain.ErrProviderUnavailable,
		transit.ErrProviderUnavailable,
		snow.ErrProviderUnavailable,
		baseroute.ErrProviderUnavailable,
		baseroute.ErrRateLimited,
	}
	for _, target := range providerErrs {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
