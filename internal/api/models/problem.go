package models

import (
	"encoding/json"
	"net/http"
)

// Problem is an RFC7807 error body, served with
// Content-Type: application/problem+json.
type Problem struct {
	Type     string `json:"type"`
	Title    string `json:"title"`
	Status   int    `json:"status"`
	Detail   string `json:"detail,omitempty"`
	Instance string `json:"instance,omitempty"`

	// TraceID correlates the error with the request log line.
	TraceID string `json:"traceId"`

	// Errors carries structured field validation failures.
	Errors []FieldError `json:"errors,omitempty"`
}

// FieldError is a validation failure on one request field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// Problem type URIs.
const (
	ProblemTypeValidation      = "https://api.tripforge.dev/problems/validation-error"
	ProblemTypeNotFound        = "https://api.tripforge.dev/problems/not-found"
	ProblemTypeTooManyRequests = "https://api.tripforge.dev/problems/too-many-requests"
	ProblemTypeInternal        = "https://api.tripforge.dev/problems/internal-error"
	ProblemTypeUnavailable     = "https://api.tripforge.dev/problems/provider-unavailable"
)

// Write serializes the Problem to the response.
func (p *Problem) Write(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/problem+json")
	if p.TraceID != "" {
		w.Header().Set("X-Request-Id", p.TraceID)
	}
	w.WriteHeader(p.Status)
	_ = json.NewEncoder(w).Encode(p)
}

// NewBadRequest builds a 400 validation problem.
func NewBadRequest(traceID, detail string, errors []FieldError) *Problem {
	return &Problem{
		Type:    ProblemTypeValidation,
		Title:   "Validation error",
		Status:  http.StatusBadRequest,
		Detail:  detail,
		TraceID: traceID,
		Errors:  errors,
	}
}

// NewNotFound builds a 404 problem.
func NewNotFound(traceID, detail string) *Problem {
	return &Problem{
		Type:    ProblemTypeNotFound,
		Title:   "Not found",
		Status:  http.StatusNotFound,
		Detail:  detail,
		TraceID: traceID,
	}
}

// NewTooManyRequests builds a 429 problem.
func NewTooManyRequests(traceID, detail string) *Problem {
	return &Problem{
		Type:    ProblemTypeTooManyRequests,
		Title:   "Too many requests",
		Status:  http.StatusTooManyRequests,
		Detail:  detail,
		TraceID: traceID,
	}
}

// NewInternalError builds a 500 problem.
func NewInternalError(traceID, detail string) *Problem {
	return &Problem{
		Type:    ProblemTypeInternal,
		Title:   "Internal server error",
		Status:  http.StatusInternalServerError,
		Detail:  detail,
		TraceID: traceID,
	}
}

// NewServiceUnavailable builds a 503 problem for upstream provider outages.
func NewServiceUnavailable(traceID, detail string) *Problem {
	return &Problem{
		Type:    ProblemTypeUnavailable,
		Title:   "Provider unavailable",
		Status:  http.StatusServiceUnavailable,
		Detail:  detail,
		TraceID: traceID,
	}
}
