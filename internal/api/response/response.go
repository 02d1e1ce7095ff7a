// Package response writes JSON and problem+json HTTP responses.
package response

import (
	"encoding/json"
	"net/http"

	"github.com/tripforge/tripforge/internal/api/middleware"
	"github.com/tripforge/tripforge/internal/api/models"
)

// JSON writes a JSON body with the given status, echoing the request ID.
func JSON(w http.ResponseWriter, r *http.Request, status int, data any) {
	if requestID := middleware.GetRequestID(r.Context()); requestID != "" {
		w.Header().Set("X-Request-Id", requestID)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		_ = json.NewEncoder(w).Encode(data)
	}
}

// Problem writes the problem with the request path as its instance.
func Problem(w http.ResponseWriter, r *http.Request, p *models.Problem) {
	p.Instance = r.URL.Path
	p.Write(w)
}

// BadRequest writes a 400 validation problem.
func BadRequest(w http.ResponseWriter, r *http.Request, detail string, errors []models.FieldError) {
	Problem(w, r, models.NewBadRequest(middleware.GetRequestID(r.Context()), detail, errors))
}

// NotFound writes a 404 problem.
func NotFound(w http.ResponseWriter, r *http.Request, detail string) {
	Problem(w, r, models.NewNotFound(middleware.GetRequestID(r.Context()), detail))
}

// InternalError writes a 500 problem.
func InternalError(w http.ResponseWriter, r *http.Request, detail string) {
	Problem(w, r, models.NewInternalError(middleware.GetRequestID(r.Context()), detail))
}

// ServiceUnavailable writes a 503 problem for upstream provider failures.
func ServiceUnavailable(w http.ResponseWriter, r *http.Request, detail string) {
	Problem(w, r, models.NewServiceUnavailable(middleware.GetRequestID(r.Context()), detail))
}
