package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/httprate"

	"github.com/tripforge/tripforge/internal/api/models"
)

// RateLimit limits requests per client IP over a one-minute window. The
// optimization endpoints fan out to several upstream providers per request,
// so their budget is kept low.
func RateLimit(requestsPerMinute int) func(http.Handler) http.Handler {
	return httprate.Limit(
		requestsPerMinute,
		time.Minute,
		httprate.WithKeyFuncs(httprate.KeyByRealIP),
		httprate.WithLimitHandler(limitExceeded),
	)
}

func limitExceeded(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Retry-After", strconv.Itoa(60))

	problem := models.NewTooManyRequests(GetRequestID(r.Context()),
		"rate limit exceeded, try again later")
	problem.Instance = r.URL.Path
	problem.Write(w)
}
