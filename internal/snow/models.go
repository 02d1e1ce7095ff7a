// Package snow provides snow condition reports used to annotate ski segments.
package snow

import (
	"context"
	"errors"
	"time"

	"github.com/tripforge/tripforge/internal/geo"
)

// Snow errors.
var (
	ErrProviderUnavailable = errors.New("snow provider unavailable")
	ErrNoReport            = errors.New("no snow report for area")
)

// Quality is a categorical snow surface label.
type Quality string

const (
	QualityPowder Quality = "powder"
	QualityPacked Quality = "packed"
	QualitySlush  Quality = "slush"
	QualityIcy    Quality = "icy"
)

// Score maps a quality label onto [0, 1] for ranking and safety adjustment.
func (q Quality) Score() float64 {
	switch q {
	case QualityPowder:
		return 1.0
	case QualityPacked:
		return 0.8
	case QualitySlush:
		return 0.5
	case QualityIcy:
		return 0.3
	default:
		return 0
	}
}

// Report describes current snow conditions for an area.
type Report struct {
	// Quality is the dominant surface condition.
	Quality Quality

	// Groomed reports whether the pistes in the area are groomed.
	Groomed bool

	// TemperatureC is the ambient temperature at the base.
	TemperatureC float64

	// DepthCm is the snow base depth.
	DepthCm float64

	// LastSnowfall is when fresh snow last fell (zero if unknown).
	LastSnowfall time.Time

	// FetchedAt is when this report was retrieved.
	FetchedAt time.Time
}

// Provider defines the interface for snow report providers.
type Provider interface {
	// GetSnowReport fetches snow conditions for the area covering a segment.
	GetSnowReport(ctx context.Context, start, end geo.Point) (*Report, error)

	// Name returns the provider name for logging.
	Name() string
}
