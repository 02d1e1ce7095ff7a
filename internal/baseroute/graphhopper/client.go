// Package graphhopper provides a client for the GraphHopper routing API.
package graphhopper

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/tripforge/tripforge/internal/baseroute"
	"github.com/tripforge/tripforge/internal/geo"
	"github.com/tripforge/tripforge/internal/provider/resilience"
	"github.com/tripforge/tripforge/pkg/polyline"
)

const (
	// ProviderName identifies this routing provider.
	ProviderName = "graphhopper"

	// DefaultBaseURL is the GraphHopper API base URL.
	DefaultBaseURL = "https://graphhopper.com/api/1"
)

// HTTPDoer executes HTTP requests. Satisfied by *resilience.Client.
type HTTPDoer interface {
	Do(ctx context.Context, req *http.Request) (*http.Response, error)
}

// ClientConfig holds configuration for the GraphHopper client.
type ClientConfig struct {
	// APIKey authenticates against the GraphHopper API (required).
	APIKey string

	// BaseURL overrides the API base URL (used for self-hosted instances
	// and tests).
	BaseURL string

	// HTTPClient overrides the default resilient client.
	HTTPClient HTTPDoer

	// Timeout per request (default: 10s).
	Timeout time.Duration

	// Registry tracks this upstream's health (optional).
	Registry *resilience.Registry

	// Logger for client operations.
	Logger zerolog.Logger
}

// Client is a GraphHopper routing API client.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient HTTPDoer
	registry   *resilience.Registry
	logger     zerolog.Logger
}

// NewClient creates a new GraphHopper client. When no HTTP client is supplied
// a resilient client is built and registered for health tracking.
func NewClient(cfg ClientConfig) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		resilient := resilience.NewClient(resilience.ClientConfig{
			Name:    ProviderName,
			Timeout: cfg.Timeout,
		})
		if cfg.Registry != nil {
			cfg.Registry.Register(ProviderName, resilient)
		}
		httpClient = resilient
	}

	return &Client{
		apiKey:     cfg.APIKey,
		baseURL:    baseURL,
		httpClient: httpClient,
		registry:   cfg.Registry,
		logger:     cfg.Logger,
	}
}

// Name returns the provider name.
func (c *Client) Name() string {
	return ProviderName
}

// ghRequest is the GraphHopper route request body.
type ghRequest struct {
	// Points use [lng, lat] order.
	Points        [][]float64 `json:"points"`
	Profile       string      `json:"profile"`
	PointsEncoded bool        `json:"points_encoded"`
	Instructions  bool        `json:"instructions"`
	Locale        string      `json:"locale"`
}

type ghResponse struct {
	Paths []ghPath `json:"paths"`
}

type ghPath struct {
	DistanceM float64 `json:"distance"`
	TimeMs    int64   `json:"time"`
	Points    string  `json:"points"`
}

type ghError struct {
	Message string `json:"message"`
}

// GetBaseRoute computes a route between two points for a profile.
func (c *Client) GetBaseRoute(ctx context.Context, start, end geo.Point, profile baseroute.Profile) (*baseroute.BaseRoute, error) {
	if err := start.Validate(); err != nil {
		return nil, &baseroute.Error{
			Provider: ProviderName,
			Code:     "INVALID_START",
			Message:  "invalid start coordinates",
			Err:      baseroute.ErrInvalidCoordinates,
		}
	}
	if err := end.Validate(); err != nil {
		return nil, &baseroute.Error{
			Provider: ProviderName,
			Code:     "INVALID_END",
			Message:  "invalid end coordinates",
			Err:      baseroute.ErrInvalidCoordinates,
		}
	}

	body, err := json.Marshal(ghRequest{
		Points: [][]float64{
			{start.Lng, start.Lat},
			{end.Lng, end.Lat},
		},
		Profile:       string(profile),
		PointsEncoded: true,
		Locale:        "en",
	})
	if err != nil {
		return nil, fmt.Errorf("marshaling request: %w", err)
	}

	url := fmt.Sprintf("%s/route?key=%s", c.baseURL, c.apiKey)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	c.logger.Debug().
		Str("profile", string(profile)).
		Float64("start_lat", start.Lat).
		Float64("start_lng", start.Lng).
		Float64("end_lat", end.Lat).
		Float64("end_lng", end.Lng).
		Msg("requesting route from graphhopper")

	resp, err := c.httpClient.Do(ctx, httpReq)
	if err != nil {
		c.recordFailure(err)
		return nil, &baseroute.Error{
			Provider: ProviderName,
			Code:     "REQUEST_FAILED",
			Message:  "failed to reach routing provider",
			Err:      baseroute.ErrProviderUnavailable,
		}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		err := c.errorFromStatus(resp.StatusCode, respBody)
		c.recordFailure(err)
		return nil, err
	}

	var ghResp ghResponse
	if err := json.Unmarshal(respBody, &ghResp); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}
	if len(ghResp.Paths) == 0 {
		return nil, &baseroute.Error{
			Provider: ProviderName,
			Code:     "NO_ROUTE",
			Message:  "no route in provider response",
			Err:      baseroute.ErrNoRouteFound,
		}
	}

	c.recordSuccess()

	path := ghResp.Paths[0]
	return &baseroute.BaseRoute{
		Path:      polyline.Decode(path.Points),
		DistanceM: path.DistanceM,
		DurationS: float64(path.TimeMs) / 1000,
		Provider:  ProviderName,
		FetchedAt: time.Now(),
	}, nil
}

func (c *Client) errorFromStatus(statusCode int, body []byte) error {
	var ghErr ghError
	_ = json.Unmarshal(body, &ghErr)

	switch {
	case statusCode == http.StatusTooManyRequests:
		return &baseroute.Error{
			Provider: ProviderName,
			Code:     "RATE_LIMIT",
			Message:  "rate limit exceeded",
			Err:      baseroute.ErrRateLimited,
		}
	case statusCode == http.StatusBadRequest:
		// GraphHopper reports unroutable points as 400 with a message.
		return &baseroute.Error{
			Provider: ProviderName,
			Code:     "NO_ROUTE",
			Message:  ghErr.Message,
			Err:      baseroute.ErrNoRouteFound,
		}
	case statusCode == http.StatusUnauthorized || statusCode == http.StatusForbidden:
		return &baseroute.Error{
			Provider: ProviderName,
			Code:     "AUTH",
			Message:  "API access denied, check the API key",
			Err:      baseroute.ErrProviderUnavailable,
		}
	case statusCode >= 500:
		return &baseroute.Error{
			Provider: ProviderName,
			Code:     fmt.Sprintf("SERVER_%d", statusCode),
			Message:  "routing provider is temporarily unavailable",
			Err:      baseroute.ErrProviderUnavailable,
		}
	default:
		return &baseroute.Error{
			Provider: ProviderName,
			Code:     fmt.Sprintf("HTTP_%d", statusCode),
			Message:  ghErr.Message,
			Err:      baseroute.ErrProviderUnavailable,
		}
	}
}

func (c *Client) recordSuccess() {
	if c.registry != nil {
		c.registry.RecordSuccess(ProviderName)
	}
}

func (c *Client) recordFailure(err error) {
	if c.registry != nil {
		c.registry.RecordFailure(ProviderName, err)
	}
}
