package resilience_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sony/gobreaker/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tripforge/tripforge/internal/provider/resilience"
)

func neverTrip(counts gobreaker.Counts) bool {
	return counts.Requests >= 1000
}

func TestClient_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	}))
	defer server.Close()

	client := resilience.NewClient(resilience.ClientConfig{Name: "test"})

	req, err := http.NewRequest(http.MethodGet, server.URL, http.NoBody)
	require.NoError(t, err)

	resp, err := client.Do(context.Background(), req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestClient_RetriesTransient5xx(t *testing.T) {
	var attempts atomic.Int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if attempts.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	breaker := resilience.DefaultBreakerConfig("test-retry")
	breaker.ReadyToTrip = neverTrip

	client := resilience.NewClient(resilience.ClientConfig{
		Name:            "test-retry",
		MaxRetries:      5,
		InitialInterval: 10 * time.Millisecond,
		MaxInterval:     50 * time.Millisecond,
		Breaker:         &breaker,
	})

	req, err := http.NewRequest(http.MethodGet, server.URL, http.NoBody)
	require.NoError(t, err)

	resp, err := client.Do(context.Background(), req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, int32(3), attempts.Load(), "should retry until success")
}

func TestClient_DoesNotRetry4xx(t *testing.T) {
	var attempts atomic.Int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		attempts.Add(1)
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer server.Close()

	client := resilience.NewClient(resilience.ClientConfig{
		Name:            "test-4xx",
		InitialInterval: 10 * time.Millisecond,
		MaxInterval:     50 * time.Millisecond,
	})

	req, err := http.NewRequest(http.MethodGet, server.URL, http.NoBody)
	require.NoError(t, err)

	resp, err := client.Do(context.Background(), req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, int32(1), attempts.Load(), "client errors are not retried")
}

func TestClient_BreakerOpensAndShortCircuits(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	breaker := resilience.BreakerConfig{
		Name:        "test-trip",
		MaxRequests: 1,
		Timeout:     time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.Requests >= 5 && float64(counts.TotalFailures)/float64(counts.Requests) >= 0.5
		},
	}

	client := resilience.NewClient(resilience.ClientConfig{
		Name:            "test-trip",
		MaxRetries:      1,
		InitialInterval: 5 * time.Millisecond,
		MaxInterval:     10 * time.Millisecond,
		Breaker:         &breaker,
	})

	for i := 0; i < 5; i++ {
		req, err := http.NewRequest(http.MethodGet, server.URL, http.NoBody)
		require.NoError(t, err)
		resp, _ := client.Do(context.Background(), req)
		if resp != nil {
			resp.Body.Close()
		}
		if client.BreakerState() == gobreaker.StateOpen {
			break
		}
	}

	assert.Equal(t, gobreaker.StateOpen, client.BreakerState())

	req, err := http.NewRequest(http.MethodGet, server.URL, http.NoBody)
	require.NoError(t, err)

	resp, err := client.Do(context.Background(), req)
	if resp != nil {
		resp.Body.Close()
	}
	assert.ErrorIs(t, err, resilience.ErrCircuitOpen)
}

func TestClient_ContextCancellation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(time.Second)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := resilience.NewClient(resilience.ClientConfig{Name: "test-cancel"})

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(50 * time.Millisecond)
		cancel()
	}()

	req, err := http.NewRequest(http.MethodGet, server.URL, http.NoBody)
	require.NoError(t, err)

	resp, err := client.Do(ctx, req)
	if resp != nil {
		resp.Body.Close()
	}
	assert.Error(t, err, "canceled context must abort the call")
}

func TestDefaultBreakerConfig(t *testing.T) {
	cfg := resilience.DefaultBreakerConfig("upstream")

	assert.Equal(t, "upstream", cfg.Name)
	assert.Equal(t, uint32(1), cfg.MaxRequests)
	assert.Equal(t, 60*time.Second, cfg.Timeout)
	require.NotNil(t, cfg.ReadyToTrip)

	assert.False(t, cfg.ReadyToTrip(gobreaker.Counts{Requests: 4, TotalFailures: 4}))
	assert.False(t, cfg.ReadyToTrip(gobreaker.Counts{Requests: 10, TotalFailures: 4}))
	assert.True(t, cfg.ReadyToTrip(gobreaker.Counts{Requests: 10, TotalFailures: 5}))
	assert.True(t, cfg.ReadyToTrip(gobreaker.Counts{Requests: 5, TotalFailures: 5}))
}
