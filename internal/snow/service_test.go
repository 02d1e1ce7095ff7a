package snow

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/tripforge/tripforge/internal/geo"
)

type mockProvider struct {
	report    *Report
	err       error
	callCount atomic.Int32
}

func (m *mockProvider) GetSnowReport(_ context.Context, _, _ geo.Point) (*Report, error) {
	m.callCount.Add(1)
	if m.err != nil {
		return nil, m.err
	}
	return m.report, nil
}

func (m *mockProvider) Name() string { return "mock-snow" }

func TestService_GetSnowReport_Caches(t *testing.T) {
	provider := &mockProvider{
		report: &Report{Quality: QualityPowder, Groomed: true, TemperatureC: -4, DepthCm: 80},
	}
	service := NewService(ServiceConfig{Provider: provider, Logger: zerolog.Nop()})

	start := geo.Point{Lat: 46.43, Lng: 6.93}
	end := geo.Point{Lat: 46.45, Lng: 6.95}

	report, err := service.GetSnowReport(context.Background(), start, end)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.Quality != QualityPowder {
		t.Errorf("quality = %s, want powder", report.Quality)
	}

	if _, err := service.GetSnowReport(context.Background(), start, end); err != nil {
		t.Fatalf("unexpected error on cached call: %v", err)
	}
	if provider.callCount.Load() != 1 {
		t.Errorf("expected 1 provider call, got %d", provider.callCount.Load())
	}
}

func TestService_GetSnowReport_StaleIfError(t *testing.T) {
	provider := &mockProvider{report: &Report{Quality: QualityPacked, TemperatureC: -1}}
	service := NewService(ServiceConfig{
		Provider: provider,
		Logger:   zerolog.Nop(),
		CacheTTL: 1 * time.Nanosecond,
	})

	start := geo.Point{Lat: 46.43, Lng: 6.93}
	end := geo.Point{Lat: 46.45, Lng: 6.95}

	if _, err := service.GetSnowReport(context.Background(), start, end); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	time.Sleep(time.Millisecond)
	provider.err = errors.New("upstream timeout")

	report, err := service.GetSnowReport(context.Background(), start, end)
	if err != nil {
		t.Fatalf("expected stale report, got error: %v", err)
	}
	if report.Quality != QualityPacked {
		t.Errorf("quality = %s, want stale packed report", report.Quality)
	}
}

func TestService_GetSnowReport_ProviderErrorWithoutCache(t *testing.T) {
	provider := &mockProvider{err: errors.New("upstream timeout")}
	service := NewService(ServiceConfig{Provider: provider, Logger: zerolog.Nop()})

	_, err := service.GetSnowReport(context.Background(),
		geo.Point{Lat: 46.43, Lng: 6.93},
		geo.Point{Lat: 46.45, Lng: 6.95})
	if !errors.Is(err, ErrProviderUnavailable) {
		t.Errorf("err = %v, want ErrProviderUnavailable", err)
	}
}

func TestQuality_Score(t *testing.T) {
	tests := []struct {
		quality Quality
		want    float64
	}{
		{QualityPowder, 1.0},
		{QualityPacked, 0.8},
		{QualitySlush, 0.5},
		{QualityIcy, 0.3},
		{Quality("unknown"), 0},
	}
	for _, tt := range tests {
		if got := tt.quality.Score(); got != tt.want {
			t.Errorf("Score(%s) = %f, want %f", tt.quality, got, tt.want)
		}
	}
}
