package baseroute

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
	route     *BaseRoute
	err       error
	callCount atomic.Int32
}

func (m *mockProvider) GetBaseRoute(_ context.Context, _, _ geo.Point, _ Profile) (*BaseRoute, error) {
	m.callCount.Add(1)
	if m.err != nil {
		return nil, m.err
	}
	return m.route, nil
}

func (m *mockProvider) Name() string { return "mock-routing" }

func testRoute() *BaseRoute {
	return &BaseRoute{
		Path: []geo.Point{
			{Lat: 52.3676, Lng: 4.9041},
			{Lat: 52.3702, Lng: 4.8952},
		},
		DistanceM: 680,
		DurationS: 540,
		Provider:  "mock-routing",
		FetchedAt: time.Now(),
	}
}

func TestService_GetBaseRoute_CacheMissThenHit(t *testing.T) {
	provider := &mockProvider{route: testRoute()}
	service := NewService(ServiceConfig{Provider: provider, Logger: zerolog.Nop()})

	start := geo.Point{Lat: 52.3676, Lng: 4.9041}
	end := geo.Point{Lat: 52.3702, Lng: 4.8952}

	route, err := service.GetBaseRoute(context.Background(), start, end, ProfileBike)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if route.DistanceM != 680 {
		t.Errorf("distance = %f, want 680", route.DistanceM)
	}

	if _, err := service.GetBaseRoute(context.Background(), start, end, ProfileBike); err != nil {
		t.Fatalf("unexpected error on cached call: %v", err)
	}
	if provider.callCount.Load() != 1 {
		t.Errorf("expected 1 provider call, got %d", provider.callCount.Load())
	}
}

func TestService_GetBaseRoute_ProfilesCachedSeparately(t *testing.T) {
	provider := &mockProvider{route: testRoute()}
	service := NewService(ServiceConfig{Provider: provider, Logger: zerolog.Nop()})

	start := geo.Point{Lat: 52.3676, Lng: 4.9041}
	end := geo.Point{Lat: 52.3702, Lng: 4.8952}

	if _, err := service.GetBaseRoute(context.Background(), start, end, ProfileBike); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := service.GetBaseRoute(context.Background(), start, end, ProfileFoot); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if provider.callCount.Load() != 2 {
		t.Errorf("expected 2 provider calls for distinct profiles, got %d", provider.callCount.Load())
	}
}

func TestService_GetBaseRoute_StaleIfError(t *testing.T) {
	provider := &mockProvider{route: testRoute()}
	service := NewService(ServiceConfig{
		Provider: provider,
		Logger:   zerolog.Nop(),
		CacheTTL: 1 * time.Nanosecond,
	})

	start := geo.Point{Lat: 52.3676, Lng: 4.9041}
	end := geo.Point{Lat: 52.3702, Lng: 4.8952}

	if _, err := service.GetBaseRoute(context.Background(), start, end, ProfileCar); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	time.Sleep(time.Millisecond)
	provider.err = errors.New("upstream timeout")

	route, err := service.GetBaseRoute(context.Background(), start, end, ProfileCar)
	if err != nil {
		t.Fatalf("expected stale route, got error: %v", err)
	}
	if route.DistanceM != 680 {
		t.Errorf("distance = %f, want stale 680", route.DistanceM)
	}
}

func TestService_GetBaseRoute_ErrorWithoutCache(t *testing.T) {
	wrapped := &Error{
		Provider: "mock-routing",
		Code:     "NO_ROUTE",
		Message:  "no route",
		Err:      ErrNoRouteFound,
	}
	provider := &mockProvider{err: wrapped}
	service := NewService(ServiceConfig{Provider: provider, Logger: zerolog.Nop()})

	_, err := service.GetBaseRoute(context.Background(),
		geo.Point{Lat: 52.3676, Lng: 4.9041},
		geo.Point{Lat: 52.3702, Lng: 4.8952},
		ProfileCar)
	if !errors.Is(err, ErrNoRouteFound) {
		t.Errorf("err = %v, want ErrNoRouteFound through the wrap chain", err)
	}
}

func TestService_GetBaseRoute_InvalidCoordinates(t *testing.T) {
	service := NewService(ServiceConfig{Provider: &mockProvider{}, Logger: zerolog.Nop()})

	_, err := service.GetBaseRoute(context.Background(),
		geo.Point{Lat: 120, Lng: 0},
		geo.Point{Lat: 52, Lng: 4},
		ProfileCar)
	if !errors.Is(err, ErrInvalidCoordinates) {
		t.Errorf("err = %v, want ErrInvalidCoordinates", err)
	}
}
