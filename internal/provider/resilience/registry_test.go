package resilience_test

import (
	"errors"
	"testing"

	"github.com/sony/gobreaker/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tripforge/tripforge/internal/provider/resilience"
)

func TestRegistry_HealthTracking(t *testing.T) {
	registry := resilience.NewRegistry()
	registry.Register("weather", resilience.NewClient(resilience.ClientConfig{Name: "weather"}))
	registry.Register("traffic", resilience.NewClient(resilience.ClientConfig{Name: "traffic"}))

	registry.RecordSuccess("weather")
	registry.RecordFailure("traffic", errors.New("timeout"))

	weather := registry.GetHealth("weather")
	require.NotNil(t, weather)
	assert.True(t, weather.Healthy())
	assert.NotNil(t, weather.LastSuccessAt)
	assert.Nil(t, weather.LastFailureAt)

	traffic := registry.GetHealth("traffic")
	require.NotNil(t, traffic)
	assert.NotNil(t, traffic.LastFailureAt)
	assert.Equal(t, "timeout", traffic.LastError)
}

func TestRegistry_UnknownUpstream(t *testing.T) {
	registry := resilience.NewRegistry()
	assert.Nil(t, registry.GetHealth("nope"))

	// Recording against unknown names must not panic.
	registry.RecordSuccess("nope")
	registry.RecordFailure("nope", errors.New("x"))
}

func TestRegistry_AllHealthSorted(t *testing.T) {
	registry := resilience.NewRegistry()
	registry.Register("weather", resilience.NewClient(resilience.ClientConfig{Name: "weather"}))
	registry.Register("elevation", resilience.NewClient(resilience.ClientConfig{Name: "elevation"}))
	registry.Register("traffic", resilience.NewClient(resilience.ClientConfig{Name: "traffic"}))

	all := registry.AllHealth()
	require.Len(t, all, 3)
	assert.Equal(t, "elevation", all[0].Name)
	assert.Equal(t, "traffic", all[1].Name)
	assert.Equal(t, "weather", all[2].Name)
}

func TestRegistry_AllHealthy(t *testing.T) {
	registry := resilience.NewRegistry()
	assert.True(t, registry.AllHealthy(), "empty registry reports healthy")

	registry.Register("weather", resilience.NewClient(resilience.ClientConfig{Name: "weather"}))
	assert.True(t, registry.AllHealthy())
}

func TestHealth_StateHelpers(t *testing.T) {
	h := &resilience.Health{CircuitState: gobreaker.StateClosed}
	assert.True(t, h.Healthy())
	assert.False(t, h.Degraded())

	h.CircuitState = gobreaker.StateHalfOpen
	assert.False(t, h.Healthy())
	assert.True(t, h.Degraded())
}
