package gateway_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/instrumentgraph/layoutdb/pkg/gateway"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// flakyGateway wraps a MemoryGateway and fails every AddVertex call with
// ErrTransport until failUntil calls have been made.
type flakyGateway struct {
	*gateway.MemoryGateway
	calls     int
	failUntil int
}

func (f *flakyGateway) AddVertex(ctx context.Context, category string, attrs map[string]any) (int64, error) {
	f.calls++
	if f.calls <= f.failUntil {
		return 0, gateway.ErrTransport
	}
	return f.MemoryGateway.AddVertex(ctx, category, attrs)
}

func TestCircuitBreakerPassesThroughOnSuccess(t *testing.T) {
	inner := &flakyGateway{MemoryGateway: gateway.NewMemoryGateway()}
	cb := gateway.NewCircuitBreaker(inner, gateway.CircuitBreakerConfig{})

	id, err := cb.AddVertex(context.Background(), "component", nil)
	require.NoError(t, err)
	assert.NotZero(t, id)
}

func TestCircuitBreakerTripsOpenAfterRepeatedTransportFailures(t *testing.T) {
	inner := &flakyGateway{MemoryGateway: gateway.NewMemoryGateway(), failUntil: 100}
	cb := gateway.NewCircuitBreaker(inner, gateway.CircuitBreakerConfig{
		MinRequests:  2,
		FailureRatio: 0.5,
		Timeout:      time.Minute,
	})

	ctx := context.Background()
	for i := 0; i < 2; i++ {
		_, err := cb.AddVertex(ctx, "component", nil)
		assert.ErrorIs(t, err, gateway.ErrTransport)
	}

	_, err := cb.AddVertex(ctx, "component", nil)
	assert.Error(t, err)
	assert.True(t, errors.Is(err, gateway.ErrTransport))
	assert.Less(t, inner.calls, 4, "breaker should fail fast instead of calling through once open")
}

// TestCircuitBreakerIgnoresNotFoundFailures asserts that repeated
// ErrNotFound outcomes (a normal, expected result for a missing vertex)
// never trip the breaker, even past the configured failure ratio.
func TestCircuitBreakerIgnoresNotFoundFailures(t *testing.T) {
	inner := gateway.NewMemoryGateway()
	cb := gateway.NewCircuitBreaker(inner, gateway.CircuitBreakerConfig{
		MinRequests:  2,
		FailureRatio: 0.5,
		Timeout:      time.Minute,
	})

	ctx := context.Background()
	for i := 0; i < 10; i++ {
		_, err := cb.GetVertex(ctx, 999)
		assert.ErrorIs(t, err, gateway.ErrNotFound)
	}

	id, err := cb.AddVertex(ctx, "component", nil)
	require.NoError(t, err)
	assert.NotZero(t, id, "breaker must still accept requests after many ErrNotFound outcomes")
}
