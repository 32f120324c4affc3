package gateway

import (
	"context"
	"errors"
	"time"

	"github.com/sony/gobreaker"
)

// CircuitBreakerConfig configures the resilience wrapper around a Gateway.
// A zero MinRequests, FailureRatio or Timeout defaults to 5, 0.6 or 30s;
// a zero MaxRequests or Interval falls back to gobreaker's defaults.
type CircuitBreakerConfig struct {
	MaxRequests  uint32
	Interval     time.Duration
	Timeout      time.Duration
	FailureRatio float64
	MinRequests  uint32
}

// CircuitBreaker wraps a Gateway so that repeated transport failures trip
// open and fail fast instead of piling up blocked calls against a database
// that is down. Only ErrTransport failures count against the breaker;
// ErrNotFound and ErrConstraintViolation reflect normal application-level
// outcomes and must not trip it.
type CircuitBreaker struct {
	inner Gateway
	cb    *gobreaker.CircuitBreaker
}

// NewCircuitBreaker wraps inner with a gobreaker.CircuitBreaker configured
// by cfg.
func NewCircuitBreaker(inner Gateway, cfg CircuitBreakerConfig) *CircuitBreaker {
	minRequests := cfg.MinRequests
	if minRequests == 0 {
		minRequests = 5
	}
	failureRatio := cfg.FailureRatio
	if failureRatio == 0 {
		failureRatio = 0.6
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	settings := gobreaker.Settings{
		Name:        "gateway",
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.Requests >= minRequests &&
				float64(counts.TotalFailures)/float64(counts.Requests) >= failureRatio
		},
		IsSuccessful: func(err error) bool {
			return err == nil || !errors.Is(err, ErrTransport)
		},
	}

	return &CircuitBreaker{inner: inner, cb: gobreaker.NewCircuitBreaker(settings)}
}

func (c *CircuitBreaker) Provider() GraphProvider { return c.inner.Provider() }

func (c *CircuitBreaker) Close(ctx context.Context) error { return c.inner.Close(ctx) }

func (c *CircuitBreaker) AddVertex(ctx context.Context, category string, attrs map[string]any) (int64, error) {
	result, err := c.cb.Execute(func() (any, error) {
		return c.inner.AddVertex(ctx, category, attrs)
	})
	if err != nil {
		return 0, translateBreakerErr(err)
	}
	return result.(int64), nil
}

func (c *CircuitBreaker) AddEdge(ctx context.Context, category string, outID, inID int64, attrs map[string]any) (int64, error) {
	result, err := c.cb.Execute(func() (any, error) {
		return c.inner.AddEdge(ctx, category, outID, inID, attrs)
	})
	if err != nil {
		return 0, translateBreakerErr(err)
	}
	return result.(int64), nil
}

func (c *CircuitBreaker) SetVertexProperties(ctx context.Context, id int64, attrs map[string]any) error {
	_, err := c.cb.Execute(func() (any, error) {
		return nil, c.inner.SetVertexProperties(ctx, id, attrs)
	})
	return translateBreakerErr(err)
}

func (c *CircuitBreaker) SetEdgeProperties(ctx context.Context, id int64, attrs map[string]any) error {
	_, err := c.cb.Execute(func() (any, error) {
		return nil, c.inner.SetEdgeProperties(ctx, id, attrs)
	})
	return translateBreakerErr(err)
}

func (c *CircuitBreaker) GetVertex(ctx context.Context, id int64) (*Vertex, error) {
	result, err := c.cb.Execute(func() (any, error) {
		return c.inner.GetVertex(ctx, id)
	})
	if err != nil {
		return nil, translateBreakerErr(err)
	}
	return result.(*Vertex), nil
}

func (c *CircuitBreaker) Run(ctx context.Context, query string, params map[string]any) ([]Record, error) {
	result, err := c.cb.Execute(func() (any, error) {
		return c.inner.Run(ctx, query, params)
	})
	if err != nil {
		return nil, translateBreakerErr(err)
	}
	return result.([]Record), nil
}

// translateBreakerErr surfaces gobreaker's own open-circuit error as
// ErrTransport so callers keep checking errors.Is(err, ErrTransport)
// regardless of whether the failure came from the database or the breaker.
func translateBreakerErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return errors.Join(ErrTransport, err)
	}
	return err
}

var _ Gateway = (*CircuitBreaker)(nil)
