package layoutdb

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/instrumentgraph/layoutdb/pkg/cache"
	"github.com/instrumentgraph/layoutdb/pkg/config"
	"github.com/instrumentgraph/layoutdb/pkg/gateway"
	"github.com/instrumentgraph/layoutdb/pkg/logger"
)

// sharedCache is the process-wide identity map used by every command
// invocation; a fresh process gets a fresh cache.
var sharedCache = cache.New()

// openGateway loads configuration, builds a logger, and opens a Gateway
// for the configured driver, wrapping it in a CircuitBreaker when enabled.
// The memory driver builds an empty in-process MemoryGateway, useful for
// trying out CLI flags without a live database.
func openGateway(ctx context.Context) (gateway.Gateway, *logger.Logger, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	level := slog.LevelInfo
	if err := level.UnmarshalText([]byte(cfg.Log.Level)); err != nil {
		level = slog.LevelInfo
	}
	log := logger.NewDefaultLogger(level)

	var gw gateway.Gateway
	closeFn := func() {}

	switch cfg.Database.Driver {
	case "", "memory":
		gw = gateway.NewMemoryGateway()
	case "neo4j":
		ng, err := gateway.NewNeo4jGateway(ctx, cfg.Database.URI, cfg.Database.Username, cfg.Database.Password, cfg.Database.Database)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("failed to connect to neo4j: %w", err)
		}
		gw = ng
		closeFn = func() { ng.Close(ctx) }
	default:
		return nil, nil, nil, fmt.Errorf("unknown database driver %q", cfg.Database.Driver)
	}

	if cfg.CircuitBreaker.Enabled {
		gw = gateway.NewCircuitBreaker(gw, gateway.CircuitBreakerConfig{
			MaxRequests:  cfg.CircuitBreaker.MaxRequests,
			Interval:     time.Duration(cfg.CircuitBreaker.Interval) * time.Second,
			Timeout:      time.Duration(cfg.CircuitBreaker.Timeout) * time.Second,
			FailureRatio: cfg.CircuitBreaker.ReadyToTripRatio,
		})
	}

	return gw, log, closeFn, nil
}
