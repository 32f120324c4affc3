package logger_test

import (
	"log/slog"

	"github.com/instrumentgraph/layoutdb/pkg/logger"
)

func ExampleNewDefaultLogger() {
	log := logger.NewDefaultLogger(slog.LevelDebug)

	log.Debug("this is a debug message")
	log.Info("this is an info message")
	log.Info("persisting component to graph") // green
	log.Warn("gateway retrying after transport error") // yellow
	log.Error("gateway call failed")                   // red
}

func ExampleNewDefaultLogger_withAttrs() {
	log := logger.NewDefaultLogger(slog.LevelInfo)

	log.Info("handling request", "component", "A1", "op", "set_property")
	log.Info("persisted property", "component_id", 42, "property_type", "gain_db") // green
	log.Warn("circuit breaker approaching open state", "failures", 3, "threshold", 5)
	log.Error("failed to disable component", "id", 42, "error", "transport error")
}
