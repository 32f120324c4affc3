// Command demo exercises the colored logger's level and persistence
// highlighting without requiring a graph database connection.
package main

import (
	"log/slog"

	"github.com/instrumentgraph/layoutdb/pkg/logger"
)

func main() {
	log := logger.NewDefaultLogger(slog.LevelDebug)

	log.Info("layoutdb colored logger demo")
	log.Debug("debug message - standard color")
	log.Info("info message - standard color")
	log.Info("persisting component A1 to graph")        // green
	log.Info("component A1 added", "id", 42)             // green
	log.Warn("gateway approaching circuit breaker trip") // yellow
	log.Error("gateway call failed", "error", "timeout") // red
	log.Info("demo complete")
}
