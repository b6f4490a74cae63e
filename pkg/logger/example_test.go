package logger_test

import (
	"log/slog"

	"github.com/soundprediction/totg/pkg/logger"
)

func ExampleNewDefaultLogger() {
	// Create a logger with default settings
	log := logger.NewDefaultLogger(slog.LevelDebug)

	// Log different levels
	log.Debug("This is a debug message")
	log.Info("This is an info message")
	log.Info("Exporting graph snapshot")  // Will be green in terminal
	log.Warn("This is a warning message") // Will be yellow in terminal
	log.Error("This is an error message") // Will be red in terminal
}

func ExampleNewLogger() {
	// Create a logger with custom configuration
	log := logger.NewDefaultLogger(slog.LevelInfo)

	// Log with attributes
	log.Info("Processing query", "node_id", "contract_2019", "direction", "forward")
	log.Info("Carryover checkpoint saved", "chunk", 4, "size", 52)          // Green
	log.Warn("Temporal edge goes backward in time", "from", "a", "to", "b") // Yellow
	log.Error("Analysis failed", "error", "start document not found")       // Red
}
