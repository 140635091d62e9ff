// Package logger constructs the structured logger shared by every VaultDB
// subsystem. All components log through a single *zap.SugaredLogger carrying
// the service name, so operational output from the engine, storage facade and
// query executor can be correlated by service.
package logger

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New creates a production-grade sugared logger for the given service.
// Output goes to stderr as JSON with ISO-8601 timestamps. The returned
// logger is safe for concurrent use.
func New(service string) *zap.SugaredLogger {
	config := zap.NewProductionEncoderConfig()
	config.EncodeTime = zapcore.ISO8601TimeEncoder

	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(config),
		zapcore.Lock(os.Stderr),
		zapcore.InfoLevel,
	)

	return zap.New(core).Sugar().With("service", service)
}

// NewNop returns a logger that discards everything. Used by tests that
// exercise subsystems directly without caring about log output.
func NewNop() *zap.SugaredLogger {
	return zap.NewNop().Sugar()
}
