// Package logger builds the zap logger used by the content pipeline.
package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New returns a production logger; development mode lowers the level to debug.
func New(env string) (*zap.Logger, error) {
	config := zap.NewProductionConfig()
	if env == "development" {
		config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	return config.Build()
}
