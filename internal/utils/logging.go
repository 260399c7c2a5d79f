package utils

import (
	"os"

	"go.uber.org/zap"
)

// NewLogger builds a development logger when APP_ENV is "development" and a
// production logger otherwise.
func NewLogger() (*zap.Logger, error) {
	if os.Getenv("APP_ENV") == "development" {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

// MustLogger is NewLogger for entry points that cannot continue without one.
func MustLogger() *zap.Logger {
	logger, err := NewLogger()
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	return logger
}
