package config

import (
	"go.uber.org/zap"
)

// NewLogger builds the process logger. Development output unless the app runs
// with APP_ENV=production.
func NewLogger(env string) (*zap.Logger, error) {
	if env == "production" {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}
