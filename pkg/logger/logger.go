package logger

import (
	"go.uber.org/zap"
)

func New() (*zap.Logger, error) {
	// Production logger by default: structured, performant.
	return zap.NewProduction()
}
