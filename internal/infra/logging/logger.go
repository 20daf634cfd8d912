// internal/infra/logging/logger.go
package logging

import (
	"go.uber.org/zap"
)

// New builds the process logger. debug switches to the development config
// (console encoding, debug level).
func New(debug bool) (*zap.SugaredLogger, error) {
	var (
		logger *zap.Logger
		err    error
	)
	if debug {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		return nil, err
	}
	return logger.Sugar(), nil
}
