package config

import (
	"go.uber.org/zap"
)

var Log *zap.SugaredLogger

// InitLogger sets up the global sugared logger. Development mode gets
// human-readable output, everything else JSON.
func InitLogger(environment string) *zap.SugaredLogger {
	var (
		logger *zap.Logger
		err    error
	)
	if environment == "production" {
		logger, err = zap.NewProduction()
	} else {
		logger, err = zap.NewDevelopment()
	}
	if err != nil {
		panic(err)
	}
	Log = logger.Sugar()
	return Log
}
