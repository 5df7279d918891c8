// Package logging builds the process-wide structured logger.
package logging

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New builds a *zap.SugaredLogger for service, honoring ENV (production vs.
// development encoder) and LOG_LEVEL. Each binary calls this once at startup
// and passes the logger down explicitly, rather than reaching for a package
// singleton.
func New(service string) *zap.SugaredLogger {
	var cfg zap.Config
	if os.Getenv("ENV") == "production" {
		cfg = zap.NewProductionConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	} else {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	if val, ok := os.LookupEnv("LOG_LEVEL"); ok {
		var lvl zapcore.Level
		if err := lvl.Set(val); err == nil {
			cfg.Level = zap.NewAtomicLevelAt(lvl)
		}
	}
	cfg.DisableStacktrace = true

	logger, err := cfg.Build()
	if err != nil {
		// Logging is ambient infrastructure, not a feature a caller can
		// recover from missing; fail loudly rather than run silent.
		panic(err)
	}

	return logger.Sugar().With("service", service)
}
