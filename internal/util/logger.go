package util

import (
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewLogger builds the production config for env "production" and the
// development config otherwise. level overrides the default level ("debug",
// "info", ...); an unknown level keeps the default.
func NewLogger(env string, level string) *zap.SugaredLogger {
	var cfg zap.Config
	if strings.EqualFold(env, "production") {
		cfg = zap.NewProductionConfig()
	} else {
		cfg = zap.NewDevelopmentConfig()
	}

	if level != "" {
		if lvl, err := zapcore.ParseLevel(level); err == nil {
			cfg.Level = zap.NewAtomicLevelAt(lvl)
		}
	}

	logger := zap.Must(cfg.Build()).Sugar()
	defer logger.Sync()

	return logger
}
