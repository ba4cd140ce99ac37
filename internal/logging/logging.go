// Package logging builds the process-wide *zap.Logger. One logger is
// constructed at main() and passed down explicitly to every component
// (generator, weaver, graph state, dispatcher); nothing in this repo
// reaches for a package-level global logger.
package logging

import (
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New builds a *zap.Logger for env ("local", "production", or anything
// else treated as local), at the given level name ("debug", "info",
// "warn", "error"; defaults to "info" on an unrecognized value), using
// zap's development/production config presets with an explicit atomic
// level.
func New(env, level string) (*zap.Logger, error) {
	var cfg zap.Config
	if strings.EqualFold(env, "production") {
		cfg = zap.NewProductionConfig()
	} else {
		cfg = zap.NewDevelopmentConfig()
	}
	cfg.Level = zap.NewAtomicLevelAt(parseLevel(level))
	return cfg.Build()
}

func parseLevel(level string) zapcore.Level {
	switch strings.ToLower(level) {
	case "debug":
		return zapcore.DebugLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

// Component returns a logger scoped to a named part of the system
// (generator, weaver, graphstate, dispatcher, atp, httpapi), so every log
// line self-identifies its source.
func Component(logger *zap.Logger, name string) *zap.Logger {
	return logger.With(zap.String("component", name))
}
