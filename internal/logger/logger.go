// Package logger provides structured logging using Zap.
package logger

import (
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	sugar *zap.SugaredLogger
	level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	once  sync.Once
)

// Init initializes the global logger for the given environment.
// "production" gets the JSON encoder, anything else the console encoder.
// An empty or unknown levelName keeps the default info level.
func Init(env, levelName string) {
	once.Do(func() {
		if lvl, err := zapcore.ParseLevel(levelName); err == nil && levelName != "" {
			level.SetLevel(lvl)
		}

		var cfg zap.Config
		if env == "production" {
			cfg = zap.NewProductionConfig()
		} else {
			cfg = zap.NewDevelopmentConfig()
			if levelName == "" {
				level.SetLevel(zapcore.DebugLevel)
			}
		}
		cfg.Level = level

		base, err := cfg.Build()
		if err != nil {
			base = zap.NewNop()
		}
		sugar = base.Sugar()
	})
}

// Get returns the global sugared logger.
// If Init has not been called, it initializes a development logger.
func Get() *zap.SugaredLogger {
	if sugar == nil {
		Init("development", "")
	}
	return sugar
}

// Named returns a child logger tagged with a component name.
func Named(component string) *zap.SugaredLogger {
	return Get().Named(component)
}

// SetLevel changes the level of the running logger.
func SetLevel(l zapcore.Level) {
	level.SetLevel(l)
}

// Sync flushes any buffered log entries. Call this before application exit.
func Sync() {
	if sugar != nil {
		_ = sugar.Sync()
	}
}
