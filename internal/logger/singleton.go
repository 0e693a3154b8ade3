package logger

import (
	"sync"

	"go.uber.org/zap"
)

var (
	once     sync.Once
	instance *zap.Logger
	level    = zap.NewAtomicLevel()
)

// Init builds the singleton logger. Only the first call has any effect.
func Init(cfg Config) {
	once.Do(func() {
		level.SetLevel(ParseLevel(cfg.Level))
		instance = build(cfg, level)
	})
}

// L returns the singleton, initializing a dev logger at info if needed
func L() *zap.Logger {
	Init(Config{Env: "dev", Level: "info"})
	return instance
}

// Named returns the singleton scoped to a component name
func Named(name string) *zap.Logger {
	return L().Named(name)
}

// SetLevel changes the minimum level of every logger derived from L
func SetLevel(lvl string) {
	level.SetLevel(ParseLevel(lvl))
}

// Level returns the current minimum level name
func Level() string {
	return level.Level().String()
}

// Sync flushes buffered entries
func Sync() error {
	if instance != nil {
		return instance.Sync()
	}
	return nil
}
