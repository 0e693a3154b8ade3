// Package logger provides the process-wide zap logger.
//
// Init builds the logger once from Config; L returns it. The level is held
// in an AtomicLevel so SetLevel can change it while the server runs, which
// the config watcher uses when log.level changes on disk.
//
// Request-scoped loggers travel in a context: middleware calls ToContext
// with a logger carrying the request id, and services call From(ctx).
package logger
