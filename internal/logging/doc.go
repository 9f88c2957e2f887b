// Package logging assembles structured slog loggers and formatting helpers used
// across scribe.
//
// It owns the configurable console/JSON handlers, centralizes level and output
// plumbing, and exposes context-aware helpers so stage code can automatically
// tag log lines with the prediction correlation ID and stage name. The package
// also provides a no-op logger for tests and wiring code that cannot fail.
//
// Log output defaults to stderr: stdout carries the prediction JSON.
package logging
