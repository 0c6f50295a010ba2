// Package log provides structured logging built on [log/slog].
//
// It adds a Trace level below Debug, colorized text output for terminals,
// JSON output for machine consumption, and a zero-value no-op [Logger] that
// library types can embed without configuration.
package log
