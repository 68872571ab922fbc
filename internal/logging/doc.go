// Package logging assembles structured slog loggers and formatting helpers used
// across tweetr commands and the daemon.
//
// It owns the console and JSON handlers, centralizes level and output plumbing,
// and prunes old daemon log files. The package also provides a no-op logger for
// tests and wiring code that cannot fail.
package logging
