// Package logger provides structured logging for redline.
//
// It wraps log/slog:
//
//   - logger.go: Logger interface, configuration, global default
//   - context.go: carrying a logger through context.Context
//   - redact.go: masking of credentials in attributes and command arguments
//
// Logs go to stderr so they never mix with reply output on stdout.
package logger
