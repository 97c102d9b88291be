// Package logging provides structured logging helpers built on log/slog.
//
// It defines the attribute keys used across the codebase so log output
// stays consistent and greppable, helpers for building attributes, and
// sanitization utilities that keep API-server addresses and bearer tokens
// out of log output.
package logging
