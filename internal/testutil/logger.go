// Package testutil provides shared helpers for tests.
package testutil

import "log/slog"

// DiscardLogger returns a slog.Logger that discards all output.
// Use it in tests to keep output quiet; production code should configure a
// real writer through internal/log.
func DiscardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}
