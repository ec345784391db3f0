// Package postlog provides the structured logger shared across the
// initializer, prover, and verifier. No comparable low-level crypto
// code in this codebase's history wires in a third-party
// structured-logging library, so this package is the one ambient
// concern built on the standard library rather than an external
// dependency — log/slog, not a hand-rolled print wrapper, so callers
// still get levels and structured fields.
package postlog

import (
	"log/slog"
	"os"
)

// New builds the module's default logger: structured, text-formatted,
// to stderr, matching where the rest of the module's diagnostic output
// already goes.
func New(level slog.Level) *slog.Logger {
	h := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	return slog.New(h)
}

// Default is the package-level logger used when a caller hasn't wired
// its own.
var Default = New(slog.LevelInfo)
