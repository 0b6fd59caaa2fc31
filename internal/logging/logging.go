// Package logging builds the diagnostic logger. The user-facing log lives in
// the event queue; this one is for developers and goes to stderr.
package logging

import (
	"go.uber.org/zap"
)

// New returns a JSON production logger at Info, or Debug when verbose
func New(verbose bool) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Encoding = "json"
	if verbose {
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}
	return cfg.Build()
}

// Nop returns a logger that discards everything
func Nop() *zap.Logger {
	return zap.NewNop()
}
