// Package logging builds the CLI's structured logger.
package logging

import (
	"io"

	"github.com/charmbracelet/log"

	"github.com/xcode-links/xcache/internal/branding"
)

// New returns a logger writing to w, prefixed with the CLI name. verbose
// enables debug output.
func New(w io.Writer, verbose bool) *log.Logger {
	level := log.InfoLevel
	if verbose {
		level = log.DebugLevel
	}
	return log.NewWithOptions(w, log.Options{
		Prefix: branding.CLIName(),
		Level:  level,
	})
}

// Discard returns a logger that drops everything.
func Discard() *log.Logger {
	return log.New(io.Discard)
}
