// Package flags provides shared state for CLI commands.
// This package exists to avoid import cycles between the root command
// and noun subpackages (backup, store).
package flags

import (
	"io"

	"github.com/thoreinstein/evdefteri/internal/config"
)

// cfg holds the configuration loaded by the root command, with flag
// overrides applied.
var cfg *config.Config

// quiet holds the value of the -q/--quiet flag.
var quiet bool

// GetConfig returns the active configuration, or the defaults when the root
// command has not loaded one (e.g. in tests).
func GetConfig() *config.Config {
	if cfg == nil {
		return config.Default()
	}
	return cfg
}

// SetConfig sets the active configuration.
func SetConfig(c *config.Config) {
	cfg = c
}

// IsQuiet reports whether non-error output is suppressed.
func IsQuiet() bool {
	return quiet
}

// SetQuiet sets the quiet flag value.
func SetQuiet(q bool) {
	quiet = q
}

// Status returns w, or io.Discard when quiet. Commands write progress and
// confirmation messages through it; requested data goes to w directly.
func Status(w io.Writer) io.Writer {
	if quiet {
		return io.Discard
	}
	return w
}
