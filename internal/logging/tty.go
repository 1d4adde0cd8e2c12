package logging

import (
	"io"
	"os"

	"golang.org/x/term"
)

// IsTTY returns true if the given writer is a terminal.
// It supports os.File and any wrapper that provides an Fd() method.
func IsTTY(w io.Writer) bool {
	if f, ok := w.(interface{ Fd() uintptr }); ok {
		return term.IsTerminal(int(f.Fd()))
	}
	return false
}

// SupportsColor returns true if the given writer supports ANSI color codes.
// NO_COLOR and TERM=dumb disable color; CLICOLOR_FORCE enables it for
// non-terminal writers.
func SupportsColor(w io.Writer) bool {
	return supportsColor(w, IsTTY(w))
}

func supportsColor(w io.Writer, isTTY bool) bool {
	// Respect NO_COLOR standard (https://no-color.org)
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}

	// Check TERM environment variable
	if term := os.Getenv("TERM"); term == "dumb" {
		return false
	}

	if v := os.Getenv("CLICOLOR_FORCE"); v != "" && v != "0" {
		return true
	}

	return isTTY
}
