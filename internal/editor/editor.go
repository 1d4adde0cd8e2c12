// Package editor launches the user's preferred text editor.
package editor

import (
	"context"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/thoreinstein/evdefteri/internal/errors"
)

// IO holds the streams the editor process is attached to.
type IO struct {
	In  io.Reader
	Out io.Writer
	Err io.Writer
}

// Terminal attaches the editor to the process's own streams.
func Terminal() IO {
	return IO{In: os.Stdin, Out: os.Stdout, Err: os.Stderr}
}

// Open launches the user's preferred editor for the given path and waits
// for it to exit.
// Uses $EDITOR, falling back to $VISUAL, then nano, then vi. The variable
// may carry arguments, e.g. "code --wait".
func Open(ctx context.Context, path string, stdio IO) error {
	fields := strings.Fields(detectEditor())

	cmd := exec.CommandContext(ctx, fields[0], append(fields[1:], path)...)
	cmd.Stdin = stdio.In
	cmd.Stdout = stdio.Out
	cmd.Stderr = stdio.Err

	if err := cmd.Run(); err != nil {
		return errors.Wrap(err, "running editor")
	}
	return nil
}

// Edit writes content to a private temporary file, opens it in the editor
// and returns what was saved. pattern names the file as in os.CreateTemp;
// a suffix such as "*.json" lets editors pick a syntax mode.
func Edit(ctx context.Context, pattern string, content []byte, stdio IO) ([]byte, error) {
	f, err := os.CreateTemp("", pattern)
	if err != nil {
		return nil, errors.Wrap(err, "creating temp file")
	}
	path := f.Name()
	defer os.Remove(path)

	if _, err := f.Write(content); err != nil {
		f.Close()
		return nil, errors.Wrap(err, "writing temp file")
	}
	if err := f.Close(); err != nil {
		return nil, errors.Wrap(err, "closing temp file")
	}

	if err := Open(ctx, path, stdio); err != nil {
		return nil, err
	}

	edited, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "reading edited file")
	}
	return edited, nil
}

// detectEditor returns the editor command to use based on environment variables
// and available binaries. Fallback chain: $EDITOR → $VISUAL → nano → vi
func detectEditor() string {
	if editor := strings.TrimSpace(os.Getenv("EDITOR")); editor != "" {
		return editor
	}

	if visual := strings.TrimSpace(os.Getenv("VISUAL")); visual != "" {
		return visual
	}

	if _, err := exec.LookPath("nano"); err == nil {
		return "nano"
	}

	// POSIX standard fallback
	return "vi"
}
