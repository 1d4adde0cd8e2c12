package commands

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/fatih/color"

	"github.com/thoreinstein/evdefteri/internal/backup"
	"github.com/thoreinstein/evdefteri/internal/cli/prompt"
	"github.com/thoreinstein/evdefteri/internal/errors"
)

// userErrors are caused by the input rather than the system. They exit with
// errors.ExitUser even when no command classified them.
var userErrors = []error{
	backup.ErrRejected,
	backup.ErrNoBackupsFound,
	errors.ErrInvalidJSON,
	errors.ErrFileTooLarge,
	errors.ErrInvalidConfig,
	errors.ErrNotFound,
	prompt.ErrInvalidSelection,
	prompt.ErrNoBackups,
}

// HandleError prints err to w and returns the process exit code.
// A cancelled selection is not a failure.
func HandleError(w io.Writer, err error) int {
	if err == nil {
		return errors.ExitSuccess
	}

	if errors.Is(err, prompt.ErrSelectionCancelled) {
		fmt.Fprintln(w, "cancelled")
		return errors.ExitSuccess
	}

	code := exitCode(err)
	slog.Debug("command failed", "code", code, "error", err)

	if errors.Is(err, errors.ErrAlreadyReported) {
		return code
	}

	fmt.Fprintf(w, "%s %s\n", color.RedString("Error:"), message(err))
	var exitErr *errors.ExitError
	if errors.As(err, &exitErr) && exitErr.Suggestion != "" {
		fmt.Fprintf(w, "%s %s\n", color.YellowString("Suggestion:"), exitErr.Suggestion)
	}
	return code
}

func exitCode(err error) int {
	var exitErr *errors.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	for _, target := range userErrors {
		if errors.Is(err, target) {
			return errors.ExitUser
		}
	}
	return errors.ExitSystem
}

// message is what the user sees. Parse and size failures carry decoder and
// byte-count detail that is only logged.
func message(err error) string {
	switch {
	case errors.Is(err, backup.ErrRejected):
		return err.Error()
	case errors.Is(err, errors.ErrInvalidJSON):
		return errors.ErrInvalidJSON.Error()
	case errors.Is(err, errors.ErrFileTooLarge):
		return errors.ErrFileTooLarge.Error()
	}
	return err.Error()
}
