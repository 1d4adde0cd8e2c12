// Package errors provides error handling conventions for the evdefteri CLI.
//
// It re-exports the constructors and inspection helpers of
// github.com/cockroachdb/errors, defines sentinel errors for the failure
// classes the backup pipeline surfaces to users, and an ExitError type
// carrying a process exit code and an optional suggestion.
//
// # Exit Codes
//
//   - ExitSuccess (0): Command completed successfully
//   - ExitUser (1): The input was rejected (bad JSON, oversized file, invalid backup, bad flags)
//   - ExitSystem (2): Storage or file system failure
//
// # ExitError
//
//	err := errors.NewUserError(errors.ErrFileTooLarge, "Pick a backup smaller than 10 MB")
//	var exitErr *errors.ExitError
//	if errors.As(err, &exitErr) {
//	    os.Exit(exitErr.Code)
//	}
package errors
