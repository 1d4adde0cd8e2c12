// Package logging provides structured logging for the evdefteri CLI using slog.
//
// Text output goes through a TTY-aware [Handler] that colors levels, masks
// secret-looking attributes and truncates long values such as stored JSON
// sections. JSON output uses the standard library handler. A second JSON
// destination (the --log-file flag) is attached through [MultiHandler].
//
// # Levels
//
// The -v flag count maps to a level with [LevelFromVerbosity]. [LevelTrace]
// sits below Debug and is used for per-key storage reads and writes.
//
// # Basic Usage
//
//	logger := logging.New(logging.Config{
//		Level:  logging.LevelFromVerbosity(verbose),
//		Format: logging.FormatText,
//		Output: os.Stderr,
//	})
//	ctx = logging.NewContext(ctx, logger)
//
// Commands retrieve it again with [FromContext].
//
// # Testing
//
// For tests, use [ForTest] to capture log output via the testing framework:
//
//	func TestSomething(t *testing.T) {
//		logger := logging.ForTest(t)
//		// logs appear in test output on failure
//	}
//
// Use [NewDiscard] when log output should be suppressed entirely.
package logging
