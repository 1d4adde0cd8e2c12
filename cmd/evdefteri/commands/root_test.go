package commands

import (
	"bytes"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/evdefteri/cmd/evdefteri/commands/flags"
	"github.com/thoreinstein/evdefteri/internal/errors"
	"github.com/thoreinstein/evdefteri/internal/logging"
)

// saveRootFlags restores the root flag variables when the test ends.
func saveRootFlags(t *testing.T) {
	t.Helper()
	origVerbosity, origQuiet, origFormat, origFile, origDB := verbosity, quiet, logFormat, logFile, dbPath
	t.Cleanup(func() {
		verbosity, quiet, logFormat, logFile, dbPath = origVerbosity, origQuiet, origFormat, origFile, origDB
		loadedConfig, configLoadErr = nil, nil
		flags.SetQuiet(false)
		flags.SetConfig(nil)
	})
}

func TestSetupLogging_VerbosityFlags(t *testing.T) {
	saveRootFlags(t)

	tests := []struct {
		name      string
		verbosity int
		wantLevel slog.Level
	}{
		{"default (0)", 0, slog.LevelWarn},
		{"verbose (1)", 1, slog.LevelInfo},
		{"debug (2)", 2, slog.LevelDebug},
		{"trace (3)", 3, logging.LevelTrace},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			verbosity = tt.verbosity
			if err := setupLogging(rootCmd); err != nil {
				t.Fatalf("setupLogging failed: %v", err)
			}

			logger := slog.Default()
			if !logger.Enabled(t.Context(), tt.wantLevel) {
				t.Errorf("expected level %v to be enabled", tt.wantLevel)
			}
			if tt.wantLevel > logging.LevelTrace {
				shouldBeDisabled := tt.wantLevel - 4
				if logger.Enabled(t.Context(), shouldBeDisabled) {
					t.Errorf("expected level %v to be disabled", shouldBeDisabled)
				}
			}
		})
	}
}

func TestSetupLogging_EnvVar(t *testing.T) {
	saveRootFlags(t)

	tests := []struct {
		name      string
		envVal    string
		wantLevel slog.Level
	}{
		{"EVDEFTERI_DEBUG=1", "1", slog.LevelDebug},
		{"EVDEFTERI_DEBUG=true", "true", slog.LevelDebug},
		{"EVDEFTERI_DEBUG=2", "2", logging.LevelTrace},
		{"EVDEFTERI_DEBUG=0", "0", slog.LevelWarn},
		{"EVDEFTERI_DEBUG=unknown", "foo", slog.LevelWarn},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			verbosity = 0
			t.Setenv("EVDEFTERI_DEBUG", tt.envVal)

			if err := setupLogging(rootCmd); err != nil {
				t.Fatalf("setupLogging failed: %v", err)
			}

			if !slog.Default().Enabled(t.Context(), tt.wantLevel) {
				t.Errorf("expected level %v to be enabled", tt.wantLevel)
			}
		})
	}
}

func TestSetupLogging_QuietAndVerbose(t *testing.T) {
	saveRootFlags(t)
	quiet = true
	verbosity = 1

	err := setupLogging(rootCmd)
	var exitErr *errors.ExitError
	if !errors.As(err, &exitErr) || exitErr.Code != errors.ExitUser {
		t.Fatalf("err = %v, want user error", err)
	}
}

func TestSetupLogging_Quiet(t *testing.T) {
	saveRootFlags(t)
	quiet = true
	verbosity = 0

	if err := setupLogging(rootCmd); err != nil {
		t.Fatalf("setupLogging failed: %v", err)
	}
	if !flags.IsQuiet() {
		t.Error("quiet flag not propagated")
	}
	if slog.Default().Enabled(t.Context(), slog.LevelWarn) {
		t.Error("quiet should only log errors")
	}
}

func TestApplyConfig(t *testing.T) {
	saveRootFlags(t)
	dir := t.TempDir()
	dbPath = filepath.Join(dir, "other.db")

	c := &cobra.Command{Use: "summary"}
	if err := applyConfig(c); err != nil {
		t.Fatalf("applyConfig: %v", err)
	}
	if got := flags.GetConfig().DBPath; got != dbPath {
		t.Errorf("DBPath = %q, want %q", got, dbPath)
	}
}

func TestApplyConfig_LoadError(t *testing.T) {
	saveRootFlags(t)
	configLoadErr = errors.New("yaml: line 3: bad indentation")

	err := applyConfig(&cobra.Command{Use: "summary"})
	var exitErr *errors.ExitError
	if !errors.As(err, &exitErr) || exitErr.Code != errors.ExitUser {
		t.Fatalf("err = %v, want config error", err)
	}

	// help and version still work with a broken config file
	if err := applyConfig(&cobra.Command{Use: "version"}); err != nil {
		t.Errorf("version should skip config: %v", err)
	}
}

func TestVersionCommand(t *testing.T) {
	saveRootFlags(t)
	t.Setenv("EVDEFTERI_CONFIG_DIR", t.TempDir())

	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetArgs([]string{"version"})
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetArgs(nil)
	})

	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("version: %v", err)
	}
	if !bytes.Contains(buf.Bytes(), []byte("evdefteri version")) {
		t.Errorf("output = %q", buf.String())
	}
	if !bytes.Contains(buf.Bytes(), []byte("commit:")) {
		t.Errorf("output = %q, want commit line", buf.String())
	}
}
