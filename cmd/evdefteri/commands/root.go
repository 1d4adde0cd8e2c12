// Package commands implements the CLI commands for evdefteri.
package commands

import (
	"context"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/evdefteri/cmd"
	"github.com/thoreinstein/evdefteri/cmd/evdefteri/commands/flags"
	"github.com/thoreinstein/evdefteri/internal/backup"
	"github.com/thoreinstein/evdefteri/internal/config"
	"github.com/thoreinstein/evdefteri/internal/errors"
	"github.com/thoreinstein/evdefteri/internal/logging"
	"github.com/thoreinstein/evdefteri/internal/paths"
)

// verbosity holds the count of -v flags.
var verbosity int

// quiet holds the value of the -q/--quiet flag.
var quiet bool

// logFormat holds the value of the --log-format flag.
var logFormat string

// logFile holds the path to the log file.
var logFile string

// dbPath holds the value of the --db flag.
var dbPath string

// loadedConfig and configLoadErr hold the result of loading the config file.
var (
	loadedConfig  *config.Config
	configLoadErr error
)

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v",
		"increase verbosity level (e.g., -v, -vv, -vvv)")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false,
		"suppress non-error output")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "text",
		"log format: text, json")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "",
		"write logs to file in JSON format")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "",
		"database file (overrides db_path)")

	rootCmd.Version = cmd.Version
	rootCmd.SetVersionTemplate("evdefteri version {{.Version}}\n")

	backup.Version = cmd.Version

	// Silence errors and usage so we can control error output
	rootCmd.SilenceErrors = true
	rootCmd.SilenceUsage = true
}

func initConfig() {
	config.Init()
	// Capture load errors for later reporting
	loadedConfig, configLoadErr = config.Load("")
}

var rootCmd = &cobra.Command{
	Use:   "evdefteri",
	Short: "Household notebook with validated JSON backups",
	Long: `evdefteri keeps a household notebook (home profile, bills, warranties,
repairs, income, expenses and savings goals) in a local SQLite database.

Its backup commands export the notebook to a single JSON file and import
such files back. Every file is validated before anything is written:
unknown keys, malformed records, oversized content and script injection
are rejected with the reason.`,
	Example: `  # Create config, directories and database
  evdefteri init

  # Export a backup to the backup directory
  evdefteri backup export

  # Check a backup file without importing it
  evdefteri backup validate evdefteri_yedek_2024-03-05.json

  # Pick a backup file and restore it
  evdefteri backup import

  See Also: evdefteri init, evdefteri config, evdefteri backup`,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		// Initialize logging first
		if err := setupLogging(cmd); err != nil {
			return err
		}
		return applyConfig(cmd)
	},
	Run: func(cmd *cobra.Command, _ []string) {
		_ = cmd.Help()
	},
}

// setupLogging configures the default logger based on verbosity flags and
// stores it in the command context.
func setupLogging(cmd *cobra.Command) error {
	if quiet && verbosity > 0 {
		return errors.NewUserError(errors.New("cannot use --quiet and --verbose together"), "Pass only one of them")
	}
	flags.SetQuiet(quiet)

	var level slog.Level
	if quiet {
		level = slog.LevelError
	} else {
		v := verbosity

		// CLI flags take precedence, but if not set, check env var
		if v == 0 {
			if val, ok := os.LookupEnv("EVDEFTERI_DEBUG"); ok {
				switch val {
				case "1", "true":
					v = 2 // Debug
				case "2":
					v = 3 // Trace
				}
			}
		}
		level = logging.LevelFromVerbosity(v)
	}

	cfg := logging.Config{
		Level:  level,
		Format: logging.Format(logFormat),
		Output: cmd.ErrOrStderr(),
	}

	if logFile != "" {
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
		if err != nil {
			return errors.NewUserError(errors.Wrap(err, "opening log file"), "Check the --log-file path")
		}
		// File output uses JSON format
		cfg.File = f
	}

	logger := logging.New(cfg)
	slog.SetDefault(logger)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cmd.SetContext(logging.NewContext(ctx, logger))

	return nil
}

// applyConfig reports config load errors and applies flag overrides.
func applyConfig(cmd *cobra.Command) error {
	// Skip for help and version commands
	if cmd.Name() == "help" || cmd.Name() == "version" {
		return nil
	}

	if configLoadErr != nil {
		return errors.NewConfigError(configLoadErr)
	}

	cfg := loadedConfig
	if cfg == nil {
		cfg = config.Default()
	}
	if dbPath != "" {
		p, err := paths.Expand(dbPath)
		if err != nil {
			return errors.NewUserError(errors.Wrap(err, "resolving --db"), "Pass a file path")
		}
		cfg.DBPath = p
	}

	flags.SetConfig(cfg)
	logging.FromContext(cmd.Context()).Debug("configuration loaded",
		"db_path", cfg.DBPath, "backup_dir", cfg.BackupDir, "namespace", cfg.Store.Namespace)
	return nil
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.ExecuteContext(context.Background())
}
