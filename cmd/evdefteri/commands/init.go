package commands

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/evdefteri/cmd/evdefteri/commands/flags"
	"github.com/thoreinstein/evdefteri/internal/cli"
	"github.com/thoreinstein/evdefteri/internal/config"
	"github.com/thoreinstein/evdefteri/internal/errors"
	"github.com/thoreinstein/evdefteri/internal/paths"
)

var initForce bool

func init() {
	initCmd.Flags().BoolVarP(&initForce, "force", "f", false, "Overwrite existing configuration")
	rootCmd.AddCommand(initCmd)
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize evdefteri",
	Long: `Create the configuration file, the data and backup directories, and the
database with its schema.

Existing configuration is kept unless --force is given. Directories and the
database are created only when missing, so init is safe to re-run.`,
	Example: `  # Initialize with defaults
  evdefteri init

  # Rewrite the configuration file with current settings
  evdefteri init --force

  # Use a database somewhere else
  evdefteri init --db ~/ev/evdefteri.db

  See Also: evdefteri config, evdefteri backup export`,
	RunE: runInit,
}

func runInit(cmd *cobra.Command, _ []string) error {
	return runInitWithWriter(flags.Status(cmd.OutOrStdout()), config.DefaultFile())
}

func runInitWithWriter(w io.Writer, configPath string) error {
	if _, err := os.Stat(configPath); err == nil && !initForce {
		fmt.Fprintf(w, "Configuration already exists at %s\n", configPath)
		fmt.Fprintln(w, "Use --force to overwrite")
	} else {
		if err := config.Save(configPath); err != nil {
			return errors.Wrap(err, "writing configuration")
		}
		cli.Successf(w, "Created %s", configPath)
	}

	cfg := flags.GetConfig()

	for _, dir := range []string{filepath.Dir(cfg.DBPath), cfg.BackupDir} {
		if err := paths.EnsureDir(dir, 0); err != nil {
			return errors.NewSystemError(errors.Wrapf(err, "creating %s", dir), "Check directory permissions")
		}
	}
	cli.Successf(w, "Backup directory %s", cfg.BackupDir)

	store, err := cli.OpenStore(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	version, err := store.SchemaVersion()
	if err != nil {
		return errors.Wrap(err, "reading schema version")
	}
	cli.Successf(w, "Database %s (schema version %d)", store.Path(), version)
	return nil
}
