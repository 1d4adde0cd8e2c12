// Package backup provides CLI commands for exporting, validating and
// importing notebook backups.
package backup

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/evdefteri/cmd/evdefteri/commands/flags"
	"github.com/thoreinstein/evdefteri/internal/backup"
	"github.com/thoreinstein/evdefteri/internal/cli"
	"github.com/thoreinstein/evdefteri/internal/logging"
)

// Cmd is the root backup command.
var Cmd = &cobra.Command{
	Use:   "backup",
	Short: "Export, validate and import backups",
	Long: `Export the notebook to a JSON backup file and import such files back.

Exports are written to the backup directory as evdefteri_yedek_<date>.json;
a second export on the same day replaces the first. Imports validate the
whole file before writing anything and overwrite only the sections the
file contains.`,
	Example: `  # Export a backup
  evdefteri backup export

  # List backup files
  evdefteri backup list

  # Check a file without importing it
  evdefteri backup validate evdefteri_yedek_2024-03-05.json

  # Import, choosing from the backup directory
  evdefteri backup import

  See Also:
    evdefteri backup export   - Write a backup file
    evdefteri backup validate - Check a backup file
    evdefteri backup import   - Restore a backup file
    evdefteri backup inspect  - Summarize a backup file
    evdefteri backup list     - List backup files`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return cmd.Help()
	},
}

// newManager builds the backup manager from the active configuration.
func newManager(ctx context.Context, opts ...backup.Option) *backup.Manager {
	return cli.BackupManager(flags.GetConfig(), logging.FromContext(ctx), opts...)
}
