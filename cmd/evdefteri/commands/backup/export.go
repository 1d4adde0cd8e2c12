package backup

import (
	"context"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/evdefteri/cmd/evdefteri/commands/flags"
	"github.com/thoreinstein/evdefteri/internal/backup"
	"github.com/thoreinstein/evdefteri/internal/cli"
	"github.com/thoreinstein/evdefteri/internal/errors"
	"github.com/thoreinstein/evdefteri/internal/kv"
)

var exportStdout bool

func init() {
	exportCmd.Flags().BoolVar(&exportStdout, "stdout", false, "Write the backup to standard output instead of a file")
	Cmd.AddCommand(exportCmd)
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the notebook to a backup file",
	Long: `Collect every notebook section from the store and write it, stamped with
the current time and app version, to the backup directory.

Sections that are empty or unreadable are left out of the file.`,
	Example: `  # Export to the backup directory
  evdefteri backup export

  # Export to another place
  evdefteri backup export --stdout > ~/yedek.json

  See Also:
    evdefteri backup list   - List backup files
    evdefteri backup import - Restore a backup file`,
	Args: cobra.NoArgs,
	RunE: runExport,
}

func runExport(cmd *cobra.Command, _ []string) error {
	store, err := cli.OpenStore(flags.GetConfig())
	if err != nil {
		return err
	}
	defer store.Close()

	return runExportWithWriter(cmd.Context(), cmd.OutOrStdout(), store)
}

func runExportWithWriter(ctx context.Context, w io.Writer, r kv.Reader) error {
	mgr := newManager(ctx)

	if exportStdout {
		return mgr.ExportTo(ctx, r, w)
	}

	res, err := mgr.Export(ctx, r)
	if err != nil {
		return errors.NewSystemError(err, "Check that the backup_dir directory is writable")
	}

	status := flags.Status(w)
	cli.Successf(status, "Exported %d section(s) to %s (%d bytes)", len(res.Sections), res.Path, res.Bytes)
	if len(res.Sections) > 0 {
		cli.Heading(status, "  "+strings.Join(res.Sections, ", "))
	}
	if len(res.Sections) < len(backup.DefaultKeys()) {
		cli.Warnf(status, "%d section(s) were empty and left out", len(backup.DefaultKeys())-len(res.Sections))
	}
	return nil
}
