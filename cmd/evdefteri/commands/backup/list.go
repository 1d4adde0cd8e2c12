package backup

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/evdefteri/internal/backup"
	"github.com/thoreinstein/evdefteri/internal/cli/prompt"
	"github.com/thoreinstein/evdefteri/internal/errors"
)

var listJSON bool

func init() {
	listCmd.Flags().BoolVar(&listJSON, "json", false, "Output in JSON format")
	Cmd.AddCommand(listCmd)
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List backup files",
	Long: `List the backup files in the backup directory, newest first.

An empty directory is not an error; the list is simply empty.`,
	Example: `  evdefteri backup list
  evdefteri backup list --json

  See Also: evdefteri backup export, evdefteri backup import`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runListWithWriter(cmd.Context(), cmd.OutOrStdout())
	},
}

func runListWithWriter(ctx context.Context, w io.Writer) error {
	mgr := newManager(ctx)

	files, err := mgr.List()
	if err != nil && !errors.Is(err, backup.ErrNoBackupsFound) {
		return err
	}
	if files == nil {
		files = []backup.FileInfo{}
	}

	if listJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return errors.Wrap(enc.Encode(files), "encoding output")
	}

	if len(files) == 0 {
		fmt.Fprintf(w, "No backups in %s\n", mgr.Dir())
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tSIZE\tMODIFIED")
	for _, f := range files {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", f.Name, prompt.FormatSize(f.Size), f.ModTime.Format("2006-01-02 15:04"))
	}
	return tw.Flush()
}
