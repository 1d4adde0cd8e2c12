package backup

import (
	"context"
	"encoding/json"
	"io"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/evdefteri/internal/backup"
	"github.com/thoreinstein/evdefteri/internal/cli"
	"github.com/thoreinstein/evdefteri/internal/errors"
	"github.com/thoreinstein/evdefteri/internal/jsonvalue"
	"github.com/thoreinstein/evdefteri/internal/kv"
	"github.com/thoreinstein/evdefteri/internal/records"
)

var inspectJSON bool

func init() {
	inspectCmd.Flags().BoolVar(&inspectJSON, "json", false, "Output in JSON format")
	Cmd.AddCommand(inspectCmd)
}

var inspectCmd = &cobra.Command{
	Use:   "inspect <file>",
	Short: "Summarize the contents of a backup file",
	Long: `Validate a backup file, restore it into a scratch in-memory store and
print the same summary "evdefteri summary" prints for the notebook.

The notebook itself is not touched.`,
	Example: `  evdefteri backup inspect evdefteri_yedek_2024-03-05.json
  evdefteri backup inspect yedek.json --json

  See Also: evdefteri summary, evdefteri backup validate`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runInspectWithWriter(cmd.Context(), cmd.OutOrStdout(), args[0])
	},
}

func runInspectWithWriter(ctx context.Context, w io.Writer, path string) error {
	mgr := newManager(ctx, backup.WithAtomic(false))

	v, res, err := mgr.Check(path)
	if err != nil {
		return err
	}
	if !res.Accepted() {
		return res.Err()
	}

	scratch := kv.NewMemory(nil)
	if _, err := mgr.Restore(ctx, v.(*jsonvalue.Object), scratch); err != nil {
		return err
	}

	book, err := records.Read(ctx, scratch)
	if err != nil {
		return errors.Wrap(err, "reading backup contents")
	}
	summary := records.Summarize(book)

	if inspectJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return errors.Wrap(enc.Encode(summary), "encoding output")
	}
	return cli.PrintSummary(w, summary)
}
