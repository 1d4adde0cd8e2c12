package commands

import (
	"context"
	"encoding/json"
	"io"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/evdefteri/cmd/evdefteri/commands/flags"
	"github.com/thoreinstein/evdefteri/internal/cli"
	"github.com/thoreinstein/evdefteri/internal/errors"
	"github.com/thoreinstein/evdefteri/internal/kv"
	"github.com/thoreinstein/evdefteri/internal/records"
)

var summaryJSON bool

func init() {
	summaryCmd.Flags().BoolVar(&summaryJSON, "json", false, "Output in JSON format")
	rootCmd.AddCommand(summaryCmd)
}

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Summarize the notebook",
	Long: `Summarize the stored notebook: records per kind, bill and repair totals,
income, expenses, net balance and savings progress.

Amounts are summed as decimals, so totals are exact.`,
	Example: `  # Show the summary
  evdefteri summary

  # As JSON
  evdefteri summary --json

  See Also: evdefteri backup inspect`,
	Args: cobra.NoArgs,
	RunE: runSummary,
}

func runSummary(cmd *cobra.Command, _ []string) error {
	store, err := cli.OpenStore(flags.GetConfig())
	if err != nil {
		return err
	}
	defer store.Close()

	return runSummaryWithWriter(cmd.Context(), cmd.OutOrStdout(), store)
}

func runSummaryWithWriter(ctx context.Context, w io.Writer, r kv.Reader) error {
	book, err := records.Read(ctx, r)
	if err != nil {
		return errors.Wrap(err, "reading notebook")
	}
	return writeSummary(w, records.Summarize(book), summaryJSON)
}

func writeSummary(w io.Writer, s records.Summary, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return errors.Wrap(enc.Encode(s), "encoding output")
	}
	return cli.PrintSummary(w, s)
}
