package backup

import (
	"context"
	"io"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/evdefteri/internal/errors"
	"github.com/thoreinstein/evdefteri/internal/validator"
)

var validateJSON bool

func init() {
	validateCmd.Flags().BoolVar(&validateJSON, "json", false, "Output in JSON format")
	Cmd.AddCommand(validateCmd)
}

var validateCmd = &cobra.Command{
	Use:   "validate <file>",
	Short: "Check a backup file without importing it",
	Long: `Run every import check on a backup file and report the verdict. Nothing
is written to the store.

A rejected file is reported with the first failed check. For an accepted
file the report lists the backup date, app version and sections found, and
warns about legacy key names.

Exit codes:
  0 - The file would be accepted
  1 - The file would be rejected, is not JSON, or is too large`,
	Example: `  # Validate a file
  evdefteri backup validate evdefteri_yedek_2024-03-05.json

  # As JSON
  evdefteri backup validate yedek.json --json

  See Also: evdefteri backup import, evdefteri backup inspect`,
	Args: cobra.ExactArgs(1),
	RunE: runValidate,
}

func runValidate(cmd *cobra.Command, args []string) error {
	return runValidateWithWriter(cmd.Context(), cmd.OutOrStdout(), args[0])
}

func runValidateWithWriter(ctx context.Context, w io.Writer, path string) error {
	mgr := newManager(ctx)

	v, res, err := mgr.Check(path)
	if err != nil {
		return err
	}

	format := validator.FormatText
	if validateJSON {
		format = validator.FormatJSON
	}
	if err := validator.NewReporter(w, format).Report(res.Report(path, v)); err != nil {
		return err
	}

	if !res.Accepted() {
		return errors.NewExitError(errors.Mark(res.Err(), errors.ErrAlreadyReported), errors.ExitUser)
	}
	return nil
}
