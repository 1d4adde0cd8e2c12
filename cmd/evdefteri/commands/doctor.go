package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/thoreinstein/evdefteri/cmd/evdefteri/commands/flags"
	"github.com/thoreinstein/evdefteri/internal/cli"
	"github.com/thoreinstein/evdefteri/internal/doctor"
	"github.com/thoreinstein/evdefteri/internal/errors"
	"github.com/thoreinstein/evdefteri/internal/logging"
)

var (
	doctorJSON bool
	doctorAll  bool
	doctorFix  bool
)

func init() {
	doctorCmd.Flags().BoolVar(&doctorJSON, "json", false,
		"output results as JSON")
	doctorCmd.Flags().BoolVar(&doctorAll, "all", false,
		"show every check including passed ones")
	doctorCmd.Flags().BoolVar(&doctorFix, "fix", false,
		"create the backup directory and tighten permissions where needed")
	doctorCmd.MarkFlagsMutuallyExclusive("json", "all")
	rootCmd.AddCommand(doctorCmd)
}

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check the notebook, database and backups",
	Long: `Run health checks over the configuration, the database, the stored
sections and the backup directory.

The export check builds the document "backup export" would write and runs
the import validation on it, so a notebook that could not be restored from
its own backup is caught before it matters.

Exit codes:
  0 - All checks passed (no errors or warnings)
  1 - Warnings present, no errors
  2 - Errors present`,
	Example: `  # Show problems
  evdefteri doctor

  # Show every check
  evdefteri doctor --all

  # Repair the backup directory
  evdefteri doctor --fix

  See Also: evdefteri init, evdefteri backup validate`,
	Args: cobra.NoArgs,
	RunE: runDoctor,
}

func runDoctor(cmd *cobra.Command, _ []string) error {
	cfg := flags.GetConfig()
	ctx := cmd.Context()
	logger := logging.FromContext(ctx)
	mgr := cli.BackupManager(cfg, logger)

	runner := doctor.NewRunner()
	runner.AddCheck(doctor.NewConfigCheck(cfg))

	store, err := cli.OpenStore(cfg)
	if err != nil {
		runner.AddCheck(doctor.NewDatabaseCheck(cfg.DBPath, nil, err))
	} else {
		defer store.Close()
		runner.AddCheck(doctor.NewDatabaseCheck(store.Path(), store, nil))
		runner.AddCheck(doctor.NewSectionsCheck(store))
		runner.AddCheck(doctor.NewExportCheck(mgr, store))
	}

	runner.AddCheck(doctor.NewBackupDirCheck(cfg.BackupDir))
	runner.AddCheck(doctor.NewLatestBackupCheck(mgr, 0))

	return runDoctorWithWriter(ctx, cmd.OutOrStdout(), runner)
}

func runDoctorWithWriter(ctx context.Context, w io.Writer, runner *doctor.Runner) error {
	report := runner.Run(ctx)

	if doctorFix {
		fixed := applyFixes(flags.Status(w), runner)
		if fixed > 0 {
			// Re-run so the report reflects the repaired state.
			report = runner.Run(ctx)
		}
	}

	if err := outputDoctorReport(w, report); err != nil {
		return err
	}

	if report.HasErrors() {
		return errors.NewExitError(errors.Mark(errDoctorErrors, errors.ErrAlreadyReported), errors.ExitSystem)
	}
	if report.HasWarnings() {
		return errors.NewExitError(errors.Mark(errDoctorWarnings, errors.ErrAlreadyReported), errors.ExitUser)
	}
	return nil
}

func applyFixes(w io.Writer, runner *doctor.Runner) int {
	fixed := 0
	for _, check := range runner.Checks() {
		fixer, ok := check.(doctor.Fixer)
		if !ok || !fixer.CanFix() {
			continue
		}
		for _, res := range fixer.Fix() {
			if res.Fixed {
				fixed++
				cli.Successf(w, "%s: %s", res.Path, res.Description)
				continue
			}
			cli.Warnf(w, "%s: %s", res.Path, res.Description)
		}
	}
	return fixed
}

func outputDoctorReport(w io.Writer, report *doctor.Report) error {
	if doctorJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return errors.Wrap(enc.Encode(report), "encoding JSON")
	}

	w = flags.Status(w)
	hasOutput := false
	for _, result := range report.Results {
		if !doctorAll && result.Status != doctor.SeverityError && result.Status != doctor.SeverityWarning {
			continue
		}

		hasOutput = true
		fmt.Fprintf(w, "%s [%s] %s: %s\n", statusIcon(result.Status), result.Category, result.Name, result.Message)

		if result.FixHint != "" && result.Status != doctor.SeverityPass {
			fmt.Fprintf(w, "  hint: %s\n", result.FixHint)
		}
	}

	if hasOutput {
		fmt.Fprintln(w)
	}

	fmt.Fprintf(w, "Summary: %d passed, %d info, %d warnings, %d errors\n",
		report.Summary.Passed, report.Summary.Info, report.Summary.Warnings, report.Summary.Errors)
	return nil
}

func statusIcon(s doctor.Severity) string {
	switch s {
	case doctor.SeverityPass:
		return color.GreenString("✓")
	case doctor.SeverityInfo:
		return color.CyanString("ℹ")
	case doctor.SeverityWarning:
		return color.YellowString("⚠")
	case doctor.SeverityError:
		return color.RedString("✗")
	default:
		return "?"
	}
}

// errDoctorWarnings is a sentinel error for exit code 1.
var errDoctorWarnings = errors.New("warnings found")

// errDoctorErrors is a sentinel error for exit code 2.
var errDoctorErrors = errors.New("errors found")
