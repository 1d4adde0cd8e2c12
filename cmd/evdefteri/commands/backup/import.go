package backup

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/evdefteri/cmd/evdefteri/commands/flags"
	"github.com/thoreinstein/evdefteri/internal/backup"
	"github.com/thoreinstein/evdefteri/internal/cli"
	"github.com/thoreinstein/evdefteri/internal/cli/prompt"
	"github.com/thoreinstein/evdefteri/internal/errors"
	"github.com/thoreinstein/evdefteri/internal/kv"
	"github.com/thoreinstein/evdefteri/internal/validator"
)

var (
	importYes         bool
	importAtomic      bool
	importInteractive bool
)

func init() {
	importCmd.Flags().BoolVarP(&importYes, "yes", "y", false, "Skip the confirmation prompt")
	importCmd.Flags().BoolVar(&importAtomic, "atomic", false, "Write all sections in one transaction")
	importCmd.Flags().BoolVarP(&importInteractive, "interactive", "i", false, "Pick the file with a fuzzy finder")
	Cmd.AddCommand(importCmd)
}

var importCmd = &cobra.Command{
	Use:   "import [file]",
	Short: "Restore a backup file into the notebook",
	Long: `Validate a backup file and write its sections into the store.

The whole file is checked before anything is written; a rejected file
leaves the store untouched. Each section present in the file overwrites
the stored value, and sections the file does not contain are kept.

Without a file argument the backup directory is listed and you choose one.
Writes are key by key unless --atomic is given (or restore.atomic is set),
in which case a failure leaves the store exactly as it was.`,
	Example: `  # Choose from the backup directory
  evdefteri backup import

  # Import a specific file without asking
  evdefteri backup import ~/Downloads/evdefteri_yedek_2024-03-05.json --yes

  # All or nothing
  evdefteri backup import yedek.json --atomic

  See Also: evdefteri backup validate, evdefteri backup inspect`,
	Args: cobra.MaximumNArgs(1),
	RunE: runImport,
}

func runImport(cmd *cobra.Command, args []string) error {
	var path string
	if len(args) > 0 {
		path = args[0]
	}

	store, err := cli.OpenStore(flags.GetConfig())
	if err != nil {
		return err
	}
	defer store.Close()

	return runImportWithWriter(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout(), path, store)
}

func runImportWithWriter(ctx context.Context, in io.Reader, w io.Writer, path string, store kv.Writer) error {
	var opts []backup.Option
	if importAtomic {
		opts = append(opts, backup.WithAtomic(true))
	}
	mgr := newManager(ctx, opts...)
	status := flags.Status(w)
	selector := prompt.NewSelectorWithIO(in, status)

	if path == "" {
		file, err := chooseBackup(mgr, selector)
		if err != nil {
			return err
		}
		path = file.Path
	}

	if !importYes {
		v, res, err := mgr.Check(path)
		if err != nil {
			return err
		}
		if err := validator.NewReporter(status, validator.FormatText).Report(res.Report(path, v)); err != nil {
			return err
		}
		if !res.Accepted() {
			return errors.NewExitError(errors.Mark(res.Err(), errors.ErrAlreadyReported), errors.ExitUser)
		}

		ok, err := selector.Confirm("Overwrite the stored sections with this backup?")
		if err != nil {
			return err
		}
		if !ok {
			fmt.Fprintln(status, "Aborted")
			return nil
		}
	}

	result, err := mgr.Import(ctx, path, store)
	if err != nil {
		if result != nil && len(result.Restore.Written) > 0 {
			cli.Warnf(status, "Import stopped after writing: %s", strings.Join(result.Restore.Written, ", "))
		}
		if errors.Is(err, backup.ErrRejected) || result == nil {
			return err
		}
		return errors.NewSystemError(err, "Retry the import, or use --atomic to avoid partial restores")
	}

	cli.Successf(status, "Imported %d key(s) from %s", len(result.Restore.Written), path)
	if result.BackupDate != "" {
		fmt.Fprintf(status, "  backup date: %s\n", result.BackupDate)
	}
	if result.AppVersion != "" {
		fmt.Fprintf(status, "  app version: %s\n", result.AppVersion)
	}
	return nil
}

func chooseBackup(mgr *backup.Manager, selector *prompt.Selector) (*backup.FileInfo, error) {
	files, err := mgr.List()
	if err != nil {
		if errors.Is(err, backup.ErrNoBackupsFound) {
			return nil, errors.NewUserError(err, fmt.Sprintf("Pass a file path, or export one first into %s", mgr.Dir()))
		}
		return nil, err
	}
	if importInteractive {
		return prompt.FindBackup(files)
	}
	return selector.SelectBackup(files)
}
