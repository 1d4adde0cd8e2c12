package store

import (
	"context"
	"io"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/evdefteri/cmd/evdefteri/commands/flags"
	"github.com/thoreinstein/evdefteri/internal/cli"
	"github.com/thoreinstein/evdefteri/internal/errors"
	"github.com/thoreinstein/evdefteri/internal/kv"
)

func init() {
	Cmd.AddCommand(deleteCmd)
}

var deleteCmd = &cobra.Command{
	Use:     "delete <key>...",
	Aliases: []string{"rm"},
	Short:   "Remove keys from the store",
	Long:    `Remove one or more keys. Removing a key that does not exist is not an error.`,
	Args:    cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := cli.OpenStore(flags.GetConfig())
		if err != nil {
			return err
		}
		defer store.Close()
		return runDeleteWithWriter(cmd.Context(), cmd.OutOrStdout(), store, args)
	},
}

func runDeleteWithWriter(ctx context.Context, w io.Writer, s kv.Remover, keys []string) error {
	for _, k := range keys {
		if err := s.Remove(ctx, k); err != nil {
			return errors.NewSystemError(errors.Wrapf(err, "removing %s", k), "")
		}
		cli.Successf(flags.Status(w), "Removed %s", k)
	}
	return nil
}
