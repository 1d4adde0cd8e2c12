package store

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/evdefteri/cmd/evdefteri/commands/flags"
	"github.com/thoreinstein/evdefteri/internal/cli"
	"github.com/thoreinstein/evdefteri/internal/errors"
	"github.com/thoreinstein/evdefteri/internal/jsonvalue"
	"github.com/thoreinstein/evdefteri/internal/kv"
)

var getPretty bool

func init() {
	getCmd.Flags().BoolVarP(&getPretty, "pretty", "p", false, "Indent the value")
	Cmd.AddCommand(getCmd)
}

var getCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Print the value stored under a key",
	Long: `Print the raw value stored under a key.

With --pretty the value is parsed and indented; a value that is not valid
JSON is printed as stored.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := cli.OpenStore(flags.GetConfig())
		if err != nil {
			return err
		}
		defer store.Close()
		return runGetWithWriter(cmd.Context(), cmd.OutOrStdout(), store, args[0])
	},
}

func runGetWithWriter(ctx context.Context, w io.Writer, r kv.Reader, key string) error {
	value, ok, err := r.Get(ctx, key)
	if err != nil {
		return errors.Wrapf(err, "reading %s", key)
	}
	if !ok {
		return errors.NewUserError(errors.Mark(errors.Newf("key %q not found", key), errors.ErrNotFound),
			"Run 'evdefteri store list' to see stored keys")
	}

	if getPretty {
		if v, err := jsonvalue.ParseString(value); err == nil {
			if out, err := jsonvalue.MarshalIndent(v, "", "  "); err == nil {
				value = string(out)
			}
		}
	}
	fmt.Fprintln(w, value)
	return nil
}
