package store

import (
	"context"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/evdefteri/cmd/evdefteri/commands/flags"
	"github.com/thoreinstein/evdefteri/internal/cli"
	"github.com/thoreinstein/evdefteri/internal/errors"
	"github.com/thoreinstein/evdefteri/internal/jsonvalue"
	"github.com/thoreinstein/evdefteri/internal/kv"
	"github.com/thoreinstein/evdefteri/pkg/fileutil"
)

// maxValueBytes caps a value read from standard input.
const maxValueBytes = 10 << 20

func init() {
	Cmd.AddCommand(setCmd)
}

var setCmd = &cobra.Command{
	Use:   "set <key> <json|->",
	Short: "Store a JSON value under a key",
	Long: `Store a value under a key, replacing any existing value.

The value must be valid JSON; it is stored in compact form. Pass "-" to
read the value from standard input.`,
	Example: `  evdefteri store set home_xp 1250
  evdefteri store set home_profile '{"name":"Ayşe"}'
  cat history.json | evdefteri store set home_history -`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		raw := args[1]
		if raw == "-" {
			data, err := fileutil.ReadAllWithLimit(cmd.InOrStdin(), maxValueBytes)
			if err != nil {
				return err
			}
			raw = string(data)
		}

		store, err := cli.OpenStore(flags.GetConfig())
		if err != nil {
			return err
		}
		defer store.Close()
		return runSetWithWriter(cmd.Context(), cmd.OutOrStdout(), store, args[0], raw)
	},
}

func runSetWithWriter(ctx context.Context, w io.Writer, s kv.Writer, key, raw string) error {
	if strings.TrimSpace(key) == "" {
		return errors.NewUserError(errors.New("key must not be empty"), "")
	}

	v, err := jsonvalue.ParseString(raw)
	if err != nil {
		return errors.NewUserError(err, `Quote strings as JSON, e.g. '"dark"'`)
	}
	compact, err := jsonvalue.Marshal(v)
	if err != nil {
		return err
	}

	if err := s.Set(ctx, key, string(compact)); err != nil {
		return errors.NewSystemError(errors.Wrapf(err, "writing %s", key), "")
	}
	cli.Successf(flags.Status(w), "Stored %s (%d bytes)", key, len(compact))
	return nil
}
