package store

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/evdefteri/cmd/evdefteri/commands/flags"
	"github.com/thoreinstein/evdefteri/internal/cli"
	"github.com/thoreinstein/evdefteri/internal/editor"
	"github.com/thoreinstein/evdefteri/internal/errors"
	"github.com/thoreinstein/evdefteri/internal/jsonvalue"
	"github.com/thoreinstein/evdefteri/internal/kv"
)

// editValue opens content in the user's editor. Tests replace it.
var editValue = editor.Edit

func init() {
	Cmd.AddCommand(editCmd)
}

var editCmd = &cobra.Command{
	Use:   "edit <key>",
	Short: "Edit a stored value in your editor",
	Long: `Open the value stored under a key, indented, in $EDITOR (or $VISUAL,
nano, vi). When the editor exits the value is checked and stored compactly.

Invalid JSON is not stored. Saving an empty file leaves the key unchanged.`,
	Example: `  evdefteri store edit home_profile
  EDITOR="code --wait" evdefteri store edit finance_savings`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := cli.OpenStore(flags.GetConfig())
		if err != nil {
			return err
		}
		defer store.Close()

		stdio := editor.IO{In: cmd.InOrStdin(), Out: cmd.OutOrStdout(), Err: cmd.ErrOrStderr()}
		return runEditWithWriter(cmd.Context(), cmd.OutOrStdout(), store, args[0], stdio)
	},
}

// editStore is what edit needs from a store.
type editStore interface {
	kv.Reader
	kv.Writer
}

func runEditWithWriter(ctx context.Context, w io.Writer, s editStore, key string, stdio editor.IO) error {
	current, ok, err := s.Get(ctx, key)
	if err != nil {
		return errors.Wrapf(err, "reading %s", key)
	}

	var initial []byte
	if ok {
		initial = []byte(current)
		if v, err := jsonvalue.ParseString(current); err == nil {
			if pretty, err := jsonvalue.MarshalIndent(v, "", "  "); err == nil {
				initial = append(pretty, '\n')
			}
		}
	}

	edited, err := editValue(ctx, key+"-*.json", initial, stdio)
	if err != nil {
		return errors.NewSystemError(err, "Set $EDITOR to an installed editor")
	}

	status := flags.Status(w)
	if len(bytes.TrimSpace(edited)) == 0 {
		fmt.Fprintln(status, "Empty value, nothing stored")
		return nil
	}
	if bytes.Equal(edited, initial) {
		fmt.Fprintln(status, "No changes")
		return nil
	}

	return runSetWithWriter(ctx, w, s, key, string(edited))
}
