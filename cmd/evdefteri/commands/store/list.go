package store

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/evdefteri/cmd/evdefteri/commands/flags"
	"github.com/thoreinstein/evdefteri/internal/backup"
	"github.com/thoreinstein/evdefteri/internal/cli"
	"github.com/thoreinstein/evdefteri/internal/errors"
	"github.com/thoreinstein/evdefteri/internal/kv"
)

var listJSON bool

func init() {
	listCmd.Flags().BoolVar(&listJSON, "json", false, "Output in JSON format")
	Cmd.AddCommand(listCmd)
}

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List storage keys",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		store, err := cli.OpenStore(flags.GetConfig())
		if err != nil {
			return err
		}
		defer store.Close()
		return runListWithWriter(cmd.Context(), cmd.OutOrStdout(), store)
	},
}

type keyInfo struct {
	Key    string `json:"key"`
	Bytes  int    `json:"bytes"`
	Backup bool   `json:"backup"`
}

func runListWithWriter(ctx context.Context, w io.Writer, s kv.Store) error {
	keys, err := s.Keys(ctx)
	if err != nil {
		return errors.Wrap(err, "listing keys")
	}

	allowed := backup.AllowedKeys()
	infos := make([]keyInfo, 0, len(keys))
	for _, k := range keys {
		v, _, err := s.Get(ctx, k)
		if err != nil {
			return errors.Wrapf(err, "reading %s", k)
		}
		infos = append(infos, keyInfo{Key: k, Bytes: len(v), Backup: slices.Contains(allowed, k)})
	}

	if listJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return errors.Wrap(enc.Encode(infos), "encoding output")
	}

	if len(infos) == 0 {
		fmt.Fprintln(flags.Status(w), "Store is empty")
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "KEY\tBYTES\tBACKUP")
	for _, i := range infos {
		mark := ""
		if i.Backup {
			mark = "yes"
		}
		fmt.Fprintf(tw, "%s\t%d\t%s\n", i.Key, i.Bytes, mark)
	}
	return tw.Flush()
}
