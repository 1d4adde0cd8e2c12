// Package store provides CLI commands for reading and editing the raw
// key-value store.
package store

import (
	"github.com/spf13/cobra"
)

// Cmd is the root store command.
var Cmd = &cobra.Command{
	Use:   "store",
	Short: "Inspect and edit raw storage keys",
	Long: `Read and write the key-value store directly.

Every value is JSON text. Values written with "store set" are checked and
stored compactly. Keys that belong to a backup section are marked in the
listing.`,
	Example: `  evdefteri store list
  evdefteri store get home_xp
  evdefteri store set home_xp 1250
  evdefteri store delete theme

  See Also: evdefteri backup export`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return cmd.Help()
	},
}
