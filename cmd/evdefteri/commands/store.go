package commands

import "github.com/thoreinstein/evdefteri/cmd/evdefteri/commands/store"

func init() {
	rootCmd.AddCommand(store.Cmd)
}
