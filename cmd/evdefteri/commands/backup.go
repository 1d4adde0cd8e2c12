package commands

import "github.com/thoreinstein/evdefteri/cmd/evdefteri/commands/backup"

func init() {
	rootCmd.AddCommand(backup.Cmd)
}
