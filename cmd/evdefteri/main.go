// Package main is the entry point for the evdefteri CLI.
package main

import (
	"os"

	"github.com/thoreinstein/evdefteri/cmd/evdefteri/commands"
)

func main() {
	os.Exit(commands.HandleError(os.Stderr, commands.Execute()))
}
