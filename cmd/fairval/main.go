package main

import (
	"os"

	"github.com/wonny/fairval/cmd/fairval/commands"
)

// main is the entry point for the fairval CLI
func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
