// Package main is the entry point for the horalis CLI.
package main

import (
	"os"

	"github.com/fremvaerk/horalis/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
