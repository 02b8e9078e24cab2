// Package main provides the CLI for the feedlint transit feed validator.
package main

import (
	"os"

	"github.com/leapstack-labs/feedlint/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
