// Package main is the entry point for the modctl CLI tool.
package main

import (
	"os"

	"github.com/good-yellow-bee/modites/cmd/modctl/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
