// Package main is the entry point for the beatbrain application.
package main

import (
	"os"

	"github.com/beatbrain/beatbrain/cmd/beatbrain/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
