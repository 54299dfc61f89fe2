// Package main is the entry point for the activityinfo CLI.
package main

import (
	"os"

	"github.com/VladmirB/sigmah/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(cli.GetExitCode(err))
	}
}
