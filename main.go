package main

import (
	"os"

	"github.com/delcor027/Acidentes-ANTT-PIE/internal/cli/cmd"
)

// Set via -ldflags at build time.
var (
	version   string
	gitCommit string
	buildDate string
)

func main() {
	cmd.SetVersionInfo(version, gitCommit, buildDate)
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
