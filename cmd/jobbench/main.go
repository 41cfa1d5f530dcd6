package main

import (
	"os"

	"github.com/fatih/color"

	"github.com/kubev2v/jobsystem/cmd/jobbench/cmd"
)

func main() {
	if err := cmd.NewRootCommand().Execute(); err != nil {
		color.New(color.FgRed).Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
