package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var rootCmd = &cobra.Command{
	Use:          "scope",
	Short:        "scope demonstrates scope-bound resource management",
	Long:         `scope runs guarded blocks (interrupt masking, memory block request/release) and explains the constructs.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// isTerminal reports whether stdout is an interactive terminal.
func isTerminal() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}
