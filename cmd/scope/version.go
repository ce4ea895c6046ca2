package main

import (
	"fmt"

	"github.com/aretw0/scope"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of scope",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "scope version %s\n", scope.Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
