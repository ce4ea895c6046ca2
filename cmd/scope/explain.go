package main

import (
	"github.com/aretw0/scope/internal/cli"
	"github.com/spf13/cobra"
)

var explainCmd = &cobra.Command{
	Use:   "explain",
	Short: "Print a reference of the guarded block constructs",
	RunE: func(cmd *cobra.Command, args []string) error {
		return cli.Explain(cmd.OutOrStdout(), isTerminal())
	},
}

func init() {
	rootCmd.AddCommand(explainCmd)
}
