package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/aretw0/scope/internal/cli"
	"github.com/spf13/cobra"
)

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Run the guarded block scenarios",
	Long:  `Masks simulated interrupts, requests and releases memory blocks and, with --redis, takes a distributed critical section.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		configPath, _ := cmd.Flags().GetString("config")
		redisAddr, _ := cmd.Flags().GetString("redis")
		noBanner, _ := cmd.Flags().GetBool("no-banner")
		debug, _ := cmd.Flags().GetBool("debug")
		dumpMetrics, _ := cmd.Flags().GetBool("metrics")

		opts := cli.DemoOptions{
			ConfigPath: configPath,
			RedisAddr:  redisAddr,
			NoBanner:   noBanner,
			Debug:      debug,
			Color:      isTerminal(),
			Out:        cmd.OutOrStdout(),
			Err:        cmd.ErrOrStderr(),
		}
		if dumpMetrics {
			opts.Metrics = cmd.OutOrStdout()
		}
		return cli.RunDemo(ctx, opts)
	},
}

func init() {
	rootCmd.AddCommand(demoCmd)

	demoCmd.Flags().StringP("config", "c", "scope.yaml", "Path to the YAML config (missing file means defaults)")
	demoCmd.Flags().String("redis", "", "Redis address for the distributed critical section")
	demoCmd.Flags().Bool("no-banner", false, "Do not print the banner")
	demoCmd.Flags().Bool("debug", false, "Log every guard enter/exit")
	demoCmd.Flags().Bool("metrics", false, "Print the guard metrics in Prometheus text format after the run")

	// 'demo' is the default if no command is provided.
	rootCmd.RunE = demoCmd.RunE
	rootCmd.Flags().AddFlagSet(demoCmd.Flags())
}
