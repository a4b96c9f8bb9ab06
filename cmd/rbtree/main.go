// Package main provides the entry point for the rbtree exerciser CLI.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/rbtree/cmd/rbtree/commands"
	"github.com/Sumatoshi-tech/rbtree/pkg/version"
)

var noColor bool

func main() {
	rootCmd := &cobra.Command{
		Use:   "rbtree",
		Short: "Red-black tree exerciser",
		Long: `rbtree drives the generic red-black tree through randomized workloads
and checks every result against an independent oracle.

Commands:
  run       Run a seeded random workload and print a report
  scenario  Replay the insert/delete/GetOrInsert reference scenario
  plot      Run a workload and chart tree height against its bound`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			if noColor {
				color.NoColor = true
			}
		},
	}

	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output")

	rootCmd.AddCommand(commands.NewRunCommand())
	rootCmd.AddCommand(commands.NewScenarioCommand())
	rootCmd.AddCommand(commands.NewPlotCommand())
	rootCmd.AddCommand(versionCmd())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	err := rootCmd.ExecuteContext(ctx)

	stop()

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Fprintf(os.Stdout, "rbtree %s (commit: %s, built: %s)\n", version.Version, version.Commit, version.Date)
		},
	}
}
