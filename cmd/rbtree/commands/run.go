package commands

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/rbtree/pkg/config"
	"github.com/Sumatoshi-tech/rbtree/pkg/report"
	"github.com/Sumatoshi-tech/rbtree/pkg/workload"
)

// RunCommand holds the flags of the run command.
type RunCommand struct {
	configPath  string
	format      string
	metricsFile string
	seed        int64
	ops         int
	keys        int
}

// NewRunCommand creates the run command.
func NewRunCommand() *cobra.Command {
	rc := &RunCommand{}

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run a seeded random workload",
		Long: `Run drives a tree through a random mix of Put, Delete, GetOrInsert and Find,
checking each result against a map oracle and validating the red-black
invariants periodically. Flags override the configuration file.`,
		Args: cobra.NoArgs,
		RunE: rc.run,
	}

	cmd.Flags().StringVar(&rc.configPath, "config", "", "Configuration file (default: search for rbtree.yaml)")
	cmd.Flags().Int64Var(&rc.seed, "seed", config.DefaultSeed, "Random seed")
	cmd.Flags().IntVar(&rc.ops, "ops", config.DefaultOperations, "Number of operations")
	cmd.Flags().IntVar(&rc.keys, "keys", config.DefaultKeySpace, "Size of the key space")
	cmd.Flags().StringVar(&rc.format, "format", config.DefaultReportFormat,
		"Output format: "+strings.Join(report.Formats(), ", "))
	cmd.Flags().StringVar(&rc.metricsFile, "metrics-file", "", "Write Prometheus metrics to this file")

	return cmd
}

func (rc *RunCommand) run(cmd *cobra.Command, _ []string) error {
	sess, err := openSession(rc.configPath, cmd.ErrOrStderr(), func(cfg *config.Config) {
		applyWorkloadFlags(cmd, cfg, rc.seed, rc.ops, rc.keys)

		if cmd.Flags().Changed("format") {
			cfg.Workload.Format = rc.format
		}

		if cmd.Flags().Changed("metrics-file") {
			cfg.Telemetry.MetricsFile = rc.metricsFile
		}
	})
	if err != nil {
		return err
	}

	format := strings.ToLower(sess.cfg.Workload.Format)
	if !slices.Contains(report.Formats(), format) {
		return errors.Join(
			fmt.Errorf("%w: %q", report.ErrUnknownFormat, sess.cfg.Workload.Format),
			sess.close(cmd.Context()),
		)
	}

	rep, runErr := workload.Run(cmd.Context(), sess.cfg.Workload, sess.deps())

	encodeErr := report.Encode(cmd.OutOrStdout(), rep, format)

	printVerdict(cmd, runErr)

	return errors.Join(runErr, encodeErr, sess.close(cmd.Context()))
}

// applyWorkloadFlags copies the workload flags the user set explicitly into cfg.
func applyWorkloadFlags(cmd *cobra.Command, cfg *config.Config, seed int64, ops, keys int) {
	if cmd.Flags().Changed("seed") {
		cfg.Workload.Seed = seed
	}

	if cmd.Flags().Changed("ops") {
		cfg.Workload.Operations = ops
	}

	if cmd.Flags().Changed("keys") {
		cfg.Workload.KeySpace = keys
	}
}

func printVerdict(cmd *cobra.Command, err error) {
	if err != nil {
		color.New(color.FgRed, color.Bold).Fprintf(cmd.ErrOrStderr(), "FAIL %v\n", err)

		return
	}

	color.New(color.FgGreen, color.Bold).Fprintln(cmd.ErrOrStderr(), "OK   tree matched the oracle at every step")
}
