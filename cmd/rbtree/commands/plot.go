package commands

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/rbtree/pkg/config"
	"github.com/Sumatoshi-tech/rbtree/pkg/report"
	"github.com/Sumatoshi-tech/rbtree/pkg/workload"
)

const (
	defaultPlotOutput = "rbtree-height.html"
	// plotPoints is the sample count used when the configuration disables sampling.
	plotPoints = 100
)

// PlotCommand holds the flags of the plot command.
type PlotCommand struct {
	configPath string
	output     string
	seed       int64
	ops        int
	keys       int
}

// NewPlotCommand creates the plot command.
func NewPlotCommand() *cobra.Command {
	pc := &PlotCommand{}

	cmd := &cobra.Command{
		Use:   "plot",
		Short: "Run a workload and chart tree height against 2*log2(n+1)",
		Args:  cobra.NoArgs,
		RunE:  pc.run,
	}

	cmd.Flags().StringVar(&pc.configPath, "config", "", "Configuration file (default: search for rbtree.yaml)")
	cmd.Flags().StringVarP(&pc.output, "output", "o", defaultPlotOutput, "HTML file to write")
	cmd.Flags().Int64Var(&pc.seed, "seed", config.DefaultSeed, "Random seed")
	cmd.Flags().IntVar(&pc.ops, "ops", config.DefaultOperations, "Number of operations")
	cmd.Flags().IntVar(&pc.keys, "keys", config.DefaultKeySpace, "Size of the key space")

	return cmd
}

func (pc *PlotCommand) run(cmd *cobra.Command, _ []string) error {
	sess, err := openSession(pc.configPath, cmd.ErrOrStderr(), func(cfg *config.Config) {
		applyWorkloadFlags(cmd, cfg, pc.seed, pc.ops, pc.keys)

		if cfg.Workload.SampleEvery == 0 {
			cfg.Workload.SampleEvery = max(1, cfg.Workload.Operations/plotPoints)
		}
	})
	if err != nil {
		return err
	}

	rep, err := workload.Run(cmd.Context(), sess.cfg.Workload, sess.deps())
	if err != nil {
		return errors.Join(err, sess.close(cmd.Context()))
	}

	err = writeChart(pc.output, rep.Samples)
	if err != nil {
		return errors.Join(err, sess.close(cmd.Context()))
	}

	fmt.Fprintf(cmd.OutOrStdout(), "wrote %d samples to %s\n", len(rep.Samples), pc.output)

	return sess.close(cmd.Context())
}

func writeChart(path string, samples []workload.HeightSample) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create chart file: %w", err)
	}

	err = report.RenderHeightChart(f, samples)

	closeErr := f.Close()
	if closeErr != nil && err == nil {
		return fmt.Errorf("close chart file: %w", closeErr)
	}

	return err
}
