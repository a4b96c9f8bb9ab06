package commands

import (
	"errors"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/rbtree/pkg/workload"
)

// ErrScenarioFailed is returned when at least one scenario step fails.
var ErrScenarioFailed = errors.New("scenario failed")

// NewScenarioCommand creates the scenario command.
func NewScenarioCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "scenario",
		Short: "Replay the reference insert/delete/GetOrInsert scenario",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			steps := workload.Scenario()

			pass := color.New(color.FgGreen, color.Bold)
			fail := color.New(color.FgRed, color.Bold)
			out := cmd.OutOrStdout()

			for _, step := range steps {
				if step.OK {
					pass.Fprint(out, "PASS")
				} else {
					fail.Fprint(out, "FAIL")
				}

				fmt.Fprintf(out, " %-40s expected %-16s got %s\n",
					step.Description, step.Expected, step.Actual)
			}

			if !workload.Passed(steps) {
				return ErrScenarioFailed
			}

			return nil
		},
	}
}
