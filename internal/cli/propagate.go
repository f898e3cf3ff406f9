package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/symtower/pkg/pipeline"
	"github.com/matzehuels/symtower/pkg/symmetry"
)

// propagateCommand creates the propagate command, which replays a branching
// path and reports the orbital fixings at every node.
func (c *CLI) propagateCommand() *cobra.Command {
	var (
		flags    symmetryFlags
		fixes    []string
		branches []string
	)

	cmd := &cobra.Command{
		Use:   "propagate [model]",
		Short: "Replay a branching path with orbital fixing",
		Long: `Replay a branching path with orbital fixing.

Each --branch creates a child of the previous node that sets one binary
variable; orbital fixing runs at every new node. --fix applies global
fixings while presolving. Fixings are only seen by orbital fixing when
symmetry is computed first (--timing 0), and are propagated with --presolve.

Example:
  symtower propagate model.toml --branch x1=0 --branch x4=1`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.options(cmd)
			if err != nil {
				return err
			}
			cfg.Symmetry.Usage |= symmetry.UsageOrbitalFixing

			opts := pipeline.Options{Symmetry: cfg.Symmetry}
			if opts.Fixings, err = pipeline.ParseAssignments(fixes); err != nil {
				return err
			}
			if opts.Branchings, err = pipeline.ParseAssignments(branches); err != nil {
				return err
			}
			return c.runPropagate(cmd.Context(), args[0], opts)
		},
	}

	flags.register(cmd)
	cmd.Flags().StringArrayVar(&fixes, "fix", nil, "global fixing name=0|1 (repeatable)")
	cmd.Flags().StringArrayVarP(&branches, "branch", "b", nil, "branching decision name=0|1 (repeatable)")

	return cmd
}

func (c *CLI) runPropagate(ctx context.Context, input string, opts pipeline.Options) error {
	res, err := c.run(ctx, input, opts)
	if err != nil {
		return err
	}

	r := res.Report
	if r.Disabled != "" {
		printWarning("Symmetry handling disabled: %s", r.Disabled)
	}
	if len(opts.Fixings) > 0 {
		printInfo("Presolve: %d fixed to 0, %d fixed to 1", res.Presolve.NFixedZero, res.Presolve.NFixedOne)
		if len(r.FixedZero) > 0 {
			printDetail("globally 0: %s", strings.Join(r.FixedZero, " "))
		}
		if len(r.FixedOne) > 0 {
			printDetail("globally 1: %s", strings.Join(r.FixedOne, " "))
		}
	}

	if len(res.Steps) == 0 {
		printInfo("No branching decisions")
		return nil
	}

	rows := make([][]string, len(res.Steps))
	for i, st := range res.Steps {
		status := "-"
		switch {
		case st.Result.Cutoff:
			status = "cutoff"
		case st.Result.Ran:
			status = fmt.Sprintf("%d active", st.Result.NActive)
		}
		rows[i] = []string{
			fmt.Sprint(st.Node),
			st.Assignment.String(),
			fmt.Sprint(st.Result.NFixedZero),
			fmt.Sprint(st.Result.NFixedOne),
			status,
		}
	}
	printSuccess("Replayed %d of %d decisions", len(res.Steps), len(opts.Branchings))
	printTable([]string{"Node", "Branch", "Fixed 0", "Fixed 1", "Generators"}, rows)
	printRows(propagationRows(r.Stats))
	return nil
}

// propagationRows keeps the orbital fixing rows of the session statistics.
func propagationRows(st symmetry.Stats) [][2]string {
	var out [][2]string
	for _, row := range st.Rows() {
		switch row[0] {
		case "propagation calls", "fixed to 0", "fixed to 1", "cutoffs":
			out = append(out, row)
		}
	}
	return out
}
