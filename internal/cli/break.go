package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	symio "github.com/matzehuels/symtower/pkg/io"
	"github.com/matzehuels/symtower/pkg/pipeline"
	"github.com/matzehuels/symtower/pkg/symmetry"
)

// breakCommand creates the break command for synthesizing
// symmetry-breaking constraints.
func (c *CLI) breakCommand() *cobra.Command {
	var (
		flags  symmetryFlags
		output string
	)

	cmd := &cobra.Command{
		Use:   "break [model]",
		Short: "Synthesize symmetry-breaking constraints",
		Long: `Synthesize symmetry-breaking constraints for a model.

Orbitopes are detected per component first, then symmetric subgroups, and
symresacks cover the generators that remain. The constraints are printed
and, with --output, written together with the rest of the report.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.options(cmd)
			if err != nil {
				return err
			}
			cfg.Symmetry.Usage |= symmetry.UsageConstraints
			return c.runBreak(cmd.Context(), args[0], pipeline.Options{Symmetry: cfg.Symmetry}, output)
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "", "write constraints to this file (.toml, .yaml or .json)")

	return cmd
}

func (c *CLI) runBreak(ctx context.Context, input string, opts pipeline.Options, output string) error {
	res, err := c.run(ctx, input, opts)
	if err != nil {
		return err
	}

	r := res.Report
	if r.Disabled != "" {
		printWarning("Symmetry handling disabled: %s", r.Disabled)
		return nil
	}
	if len(r.Constraints) == 0 {
		printInfo("No symmetry-breaking constraints")
		return nil
	}

	printSuccess("%d constraints", len(r.Constraints))
	printSummary(
		fmt.Sprintf("%d orbitopes", r.Stats.Orbitopes),
		fmt.Sprintf("%d symresacks", r.Stats.Symresacks),
		fmt.Sprintf("%d weak inequalities", r.Stats.WeakInequalities),
	)
	rows := make([][]string, len(r.Constraints))
	for i, cons := range r.Constraints {
		rows[i] = []string{cons.Kind, cons.Name, fmt.Sprint(cons.Component), describeConstraint(cons)}
	}
	printTable([]string{"Kind", "Name", "Component", "Shape"}, rows)

	if output != "" {
		if err := symio.ExportReport(r, output); err != nil {
			return fmt.Errorf("write constraints %s: %w", output, err)
		}
		printFile(output)
	}
	return nil
}

// describeConstraint summarizes the shape of a constraint in one line.
func describeConstraint(c symio.ConstraintRecord) string {
	switch {
	case len(c.Rows) > 0:
		shape := fmt.Sprintf("%d x %d", len(c.Rows), len(c.Rows[0]))
		if c.Subgroup {
			shape += " (subgroup)"
		}
		return shape
	case c.Generator != nil:
		return fmt.Sprintf("g%d on %d vars", *c.Generator, len(c.Support))
	case c.Rep != "":
		return fmt.Sprintf("%s >= %s", c.Rep, strings.Join(c.Others, ", "))
	}
	return ""
}
