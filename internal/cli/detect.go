package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	symio "github.com/matzehuels/symtower/pkg/io"
	"github.com/matzehuels/symtower/pkg/pipeline"
)

// detectCommand creates the detect command.
func (c *CLI) detectCommand() *cobra.Command {
	var (
		flags  symmetryFlags
		output string
	)

	cmd := &cobra.Command{
		Use:   "detect [model]",
		Short: "Detect the symmetry group of a model",
		Long: `Detect the symmetry group of a model and print its statistics.

The full session runs: symmetry is computed, symmetry-breaking constraints
are synthesized and the statistics of every stage are reported. With
--report the complete report (generators, orbits, components, constraints)
is written to a TOML, YAML or JSON file.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.options(cmd)
			if err != nil {
				return err
			}
			return c.runDetect(cmd.Context(), args[0], pipeline.Options{Symmetry: cfg.Symmetry}, output)
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&output, "report", "o", "", "write the report to this file (.toml, .yaml or .json)")

	return cmd
}

func (c *CLI) runDetect(ctx context.Context, input string, opts pipeline.Options, output string) error {
	res, err := c.run(ctx, input, opts)
	if err != nil {
		return err
	}

	r := res.Report
	if r.Disabled != "" {
		printWarning("Symmetry handling disabled: %s", r.Disabled)
	} else {
		printSuccess("Detected %d generators", r.Stats.Generators)
	}
	printSummary(
		fmt.Sprintf("%d orbits", len(r.Orbits)),
		fmt.Sprintf("%d components", len(r.Components)),
		fmt.Sprintf("%d constraints", len(r.Constraints)),
	)
	printNewline()
	printRows(r.Stats.Rows())

	if output != "" {
		if err := symio.ExportReport(r, output); err != nil {
			return fmt.Errorf("write report %s: %w", output, err)
		}
		printNewline()
		printFile(output)
	}

	if r.Disabled == "" && len(r.Components) > 0 {
		printNewline()
		printNextStep("Browse components", "symtower inspect -i "+input)
	}
	return nil
}

// orbitsCommand creates the orbits command.
func (c *CLI) orbitsCommand() *cobra.Command {
	var flags symmetryFlags

	cmd := &cobra.Command{
		Use:   "orbits [model]",
		Short: "Print the orbits of the symmetry group",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.options(cmd)
			if err != nil {
				return err
			}
			return c.runOrbits(cmd.Context(), args[0], pipeline.Options{Symmetry: cfg.Symmetry})
		},
	}

	flags.register(cmd)
	return cmd
}

func (c *CLI) runOrbits(ctx context.Context, input string, opts pipeline.Options) error {
	res, err := c.run(ctx, input, opts)
	if err != nil {
		return err
	}

	r := res.Report
	if r.Disabled != "" {
		printWarning("Symmetry handling disabled: %s", r.Disabled)
		return nil
	}
	if len(r.Orbits) == 0 {
		printInfo("No non-trivial orbits")
		return nil
	}

	rows := make([][]string, len(r.Orbits))
	for i, orbit := range r.Orbits {
		rows[i] = []string{fmt.Sprint(i), fmt.Sprint(len(orbit)), strings.Join(orbit, " ")}
	}
	printSuccess("%d orbits", len(r.Orbits))
	printTable([]string{"#", "Size", "Variables"}, rows)
	return nil
}
