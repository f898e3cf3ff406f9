package cli

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/symtower/pkg/pipeline"
)

// inspectCommand creates the inspect command for browsing components.
func (c *CLI) inspectCommand() *cobra.Command {
	var (
		flags       symmetryFlags
		interactive bool
	)

	cmd := &cobra.Command{
		Use:   "inspect [model]",
		Short: "Inspect the components of the symmetry group",
		Long: `Inspect the components of the symmetry group.

Lists every component with its variables, generators and the constraints
synthesized for it. With -i an interactive browser opens instead.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.options(cmd)
			if err != nil {
				return err
			}
			return c.runInspect(cmd.Context(), args[0], pipeline.Options{Symmetry: cfg.Symmetry}, interactive)
		},
	}

	flags.register(cmd)
	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "browse components interactively")

	return cmd
}

func (c *CLI) runInspect(ctx context.Context, input string, opts pipeline.Options, interactive bool) error {
	res, err := c.run(ctx, input, opts)
	if err != nil {
		return err
	}

	r := res.Report
	if r.Disabled != "" {
		printWarning("Symmetry handling disabled: %s", r.Disabled)
		return nil
	}

	if interactive {
		p := tea.NewProgram(NewComponentListModel(r), tea.WithContext(ctx))
		_, err := p.Run()
		return err
	}

	if len(r.Components) == 0 {
		printInfo("No components")
		return nil
	}
	model := NewComponentListModel(r)
	rows := make([][]string, len(r.Components))
	for i, comp := range r.Components {
		blocked := ""
		if comp.Blocked {
			blocked = "yes"
		}
		rows[i] = []string{
			fmt.Sprint(comp.Index),
			fmt.Sprint(len(comp.Vars)),
			fmt.Sprint(len(comp.Generators)),
			blocked,
			fmt.Sprint(len(model.constraints[comp.Index])),
			truncateVars(comp.Vars, maxListedVars),
		}
	}
	printSuccess("%d components", len(r.Components))
	printTable([]string{"#", "Vars", "Gens", "Blocked", "Conss", "Variables"}, rows)
	printNewline()
	printNextStep("Browse interactively", "symtower inspect -i "+input)
	return nil
}
