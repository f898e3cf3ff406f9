package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/symtower/pkg/pipeline"
	"github.com/matzehuels/symtower/pkg/render"
)

// renderCommand creates the render command for drawing the symmetry
// structure of a model.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		flags      symmetryFlags
		output     string
		formatsStr string
		drawOpts   render.Options
	)

	cmd := &cobra.Command{
		Use:   "render [model]",
		Short: "Render the symmetry structure to DOT, SVG, PNG or PDF",
		Long: `Render the symmetry structure of a model.

Variables are drawn grouped by component. Each generator is drawn as its
cycles (default) or, with --generators, as a node linked to the variables it
moves. Blocked components are dashed.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.options(cmd)
			if err != nil {
				return err
			}
			opts := pipeline.Options{
				Symmetry: cfg.Symmetry,
				Formats:  parseFormats(formatsStr),
				Render:   drawOpts,
			}
			if err := pipeline.ValidateFormats(opts.Formats); err != nil {
				return err
			}
			return c.runRender(cmd.Context(), args[0], opts, output)
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), dot, png, pdf (comma-separated)")
	cmd.Flags().BoolVar(&drawOpts.Generators, "generators", false, "draw generators as nodes")
	cmd.Flags().BoolVar(&drawOpts.Constraints, "constraints", false, "list constraints in component labels")

	return cmd
}

// parseFormats parses the --format flag into a slice of output formats.
// If empty, defaults to ["svg"].
func parseFormats(s string) []string {
	if s == "" {
		return []string{pipeline.FormatSVG}
	}
	return strings.Split(s, ",")
}

// basePath derives the base output path from the output and input file paths.
// If output is empty, it strips the extension from input.
// If output has a format extension (.svg, .pdf, etc.), it strips that extension.
func basePath(output, input string) string {
	if output == "" {
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	ext := filepath.Ext(output)
	if pipeline.ValidFormats[strings.TrimPrefix(ext, ".")] {
		return strings.TrimSuffix(output, ext)
	}
	return output
}

// outputPath returns the file for format. A single format written to an
// explicit output keeps that name.
func outputPath(output, input, format string, single bool) string {
	if single && output != "" {
		return output
	}
	return basePath(output, input) + "." + format
}

func (c *CLI) runRender(ctx context.Context, input string, opts pipeline.Options, output string) error {
	res, err := c.run(ctx, input, opts)
	if err != nil {
		return err
	}
	if res.Report.Disabled != "" {
		printWarning("Symmetry handling disabled: %s", res.Report.Disabled)
	}

	single := len(opts.Formats) == 1
	var written []string
	for _, format := range opts.Formats {
		path := outputPath(output, input, format, single)
		if err := os.WriteFile(path, res.Artifacts[format], 0o644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		written = append(written, path)
	}

	printSuccess("Rendered %d components", len(res.Report.Components))
	for _, p := range written {
		printFile(p)
	}
	return nil
}
