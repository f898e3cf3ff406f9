package cli

import (
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/symtower/pkg/pipeline"
)

var (
	modelExts     = []string{"toml", "yaml", "yml", "json"}
	usageChoices  = []string{"none", "constraints", "of", "both"}
	timingChoices = []string{"0\tbefore presolving", "1\tduring presolving", "2\tafter presolving"}
	renderFormats = []string{pipeline.FormatSVG, pipeline.FormatDOT, pipeline.FormatPNG, pipeline.FormatPDF}
)

// completionCommand prints a completion script for one shell.
func (c *CLI) completionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Print a completion script for symtower to stdout.

Completions cover subcommands, model files (.toml, .yaml, .yml, .json)
and the values of --usage, --timing and --format.

  bash        $ source <(symtower completion bash)
  zsh         $ symtower completion zsh > "${fpath[1]}/_symtower"
  fish        $ symtower completion fish > ~/.config/fish/completions/symtower.fish
  powershell  PS> symtower completion powershell | Out-String | Invoke-Expression

Start a new shell afterwards.`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			root := cmd.Root()
			switch args[0] {
			case "bash":
				return root.GenBashCompletionV2(os.Stdout, true)
			case "zsh":
				return root.GenZshCompletion(os.Stdout)
			case "fish":
				return root.GenFishCompletion(os.Stdout, true)
			case "powershell":
				return root.GenPowerShellCompletionWithDesc(os.Stdout)
			}
			return nil
		},
	}

	return cmd
}

// registerCompletions attaches model file completion to the subcommands
// of root that take a model argument, and value completion to the flags
// with a fixed set of values.
func registerCompletions(root *cobra.Command) {
	for _, cmd := range root.Commands() {
		if strings.HasSuffix(cmd.Use, "[model]") {
			cmd.ValidArgsFunction = completeModel
		}
		fixed(cmd, "usage", usageChoices)
		fixed(cmd, "timing", timingChoices)
		fixed(cmd, "format", renderFormats)
	}
}

func completeModel(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	return modelExts, cobra.ShellCompDirectiveFilterFileExt
}

// fixed completes flag name from a fixed list when cmd defines it.
func fixed(cmd *cobra.Command, name string, values []string) {
	if cmd.Flags().Lookup(name) == nil {
		return
	}
	_ = cmd.RegisterFlagCompletionFunc(name, func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return values, cobra.ShellCompDirectiveNoFileComp
	})
}
