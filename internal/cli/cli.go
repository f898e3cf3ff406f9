package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/symtower/pkg/buildinfo"
	"github.com/matzehuels/symtower/pkg/config"
	symerr "github.com/matzehuels/symtower/pkg/errors"
	symio "github.com/matzehuels/symtower/pkg/io"
	"github.com/matzehuels/symtower/pkg/model"
	"github.com/matzehuels/symtower/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "symtower"

	// configFile is the name of the default configuration file.
	configFile = "config.toml"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "Symtower detects and exploits symmetry in mixed-integer programs",
		Long: `Symtower detects the symmetry group of a mixed-integer program, derives
symmetry-breaking constraints from it and replays orbital fixing along a
branching path.

Models are read from TOML, YAML or JSON files.`,
		Version:      buildinfo.Get().Version,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
		},
	}

	root.SetVersionTemplate(buildinfo.Template())

	// Register all subcommands
	root.AddCommand(c.detectCommand())
	root.AddCommand(c.orbitsCommand())
	root.AddCommand(c.breakCommand())
	root.AddCommand(c.propagateCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.inspectCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.versionCommand())
	root.AddCommand(c.completionCommand())
	registerCompletions(root)

	return root
}

// versionCommand prints the build information.
func (c *CLI) versionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), buildinfo.String())
		},
	}
}

// =============================================================================
// Runner Helpers
// =============================================================================

// loadModel reads a model file and logs its size.
func (c *CLI) loadModel(path string) (*model.Model, error) {
	m, err := symio.ImportModel(path)
	if err != nil {
		return nil, fmt.Errorf("load model %s: %w", path, err)
	}
	_, nbin := m.ActiveVars()
	c.Logger.Debug("loaded model", "name", m.Name, "vars", m.NumVars(), "binaries", nbin, "constraints", len(m.Constraints))
	return m, nil
}

// run loads the model at path and executes one pipeline run with a
// spinner. The spinner is skipped when the logger is at debug level.
func (c *CLI) run(ctx context.Context, path string, opts pipeline.Options) (*pipeline.Result, error) {
	m, err := c.loadModel(path)
	if err != nil {
		return nil, err
	}

	opts.Symmetry.Logger = c.Logger

	var spinner *Spinner
	if c.Logger.GetLevel() > log.DebugLevel {
		spinner = newSpinnerWithContext(ctx, fmt.Sprintf("Analyzing %s...", m.Name))
		spinner.Start()
	}

	prog := newProgress(c.Logger)
	res, err := pipeline.NewRunner(c.Logger).Execute(ctx, m, opts)
	if err != nil {
		if spinner != nil {
			spinner.StopWithError("Analysis failed")
		}
		return nil, err
	}
	if spinner != nil {
		spinner.Stop()
	}
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	prog.done(fmt.Sprintf("Analyzed %s", m.Name))
	return res, nil
}

// =============================================================================
// Paths
// =============================================================================

// configDir returns the config directory using XDG standard (~/.config/symtower/).
func configDir() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName), nil
}

// loadConfig reads path, or the default config file when path is empty.
// A missing default file yields the built-in defaults.
func loadConfig(path string) (config.Config, error) {
	if path != "" {
		return config.Load(path)
	}
	dir, err := configDir()
	if err != nil {
		return config.Default(), nil
	}
	cfg, err := config.Load(filepath.Join(dir, configFile))
	if symerr.Is(err, symerr.ErrCodeFileNotFound) {
		return config.Default(), nil
	}
	return cfg, err
}
