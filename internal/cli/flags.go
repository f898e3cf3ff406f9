package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/symtower/pkg/config"
	"github.com/matzehuels/symtower/pkg/symmetry"
)

// symmetryFlags holds the flags shared by every command that runs a
// session. Flags override values from the config file only when they are
// set on the command line.
type symmetryFlags struct {
	config        string
	maxGenerators int
	check         bool
	noOrbitopes   bool
	subgroups     bool
	weak          bool
	symresacks    bool
	compress      bool
	timing        int
	usage         string
	strict        bool
	presolve      bool
}

// register adds the flags to cmd.
func (f *symmetryFlags) register(cmd *cobra.Command) {
	def := symmetry.DefaultOptions()
	fl := cmd.Flags()
	fl.StringVarP(&f.config, "config", "c", "", "config file (default: ~/.config/symtower/config.toml)")
	fl.IntVar(&f.maxGenerators, "max-generators", def.MaxGenerators, "maximum number of generators (0 = no limit)")
	fl.BoolVar(&f.check, "check", false, "verify every generator against the model")
	fl.BoolVar(&f.noOrbitopes, "no-orbitopes", false, "disable orbitope detection")
	fl.BoolVar(&f.subgroups, "subgroups", def.DetectSubgroups, "detect symmetric subgroups")
	fl.BoolVar(&f.weak, "weak", def.AddWeakConss, "add weak symmetry-breaking inequalities")
	fl.BoolVar(&f.symresacks, "symresacks", def.AddSymresacks, "add symresack constraints")
	fl.BoolVar(&f.compress, "compress", def.Compress, "compress the group to the moved variables")
	fl.IntVar(&f.timing, "timing", def.AddConssTiming, "when to compute symmetry: 0 before, 1 during, 2 after presolving")
	fl.StringVar(&f.usage, "usage", "both", "symmetry handling: none, constraints, of, both")
	fl.BoolVar(&f.strict, "strict", def.StrictFixings, "assume global fixings respect the symmetries")
	fl.BoolVar(&f.presolve, "presolve", false, "run orbital fixing while presolving")
}

// options loads the config file and applies the flags that were set.
func (f *symmetryFlags) options(cmd *cobra.Command) (config.Config, error) {
	cfg, err := loadConfig(f.config)
	if err != nil {
		return config.Config{}, err
	}
	if err := f.apply(cmd, &cfg.Symmetry); err != nil {
		return config.Config{}, err
	}
	if err := cfg.Symmetry.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

func (f *symmetryFlags) apply(cmd *cobra.Command, o *symmetry.Options) error {
	fl := cmd.Flags()
	if fl.Changed("max-generators") {
		o.MaxGenerators = f.maxGenerators
	}
	if fl.Changed("check") {
		o.CheckSymmetries = f.check
	}
	if fl.Changed("no-orbitopes") {
		o.DetectOrbitopes = !f.noOrbitopes
	}
	if fl.Changed("subgroups") {
		o.DetectSubgroups = f.subgroups
	}
	if fl.Changed("weak") {
		o.AddWeakConss = f.weak
	}
	if fl.Changed("symresacks") {
		o.AddSymresacks = f.symresacks
	}
	if fl.Changed("compress") {
		o.Compress = f.compress
	}
	if fl.Changed("timing") {
		o.AddConssTiming = f.timing
		o.OrbitalFixingTiming = f.timing
	}
	if fl.Changed("usage") {
		u, err := symmetry.ParseUsage(f.usage)
		if err != nil {
			return err
		}
		o.Usage = u
	}
	if fl.Changed("strict") {
		o.StrictFixings = f.strict
	}
	if fl.Changed("presolve") {
		o.PerformPresolving = f.presolve
	}
	return nil
}
