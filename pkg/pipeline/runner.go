package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	symio "github.com/matzehuels/symtower/pkg/io"
	"github.com/matzehuels/symtower/pkg/model"
	"github.com/matzehuels/symtower/pkg/orbital"
	"github.com/matzehuels/symtower/pkg/symmetry"
	"github.com/matzehuels/symtower/pkg/tree"
)

// Runner executes runs. It keeps no state between runs, so multiple
// goroutines can safely share one Runner.
type Runner struct {
	Logger *log.Logger
}

// NewRunner creates a runner. If logger is nil, log.Default() is used.
func NewRunner(logger *log.Logger) *Runner {
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Logger: logger}
}

// Execute runs a full session on m. The returned Result owns a fresh
// session, host and constraint store.
func (r *Runner) Execute(ctx context.Context, m *model.Model, opts Options) (*Result, error) {
	if err := opts.Validate(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	host := tree.New(m)
	store := &tree.Store{}

	symOpts := opts.Symmetry
	symOpts.Notifier = host
	if symOpts.Logger == nil {
		symOpts.Logger = r.Logger
	}
	s, err := symmetry.NewSession(m, symOpts)
	if err != nil {
		return nil, err
	}

	res := &Result{Model: m, Session: s, Tree: host, Store: store}

	// Stage 1: Init
	start := time.Now()
	if err := s.InitPresolve(ctx, store); err != nil {
		return nil, fmt.Errorf("init presolve: %w", err)
	}

	// Stage 2: Presolving
	host.SetStage(orbital.StagePresolving)
	for _, a := range opts.Fixings {
		v, _, value, err := a.resolve(m)
		if err != nil {
			return nil, fmt.Errorf("fixing %s: %w", a, err)
		}
		if err := host.Fix(v, value); err != nil {
			return nil, fmt.Errorf("fixing %s: %w", a, err)
		}
	}
	res.Presolve, err = s.Presolve(ctx, host, store)
	if err != nil {
		return nil, fmt.Errorf("presolve: %w", err)
	}
	if err := s.ExitPresolve(ctx, store); err != nil {
		return nil, fmt.Errorf("exit presolve: %w", err)
	}
	r.Logger.Debug("presolved",
		"model", m.Name,
		"constraints", store.Len(),
		"fixed0", res.Presolve.NFixedZero,
		"fixed1", res.Presolve.NFixedOne,
		"duration", time.Since(start))

	// Stage 3: Solving
	host.SetStage(orbital.StageSolving)
	for _, a := range opts.Branchings {
		step, err := r.branch(ctx, s, host, m, a)
		if err != nil {
			return nil, err
		}
		res.Steps = append(res.Steps, step)
		if step.Result.Cutoff {
			r.Logger.Info("node cut off", "node", step.Node, "branch", a.String())
			break
		}
	}

	res.Report = symio.NewReport(m, s, store.Constraints())
	if len(opts.Formats) > 0 {
		res.Artifacts, err = Render(res.Report, opts)
		if err != nil {
			return nil, fmt.Errorf("render: %w", err)
		}
	}

	r.Logger.Info("session complete",
		"model", m.Name,
		"generators", res.Report.Stats.Generators,
		"constraints", store.Len(),
		"steps", len(res.Steps),
		"duration", time.Since(start))
	return res, nil
}

func (r *Runner) branch(ctx context.Context, s *symmetry.Session, host *tree.Tree, m *model.Model, a Assignment) (Step, error) {
	v, bt, bound, err := a.resolve(m)
	if err != nil {
		return Step{}, fmt.Errorf("branching %s: %w", a, err)
	}
	node, err := host.Branch(v, bt, bound)
	if err != nil {
		return Step{}, fmt.Errorf("branching %s: %w", a, err)
	}
	out, err := s.Propagate(ctx, host)
	if err != nil {
		return Step{}, fmt.Errorf("propagate at node %d: %w", node.ID, err)
	}
	r.Logger.Debug("propagated",
		"node", node.ID,
		"branch", a.String(),
		"fixed0", out.NFixedZero,
		"fixed1", out.NFixedOne,
		"cutoff", out.Cutoff)
	return Step{Assignment: a, Node: node.ID, Result: out}, nil
}
