package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/symtower/pkg/buildinfo"
	"github.com/matzehuels/symtower/pkg/cache"
	symerr "github.com/matzehuels/symtower/pkg/errors"
	"github.com/matzehuels/symtower/pkg/httputil"
	symio "github.com/matzehuels/symtower/pkg/io"
	"github.com/matzehuels/symtower/pkg/observability"
	"github.com/matzehuels/symtower/pkg/orbital"
	"github.com/matzehuels/symtower/pkg/pipeline"
	"github.com/matzehuels/symtower/pkg/symmetry"
)

// Response is the body of a successful detect or break request.
type Response struct {
	RunID    string          `json:"run_id"`
	Report   *symio.Report   `json:"report"`
	Presolve orbital.Result  `json:"presolve"`
	Steps    []pipeline.Step `json:"steps,omitempty"`
	// DOT holds the diagram source when requested with dot=true.
	DOT      string `json:"dot,omitempty"`
	Duration string `json:"duration"`
	Cached   bool   `json:"cached,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	_ = httputil.WriteJSON(w, http.StatusOK, struct {
		Status string `json:"status"`
		buildinfo.Info
	}{"ok", buildinfo.Get()})
}

func (s *Server) handleDetect(w http.ResponseWriter, r *http.Request) {
	s.handleRun(w, r, 0)
}

func (s *Server) handleBreak(w http.ResponseWriter, r *http.Request) {
	s.handleRun(w, r, symmetry.UsageConstraints)
}

// handleRun runs one session on the posted model. force is or-ed into
// the requested usage.
func (s *Server) handleRun(w http.ResponseWriter, r *http.Request, force symmetry.Usage) {
	start := time.Now()
	ctx := r.Context()
	runID := runIDFromContext(ctx)
	logger := s.logger.With("run_id", runID)

	opts, err := s.parseOptions(r.URL.Query())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	opts.Symmetry.Usage |= force

	body, err := httputil.ReadBody(w, r, s.cfg.Server.MaxModelBytes)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	format := httputil.ModelFormat(r)

	key := cache.Key(r.URL.Path, body, struct {
		Format  symio.Format     `json:"format"`
		Options pipeline.Options `json:"options"`
	}{format, opts})
	if resp, ok := s.cached(ctx, key); ok {
		logger.Debug("cache hit", "key", key)
		resp.RunID = runID
		resp.Cached = true
		resp.Duration = time.Since(start).Round(time.Microsecond).String()
		_ = httputil.WriteJSON(w, http.StatusOK, resp)
		return
	}

	m, err := symio.ReadModel(bytes.NewReader(body), format)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	if timeout := time.Duration(s.cfg.Server.RequestTimeout); timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	opts.Symmetry.Logger = logger
	res, err := s.runner.Execute(ctx, m, opts)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	resp := Response{
		RunID:    runID,
		Report:   res.Report,
		Presolve: res.Presolve,
		Steps:    res.Steps,
		Duration: time.Since(start).Round(time.Microsecond).String(),
	}
	if dot, ok := res.Artifacts[pipeline.FormatDOT]; ok {
		resp.DOT = string(dot)
	}
	s.store(ctx, key, resp, logger)
	_ = httputil.WriteJSON(w, http.StatusOK, resp)
}

// cached looks key up. Cache failures count as misses.
func (s *Server) cached(ctx context.Context, key string) (Response, bool) {
	var resp Response
	data, hit, err := s.cache.Get(ctx, key)
	if err != nil || !hit {
		return resp, false
	}
	if err := json.Unmarshal(data, &resp); err != nil {
		return resp, false
	}
	return resp, true
}

func (s *Server) store(ctx context.Context, key string, resp Response, logger *log.Logger) {
	if !cache.Enabled(s.cache) {
		return
	}
	data, err := json.Marshal(resp)
	if err == nil {
		err = s.cache.Set(ctx, key, data, time.Duration(s.cfg.Server.CacheTTL))
	}
	if err != nil {
		logger.Warn("cache store failed", "err", err)
	}
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	observability.HTTP().OnError(r.Context(), r.Method, r.URL.Path, err)
	status := httputil.WriteError(w, err, runIDFromContext(r.Context()))
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "run_id", runIDFromContext(r.Context()), "err", err)
	}
}

// parseOptions builds run options from the server defaults and the query.
//
// Recognized parameters:
//
//	usage=none|constraints|of|both
//	max_generators=N  timing=0|1|2
//	check, orbitopes, subgroups, symresacks, weak, compress, presolve,
//	strict, generators, dot: booleans
//	fix=name=v, branch=name=v: repeatable
func (s *Server) parseOptions(q url.Values) (pipeline.Options, error) {
	opts := pipeline.Options{Symmetry: s.cfg.Symmetry}
	o := &opts.Symmetry

	if v := q.Get("usage"); v != "" {
		u, err := symmetry.ParseUsage(v)
		if err != nil {
			return opts, err
		}
		o.Usage = u
	}

	ints := []struct {
		name string
		dst  []*int
	}{
		{"max_generators", []*int{&o.MaxGenerators}},
		{"timing", []*int{&o.AddConssTiming, &o.OrbitalFixingTiming}},
	}
	for _, p := range ints {
		if v := q.Get(p.name); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				return opts, symerr.New(symerr.ErrCodeInvalidInput, "%s must be an integer, got %q", p.name, v)
			}
			for _, d := range p.dst {
				*d = n
			}
		}
	}

	bools := []struct {
		name string
		dst  *bool
	}{
		{"check", &o.CheckSymmetries},
		{"orbitopes", &o.DetectOrbitopes},
		{"subgroups", &o.DetectSubgroups},
		{"symresacks", &o.AddSymresacks},
		{"weak", &o.AddWeakConss},
		{"compress", &o.Compress},
		{"presolve", &o.PerformPresolving},
		{"strict", &o.StrictFixings},
		{"generators", &opts.Render.Generators},
	}
	for _, p := range bools {
		if v := q.Get(p.name); v != "" {
			b, err := strconv.ParseBool(v)
			if err != nil {
				return opts, symerr.New(symerr.ErrCodeInvalidInput, "%s must be a boolean, got %q", p.name, v)
			}
			*p.dst = b
		}
	}

	if v := q.Get("dot"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return opts, symerr.New(symerr.ErrCodeInvalidInput, "dot must be a boolean, got %q", v)
		}
		if b {
			opts.Formats = []string{pipeline.FormatDOT}
			opts.Render.Constraints = true
		}
	}

	var err error
	if opts.Fixings, err = pipeline.ParseAssignments(q["fix"]); err != nil {
		return opts, err
	}
	if opts.Branchings, err = pipeline.ParseAssignments(q["branch"]); err != nil {
		return opts, err
	}
	return opts, nil
}
