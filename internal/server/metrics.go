package server

import (
	"context"
	"net/http"
	"strconv"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	symerr "github.com/matzehuels/symtower/pkg/errors"
	"github.com/matzehuels/symtower/pkg/observability"
)

const namespace = "symtower"

// Metrics collects Prometheus metrics for symmetry sessions and HTTP
// requests. It implements both observability.SymmetryHooks and
// observability.HTTPHooks.
type Metrics struct {
	Computations    *prom.CounterVec
	ComputeDuration prom.Histogram
	Generators      prom.Histogram
	Propagations    *prom.CounterVec
	Fixings         *prom.CounterVec
	Constraints     *prom.CounterVec
	Requests        *prom.CounterVec
	RequestDuration *prom.HistogramVec
	RequestErrors   *prom.CounterVec
	registry        *prom.Registry
}

var (
	_ observability.SymmetryHooks = (*Metrics)(nil)
	_ observability.HTTPHooks     = (*Metrics)(nil)
)

// NewMetrics creates the collectors and registers them on a private
// registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		Computations: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "computations_total",
			Help:      "Symmetry computations by result (ok, disabled, error).",
		}, []string{"result"}),
		ComputeDuration: prom.NewHistogram(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "compute_duration_seconds",
			Help:      "Time spent computing symmetry.",
			Buckets:   prom.ExponentialBuckets(0.001, 4, 8),
		}),
		Generators: prom.NewHistogram(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "generators",
			Help:      "Generators found per computation.",
			Buckets:   []float64{0, 1, 2, 5, 10, 20, 50, 100, 500},
		}),
		Propagations: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "propagations_total",
			Help:      "Orbital fixing calls by outcome.",
		}, []string{"cutoff"}),
		Fixings: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "fixings_total",
			Help:      "Variables fixed by orbital fixing.",
		}, []string{"value"}),
		Constraints: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "constraints_total",
			Help:      "Symmetry-breaking constraints added by kind.",
		}, []string{"kind"}),
		Requests: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route and status.",
		}, []string{"method", "route", "status"}),
		RequestDuration: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency.",
			Buckets:   prom.DefBuckets,
		}, []string{"method", "route"}),
		RequestErrors: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "http_request_errors_total",
			Help:      "Failed HTTP requests by error code.",
		}, []string{"code"}),
		registry: prom.NewRegistry(),
	}
	m.registry.MustRegister(m)
	return m
}

// Describe implements prom.Collector.
func (m *Metrics) Describe(ch chan<- *prom.Desc) {
	for _, c := range m.collectors() {
		c.Describe(ch)
	}
}

// Collect implements prom.Collector.
func (m *Metrics) Collect(ch chan<- prom.Metric) {
	for _, c := range m.collectors() {
		c.Collect(ch)
	}
}

func (m *Metrics) collectors() []prom.Collector {
	return []prom.Collector{
		m.Computations, m.ComputeDuration, m.Generators,
		m.Propagations, m.Fixings, m.Constraints,
		m.Requests, m.RequestDuration, m.RequestErrors,
	}
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) OnComputeStart(context.Context, string, int) {}

func (m *Metrics) OnComputeComplete(_ context.Context, _ string, generators int, _ float64, d time.Duration, err error) {
	m.ComputeDuration.Observe(d.Seconds())
	switch {
	case err == nil:
		m.Computations.WithLabelValues("ok").Inc()
		m.Generators.Observe(float64(generators))
	case symerr.IsSoftDisable(err):
		m.Computations.WithLabelValues("disabled").Inc()
	default:
		m.Computations.WithLabelValues("error").Inc()
	}
}

func (m *Metrics) OnPropagate(_ context.Context, fixedZero, fixedOne int, cutoff bool, _ time.Duration) {
	m.Propagations.WithLabelValues(strconv.FormatBool(cutoff)).Inc()
	m.Fixings.WithLabelValues("0").Add(float64(fixedZero))
	m.Fixings.WithLabelValues("1").Add(float64(fixedOne))
}

func (m *Metrics) OnSynthesize(_ context.Context, kind string, count int) {
	m.Constraints.WithLabelValues(kind).Add(float64(count))
}

func (m *Metrics) OnRequest(context.Context, string, string) {}

func (m *Metrics) OnResponse(_ context.Context, method, route string, status int, d time.Duration) {
	m.Requests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.RequestDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

func (m *Metrics) OnError(_ context.Context, _, _ string, err error) {
	code := string(symerr.GetCode(err))
	if code == "" {
		code = "UNKNOWN"
	}
	m.RequestErrors.WithLabelValues(code).Inc()
}
