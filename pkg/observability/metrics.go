package observability

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Conjugation outcomes.
const (
	OutcomeOK            = "ok"
	OutcomeNotApplicable = "not_applicable"
	OutcomeError         = "error"
)

// Metrics groups the engine collectors.
type Metrics struct {
	Registry *prometheus.Registry

	conjugations    *prometheus.CounterVec
	conjugationTime prometheus.Histogram
	cacheLookups    *prometheus.CounterVec
	compileTime     prometheus.Histogram
	ruleStates      *prometheus.GaugeVec
}

// NewMetrics creates the collectors on a fresh registry, together with the Go runtime
// and process collectors.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		Registry: reg,
		conjugations: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "katsuyo_conjugations_total",
			Help: "Total number of conjugated forms by cell and outcome",
		}, []string{"cell", "outcome"}),
		conjugationTime: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "katsuyo_conjugation_duration_seconds",
			Help:    "Duration of a single cell conjugation",
			Buckets: prometheus.ExponentialBuckets(0.0001, 2, 14), // 0.1ms to ~800ms
		}),
		cacheLookups: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "katsuyo_cache_lookups_total",
			Help: "Form cache lookups by result",
		}, []string{"result"}),
		compileTime: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "katsuyo_rule_compile_duration_seconds",
			Help:    "Duration of rewrite rule compilation",
			Buckets: prometheus.ExponentialBuckets(0.0001, 2, 16),
		}),
		ruleStates: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "katsuyo_rule_states",
			Help: "Number of states of each compiled rule",
		}, []string{"rule"}),
	}
}

// ObserveConjugation records one conjugated cell.
func (m *Metrics) ObserveConjugation(cell, outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.conjugations.WithLabelValues(cell, outcome).Inc()
	m.conjugationTime.Observe(elapsed.Seconds())
}

// ObserveCache records a cache lookup.
func (m *Metrics) ObserveCache(hit bool) {
	if m == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.cacheLookups.WithLabelValues(result).Inc()
}

// ObserveCompile records a compiled rule. Its signature matches grammar.CompileFunc.
func (m *Metrics) ObserveCompile(rule string, states int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.compileTime.Observe(elapsed.Seconds())
	m.ruleStates.WithLabelValues(rule).Set(float64(states))
}

// Handler exposes the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})
}
