// Package metrics exposes run counters as Prometheus metrics, either over
// HTTP or as a node exporter textfile for one shot CLI runs.
package metrics

import (
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"sort"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	dto "github.com/prometheus/client_model/go"
	"github.com/prometheus/common/expfmt"
	"github.com/prometheus/common/model"
)

const namespace = "digestius"

// Outcome labels of the documents counter
const (
	OutcomeSummarized = "summarized"
	OutcomeSkipped    = "skipped"
	OutcomeFailed     = "failed"
)

// Metrics holds the collectors of a process
type Metrics struct {
	registry  *prometheus.Registry
	documents *prometheus.CounterVec
	tokens    *prometheus.GaugeVec
	runs      *prometheus.CounterVec
	duration  *prometheus.HistogramVec
}

// New creates collectors registered on a private registry
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		documents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "documents_total",
			Help:      "Documents processed per kind, tier and outcome.",
		}, []string{"kind", "tier", "outcome"}),
		tokens: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "tier_tokens",
			Help:      "Estimated tokens of the last artifact per kind and tier.",
		}, []string{"kind", "tier"}),
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "runs_total",
			Help:      "Summarization runs per corpus kind.",
		}, []string{"kind"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "run_duration_seconds",
			Help:      "Duration of summarization runs.",
			Buckets:   prometheus.ExponentialBuckets(0.01, 4, 8),
		}, []string{"kind"}),
	}
	m.registry.MustRegister(m.documents, m.tokens, m.runs, m.duration)
	return m
}

// ObserveTier records the outcome counts of one tier artifact
func (m *Metrics) ObserveTier(kind, tier string, summarized, skipped, failed, tokens int) {
	m.documents.WithLabelValues(kind, tier, OutcomeSummarized).Add(float64(summarized))
	m.documents.WithLabelValues(kind, tier, OutcomeSkipped).Add(float64(skipped))
	m.documents.WithLabelValues(kind, tier, OutcomeFailed).Add(float64(failed))
	m.tokens.WithLabelValues(kind, tier).Set(float64(tokens))
}

// ObserveRun records a completed run
func (m *Metrics) ObserveRun(kind string, elapsed time.Duration) {
	m.runs.WithLabelValues(kind).Inc()
	m.duration.WithLabelValues(kind).Observe(elapsed.Seconds())
}

// WriteTextfile writes the registry to path atomically
func (m *Metrics) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, m.registry)
}

// ServeHandler exposes Go runtime and process collectors for a server that
// only reads digests. When textfile is set, the run metrics last written there
// by a summarize or watch process are served alongside.
func ServeHandler(textfile string) http.Handler {
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	gatherers := prometheus.Gatherers{registry}
	if textfile != "" {
		gatherers = append(gatherers, Textfile(textfile))
	}
	return promhttp.HandlerFor(gatherers, promhttp.HandlerOpts{})
}

// Textfile gathers the families of a textfile written by WriteTextfile.
// A missing file gathers nothing.
func Textfile(path string) prometheus.Gatherer {
	return prometheus.GathererFunc(func() ([]*dto.MetricFamily, error) {
		f, err := os.Open(path)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil, nil
			}
			return nil, err
		}
		defer f.Close()
		parser := expfmt.NewTextParser(model.UTF8Validation)
		byName, err := parser.TextToMetricFamilies(f)
		if err != nil {
			return nil, fmt.Errorf("parse metrics textfile %s: %w", path, err)
		}
		families := make([]*dto.MetricFamily, 0, len(byName))
		for _, family := range byName {
			families = append(families, family)
		}
		sort.Slice(families, func(i, j int) bool { return families[i].GetName() < families[j].GetName() })
		return families, nil
	})
}
