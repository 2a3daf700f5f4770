// Package metrics exposes Prometheus metrics for document translation and
// augmentation.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/c360studio/pddls/augment"
	"github.com/c360studio/pddls/document"
)

const namespace = "pddls"

// Collector holds the pddls metrics on a private registry. It implements
// augment.Recorder.
type Collector struct {
	registry *prometheus.Registry

	documentsParsed     *prometheus.CounterVec
	axiomsDerived       prometheus.Counter
	axiomsRejected      prometheus.Counter
	unsupportedFormulas prometheus.Counter
	augmentations       prometheus.Counter
	augmentDuration     prometheus.Histogram
}

var _ augment.Recorder = (*Collector)(nil)

// NewCollector creates a collector with Go runtime and process metrics.
func NewCollector() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		documentsParsed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "documents_parsed_total",
			Help:      "Documents read, by kind and source format.",
		}, []string{"kind", "format"}),
		axiomsDerived: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "axioms_derived_total",
			Help:      "Axioms appended to augmented problems.",
		}),
		axiomsRejected: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "axioms_rejected_total",
			Help:      "Query rows dropped for referencing foreign objects.",
		}),
		unsupportedFormulas: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "unsupported_formulas_total",
			Help:      "Established-with values skipped as unsupported.",
		}),
		augmentations: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "augmentations_total",
			Help:      "Completed augmentations.",
		}),
		augmentDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "augmentation_duration_seconds",
			Help:      "Augmentation latency.",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 4, 8),
		}),
	}
	c.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		c.documentsParsed,
		c.axiomsDerived,
		c.axiomsRejected,
		c.unsupportedFormulas,
		c.augmentations,
		c.augmentDuration,
	)
	return c
}

// DocumentParsed counts a document read from format.
func (c *Collector) DocumentParsed(kind document.Kind, format string) {
	if c == nil {
		return
	}
	c.documentsParsed.WithLabelValues(string(kind), format).Inc()
}

// RecordAugmentation implements augment.Recorder.
func (c *Collector) RecordAugmentation(result *augment.Result, elapsed time.Duration) {
	if c == nil || result == nil {
		return
	}
	c.augmentations.Inc()
	c.augmentDuration.Observe(elapsed.Seconds())
	c.axiomsDerived.Add(float64(len(result.Axioms)))
	for _, d := range result.Diagnostics {
		switch d.Kind {
		case augment.DiagnosticForeignObject:
			c.axiomsRejected.Inc()
		case augment.DiagnosticUnsupportedFormula:
			c.unsupportedFormulas.Inc()
		}
	}
}

// Registry returns the underlying registry.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{Registry: c.registry})
}
