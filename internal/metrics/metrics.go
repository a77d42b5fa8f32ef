// Package metrics holds the Prometheus collectors for exports and assistant
// calls.
//
// Metrics:
//   - roadside_export_requests_total: exports by data type, format and outcome
//   - roadside_export_duration_seconds: time spent building a document
//   - roadside_export_bytes: size of the produced document
//   - roadside_assistant_requests_total: assistant calls by operation and outcome
//   - roadside_assistant_duration_seconds: assistant round-trip latency
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/roadside-plus/backend/internal/models"
)

const namespace = "roadside"

type Collector struct {
	registry *prometheus.Registry

	exportsTotal      *prometheus.CounterVec
	exportDuration    *prometheus.HistogramVec
	exportBytes       *prometheus.HistogramVec
	assistantTotal    *prometheus.CounterVec
	assistantDuration *prometheus.HistogramVec
}

// NewCollector registers all collectors on registry. A nil registry gets a
// fresh one with the Go and process collectors attached.
func NewCollector(registry *prometheus.Registry) *Collector {
	if registry == nil {
		registry = prometheus.NewRegistry()
		registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}

	c := &Collector{
		registry: registry,
		exportsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "export_requests_total",
				Help:      "Total number of export requests",
			},
			[]string{"data_type", "format", "outcome"},
		),
		exportDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "export_duration_seconds",
				Help:      "Time spent building export documents",
				Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
			},
			[]string{"format"},
		),
		exportBytes: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "export_bytes",
				Help:      "Size of export documents in bytes",
				Buckets:   prometheus.ExponentialBuckets(256, 4, 8),
			},
			[]string{"format"},
		),
		assistantTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "assistant_requests_total",
				Help:      "Total number of assistant requests",
			},
			[]string{"operation", "outcome"},
		),
		assistantDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "assistant_duration_seconds",
				Help:      "Assistant round-trip latency",
				Buckets:   []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60},
			},
			[]string{"operation"},
		),
	}

	registry.MustRegister(
		c.exportsTotal,
		c.exportDuration,
		c.exportBytes,
		c.assistantTotal,
		c.assistantDuration,
	)
	return c
}

// RecordExport counts one export. Unknown data types share the "other" label
// so free-form input cannot blow up label cardinality.
func (c *Collector) RecordExport(dataType, format, outcome string, duration time.Duration, size int) {
	if c == nil {
		return
	}
	if !models.DatasetKind(dataType).Known() {
		dataType = "other"
	}
	if format != "csv" && format != "pdf" {
		format = "other"
	}
	c.exportsTotal.WithLabelValues(dataType, format, outcome).Inc()
	if outcome == "success" {
		c.exportDuration.WithLabelValues(format).Observe(duration.Seconds())
		c.exportBytes.WithLabelValues(format).Observe(float64(size))
	}
}

func (c *Collector) RecordAssistant(operation, outcome string, duration time.Duration) {
	if c == nil {
		return
	}
	c.assistantTotal.WithLabelValues(operation, outcome).Inc()
	c.assistantDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
		ErrorHandling:     promhttp.ContinueOnError,
	})
}
