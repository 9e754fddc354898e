// Package metrics registers circuitlab's Prometheus collectors. The CLI has no
// HTTP listener, so collectors are exported with WriteTextfile for the node
// exporter's textfile collector.
package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	Validations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "circuitlab_validations_total",
		Help: "Total number of validation runs, labelled by variant and outcome.",
	}, []string{"variant", "outcome"})

	ValidationDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "circuitlab_validation_duration_ms",
		Help:    "Validation latency in milliseconds.",
		Buckets: []float64{0.1, 0.5, 1, 5, 10, 25, 50, 100, 250, 1000},
	})

	CircuitsDiscovered = promauto.NewCounter(prometheus.CounterOpts{
		Name: "circuitlab_circuits_discovered_total",
		Help: "Total number of completed circuits found across runs.",
	})

	RuleViolations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "circuitlab_rule_violations_total",
		Help: "Total number of rule violations reported, labelled by message.",
	}, []string{"error"})

	CacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "circuitlab_cache_hits_total",
		Help: "Validation results served from the memo cache.",
	})

	CacheMisses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "circuitlab_cache_misses_total",
		Help: "Validation results computed because the memo cache had no entry.",
	})

	RequestsDropped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "circuitlab_requests_dropped_total",
		Help: "Total number of requests rejected due to a full queue.",
	})

	QueueUtilization = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "circuitlab_queue_utilization_ratio",
		Help: "Current request queue utilization (0-1).",
	})

	PuzzlesChecked = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "circuitlab_puzzles_checked_total",
		Help: "Total number of library puzzles checked, labelled by status.",
	}, []string{"status"})

	ConfigReloads = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "circuitlab_config_reloads_total",
		Help: "Total number of library reloads, labelled by status.",
	}, []string{"status"})
)

// WriteTextfile dumps every registered collector to path in the text
// exposition format.
func WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, prometheus.DefaultGatherer); err != nil {
		return fmt.Errorf("write metrics %s: %w", path, err)
	}
	return nil
}
