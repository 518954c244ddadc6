// Package metrics records per-venue scrape statistics with Prometheus collectors.
//
// A scrape is a short batch job, so instead of serving /metrics the collectors
// are written once per run to a file for node_exporter's textfile collector.
package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "artsea"

// Recorder holds the collectors for one process
type Recorder struct {
	registry *prometheus.Registry

	scraped     *prometheus.CounterVec
	inserted    *prometheus.CounterVec
	updated     *prometheus.CounterVec
	errors      *prometheus.CounterVec
	duration    *prometheus.HistogramVec
	lastSuccess *prometheus.GaugeVec
	runDuration prometheus.Gauge
}

// New creates a Recorder with its own registry
func New() *Recorder {
	r := &Recorder{registry: prometheus.NewRegistry()}

	r.scraped = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "events_scraped_total",
		Help:      "Event candidates produced by each venue extractor",
	}, []string{"venue"})
	r.inserted = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "events_inserted_total",
		Help:      "Events inserted by reconciliation",
	}, []string{"venue"})
	r.updated = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "events_updated_total",
		Help:      "Events updated by reconciliation",
	}, []string{"venue"})
	r.errors = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "errors_total",
		Help:      "Fetch, extraction and reconciliation errors",
	}, []string{"venue", "stage"})
	r.duration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "venue_duration_seconds",
		Help:      "Time spent scraping and reconciling a venue",
		Buckets:   []float64{1, 2, 5, 10, 20, 30, 60, 120},
	}, []string{"venue"})
	r.lastSuccess = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "last_success_timestamp_seconds",
		Help:      "Unix timestamp of the last error-free run for a venue",
	}, []string{"venue"})
	r.runDuration = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "run_duration_seconds",
		Help:      "Wall time of the last full run",
	})

	r.registry.MustRegister(
		r.scraped, r.inserted, r.updated, r.errors,
		r.duration, r.lastSuccess, r.runDuration,
	)
	return r
}

// Registry exposes the underlying registry
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// Scraped adds n extracted candidates for venue
func (r *Recorder) Scraped(venue string, n int) {
	r.scraped.WithLabelValues(venue).Add(float64(n))
}

// Reconciled adds the insert and update counts for venue
func (r *Recorder) Reconciled(venue string, inserted, updated int) {
	r.inserted.WithLabelValues(venue).Add(float64(inserted))
	r.updated.WithLabelValues(venue).Add(float64(updated))
}

// Errors adds n errors at a stage ("fetch", "reconcile", "config")
func (r *Recorder) Errors(venue, stage string, n int) {
	if n <= 0 {
		return
	}
	r.errors.WithLabelValues(venue, stage).Add(float64(n))
}

// VenueDone observes how long venue took and, when it had no errors, stamps its success time
func (r *Recorder) VenueDone(venue string, elapsed time.Duration, ok bool) {
	r.duration.WithLabelValues(venue).Observe(elapsed.Seconds())
	if ok {
		r.lastSuccess.WithLabelValues(venue).SetToCurrentTime()
	}
}

// RunDone records the wall time of a whole run
func (r *Recorder) RunDone(elapsed time.Duration) {
	r.runDuration.Set(elapsed.Seconds())
}

// WriteTextfile writes all collectors in the text exposition format,
// atomically replacing path
func (r *Recorder) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return fmt.Errorf("writing metrics to %s: %w", path, err)
	}
	return nil
}
