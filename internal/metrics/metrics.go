package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Run outcomes.
const (
	OutcomeOK    = "ok"
	OutcomeError = "error"
)

var (
	runsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "transientsim_runs_total",
			Help: "Total number of simulation runs.",
		},
		[]string{"mode", "outcome"},
	)

	runDurationSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "transientsim_run_duration_seconds",
			Help:    "Simulation run duration in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"mode"},
	)

	eventsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "transientsim_events_total",
			Help: "Total number of transients simulated.",
		},
		[]string{"mode"},
	)

	recordsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "transientsim_records_total",
			Help: "Total number of observation records produced.",
		},
		[]string{"band"},
	)

	overlapPointings = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "transientsim_overlap_pointings",
			Help:    "Pointings retained per transient after sky and time filtering.",
			Buckets: prometheus.ExponentialBuckets(1, 4, 8),
		},
	)
)

func init() {
	prometheus.MustRegister(runsTotal)
	prometheus.MustRegister(runDurationSeconds)
	prometheus.MustRegister(eventsTotal)
	prometheus.MustRegister(recordsTotal)
	prometheus.MustRegister(overlapPointings)
}

// Track runs fn and records its duration and outcome under mode.
func Track(mode string, fn func() error) error {
	start := time.Now()
	err := fn()

	outcome := OutcomeOK
	if err != nil {
		outcome = OutcomeError
	}
	runsTotal.WithLabelValues(mode, outcome).Inc()
	runDurationSeconds.WithLabelValues(mode).Observe(time.Since(start).Seconds())
	return err
}

// ObserveEvent records one simulated transient and its records per band.
func ObserveEvent(mode string, pointings int, bands map[string]int) {
	eventsTotal.WithLabelValues(mode).Inc()
	overlapPointings.Observe(float64(pointings))
	for band, n := range bands {
		recordsTotal.WithLabelValues(band).Add(float64(n))
	}
}

// WriteTextfile writes the default registry in the text exposition format,
// for node_exporter's textfile collector.
func WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, prometheus.DefaultGatherer)
}
