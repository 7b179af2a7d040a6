package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "energyreport"

var (
	linesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "lines_total",
			Help:      "Input lines seen while loading the dataset, by parse outcome.",
		},
		[]string{"outcome"},
	)
	reportsBuiltTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reports_built_total",
			Help:      "Total number of reports rendered.",
		},
		[]string{"kind"},
	)
	reportBuildDurationSeconds = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "report_build_duration_seconds",
			Help:      "Time spent aggregating and rendering one report.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"kind"},
	)
	reportWritesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "report_writes_total",
			Help:      "Report files written, by sink mode and result.",
		},
		[]string{"mode", "result"},
	)
)

// ObserveParse records the outcome counts of one dataset load.
func ObserveParse(valid, skipped, malformed int) {
	linesTotal.WithLabelValues("valid").Add(float64(valid))
	linesTotal.WithLabelValues("skipped").Add(float64(skipped))
	linesTotal.WithLabelValues("malformed").Add(float64(malformed))
}

func ObserveReport(kind string, dur time.Duration) {
	reportsBuiltTotal.WithLabelValues(kind).Inc()
	reportBuildDurationSeconds.WithLabelValues(kind).Observe(dur.Seconds())
}

func ObserveWrite(mode string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	reportWritesTotal.WithLabelValues(mode, result).Inc()
}

// WriteTextfile dumps the default registry in the text exposition format,
// for node_exporter's textfile collector. An empty path is a no-op.
func WriteTextfile(path string) error {
	if path == "" {
		return nil
	}
	return prometheus.WriteToTextfile(path, prometheus.DefaultGatherer)
}
