package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Loading
	RecordsLoadedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "racerank_records_loaded_total",
		Help: "The total number of athlete records read from the race data",
	})
	RecordsDroppedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "racerank_records_dropped_total",
		Help: "The total number of athlete records outside the ranked categories",
	})

	// Ranking
	AthletesRankedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "racerank_athletes_ranked_total",
		Help: "The total number of athletes ranked, per category",
	}, []string{"category"})
	PrizesAwardedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "racerank_prizes_awarded_total",
		Help: "The total number of prize labels attached, per category",
	}, []string{"category"})
	CategoryFailuresTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "racerank_category_failures_total",
		Help: "The total number of category tasks that failed",
	}, []string{"category"})
	CategoryDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "racerank_category_duration_seconds",
		Help:    "Time spent loading prizes, ranking and writing one category",
		Buckets: prometheus.DefBuckets,
	}, []string{"category"})
	LastRunTimestamp = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "racerank_last_run_timestamp_seconds",
		Help: "Unix time at which the last ranking run completed",
	})
)

// WriteTextfile dumps the default registry in the text exposition format,
// for pickup by the node exporter textfile collector. The file is replaced
// atomically.
func WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, prometheus.DefaultGatherer)
}
