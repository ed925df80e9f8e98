// Package metrics
package metrics

import (
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	JobsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scraper_jobs_total",
			Help: "Season/category jobs completed, labeled by category and outcome.",
		},
		[]string{"category", "outcome"},
	)
	RowsWritten = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scraper_rows_written_total",
			Help: "Team rows handed to the output sink, labeled by category.",
		},
		[]string{"category"},
	)
	FetchAttempts = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scraper_fetch_attempts_total",
			Help: "Page fetch attempts, labeled by fetch mode.",
		},
		[]string{"mode"},
	)
	FetchDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "scraper_fetch_duration_seconds",
			Help:    "Duration of successful page fetches in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"mode"},
	)
	PageCacheHits = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "scraper_page_cache_hits_total",
			Help: "Fetches served from the Redis page cache.",
		},
	)
)

func init() {
	prometheus.MustRegister(JobsTotal)
	prometheus.MustRegister(RowsWritten)
	prometheus.MustRegister(FetchAttempts)
	prometheus.MustRegister(FetchDuration)
	prometheus.MustRegister(PageCacheHits)
}

func ExposeMetrics(addr string) {
	slog.Info("Exposing Prometheus metrics", "address", addr)
	http.Handle("/metrics", promhttp.Handler())
	if err := http.ListenAndServe(addr, nil); err != nil {
		slog.Error("Failed to start Prometheus metrics server", "error", err)
	}
}
