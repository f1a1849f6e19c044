package extract

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus metrics of yt-dlp invocations
var (
	extractCallsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ytm_extract_calls_total",
			Help: "yt-dlp invocations by operation and result.",
		},
		[]string{"op", "result"},
	)

	extractDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ytm_extract_duration_seconds",
			Help:    "Duration of yt-dlp invocations in seconds.",
			Buckets: []float64{0.5, 1, 2.5, 5, 10, 30, 60, 120, 300, 600},
		},
		[]string{"op"},
	)
)
