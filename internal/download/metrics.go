package download

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus metrics of completed downloads
var (
	downloadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ytm_downloads_total",
			Help: "Downloads by kind and result.",
		},
		[]string{"kind", "result"},
	)

	downloadDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ytm_download_duration_seconds",
			Help:    "Wall time of downloads including transcoding.",
			Buckets: []float64{1, 5, 15, 30, 60, 120, 300, 600, 1200, 1800},
		},
		[]string{"kind"},
	)

	downloadedBytes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ytm_downloaded_bytes_total",
			Help: "Bytes written to the downloads directory by kind.",
		},
		[]string{"kind"},
	)
)
