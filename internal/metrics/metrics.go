package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "photoshare_http_requests_total",
			Help: "Number of processed HTTP requests.",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "photoshare_http_request_duration_seconds",
			Help:    "HTTP request latency.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	PhotoUploadsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "photoshare_photo_uploads_total",
			Help: "Number of successfully uploaded photos.",
		},
	)

	PhotoViewsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "photoshare_photo_views_total",
			Help: "Number of photo detail views.",
		},
	)
)
