package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bookmarks_http_requests_total",
		Help: "HTTP requests served, by route pattern and status code.",
	}, []string{"method", "route", "status"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "bookmarks_http_request_duration_seconds",
		Help:    "Time from request receipt to response completion.",
		Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
	}, []string{"method", "route"})

	WritesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bookmarks_writes_total",
		Help: "Successful bookmark writes, by operation (create, update, delete).",
	}, []string{"op"})

	ValidationFailuresTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bookmarks_validation_failures_total",
		Help: "Rejected write payloads, by offending field.",
	}, []string{"field"})
)
