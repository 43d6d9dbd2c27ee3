// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package metrics holds the Prometheus collectors shared by the engine and
// the HTTP layer. Collectors register with the default registry on import
// and are served by promhttp at /metrics.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Degraded load stages
const (
	StageCatalog = "catalog"
	StageRatings = "ratings"
)

// Submission outcomes
const (
	StatusOK      = "ok"
	StatusInvalid = "invalid"
	StatusFailed  = "failed"
)

var (
	DegradedLoads = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rating_engine_degraded_loads_total",
			Help: "Participant loads that fell back to zero progress because a fetch failed.",
		},
		[]string{"stage"},
	)

	Submissions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rating_engine_submissions_total",
			Help: "Rating submissions by outcome.",
		},
		[]string{"status"},
	)

	StoreLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "rating_engine_store_duration_seconds",
			Help:    "Latency of collaborator calls made by the engine.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)

	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "HTTP requests by route and status code.",
		},
		[]string{"method", "route", "code"},
	)
)

// ObserveStore records how long one collaborator call took
func ObserveStore(operation string, start time.Time) {
	StoreLatency.WithLabelValues(operation).Observe(time.Since(start).Seconds())
}
