// Package metrics defines and registers all custom Prometheus metrics for the
// job board API. It is the single source of truth for metric names, labels,
// and help strings.
//
// Collectors are registered with the default Prometheus registry on package
// init through promauto and exposed on GET /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "jobboard"

// ── Job metrics ───────────────────────────────────────────────────────────────

// JobsCreatedTotal counts newly created job postings.
// Label:
//   - job_type: "Permanent", "Temporary" or "Internship"
var JobsCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "jobs_created_total",
		Help:      "Total number of job postings created, by job type.",
	},
	[]string{"job_type"},
)

// ApplicationsTotal counts apply attempts by outcome.
// Label:
//   - result: "accepted", "deadline_passed", "duplicate", "invalid_file", "error"
var ApplicationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "applications_total",
		Help:      "Total number of job applications, labelled by result.",
	},
	[]string{"result"},
)

// ── Geocoding metrics ─────────────────────────────────────────────────────────

// GeocodeRequestsTotal counts upstream geocoding lookups.
// Labels:
//   - provider: "mapquest" or "openstreetmap"
//   - result: "ok", "empty" or "error"
var GeocodeRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "geocode_requests_total",
		Help:      "Total number of geocoding provider requests, by provider and result.",
	},
	[]string{"provider", "result"},
)

// GeocodeCacheTotal counts cache lookups in front of the provider.
// Labels:
//   - layer: "memory" or "redis"
//   - result: "hit" or "miss"
var GeocodeCacheTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "geocode_cache_total",
		Help:      "Total number of geocode cache lookups, labelled by layer and result.",
	},
	[]string{"layer", "result"},
)

// GeocodeDuration measures provider round-trip time, rate limiter wait included.
var GeocodeDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "geocode_duration_seconds",
		Help:      "Duration of geocoding provider requests.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"provider"},
)

// ── Event metrics ─────────────────────────────────────────────────────────────

// EventsPublishedTotal counts application events handed to the publisher.
// Label:
//   - result: "ok", "error", "dropped" or "discarded" (still queued at shutdown)
var EventsPublishedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "events_published_total",
		Help:      "Total number of application events, labelled by publish result.",
	},
	[]string{"result"},
)

// EventsQueueDepth tracks the current number of events waiting in each worker channel.
// Label:
//   - worker_id: numeric worker index (e.g. "0", "1", …)
var EventsQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "events_queue_depth",
		Help:      "Current number of events pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)
