package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Label value constants to prevent typos
const (
	// Adapter operations
	OpGetUserInfo         = "get_user_info"
	OpGetSubmissions      = "get_submissions"
	OpGetUpcomingContests = "get_upcoming_contests"

	// Sync outcomes
	OutcomeCompleted = "completed"
	OutcomeFailed    = "failed"
	OutcomeSkipped   = "skipped"
)

var (
	SyncsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "platform_syncs_total",
			Help: "Total number of platform sync attempts by outcome",
		},
		[]string{"platform", "outcome"},
	)

	SyncDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "platform_sync_duration_seconds",
			Help:    "Duration of platform sync attempts",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"platform"},
	)

	SubmissionsSyncedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "submissions_synced_total",
			Help: "Total number of submissions handed to the gateway",
		},
		[]string{"platform"},
	)

	AdapterRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "adapter_request_duration_seconds",
			Help:    "Duration of external platform API calls",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"platform", "operation"},
	)

	AdapterFallbacksTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "adapter_fallbacks_total",
			Help: "Times an adapter served fallback data after a transport failure",
		},
		[]string{"platform", "operation"},
	)

	SyncQueueDepth = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "sync_queue_depth",
			Help: "Number of sync jobs waiting in the Redis queue",
		},
	)
)
