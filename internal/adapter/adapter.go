package adapter

import (
	"context"
	"net/http"
	"time"

	"algo_tracker/internal/domain/model"
	"algo_tracker/internal/metrics"

	"github.com/prometheus/client_golang/prometheus"
)

// Adapter fetches one external platform's data and normalizes it into the
// common model. The built-in adapters degrade gracefully: a transport or
// decode failure is mapped to deterministic fallback data (or nil/empty),
// so one platform's outage never blocks the others. A returned error
// therefore means the stage produced nothing usable at all; the
// orchestrator records it and moves on.
type Adapter interface {
	Name() string
	BaseURL() string

	// GetUserInfo returns nil (and no error) when the user does not exist
	// on the platform.
	GetUserInfo(ctx context.Context, username string) (*model.PlatformProfile, error)

	// GetSubmissions returns up to limit submissions, newest first.
	GetSubmissions(ctx context.Context, username string, limit int) ([]model.Submission, error)

	// GetUpcomingContests returns contests starting at or after the time
	// of the call.
	GetUpcomingContests(ctx context.Context) ([]model.Contest, error)
}

func newHTTPClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = 8 * time.Second
	}
	return &http.Client{Timeout: timeout}
}

// timedDo executes the request and records its duration per platform/op.
func timedDo(client *http.Client, req *http.Request, platform, op string) (*http.Response, error) {
	timer := prometheus.NewTimer(metrics.AdapterRequestDuration.WithLabelValues(platform, op))
	defer timer.ObserveDuration()
	return client.Do(req)
}

func recordFallback(platform, op string) {
	metrics.AdapterFallbacksTotal.WithLabelValues(platform, op).Inc()
}

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }
func i64Ptr(i int64) *int64   { return &i }
