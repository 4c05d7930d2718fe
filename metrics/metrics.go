// Package metrics holds the Prometheus collectors exported on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTPRequests counts handled requests by method, route and status code.
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "quiz_http_requests_total",
		Help: "HTTP requests handled, by method, route and status.",
	}, []string{"method", "route", "status"})

	// HTTPDuration observes request latency by method and route.
	HTTPDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "quiz_http_request_duration_seconds",
		Help:    "HTTP request latency in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})

	// SyncTriggers counts sync hook invocations by outcome: ok, error, throttled.
	SyncTriggers = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "quiz_sync_triggers_total",
		Help: "External sync hook invocations by outcome.",
	}, []string{"outcome"})

	// MailSends counts outbound mail by kind (otp, pdf) and outcome.
	MailSends = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "quiz_mail_sends_total",
		Help: "Outbound mail by kind and outcome.",
	}, []string{"kind", "outcome"})

	// SubmissionsStored counts stored quiz submissions by source: upload, bulk, ingestion.
	SubmissionsStored = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "quiz_submissions_stored_total",
		Help: "Quiz submissions written, by source.",
	}, []string{"source"})
)

// Outcome maps an error to the "ok"/"error" label value.
func Outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
