// Package metrics holds the Prometheus collectors exported on /metrics.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "voter_api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "route", "status"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "voter_api_request_duration_seconds",
			Help:    "API request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	SessionsCreated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "voter_sessions_created_total",
			Help: "Total number of voting sessions created",
		},
	)

	// VotesCast is labelled by flow: "session" or "student".
	VotesCast = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "voter_votes_cast_total",
			Help: "Total number of accepted votes",
		},
		[]string{"flow"},
	)

	DuplicateVotes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "voter_duplicate_votes_total",
			Help: "Total number of votes rejected because the voter already voted",
		},
		[]string{"flow"},
	)

	EmailsSent = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "voter_emails_sent_total",
			Help: "Outbound emails by kind and result",
		},
		[]string{"kind", "result"},
	)
)

// RecordAPIRequest records one completed HTTP request.
func RecordAPIRequest(method, route string, status int, d time.Duration) {
	APIRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	APIRequestDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

// RecordEmail records the outcome of a send attempt.
func RecordEmail(kind string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	EmailsSent.WithLabelValues(kind, result).Inc()
}
