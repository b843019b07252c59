// Package metrics registers the service's Prometheus collectors.
package metrics

import (
    "net/http"

    "github.com/prometheus/client_golang/prometheus"
    "github.com/prometheus/client_golang/prometheus/promauto"
    "github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
    // HTTPRequests counts handled requests by method, route template and status.
    HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
        Namespace: "parksmart",
        Name:      "http_requests_total",
        Help:      "HTTP requests handled, by method, route and status code.",
    }, []string{"method", "route", "status"})

    HTTPDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
        Namespace: "parksmart",
        Name:      "http_request_duration_seconds",
        Help:      "HTTP request latency.",
        Buckets:   prometheus.DefBuckets,
    }, []string{"method", "route"})

    // SpotTransitions counts committed lifecycle transitions by activity action.
    SpotTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
        Namespace: "parksmart",
        Name:      "spot_transitions_total",
        Help:      "Committed spot transitions, by resulting activity action.",
    }, []string{"action"})

    // RejectedTransitions counts book/free attempts refused by a precondition.
    RejectedTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
        Namespace: "parksmart",
        Name:      "spot_transitions_rejected_total",
        Help:      "Spot transitions rejected, by operation and reason.",
    }, []string{"operation", "reason"})

    EventPublishFailures = promauto.NewCounter(prometheus.CounterOpts{
        Namespace: "parksmart",
        Name:      "activity_event_publish_failures_total",
        Help:      "Activity events that could not be handed to the broker.",
    })
)

// Handler exposes the default registry in the Prometheus text format.
func Handler() http.Handler { return promhttp.Handler() }
