// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package metrics exposes the Prometheus collectors of the API and the
middleware that feeds the HTTP ones.

Metric families:

  - HTTP traffic: request counts and latency per route pattern.
  - Access control: permission denials per action and outcome.
  - Authentication: confirmation codes mailed, access tokens issued.
  - Mail delivery: outcome of every outbound message.

Collectors register with the default registry through promauto and are
scraped from GET /metrics.
*/
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "yamdb"

var (
	// HTTPRequestsTotal counts finished requests by method, route pattern and status.
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests served",
		},
		[]string{"method", "route", "status"},
	)

	// HTTPRequestDuration tracks handler latency by method and route pattern.
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Duration of HTTP requests in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	// PermissionDenialsTotal counts rejected permission checks.
	PermissionDenialsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "permission_denials_total",
			Help:      "Total number of requests rejected by a permission predicate",
		},
		[]string{"action", "status"},
	)

	// ConfirmationCodesTotal counts confirmation codes handed to the mailer.
	ConfirmationCodesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "confirmation_codes_total",
			Help:      "Total number of confirmation codes issued",
		},
	)

	// AccessTokensTotal counts access tokens exchanged for a confirmation code.
	AccessTokensTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "access_tokens_total",
			Help:      "Total number of access tokens issued",
		},
	)

	// MailDeliveriesTotal counts outbound mail attempts by result (sent, failed, rejected).
	MailDeliveriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "mail_deliveries_total",
			Help:      "Total number of outbound mail delivery attempts",
		},
		[]string{"result"},
	)
)

// # Recording Helpers

// RecordPermissionDenial increments the denial counter.
func RecordPermissionDenial(action string, status int) {
	PermissionDenialsTotal.WithLabelValues(action, strconv.Itoa(status)).Inc()
}

// RecordMailDelivery increments the delivery counter for result.
func RecordMailDelivery(result string) {
	MailDeliveriesTotal.WithLabelValues(result).Inc()
}

// # HTTP Integration

// Instrument records count and latency of every request under its chi route pattern.
//
// Unmatched paths are reported as "unmatched" to keep label cardinality bounded.
func Instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		startTime := time.Now()
		wrapped := chimw.NewWrapResponseWriter(writer, request.ProtoMajor)

		next.ServeHTTP(wrapped, request)

		route := "unmatched"
		if routeContext := chi.RouteContext(request.Context()); routeContext != nil {
			if pattern := routeContext.RoutePattern(); pattern != "" {
				route = pattern
			}
		}

		status := wrapped.Status()
		if status == 0 {
			status = http.StatusOK
		}

		HTTPRequestsTotal.WithLabelValues(request.Method, route, strconv.Itoa(status)).Inc()
		HTTPRequestDuration.WithLabelValues(request.Method, route).Observe(time.Since(startTime).Seconds())
	})
}

// Handler serves the default registry in the Prometheus exposition format.
func Handler() http.Handler {
	return promhttp.Handler()
}
