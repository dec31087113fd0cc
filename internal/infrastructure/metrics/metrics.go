// Package metrics defines the Prometheus collectors of the storefront client.
// All metrics are registered with the default registry on package load via
// promauto; front ends that want to expose them mount promhttp.Handler().
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "storefront"

// ── Request pipeline ──────────────────────────────────────────────────────────

// RequestsTotal counts API calls by outcome.
// Labels:
//   - method: HTTP method
//   - outcome: "ok", "unauthenticated", "payload_too_large", "unsupported_media_type",
//     "not_found", "server_error", "connection_error", "canceled"
var RequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "client",
		Name:      "requests_total",
		Help:      "Total number of API requests issued, by outcome.",
	},
	[]string{"method", "outcome"},
)

// RequestDuration measures time from send to fully read response.
var RequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "client",
		Name:      "request_duration_seconds",
		Help:      "Duration of API requests including body read.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"method"},
)

// UploadBytesTotal counts bytes of image files sent in multipart uploads.
var UploadBytesTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "client",
		Name:      "upload_bytes_total",
		Help:      "Total bytes of image content uploaded.",
	},
)

// ── Session store ─────────────────────────────────────────────────────────────

// SessionTransitionsTotal counts session state transitions.
// Labels:
//   - to: "authenticated" or "unauthenticated"
//   - cause: "restore", "login", "logout", "forced_clear"
var SessionTransitionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "session",
		Name:      "transitions_total",
		Help:      "Total number of session state transitions.",
	},
	[]string{"to", "cause"},
)

// ReportsSavedTotal counts reports written to disk, by file extension.
var ReportsSavedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "reports",
		Name:      "saved_total",
		Help:      "Total number of generated reports saved locally.",
	},
	[]string{"format"},
)
