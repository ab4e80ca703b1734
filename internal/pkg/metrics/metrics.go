// Package metrics defines and registers the custom Prometheus metrics of the
// address verification API. Every metric is registered with the default
// registry on package init through promauto.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "address_verification"

// Outcome labels shared by the verification metrics.
const (
	OutcomeVerified   = "verified"
	OutcomeUnverified = "unverified"
	OutcomeSkipped    = "skipped"
	OutcomeError      = "error"
)

// ── Verification metrics ──────────────────────────────────────────────────────

// VerificationsTotal counts verification runs.
// Labels:
//   - outcome: "verified", "unverified", "skipped" (ineligible, no request) or "error"
//   - source: what triggered the run (e.g. "api", "auto")
var VerificationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "verifications_total",
		Help:      "Total number of location verifications, by outcome and trigger.",
	},
	[]string{"outcome", "source"},
)

// VerificationDuration measures one verification from lock to persistence.
// Label:
//   - outcome: same values as VerificationsTotal
var VerificationDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "verification_duration_seconds",
		Help:      "Duration of a location verification including the provider call.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"outcome"},
)

// VerificationsBusyTotal counts verifications rejected because another one
// held the location lock.
var VerificationsBusyTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "verifications_busy_total",
		Help:      "Total number of verifications rejected while the location was locked.",
	},
)

// ── Queue metrics ─────────────────────────────────────────────────────────────

// QueueDepth tracks the number of verifications waiting in each worker channel.
// Label:
//   - worker_id: numeric worker index
var QueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "queue_depth",
		Help:      "Current number of verifications pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)

// ── Location metrics ──────────────────────────────────────────────────────────

// LocationsCreatedTotal counts newly created locations.
// Label:
//   - country: upper-cased country code as submitted
var LocationsCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "locations_created_total",
		Help:      "Total number of locations created, by country.",
	},
	[]string{"country"},
)
