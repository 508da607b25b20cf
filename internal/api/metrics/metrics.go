// Package metrics defines the custom Prometheus metrics of the PetBnB API. It
// is the single source of truth for metric names, labels, and help strings.
//
// Collectors are created unregistered; call Register once per registry before
// the HTTP server starts.
package metrics

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "petbnb"

// ── Listing metrics ───────────────────────────────────────────────────────────

// ListingsCreatedTotal counts listings published by sitters.
var ListingsCreatedTotal = prometheus.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "listings_created_total",
		Help:      "Total number of listings created.",
	},
)

// ListingsDeletedTotal counts listings removed together with their bookings.
var ListingsDeletedTotal = prometheus.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "listings_deleted_total",
		Help:      "Total number of listings deleted.",
	},
)

// ── Booking metrics ───────────────────────────────────────────────────────────

// BookingsCreatedTotal counts booking requests filed by owners.
var BookingsCreatedTotal = prometheus.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "bookings_created_total",
		Help:      "Total number of booking requests created.",
	},
)

// BookingStatusUpdatesTotal counts status changes applied by sitters.
// Label:
//   - status: the status written ("pending", "approved", "rejected")
var BookingStatusUpdatesTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "booking_status_updates_total",
		Help:      "Total number of booking status updates, by resulting status.",
	},
	[]string{"status"},
)

// ── Auth metrics ──────────────────────────────────────────────────────────────

// SignupsTotal counts new accounts.
// Label:
//   - role: "owner" or "sitter"
var SignupsTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "signups_total",
		Help:      "Total number of accounts created, by role.",
	},
	[]string{"role"},
)

// LoginsTotal counts login attempts.
// Label:
//   - result: "success" or "failure"
var LoginsTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// ── Error metrics ─────────────────────────────────────────────────────────────

// RequestErrorsTotal counts error responses rendered by the central handler.
// Label:
//   - kind: "invalid_input", "unauthenticated", "unauthorized", "not_found",
//     "conflict", "http" or "internal"
var RequestErrorsTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "request_errors_total",
		Help:      "Total number of API error responses, by error kind.",
	},
	[]string{"kind"},
)

// IdempotentReplaysTotal counts responses served from the idempotency store.
var IdempotentReplaysTotal = prometheus.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "idempotent_replays_total",
		Help:      "Total number of create responses replayed for a repeated Idempotency-Key.",
	},
)

func collectors() []prometheus.Collector {
	return []prometheus.Collector{
		ListingsCreatedTotal,
		ListingsDeletedTotal,
		BookingsCreatedTotal,
		BookingStatusUpdatesTotal,
		SignupsTotal,
		LoginsTotal,
		RequestErrorsTotal,
		IdempotentReplaysTotal,
	}
}

// Register adds every collector to reg. Collectors already present in reg are
// skipped, so calling Register twice with the same registry is harmless.
func Register(reg prometheus.Registerer) error {
	for _, c := range collectors() {
		if err := reg.Register(c); err != nil {
			var are prometheus.AlreadyRegisteredError
			if errors.As(err, &are) {
				continue
			}
			return err
		}
	}
	return nil
}
