package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var TotalRequests = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "tourbooking_http_requests_total",
		Help: "Number of HTTP requests.",
	},
	[]string{"path", "code", "method"},
)

var HttpDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "tourbooking_http_request_duration_seconds",
		Help:    "HTTP request latency.",
		Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
	},
	[]string{"path", "code", "method"},
)

var FavoriteToggles = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "tourbooking_favorite_toggles_total",
		Help: "Favorite toggles by resulting state (added, removed).",
	},
	[]string{"result"},
)

var BookingsCreated = promauto.NewCounter(
	prometheus.CounterOpts{
		Name: "tourbooking_bookings_created_total",
		Help: "Bookings created.",
	},
)

var BookingTransitions = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "tourbooking_booking_transitions_total",
		Help: "Booking status transitions by from/to status.",
	},
	[]string{"from", "to"},
)

var ReviewsSubmitted = promauto.NewCounter(
	prometheus.CounterOpts{
		Name: "tourbooking_reviews_submitted_total",
		Help: "Reviews submitted.",
	},
)

var CatalogMutations = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "tourbooking_catalog_mutations_total",
		Help: "Package create/update/delete operations.",
	},
	[]string{"action"},
)

var PaymentEvents = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "tourbooking_payment_events_total",
		Help: "Payment webhook events by outcome (applied, duplicate, ignored).",
	},
	[]string{"outcome"},
)
