package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "fitbook",
			Name:      "http_requests_total",
			Help:      "HTTP requests by endpoint.",
		},
		[]string{"endpoint"},
	)

	bookingsCreated = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "fitbook",
			Name:      "bookings_created_total",
			Help:      "Confirmed bookings created.",
		},
	)

	bookingsCancelled = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "fitbook",
			Name:      "bookings_cancelled_total",
			Help:      "Bookings cancelled (capacity released).",
		},
	)

	bookingRejections = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "fitbook",
			Name:      "booking_rejections_total",
			Help:      "Booking attempts rejected, by reason.",
		},
		[]string{"reason"},
	)
)

// Register registers Prometheus metrics. Safe to call multiple times.
func Register() {
	once.Do(func() {
		prometheus.MustRegister(httpRequests, bookingsCreated, bookingsCancelled, bookingRejections)
	})
}

// IncHTTP increments the counter for an endpoint label.
func IncHTTP(endpoint string) {
	httpRequests.WithLabelValues(endpoint).Inc()
}

// IncBookingCreated increments the confirmed-bookings counter.
func IncBookingCreated() {
	bookingsCreated.Inc()
}

// IncBookingCancelled increments the cancelled-bookings counter.
func IncBookingCancelled() {
	bookingsCancelled.Inc()
}

// IncBookingRejected increments the rejection counter for a reason label
// (no_slots, duplicate, class_not_found).
func IncBookingRejected(reason string) {
	bookingRejections.WithLabelValues(reason).Inc()
}
