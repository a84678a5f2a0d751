package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRegisterIsIdempotent(t *testing.T) {
	assert.NotPanics(t, func() {
		Register()
		Register()
	})
}

func TestCounters(t *testing.T) {
	Register()

	before := testutil.ToFloat64(bookingsCreated)
	IncBookingCreated()
	assert.Equal(t, before+1, testutil.ToFloat64(bookingsCreated))

	before = testutil.ToFloat64(bookingsCancelled)
	IncBookingCancelled()
	assert.Equal(t, before+1, testutil.ToFloat64(bookingsCancelled))

	before = testutil.ToFloat64(bookingRejections.WithLabelValues("no_slots"))
	IncBookingRejected("no_slots")
	assert.Equal(t, before+1, testutil.ToFloat64(bookingRejections.WithLabelValues("no_slots")))

	before = testutil.ToFloat64(httpRequests.WithLabelValues("/api/v1/classes"))
	IncHTTP("/api/v1/classes")
	assert.Equal(t, before+1, testutil.ToFloat64(httpRequests.WithLabelValues("/api/v1/classes")))
}
