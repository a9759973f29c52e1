package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestBookingMetricsCounters(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewBookingMetrics(reg)

	m.ObserveBooking("pending")
	m.ObserveBooking("pending")
	m.ObserveBooking("cancelled")
	m.ObserveSlotClaim("claimed")
	m.ObserveSlotClaim("unavailable")
	m.ObserveSlotRelease("exact")
	m.ObserveHTTPRequest("POST", "/appointments", "201", 0.042)

	if got := testutil.ToFloat64(m.bookingsTotal.WithLabelValues("pending")); got != 2 {
		t.Errorf("pending bookings = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.bookingsTotal.WithLabelValues("cancelled")); got != 1 {
		t.Errorf("cancelled bookings = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.slotClaimsTotal.WithLabelValues("claimed")); got != 1 {
		t.Errorf("claimed slots = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.slotReleasesTotal.WithLabelValues("exact")); got != 1 {
		t.Errorf("exact releases = %v, want 1", got)
	}
}

// A nil receiver is a no-op everywhere, so wiring metrics stays optional.
func TestBookingMetricsNilReceiver(t *testing.T) {
	var m *BookingMetrics

	m.ObserveBooking("pending")
	m.ObserveSlotClaim("claimed")
	m.ObserveSlotRelease("exact")
	m.ObserveHTTPRequest("GET", "/appointments", "200", 0.001)
}
