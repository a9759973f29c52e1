package metrics

import "github.com/prometheus/client_golang/prometheus"

// BookingMetrics exposes counters/histograms for the booking subsystem.
type BookingMetrics struct {
	bookingsTotal     *prometheus.CounterVec
	slotClaimsTotal   *prometheus.CounterVec
	slotReleasesTotal *prometheus.CounterVec
	httpDuration      *prometheus.HistogramVec
}

func NewBookingMetrics(reg prometheus.Registerer) *BookingMetrics {
	m := &BookingMetrics{
		bookingsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "medbook",
			Subsystem: "booking",
			Name:      "appointments_total",
			Help:      "Appointment lifecycle transitions by resulting status",
		}, []string{"status"}),
		slotClaimsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "medbook",
			Subsystem: "booking",
			Name:      "slot_claims_total",
			Help:      "Slot claim attempts by outcome",
		}, []string{"outcome"}),
		slotReleasesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "medbook",
			Subsystem: "booking",
			Name:      "slot_releases_total",
			Help:      "Slot releases by lookup path",
		}, []string{"path"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "medbook",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Latency of HTTP request handling",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.bookingsTotal, m.slotClaimsTotal, m.slotReleasesTotal, m.httpDuration)
	return m
}

func (m *BookingMetrics) ObserveBooking(status string) {
	if m == nil {
		return
	}
	m.bookingsTotal.WithLabelValues(status).Inc()
}

func (m *BookingMetrics) ObserveSlotClaim(outcome string) {
	if m == nil {
		return
	}
	m.slotClaimsTotal.WithLabelValues(outcome).Inc()
}

func (m *BookingMetrics) ObserveSlotRelease(path string) {
	if m == nil {
		return
	}
	m.slotReleasesTotal.WithLabelValues(path).Inc()
}

func (m *BookingMetrics) ObserveHTTPRequest(method, route, status string, seconds float64) {
	if m == nil {
		return
	}
	m.httpDuration.WithLabelValues(method, route, status).Observe(seconds)
}
