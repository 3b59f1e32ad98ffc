package metrics

import "github.com/prometheus/client_golang/prometheus"

// BookingMetrics exposes counters/histograms for the booking and
// availability flows.
type BookingMetrics struct {
	bookingsCreated      prometheus.Counter
	bookingFailures      *prometheus.CounterVec
	availabilityRequests *prometheus.CounterVec
	refreshFailures      prometheus.Counter
	refreshDuration      prometheus.Histogram
}

func NewBookingMetrics(reg prometheus.Registerer) *BookingMetrics {
	m := &BookingMetrics{
		bookingsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "clinic",
			Subsystem: "booking",
			Name:      "created_total",
			Help:      "Total appointments created through the booking flow",
		}),
		bookingFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "clinic",
			Subsystem: "booking",
			Name:      "failures_total",
			Help:      "Booking attempts rejected or failed, by reason",
		}, []string{"reason"}),
		availabilityRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "clinic",
			Subsystem: "availability",
			Name:      "requests_total",
			Help:      "Availability listings served, by outcome",
		}, []string{"outcome"}),
		refreshFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "clinic",
			Subsystem: "availability",
			Name:      "refresh_failures_total",
			Help:      "Booked-slot refreshes that fell back to an empty snapshot",
		}),
		refreshDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "clinic",
			Subsystem: "availability",
			Name:      "refresh_duration_seconds",
			Help:      "Duration of booked-slot snapshot refreshes",
			Buckets:   prometheus.DefBuckets,
		}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.bookingsCreated, m.bookingFailures, m.availabilityRequests,
		m.refreshFailures, m.refreshDuration)
	return m
}

func (m *BookingMetrics) ObserveBookingCreated() {
	if m == nil {
		return
	}
	m.bookingsCreated.Inc()
}

func (m *BookingMetrics) ObserveBookingFailure(reason string) {
	if m == nil {
		return
	}
	m.bookingFailures.WithLabelValues(reason).Inc()
}

func (m *BookingMetrics) ObserveAvailabilityRequest(outcome string) {
	if m == nil {
		return
	}
	m.availabilityRequests.WithLabelValues(outcome).Inc()
}

func (m *BookingMetrics) ObserveRefreshFailure() {
	if m == nil {
		return
	}
	m.refreshFailures.Inc()
}

func (m *BookingMetrics) ObserveRefreshDuration(seconds float64) {
	if m == nil {
		return
	}
	m.refreshDuration.Observe(seconds)
}
