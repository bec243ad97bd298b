package metrics

import "github.com/prometheus/client_golang/prometheus"

// GatewayMetrics exposes counters for the patient-facing booking and
// payment flows.
type GatewayMetrics struct {
	bookingsTotal      *prometheus.CounterVec
	checkoutHandoffs   prometheus.Counter
	verificationsTotal *prometheus.CounterVec
	cancellationsTotal *prometheus.CounterVec
}

func NewGatewayMetrics(reg prometheus.Registerer) *GatewayMetrics {
	m := &GatewayMetrics{
		bookingsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "docassist",
			Subsystem: "booking",
			Name:      "requests_total",
			Help:      "Total booking requests by result",
		}, []string{"result"}),
		checkoutHandoffs: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "docassist",
			Subsystem: "booking",
			Name:      "checkout_handoffs_total",
			Help:      "Total bookings handed off to payment checkout",
		}),
		verificationsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "docassist",
			Subsystem: "payments",
			Name:      "verifications_total",
			Help:      "Total payment return verifications by outcome",
		}, []string{"outcome"}),
		cancellationsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "docassist",
			Subsystem: "appointments",
			Name:      "cancellations_total",
			Help:      "Total appointment cancellations by result",
		}, []string{"result"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.bookingsTotal, m.checkoutHandoffs, m.verificationsTotal, m.cancellationsTotal)
	return m
}

func (m *GatewayMetrics) ObserveBooking(result string) {
	if m == nil {
		return
	}
	m.bookingsTotal.WithLabelValues(result).Inc()
}

func (m *GatewayMetrics) ObserveCheckoutHandoff() {
	if m == nil {
		return
	}
	m.checkoutHandoffs.Inc()
}

func (m *GatewayMetrics) ObserveVerification(outcome string) {
	if m == nil {
		return
	}
	m.verificationsTotal.WithLabelValues(outcome).Inc()
}

func (m *GatewayMetrics) ObserveCancellation(result string) {
	if m == nil {
		return
	}
	m.cancellationsTotal.WithLabelValues(result).Inc()
}
