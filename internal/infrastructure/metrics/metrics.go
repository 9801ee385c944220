// Package metrics exposes Prometheus metrics for the checkout gateway.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "vegnbio_pos"

// Metrics holds the HTTP and checkout collectors.
type Metrics struct {
	Requests          *prometheus.CounterVec
	LatencyMS         *prometheus.HistogramVec
	Payments          *prometheus.CounterVec
	AmountRecorded    *prometheus.CounterVec
	ChangeGiven       *prometheus.CounterVec
	CheckoutRejected  *prometheus.CounterVec
	OrderServiceCalls *prometheus.HistogramVec

	gatherer prometheus.Gatherer
}

// New creates the collectors and registers them with reg. Pass
// prometheus.NewRegistry() in tests to avoid duplicate registration.
func New(reg *prometheus.Registry) *Metrics {
	m := &Metrics{
		Requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests.",
		}, []string{"handler", "method", "status"}),
		LatencyMS: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_ms",
			Help:      "HTTP request latency in milliseconds.",
			Buckets:   []float64{5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000},
		}, []string{"handler"}),
		Payments: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "checkout",
			Name:      "payments_total",
			Help:      "Payments accepted by the order service.",
		}, []string{"method", "partial"}),
		AmountRecorded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "checkout",
			Name:      "amount_recorded_total",
			Help:      "Sum of recorded payment amounts.",
		}, []string{"method"}),
		ChangeGiven: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "checkout",
			Name:      "change_given_total",
			Help:      "Sum of cash change handed back to customers.",
		}, []string{"method"}),
		CheckoutRejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "checkout",
			Name:      "rejected_total",
			Help:      "Payment submissions blocked locally or refused remotely.",
		}, []string{"reason"}),
		OrderServiceCalls: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "order_service",
			Name:      "call_duration_ms",
			Help:      "Order service call latency in milliseconds.",
			Buckets:   []float64{10, 25, 50, 100, 250, 500, 1000, 2500, 5000, 10000},
		}, []string{"operation", "outcome"}),
		gatherer: reg,
	}

	reg.MustRegister(
		m.Requests,
		m.LatencyMS,
		m.Payments,
		m.AmountRecorded,
		m.ChangeGiven,
		m.CheckoutRejected,
		m.OrderServiceCalls,
	)
	return m
}

// ObserveRequest records one served HTTP request.
func (m *Metrics) ObserveRequest(handler, method string, status int, elapsed time.Duration) {
	m.Requests.WithLabelValues(handler, method, strconv.Itoa(status)).Inc()
	m.LatencyMS.WithLabelValues(handler).Observe(float64(elapsed.Milliseconds()))
}

// ObservePayment records a payment accepted by the order service. Amounts are
// in currency units.
func (m *Metrics) ObservePayment(method string, partial bool, amount, change float64) {
	m.Payments.WithLabelValues(method, strconv.FormatBool(partial)).Inc()
	m.AmountRecorded.WithLabelValues(method).Add(amount)
	if change > 0 {
		m.ChangeGiven.WithLabelValues(method).Add(change)
	}
}

// ObserveRejection records a blocked or refused payment.
func (m *Metrics) ObserveRejection(reason string) {
	m.CheckoutRejected.WithLabelValues(reason).Inc()
}

// ObserveOrderServiceCall records the latency of a remote call.
func (m *Metrics) ObserveOrderServiceCall(operation string, err error, elapsed time.Duration) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.OrderServiceCalls.WithLabelValues(operation, outcome).Observe(float64(elapsed.Milliseconds()))
}

// Handler serves the metrics registered with this instance.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}
