package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Prometheus exports measurements and HTTP request metrics.
type Prometheus struct {
	// OperationDuration tracks Measure'd operations by source, destination and operation.
	OperationDuration *prometheus.HistogramVec

	// OperationsTotal counts Measure'd operations, partitioned by status.
	OperationsTotal *prometheus.CounterVec

	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
}

// NewPrometheus registers the collectors on reg. Pass prometheus.DefaultRegisterer
// in production and a fresh prometheus.NewRegistry() in tests.
func NewPrometheus(reg prometheus.Registerer) *Prometheus {
	f := promauto.With(reg)
	return &Prometheus{
		OperationDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "ticket_ledger_operation_duration_seconds",
			Help:    "Duration of instrumented operations in seconds",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1.0},
		}, []string{"source", "destination", "operation"}),
		OperationsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "ticket_ledger_operations_total",
			Help: "Total instrumented operations",
		}, []string{"source", "destination", "operation", "status"}),
		HTTPRequestsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "ticket_ledger_http_requests_total",
			Help: "Total HTTP requests",
		}, []string{"method", "path", "status"}),
		HTTPRequestDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "ticket_ledger_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0},
		}, []string{"method", "path"}),
	}
}

func (p *Prometheus) Observe(m Measurement) {
	p.OperationDuration.WithLabelValues(m.Source, m.Destination, m.Operation).Observe(m.Duration.Seconds())
	p.OperationsTotal.WithLabelValues(m.Source, m.Destination, m.Operation, m.Status).Inc()
}

// ObserveHTTP records one served request. path should be the route
// pattern, not the raw URL, to keep label cardinality bounded.
func (p *Prometheus) ObserveHTTP(method, path string, status int, d time.Duration) {
	p.HTTPRequestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	p.HTTPRequestDuration.WithLabelValues(method, path).Observe(d.Seconds())
}

// Handler returns the Prometheus metrics HTTP handler for g.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}
