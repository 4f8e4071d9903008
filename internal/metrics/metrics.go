package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Delete results recorded by MeasurementDeleted.
const (
	ResultDeleted  = "deleted"
	ResultNotFound = "not_found"
	ResultError    = "error"
)

// Collector holds all Prometheus metrics for the shop server.
// A nil *Collector is valid and records nothing.
type Collector struct {
	requestDuration    *prometheus.HistogramVec
	queryDuration      *prometheus.HistogramVec
	measurementDeletes *prometheus.CounterVec
	paymentsRecorded   *prometheus.CounterVec
	gatherer           prometheus.Gatherer
}

// New creates the collector and registers it with the default registry.
func New() *Collector {
	return NewWithRegistry(prometheus.DefaultRegisterer, prometheus.DefaultGatherer)
}

// NewWithRegistry creates the collector on a caller-supplied registry.
// PRE: reg and gatherer refer to the same registry
// POST: all metrics are registered; panics on duplicate registration
func NewWithRegistry(reg prometheus.Registerer, gatherer prometheus.Gatherer) *Collector {
	c := &Collector{
		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "tailorshop_http_request_duration_seconds",
				Help:    "Duration of HTTP requests by method, route pattern and status",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route", "status"},
		),
		queryDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "tailorshop_db_query_duration_seconds",
				Help:    "Duration of database calls by operation",
				Buckets: prometheus.ExponentialBuckets(0.0005, 2, 12),
			},
			[]string{"op"},
		),
		measurementDeletes: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tailorshop_measurement_deletes_total",
				Help: "Measurement delete requests by result",
			},
			[]string{"result"},
		),
		paymentsRecorded: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tailorshop_payments_recorded_total",
				Help: "Bill updates by resulting payment status",
			},
			[]string{"status"},
		),
		gatherer: gatherer,
	}

	reg.MustRegister(
		c.requestDuration,
		c.queryDuration,
		c.measurementDeletes,
		c.paymentsRecorded,
	)

	return c
}

// ObserveRequest records one served HTTP request.
func (c *Collector) ObserveRequest(method, route string, status int, d time.Duration) {
	if c == nil {
		return
	}
	c.requestDuration.WithLabelValues(method, route, strconv.Itoa(status)).Observe(d.Seconds())
}

// ObserveQuery records one database call.
func (c *Collector) ObserveQuery(op string, d time.Duration) {
	if c == nil {
		return
	}
	c.queryDuration.WithLabelValues(op).Observe(d.Seconds())
}

// MeasurementDeleted counts a delete attempt by result.
func (c *Collector) MeasurementDeleted(result string) {
	if c == nil {
		return
	}
	c.measurementDeletes.WithLabelValues(result).Inc()
}

// PaymentRecorded counts a bill update by its resulting payment status.
func (c *Collector) PaymentRecorded(status string) {
	if c == nil {
		return
	}
	c.paymentsRecorded.WithLabelValues(status).Inc()
}

// Handler serves the registry in the Prometheus exposition format.
func (c *Collector) Handler() http.Handler {
	if c == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(c.gatherer, promhttp.HandlerOpts{})
}
