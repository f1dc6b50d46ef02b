package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "floradmin"

// Collector owns the console's Prometheus registry. A nil *Collector is
// valid and records nothing.
type Collector struct {
	registry *prometheus.Registry

	BackendRequests *prometheus.CounterVec
	BackendDuration *prometheus.HistogramVec
	Logins          *prometheus.CounterVec
	BulkDeletes     *prometheus.CounterVec
}

// New creates a Collector with its own registry.
func New() *Collector {
	reg := prometheus.NewRegistry()
	c := &Collector{
		registry: reg,
		BackendRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "backend_requests_total",
			Help:      "Requests sent to the marketplace REST backend",
		}, []string{"method", "status"}),
		BackendDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "backend_request_duration_seconds",
			Help:      "Duration of backend requests in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method"}),
		Logins: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "logins_total",
			Help:      "Login attempts by outcome",
		}, []string{"outcome"}),
		BulkDeletes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bulk_delete_items_total",
			Help:      "Items processed by bulk deletes",
		}, []string{"resource", "outcome"}),
	}
	reg.MustRegister(c.BackendRequests, c.BackendDuration, c.Logins, c.BulkDeletes)
	return c
}

// Handler serves the registry in the Prometheus exposition format.
func (c *Collector) Handler() http.Handler {
	if c == nil {
		return promhttp.HandlerFor(prometheus.NewRegistry(), promhttp.HandlerOpts{})
	}
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// ObserveBackend records one backend call. status 0 means no response.
func (c *Collector) ObserveBackend(method string, status int, elapsed time.Duration) {
	if c == nil {
		return
	}
	c.BackendRequests.WithLabelValues(method, statusClass(status)).Inc()
	c.BackendDuration.WithLabelValues(method).Observe(elapsed.Seconds())
}

// ObserveLogin records a login outcome ("success", "invalid", "error").
func (c *Collector) ObserveLogin(outcome string) {
	if c == nil {
		return
	}
	c.Logins.WithLabelValues(outcome).Inc()
}

// ObserveBulkDelete records the partition of a bulk delete.
func (c *Collector) ObserveBulkDelete(resource string, deleted, failed int) {
	if c == nil {
		return
	}
	c.BulkDeletes.WithLabelValues(resource, "deleted").Add(float64(deleted))
	c.BulkDeletes.WithLabelValues(resource, "failed").Add(float64(failed))
}

func statusClass(status int) string {
	if status <= 0 {
		return "error"
	}
	return strconv.Itoa(status/100) + "xx"
}
