package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce          sync.Once
	consoleRequestsTotal  *prometheus.CounterVec
	consoleLatencySeconds *prometheus.HistogramVec
	consoleErrorsTotal    *prometheus.CounterVec
	backendRequestsTotal  *prometheus.CounterVec
	backendLatencySeconds *prometheus.HistogramVec
	activityRecordsTotal  *prometheus.CounterVec
	dashboardCacheTotal   *prometheus.CounterVec
	activityStreamClients prometheus.Gauge
)

// RegisterMetrics initialises the Prometheus collectors used by the console.
func RegisterMetrics() {
	registerOnce.Do(func() {
		consoleRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "console_requests_total",
			Help: "Total number of console requests served.",
		}, []string{"method", "route", "status"})

		consoleLatencySeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "console_latency_seconds",
			Help:    "Latency distribution for console requests.",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.0},
		}, []string{"method", "route"})

		consoleErrorsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "console_errors_total",
			Help: "Total number of error responses returned by the console.",
		}, []string{"method", "route", "status"})

		backendRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "backend_requests_total",
			Help: "Calls made to the school backend, by outcome.",
		}, []string{"method", "resource", "outcome"})

		backendLatencySeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "backend_latency_seconds",
			Help:    "Latency distribution for school backend calls.",
			Buckets: []float64{0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0},
		}, []string{"method", "resource"})

		activityRecordsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "activity_records_total",
			Help: "Activity trail entries written, by action.",
		}, []string{"action"})

		dashboardCacheTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "dashboard_cache_total",
			Help: "Dashboard statistics cache lookups, by result.",
		}, []string{"result"})

		activityStreamClients = prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "activity_stream_clients",
			Help: "Open activity stream connections.",
		})

		prometheus.MustRegister(
			consoleRequestsTotal,
			consoleLatencySeconds,
			consoleErrorsTotal,
			backendRequestsTotal,
			backendLatencySeconds,
			activityRecordsTotal,
			dashboardCacheTotal,
			activityStreamClients,
		)
	})
}

// ConsoleRequests exposes the counter for console requests.
func ConsoleRequests() *prometheus.CounterVec {
	RegisterMetrics()
	return consoleRequestsTotal
}

// ConsoleLatency exposes the latency histogram for console requests.
func ConsoleLatency() *prometheus.HistogramVec {
	RegisterMetrics()
	return consoleLatencySeconds
}

// ConsoleErrors exposes the counter for console error responses.
func ConsoleErrors() *prometheus.CounterVec {
	RegisterMetrics()
	return consoleErrorsTotal
}

// BackendRequests exposes the counter for outbound backend calls.
func BackendRequests() *prometheus.CounterVec {
	RegisterMetrics()
	return backendRequestsTotal
}

// BackendLatency exposes the latency histogram for outbound backend calls.
func BackendLatency() *prometheus.HistogramVec {
	RegisterMetrics()
	return backendLatencySeconds
}

// ActivityRecords exposes the counter for activity trail writes.
func ActivityRecords() *prometheus.CounterVec {
	RegisterMetrics()
	return activityRecordsTotal
}

// DashboardCache exposes the counter for dashboard cache lookups.
func DashboardCache() *prometheus.CounterVec {
	RegisterMetrics()
	return dashboardCacheTotal
}

// ActivityStreamClients exposes the gauge of open activity streams.
func ActivityStreamClients() prometheus.Gauge {
	RegisterMetrics()
	return activityStreamClients
}
