// Package metrics provides the centralized Prometheus metrics registry for the keiba optimizer.
package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Global registry instance
var (
	registry *prometheus.Registry
	once     sync.Once
)

// Counter metrics
var (
	SimulationRunsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "keiba_optimizer",
		Name:      "simulation_runs_total",
		Help:      "Total number of strategy simulation runs",
	}, []string{"mode"})
	StrategyHitsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "keiba_optimizer",
		Name:      "strategy_hits_total",
		Help:      "Total number of profitable strategy outcomes",
	}, []string{"strategy"})
	HighPayoutsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "keiba_optimizer",
		Name:      "high_payouts_total",
		Help:      "Total number of strategy outcomes above the high payout threshold",
	})
	HTTPRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "keiba_optimizer",
		Name:      "http_requests_total",
		Help:      "Total number of API requests served",
	}, []string{"endpoint", "status"})
)

// Gauge metrics
var (
	UpcomingRaces = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "keiba_optimizer",
		Name:      "upcoming_races",
		Help:      "Number of upcoming races known to the refresher",
	})
	LastRefreshTimestamp = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "keiba_optimizer",
		Name:      "last_refresh_timestamp_seconds",
		Help:      "Unix timestamp of the last successful race list refresh",
	})
)

// Histogram metrics
var (
	SimulationDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "keiba_optimizer",
		Name:      "simulation_duration_seconds",
		Help:      "Duration of a full strategy catalog simulation in seconds",
		Buckets:   prometheus.DefBuckets,
	})
	HTTPRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "keiba_optimizer",
		Name:      "http_request_duration_seconds",
		Help:      "Latency of API requests in seconds",
		Buckets:   prometheus.DefBuckets,
	}, []string{"endpoint"})
)

// InitRegistry initializes the global Prometheus registry.
func InitRegistry() *prometheus.Registry {
	once.Do(func() {
		registry = prometheus.NewRegistry()

		registry.MustRegister(SimulationRunsTotal)
		registry.MustRegister(StrategyHitsTotal)
		registry.MustRegister(HighPayoutsTotal)
		registry.MustRegister(HTTPRequestsTotal)

		registry.MustRegister(UpcomingRaces)
		registry.MustRegister(LastRefreshTimestamp)

		registry.MustRegister(SimulationDuration)
		registry.MustRegister(HTTPRequestDuration)
	})
	return registry
}

// GetRegistry returns the global Prometheus registry.
func GetRegistry() *prometheus.Registry {
	if registry == nil {
		return InitRegistry()
	}
	return registry
}

// Handler returns the Prometheus HTTP handler.
func Handler() http.Handler {
	return promhttp.HandlerFor(GetRegistry(), promhttp.HandlerOpts{})
}

// RecordSimulationRun records a completed simulation run.
func RecordSimulationRun(mode string, durationSeconds float64) {
	SimulationRunsTotal.WithLabelValues(mode).Inc()
	SimulationDuration.Observe(durationSeconds)
}

// RecordStrategyHit records a profitable strategy outcome.
func RecordStrategyHit(strategy string) {
	StrategyHitsTotal.WithLabelValues(strategy).Inc()
}

// RecordHighPayout records a strategy outcome above the high payout threshold.
func RecordHighPayout() {
	HighPayoutsTotal.Inc()
}

// RecordHTTPRequest records a served API request.
func RecordHTTPRequest(endpoint, status string, durationSeconds float64) {
	HTTPRequestsTotal.WithLabelValues(endpoint, status).Inc()
	HTTPRequestDuration.WithLabelValues(endpoint).Observe(durationSeconds)
}

// UpdateUpcomingRaces updates the upcoming race count gauge.
func UpdateUpcomingRaces(count float64) {
	UpcomingRaces.Set(count)
}

// UpdateLastRefresh updates the last refresh timestamp gauge.
func UpdateLastRefresh(unixSeconds float64) {
	LastRefreshTimestamp.Set(unixSeconds)
}
