package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// MetricsRegistry holds all Prometheus metrics for Quarterdeck
type MetricsRegistry struct {
	// HTTP Metrics
	HTTPRequestsTotal    prometheus.CounterVec
	HTTPRequestDuration  prometheus.HistogramVec
	HTTPRequestsInFlight prometheus.GaugeVec

	// Cache Metrics
	CacheHitsTotal   prometheus.CounterVec
	CacheMissesTotal prometheus.CounterVec

	// Auth Metrics
	LoginsTotal       prometheus.CounterVec
	OAuthFlowsTotal   prometheus.CounterVec
	SessionsIssued    prometheus.Counter
	LoginFailuresTotal prometheus.Counter

	// Sync Metrics
	SyncRunsTotal      prometheus.CounterVec
	SyncRecordsTotal   prometheus.CounterVec
	SyncJobDuration    prometheus.HistogramVec
	CatalogShipsStored prometheus.Gauge
}

// NewMetricsRegistry initializes and returns a new MetricsRegistry with all metrics
func NewMetricsRegistry() *MetricsRegistry {
	return &MetricsRegistry{
		// HTTP Metrics
		HTTPRequestsTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "quarterdeck_http_requests_total",
				Help: "Total HTTP requests processed by endpoint, method, and status code",
			},
			[]string{"endpoint", "method", "status_code"},
		),
		HTTPRequestDuration: *promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "quarterdeck_http_request_duration_seconds",
				Help:    "HTTP request latency distribution in seconds",
				Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
			},
			[]string{"endpoint", "method"},
		),
		HTTPRequestsInFlight: *promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "quarterdeck_http_requests_in_flight",
				Help: "Number of HTTP requests currently being processed",
			},
			[]string{"endpoint"},
		),

		// Cache Metrics
		CacheHitsTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "quarterdeck_cache_hits_total",
				Help: "Total cache hits by cache key pattern",
			},
			[]string{"cache_key_pattern"},
		),
		CacheMissesTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "quarterdeck_cache_misses_total",
				Help: "Total cache misses by cache key pattern",
			},
			[]string{"cache_key_pattern"},
		),

		// Auth Metrics
		LoginsTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "quarterdeck_logins_total",
				Help: "Successful logins by method (local, discord)",
			},
			[]string{"method"},
		),
		OAuthFlowsTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "quarterdeck_oauth_flows_total",
				Help: "OAuth callback outcomes (success, state_mismatch, exchange_failed)",
			},
			[]string{"outcome"},
		),
		SessionsIssued: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "quarterdeck_sessions_issued_total",
				Help: "Total session tokens issued",
			},
		),
		LoginFailuresTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "quarterdeck_login_failures_total",
				Help: "Total rejected login attempts",
			},
		),

		// Sync Metrics
		SyncRunsTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "quarterdeck_sync_runs_total",
				Help: "Synchronizer runs by job name and result",
			},
			[]string{"job_name", "result"},
		),
		SyncRecordsTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "quarterdeck_sync_records_total",
				Help: "Records touched by synchronizer runs, by job and outcome",
			},
			[]string{"job_name", "outcome"},
		),
		SyncJobDuration: *promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "quarterdeck_sync_job_duration_seconds",
				Help:    "Sync job execution time in seconds",
				Buckets: []float64{0.5, 1, 5, 10, 30, 60, 120, 300, 600},
			},
			[]string{"job_name"},
		),
		CatalogShipsStored: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "quarterdeck_catalog_ships_stored",
				Help: "Current number of ships in the local catalog",
			},
		),
	}
}
