package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Provider metrics
var (
	// ProviderRequestsTotal counts calls to external weather, tide and geocoding services
	ProviderRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "coastal_provider_requests_total",
			Help: "Total number of requests made to external data providers",
		},
		[]string{"provider", "status"},
	)

	// ProviderRequestDuration tracks provider latency
	ProviderRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "coastal_provider_request_duration_seconds",
			Help:    "Duration of external provider requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"provider"},
	)
)

// Recommendation metrics
var (
	// OutlooksTotal counts generated outlooks by weather category
	OutlooksTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "coastal_outlooks_total",
			Help: "Total number of activity outlooks generated, by weather category",
		},
		[]string{"category"},
	)

	// TierAssignmentsTotal counts activities placed in each tier
	TierAssignmentsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "coastal_tier_assignments_total",
			Help: "Total number of activities assigned to each recommendation tier",
		},
		[]string{"tier"},
	)

	// TideUnknownTotal counts outlooks ranked without tide data
	TideUnknownTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "coastal_tide_unknown_total",
			Help: "Total number of outlooks that fell back to weather-only ranking",
		},
	)
)

// Catalog metrics
var (
	// CatalogQueriesTotal tracks activity catalog queries
	CatalogQueriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "coastal_catalog_queries_total",
			Help: "Total number of activity catalog queries executed",
		},
		[]string{"operation", "status"},
	)

	// CatalogQueryDuration tracks catalog query latency
	CatalogQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "coastal_catalog_query_duration_seconds",
			Help:    "Duration of activity catalog queries in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)
)

// HTTP metrics
var (
	// HTTPRequestsTotal counts API requests
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "coastal_http_requests_total",
			Help: "Total number of HTTP API requests",
		},
		[]string{"method", "route", "status"},
	)

	// HTTPRequestDuration tracks API latency
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "coastal_http_request_duration_seconds",
			Help:    "Duration of HTTP API requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)
)

var (
	// AppStartTime records when the application started
	AppStartTime = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "coastal_app_start_time_seconds",
			Help: "Unix timestamp of when the application started",
		},
	)
)

func init() {
	AppStartTime.SetToCurrentTime()
}

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}

// RecordProviderCall records one request to an external provider
func RecordProviderCall(provider string, duration time.Duration, err error) {
	ProviderRequestsTotal.WithLabelValues(provider, status(err)).Inc()
	ProviderRequestDuration.WithLabelValues(provider).Observe(duration.Seconds())
}

// RecordCatalogQuery records an activity catalog query
func RecordCatalogQuery(operation string, duration time.Duration, err error) {
	CatalogQueriesTotal.WithLabelValues(operation, status(err)).Inc()
	CatalogQueryDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// RecordOutlook records a generated outlook and how many activities landed in each tier
func RecordOutlook(category string, tierCounts map[string]int, tideKnown bool) {
	OutlooksTotal.WithLabelValues(category).Inc()
	for tier, n := range tierCounts {
		TierAssignmentsTotal.WithLabelValues(tier).Add(float64(n))
	}
	if !tideKnown {
		TideUnknownTotal.Inc()
	}
}

// RecordHTTPRequest records one API request
func RecordHTTPRequest(method, route string, code int, duration time.Duration) {
	HTTPRequestsTotal.WithLabelValues(method, route, statusClass(code)).Inc()
	HTTPRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

func statusClass(code int) string {
	switch {
	case code >= 500:
		return "5xx"
	case code >= 400:
		return "4xx"
	case code >= 300:
		return "3xx"
	}
	return "2xx"
}
