// internal/metrics/metrics.go
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	ProviderRequestTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "github_provider_requests_total",
		Help: "GitHub API requests by endpoint and HTTP status (0 for transport failures).",
	}, []string{"endpoint", "status"})

	ProviderRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "github_provider_request_duration_seconds",
		Help:    "GitHub API round-trip duration.",
		Buckets: prometheus.DefBuckets,
	}, []string{"endpoint"})

	RateLimitRemaining = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "github_rate_limit_remaining",
		Help: "Remaining GitHub API budget reported by the last response.",
	})

	SyncRunsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "portfolio_sync_runs_total",
		Help: "Account sync runs by result.",
	}, []string{"result"})

	SyncDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "portfolio_sync_duration_seconds",
		Help:    "Duration of a full account sync.",
		Buckets: []float64{.1, .25, .5, 1, 2.5, 5, 10, 30, 60, 120, 300},
	})

	SyncedRepositoriesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "portfolio_synced_repositories_total",
		Help: "Repositories upserted by the ingest pipeline.",
	})
)

// MustRegister registers all collectors.
func MustRegister(registerer prometheus.Registerer) {
	registerer.MustRegister(
		ProviderRequestTotal,
		ProviderRequestDuration,
		RateLimitRemaining,
		SyncRunsTotal,
		SyncDuration,
		SyncedRepositoriesTotal,
	)
}

// Handler serves the default gatherer.
func Handler() http.Handler {
	return promhttp.Handler()
}

// ObserveProviderCall records one GitHub API round trip.
func ObserveProviderCall(endpoint string, status int, start time.Time) {
	ProviderRequestTotal.WithLabelValues(endpoint, strconv.Itoa(status)).Inc()
	ProviderRequestDuration.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
}

// ObserveSync records the outcome of one account sync.
func ObserveSync(result string, start time.Time) {
	SyncRunsTotal.WithLabelValues(result).Inc()
	SyncDuration.Observe(time.Since(start).Seconds())
}
