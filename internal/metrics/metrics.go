// internal/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Requests counts outgoing requests per replayed endpoint.
	Requests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "scraper_caixa",
		Name:      "requests_total",
		Help:      "Outgoing HTTP requests per endpoint.",
	}, []string{"endpoint"})

	// RequestFailures counts requests that failed after all retries.
	RequestFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "scraper_caixa",
		Name:      "request_failures_total",
		Help:      "Requests that failed after retries, per endpoint.",
	}, []string{"endpoint"})

	// PropertiesScraped counts rows produced across all runs.
	PropertiesScraped = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "scraper_caixa",
		Name:      "properties_scraped_total",
		Help:      "Properties extracted across all runs.",
	})

	// Runs counts scrape runs by final status.
	Runs = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "scraper_caixa",
		Name:      "runs_total",
		Help:      "Scrape runs by status.",
	}, []string{"status"})

	// RunDuration observes wall-clock duration of full runs.
	RunDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "scraper_caixa",
		Name:      "run_duration_seconds",
		Help:      "Duration of full scrape runs.",
		Buckets:   prometheus.ExponentialBuckets(1, 2, 12),
	})
)
