package scraper

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics bundles Prometheus collectors for the job scraper.
type Metrics struct {
	Registry        *prometheus.Registry
	RequestsTotal   *prometheus.CounterVec
	RequestDuration prometheus.Histogram
	JobsScraped     *prometheus.CounterVec
	RetriesTotal    prometheus.Counter
	ErrorsTotal     *prometheus.CounterVec
}

// NewMetrics constructs and registers all metrics on a dedicated registry.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()

	requests := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "jobspy_requests_total",
			Help: "Total search-page requests issued by the scraper.",
		},
		[]string{"phase"},
	)
	requestDuration := prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "jobspy_request_duration_seconds",
			Help:    "Search-page request latency.",
			Buckets: prometheus.DefBuckets,
		},
	)
	jobsScraped := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "jobspy_jobs_scraped_total",
			Help: "Total job cards sent to the pipeline, by site.",
		},
		[]string{"site"},
	)
	retries := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "jobspy_retries_total",
			Help: "Total number of retry attempts scheduled.",
		},
	)
	errorsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "jobspy_errors_total",
			Help: "Total number of fetch errors by category.",
		},
		[]string{"category"},
	)

	registry.MustRegister(requests, requestDuration, jobsScraped, retries, errorsTotal)

	return &Metrics{
		Registry:        registry,
		RequestsTotal:   requests,
		RequestDuration: requestDuration,
		JobsScraped:     jobsScraped,
		RetriesTotal:    retries,
		ErrorsTotal:     errorsTotal,
	}
}

// IncRequest increments the requests total counter.
func (m *Metrics) IncRequest(phase string) {
	if m == nil {
		return
	}
	m.RequestsTotal.WithLabelValues(phase).Inc()
}

// ObserveDuration records a search-page request duration.
func (m *Metrics) ObserveDuration(d time.Duration) {
	if m == nil {
		return
	}
	m.RequestDuration.Observe(d.Seconds())
}

// IncJobs increments the scraped jobs counter for a site.
func (m *Metrics) IncJobs(site string) {
	if m == nil {
		return
	}
	m.JobsScraped.WithLabelValues(site).Inc()
}

// IncRetries increments the retries counter.
func (m *Metrics) IncRetries() {
	if m == nil {
		return
	}
	m.RetriesTotal.Inc()
}

// IncError increments the errors counter for a category label.
func (m *Metrics) IncError(category Category) {
	if m == nil {
		return
	}
	m.ErrorsTotal.WithLabelValues(string(category)).Inc()
}
