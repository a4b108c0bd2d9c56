package scraper

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics bundles Prometheus collectors for the scraper. It also receives
// the extraction counters of extract.Parser.
type Metrics struct {
	Registry               *prometheus.Registry
	RequestsTotal          *prometheus.CounterVec
	RequestDuration        prometheus.Histogram
	ItemsScrapedTotal      prometheus.Counter
	RetriesTotal           prometheus.Counter
	ErrorsTotal            *prometheus.CounterVec
	ContainersTotal        prometheus.Counter
	RecordsTotal           prometheus.Counter
	ItemErrorsTotal        *prometheus.CounterVec
	ExtractorFailuresTotal *prometheus.CounterVec
}

// NewMetrics constructs and registers all metrics on a dedicated registry.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()

	requests := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scraper_requests_total",
			Help: "Total HTTP requests issued by the scraper.",
		},
		[]string{"phase"},
	)
	requestDuration := prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "scraper_request_duration_seconds",
			Help:    "HTTP request latency for scraper requests.",
			Buckets: prometheus.DefBuckets,
		},
	)
	itemsScraped := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "scraper_items_scraped_total",
			Help: "Total number of product records sent to the pipeline.",
		},
	)
	retries := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "scraper_retries_total",
			Help: "Total number of retry attempts scheduled.",
		},
	)
	errorsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scraper_errors_total",
			Help: "Total number of scraper errors by type.",
		},
		[]string{"error_type"},
	)
	containers := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "extract_containers_total",
			Help: "Product containers handed to the assembler.",
		},
	)
	records := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "extract_records_total",
			Help: "Product records assembled.",
		},
	)
	itemErrors := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "extract_item_errors_total",
			Help: "Per-item extraction errors by kind.",
		},
		[]string{"kind"},
	)
	extractorFailures := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "extract_extractor_failures_total",
			Help: "Isolated field extractor failures by field.",
		},
		[]string{"field"},
	)

	registry.MustRegister(requests, requestDuration, itemsScraped, retries, errorsTotal,
		containers, records, itemErrors, extractorFailures)

	return &Metrics{
		Registry:               registry,
		RequestsTotal:          requests,
		RequestDuration:        requestDuration,
		ItemsScrapedTotal:      itemsScraped,
		RetriesTotal:           retries,
		ErrorsTotal:            errorsTotal,
		ContainersTotal:        containers,
		RecordsTotal:           records,
		ItemErrorsTotal:        itemErrors,
		ExtractorFailuresTotal: extractorFailures,
	}
}

// IncRequest increments the requests total counter.
func (m *Metrics) IncRequest(phase string) {
	if m == nil {
		return
	}
	m.RequestsTotal.WithLabelValues(phase).Inc()
}

// ObserveDuration records an HTTP request duration.
func (m *Metrics) ObserveDuration(d time.Duration) {
	if m == nil {
		return
	}
	m.RequestDuration.Observe(d.Seconds())
}

// AddItems counts records accepted by the pipeline.
func (m *Metrics) AddItems(n int) {
	if m == nil {
		return
	}
	m.ItemsScrapedTotal.Add(float64(n))
}

// IncRetries increments the retries counter.
func (m *Metrics) IncRetries() {
	if m == nil {
		return
	}
	m.RetriesTotal.Inc()
}

// IncError increments the errors counter for a type label.
func (m *Metrics) IncError(errorType string) {
	if m == nil {
		return
	}
	m.ErrorsTotal.WithLabelValues(errorType).Inc()
}

func (m *Metrics) IncContainers(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.ContainersTotal.Add(float64(n))
}

func (m *Metrics) IncRecords() {
	if m == nil {
		return
	}
	m.RecordsTotal.Inc()
}

func (m *Metrics) IncItemError(kind string) {
	if m == nil {
		return
	}
	m.ItemErrorsTotal.WithLabelValues(kind).Inc()
}

func (m *Metrics) IncExtractorFailure(field string) {
	if m == nil {
		return
	}
	m.ExtractorFailuresTotal.WithLabelValues(field).Inc()
}
