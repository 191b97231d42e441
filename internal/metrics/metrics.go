package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// Delivery metrics
	DeliveriesTotal         *prometheus.CounterVec
	DeliveryDurationSeconds *prometheus.HistogramVec

	// Run metrics
	RunsTotal          *prometheus.CounterVec
	RunDurationSeconds prometheus.Histogram

	// Catalog metrics
	CatalogLoadsTotal *prometheus.CounterVec
	CatalogTopics     prometheus.Gauge
	CatalogMessages   prometheus.Gauge

	// Rotation metrics
	OverrideFallbacksTotal prometheus.Counter

	// HTTP metrics
	HTTPErrorsTotal *prometheus.CounterVec
}

// New creates a new Metrics instance with all metrics registered
func New(registry *prometheus.Registry) *Metrics {
	m := &Metrics{
		// Delivery metrics
		DeliveriesTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "tipbot_deliveries_total",
				Help: "Total number of delivery attempts by channel and status",
			},
			[]string{"channel", "status"}, // status: success, error
		),

		DeliveryDurationSeconds: promauto.With(registry).NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "tipbot_delivery_duration_seconds",
				Help:    "Chat API delivery duration in seconds by transport",
				Buckets: []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 15}, // Matches 15s delivery timeout
			},
			[]string{"transport"}, // transport: slack, line
		),

		// Run metrics
		RunsTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "tipbot_runs_total",
				Help: "Total number of posting runs by trigger and status",
			},
			[]string{"trigger", "status"}, // trigger: cron, manual, http; status: success, partial, error
		),

		RunDurationSeconds: promauto.With(registry).NewHistogram(
			prometheus.HistogramOpts{
				Name:    "tipbot_run_duration_seconds",
				Help:    "Total duration of a posting run",
				Buckets: []float64{0.5, 1, 2, 5, 10, 30, 60, 120}, // Matches 2m run timeout
			},
		),

		// Catalog metrics
		CatalogLoadsTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "tipbot_catalog_loads_total",
				Help: "Total number of catalog loads by source and status",
			},
			[]string{"source", "status"}, // source: file, r2; status: success, error
		),

		CatalogTopics: promauto.With(registry).NewGauge(
			prometheus.GaugeOpts{
				Name: "tipbot_catalog_topics",
				Help: "Number of topics in the most recently loaded catalog",
			},
		),

		CatalogMessages: promauto.With(registry).NewGauge(
			prometheus.GaugeOpts{
				Name: "tipbot_catalog_messages",
				Help: "Number of messages in the most recently loaded catalog",
			},
		),

		// Rotation metrics
		OverrideFallbacksTotal: promauto.With(registry).NewCounter(
			prometheus.CounterOpts{
				Name: "tipbot_override_fallbacks_total",
				Help: "Total number of override weeks that fell back to modulo rotation",
			},
		),

		// HTTP metrics
		HTTPErrorsTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "tipbot_http_errors_total",
				Help: "Total HTTP errors by type and endpoint",
			},
			[]string{"error_type", "endpoint"}, // error_type: unauthorized, not_ready, run_failed
		),
	}

	return m
}

// RecordDelivery records a delivery attempt with status
func (m *Metrics) RecordDelivery(channel, status string) {
	m.DeliveriesTotal.WithLabelValues(channel, status).Inc()
}

// RecordDeliveryDuration records the duration of a chat API call
func (m *Metrics) RecordDeliveryDuration(transport string, duration float64) {
	m.DeliveryDurationSeconds.WithLabelValues(transport).Observe(duration)
}

// RecordRun records a posting run
func (m *Metrics) RecordRun(trigger, status string, duration float64) {
	m.RunsTotal.WithLabelValues(trigger, status).Inc()
	m.RunDurationSeconds.Observe(duration)
}

// RecordCatalogLoad records a catalog load attempt
func (m *Metrics) RecordCatalogLoad(source, status string) {
	m.CatalogLoadsTotal.WithLabelValues(source, status).Inc()
}

// SetCatalogSize records the topic and message counts of a loaded catalog
func (m *Metrics) SetCatalogSize(topics, messages int) {
	m.CatalogTopics.Set(float64(topics))
	m.CatalogMessages.Set(float64(messages))
}

// RecordOverrideFallback records an override week that fell back to modulo rotation
func (m *Metrics) RecordOverrideFallback() {
	m.OverrideFallbacksTotal.Inc()
}

// RecordHTTPError records HTTP error metrics
func (m *Metrics) RecordHTTPError(errorType, endpoint string) {
	m.HTTPErrorsTotal.WithLabelValues(errorType, endpoint).Inc()
}
