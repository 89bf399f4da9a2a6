package fitd

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the service's Prometheus collectors on a private registry
type Metrics struct {
	registry *prometheus.Registry

	fitsTotal    *prometheus.CounterVec
	fitDuration  *prometheus.HistogramVec
	lastScore    *prometheus.GaugeVec
	requests     *prometheus.CounterVec
	rateLimited  prometheus.Counter
	fitsInFlight prometheus.Gauge
}

func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		fitsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "kinfit_fits_total",
				Help: "Finished fits by model and final status",
			},
			[]string{"model", "status"},
		),
		fitDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "kinfit_fit_duration_seconds",
				Help:    "Wall time of finished fits",
				Buckets: prometheus.ExponentialBuckets(0.001, 4, 10),
			},
			[]string{"model"},
		),
		lastScore: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "kinfit_last_score",
				Help: "Objective value of the most recent completed fit",
			},
			[]string{"model"},
		),
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "kinfit_http_requests_total",
				Help: "HTTP requests by route and status code",
			},
			[]string{"route", "code"},
		),
		rateLimited: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "kinfit_http_rate_limited_total",
				Help: "HTTP requests rejected by the rate limiter",
			},
		),
		fitsInFlight: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "kinfit_fits_in_flight",
				Help: "Fits currently running",
			},
		),
	}
	m.registry.MustRegister(m.fitsTotal, m.fitDuration, m.lastScore, m.requests, m.rateLimited, m.fitsInFlight)
	return m
}

// Handler serves the registry in the Prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry exposes the underlying registry, e.g. for tests
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) fitStarted() {
	m.fitsInFlight.Inc()
}

func (m *Metrics) fitFinished(model string, status FitStatus, elapsed time.Duration, score float64) {
	m.fitsInFlight.Dec()
	m.fitsTotal.WithLabelValues(model, string(status)).Inc()
	m.fitDuration.WithLabelValues(model).Observe(elapsed.Seconds())
	if status == StatusCompleted {
		m.lastScore.WithLabelValues(model).Set(score)
	}
}

func (m *Metrics) request(route string, code int) {
	m.requests.WithLabelValues(route, http.StatusText(code)).Inc()
}
