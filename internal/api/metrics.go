package api

import (
	"fmt"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const metricsNamespace = "valens"

// Metrics exports calculation and HTTP metrics to Prometheus.
type Metrics struct {
	calculations    *prometheus.CounterVec
	activeLookups   *prometheus.CounterVec
	sessionsCreated prometheus.Counter
	requestDuration *prometheus.HistogramVec
}

// NewMetrics registers all collectors on reg. A nil reg uses the default registerer.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	m := &Metrics{
		calculations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "calculations_total",
			Help:      "Chart calculations by outcome.",
		}, []string{"outcome"}),
		activeLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "active_lookups_total",
			Help:      "Active period lookups by resolved cycle number.",
		}, []string{"cycle"}),
		sessionsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "sessions_created_total",
			Help:      "Chart sessions stored for later age lookups.",
		}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route and status.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route", "status"}),
	}

	collectors := []prometheus.Collector{m.calculations, m.activeLookups, m.sessionsCreated, m.requestDuration}
	for _, c := range collectors {
		if err := reg.Register(c); err != nil {
			return nil, fmt.Errorf("register metric: %w", err)
		}
	}
	return m, nil
}

// Calculation outcomes
const (
	outcomeOK      = "ok"
	outcomeInvalid = "invalid"
	outcomeError   = "error"
)

func (m *Metrics) recordCalculation(outcome string) {
	if m == nil {
		return
	}
	m.calculations.WithLabelValues(outcome).Inc()
}

func (m *Metrics) recordActiveLookup(cycle int) {
	if m == nil {
		return
	}
	m.activeLookups.WithLabelValues(strconv.Itoa(cycle)).Inc()
}

func (m *Metrics) recordSession() {
	if m == nil {
		return
	}
	m.sessionsCreated.Inc()
}

// ObserveRequest records one HTTP request.
func (m *Metrics) ObserveRequest(route string, status int, d time.Duration) {
	if m == nil {
		return
	}
	m.requestDuration.WithLabelValues(route, strconv.Itoa(status)).Observe(d.Seconds())
}
