// Package metrics содержит Prometheus-коллекторы сервиса.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "notebuddy"

// Исходы генерации резюме.
const (
	SummarySuccess  = "success"
	SummaryFallback = "fallback"
	SummarySkipped  = "skipped"
)

// Результаты обращения к кэшу.
const (
	CacheHit   = "hit"
	CacheMiss  = "miss"
	CacheError = "error"
)

// Metrics - набор коллекторов, зарегистрированных в собственном реестре.
type Metrics struct {
	registry *prometheus.Registry

	summaries     *prometheus.CounterVec
	cacheRequests *prometheus.CounterVec
	httpDuration  *prometheus.HistogramVec
}

// New создает реестр с коллекторами процесса и Go runtime.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		summaries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "summaries_total",
			Help:      "Summary generations by outcome.",
		}, []string{"outcome"}),
		cacheRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "notes_cache_requests_total",
			Help:      "Note collection cache lookups by result.",
		}, []string{"result"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.summaries,
		m.cacheRequests,
		m.httpDuration,
	)

	return m
}

// Registry возвращает реестр. Для тестов и дополнительных коллекторов.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler отдает метрики в формате Prometheus.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// ObserveSummary учитывает исход генерации резюме.
func (m *Metrics) ObserveSummary(outcome string) {
	if m == nil {
		return
	}
	m.summaries.WithLabelValues(outcome).Inc()
}

// ObserveCache учитывает обращение к кэшу коллекций.
func (m *Metrics) ObserveCache(result string) {
	if m == nil {
		return
	}
	m.cacheRequests.WithLabelValues(result).Inc()
}

// ObserveHTTP учитывает длительность HTTP-запроса.
func (m *Metrics) ObserveHTTP(method, route string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.httpDuration.WithLabelValues(method, route, strconv.Itoa(status)).Observe(elapsed.Seconds())
}
