// Package metrics exposes TeamSync's Prometheus collectors.
package metrics

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/teamsync/teamsync/internal/board"
	"github.com/teamsync/teamsync/internal/events"
)

const namespace = "teamsync"

// Metrics tracks server statistics. Each instance owns its registry so tests
// can create as many as they like.
type Metrics struct {
	registry *prometheus.Registry

	httpRequests    *prometheus.CounterVec
	httpDuration    *prometheus.HistogramVec
	boardIntents    *prometheus.CounterVec
	rollbacks       prometheus.Counter
	eventsPublished *prometheus.CounterVec

	StartTime time.Time
}

// New creates the collectors and registers them with a fresh registry
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by route pattern, method and status code.",
		}, []string{"route", "method", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route pattern and method.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route", "method"}),
		boardIntents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "board_intents_total",
			Help:      "Board intents dispatched by kind and outcome.",
		}, []string{"kind", "outcome"}),
		rollbacks: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "board_rollbacks_total",
			Help:      "Board intents undone after a failed write.",
		}),
		eventsPublished: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_published_total",
			Help:      "Change events published by type.",
		}, []string{"type"}),
		StartTime: time.Now(),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.httpRequests,
		m.httpDuration,
		m.boardIntents,
		m.rollbacks,
		m.eventsPublished,
	)
	return m
}

// Handler serves the registry in the Prometheus text format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry returns the underlying registry
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// ObserveRequest records one served HTTP request
func (m *Metrics) ObserveRequest(route, method string, status int, elapsed time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	m.httpRequests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(route, method).Observe(elapsed.Seconds())
}

// ObserveIntent records one dispatched board intent. It matches the
// signature expected by board.WithObserver.
func (m *Metrics) ObserveIntent(kind, outcome string) {
	m.boardIntents.WithLabelValues(kind, outcome).Inc()
	if outcome == board.OutcomeRolledBack {
		m.rollbacks.Inc()
	}
}

// BoardOption wires intent counting into every cached board
func (m *Metrics) BoardOption() board.Option {
	return board.WithObserver(m.ObserveIntent)
}

// Publish counts an event; it lets Metrics sit in the event fan-out
func (m *Metrics) Publish(_ context.Context, e events.Event) error {
	m.eventsPublished.WithLabelValues(string(e.Type)).Inc()
	return nil
}

// Uptime returns the time since the collectors were created
func (m *Metrics) Uptime() time.Duration {
	return time.Since(m.StartTime)
}

var _ events.Publisher = (*Metrics)(nil)
