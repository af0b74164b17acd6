package app

import (
	"log/slog"

	"github.com/teamsync/teamsync/internal/events"
	"github.com/teamsync/teamsync/internal/metrics"
	"github.com/teamsync/teamsync/internal/session"
)

// Option is a functional option for configuring App initialization
type Option func(*appConfig)

// appConfig holds the configuration for App initialization
type appConfig struct {
	publisher  events.Publisher
	subscriber events.Subscriber
	sessions   session.Store
	metrics    *metrics.Metrics
	logger     *slog.Logger
	instanceID string
	hashCost   int
	maxUpload  int64
}

// WithEventPublisher adds an external event sink, typically a broker
func WithEventPublisher(p events.Publisher) Option {
	return func(cfg *appConfig) {
		cfg.publisher = p
	}
}

// WithEventSubscriber receives events published by other instances
func WithEventSubscriber(s events.Subscriber) Option {
	return func(cfg *appConfig) {
		cfg.subscriber = s
	}
}

// WithSessionStore sets where login sessions are kept
func WithSessionStore(s session.Store) Option {
	return func(cfg *appConfig) {
		cfg.sessions = s
	}
}

// WithMetrics sets the collectors; tests pass their own to inspect them
func WithMetrics(m *metrics.Metrics) Option {
	return func(cfg *appConfig) {
		cfg.metrics = m
	}
}

// WithLogger sets the logger for the application
func WithLogger(logger *slog.Logger) Option {
	return func(cfg *appConfig) {
		cfg.logger = logger
	}
}

// WithHashCost sets the bcrypt cost used for passwords
func WithHashCost(cost int) Option {
	return func(cfg *appConfig) {
		cfg.hashCost = cost
	}
}

// WithMaxUploadBytes caps avatar and attachment uploads
func WithMaxUploadBytes(n int64) Option {
	return func(cfg *appConfig) {
		cfg.maxUpload = n
	}
}
