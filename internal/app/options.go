package app

import (
	"log/slog"

	"github.com/MahdiIsse/project-management-sub001/internal/events"
	"github.com/MahdiIsse/project-management-sub001/internal/storage"
)

// Option is a functional option for configuring App initialization
type Option func(*appConfig)

type appConfig struct {
	eventClient events.EventPublisher
	bucket      *storage.Bucket
	logger      *slog.Logger
}

// WithEventPublisher sets where services publish change events
func WithEventPublisher(ec events.EventPublisher) Option {
	return func(cfg *appConfig) {
		cfg.eventClient = ec
	}
}

// WithBucket enables avatar uploads
func WithBucket(b *storage.Bucket) Option {
	return func(cfg *appConfig) {
		cfg.bucket = b
	}
}

// WithLogger sets the logger for the application
func WithLogger(logger *slog.Logger) Option {
	return func(cfg *appConfig) {
		if logger != nil {
			cfg.logger = logger
		}
	}
}
