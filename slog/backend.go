// Package slog provides logging decorators for pagefetch services.
package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/pagefetch"
)

// Ensure LoggingBackend implements pagefetch.Backend.
var _ pagefetch.Backend = (*LoggingBackend)(nil)

// LoggingBackend wraps a Backend with per-URL logging. Failures are
// logged at warn level with their kind and details.
type LoggingBackend struct {
	next   pagefetch.Backend
	logger *slog.Logger
}

// NewLoggingBackend creates a new LoggingBackend.
func NewLoggingBackend(next pagefetch.Backend, logger *slog.Logger) *LoggingBackend {
	return &LoggingBackend{next: next, logger: logger}
}

// Name returns the wrapped backend's name.
func (b *LoggingBackend) Name() string {
	return b.next.Name()
}

// Fetch delegates to the wrapped backend and logs the outcome.
func (b *LoggingBackend) Fetch(ctx context.Context, url string) (result pagefetch.FetchResult) {
	defer func(begin time.Time) {
		if result.Success {
			b.logger.Info("fetch",
				"url", result.URL,
				"backend", b.next.Name(),
				"bytes", len(result.Content),
				"duration", time.Since(begin),
			)
			return
		}
		b.logger.Warn("fetch",
			"url", result.URL,
			"backend", b.next.Name(),
			"errorKind", result.ErrorKind,
			"retryable", result.Retryable(),
			"details", result.ErrorDetails,
			"duration", time.Since(begin),
		)
	}(time.Now())
	return b.next.Fetch(ctx, url)
}
