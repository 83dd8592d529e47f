package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/pagefetch"
)

// Ensure LoggingSessionPool implements pagefetch.SessionPool.
var _ pagefetch.SessionPool = (*LoggingSessionPool)(nil)

// LoggingSessionPool wraps a SessionPool with debug logging.
type LoggingSessionPool struct {
	next   pagefetch.SessionPool
	logger *slog.Logger
}

// NewLoggingSessionPool creates a new LoggingSessionPool.
func NewLoggingSessionPool(next pagefetch.SessionPool, logger *slog.Logger) *LoggingSessionPool {
	return &LoggingSessionPool{next: next, logger: logger}
}

// Acquire delegates to the wrapped pool and logs how long it took.
// Browser launches show up here as slow acquires.
func (p *LoggingSessionPool) Acquire(ctx context.Context) (page pagefetch.Page, err error) {
	defer func(begin time.Time) {
		p.logger.Debug("acquire page",
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return p.next.Acquire(ctx)
}

// Shutdown delegates to the wrapped pool.
func (p *LoggingSessionPool) Shutdown() (err error) {
	defer func(begin time.Time) {
		p.logger.Info("shutdown session pool",
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return p.next.Shutdown()
}
