package slog

import (
	"context"
	"log/slog"

	"github.com/fwojciec/pagefetch"
)

// Ensure LoggingResultStore implements pagefetch.ResultStore.
var _ pagefetch.ResultStore = (*LoggingResultStore)(nil)

// LoggingResultStore wraps a ResultStore and logs failed saves.
type LoggingResultStore struct {
	next   pagefetch.ResultStore
	logger *slog.Logger
}

// NewLoggingResultStore creates a new LoggingResultStore.
func NewLoggingResultStore(next pagefetch.ResultStore, logger *slog.Logger) *LoggingResultStore {
	return &LoggingResultStore{next: next, logger: logger}
}

// SaveResult delegates to the wrapped store.
func (s *LoggingResultStore) SaveResult(ctx context.Context, result pagefetch.FetchResult) error {
	err := s.next.SaveResult(ctx, result)
	if err != nil {
		s.logger.Error("save result", "url", result.URL, "err", err)
	}
	return err
}
