package slog_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/fwojciec/pagefetch"
	"github.com/fwojciec/pagefetch/mock"
	pagefetchslog "github.com/fwojciec/pagefetch/slog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggingBackend_Fetch(t *testing.T) {
	t.Parallel()

	t.Run("logs success with bytes and duration", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		content := strings.Repeat("a", 120)
		inner := &mock.Backend{
			NameFn: func() string { return pagefetch.BackendPrimary },
			FetchFn: func(ctx context.Context, url string) pagefetch.FetchResult {
				return pagefetch.NewSuccess(url, nil, content)
			},
		}

		backend := pagefetchslog.NewLoggingBackend(inner, logger)
		result := backend.Fetch(context.Background(), "https://example.com/docs")

		assert.True(t, result.Success)
		assert.Equal(t, pagefetch.BackendPrimary, backend.Name())
		output := buf.String()
		assert.Contains(t, output, "level=INFO")
		assert.Contains(t, output, "url=https://example.com/docs")
		assert.Contains(t, output, "backend=primary")
		assert.Contains(t, output, "bytes=120")
		assert.Contains(t, output, "duration=")
	})

	t.Run("logs failure kind at warn level", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		inner := &mock.Backend{
			NameFn: func() string { return pagefetch.BackendSecondary },
			FetchFn: func(ctx context.Context, url string) pagefetch.FetchResult {
				return pagefetch.NewFailure(url, pagefetch.ErrorKindTimeout, "navigation timeout")
			},
		}

		result := pagefetchslog.NewLoggingBackend(inner, logger).Fetch(context.Background(), "https://example.com")

		assert.False(t, result.Success)
		output := buf.String()
		assert.Contains(t, output, "level=WARN")
		assert.Contains(t, output, "errorKind=TIMEOUT")
		assert.Contains(t, output, "retryable=true")
		assert.Contains(t, output, `details="navigation timeout"`)
	})
}

func TestLoggingSessionPool(t *testing.T) {
	t.Parallel()

	t.Run("logs acquire errors at debug level", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
		inner := &mock.SessionPool{
			AcquireFn: func(ctx context.Context) (pagefetch.Page, error) {
				return nil, errors.New("browser gone")
			},
		}

		_, err := pagefetchslog.NewLoggingSessionPool(inner, logger).Acquire(context.Background())

		require.Error(t, err)
		assert.Contains(t, buf.String(), "acquire page")
		assert.Contains(t, buf.String(), `err="browser gone"`)
	})

	t.Run("delegates shutdown", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		called := false
		inner := &mock.SessionPool{
			ShutdownFn: func() error {
				called = true
				return nil
			},
		}

		err := pagefetchslog.NewLoggingSessionPool(inner, logger).Shutdown()

		require.NoError(t, err)
		assert.True(t, called)
		assert.Contains(t, buf.String(), "shutdown session pool")
	})
}

func TestLoggingResultStore_SaveResult(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	inner := &mock.ResultStore{
		SaveResultFn: func(context.Context, pagefetch.FetchResult) error {
			return errors.New("database is locked")
		},
	}

	err := pagefetchslog.NewLoggingResultStore(inner, logger).SaveResult(context.Background(),
		pagefetch.NewFailure("https://example.com", pagefetch.ErrorKindNetwork, "x"))

	require.Error(t, err)
	assert.Contains(t, buf.String(), "level=ERROR")
	assert.Contains(t, buf.String(), `err="database is locked"`)
}
