package scrape

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/fwojciec/pagefetch"
	"golang.org/x/sync/errgroup"
)

// Default batch shape.
const (
	DefaultWindowSize  = 3
	DefaultWindowPause = time.Second
)

// Ensure Batcher implements pagefetch.PageFetcher at compile time.
var _ pagefetch.PageFetcher = (*Batcher)(nil)

// Batcher fetches URLs in fixed-size windows. All URLs of a window run
// concurrently and the next window starts only after every slot of the
// current one has settled, followed by a pause.
type Batcher struct {
	backend     pagefetch.Backend
	windowSize  int
	windowPause time.Duration
	limiter     pagefetch.DomainLimiter
	progress    pagefetch.FetchProgressFunc
}

// BatcherOption configures a Batcher.
type BatcherOption func(*Batcher)

// WithWindowSize sets how many URLs are fetched concurrently.
func WithWindowSize(n int) BatcherOption {
	return func(b *Batcher) {
		b.windowSize = n
	}
}

// WithWindowPause sets the delay between windows.
func WithWindowPause(d time.Duration) BatcherOption {
	return func(b *Batcher) {
		b.windowPause = d
	}
}

// WithRateLimiter gates each fetch on a per-host limiter.
func WithRateLimiter(l pagefetch.DomainLimiter) BatcherOption {
	return func(b *Batcher) {
		b.limiter = l
	}
}

// WithProgress registers a callback invoked as each URL settles.
// Calls are serialized.
func WithProgress(fn pagefetch.FetchProgressFunc) BatcherOption {
	return func(b *Batcher) {
		b.progress = fn
	}
}

// NewBatcher creates a Batcher dispatching to backend.
func NewBatcher(backend pagefetch.Backend, opts ...BatcherOption) *Batcher {
	b := &Batcher{
		backend:     backend,
		windowSize:  DefaultWindowSize,
		windowPause: DefaultWindowPause,
	}
	for _, opt := range opts {
		opt(b)
	}
	if b.windowSize <= 0 {
		b.windowSize = DefaultWindowSize
	}
	return b
}

// FetchPage fetches a single URL.
func (b *Batcher) FetchPage(ctx context.Context, url string) pagefetch.FetchResult {
	return b.fetchOne(ctx, url)
}

// FetchPages fetches urls and returns one result per URL in input order.
func (b *Batcher) FetchPages(ctx context.Context, urls []string) pagefetch.BatchResult {
	results := make(pagefetch.BatchResult, len(urls))

	var mu sync.Mutex
	completed := 0
	report := func(url string, r pagefetch.FetchResult) {
		if b.progress == nil {
			return
		}
		mu.Lock()
		defer mu.Unlock()
		completed++
		b.progress(pagefetch.FetchProgress{
			URL:       url,
			Completed: completed,
			Total:     len(urls),
			Result:    r,
		})
	}

	for start := 0; start < len(urls); start += b.windowSize {
		end := min(start+b.windowSize, len(urls))

		var g errgroup.Group
		for i := start; i < end; i++ {
			g.Go(func() error {
				results[i] = b.fetchOne(ctx, urls[i])
				report(urls[i], results[i])
				return nil
			})
		}
		_ = g.Wait()

		if end < len(urls) && b.windowPause > 0 {
			select {
			case <-ctx.Done():
			case <-time.After(b.windowPause):
			}
		}
	}

	return results
}

// fetchOne never panics; a panicking backend becomes a content error.
func (b *Batcher) fetchOne(ctx context.Context, url string) (result pagefetch.FetchResult) {
	defer func() {
		if r := recover(); r != nil {
			result = pagefetch.NewFailure(pagefetch.CanonicalizeURL(url), pagefetch.ErrorKindContent, fmt.Sprintf("panic: %v", r))
		}
	}()

	if b.limiter != nil && pagefetch.ValidateURL(url) {
		if err := b.limiter.Wait(ctx, Host(url)); err != nil {
			return pagefetch.FailureFromError(pagefetch.CanonicalizeURL(url), err)
		}
	}

	return b.backend.Fetch(ctx, url)
}
