package scrape

import (
	"context"
	"fmt"
	"time"

	"github.com/fwojciec/pagefetch"
)

// Default fetch budgets.
const (
	DefaultNavigationTimeout = 30 * time.Second
	DefaultSelectorTimeout   = 10 * time.Second
)

// DefaultSelectors are raced after navigation. The trailing body selector
// makes any parsed document eligible once nothing more specific renders.
var DefaultSelectors = []string{
	"main",
	"article",
	"[role=main]",
	".content",
	"#content",
	".post-content",
	".entry-content",
	"body",
}

// Ensure Fetcher implements pagefetch.Backend at compile time.
var _ pagefetch.Backend = (*Fetcher)(nil)

// Fetcher runs the single-page pipeline against pages from a SessionPool:
// navigate, check status and content type, wait for content, detect
// anti-bot pages, extract and validate.
type Fetcher struct {
	pool      pagefetch.SessionPool
	extractor pagefetch.Extractor
	detector  pagefetch.BlockDetector

	name              string
	navigationTimeout time.Duration
	selectorTimeout   time.Duration
	selectors         []string
}

// FetcherOption configures a Fetcher.
type FetcherOption func(*Fetcher)

// WithName sets the backend name reported on results.
// Defaults to pagefetch.BackendPrimary.
func WithName(name string) FetcherOption {
	return func(f *Fetcher) {
		f.name = name
	}
}

// WithNavigationTimeout bounds navigation up to DOMContentLoaded.
func WithNavigationTimeout(d time.Duration) FetcherOption {
	return func(f *Fetcher) {
		f.navigationTimeout = d
	}
}

// WithSelectorTimeout bounds the wait for any content selector.
func WithSelectorTimeout(d time.Duration) FetcherOption {
	return func(f *Fetcher) {
		f.selectorTimeout = d
	}
}

// WithSelectors replaces the ordered content selector list.
func WithSelectors(selectors ...string) FetcherOption {
	return func(f *Fetcher) {
		f.selectors = selectors
	}
}

// WithBlockDetector sets the anti-bot detector. Without one no block
// detection is performed.
func WithBlockDetector(d pagefetch.BlockDetector) FetcherOption {
	return func(f *Fetcher) {
		f.detector = d
	}
}

// NewFetcher creates a Fetcher drawing pages from pool.
func NewFetcher(pool pagefetch.SessionPool, extractor pagefetch.Extractor, opts ...FetcherOption) *Fetcher {
	f := &Fetcher{
		pool:              pool,
		extractor:         extractor,
		name:              pagefetch.BackendPrimary,
		navigationTimeout: DefaultNavigationTimeout,
		selectorTimeout:   DefaultSelectorTimeout,
		selectors:         DefaultSelectors,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Name returns the backend name.
func (f *Fetcher) Name() string {
	return f.name
}

// Fetch runs the pipeline for one URL. It never returns an error or
// panics; every failure is classified into the result.
func (f *Fetcher) Fetch(ctx context.Context, url string) (result pagefetch.FetchResult) {
	url = pagefetch.CanonicalizeURL(url)
	defer func() {
		if r := recover(); r != nil {
			result = pagefetch.NewFailure(url, pagefetch.ErrorKindContent, fmt.Sprintf("panic: %v", r))
		}
		result = result.WithBackend(f.name)
		if result.Success {
			result = result.WithContentHash(ComputeHash(result.Content))
		}
	}()

	if !pagefetch.ValidateURL(url) {
		return pagefetch.NewFailure(url, pagefetch.ErrorKindContent, "invalid URL")
	}

	page, err := f.pool.Acquire(ctx)
	if err != nil {
		return pagefetch.FailureFromError(url, err)
	}
	defer func() { _ = page.Close() }()

	return f.fetch(ctx, page, url)
}

func (f *Fetcher) fetch(ctx context.Context, page pagefetch.Page, url string) pagefetch.FetchResult {
	navCtx, cancel := context.WithTimeout(ctx, f.navigationTimeout)
	resp, err := page.Navigate(navCtx, url)
	cancel()
	if err != nil {
		return pagefetch.FailureFromError(url, err)
	}

	if resp != nil {
		if resp.Status >= 400 {
			return pagefetch.FailureFromError(url, pagefetch.StatusError(resp.Status))
		}
		if resp.ContentType != "" && !pagefetch.IsHTMLContentType(resp.ContentType) {
			return pagefetch.NewFailure(url, pagefetch.ErrorKindContent, fmt.Sprintf("unsupported content type: %s", resp.ContentType))
		}
	}

	selCtx, cancel := context.WithTimeout(ctx, f.selectorTimeout)
	_, err = page.WaitContent(selCtx, f.selectors)
	cancel()
	if err != nil {
		if ctx.Err() != nil {
			return pagefetch.FailureFromError(url, ctx.Err())
		}
		return pagefetch.NewFailure(url, pagefetch.ErrorKindContent, "no meaningful content selectors found")
	}

	html, err := page.HTML(ctx)
	if err != nil {
		return pagefetch.FailureFromError(url, err)
	}

	if f.detector != nil {
		if reason, blocked := f.detector.DetectBlock(html); blocked {
			return pagefetch.NewFailure(url, pagefetch.ErrorKindBlocked, reason)
		}
	}

	ext, err := f.extractor.Extract(html)
	if err != nil {
		return pagefetch.FailureFromError(url, err)
	}

	content := pagefetch.Sanitize(ext.MainText)
	if !pagefetch.IsValidContent(content) {
		return pagefetch.NewFailure(url, pagefetch.ErrorKindContent, "no meaningful content found")
	}
	return pagefetch.NewSuccess(url, ext, content)
}
