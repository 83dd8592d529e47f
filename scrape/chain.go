package scrape

import (
	"context"
	"fmt"

	"github.com/fwojciec/pagefetch"
)

// Ensure Chain implements pagefetch.Backend at compile time.
var _ pagefetch.Backend = (*Chain)(nil)

// attempt records one backend's outcome for a URL.
type attempt struct {
	backend string
	url     string
	outcome pagefetch.FetchResult
}

// Chain tries backends in order and returns the first success. When all
// fail it returns the last backend's failure. Each backend is called at
// most once per URL.
type Chain struct {
	backends []pagefetch.Backend
}

// NewChain creates a Chain over backends in priority order.
func NewChain(backends ...pagefetch.Backend) *Chain {
	return &Chain{backends: backends}
}

// Name returns "chain".
func (c *Chain) Name() string {
	return "chain"
}

// Fetch runs the backends for url.
func (c *Chain) Fetch(ctx context.Context, url string) pagefetch.FetchResult {
	url = pagefetch.CanonicalizeURL(url)
	if !pagefetch.ValidateURL(url) {
		return pagefetch.NewFailure(url, pagefetch.ErrorKindContent, "invalid URL")
	}
	if len(c.backends) == 0 {
		return pagefetch.NewFailure(url, pagefetch.ErrorKindContent, "no backends configured")
	}

	var last attempt
	for _, b := range c.backends {
		last = c.try(ctx, b, url)
		if last.outcome.Success {
			return last.outcome
		}
		// No fallback after the caller has given up.
		if ctx.Err() != nil {
			break
		}
	}
	return last.outcome
}

func (c *Chain) try(ctx context.Context, b pagefetch.Backend, url string) (a attempt) {
	a = attempt{url: url}
	defer func() {
		if r := recover(); r != nil {
			a.outcome = pagefetch.NewFailure(url, pagefetch.ErrorKindContent, fmt.Sprintf("backend %s panicked: %v", a.backend, r))
		}
		if a.outcome.Backend == "" {
			a.outcome = a.outcome.WithBackend(a.backend)
		}
		if a.outcome.Success && a.outcome.ContentHash == "" {
			a.outcome = a.outcome.WithContentHash(ComputeHash(a.outcome.Content))
		}
	}()

	a.backend = b.Name()
	a.outcome = b.Fetch(ctx, url)
	return a
}
