package pagefetch

import "context"

// Backend names used for result attribution.
const (
	BackendPrimary   = "primary"
	BackendSecondary = "secondary"
	BackendTertiary  = "tertiary"
)

// Backend turns a URL into a FetchResult using one extraction strategy.
// Fetch never returns an error; failures are reported in the result.
type Backend interface {
	Name() string
	Fetch(ctx context.Context, url string) FetchResult
}

// PageFetcher is the public surface of the pipeline.
// Neither method returns an error or panics.
type PageFetcher interface {
	FetchPage(ctx context.Context, url string) FetchResult
	FetchPages(ctx context.Context, urls []string) BatchResult
}

// FetchProgress reports progress during a batch.
type FetchProgress struct {
	URL       string
	Completed int
	Total     int
	Result    FetchResult
}

// FetchProgressFunc is called as each URL of a batch settles.
type FetchProgressFunc func(FetchProgress)

// DomainLimiter provides per-domain rate limiting.
type DomainLimiter interface {
	// Wait blocks until a request to the domain is allowed.
	// Returns an error if the context is canceled first.
	Wait(ctx context.Context, domain string) error
}

// ResultStore persists fetch results on behalf of the calling system.
type ResultStore interface {
	SaveResult(ctx context.Context, result FetchResult) error
}
