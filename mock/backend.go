package mock

import (
	"context"

	"github.com/fwojciec/pagefetch"
)

// Compile-time interface verification.
var (
	_ pagefetch.Backend       = (*Backend)(nil)
	_ pagefetch.DomainLimiter = (*DomainLimiter)(nil)
	_ pagefetch.ResultStore   = (*ResultStore)(nil)
	_ pagefetch.PageFetcher   = (*PageFetcher)(nil)
)

// Backend is a mock implementation of pagefetch.Backend.
type Backend struct {
	NameFn  func() string
	FetchFn func(ctx context.Context, url string) pagefetch.FetchResult
}

func (b *Backend) Name() string {
	return b.NameFn()
}

func (b *Backend) Fetch(ctx context.Context, url string) pagefetch.FetchResult {
	return b.FetchFn(ctx, url)
}

// DomainLimiter is a mock implementation of pagefetch.DomainLimiter.
type DomainLimiter struct {
	WaitFn func(ctx context.Context, domain string) error
}

func (l *DomainLimiter) Wait(ctx context.Context, domain string) error {
	return l.WaitFn(ctx, domain)
}

// ResultStore is a mock implementation of pagefetch.ResultStore.
type ResultStore struct {
	SaveResultFn func(ctx context.Context, result pagefetch.FetchResult) error
}

func (s *ResultStore) SaveResult(ctx context.Context, result pagefetch.FetchResult) error {
	return s.SaveResultFn(ctx, result)
}

// PageFetcher is a mock implementation of pagefetch.PageFetcher.
type PageFetcher struct {
	FetchPageFn  func(ctx context.Context, url string) pagefetch.FetchResult
	FetchPagesFn func(ctx context.Context, urls []string) pagefetch.BatchResult
}

func (f *PageFetcher) FetchPage(ctx context.Context, url string) pagefetch.FetchResult {
	return f.FetchPageFn(ctx, url)
}

func (f *PageFetcher) FetchPages(ctx context.Context, urls []string) pagefetch.BatchResult {
	return f.FetchPagesFn(ctx, urls)
}
