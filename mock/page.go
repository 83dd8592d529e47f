package mock

import (
	"context"

	"github.com/fwojciec/pagefetch"
)

// Compile-time interface verification.
var (
	_ pagefetch.SessionPool = (*SessionPool)(nil)
	_ pagefetch.Page        = (*Page)(nil)
)

// SessionPool is a mock implementation of pagefetch.SessionPool.
type SessionPool struct {
	AcquireFn  func(ctx context.Context) (pagefetch.Page, error)
	ShutdownFn func() error
}

func (p *SessionPool) Acquire(ctx context.Context) (pagefetch.Page, error) {
	return p.AcquireFn(ctx)
}

func (p *SessionPool) Shutdown() error {
	return p.ShutdownFn()
}

// Page is a mock implementation of pagefetch.Page.
type Page struct {
	NavigateFn    func(ctx context.Context, url string) (*pagefetch.Response, error)
	WaitContentFn func(ctx context.Context, selectors []string) (string, error)
	HTMLFn        func(ctx context.Context) (string, error)
	CloseFn       func() error
}

func (p *Page) Navigate(ctx context.Context, url string) (*pagefetch.Response, error) {
	return p.NavigateFn(ctx, url)
}

func (p *Page) WaitContent(ctx context.Context, selectors []string) (string, error) {
	return p.WaitContentFn(ctx, selectors)
}

func (p *Page) HTML(ctx context.Context) (string, error) {
	return p.HTMLFn(ctx)
}

func (p *Page) Close() error {
	return p.CloseFn()
}
