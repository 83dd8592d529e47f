// Package rod implements pagefetch.SessionPool on a shared headless Chrome
// driven by go-rod.
package rod

import (
	"context"
	"fmt"
	"sync"

	"github.com/fwojciec/pagefetch"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
)

// Ensure SessionPool implements pagefetch.SessionPool at compile time.
var _ pagefetch.SessionPool = (*SessionPool)(nil)

// DefaultMaxPages is the default number of pages before browser recycling.
const DefaultMaxPages = 75

// SessionPool owns one long-lived browser shared by every page fetch.
// The browser is launched lazily on the first Acquire and shut down once
// by Shutdown. Chrome accumulates memory over time and the baseline never
// returns to its initial level, so after maxPages pages the browser is
// replaced as soon as no page is open on it.
//
// SessionPool is safe for concurrent use.
type SessionPool struct {
	mu        sync.Mutex
	browser   *rod.Browser
	launcher  *launcher.Launcher
	pageCount int64
	openPages int
	maxPages  int64
	noSandbox bool
	closed    bool
}

// PoolOption configures a SessionPool.
type PoolOption func(*SessionPool)

// WithMaxPages sets the maximum number of pages before the browser is recycled.
// Defaults to 75 if not specified; zero or less disables recycling.
func WithMaxPages(n int64) PoolOption {
	return func(p *SessionPool) {
		p.maxPages = n
	}
}

// WithNoSandbox disables the Chrome sandbox, which is required when running
// as root inside containers.
func WithNoSandbox(v bool) PoolOption {
	return func(p *SessionPool) {
		p.noSandbox = v
	}
}

// NewSessionPool creates a SessionPool. No browser is started until the
// first Acquire.
func NewSessionPool(opts ...PoolOption) *SessionPool {
	p := &SessionPool{
		maxPages: DefaultMaxPages,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Acquire opens a new page in the shared browser, launching it if needed.
func (p *SessionPool) Acquire(ctx context.Context) (pagefetch.Page, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return nil, pagefetch.Errorf(pagefetch.EINVALID, "session pool is closed")
	}

	if p.browser != nil && p.maxPages > 0 && p.pageCount >= p.maxPages && p.openPages == 0 {
		p.recycleBrowser()
	}

	if p.browser == nil {
		if err := p.launchBrowser(); err != nil {
			return nil, err
		}
	}

	page, err := p.browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		return nil, fmt.Errorf("opening page: %w", err)
	}

	p.pageCount++
	p.openPages++
	return &Page{page: page, release: p.release}, nil
}

// release is called once per page when it closes.
func (p *SessionPool) release() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.openPages > 0 {
		p.openPages--
	}
}

// Shutdown releases browser resources. Shutdown is safe to call multiple times.
func (p *SessionPool) Shutdown() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return nil
	}
	p.closed = true

	return p.closeBrowser()
}

// LauncherPID returns the process ID of the browser launcher, or 0 if no
// browser is running. This method exists for testing purposes to verify
// proper cleanup.
func (p *SessionPool) LauncherPID() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.launcher == nil {
		return 0
	}
	return p.launcher.PID()
}

// launchBrowser starts a new browser instance with stability flags.
// Must be called with mu held.
func (p *SessionPool) launchBrowser() error {
	lnchr := launcher.New().
		Set("disable-background-timer-throttling").
		Set("disable-backgrounding-occluded-windows").
		Set("disable-renderer-backgrounding").
		Set("disable-dev-shm-usage").
		Set("disable-hang-monitor").
		Leakless(true).
		Headless(true)
	if p.noSandbox {
		lnchr = lnchr.NoSandbox(true)
	}

	u, err := lnchr.Launch()
	if err != nil {
		return fmt.Errorf("launching browser: %w", err)
	}

	browser := rod.New().ControlURL(u)
	if err := browser.Connect(); err != nil {
		lnchr.Kill()
		return fmt.Errorf("connecting to browser: %w", err)
	}

	p.browser = browser
	p.launcher = lnchr
	return nil
}

// closeBrowser shuts down the current browser and launcher.
// Must be called with mu held.
func (p *SessionPool) closeBrowser() error {
	var err error
	if p.browser != nil {
		err = p.browser.Close()
		p.browser = nil
	}
	if p.launcher != nil {
		p.launcher.Kill()
		p.launcher = nil
	}
	return err
}

// recycleBrowser starts a fresh browser and closes the old one.
// If launching the new browser fails, the old browser is kept.
// Must be called with mu held.
func (p *SessionPool) recycleBrowser() {
	oldBrowser := p.browser
	oldLauncher := p.launcher
	p.browser = nil
	p.launcher = nil

	if err := p.launchBrowser(); err != nil {
		p.browser = oldBrowser
		p.launcher = oldLauncher
		return
	}

	if oldBrowser != nil {
		_ = oldBrowser.Close()
	}
	if oldLauncher != nil {
		oldLauncher.Kill()
	}
	p.pageCount = 0
}
