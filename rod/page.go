package rod

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/fwojciec/pagefetch"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
)

// Ensure Page implements pagefetch.Page at compile time.
var _ pagefetch.Page = (*Page)(nil)

// responseGrace bounds how long Navigate waits for the document response
// event after the DOM is already parsed.
const responseGrace = time.Second

// Page is a browser tab opened by a SessionPool.
type Page struct {
	page    *rod.Page
	release func()
	once    sync.Once
}

// Navigate loads url and returns once DOMContentLoaded has fired. Full load
// is not awaited; ad-heavy pages often never reach it.
func (p *Page) Navigate(ctx context.Context, url string) (*pagefetch.Response, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	page := p.page.Context(ctx)

	// Listen for the main document response on a context of its own so the
	// listener can be abandoned without failing the navigation.
	evCtx, cancelEv := context.WithCancel(ctx)
	defer cancelEv()

	var (
		mu   sync.Mutex
		resp *pagefetch.Response
	)
	waitResponse := p.page.Context(evCtx).EachEvent(func(e *proto.NetworkResponseReceived) bool {
		if e.Type != proto.NetworkResourceTypeDocument || e.Response == nil {
			return false
		}
		mu.Lock()
		resp = &pagefetch.Response{
			Status:      e.Response.Status,
			ContentType: contentType(e.Response),
		}
		mu.Unlock()
		return true
	})
	done := make(chan struct{})
	go func() {
		defer close(done)
		waitResponse()
	}()

	waitDOM := page.WaitNavigation(proto.PageLifecycleEventNameDOMContentLoaded)
	if err := page.Navigate(url); err != nil {
		return nil, err
	}
	waitDOM()
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	select {
	case <-done:
	case <-time.After(responseGrace):
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	mu.Lock()
	defer mu.Unlock()
	return resp, nil
}

// WaitContent races the selectors and returns the one matched first.
func (p *Page) WaitContent(ctx context.Context, selectors []string) (string, error) {
	if len(selectors) == 0 {
		return "", pagefetch.Errorf(pagefetch.EINVALID, "no selectors to wait for")
	}

	var matched string
	race := p.page.Context(ctx).Race()
	for _, sel := range selectors {
		race = race.Element(sel).Handle(func(*rod.Element) error {
			matched = sel
			return nil
		})
	}
	if _, err := race.Do(); err != nil {
		return "", err
	}
	return matched, nil
}

// HTML returns the serialized document.
func (p *Page) HTML(ctx context.Context) (string, error) {
	return p.page.Context(ctx).HTML()
}

// Close closes the tab. The browser stays open for other pages.
func (p *Page) Close() error {
	var err error
	p.once.Do(func() {
		err = p.page.Close()
		if p.release != nil {
			p.release()
		}
	})
	return err
}

// contentType reads the Content-Type header, falling back to the MIME type
// Chrome sniffed for the response.
func contentType(r *proto.NetworkResponse) string {
	for k, v := range r.Headers {
		if strings.EqualFold(k, "content-type") {
			return v.String()
		}
	}
	return r.MIMEType
}
