package http

import (
	"context"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/pagefetch"
)

// Ensure Page implements pagefetch.Page at compile time.
var _ pagefetch.Page = (*Page)(nil)

// Page holds one fetched document. The document is static, so waiting for
// selectors is a single lookup.
type Page struct {
	pool *SessionPool
	html string
	doc  *goquery.Document
}

// Navigate downloads the URL. Error statuses are not errors here; they are
// reported through the Response.
func (p *Page) Navigate(ctx context.Context, url string) (*pagefetch.Response, error) {
	resp, body, err := p.pool.get(ctx, url)
	if err != nil {
		return nil, err
	}
	p.html = string(body)
	p.doc = nil
	return &pagefetch.Response{
		Status:      resp.StatusCode,
		ContentType: resp.Header.Get("Content-Type"),
	}, nil
}

// WaitContent returns the first selector present in the document.
func (p *Page) WaitContent(ctx context.Context, selectors []string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if p.doc == nil {
		doc, err := goquery.NewDocumentFromReader(strings.NewReader(p.html))
		if err != nil {
			return "", pagefetch.Errorf(pagefetch.EINVALID, "failed to parse HTML: %v", err)
		}
		p.doc = doc
	}
	for _, sel := range selectors {
		if p.doc.Find(sel).Length() > 0 {
			return sel, nil
		}
	}
	return "", pagefetch.Errorf(pagefetch.ENOTFOUND, "none of %d content selectors matched", len(selectors))
}

// HTML returns the downloaded document.
func (p *Page) HTML(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return p.html, nil
}

// Close drops the document.
func (p *Page) Close() error {
	p.html = ""
	p.doc = nil
	return nil
}
