package trafilatura

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/pagefetch"
	pagefetchgoquery "github.com/fwojciec/pagefetch/goquery"
	"github.com/markusmobius/go-trafilatura"
)

// Ensure Extractor implements pagefetch.Extractor at compile time.
var _ pagefetch.Extractor = (*Extractor)(nil)

// Extractor wraps go-trafilatura to extract main content from HTML.
type Extractor struct {
	fallback bool
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithFallback toggles trafilatura's readability and dom-distiller
// fallbacks. Enabled by default.
func WithFallback(enabled bool) Option {
	return func(e *Extractor) {
		e.fallback = enabled
	}
}

// NewExtractor creates a new Extractor.
func NewExtractor(opts ...Option) *Extractor {
	e := &Extractor{fallback: true}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Extract processes raw HTML and returns the main content.
func (e *Extractor) Extract(rawHTML string) (*pagefetch.Extraction, error) {
	if strings.TrimSpace(rawHTML) == "" {
		return nil, pagefetch.Errorf(pagefetch.EINVALID, "empty HTML input")
	}

	ext, err := pagefetchgoquery.Metadata(rawHTML)
	if err != nil {
		return nil, err
	}

	result, err := trafilatura.Extract(strings.NewReader(rawHTML), trafilatura.Options{
		EnableFallback: e.fallback,
	})
	if err != nil {
		return nil, pagefetch.Failf(pagefetch.ErrorKindContent, "trafilatura: %v", err)
	}

	if result.ContentNode != nil {
		doc := goquery.NewDocumentFromNode(result.ContentNode)
		ext.MainText = pagefetch.Sanitize(pagefetchgoquery.Text(doc.Selection))
	}
	if ext.MainText == "" {
		ext.MainText = pagefetch.Sanitize(result.ContentText)
	}

	if ext.Title == "" {
		ext.Title = strings.TrimSpace(result.Metadata.Title)
	}
	if ext.MetaDescription == "" {
		ext.MetaDescription = strings.TrimSpace(result.Metadata.Description)
	}

	return ext, nil
}
