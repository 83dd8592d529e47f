// Package goquery implements DOM-based content extraction and anti-bot
// detection on top of PuerkitoBio/goquery.
package goquery

import (
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/pagefetch"
)

// Ensure Extractor implements pagefetch.Extractor at compile time.
var _ pagefetch.Extractor = (*Extractor)(nil)

// DefaultContentSelectors are the main-content candidates in priority order.
var DefaultContentSelectors = []string{
	"main",
	"article",
	"[role=main]",
	".content",
	"#content",
	".post-content",
	".entry-content",
}

// NoiseSelectors match subtrees that never hold main content.
var NoiseSelectors = []string{
	"script", "style", "noscript", "template", "svg", "iframe",
	"nav", "header", "footer", "aside",
	".ad", ".ads", ".advert", ".advertisement", ".sponsored",
	"[id^='google_ads']", "[class*='adsbygoogle']",
	".social-share", ".share-buttons", ".sharing", ".social-links",
}

// DefaultMinCandidateLength is the number of characters a candidate region
// must exceed before it is preferred over the whole body.
const DefaultMinCandidateLength = 100

// Extractor picks the main content region of a page by trying selectors in
// priority order and falling back to the body text.
type Extractor struct {
	selectors []string
	minLength int
}

// ExtractorOption configures an Extractor.
type ExtractorOption func(*Extractor)

// WithContentSelectors replaces the candidate selectors.
func WithContentSelectors(selectors ...string) ExtractorOption {
	return func(e *Extractor) {
		e.selectors = selectors
	}
}

// WithMinCandidateLength sets the minimum candidate text length.
func WithMinCandidateLength(n int) ExtractorOption {
	return func(e *Extractor) {
		e.minLength = n
	}
}

// NewExtractor creates a new Extractor.
func NewExtractor(opts ...ExtractorOption) *Extractor {
	e := &Extractor{
		selectors: DefaultContentSelectors,
		minLength: DefaultMinCandidateLength,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Extract parses html and returns the main text with title, headings and
// meta description.
func (e *Extractor) Extract(html string) (*pagefetch.Extraction, error) {
	if strings.TrimSpace(html) == "" {
		return nil, pagefetch.Errorf(pagefetch.EINVALID, "empty HTML input")
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, pagefetch.Errorf(pagefetch.EINVALID, "failed to parse HTML: %v", err)
	}

	// Metadata is read before noise removal; headings inside a <header>
	// are still headings.
	ext := &pagefetch.Extraction{
		Title:           Title(doc),
		Headings:        Headings(doc),
		MetaDescription: MetaDescription(doc),
	}

	doc.Find(strings.Join(NoiseSelectors, ", ")).Remove()

	ext.MainText = e.mainText(doc)
	return ext, nil
}

// mainText returns the first candidate region long enough to trust,
// otherwise the body text.
func (e *Extractor) mainText(doc *goquery.Document) string {
	for _, sel := range e.selectors {
		region := doc.Find(sel).First()
		if region.Length() == 0 {
			continue
		}
		text := pagefetch.Sanitize(Text(region))
		if utf8.RuneCountInString(text) > e.minLength {
			return text
		}
	}
	return pagefetch.Sanitize(Text(doc.Find("body")))
}

// Title returns the document title, falling back to og:title.
func Title(doc *goquery.Document) string {
	if title := collapse(doc.Find("title").First().Text()); title != "" {
		return title
	}
	content, _ := doc.Find("meta[property='og:title']").First().Attr("content")
	return collapse(content)
}

// MetaDescription returns the description meta tag, falling back to
// og:description.
func MetaDescription(doc *goquery.Document) string {
	if content, ok := doc.Find("meta[name='description']").First().Attr("content"); ok && strings.TrimSpace(content) != "" {
		return collapse(content)
	}
	content, _ := doc.Find("meta[property='og:description']").First().Attr("content")
	return collapse(content)
}

// Headings returns the non-empty text of all h1-h6 elements in document order.
func Headings(doc *goquery.Document) []string {
	headings := []string{}
	doc.Find("h1, h2, h3, h4, h5, h6").Each(func(_ int, s *goquery.Selection) {
		if text := collapse(s.Text()); text != "" {
			headings = append(headings, text)
		}
	})
	return headings
}

// collapse joins whitespace-separated fields with single spaces.
func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Metadata parses html and returns an Extraction with only the title,
// headings and meta description populated. Extractors backed by other
// libraries use it so every strategy reports metadata the same way.
func Metadata(html string) (*pagefetch.Extraction, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, pagefetch.Errorf(pagefetch.EINVALID, "failed to parse HTML: %v", err)
	}
	return &pagefetch.Extraction{
		Title:           Title(doc),
		Headings:        Headings(doc),
		MetaDescription: MetaDescription(doc),
	}, nil
}

// FragmentText renders an HTML fragment to sanitized, block-aware text.
func FragmentText(fragment string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return "", pagefetch.Errorf(pagefetch.EINVALID, "failed to parse HTML: %v", err)
	}
	return pagefetch.Sanitize(Text(doc.Find("body"))), nil
}
