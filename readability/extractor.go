package readability

import (
	"strings"

	"github.com/fwojciec/pagefetch"
	pagefetchgoquery "github.com/fwojciec/pagefetch/goquery"
	"github.com/go-shiori/go-readability"
)

// Ensure Extractor implements pagefetch.Extractor at compile time.
var _ pagefetch.Extractor = (*Extractor)(nil)

// Extractor wraps go-readability to extract main content from HTML.
// It scores the whole document instead of probing fixed selectors, which
// suits server-rendered pages without semantic landmarks.
type Extractor struct{}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
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

	article, err := readability.FromReader(strings.NewReader(rawHTML), nil)
	if err != nil {
		return nil, pagefetch.Failf(pagefetch.ErrorKindContent, "readability: %v", err)
	}

	if article.Content != "" {
		ext.MainText, err = pagefetchgoquery.FragmentText(article.Content)
		if err != nil {
			return nil, err
		}
	}
	if ext.MainText == "" {
		ext.MainText = pagefetch.Sanitize(article.TextContent)
	}

	if ext.Title == "" {
		ext.Title = strings.TrimSpace(article.Title)
	}
	if ext.MetaDescription == "" {
		ext.MetaDescription = strings.TrimSpace(article.Excerpt)
	}

	return ext, nil
}
