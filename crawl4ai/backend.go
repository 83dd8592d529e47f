package crawl4ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/fwojciec/pagefetch"
)

// DefaultTimeout bounds one call to the extraction service.
const DefaultTimeout = 60 * time.Second

// minFieldChars is the number of non-space characters a response field
// needs before it is preferred over the next one.
const minFieldChars = 10

// Ensure Backend implements pagefetch.Backend at compile time.
var _ pagefetch.Backend = (*Backend)(nil)

// Backend asks the extraction service to fetch and render a page and
// picks the best text field of the response.
type Backend struct {
	baseURL   string
	apiKey    string
	minWords  int
	name      string
	client    *http.Client
	converter pagefetch.Converter
	extractor pagefetch.Extractor
}

// Option configures a Backend.
type Option func(*Backend)

// WithAPIKey sends key as a bearer token.
func WithAPIKey(key string) Option {
	return func(b *Backend) {
		b.apiKey = key
	}
}

// DefaultWordCountThreshold is the minimum word count of a text block the
// service keeps.
const DefaultWordCountThreshold = 10

// WithWordCountThreshold sets the minimum word count of a text block the
// service keeps. Zero leaves the service default.
func WithWordCountThreshold(n int) Option {
	return func(b *Backend) {
		b.minWords = n
	}
}

// WithName overrides the backend name reported on results.
func WithName(name string) Option {
	return func(b *Backend) {
		b.name = name
	}
}

// WithHTTPClient sets the client used to call the service.
func WithHTTPClient(c *http.Client) Option {
	return func(b *Backend) {
		b.client = c
	}
}

// WithConverter sets the converter used for the cleaned_html field.
// Without one that field is skipped.
func WithConverter(c pagefetch.Converter) Option {
	return func(b *Backend) {
		b.converter = c
	}
}

// WithExtractor sets the extractor used for the raw html field.
// Without one that field is skipped.
func WithExtractor(e pagefetch.Extractor) Option {
	return func(b *Backend) {
		b.extractor = e
	}
}

// NewBackend creates a Backend talking to the service at baseURL.
func NewBackend(baseURL string, opts ...Option) *Backend {
	b := &Backend{
		baseURL:  strings.TrimRight(baseURL, "/"),
		name:     pagefetch.BackendTertiary,
		minWords: DefaultWordCountThreshold,
		client:   &http.Client{Timeout: DefaultTimeout},
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Name returns the backend name.
func (b *Backend) Name() string {
	return b.name
}

// Fetch extracts url through the service. It never returns an error;
// failures are classified into the result.
func (b *Backend) Fetch(ctx context.Context, url string) (result pagefetch.FetchResult) {
	url = pagefetch.CanonicalizeURL(url)
	defer func() {
		if r := recover(); r != nil {
			result = pagefetch.NewFailure(url, pagefetch.ErrorKindContent, fmt.Sprintf("panic: %v", r))
		}
		result = result.WithBackend(b.name)
	}()

	if !pagefetch.ValidateURL(url) {
		return pagefetch.NewFailure(url, pagefetch.ErrorKindContent, "invalid URL")
	}

	res, err := b.crawl(ctx, url)
	if err != nil {
		return pagefetch.FailureFromError(url, err)
	}

	ext, err := b.extract(res)
	if err != nil {
		return pagefetch.FailureFromError(url, err)
	}

	content := pagefetch.Sanitize(ext.MainText)
	if !pagefetch.IsValidContent(content) {
		return pagefetch.NewFailure(url, pagefetch.ErrorKindContent, "no meaningful content found")
	}
	return pagefetch.NewSuccess(url, ext, content)
}

// crawl performs the request and returns the first result.
func (b *Backend) crawl(ctx context.Context, url string) (*crawlResult, error) {
	body, err := json.Marshal(crawlRequest{
		URLs:               []string{url},
		WordCountThreshold: b.minWords,
		RemoveOverlay:      true,
		ExcludedTags:       []string{"nav", "footer", "aside", "script", "style"},
	})
	if err != nil {
		return nil, pagefetch.Errorf(pagefetch.EINTERNAL, "failed to encode request: %v", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, b.baseURL+"/crawl", bytes.NewReader(body))
	if err != nil {
		return nil, pagefetch.Failf(pagefetch.ErrorKindContent, "failed to build request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if b.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+b.apiKey)
	}

	resp, err := b.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, pagefetch.StatusError(resp.StatusCode)
	}

	var out crawlResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, pagefetch.Failf(pagefetch.ErrorKindContent, "failed to decode response: %v", err)
	}
	if len(out.Results) == 0 {
		return nil, pagefetch.Failf(pagefetch.ErrorKindContent, "extraction service returned no results")
	}

	res := &out.Results[0]
	// The service reports success for error pages it rendered fine.
	if res.StatusCode >= 400 {
		return nil, pagefetch.StatusError(res.StatusCode)
	}
	if !res.Success {
		msg := res.ErrorMessage
		if msg == "" {
			msg = "extraction service reported failure"
		}
		// Upstream failures arrive as text only.
		kind, _ := pagefetch.Classify(fmt.Errorf("%s", msg))
		return nil, pagefetch.Failf(kind, "%s", msg)
	}
	return res, nil
}

// extract picks the first usable text field of res, in order of how much
// cleanup the service already applied.
func (b *Backend) extract(res *crawlResult) (*pagefetch.Extraction, error) {
	ext := &pagefetch.Extraction{
		Title:           strings.TrimSpace(res.Metadata.Title),
		MetaDescription: strings.TrimSpace(res.Metadata.Description),
		Headings:        []string{},
	}

	var candidates []string
	if res.Markdown != nil {
		candidates = append(candidates, res.Markdown.FitMarkdown, res.Markdown.RawMarkdown, res.Markdown.MarkdownWithCitations)
	}
	candidates = append(candidates, res.ExtractedContent)
	for _, c := range candidates {
		if usable(c) {
			ext.MainText = c
			ext.Headings = pagefetch.MarkdownHeadings(c)
			b.fillTitle(ext)
			return ext, nil
		}
	}

	if b.converter != nil && usable(res.CleanedHTML) {
		md, err := b.converter.Convert(res.CleanedHTML)
		if err == nil && usable(md) {
			ext.MainText = md
			ext.Headings = pagefetch.MarkdownHeadings(md)
			b.fillTitle(ext)
			return ext, nil
		}
	}

	if b.extractor != nil && usable(res.HTML) {
		html, err := b.extractor.Extract(res.HTML)
		if err == nil && usable(html.MainText) {
			ext.MainText = html.MainText
			ext.Headings = append(ext.Headings, html.Headings...)
			if ext.Title == "" {
				ext.Title = html.Title
			}
			if ext.MetaDescription == "" {
				ext.MetaDescription = html.MetaDescription
			}
			return ext, nil
		}
	}

	return nil, pagefetch.Failf(pagefetch.ErrorKindContent, "extraction service returned no usable content")
}

func (b *Backend) fillTitle(ext *pagefetch.Extraction) {
	if ext.Title == "" && len(ext.Headings) > 0 {
		ext.Title = ext.Headings[0]
	}
}

// usable reports whether s has more than minFieldChars non-space characters.
func usable(s string) bool {
	n := 0
	for _, r := range s {
		if r == ' ' || r == '\t' || r == '\n' || r == '\r' {
			continue
		}
		n++
		if n > minFieldChars {
			return true
		}
	}
	return false
}
