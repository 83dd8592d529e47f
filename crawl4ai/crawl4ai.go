// Package crawl4ai implements pagefetch.Backend on top of a managed
// extraction service exposing a Crawl4AI-compatible /crawl endpoint.
package crawl4ai

import (
	"encoding/json"
)

// crawlRequest is the body of POST /crawl.
type crawlRequest struct {
	URLs               []string `json:"urls"`
	WordCountThreshold int      `json:"word_count_threshold,omitempty"`
	ExcludedTags       []string `json:"excluded_tags,omitempty"`
	RemoveOverlay      bool     `json:"remove_overlay_elements,omitempty"`
}

type crawlResponse struct {
	Success bool          `json:"success"`
	Results []crawlResult `json:"results"`
}

type crawlResult struct {
	URL              string    `json:"url"`
	Success          bool      `json:"success"`
	StatusCode       int       `json:"status_code,omitempty"`
	HTML             string    `json:"html,omitempty"`
	CleanedHTML      string    `json:"cleaned_html,omitempty"`
	Markdown         *markdown `json:"markdown,omitempty"`
	ExtractedContent string    `json:"extracted_content,omitempty"`
	Metadata         metadata  `json:"metadata,omitempty"`
	ErrorMessage     string    `json:"error_message,omitempty"`
}

type metadata struct {
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
}

// markdown is either a plain string or an object with several renditions,
// depending on the service version.
type markdown struct {
	RawMarkdown           string `json:"raw_markdown"`
	MarkdownWithCitations string `json:"markdown_with_citations,omitempty"`
	FitMarkdown           string `json:"fit_markdown,omitempty"`
}

// UnmarshalJSON accepts both the string and the object form.
func (m *markdown) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		m.RawMarkdown = s
		return nil
	}

	type alias markdown
	return json.Unmarshal(data, (*alias)(m))
}
