package pagefetch

import "encoding/json"

// ErrorKind classifies why a fetch failed. The set is closed: every failure
// maps to exactly one of these kinds.
type ErrorKind string

// ErrorKind constants.
const (
	ErrorKindNetwork ErrorKind = "NETWORK"
	ErrorKindTimeout ErrorKind = "TIMEOUT"
	ErrorKindBlocked ErrorKind = "BLOCKED"
	ErrorKindContent ErrorKind = "CONTENT_ERROR"
)

// ErrorKinds lists every ErrorKind in declaration order.
var ErrorKinds = []ErrorKind{
	ErrorKindNetwork,
	ErrorKindTimeout,
	ErrorKindBlocked,
	ErrorKindContent,
}

// Retryable reports whether resubmitting the URL is likely to help.
// Only transport failures are retryable.
func (k ErrorKind) Retryable() bool {
	switch k {
	case ErrorKindNetwork, ErrorKindTimeout:
		return true
	default:
		return false
	}
}

// SuggestedAction returns a short remediation hint for the kind.
func (k ErrorKind) SuggestedAction() string {
	switch k {
	case ErrorKindNetwork:
		return "Check that the URL is reachable and try again later."
	case ErrorKindTimeout:
		return "The page took too long to respond; try again later."
	case ErrorKindBlocked:
		return "The site blocks automated access; use a different source."
	case ErrorKindContent:
		return "The page has no extractable content; use a different source."
	default:
		return ""
	}
}

// Valid reports whether k is one of the declared kinds.
func (k ErrorKind) Valid() bool {
	switch k {
	case ErrorKindNetwork, ErrorKindTimeout, ErrorKindBlocked, ErrorKindContent:
		return true
	}
	return false
}

// FetchResult is the uniform outcome of one extraction attempt.
// Exactly one of Content or ErrorKind is populated.
type FetchResult struct {
	URL             string    `json:"url"`
	Success         bool      `json:"success"`
	Content         string    `json:"content,omitempty"`
	Title           string    `json:"title,omitempty"`
	Headings        []string  `json:"headings"`
	MetaDescription string    `json:"metaDescription,omitempty"`
	ErrorKind       ErrorKind `json:"errorKind,omitempty"`
	ErrorDetails    string    `json:"errorDetails,omitempty"`
	Backend         string    `json:"backend,omitempty"`
	ContentHash     string    `json:"contentHash,omitempty"`
}

// MarshalJSON encodes r, adding retryable and suggestedAction to failed
// results so consumers need not re-derive them from the kind.
func (r FetchResult) MarshalJSON() ([]byte, error) {
	type result FetchResult
	out := struct {
		result
		Retryable       *bool  `json:"retryable,omitempty"`
		SuggestedAction string `json:"suggestedAction,omitempty"`
	}{result: result(r)}
	if !r.Success {
		retryable := r.Retryable()
		out.Retryable = &retryable
		out.SuggestedAction = r.ErrorKind.SuggestedAction()
	}
	return json.Marshal(out)
}

// NewSuccess returns a successful result carrying the extracted fields.
// content is expected to be sanitized and validated already.
func NewSuccess(url string, ext *Extraction, content string) FetchResult {
	r := FetchResult{
		URL:      url,
		Success:  true,
		Content:  content,
		Headings: []string{},
	}
	if ext != nil {
		r.Title = ext.Title
		r.MetaDescription = ext.MetaDescription
		r.Headings = append(r.Headings, ext.Headings...)
	}
	return r
}

// NewFailure returns a failed result. Unknown kinds are coerced to
// ErrorKindContent so the taxonomy stays closed.
func NewFailure(url string, kind ErrorKind, details string) FetchResult {
	if !kind.Valid() {
		kind = ErrorKindContent
	}
	return FetchResult{
		URL:          url,
		ErrorKind:    kind,
		ErrorDetails: details,
		Headings:     []string{},
	}
}

// FailureFromError classifies err and returns the matching failed result.
func FailureFromError(url string, err error) FetchResult {
	kind, details := Classify(err)
	return NewFailure(url, kind, details)
}

// WithBackend returns a copy of r attributed to the named backend.
func (r FetchResult) WithBackend(name string) FetchResult {
	r.Backend = name
	return r
}

// WithContentHash returns a copy of r carrying the given content hash.
func (r FetchResult) WithContentHash(hash string) FetchResult {
	r.ContentHash = hash
	return r
}

// Retryable reports whether a failed result is worth resubmitting.
// Successful results are never retryable.
func (r FetchResult) Retryable() bool {
	return !r.Success && r.ErrorKind.Retryable()
}

// Validate returns an error if r breaks the content/error exclusivity invariant.
func (r FetchResult) Validate() error {
	hasContent := r.Content != ""
	hasError := r.ErrorKind != ""
	switch {
	case hasContent && hasError:
		return Errorf(EINVALID, "result for %q has both content and error kind", r.URL)
	case !hasContent && !hasError:
		return Errorf(EINVALID, "result for %q has neither content nor error kind", r.URL)
	case r.Success != hasContent:
		return Errorf(EINVALID, "result for %q has success=%t but content=%t", r.URL, r.Success, hasContent)
	case hasError && !r.ErrorKind.Valid():
		return Errorf(EINVALID, "result for %q has unknown error kind %q", r.URL, r.ErrorKind)
	}
	return nil
}

// BatchResult holds one FetchResult per input URL, in input order.
type BatchResult []FetchResult

// Succeeded returns the number of successful results.
func (b BatchResult) Succeeded() int {
	var n int
	for _, r := range b {
		if r.Success {
			n++
		}
	}
	return n
}

// Failed returns the number of failed results.
func (b BatchResult) Failed() int {
	return len(b) - b.Succeeded()
}
