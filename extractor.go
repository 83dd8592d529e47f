package pagefetch

// Extraction holds the text and structural metadata pulled from a document.
type Extraction struct {
	// MainText is the text of the main content region, whitespace-sanitized.
	MainText string

	// Title is the document title.
	Title string

	// Headings holds the text of heading elements in document order.
	Headings []string

	// MetaDescription is the content of the description meta tag.
	MetaDescription string
}

// Extractor pulls main content and metadata out of an HTML document.
type Extractor interface {
	Extract(html string) (*Extraction, error)
}

// BlockDetector scans a document for anti-bot fingerprints such as CAPTCHA
// widgets or verification walls.
type BlockDetector interface {
	// DetectBlock returns a description of the first matching indicator
	// and true, or "" and false if the page looks unblocked.
	DetectBlock(html string) (string, bool)
}
