package pagefetch

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Content validation thresholds.
const (
	// MinContentLength is the minimum number of characters in valid content.
	MinContentLength = 100

	// MinMeaningfulChars is the minimum number of ASCII alphanumeric or CJK
	// characters in valid content.
	MinMeaningfulChars = 50
)

// ErrorPageFingerprints are lowercase phrases that mark a page as an error
// page rather than content. The list is heuristic and known to be incomplete.
var ErrorPageFingerprints = []string{
	"page not found",
	"404 error",
	"access denied",
	"forbidden",
	"internal server error",
}

var (
	horizontalSpaceRe = regexp.MustCompile(`[\t\r\f\v\p{Zs}]+`)
	newlineSpaceRe    = regexp.MustCompile(` ?\n ?`)
	manyNewlinesRe    = regexp.MustCompile(`\n{3,}`)
)

// Sanitize normalizes whitespace in extracted text: runs of horizontal
// whitespace become a single space, 3+ newlines become 2, and the result
// is trimmed.
func Sanitize(text string) string {
	text = horizontalSpaceRe.ReplaceAllString(text, " ")
	text = newlineSpaceRe.ReplaceAllString(text, "\n")
	text = manyNewlinesRe.ReplaceAllString(text, "\n\n")
	return strings.TrimSpace(text)
}

// IsValidContent reports whether text looks like real page content.
func IsValidContent(text string) bool {
	if utf8.RuneCountInString(text) < MinContentLength {
		return false
	}
	if meaningfulChars(text) < MinMeaningfulChars {
		return false
	}
	lower := strings.ToLower(text)
	for _, fp := range ErrorPageFingerprints {
		if strings.Contains(lower, fp) {
			return false
		}
	}
	return true
}

// meaningfulChars counts ASCII letters and digits plus CJK ideographs.
func meaningfulChars(text string) int {
	var n int
	for _, r := range text {
		switch {
		case r < utf8.RuneSelf && (unicode.IsLetter(r) || unicode.IsDigit(r)):
			n++
		case unicode.Is(unicode.Han, r):
			n++
		}
	}
	return n
}

// IsHTMLContentType reports whether a Content-Type header value denotes HTML.
func IsHTMLContentType(contentType string) bool {
	return strings.Contains(strings.ToLower(contentType), "text/html")
}
