package pagefetch

import (
	"net/url"
	"strings"
)

// ValidateURL reports whether raw parses as an absolute http or https URL
// with a host. It performs no I/O.
func ValidateURL(raw string) bool {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return false
	}
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	switch strings.ToLower(u.Scheme) {
	case "http", "https":
	default:
		return false
	}
	return u.Hostname() != ""
}

// CanonicalizeURL trims surrounding whitespace and strips the fragment,
// including text fragments such as "#:~:text=...". It accepts any input,
// valid or not.
func CanonicalizeURL(raw string) string {
	s := strings.TrimSpace(raw)
	if i := strings.IndexByte(s, '#'); i >= 0 {
		s = s[:i]
	}
	return s
}
