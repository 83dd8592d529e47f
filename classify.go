package pagefetch

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
)

// FetchError is a pipeline failure that already knows its ErrorKind.
// Pipeline steps return it instead of relying on message matching.
type FetchError struct {
	Kind    ErrorKind
	Details string
	Err     error
}

// Error implements the error interface.
func (e *FetchError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Details, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Details)
}

// Unwrap returns the underlying error, if any.
func (e *FetchError) Unwrap() error {
	return e.Err
}

// Failf returns a FetchError of the given kind with a formatted message.
func Failf(kind ErrorKind, format string, args ...any) *FetchError {
	return &FetchError{Kind: kind, Details: fmt.Sprintf(format, args...)}
}

// StatusError maps an HTTP status code of 400 or above to a FetchError.
// 429 means the site is rate limiting us; every other status is treated
// as a network-level failure.
func StatusError(code int) *FetchError {
	kind := ErrorKindNetwork
	if code == http.StatusTooManyRequests {
		kind = ErrorKindBlocked
	}
	reason := http.StatusText(code)
	if reason == "" {
		reason = "Unknown Status"
	}
	return Failf(kind, "HTTP %d: %s", code, reason)
}

// Message markers, matched against the lowercased error message.
var (
	timeoutMarkers = []string{"timeout", "timed out"}
	networkMarkers = []string{"net::err_", "connection", "dns", "ssl", "tls", "no such host", "eof"}
	blockedMarkers = []string{"blocked", "forbidden", "captcha", "rate limit"}
)

// Classify maps an error to an ErrorKind and a diagnostic string.
// The first matching rule wins: explicit FetchError kinds, then timeouts,
// then network failures, then blocks. Anything else, nil included,
// is ErrorKindContent.
func Classify(err error) (ErrorKind, string) {
	if err == nil {
		return ErrorKindContent, "unknown error"
	}

	var fe *FetchError
	if errors.As(err, &fe) && fe.Kind.Valid() {
		return fe.Kind, fe.Details
	}

	msg := err.Error()
	lower := strings.ToLower(msg)

	if isTimeout(err) || containsAny(lower, timeoutMarkers) {
		return ErrorKindTimeout, msg
	}

	var opErr *net.OpError
	var dnsErr *net.DNSError
	if errors.As(err, &opErr) || errors.As(err, &dnsErr) || containsAny(lower, networkMarkers) {
		return ErrorKindNetwork, msg
	}

	if containsAny(lower, blockedMarkers) {
		return ErrorKindBlocked, msg
	}

	return ErrorKindContent, msg
}

// isTimeout reports whether err is a deadline, cancellation or an error
// whose type declares itself a timeout.
func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return true
	}
	var t interface{ Timeout() bool }
	return errors.As(err, &t) && t.Timeout()
}

func containsAny(s string, markers []string) bool {
	for _, m := range markers {
		if strings.Contains(s, m) {
			return true
		}
	}
	return false
}
