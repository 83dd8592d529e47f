package pagefetch_test

import (
	"context"
	"errors"
	"fmt"
	"net"
	"testing"

	"github.com/fwojciec/pagefetch"
	"github.com/stretchr/testify/assert"
)

type timeoutErr struct{}

func (timeoutErr) Error() string   { return "i/o deadline reached" }
func (timeoutErr) Timeout() bool   { return true }
func (timeoutErr) Temporary() bool { return true }

func TestClassify(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want pagefetch.ErrorKind
	}{
		{"nil", nil, pagefetch.ErrorKindContent},
		{"deadline exceeded", context.DeadlineExceeded, pagefetch.ErrorKindTimeout},
		{"wrapped deadline", fmt.Errorf("navigate: %w", context.DeadlineExceeded), pagefetch.ErrorKindTimeout},
		{"canceled", context.Canceled, pagefetch.ErrorKindTimeout},
		{"timeout method", timeoutErr{}, pagefetch.ErrorKindTimeout},
		{"timeout message", errors.New("Navigation Timeout Exceeded: 30000ms"), pagefetch.ErrorKindTimeout},
		{"timed out message", errors.New("request timed out"), pagefetch.ErrorKindTimeout},
		{"op error", &net.OpError{Op: "dial", Net: "tcp", Err: errors.New("refused")}, pagefetch.ErrorKindNetwork},
		{"dns error", &net.DNSError{Err: "no such host", Name: "nope.invalid"}, pagefetch.ErrorKindNetwork},
		{"chrome net error", errors.New("net::ERR_CONNECTION_RESET"), pagefetch.ErrorKindNetwork},
		{"ssl message", errors.New("SSL handshake failed"), pagefetch.ErrorKindNetwork},
		{"tls message", errors.New("tls: bad certificate"), pagefetch.ErrorKindNetwork},
		{"blocked message", errors.New("request blocked by WAF"), pagefetch.ErrorKindBlocked},
		{"captcha message", errors.New("CAPTCHA required"), pagefetch.ErrorKindBlocked},
		{"rate limit message", errors.New("rate limit exceeded"), pagefetch.ErrorKindBlocked},
		{"forbidden message", errors.New("Forbidden"), pagefetch.ErrorKindBlocked},
		{"anything else", errors.New("unexpected token <"), pagefetch.ErrorKindContent},
		{"explicit kind wins", pagefetch.Failf(pagefetch.ErrorKindBlocked, "connection timeout page"), pagefetch.ErrorKindBlocked},
		{"wrapped explicit kind", fmt.Errorf("step: %w", pagefetch.StatusError(503)), pagefetch.ErrorKindNetwork},
		{"invalid explicit kind falls through", &pagefetch.FetchError{Kind: "BOGUS", Details: "captcha"}, pagefetch.ErrorKindBlocked},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			kind, details := pagefetch.Classify(tt.err)
			assert.Equal(t, tt.want, kind)
			assert.NotEmpty(t, details)
			assert.True(t, kind.Valid())
		})
	}
}

func TestStatusError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		code    int
		kind    pagefetch.ErrorKind
		details string
	}{
		{400, pagefetch.ErrorKindNetwork, "HTTP 400: Bad Request"},
		{403, pagefetch.ErrorKindNetwork, "HTTP 403: Forbidden"},
		{404, pagefetch.ErrorKindNetwork, "HTTP 404: Not Found"},
		{429, pagefetch.ErrorKindBlocked, "HTTP 429: Too Many Requests"},
		{500, pagefetch.ErrorKindNetwork, "HTTP 500: Internal Server Error"},
		{599, pagefetch.ErrorKindNetwork, "HTTP 599: Unknown Status"},
	}
	for _, tt := range tests {
		err := pagefetch.StatusError(tt.code)
		assert.Equal(t, tt.kind, err.Kind)
		assert.Equal(t, tt.details, err.Details)

		kind, details := pagefetch.Classify(err)
		assert.Equal(t, tt.kind, kind)
		assert.Equal(t, tt.details, details)
	}
}

func TestFetchError_Unwrap(t *testing.T) {
	t.Parallel()

	inner := errors.New("socket closed")
	err := &pagefetch.FetchError{Kind: pagefetch.ErrorKindNetwork, Details: "read failed", Err: inner}

	assert.ErrorIs(t, err, inner)
	assert.Equal(t, "NETWORK: read failed: socket closed", err.Error())
}
