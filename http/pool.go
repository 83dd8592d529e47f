// Package http implements pagefetch.SessionPool over plain HTTP requests
// for pages that do not need JavaScript rendering.
package http

import (
	"compress/flate"
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/andybalholm/brotli"
	"github.com/fwojciec/pagefetch"
)

// DefaultTimeout is the default timeout for HTTP requests.
const DefaultTimeout = 20 * time.Second

// DefaultMaxBodyBytes caps the size of a downloaded page.
const DefaultMaxBodyBytes = 5 * 1024 * 1024

// DefaultUserAgent is a desktop Chrome user agent; many sites serve
// reduced pages to unknown clients.
const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// Ensure SessionPool implements pagefetch.SessionPool at compile time.
var _ pagefetch.SessionPool = (*SessionPool)(nil)

// SessionPool hands out request-scoped pages sharing one http.Client.
// Unlike the rod pool it does not execute JavaScript.
type SessionPool struct {
	client       *http.Client
	timeout      time.Duration
	userAgent    string
	maxBodyBytes int64
}

// Option configures a SessionPool.
type Option func(*SessionPool)

// WithTimeout sets the timeout for HTTP requests.
// Defaults to DefaultTimeout (20s) if not specified.
func WithTimeout(d time.Duration) Option {
	return func(p *SessionPool) {
		p.timeout = d
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(p *SessionPool) {
		p.userAgent = ua
	}
}

// WithMaxBodyBytes caps the decoded body size.
func WithMaxBodyBytes(n int64) Option {
	return func(p *SessionPool) {
		p.maxBodyBytes = n
	}
}

// NewSessionPool creates a new HTTP SessionPool.
func NewSessionPool(opts ...Option) *SessionPool {
	p := &SessionPool{
		timeout:      DefaultTimeout,
		userAgent:    DefaultUserAgent,
		maxBodyBytes: DefaultMaxBodyBytes,
	}
	for _, opt := range opts {
		opt(p)
	}

	transport := &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		DialContext:           (&net.Dialer{Timeout: 10 * time.Second, KeepAlive: 30 * time.Second}).DialContext,
		TLSHandshakeTimeout:   10 * time.Second,
		MaxIdleConns:          100,
		IdleConnTimeout:       90 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}
	p.client = &http.Client{
		Timeout:   p.timeout,
		Transport: transport,
	}

	return p
}

// Acquire returns a new page. It never blocks.
func (p *SessionPool) Acquire(ctx context.Context) (pagefetch.Page, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return &Page{pool: p}, nil
}

// Shutdown closes idle connections.
func (p *SessionPool) Shutdown() error {
	p.client.CloseIdleConnections()
	return nil
}

// get performs the request and returns the response with its decoded body.
func (p *SessionPool) get(ctx context.Context, url string) (*http.Response, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, nil, err
	}
	req.Header.Set("User-Agent", p.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.8")
	req.Header.Set("Accept-Encoding", "gzip, deflate, br")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, nil, err
	}

	body, err := p.readBody(resp)
	if err != nil {
		return nil, nil, err
	}
	return resp, body, nil
}

// readBody decodes the body according to Content-Encoding and enforces the
// size limit.
func (p *SessionPool) readBody(resp *http.Response) ([]byte, error) {
	reader := io.Reader(resp.Body)
	closers := []io.Closer{resp.Body}

	switch strings.ToLower(strings.TrimSpace(resp.Header.Get("Content-Encoding"))) {
	case "gzip":
		gz, err := gzip.NewReader(resp.Body)
		if err != nil {
			_ = resp.Body.Close()
			return nil, fmt.Errorf("gzip decode: %w", err)
		}
		reader = gz
		closers = append(closers, gz)
	case "br":
		reader = brotli.NewReader(resp.Body)
	case "deflate":
		fl := flate.NewReader(resp.Body)
		reader = fl
		closers = append(closers, fl)
	}

	defer func() {
		for i := len(closers) - 1; i >= 0; i-- {
			_ = closers[i].Close()
		}
	}()

	body, err := io.ReadAll(io.LimitReader(reader, p.maxBodyBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	if int64(len(body)) > p.maxBodyBytes {
		return nil, pagefetch.Failf(pagefetch.ErrorKindContent, "response body exceeds limit of %d bytes", p.maxBodyBytes)
	}
	return body, nil
}
