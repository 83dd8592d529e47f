package pagefetch

import "context"

// Response holds the metadata of the main document response observed
// during navigation.
type Response struct {
	Status      int
	ContentType string
}

// Page is one isolated tab (or request) opened from a SessionPool.
// A Page is used by a single goroutine and must be closed after use.
type Page interface {
	// Navigate loads the URL and returns once the DOM has been parsed.
	// The returned Response is nil if the transport could not observe
	// the document response.
	Navigate(ctx context.Context, url string) (*Response, error)

	// WaitContent waits until any of the selectors matches an element
	// and returns the selector that matched first.
	WaitContent(ctx context.Context, selectors []string) (string, error)

	// HTML returns the current serialized document.
	HTML(ctx context.Context) (string, error)

	// Close releases the page. The owning session stays open.
	Close() error
}

// SessionPool hands out pages backed by a shared, long-lived session
// such as a browser process.
type SessionPool interface {
	// Acquire opens a new isolated page, starting the session on first use.
	Acquire(ctx context.Context) (Page, error)

	// Shutdown closes the shared session. It is safe to call more than once.
	Shutdown() error
}
