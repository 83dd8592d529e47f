// Package scrape turns URLs into FetchResults. It holds the single-page
// fetch pipeline, the windowed batch runner, the backend fallback chain
// and a per-host rate limiter.
package scrape

import (
	"fmt"

	"github.com/cespare/xxhash/v2"
)

// ComputeHash returns the xxhash of content as lowercase hex.
func ComputeHash(content string) string {
	return fmt.Sprintf("%x", xxhash.Sum64String(content))
}
