package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/fwojciec/pagefetch"
)

// CLI defines the command-line interface structure for Kong.
// Every flag can also be set through its PAGEFETCH_ environment variable.
type CLI struct {
	URLs  []string `arg:"" optional:"" help:"URLs to fetch"`
	Input string   `short:"i" help:"Read URLs from a file, one per line ('-' for stdin)"`

	NavTimeout      time.Duration `default:"30s" env:"PAGEFETCH_NAV_TIMEOUT" help:"Navigation timeout per page"`
	SelectorTimeout time.Duration `default:"10s" env:"PAGEFETCH_SELECTOR_TIMEOUT" help:"Time to wait for a content selector"`
	HTTPTimeout     time.Duration `default:"20s" env:"PAGEFETCH_HTTP_TIMEOUT" help:"Timeout for the plain HTTP backend"`
	Window          int           `short:"w" default:"3" env:"PAGEFETCH_WINDOW" help:"URLs fetched concurrently"`
	WindowPause     time.Duration `default:"1s" env:"PAGEFETCH_WINDOW_PAUSE" help:"Pause between windows"`
	RPS             float64       `default:"0" env:"PAGEFETCH_RPS" help:"Requests per second per host (0 = unlimited)"`
	MaxPages        int64         `default:"75" env:"PAGEFETCH_MAX_PAGES" help:"Pages per browser before it is recycled"`

	NoBrowser bool `env:"PAGEFETCH_NO_BROWSER" help:"Skip the browser backend"`
	NoSandbox bool `env:"PAGEFETCH_NO_SANDBOX" help:"Launch the browser without its sandbox (containers)"`

	APIURL string `name:"api-url" env:"PAGEFETCH_API_URL" help:"Base URL of a Crawl4AI-compatible extraction service"`
	APIKey string `name:"api-key" env:"PAGEFETCH_API_KEY" help:"Bearer token for the extraction service"`

	DB      string `env:"PAGEFETCH_DB" help:"SQLite database to store results in"`
	Out     string `short:"o" env:"PAGEFETCH_OUT" help:"Directory to write successful pages to as markdown"`
	Verbose bool   `short:"v" env:"PAGEFETCH_VERBOSE" help:"Enable debug logging"`
}

// collectURLs merges positional URLs with those read from Input.
// Blank lines and lines starting with '#' are skipped.
func (c *CLI) collectURLs(stdin io.Reader) ([]string, error) {
	urls := append([]string{}, c.URLs...)
	if c.Input == "" {
		return urls, nil
	}

	r := stdin
	if c.Input != "-" {
		f, err := os.Open(c.Input)
		if err != nil {
			return nil, fmt.Errorf("failed to open input: %w", err)
		}
		defer f.Close()
		r = f
	}

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		urls = append(urls, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read input: %w", err)
	}
	return urls, nil
}

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx    context.Context
	Stdout io.Writer
	Stderr io.Writer
	Logger *slog.Logger

	Fetcher pagefetch.PageFetcher
	Store   pagefetch.ResultStore
}

// stores fans a result out to several stores in order.
type stores []pagefetch.ResultStore

func (s stores) SaveResult(ctx context.Context, result pagefetch.FetchResult) error {
	for _, store := range s {
		if err := store.SaveResult(ctx, result); err != nil {
			return err
		}
	}
	return nil
}

// FetchCmd fetches URLs and writes one JSON object per result.
type FetchCmd struct {
	URLs []string
}

// Run executes the fetch. Failed pages are reported in the output and
// do not make the command fail.
func (c *FetchCmd) Run(deps *Dependencies) error {
	results := deps.Fetcher.FetchPages(deps.Ctx, c.URLs)

	var bytes int
	enc := json.NewEncoder(deps.Stdout)
	for _, r := range results {
		bytes += len(r.Content)
		if err := enc.Encode(r); err != nil {
			return fmt.Errorf("failed to write result: %w", err)
		}
		if deps.Store != nil {
			if err := deps.Store.SaveResult(deps.Ctx, r); err != nil {
				return fmt.Errorf("failed to save result for %s: %w", r.URL, err)
			}
		}
	}

	fmt.Fprintf(deps.Stderr, "fetched %d/%d pages (%s)\n", results.Succeeded(), len(results), FormatBytes(bytes))
	return nil
}

// FormatBytes formats bytes in human-readable form.
func FormatBytes(bytes int) string {
	const (
		KB = 1024
		MB = KB * 1024
	)
	switch {
	case bytes >= MB:
		return fmt.Sprintf("%.1f MB", float64(bytes)/float64(MB))
	case bytes >= KB:
		return fmt.Sprintf("%.1f KB", float64(bytes)/float64(KB))
	default:
		return fmt.Sprintf("%d B", bytes)
	}
}
