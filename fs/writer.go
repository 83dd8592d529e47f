// Package fs writes successful fetch results to a directory as markdown
// files with YAML frontmatter.
package fs

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/fwojciec/pagefetch"
	"gopkg.in/yaml.v3"
)

// URLToPath converts a page URL to a relative file path rooted at its host.
// Example: https://example.com/docs/api/users → example.com/docs/api/users.md
func URLToPath(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", pagefetch.Errorf(pagefetch.EINVALID, "invalid URL %q: %v", rawURL, err)
	}
	if u.Host == "" {
		return "", pagefetch.Errorf(pagefetch.EINVALID, "URL %q has no host", rawURL)
	}

	host := strings.ToLower(u.Hostname())
	if port := u.Port(); port != "" {
		host += "_" + port
	}

	// Cleaning against a rooted path keeps ".." segments inside the host dir.
	p := strings.TrimPrefix(path.Clean("/"+u.Path), "/")

	switch {
	case p == "":
		p = "index.md"
	case strings.HasSuffix(u.Path, "/"):
		p += "/index.md"
	default:
		p += ".md"
	}

	return filepath.Join(host, filepath.FromSlash(p)), nil
}

// Frontmatter is the YAML header written above each page.
type Frontmatter struct {
	Source  string `yaml:"source"`
	Title   string `yaml:"title"`
	Backend string `yaml:"backend,omitempty"`
	Hash    string `yaml:"hash,omitempty"`
	Fetched string `yaml:"fetched"`
}

// FormatResult formats a successful result with YAML frontmatter.
func FormatResult(r pagefetch.FetchResult, fetchedAt time.Time) (string, error) {
	header, err := yaml.Marshal(Frontmatter{
		Source:  r.URL,
		Title:   r.Title,
		Backend: r.Backend,
		Hash:    r.ContentHash,
		Fetched: fetchedAt.Format("2006-01-02"),
	})
	if err != nil {
		return "", fmt.Errorf("failed to encode frontmatter: %w", err)
	}

	var b strings.Builder
	b.WriteString("---\n")
	b.Write(header)
	b.WriteString("---\n\n")
	b.WriteString(r.Content)
	return b.String(), nil
}

// Ensure Writer implements pagefetch.ResultStore at compile time.
var _ pagefetch.ResultStore = (*Writer)(nil)

// Writer writes successful results as markdown files to a directory.
// Failed results are skipped; they carry no content worth keeping.
type Writer struct {
	baseDir string

	// Now returns the fetch timestamp written to the frontmatter.
	Now func() time.Time
}

// NewWriter creates a new Writer that writes to the given base directory.
func NewWriter(baseDir string) *Writer {
	return &Writer{
		baseDir: baseDir,
		Now:     time.Now,
	}
}

// SaveResult writes a successful result to disk.
func (w *Writer) SaveResult(ctx context.Context, result pagefetch.FetchResult) error {
	if err := result.Validate(); err != nil {
		return err
	}
	if !result.Success {
		return nil
	}

	relPath, err := URLToPath(result.URL)
	if err != nil {
		return err
	}

	fullPath := filepath.Join(w.baseDir, relPath)
	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return err
	}

	content, err := FormatResult(result, w.Now())
	if err != nil {
		return err
	}
	return os.WriteFile(fullPath, []byte(content), 0644)
}
