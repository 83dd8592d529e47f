package fs_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/fwojciec/pagefetch"
	"github.com/fwojciec/pagefetch/fs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestURLToPath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		url     string
		want    string
		wantErr bool
	}{
		{
			name: "simple path",
			url:  "https://example.com/docs/api/users",
			want: "example.com/docs/api/users.md",
		},
		{
			name: "trailing slash becomes index",
			url:  "https://example.com/docs/",
			want: "example.com/docs/index.md",
		},
		{
			name: "root path becomes index",
			url:  "https://example.com/",
			want: "example.com/index.md",
		},
		{
			name: "root without trailing slash",
			url:  "https://example.com",
			want: "example.com/index.md",
		},
		{
			name: "ignores query string and fragment",
			url:  "https://example.com/docs/api?version=2#section",
			want: "example.com/docs/api.md",
		},
		{
			name: "host is lowercased and port kept",
			url:  "http://Example.COM:8080/page",
			want: "example.com_8080/page.md",
		},
		{
			name: "parent segments stay inside host",
			url:  "https://example.com/../../etc/passwd",
			want: "example.com/etc/passwd.md",
		},
		{
			name:    "missing host",
			url:     "/relative/path",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := fs.URLToPath(tt.url)

			if tt.wantErr {
				require.Error(t, err)
				assert.Equal(t, pagefetch.EINVALID, pagefetch.ErrorCode(err))
				return
			}

			require.NoError(t, err)
			assert.Equal(t, filepath.FromSlash(tt.want), got)
		})
	}
}

// splitPage separates a formatted page into its decoded frontmatter and body.
func splitPage(t *testing.T, page string) (fs.Frontmatter, string) {
	t.Helper()
	require.True(t, strings.HasPrefix(page, "---\n"), "page should start with frontmatter")
	header, body, ok := strings.Cut(strings.TrimPrefix(page, "---\n"), "\n---\n\n")
	require.True(t, ok, "frontmatter should be closed")

	var fm fs.Frontmatter
	require.NoError(t, yaml.Unmarshal([]byte(header), &fm))
	return fm, body
}

func TestFormatResult(t *testing.T) {
	t.Parallel()

	fetchedAt := time.Date(2025, 1, 8, 0, 0, 0, 0, time.UTC)

	t.Run("writes metadata and content", func(t *testing.T) {
		t.Parallel()

		r := pagefetch.FetchResult{
			URL:         "https://example.com/docs/api",
			Success:     true,
			Title:       "API Reference",
			Content:     "This is the API documentation.",
			Backend:     pagefetch.BackendPrimary,
			ContentHash: "abc123",
		}

		got, err := fs.FormatResult(r, fetchedAt)
		require.NoError(t, err)

		fm, body := splitPage(t, got)
		assert.Equal(t, fs.Frontmatter{
			Source:  "https://example.com/docs/api",
			Title:   "API Reference",
			Backend: "primary",
			Hash:    "abc123",
			Fetched: "2025-01-08",
		}, fm)
		assert.Equal(t, "This is the API documentation.", body)
	})

	t.Run("keeps titles with YAML syntax intact", func(t *testing.T) {
		t.Parallel()

		titles := []string{
			"Foo: Bar",
			"Line one\nLine two",
			"# not a comment",
			"[draft] notes",
			"yes",
			"---",
		}
		for _, title := range titles {
			got, err := fs.FormatResult(pagefetch.FetchResult{
				URL:     "https://example.com/post",
				Success: true,
				Title:   title,
				Content: "Body.",
			}, fetchedAt)
			require.NoError(t, err)

			fm, body := splitPage(t, got)
			assert.Equal(t, title, fm.Title)
			assert.Equal(t, "Body.", body)
		}
	})
}

func TestWriter_SaveResult(t *testing.T) {
	t.Parallel()

	fixed := func() time.Time { return time.Date(2025, 1, 8, 0, 0, 0, 0, time.UTC) }

	t.Run("writes successful result with frontmatter", func(t *testing.T) {
		t.Parallel()

		baseDir := t.TempDir()
		w := fs.NewWriter(baseDir)
		w.Now = fixed

		err := w.SaveResult(context.Background(), pagefetch.FetchResult{
			URL:     "https://example.com/docs/api/users",
			Success: true,
			Title:   "Users API",
			Content: "Manage users.",
		})

		require.NoError(t, err)

		content, err := os.ReadFile(filepath.Join(baseDir, "example.com", "docs", "api", "users.md"))
		require.NoError(t, err)

		fm, body := splitPage(t, string(content))
		assert.Equal(t, fs.Frontmatter{
			Source:  "https://example.com/docs/api/users",
			Title:   "Users API",
			Fetched: "2025-01-08",
		}, fm)
		assert.Equal(t, "Manage users.", body)
	})

	t.Run("skips failed results", func(t *testing.T) {
		t.Parallel()

		baseDir := t.TempDir()
		w := fs.NewWriter(baseDir)

		err := w.SaveResult(context.Background(), pagefetch.NewFailure("https://example.com/x", pagefetch.ErrorKindBlocked, "captcha"))

		require.NoError(t, err)
		entries, err := os.ReadDir(baseDir)
		require.NoError(t, err)
		assert.Empty(t, entries)
	})

	t.Run("rejects inconsistent results", func(t *testing.T) {
		t.Parallel()

		w := fs.NewWriter(t.TempDir())

		err := w.SaveResult(context.Background(), pagefetch.FetchResult{
			URL:     "https://example.com/x",
			Success: true,
		})

		require.Error(t, err)
		assert.Equal(t, pagefetch.EINVALID, pagefetch.ErrorCode(err))
	})
}
