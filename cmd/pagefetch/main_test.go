package main_test

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fwojciec/pagefetch"
	main "github.com/fwojciec/pagefetch/cmd/pagefetch"
	"github.com/fwojciec/pagefetch/fs"
	"github.com/fwojciec/pagefetch/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const pageHTML = `<!DOCTYPE html>
<html>
<head><title>Field Notes</title></head>
<body>
<article>
<h1>Field Notes</h1>
<p>The survey team recorded water levels at each station along the river every morning.</p>
<p>Readings were compared with the previous season to spot changes in the flood plain.</p>
<p>Where the banks had eroded, the team added markers so next year's crew can find the same spots.</p>
</article>
</body>
</html>`

func newSite(t *testing.T) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(pageHTML))
	}))
	t.Cleanup(server.Close)
	return server
}

func decodeLines(t *testing.T, out string) []pagefetch.FetchResult {
	t.Helper()
	var results []pagefetch.FetchResult
	scanner := bufio.NewScanner(strings.NewReader(out))
	scanner.Buffer(make([]byte, 0, 1024*1024), 1024*1024)
	for scanner.Scan() {
		var r pagefetch.FetchResult
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &r))
		results = append(results, r)
	}
	return results
}

func TestMain_Run_Help(t *testing.T) {
	t.Parallel()

	m := main.NewMain()
	var stdout, stderr bytes.Buffer

	err := m.Run(context.Background(), []string{"--help"}, nil, &stdout, &stderr)

	require.NoError(t, err)
	assert.Contains(t, stdout.String(), "pagefetch")
	assert.Contains(t, stdout.String(), "PAGEFETCH_WINDOW")
}

func TestMain_Run_NoArgs(t *testing.T) {
	t.Parallel()

	m := main.NewMain()
	var stdout, stderr bytes.Buffer

	err := m.Run(context.Background(), []string{}, nil, &stdout, &stderr)

	assert.Error(t, err)
}

func TestMain_Run_NoURLsAfterFlags(t *testing.T) {
	t.Parallel()

	m := main.NewMain()
	var stdout, stderr bytes.Buffer

	err := m.Run(context.Background(), []string{"--no-browser"}, nil, &stdout, &stderr)

	assert.EqualError(t, err, "no URLs provided")
}

func TestMain_Run_FetchesOverHTTP(t *testing.T) {
	t.Parallel()

	server := newSite(t)
	dbPath := filepath.Join(t.TempDir(), "results.db")
	outDir := t.TempDir()

	m := main.NewMain()
	var stdout, stderr bytes.Buffer

	err := m.Run(context.Background(), []string{
		"--no-browser",
		"--window-pause=0s",
		"--db", dbPath,
		"--out", outDir,
		server.URL + "/notes#top",
		"not a url",
		server.URL + "/missing",
	}, nil, &stdout, &stderr)
	require.NoError(t, err)

	results := decodeLines(t, stdout.String())
	require.Len(t, results, 3)

	assert.True(t, results[0].Success, results[0].ErrorDetails)
	assert.Equal(t, server.URL+"/notes", results[0].URL)
	assert.Equal(t, "Field Notes", results[0].Title)
	assert.Equal(t, pagefetch.BackendSecondary, results[0].Backend)
	assert.NotEmpty(t, results[0].ContentHash)

	assert.Equal(t, pagefetch.ErrorKindContent, results[1].ErrorKind)

	assert.Equal(t, pagefetch.ErrorKindNetwork, results[2].ErrorKind)
	assert.Equal(t, "HTTP 404: Not Found", results[2].ErrorDetails)

	assert.Contains(t, stderr.String(), "fetched 1/3 pages")

	db := sqlite.NewDB(dbPath)
	require.NoError(t, db.Open())
	defer db.Close()
	stored, err := sqlite.NewResultService(db).FindResults(context.Background(), pagefetch.ResultFilter{})
	require.NoError(t, err)
	assert.Len(t, stored, 3)

	relPath, err := fs.URLToPath(server.URL + "/notes")
	require.NoError(t, err)
	page, err := os.ReadFile(filepath.Join(outDir, relPath))
	require.NoError(t, err)
	assert.Contains(t, string(page), "title: Field Notes")
}

func TestMain_Run_ReadsURLsFromInput(t *testing.T) {
	t.Parallel()

	server := newSite(t)
	input := filepath.Join(t.TempDir(), "urls.txt")
	require.NoError(t, os.WriteFile(input, []byte("# seed list\n"+server.URL+"/a\n\n"+server.URL+"/b\n"), 0o644))

	m := main.NewMain()
	var stdout, stderr bytes.Buffer

	err := m.Run(context.Background(), []string{"--no-browser", "--window-pause=0s", "--input", input}, nil, &stdout, &stderr)
	require.NoError(t, err)

	results := decodeLines(t, stdout.String())
	require.Len(t, results, 2)
	assert.Equal(t, server.URL+"/a", results[0].URL)
	assert.Equal(t, server.URL+"/b", results[1].URL)
}

func TestMain_Run_ReadsURLsFromStdin(t *testing.T) {
	t.Parallel()

	server := newSite(t)

	m := main.NewMain()
	var stdout, stderr bytes.Buffer

	err := m.Run(context.Background(), []string{"--no-browser", "--input", "-"},
		strings.NewReader(server.URL+"/only\n"), &stdout, &stderr)
	require.NoError(t, err)

	results := decodeLines(t, stdout.String())
	require.Len(t, results, 1)
	assert.True(t, results[0].Success, results[0].ErrorDetails)
}

func TestMain_Run_ReadsConfigFromEnvironment(t *testing.T) {
	server := newSite(t)
	t.Setenv("PAGEFETCH_NO_BROWSER", "true")
	t.Setenv("PAGEFETCH_WINDOW", "0notanumber")

	m := main.NewMain()
	var stdout, stderr bytes.Buffer

	err := m.Run(context.Background(), []string{server.URL}, nil, &stdout, &stderr)

	assert.Error(t, err, "invalid PAGEFETCH_WINDOW must be rejected")
}
