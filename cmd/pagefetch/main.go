package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/pagefetch"
	"github.com/fwojciec/pagefetch/crawl4ai"
	"github.com/fwojciec/pagefetch/fs"
	pagefetchgoquery "github.com/fwojciec/pagefetch/goquery"
	"github.com/fwojciec/pagefetch/htmltomarkdown"
	pagefetchhttp "github.com/fwojciec/pagefetch/http"
	"github.com/fwojciec/pagefetch/readability"
	"github.com/fwojciec/pagefetch/rod"
	"github.com/fwojciec/pagefetch/scrape"
	pagefetchslog "github.com/fwojciec/pagefetch/slog"
	"github.com/fwojciec/pagefetch/sqlite"
	"github.com/fwojciec/pagefetch/trafilatura"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// SQLite database, opened when a database path is configured.
	DB *sqlite.DB

	// Session pools owned by the program, shut down by Close.
	pools []pagefetch.SessionPool
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{}
}

// Close shuts down session pools and closes the database.
func (m *Main) Close() error {
	var firstErr error
	for _, p := range m.pools {
		if err := p.Shutdown(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	m.pools = nil
	if m.DB != nil {
		if err := m.DB.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
		m.DB = nil
	}
	return firstErr
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("pagefetch"),
		kong.Description("Extract readable content from web pages as JSON lines"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no URLs provided")
	}

	if len(args) == 1 && (args[0] == "--help" || args[0] == "-h" || args[0] == "help") {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	if _, err := parser.Parse(args); err != nil {
		return err
	}

	logger := newLogger(stderr, cli.Verbose)

	urls, err := cli.collectURLs(stdin)
	if err != nil {
		return err
	}
	if len(urls) == 0 {
		return fmt.Errorf("no URLs provided")
	}

	defer m.Close()

	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
		Logger: logger,
	}

	var sinks stores
	if cli.DB != "" {
		m.DB = sqlite.NewDB(cli.DB)
		if err := m.DB.Open(); err != nil {
			fmt.Fprintln(stderr, "Hint: Set PAGEFETCH_DB to use a different database path")
			return fmt.Errorf("failed to open database at %q: %w", cli.DB, err)
		}
		sinks = append(sinks, pagefetchslog.NewLoggingResultStore(sqlite.NewResultService(m.DB), logger))
	}
	if cli.Out != "" {
		sinks = append(sinks, pagefetchslog.NewLoggingResultStore(fs.NewWriter(cli.Out), logger))
	}
	if len(sinks) > 0 {
		deps.Store = sinks
	}

	deps.Fetcher = scrape.NewBatcher(m.buildChain(cli, logger),
		scrape.WithWindowSize(cli.Window),
		scrape.WithWindowPause(cli.WindowPause),
		scrape.WithRateLimiter(scrape.NewDomainLimiter(cli.RPS)),
		scrape.WithProgress(func(p pagefetch.FetchProgress) {
			logger.Debug("progress", "completed", p.Completed, "total", p.Total, "url", p.URL)
		}),
	)

	cmd := &FetchCmd{URLs: urls}
	return cmd.Run(deps)
}

// buildChain wires the backends in fallback order: browser, plain HTTP,
// then the managed extraction API when one is configured.
func (m *Main) buildChain(cli *CLI, logger *slog.Logger) *scrape.Chain {
	var backends []pagefetch.Backend

	if !cli.NoBrowser {
		pool := rod.NewSessionPool(
			rod.WithMaxPages(cli.MaxPages),
			rod.WithNoSandbox(cli.NoSandbox),
		)
		m.pools = append(m.pools, pool)

		primary := scrape.NewFetcher(
			pagefetchslog.NewLoggingSessionPool(pool, logger),
			pagefetchgoquery.NewExtractor(),
			scrape.WithName(pagefetch.BackendPrimary),
			scrape.WithBlockDetector(pagefetchgoquery.NewBlockDetector()),
			scrape.WithNavigationTimeout(cli.NavTimeout),
			scrape.WithSelectorTimeout(cli.SelectorTimeout),
		)
		backends = append(backends, pagefetchslog.NewLoggingBackend(primary, logger))
	}

	httpPool := pagefetchhttp.NewSessionPool(pagefetchhttp.WithTimeout(cli.HTTPTimeout))
	m.pools = append(m.pools, httpPool)

	secondary := scrape.NewFetcher(
		pagefetchslog.NewLoggingSessionPool(httpPool, logger),
		readability.NewExtractor(),
		scrape.WithName(pagefetch.BackendSecondary),
		scrape.WithBlockDetector(pagefetchgoquery.NewBlockDetector()),
		scrape.WithNavigationTimeout(cli.HTTPTimeout),
		scrape.WithSelectorTimeout(cli.SelectorTimeout),
	)
	backends = append(backends, pagefetchslog.NewLoggingBackend(secondary, logger))

	if cli.APIURL != "" {
		tertiary := crawl4ai.NewBackend(cli.APIURL,
			crawl4ai.WithAPIKey(cli.APIKey),
			crawl4ai.WithConverter(htmltomarkdown.NewConverter()),
			crawl4ai.WithExtractor(trafilatura.NewExtractor()),
		)
		backends = append(backends, pagefetchslog.NewLoggingBackend(tertiary, logger))
	}

	return scrape.NewChain(backends...)
}

func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
