package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/pagekeep"
	"github.com/fwojciec/pagekeep/goquery"
	pkhttp "github.com/fwojciec/pagekeep/http"
	"github.com/fwojciec/pagekeep/readability"
	"github.com/fwojciec/pagekeep/rod"
	"github.com/fwojciec/pagekeep/session"
	pkslog "github.com/fwojciec/pagekeep/slog"
	"github.com/fwojciec/pagekeep/trafilatura"
	"github.com/joho/godotenv"
)

func main() {
	ctx := context.Background()

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "warning: reading .env: %v\n", err)
	}

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Services for end-to-end testing. When nil, Run builds them from flags.
	Browser pagekeep.Browser
	Records pagekeep.SyncClient
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{}
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("pagekeep"),
		kong.Description("Extract structured records from web pages and keep them in a record service"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		err := fmt.Errorf("no command specified. Run 'pagekeep --help' to see available commands")
		fmt.Fprintf(stderr, "error: %v\n", err)
		return err
	}

	cmd := args[0]
	if cmd == "help" || cmd == "--help" || cmd == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return err
	}

	level := slog.LevelWarn
	if cli.Verbose {
		level = slog.LevelInfo
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	var extractors pagekeep.ExtractorRegistry = goquery.NewDefaultRegistry(
		trafilatura.NewExtractor(),
		readability.NewExtractor(),
	)

	records := m.Records
	if records == nil {
		records = pkhttp.NewClient(cli.APIURL)
	}

	// Only scrape and native reach a page, so only they open a browser.
	browser := m.Browser
	switch {
	case browser != nil:
	case kongCtx.Command() == "native" && cli.Browser == "":
		// Records stay reachable; only SCRAPE_PAGE fails.
		browser = noBrowser{}
	case strings.HasPrefix(kongCtx.Command(), "scrape") || kongCtx.Command() == "native":
		browser, err = openBrowser(cli)
		if err != nil {
			fmt.Fprintf(stderr, "error: %s\n", pagekeep.ErrorMessage(err))
			return err
		}
		defer browser.Close()
	}

	if cli.Verbose {
		extractors = pkslog.NewLoggingRegistry(extractors, logger)
		records = pkslog.NewLoggingSyncClient(records, logger)
		if browser != nil {
			browser = pkslog.NewLoggingBrowser(browser, logger)
		}
	}

	deps := &Dependencies{
		Ctx:     ctx,
		Stdin:   stdin,
		Stdout:  stdout,
		Stderr:  stderr,
		Logger:  logger,
		Session: session.New(browser, extractors, records, logger),
	}

	return kongCtx.Run(deps)
}

// openBrowser chooses how to reach the page: a static HTTP fetch, the
// user's running Chrome, or a headless Chrome opened on the given URL.
func openBrowser(cli *CLI) (pagekeep.Browser, error) {
	pageURL := cli.Scrape.URL

	switch {
	case cli.Scrape.Static:
		if pageURL == "" {
			return nil, pagekeep.Errorf(pagekeep.EINVALID, "--static needs a URL")
		}
		return pkhttp.NewPageFetcher(pageURL), nil
	case pageURL != "":
		b, err := rod.Launch(pageURL)
		if err != nil {
			return nil, pagekeep.Errorf(pagekeep.EUNAVAILABLE, "%v (Chrome or Chromium must be installed)", err)
		}
		return b, nil
	case cli.Browser != "":
		b, err := rod.Attach(cli.Browser)
		if err != nil {
			return nil, pagekeep.Errorf(pagekeep.EUNAVAILABLE, "%v (start Chrome with --remote-debugging-port)", err)
		}
		return b, nil
	default:
		return nil, pagekeep.Errorf(pagekeep.EINVALID, "nothing to scrape: pass a URL or --browser / PAGEKEEP_BROWSER_URL")
	}
}

// noBrowser stands in when no Chrome is configured for the native host.
type noBrowser struct{}

func (noBrowser) ActiveTab(context.Context) (*pagekeep.Tab, error) {
	return nil, errNoBrowser()
}

func (noBrowser) Capture(context.Context, *pagekeep.Tab, pagekeep.ScrollPolicy) (*pagekeep.Snapshot, error) {
	return nil, errNoBrowser()
}

func (noBrowser) Close() error { return nil }

func errNoBrowser() error {
	return pagekeep.Errorf(pagekeep.ENOTSUPPORTED, "no browser configured: set --browser or PAGEKEEP_BROWSER_URL")
}
