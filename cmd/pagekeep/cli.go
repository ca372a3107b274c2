package main

import (
	"context"
	"io"
	"log/slog"

	"github.com/fwojciec/pagekeep/session"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx     context.Context
	Stdin   io.Reader
	Stdout  io.Writer
	Stderr  io.Writer
	Logger  *slog.Logger
	Session *session.Session
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	APIURL  string `name:"api-url" env:"PAGEKEEP_API_URL" default:"http://localhost:5000" help:"Record service base URL"`
	Browser string `name:"browser" env:"PAGEKEEP_BROWSER_URL" help:"DevTools address of a running Chrome; its active tab is scraped"`
	Verbose bool   `short:"v" help:"Log browser and service calls to stderr"`

	Scrape ScrapeCmd `cmd:"" help:"Extract a record from the active tab or a URL"`
	Check  CheckCmd  `cmd:"" help:"Check whether a page is already saved"`
	List   ListCmd   `cmd:"" help:"List saved records"`
	Search SearchCmd `cmd:"" help:"Search saved records by name, headline or location"`
	Native NativeCmd `cmd:"" help:"Run as a Chrome native messaging host"`
}

// ScrapeCmd is the "scrape" subcommand.
type ScrapeCmd struct {
	URL       string `arg:"" optional:"" help:"Page to open in a headless browser (default: active tab of --browser)"`
	Static    bool   `help:"Fetch the URL over plain HTTP without running JavaScript"`
	Extractor string `short:"e" help:"Force an extractor (profile, page)"`
	Save      bool   `short:"s" help:"Save the record to the record service"`
	Force     bool   `short:"f" help:"Save even when the page is already saved"`
	JSON      bool   `name:"json" help:"Print the result as JSON"`
}

// CheckCmd is the "check" subcommand.
type CheckCmd struct {
	URL string `arg:"" help:"Page URL"`
}

// ListCmd is the "list" subcommand.
type ListCmd struct {
	JSON bool `name:"json" help:"Print records as JSON"`
}

// SearchCmd is the "search" subcommand.
type SearchCmd struct {
	Query string `arg:"" help:"Case-insensitive text to look for"`
	JSON  bool   `name:"json" help:"Print records as JSON"`
}

// NativeCmd is the "native" subcommand.
type NativeCmd struct{}
