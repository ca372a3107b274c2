// Package http implements pagekeep services over HTTP: a client for the
// record service, the record service's own handler, and a static page
// fetcher for sites that don't require JavaScript rendering.
package http

import (
	"context"
	"fmt"
	"time"

	"github.com/fwojciec/pagekeep"
	"github.com/go-resty/resty/v2"
)

// DefaultFetchTimeout is the default timeout for page requests.
const DefaultFetchTimeout = 10 * time.Second

// Ensure PageFetcher implements pagekeep.Browser at compile time.
var _ pagekeep.Browser = (*PageFetcher)(nil)

// PageFetcher is a Browser whose only tab is a single URL fetched over plain
// HTTP. No JavaScript runs, so scroll policies are ignored.
type PageFetcher struct {
	client  *resty.Client
	url     string
	timeout time.Duration
}

// Option configures a PageFetcher.
type Option func(*PageFetcher)

// WithTimeout sets the timeout for HTTP requests.
// Defaults to DefaultFetchTimeout (10s) if not specified.
func WithTimeout(d time.Duration) Option {
	return func(f *PageFetcher) {
		f.timeout = d
	}
}

// NewPageFetcher creates a PageFetcher whose active tab is pageURL.
func NewPageFetcher(pageURL string, opts ...Option) *PageFetcher {
	f := &PageFetcher{
		url:     pageURL,
		timeout: DefaultFetchTimeout,
	}
	for _, opt := range opts {
		opt(f)
	}

	f.client = resty.New().
		SetTimeout(f.timeout).
		SetHeader("Accept", "text/html,application/xhtml+xml;q=0.9,*/*;q=0.8")

	return f
}

// ActiveTab returns the configured URL as a tab.
func (f *PageFetcher) ActiveTab(ctx context.Context) (*pagekeep.Tab, error) {
	if f.url == "" {
		return nil, pagekeep.Errorf(pagekeep.ENOTSUPPORTED, "no page URL")
	}
	return &pagekeep.Tab{ID: f.url, URL: f.url}, nil
}

// Capture retrieves the HTML content of the tab's URL.
func (f *PageFetcher) Capture(ctx context.Context, tab *pagekeep.Tab, _ pagekeep.ScrollPolicy) (*pagekeep.Snapshot, error) {
	if tab == nil || tab.ID == "" || tab.URL == "" {
		return nil, pagekeep.Errorf(pagekeep.ENOTSUPPORTED, "tab has no URL")
	}

	resp, err := f.client.R().SetContext(ctx).Get(tab.URL)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode() != 200 {
		return nil, fmt.Errorf("HTTP %d for %s", resp.StatusCode(), tab.URL)
	}

	// Report the address after redirects, as a browser tab would.
	finalURL := tab.URL
	if raw := resp.RawResponse; raw != nil && raw.Request != nil && raw.Request.URL != nil {
		finalURL = raw.Request.URL.String()
	}

	return &pagekeep.Snapshot{URL: finalURL, HTML: resp.String()}, nil
}

// Close releases resources. For the page fetcher this is a no-op.
func (f *PageFetcher) Close() error {
	return nil
}
