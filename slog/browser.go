package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/pagekeep"
)

// Ensure LoggingBrowser implements pagekeep.Browser.
var _ pagekeep.Browser = (*LoggingBrowser)(nil)

// LoggingBrowser wraps a Browser with logging.
type LoggingBrowser struct {
	next   pagekeep.Browser
	logger *slog.Logger
}

// NewLoggingBrowser creates a new LoggingBrowser.
func NewLoggingBrowser(next pagekeep.Browser, logger *slog.Logger) *LoggingBrowser {
	return &LoggingBrowser{next: next, logger: logger}
}

// ActiveTab logs the tab found and delegates to the wrapped browser.
func (b *LoggingBrowser) ActiveTab(ctx context.Context) (tab *pagekeep.Tab, err error) {
	defer func(begin time.Time) {
		var url string
		if tab != nil {
			url = tab.URL
		}
		b.logger.Info("active tab",
			"url", url,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return b.next.ActiveTab(ctx)
}

// Capture logs the snapshot size and delegates to the wrapped browser.
func (b *LoggingBrowser) Capture(ctx context.Context, tab *pagekeep.Tab, policy pagekeep.ScrollPolicy) (snap *pagekeep.Snapshot, err error) {
	defer func(begin time.Time) {
		var url string
		if tab != nil {
			url = tab.URL
		}
		var size int
		if snap != nil {
			size = len(snap.HTML)
		}
		b.logger.Info("capture",
			"url", url,
			"cycles", policy.Cycles,
			"bytes", size,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return b.next.Capture(ctx, tab, policy)
}

// Close delegates to the wrapped browser.
func (b *LoggingBrowser) Close() error {
	return b.next.Close()
}
