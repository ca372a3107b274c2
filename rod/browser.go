// Package rod implements pagekeep.Browser with Chrome DevTools automation.
package rod

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/fwojciec/pagekeep"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
)

// Ensure Browser implements pagekeep.Browser at compile time.
var _ pagekeep.Browser = (*Browser)(nil)

// Browser reaches tabs of a Chrome instance. In attach mode it connects to
// the user's running Chrome and scrapes the visible tab. In launch mode it
// starts a headless Chrome and opens a single URL as the active tab.
//
// Browser is safe for concurrent use by multiple goroutines.
type Browser struct {
	browser  *rod.Browser
	launcher *launcher.Launcher // nil in attach mode
	cancel   context.CancelFunc
	target   string // URL opened in launch mode

	mu     sync.Mutex
	opened *rod.Page
	closed atomic.Bool
}

// Attach connects to a running Chrome started with --remote-debugging-port.
// controlURL may be a websocket URL or a host:port pair.
// Close disconnects without closing the user's browser.
func Attach(controlURL string) (*Browser, error) {
	u, err := launcher.ResolveURL(controlURL)
	if err != nil {
		return nil, pagekeep.Errorf(pagekeep.EUNAVAILABLE, "cannot reach browser at %q: %v", controlURL, err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	browser := rod.New().Context(ctx).ControlURL(u)
	if err := browser.Connect(); err != nil {
		cancel()
		return nil, fmt.Errorf("connecting to browser: %w", err)
	}

	return &Browser{browser: browser, cancel: cancel}, nil
}

// Launch starts a headless Chrome whose active tab shows pageURL.
// Close must be called to stop the browser process.
//
// Returns an error if Chrome/Chromium cannot be found or launched.
func Launch(pageURL string) (*Browser, error) {
	l := launcher.New().
		Set("disable-background-timer-throttling").
		Set("disable-backgrounding-occluded-windows").
		Set("disable-renderer-backgrounding").
		Set("disable-dev-shm-usage").
		Leakless(true).
		Headless(true)

	u, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("launching browser: %w", err)
	}

	browser := rod.New().ControlURL(u)
	if err := browser.Connect(); err != nil {
		l.Kill() // Clean up launched process on connection failure
		return nil, fmt.Errorf("connecting to browser: %w", err)
	}

	return &Browser{browser: browser, launcher: l, target: pageURL}, nil
}

// ActiveTab returns the tab the user is looking at. In launch mode the
// target URL is opened on first use.
func (b *Browser) ActiveTab(ctx context.Context) (*pagekeep.Tab, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if b.closed.Load() {
		return nil, pagekeep.Errorf(pagekeep.EUNAVAILABLE, "browser closed")
	}

	if b.launcher != nil {
		page, err := b.open(ctx)
		if err != nil {
			return nil, err
		}
		return tabOf(page)
	}

	pages, err := b.browser.Pages()
	if err != nil {
		return nil, fmt.Errorf("listing tabs: %w", err)
	}
	if len(pages) == 0 {
		return nil, pagekeep.Errorf(pagekeep.ENOTSUPPORTED, "no open tab")
	}

	for _, page := range pages {
		res, err := page.Context(ctx).Eval(visibleScript)
		if err != nil {
			// Internal pages (chrome://) refuse evaluation; they are never active candidates.
			continue
		}
		if res.Value.Bool() {
			return tabOf(page)
		}
	}
	return tabOf(pages.First())
}

// open navigates the launch-mode tab to the target URL once.
func (b *Browser) open(ctx context.Context) (*rod.Page, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.opened != nil {
		return b.opened, nil
	}

	page, err := b.browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		return nil, err
	}

	if err := page.Context(ctx).Navigate(b.target); err != nil {
		_ = page.Close()
		return nil, fmt.Errorf("navigating to %s: %w", b.target, err)
	}
	if err := page.Context(ctx).WaitLoad(); err != nil {
		_ = page.Close()
		return nil, fmt.Errorf("waiting for %s: %w", b.target, err)
	}

	b.opened = page
	return page, nil
}

func tabOf(page *rod.Page) (*pagekeep.Tab, error) {
	info, err := page.Info()
	if err != nil {
		return nil, fmt.Errorf("reading tab info: %w", err)
	}
	return &pagekeep.Tab{
		ID:    string(info.TargetID),
		URL:   info.URL,
		Title: info.Title,
	}, nil
}

// Capture runs the capture script in the tab and returns its snapshot.
func (b *Browser) Capture(ctx context.Context, tab *pagekeep.Tab, policy pagekeep.ScrollPolicy) (*pagekeep.Snapshot, error) {
	if tab == nil || tab.ID == "" {
		return nil, pagekeep.Errorf(pagekeep.ENOTSUPPORTED, "tab has no id")
	}
	if b.closed.Load() {
		return nil, pagekeep.Errorf(pagekeep.EUNAVAILABLE, "browser closed")
	}

	page, err := b.browser.PageFromTarget(proto.TargetTargetID(tab.ID))
	if err != nil {
		return nil, fmt.Errorf("finding tab %s: %w", tab.ID, err)
	}

	cycles := max(policy.Cycles, 0)
	res, err := page.Context(ctx).Eval(captureScript, cycles, policy.Delay.Milliseconds())
	if err != nil {
		return nil, fmt.Errorf("running page script: %w", err)
	}

	return &pagekeep.Snapshot{
		URL:   res.Value.Get("url").Str(),
		Title: res.Value.Get("title").Str(),
		HTML:  res.Value.Get("html").Str(),
	}, nil
}

// Close releases browser resources. Close is safe to call multiple times.
func (b *Browser) Close() error {
	if !b.closed.CompareAndSwap(false, true) {
		return nil
	}

	if b.launcher == nil {
		b.cancel()
		return nil
	}

	err := b.browser.Close()
	b.launcher.Kill()
	return err
}
