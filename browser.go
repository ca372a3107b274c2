package pagekeep

import (
	"context"
	"time"
)

// Tab identifies a browser tab that can be scraped.
type Tab struct {
	ID    string
	URL   string
	Title string
}

// ScrollPolicy bounds the scroll-and-wait cycles the page script performs
// before it reads the DOM, giving lazily loaded content time to appear.
type ScrollPolicy struct {
	Cycles int
	Delay  time.Duration
}

// Snapshot is the serializable result returned from the page context.
type Snapshot struct {
	URL   string `json:"url"`
	Title string `json:"title"`
	HTML  string `json:"html"`
}

// Browser gives the popup context access to the page context of a tab.
type Browser interface {
	// ActiveTab returns the tab the user is looking at.
	ActiveTab(ctx context.Context) (*Tab, error)

	// Capture runs the page script inside the tab and returns its snapshot.
	// The script can only see its own arguments.
	Capture(ctx context.Context, tab *Tab, policy ScrollPolicy) (*Snapshot, error)

	// Close releases browser resources.
	Close() error
}
