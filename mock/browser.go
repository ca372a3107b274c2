package mock

import (
	"context"

	"github.com/fwojciec/pagekeep"
)

var _ pagekeep.Browser = (*Browser)(nil)

// Browser is a mock implementation of pagekeep.Browser.
type Browser struct {
	ActiveTabFn func(ctx context.Context) (*pagekeep.Tab, error)
	CaptureFn   func(ctx context.Context, tab *pagekeep.Tab, policy pagekeep.ScrollPolicy) (*pagekeep.Snapshot, error)
	CloseFn     func() error
}

func (b *Browser) ActiveTab(ctx context.Context) (*pagekeep.Tab, error) {
	return b.ActiveTabFn(ctx)
}

func (b *Browser) Capture(ctx context.Context, tab *pagekeep.Tab, policy pagekeep.ScrollPolicy) (*pagekeep.Snapshot, error) {
	return b.CaptureFn(ctx, tab, policy)
}

func (b *Browser) Close() error {
	return b.CloseFn()
}
