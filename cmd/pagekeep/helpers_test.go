package main_test

import (
	"bytes"
	"context"

	"github.com/fwojciec/pagekeep"
	main "github.com/fwojciec/pagekeep/cmd/pagekeep"
	"github.com/fwojciec/pagekeep/goquery"
	"github.com/fwojciec/pagekeep/mock"
	"github.com/fwojciec/pagekeep/session"
)

func ptr(s string) *string { return &s }

const profilePage = `<html><head><title>Jane Doe | LinkedIn</title></head><body>
<div class="pv-text-details__left-panel">
	<h1 class="text-heading-xlarge">Jane Doe</h1>
	<div class="text-body-medium break-words">Staff Engineer</div>
	<span class="text-body-small inline t-black--light break-words">Berlin</span>
</div>
</body></html>`

func profileBrowser() *mock.Browser {
	return &mock.Browser{
		ActiveTabFn: func(context.Context) (*pagekeep.Tab, error) {
			return &pagekeep.Tab{ID: "1", URL: "https://www.linkedin.com/in/jane/"}, nil
		},
		CaptureFn: func(_ context.Context, tab *pagekeep.Tab, _ pagekeep.ScrollPolicy) (*pagekeep.Snapshot, error) {
			return &pagekeep.Snapshot{URL: tab.URL, HTML: profilePage}, nil
		},
		CloseFn: func() error { return nil },
	}
}

func newDeps(browser pagekeep.Browser, records pagekeep.SyncClient) (*main.Dependencies, *bytes.Buffer, *bytes.Buffer) {
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	return &main.Dependencies{
		Ctx:     context.Background(),
		Stdout:  stdout,
		Stderr:  stderr,
		Session: session.New(browser, goquery.NewDefaultRegistry(), records, nil),
	}, stdout, stderr
}
