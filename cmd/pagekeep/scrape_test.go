package main_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/fwojciec/pagekeep"
	main "github.com/fwojciec/pagekeep/cmd/pagekeep"
	"github.com/fwojciec/pagekeep/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScrapeCmd_Run(t *testing.T) {
	t.Parallel()

	t.Run("prints extracted profile fields", func(t *testing.T) {
		t.Parallel()

		records := &mock.SyncClient{
			ExistsFn: func(context.Context, string) (*pagekeep.StoredRecord, error) { return nil, nil },
		}
		deps, stdout, stderr := newDeps(profileBrowser(), records)

		err := (&main.ScrapeCmd{}).Run(deps)

		require.NoError(t, err)
		out := stdout.String()
		assert.Contains(t, out, "https://www.linkedin.com/in/jane/")
		assert.Contains(t, out, "Name:        Jane Doe")
		assert.Contains(t, out, "Headline:    Staff Engineer")
		assert.Contains(t, out, "Location:    Berlin")
		assert.Contains(t, out, "About:       -")
		assert.NotContains(t, out, "Already saved")
		assert.Empty(t, stderr.String())
	})

	t.Run("reports duplicate and skips save without force", func(t *testing.T) {
		t.Parallel()

		saved := false
		records := &mock.SyncClient{
			ExistsFn: func(_ context.Context, u string) (*pagekeep.StoredRecord, error) {
				return &pagekeep.StoredRecord{ID: "rec-1", ExtractedRecord: pagekeep.ExtractedRecord{SourceURL: u}}, nil
			},
			SaveFn: func(context.Context, *pagekeep.ExtractedRecord) (*pagekeep.StoredRecord, error) {
				saved = true
				return nil, nil
			},
		}
		deps, stdout, _ := newDeps(profileBrowser(), records)

		err := (&main.ScrapeCmd{Save: true}).Run(deps)

		require.NoError(t, err)
		assert.False(t, saved)
		assert.Contains(t, stdout.String(), "Already saved as rec-1 (content differs)")
		assert.Contains(t, stdout.String(), "--force")
	})

	t.Run("saves duplicate with force", func(t *testing.T) {
		t.Parallel()

		records := &mock.SyncClient{
			ExistsFn: func(_ context.Context, u string) (*pagekeep.StoredRecord, error) {
				return &pagekeep.StoredRecord{ID: "rec-1", ExtractedRecord: pagekeep.ExtractedRecord{SourceURL: u}}, nil
			},
			ListFn: func(context.Context) ([]*pagekeep.StoredRecord, error) {
				return []*pagekeep.StoredRecord{
					{ID: "other", ExtractedRecord: pagekeep.ExtractedRecord{SourceURL: "https://example.com/"}},
					{ID: "rec-1", ExtractedRecord: pagekeep.ExtractedRecord{SourceURL: "https://www.linkedin.com/in/jane/"}},
				}, nil
			},
			SaveFn: func(_ context.Context, r *pagekeep.ExtractedRecord) (*pagekeep.StoredRecord, error) {
				return &pagekeep.StoredRecord{ID: "rec-1", ExtractedRecord: *r}, nil
			},
		}
		deps, stdout, _ := newDeps(profileBrowser(), records)

		err := (&main.ScrapeCmd{Save: true, Force: true}).Run(deps)

		require.NoError(t, err)
		assert.Contains(t, stdout.String(), "Replaced rec-1 (position 2)")
	})

	t.Run("still prints record when duplicate check fails", func(t *testing.T) {
		t.Parallel()

		records := &mock.SyncClient{
			ExistsFn: func(context.Context, string) (*pagekeep.StoredRecord, error) {
				return nil, pagekeep.Errorf(pagekeep.EUNAVAILABLE, "record service unreachable")
			},
		}
		deps, stdout, _ := newDeps(profileBrowser(), records)

		err := (&main.ScrapeCmd{}).Run(deps)

		require.NoError(t, err)
		assert.Contains(t, stdout.String(), "Jane Doe")
		assert.Contains(t, stdout.String(), "Saved state unknown")
	})

	t.Run("prints JSON with save result", func(t *testing.T) {
		t.Parallel()

		records := &mock.SyncClient{
			ExistsFn: func(context.Context, string) (*pagekeep.StoredRecord, error) { return nil, nil },
			ListFn:   func(context.Context) ([]*pagekeep.StoredRecord, error) { return nil, nil },
			SaveFn: func(_ context.Context, r *pagekeep.ExtractedRecord) (*pagekeep.StoredRecord, error) {
				return &pagekeep.StoredRecord{ID: "new", ExtractedRecord: *r}, nil
			},
		}
		deps, stdout, _ := newDeps(profileBrowser(), records)

		err := (&main.ScrapeCmd{JSON: true, Save: true}).Run(deps)
		require.NoError(t, err)

		var out struct {
			Scrape struct {
				Record    pagekeep.ExtractedRecord `json:"record"`
				Duplicate bool                     `json:"duplicate"`
			} `json:"scrape"`
			Save struct {
				Record pagekeep.StoredRecord `json:"record"`
				Index  int                   `json:"index"`
			} `json:"save"`
		}
		require.NoError(t, json.Unmarshal(stdout.Bytes(), &out))
		assert.Equal(t, "Jane Doe", *out.Scrape.Record.PrimaryField)
		assert.Nil(t, out.Scrape.Record.BodyText)
		assert.Equal(t, "new", out.Save.Record.ID)
		assert.Equal(t, 0, out.Save.Index)
	})

	t.Run("prints error for unsupported page", func(t *testing.T) {
		t.Parallel()

		browser := &mock.Browser{
			ActiveTabFn: func(context.Context) (*pagekeep.Tab, error) {
				return &pagekeep.Tab{ID: "1", URL: "chrome://settings"}, nil
			},
		}
		deps, _, stderr := newDeps(browser, &mock.SyncClient{})

		err := (&main.ScrapeCmd{}).Run(deps)

		require.Error(t, err)
		assert.Equal(t, pagekeep.ENOTSUPPORTED, pagekeep.ErrorCode(err))
		assert.Contains(t, stderr.String(), "error:")
	})

	t.Run("saves when refreshing the list fails", func(t *testing.T) {
		t.Parallel()

		records := &mock.SyncClient{
			ExistsFn: func(context.Context, string) (*pagekeep.StoredRecord, error) { return nil, nil },
			ListFn: func(context.Context) ([]*pagekeep.StoredRecord, error) {
				return nil, pagekeep.Errorf(pagekeep.EUNAVAILABLE, "record service returned 503")
			},
			SaveFn: func(_ context.Context, r *pagekeep.ExtractedRecord) (*pagekeep.StoredRecord, error) {
				return &pagekeep.StoredRecord{ID: "new", ExtractedRecord: *r}, nil
			},
		}
		deps, stdout, stderr := newDeps(profileBrowser(), records)

		err := (&main.ScrapeCmd{Save: true}).Run(deps)

		require.NoError(t, err)
		assert.Contains(t, stderr.String(), "warning: could not refresh records: record service returned 503")
		assert.Contains(t, stdout.String(), "Saved new (position 1)")
	})

	t.Run("prints error when save fails", func(t *testing.T) {
		t.Parallel()

		records := &mock.SyncClient{
			ExistsFn: func(context.Context, string) (*pagekeep.StoredRecord, error) { return nil, nil },
			ListFn:   func(context.Context) ([]*pagekeep.StoredRecord, error) { return nil, nil },
			SaveFn: func(context.Context, *pagekeep.ExtractedRecord) (*pagekeep.StoredRecord, error) {
				return nil, pagekeep.Errorf(pagekeep.EUNAVAILABLE, "record service returned 503")
			},
		}
		deps, _, stderr := newDeps(profileBrowser(), records)

		err := (&main.ScrapeCmd{Save: true}).Run(deps)

		require.Error(t, err)
		assert.Contains(t, stderr.String(), "error: record service returned 503")
	})
}
