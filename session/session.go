// Package session drives a single scraping session: finding the active tab,
// capturing and extracting it, checking for duplicates, saving, and keeping
// the local cache of stored records.
package session

import (
	"context"
	"log/slog"
	"sync"

	"github.com/fwojciec/pagekeep"
	"golang.org/x/sync/semaphore"
)

// ScrapeOptions configures a scrape.
type ScrapeOptions struct {
	// Extractor forces a named extractor. Empty selects by URL.
	Extractor string
}

// ScrapeResult is the outcome of a scrape. The duplicate signal is advisory
// and never blocks a later save.
type ScrapeResult struct {
	Record *pagekeep.ExtractedRecord `json:"record"`

	// Existing is the stored record with the same source URL, if any.
	Existing *pagekeep.StoredRecord `json:"existing,omitempty"`

	// Duplicate is true when the service already holds the source URL.
	Duplicate bool `json:"duplicate"`

	// Unchanged is true when the stored copy has identical text fields.
	Unchanged bool `json:"unchanged"`

	// CheckFailed is true when the duplicate state could not be determined.
	CheckFailed bool `json:"checkFailed,omitempty"`
}

// SaveResult is the outcome of a save.
type SaveResult struct {
	Record *pagekeep.StoredRecord `json:"record"`

	// Index is the record's position in the cache.
	Index int `json:"index"`

	// Replaced is true when a cached record with the same source URL was replaced.
	Replaced bool `json:"replaced"`
}

// Session coordinates a Browser, extractors and the record service.
// At most one scrape and one save run at a time; a second concurrent
// call fails with EBUSY instead of queueing.
type Session struct {
	Browser    pagekeep.Browser
	Extractors pagekeep.ExtractorRegistry
	Records    pagekeep.SyncClient
	Cache      *pagekeep.Cache
	Logger     *slog.Logger

	once     sync.Once
	scraping *semaphore.Weighted
	saving   *semaphore.Weighted
}

// New returns a Session with an empty cache.
func New(browser pagekeep.Browser, extractors pagekeep.ExtractorRegistry, records pagekeep.SyncClient, logger *slog.Logger) *Session {
	s := &Session{
		Browser:    browser,
		Extractors: extractors,
		Records:    records,
		Logger:     logger,
	}
	s.init()
	return s
}

func (s *Session) init() {
	s.once.Do(func() {
		s.scraping = semaphore.NewWeighted(1)
		s.saving = semaphore.NewWeighted(1)
		if s.Cache == nil {
			s.Cache = pagekeep.NewCache(nil)
		}
		if s.Logger == nil {
			s.Logger = slog.New(slog.DiscardHandler)
		}
	})
}

// Activate rebuilds the cache from the record service.
func (s *Session) Activate(ctx context.Context) error {
	s.init()

	records, err := s.Records.List(ctx)
	if err != nil {
		return err
	}
	s.Cache.Reset(records)
	return nil
}

// Scrape extracts a record from the active tab and checks whether the
// service already holds it. A failed check is logged and reported through
// CheckFailed; it never fails the scrape.
func (s *Session) Scrape(ctx context.Context, opts ScrapeOptions) (*ScrapeResult, error) {
	s.init()

	if !s.scraping.TryAcquire(1) {
		return nil, pagekeep.Errorf(pagekeep.EBUSY, "a scrape is already in progress")
	}
	defer s.scraping.Release(1)

	tab, err := s.Browser.ActiveTab(ctx)
	if err != nil {
		return nil, err
	}
	if tab == nil || tab.ID == "" || tab.URL == "" {
		return nil, pagekeep.Errorf(pagekeep.ENOTSUPPORTED, "no active tab to scrape")
	}

	ext, err := s.extractor(tab.URL, opts.Extractor)
	if err != nil {
		return nil, err
	}

	snap, err := s.Browser.Capture(ctx, tab, ext.ScrollPolicy())
	if err != nil {
		return nil, err
	}

	rec, err := ext.Extract(snap)
	if err != nil {
		return nil, err
	}
	rec.Normalize()

	result := &ScrapeResult{Record: rec}

	existing, err := s.Records.Exists(ctx, rec.SourceURL)
	if err != nil {
		s.Logger.Warn("duplicate check failed", "url", rec.SourceURL, "err", err)
		result.CheckFailed = true
		return result, nil
	}
	if existing != nil {
		result.Existing = existing
		result.Duplicate = true
		result.Unchanged = rec.SameContent(&existing.ExtractedRecord)
	}
	return result, nil
}

func (s *Session) extractor(url, name string) (pagekeep.Extractor, error) {
	if name != "" {
		return s.Extractors.Get(name, url)
	}
	return s.Extractors.ForURL(url)
}

// Check returns the stored record for the page at rawURL, or nil. The URL is
// canonicalized the way its extractor would key it.
func (s *Session) Check(ctx context.Context, rawURL string) (*pagekeep.StoredRecord, error) {
	s.init()

	ext, err := s.Extractors.ForURL(rawURL)
	if err != nil {
		return nil, err
	}
	sourceURL, err := pagekeep.CanonicalURL(rawURL, pagekeep.RecordKind(ext.Name()))
	if err != nil {
		return nil, err
	}
	return s.Records.Exists(ctx, sourceURL)
}

// Save stores the record and upserts it into the cache. The returned index
// is the record's position in the cache after the upsert.
func (s *Session) Save(ctx context.Context, record *pagekeep.ExtractedRecord) (*SaveResult, error) {
	s.init()

	if record == nil {
		return nil, pagekeep.Errorf(pagekeep.EINVALID, "no record to save")
	}

	if !s.saving.TryAcquire(1) {
		return nil, pagekeep.Errorf(pagekeep.EBUSY, "a save is already in progress")
	}
	defer s.saving.Release(1)

	rec := *record
	rec.Normalize()
	if err := rec.Validate(); err != nil {
		return nil, err
	}

	stored, err := s.Records.Save(ctx, &rec)
	if err != nil {
		return nil, err
	}

	index, replaced := s.Cache.Upsert(stored)
	return &SaveResult{Record: stored, Index: index, Replaced: replaced}, nil
}

// List returns the cached records in display order.
func (s *Session) List() []*pagekeep.StoredRecord {
	s.init()
	return s.Cache.All()
}

// Search returns cached records matching query, in display order.
func (s *Session) Search(query string) []*pagekeep.StoredRecord {
	s.init()
	return s.Cache.Search(query)
}
