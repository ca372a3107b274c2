package pagekeep

import (
	"context"
	"net/url"
	"strings"
	"time"
)

// RecordKind identifies which extractor produced a record.
type RecordKind string

// Supported record kinds.
const (
	KindPage    RecordKind = "page"
	KindProfile RecordKind = "profile"
)

// PageStats holds element counts captured from a page.
type PageStats struct {
	Headings   int `json:"headings"`
	Images     int `json:"images"`
	Paragraphs int `json:"paragraphs"`
}

// ExtractedRecord is the result of a single scrape. Text fields are either
// nil or non-empty, whitespace-collapsed, trimmed strings.
type ExtractedRecord struct {
	SourceURL      string     `json:"sourceUrl"`
	Kind           RecordKind `json:"kind,omitempty"`
	PrimaryField   *string    `json:"primaryField"`   // name or title
	SecondaryField *string    `json:"secondaryField"` // headline or description
	TertiaryField  *string    `json:"tertiaryField"`  // location or site name
	BodyText       *string    `json:"bodyText"`       // about or main text
	Stats          *PageStats `json:"stats,omitempty"`
	ScrapedAt      time.Time  `json:"scrapedAt"`
}

// Validate returns an error if the record contains invalid fields.
func (r *ExtractedRecord) Validate() error {
	if strings.TrimSpace(r.SourceURL) == "" {
		return Errorf(EINVALID, "record source URL required")
	}
	return nil
}

// Normalize re-applies Normalize to every text field.
func (r *ExtractedRecord) Normalize() {
	r.PrimaryField = Normalize(r.PrimaryField)
	r.SecondaryField = Normalize(r.SecondaryField)
	r.TertiaryField = Normalize(r.TertiaryField)
	r.BodyText = Normalize(r.BodyText)
}

// SameContent reports whether both records carry identical text fields.
func (r *ExtractedRecord) SameContent(other *ExtractedRecord) bool {
	if other == nil {
		return false
	}
	return equalPtr(r.PrimaryField, other.PrimaryField) &&
		equalPtr(r.SecondaryField, other.SecondaryField) &&
		equalPtr(r.TertiaryField, other.TertiaryField) &&
		equalPtr(r.BodyText, other.BodyText)
}

func equalPtr(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

// StoredRecord is an ExtractedRecord persisted by the record service.
// ID and timestamps are assigned by the service and never changed locally.
type StoredRecord struct {
	ExtractedRecord
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// CanonicalURL returns the record key for a page address. The fragment is
// always dropped; profile URLs also lose their query string and end in a
// single slash.
func CanonicalURL(rawURL string, kind RecordKind) (string, error) {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return "", Errorf(EINVALID, "invalid URL %q: %v", rawURL, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return "", Errorf(EINVALID, "URL %q must be absolute", rawURL)
	}
	u.Fragment = ""
	u.RawFragment = ""
	u.Host = strings.ToLower(u.Host)
	if kind == KindProfile {
		u.RawQuery = ""
		u.Path = strings.TrimRight(u.Path, "/") + "/"
		u.RawPath = ""
	}
	return u.String(), nil
}

// SyncClient talks to the remote record service.
type SyncClient interface {
	// Exists returns the stored record for sourceURL.
	// Returns nil without error when the service has no such record.
	Exists(ctx context.Context, sourceURL string) (*StoredRecord, error)

	// Save sends the record for persistence and returns the stored copy.
	// The service decides uniqueness; Save does not check for duplicates.
	Save(ctx context.Context, record *ExtractedRecord) (*StoredRecord, error)

	// List returns every stored record, newest first.
	List(ctx context.Context) ([]*StoredRecord, error)
}

// RecordService represents the storage behind the record service.
type RecordService interface {
	// CreateRecord stores the record, replacing any record with the same
	// source URL. Reports whether a new record was created.
	CreateRecord(ctx context.Context, record *ExtractedRecord) (*StoredRecord, bool, error)

	// FindRecordByURL retrieves a record by its source URL.
	// Returns ENOTFOUND if the record does not exist.
	FindRecordByURL(ctx context.Context, sourceURL string) (*StoredRecord, error)

	// FindRecords retrieves records matching the filter, newest first.
	FindRecords(ctx context.Context, filter RecordFilter) ([]*StoredRecord, error)
}

// RecordFilter represents a filter for FindRecords.
type RecordFilter struct {
	Kind *RecordKind `json:"kind"`

	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}
