package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/fwojciec/pagekeep"
	"github.com/google/uuid"
)

// Compile-time interface verification.
var _ pagekeep.RecordService = (*RecordService)(nil)

const recordColumns = `id, source_url, kind, primary_field, secondary_field, tertiary_field, body_text,
	stat_headings, stat_images, stat_paragraphs, content_hash, scraped_at, created_at, updated_at`

// RecordService implements pagekeep.RecordService using SQLite.
type RecordService struct {
	db *DB

	// Now returns the current time. Defaults to time.Now.
	Now func() time.Time
}

// NewRecordService creates a new RecordService.
func NewRecordService(db *DB) *RecordService {
	return &RecordService{db: db, Now: time.Now}
}

// hashContent computes xxHash of the record's text fields and returns a hex string.
func hashContent(r *pagekeep.ExtractedRecord) string {
	d := xxhash.New()
	for _, f := range []*string{r.PrimaryField, r.SecondaryField, r.TertiaryField, r.BodyText} {
		if f == nil {
			_, _ = d.WriteString("\x00")
			continue
		}
		_, _ = d.WriteString("\x01")
		_, _ = d.WriteString(*f)
		_, _ = d.WriteString("\x00")
	}
	return fmt.Sprintf("%016x", d.Sum64())
}

// CreateRecord stores the record keyed by its source URL. An existing record
// keeps its id and created_at; updated_at only moves when the content changes.
func (s *RecordService) CreateRecord(ctx context.Context, record *pagekeep.ExtractedRecord) (*pagekeep.StoredRecord, bool, error) {
	if err := record.Validate(); err != nil {
		return nil, false, err
	}

	rec := &pagekeep.StoredRecord{ExtractedRecord: *record}
	rec.Normalize()
	if rec.ScrapedAt.IsZero() {
		rec.ScrapedAt = s.now()
	}
	hash := hashContent(&rec.ExtractedRecord)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, false, err
	}
	defer func() { _ = tx.Rollback() }()

	existing, existingHash, err := findRecordByURL(ctx, tx, rec.SourceURL)
	created := pagekeep.ErrorCode(err) == pagekeep.ENOTFOUND
	if err != nil && !created {
		return nil, false, err
	}

	now := s.now()
	if created {
		rec.ID = uuid.New().String()
		rec.CreatedAt = now
		rec.UpdatedAt = now
	} else {
		rec.ID = existing.ID
		rec.CreatedAt = existing.CreatedAt
		rec.UpdatedAt = existing.UpdatedAt
		if existingHash != hash {
			rec.UpdatedAt = now
		}
	}

	var headings, images, paragraphs sql.NullInt64
	if rec.Stats != nil {
		headings = sql.NullInt64{Int64: int64(rec.Stats.Headings), Valid: true}
		images = sql.NullInt64{Int64: int64(rec.Stats.Images), Valid: true}
		paragraphs = sql.NullInt64{Int64: int64(rec.Stats.Paragraphs), Valid: true}
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO records (`+recordColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(source_url) DO UPDATE SET
			kind = excluded.kind,
			primary_field = excluded.primary_field,
			secondary_field = excluded.secondary_field,
			tertiary_field = excluded.tertiary_field,
			body_text = excluded.body_text,
			stat_headings = excluded.stat_headings,
			stat_images = excluded.stat_images,
			stat_paragraphs = excluded.stat_paragraphs,
			content_hash = excluded.content_hash,
			scraped_at = excluded.scraped_at,
			updated_at = excluded.updated_at
	`, rec.ID, rec.SourceURL, string(rec.Kind),
		nullString(rec.PrimaryField), nullString(rec.SecondaryField),
		nullString(rec.TertiaryField), nullString(rec.BodyText),
		headings, images, paragraphs, hash,
		rec.ScrapedAt.UTC().Format(time.RFC3339),
		rec.CreatedAt.Format(time.RFC3339), rec.UpdatedAt.Format(time.RFC3339))
	if err != nil {
		return nil, false, err
	}

	if err := tx.Commit(); err != nil {
		return nil, false, err
	}
	return rec, created, nil
}

func (s *RecordService) now() time.Time {
	if s.Now == nil {
		return time.Now().UTC().Truncate(time.Second)
	}
	return s.Now().UTC().Truncate(time.Second)
}

// FindRecordByURL retrieves a record by its source URL.
func (s *RecordService) FindRecordByURL(ctx context.Context, sourceURL string) (*pagekeep.StoredRecord, error) {
	rec, _, err := findRecordByURL(ctx, s.db, sourceURL)
	return rec, err
}

type rowQuerier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func findRecordByURL(ctx context.Context, q rowQuerier, sourceURL string) (*pagekeep.StoredRecord, string, error) {
	row := q.QueryRowContext(ctx, `SELECT `+recordColumns+` FROM records WHERE source_url = ?`, sourceURL)
	rec, hash, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, "", pagekeep.Errorf(pagekeep.ENOTFOUND, "record not found")
	}
	if err != nil {
		return nil, "", err
	}
	return rec, hash, nil
}

// FindRecords retrieves records matching the filter, newest first.
func (s *RecordService) FindRecords(ctx context.Context, filter pagekeep.RecordFilter) ([]*pagekeep.StoredRecord, error) {
	var query strings.Builder
	var args []any

	query.WriteString("SELECT " + recordColumns + " FROM records WHERE 1=1")

	if filter.Kind != nil {
		query.WriteString(" AND kind = ?")
		args = append(args, string(*filter.Kind))
	}

	query.WriteString(" ORDER BY created_at DESC, rowid DESC")
	appendPagination(&query, &args, filter.Limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := []*pagekeep.StoredRecord{}
	for rows.Next() {
		rec, _, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(row scanner) (*pagekeep.StoredRecord, string, error) {
	var (
		rec                                pagekeep.StoredRecord
		kind, hash                         string
		primary, secondary, tertiary, body sql.NullString
		headings, images, paragraphs       sql.NullInt64
		scrapedAt, createdAt, updatedAt    string
	)

	if err := row.Scan(&rec.ID, &rec.SourceURL, &kind, &primary, &secondary, &tertiary, &body,
		&headings, &images, &paragraphs, &hash, &scrapedAt, &createdAt, &updatedAt); err != nil {
		return nil, "", err
	}

	rec.Kind = pagekeep.RecordKind(kind)
	rec.PrimaryField = stringPtr(primary)
	rec.SecondaryField = stringPtr(secondary)
	rec.TertiaryField = stringPtr(tertiary)
	rec.BodyText = stringPtr(body)
	if headings.Valid || images.Valid || paragraphs.Valid {
		rec.Stats = &pagekeep.PageStats{
			Headings:   int(headings.Int64),
			Images:     int(images.Int64),
			Paragraphs: int(paragraphs.Int64),
		}
	}

	var err error
	if rec.ScrapedAt, err = parseRFC3339(scrapedAt, "scraped_at"); err != nil {
		return nil, "", err
	}
	if rec.CreatedAt, err = parseRFC3339(createdAt, "created_at"); err != nil {
		return nil, "", err
	}
	if rec.UpdatedAt, err = parseRFC3339(updatedAt, "updated_at"); err != nil {
		return nil, "", err
	}
	return &rec, hash, nil
}
