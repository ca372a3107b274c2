package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/pagekeep"
)

var (
	_ pagekeep.SyncClient    = (*LoggingSyncClient)(nil)
	_ pagekeep.RecordService = (*LoggingRecordService)(nil)
)

// LoggingSyncClient wraps a SyncClient with logging.
type LoggingSyncClient struct {
	next   pagekeep.SyncClient
	logger *slog.Logger
}

// NewLoggingSyncClient creates a new LoggingSyncClient.
func NewLoggingSyncClient(next pagekeep.SyncClient, logger *slog.Logger) *LoggingSyncClient {
	return &LoggingSyncClient{next: next, logger: logger}
}

// Exists logs whether a record was found.
func (c *LoggingSyncClient) Exists(ctx context.Context, sourceURL string) (rec *pagekeep.StoredRecord, err error) {
	defer func(begin time.Time) {
		c.logger.Info("exists",
			"url", sourceURL,
			"found", rec != nil,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return c.next.Exists(ctx, sourceURL)
}

// Save logs the stored record ID.
func (c *LoggingSyncClient) Save(ctx context.Context, record *pagekeep.ExtractedRecord) (rec *pagekeep.StoredRecord, err error) {
	defer func(begin time.Time) {
		c.logger.Info("save",
			"url", record.SourceURL,
			"id", recordID(rec),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return c.next.Save(ctx, record)
}

// List logs the number of records returned.
func (c *LoggingSyncClient) List(ctx context.Context) (records []*pagekeep.StoredRecord, err error) {
	defer func(begin time.Time) {
		c.logger.Info("list",
			"count", len(records),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return c.next.List(ctx)
}

// LoggingRecordService wraps a RecordService with logging.
type LoggingRecordService struct {
	next   pagekeep.RecordService
	logger *slog.Logger
}

// NewLoggingRecordService creates a new LoggingRecordService.
func NewLoggingRecordService(next pagekeep.RecordService, logger *slog.Logger) *LoggingRecordService {
	return &LoggingRecordService{next: next, logger: logger}
}

// CreateRecord logs whether the record was created or replaced.
func (s *LoggingRecordService) CreateRecord(ctx context.Context, record *pagekeep.ExtractedRecord) (rec *pagekeep.StoredRecord, created bool, err error) {
	defer func(begin time.Time) {
		s.logger.Info("create record",
			"url", record.SourceURL,
			"id", recordID(rec),
			"created", created,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.CreateRecord(ctx, record)
}

// FindRecordByURL delegates to the wrapped service.
func (s *LoggingRecordService) FindRecordByURL(ctx context.Context, sourceURL string) (rec *pagekeep.StoredRecord, err error) {
	defer func(begin time.Time) {
		s.logger.Info("find record",
			"url", sourceURL,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.FindRecordByURL(ctx, sourceURL)
}

// FindRecords logs the number of records returned.
func (s *LoggingRecordService) FindRecords(ctx context.Context, filter pagekeep.RecordFilter) (records []*pagekeep.StoredRecord, err error) {
	defer func(begin time.Time) {
		s.logger.Info("find records",
			"limit", filter.Limit,
			"offset", filter.Offset,
			"count", len(records),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.FindRecords(ctx, filter)
}

func recordID(rec *pagekeep.StoredRecord) string {
	if rec == nil {
		return ""
	}
	return rec.ID
}
