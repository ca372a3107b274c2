package mock

import (
	"context"

	"github.com/fwojciec/pagekeep"
)

var (
	_ pagekeep.SyncClient    = (*SyncClient)(nil)
	_ pagekeep.RecordService = (*RecordService)(nil)
)

// SyncClient is a mock implementation of pagekeep.SyncClient.
type SyncClient struct {
	ExistsFn func(ctx context.Context, sourceURL string) (*pagekeep.StoredRecord, error)
	SaveFn   func(ctx context.Context, record *pagekeep.ExtractedRecord) (*pagekeep.StoredRecord, error)
	ListFn   func(ctx context.Context) ([]*pagekeep.StoredRecord, error)
}

func (c *SyncClient) Exists(ctx context.Context, sourceURL string) (*pagekeep.StoredRecord, error) {
	return c.ExistsFn(ctx, sourceURL)
}

func (c *SyncClient) Save(ctx context.Context, record *pagekeep.ExtractedRecord) (*pagekeep.StoredRecord, error) {
	return c.SaveFn(ctx, record)
}

func (c *SyncClient) List(ctx context.Context) ([]*pagekeep.StoredRecord, error) {
	return c.ListFn(ctx)
}

// RecordService is a mock implementation of pagekeep.RecordService.
type RecordService struct {
	CreateRecordFn    func(ctx context.Context, record *pagekeep.ExtractedRecord) (*pagekeep.StoredRecord, bool, error)
	FindRecordByURLFn func(ctx context.Context, sourceURL string) (*pagekeep.StoredRecord, error)
	FindRecordsFn     func(ctx context.Context, filter pagekeep.RecordFilter) ([]*pagekeep.StoredRecord, error)
}

func (s *RecordService) CreateRecord(ctx context.Context, record *pagekeep.ExtractedRecord) (*pagekeep.StoredRecord, bool, error) {
	return s.CreateRecordFn(ctx, record)
}

func (s *RecordService) FindRecordByURL(ctx context.Context, sourceURL string) (*pagekeep.StoredRecord, error) {
	return s.FindRecordByURLFn(ctx, sourceURL)
}

func (s *RecordService) FindRecords(ctx context.Context, filter pagekeep.RecordFilter) ([]*pagekeep.StoredRecord, error) {
	return s.FindRecordsFn(ctx, filter)
}
