package pagekeep

import (
	"strings"
	"sync"
)

// Cache is an in-memory mirror of stored records used for list and search
// views. It is rebuilt from the record service and never persisted.
type Cache struct {
	mu      sync.RWMutex
	records []*StoredRecord
}

// NewCache returns a cache holding records in the given order.
func NewCache(records []*StoredRecord) *Cache {
	c := &Cache{}
	c.Reset(records)
	return c
}

// Reset replaces the cache contents.
func (c *Cache) Reset(records []*StoredRecord) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.records = append([]*StoredRecord(nil), records...)
}

// Upsert replaces the record sharing rec's source URL, keeping its position,
// or prepends rec when no such record exists. It returns rec's index.
func (c *Cache) Upsert(rec *StoredRecord) (index int, replaced bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i, r := range c.records {
		if r.SourceURL == rec.SourceURL {
			c.records[i] = rec
			return i, true
		}
	}
	c.records = append([]*StoredRecord{rec}, c.records...)
	return 0, false
}

// Find returns the cached record for sourceURL, or nil.
func (c *Cache) Find(sourceURL string) *StoredRecord {
	c.mu.RLock()
	defer c.mu.RUnlock()

	for _, r := range c.records {
		if r.SourceURL == sourceURL {
			return r
		}
	}
	return nil
}

// All returns every cached record in display order.
func (c *Cache) All() []*StoredRecord {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]*StoredRecord(nil), c.records...)
}

// Len returns the number of cached records.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.records)
}

// Search returns records whose primary, secondary or tertiary field contains
// query, ignoring case. Order is preserved and an empty query matches all.
func (c *Cache) Search(query string) []*StoredRecord {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return c.All()
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	var matches []*StoredRecord
	for _, r := range c.records {
		if containsFold(r.PrimaryField, q) ||
			containsFold(r.SecondaryField, q) ||
			containsFold(r.TertiaryField, q) {
			matches = append(matches, r)
		}
	}
	return matches
}

func containsFold(field *string, lowerQuery string) bool {
	return field != nil && strings.Contains(strings.ToLower(*field), lowerQuery)
}
