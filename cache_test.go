package pagekeep_test

import (
	"testing"

	"github.com/fwojciec/pagekeep"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stored(id, url, name, headline, location string) *pagekeep.StoredRecord {
	rec := &pagekeep.StoredRecord{ID: id}
	rec.SourceURL = url
	rec.PrimaryField = pagekeep.NormalizeString(name)
	rec.SecondaryField = pagekeep.NormalizeString(headline)
	rec.TertiaryField = pagekeep.NormalizeString(location)
	return rec
}

func TestCache_Upsert(t *testing.T) {
	t.Parallel()

	t.Run("replaces record with same source URL in place", func(t *testing.T) {
		t.Parallel()

		cache := pagekeep.NewCache([]*pagekeep.StoredRecord{
			stored("1", "https://a/", "Ann", "", ""),
			stored("2", "https://b/", "Bob", "", ""),
			stored("3", "https://c/", "Cid", "", ""),
		})

		idx, replaced := cache.Upsert(stored("2", "https://b/", "Bobby", "", ""))

		assert.True(t, replaced)
		assert.Equal(t, 1, idx)
		all := cache.All()
		require.Len(t, all, 3)
		assert.Equal(t, "Bobby", *all[1].PrimaryField)
		assert.Equal(t, "https://a/", all[0].SourceURL)
		assert.Equal(t, "https://c/", all[2].SourceURL)
	})

	t.Run("prepends unknown record", func(t *testing.T) {
		t.Parallel()

		cache := pagekeep.NewCache([]*pagekeep.StoredRecord{
			stored("1", "https://a/", "Ann", "", ""),
		})

		idx, replaced := cache.Upsert(stored("2", "https://b/", "Bob", "", ""))

		assert.False(t, replaced)
		assert.Equal(t, 0, idx)
		all := cache.All()
		require.Len(t, all, 2)
		assert.Equal(t, "https://b/", all[0].SourceURL)
		assert.Equal(t, "https://a/", all[1].SourceURL)
	})

	t.Run("works on empty cache", func(t *testing.T) {
		t.Parallel()

		cache := pagekeep.NewCache(nil)

		idx, replaced := cache.Upsert(stored("1", "https://a/", "Ann", "", ""))

		assert.False(t, replaced)
		assert.Equal(t, 0, idx)
		assert.Equal(t, 1, cache.Len())
		assert.NotNil(t, cache.Find("https://a/"))
	})
}

func TestCache_Search(t *testing.T) {
	t.Parallel()

	cache := pagekeep.NewCache([]*pagekeep.StoredRecord{
		stored("1", "https://a/", "Ann Smith", "Go Engineer", "Berlin"),
		stored("2", "https://b/", "Bob Jones", "Designer", "Paris"),
		stored("3", "https://c/", "Cid", "Staff engineer", "berlin area"),
	})

	t.Run("matches case-insensitively across fields in original order", func(t *testing.T) {
		t.Parallel()

		got := cache.Search("ENGINEER")

		require.Len(t, got, 2)
		assert.Equal(t, "1", got[0].ID)
		assert.Equal(t, "3", got[1].ID)
	})

	t.Run("matches tertiary field", func(t *testing.T) {
		t.Parallel()

		got := cache.Search("paris")

		require.Len(t, got, 1)
		assert.Equal(t, "2", got[0].ID)
	})

	t.Run("does not match body text", func(t *testing.T) {
		t.Parallel()

		c := pagekeep.NewCache(nil)
		rec := stored("9", "https://z/", "Zed", "", "")
		rec.BodyText = pagekeep.NormalizeString("secret keyword")
		c.Upsert(rec)

		assert.Empty(t, c.Search("keyword"))
	})

	t.Run("empty query returns everything", func(t *testing.T) {
		t.Parallel()

		assert.Len(t, cache.Search("  "), 3)
	})

	t.Run("no match returns empty", func(t *testing.T) {
		t.Parallel()

		assert.Empty(t, cache.Search("nobody"))
	})
}
