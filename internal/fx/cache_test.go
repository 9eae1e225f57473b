package fx

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"invo/internal/calendar"
)

func TestCacheLookupInsert(t *testing.T) {
	day := calendar.Date(2025, time.April, 30)

	t.Run("miss then hit", func(t *testing.T) {
		c := NewCache(nil)

		_, ok := c.Lookup(day, "GBP", "EUR")
		assert.False(t, ok)

		c.Insert(day, "GBP", "EUR", decimal.RequireFromString("1.174"))

		rate, ok := c.Lookup(day, "GBP", "EUR")
		require.True(t, ok)
		assert.True(t, rate.Equal(decimal.RequireFromString("1.174")))
	})

	t.Run("first write wins", func(t *testing.T) {
		c := NewCache(nil)
		first := decimal.RequireFromString("1.174")

		got := c.Insert(day, "GBP", "EUR", first)
		assert.True(t, got.Equal(first))

		got = c.Insert(day, "GBP", "EUR", decimal.RequireFromString("1.2"))
		assert.True(t, got.Equal(first), "second insert must keep the first value")

		rate, ok := c.Lookup(day, "GBP", "EUR")
		require.True(t, ok)
		assert.True(t, rate.Equal(first))
	})

	t.Run("direction is part of the key", func(t *testing.T) {
		c := NewCache(nil)
		c.Insert(day, "GBP", "EUR", decimal.RequireFromString("1.174"))

		_, ok := c.Lookup(day, "EUR", "GBP")
		assert.False(t, ok)
	})
}

func TestCacheDirty(t *testing.T) {
	day := calendar.Date(2025, time.April, 30)

	t.Run("fresh cache is clean", func(t *testing.T) {
		c := NewCache(Snapshot{
			"2025-04-30": {"GBP": {"EUR": decimal.RequireFromString("1.174")}},
		})
		assert.False(t, c.Dirty())
	})

	t.Run("insert marks dirty", func(t *testing.T) {
		c := NewCache(nil)
		c.Insert(day, "GBP", "EUR", decimal.RequireFromString("1.174"))
		assert.True(t, c.Dirty())
	})

	t.Run("rejected duplicate insert stays clean", func(t *testing.T) {
		c := NewCache(Snapshot{
			"2025-04-30": {"GBP": {"EUR": decimal.RequireFromString("1.174")}},
		})
		c.Insert(day, "GBP", "EUR", decimal.RequireFromString("1.2"))
		assert.False(t, c.Dirty())
	})
}

func TestCacheSnapshot(t *testing.T) {
	day := calendar.Date(2025, time.April, 30)
	c := NewCache(nil)
	c.Insert(day, "GBP", "EUR", decimal.RequireFromString("1.174"))

	snap := c.Snapshot()
	require.Contains(t, snap, "2025-04-30")

	// Mutating the snapshot must not leak into the cache.
	snap["2025-04-30"]["GBP"]["EUR"] = decimal.RequireFromString("9.9")
	rate, ok := c.Lookup(day, "GBP", "EUR")
	require.True(t, ok)
	assert.True(t, rate.Equal(decimal.RequireFromString("1.174")))
}

func TestCacheNearestBefore(t *testing.T) {
	c := NewCache(Snapshot{
		"2025-04-25": {"GBP": {"EUR": decimal.RequireFromString("1.15")}},
		"2025-04-28": {"GBP": {"EUR": decimal.RequireFromString("1.17")}},
	})
	day := calendar.Date(2025, time.April, 30)

	t.Run("picks the nearest earlier day", func(t *testing.T) {
		rate, used, ok := c.nearestBefore(day, "GBP", "EUR", 7)
		require.True(t, ok)
		assert.Equal(t, calendar.Date(2025, time.April, 28), used)
		assert.True(t, rate.Equal(decimal.RequireFromString("1.17")))
	})

	t.Run("window bounds the scan", func(t *testing.T) {
		_, _, ok := c.nearestBefore(day, "GBP", "EUR", 1)
		assert.False(t, ok)
	})

	t.Run("the requested day itself is excluded", func(t *testing.T) {
		_, used, ok := c.nearestBefore(calendar.Date(2025, time.April, 29), "GBP", "EUR", 7)
		require.True(t, ok)
		assert.Equal(t, calendar.Date(2025, time.April, 28), used)
	})
}

func TestCacheDays(t *testing.T) {
	c := NewCache(Snapshot{
		"2025-04-30": {"GBP": {"EUR": decimal.RequireFromString("1.17")}},
		"2025-03-31": {"GBP": {"EUR": decimal.RequireFromString("1.16")}},
	})
	c.Insert(calendar.Date(2025, time.May, 30), "GBP", "EUR", decimal.RequireFromString("1.18"))

	assert.Equal(t, []string{"2025-03-31", "2025-04-30", "2025-05-30"}, c.Days())
}
