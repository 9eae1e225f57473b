// Package fx resolves exchange rates for historical dates through a
// persistent date-keyed cache with a remote provider fallback, and converts
// amounts into the settlement currency with minor-unit rounding.
package fx

import (
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"invo/internal/calendar"
)

// Snapshot is the persisted shape of the rate cache: date -> from -> to ->
// rate. Dates are "YYYY-MM-DD" strings.
type Snapshot map[string]map[string]map[string]decimal.Decimal

// Cache is the in-memory rate cache for one invocation. Entries are
// immutable once written: a rate for a historical date never changes, and
// concurrent inserts for the same key keep the first value.
type Cache struct {
	mu    sync.Mutex
	rates Snapshot
	dirty bool
}

// NewCache builds a cache from a persisted snapshot. A nil snapshot yields
// an empty cache.
func NewCache(snapshot Snapshot) *Cache {
	if snapshot == nil {
		snapshot = Snapshot{}
	}
	return &Cache{rates: snapshot}
}

// Lookup returns the cached rate for the exact (date, from, to) key.
func (c *Cache) Lookup(date time.Time, from, to string) (decimal.Decimal, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	rate, ok := c.rates[date.Format(calendar.DateFormat)][from][to]
	return rate, ok
}

// Insert writes a rate under first-write-wins semantics: if the key is
// already present the existing value is kept. The returned rate is the one
// now in the cache.
func (c *Cache) Insert(date time.Time, from, to string, rate decimal.Decimal) decimal.Decimal {
	c.mu.Lock()
	defer c.mu.Unlock()
	day := date.Format(calendar.DateFormat)
	if c.rates[day] == nil {
		c.rates[day] = map[string]map[string]decimal.Decimal{}
	}
	if c.rates[day][from] == nil {
		c.rates[day][from] = map[string]decimal.Decimal{}
	}
	if existing, ok := c.rates[day][from][to]; ok {
		return existing
	}
	c.rates[day][from][to] = rate
	c.dirty = true
	return rate
}

// Dirty reports whether the cache holds entries not yet persisted.
func (c *Cache) Dirty() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.dirty
}

// Snapshot returns a deep copy of the cache contents for persisting.
func (c *Cache) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make(Snapshot, len(c.rates))
	for day, byFrom := range c.rates {
		out[day] = make(map[string]map[string]decimal.Decimal, len(byFrom))
		for from, byTo := range byFrom {
			out[day][from] = make(map[string]decimal.Decimal, len(byTo))
			for to, rate := range byTo {
				out[day][from][to] = rate
			}
		}
	}
	return out
}

// nearestBefore returns the cached rate for the given pair on the closest
// day strictly before date but no more than window days earlier. Days are
// scanned nearest-first, so the tie-break is deterministic.
func (c *Cache) nearestBefore(date time.Time, from, to string, window int) (decimal.Decimal, time.Time, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := 1; i <= window; i++ {
		day := date.AddDate(0, 0, -i)
		if rate, ok := c.rates[day.Format(calendar.DateFormat)][from][to]; ok {
			return rate, day, true
		}
	}
	return decimal.Decimal{}, time.Time{}, false
}

// Days returns the cached dates in ascending order. Used by the rates
// inspection command.
func (c *Cache) Days() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	days := make([]string, 0, len(c.rates))
	for day := range c.rates {
		days = append(days, day)
	}
	sort.Strings(days)
	return days
}
