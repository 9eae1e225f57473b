package fx

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"invo/internal/calendar"
)

// providerFunc adapts a function to the Provider interface for tests.
type providerFunc func(ctx context.Context, date time.Time, from, to string) (decimal.Decimal, error)

func (f providerFunc) Rate(ctx context.Context, date time.Time, from, to string) (decimal.Decimal, error) {
	return f(ctx, date, from, to)
}

// countingProvider records how many calls reach the remote provider.
type countingProvider struct {
	calls int
	fn    providerFunc
}

func (p *countingProvider) Rate(ctx context.Context, date time.Time, from, to string) (decimal.Decimal, error) {
	p.calls++
	return p.fn(ctx, date, from, to)
}

func fixedRate(rate string) providerFunc {
	return func(context.Context, time.Time, string, string) (decimal.Decimal, error) {
		return decimal.RequireFromString(rate), nil
	}
}

func noRate() providerFunc {
	return func(ctx context.Context, date time.Time, from, to string) (decimal.Decimal, error) {
		return decimal.Decimal{}, rateErr("Rate", date, from, to, ErrRateUnavailable)
	}
}

func newTestService(cache *Cache, provider Provider, fallback FallbackPolicy) *Service {
	s := NewService(cache, provider, fallback)
	s.now = func() time.Time { return calendar.Date(2025, time.June, 15) }
	return s
}

func TestServiceQuote(t *testing.T) {
	ctx := context.Background()
	day := calendar.Date(2025, time.April, 30)

	t.Run("same currency answers one without any lookup", func(t *testing.T) {
		provider := &countingProvider{fn: noRate()}
		s := newTestService(NewCache(nil), provider, FallbackPolicy{})

		quote, err := s.Quote(ctx, day, "EUR", "EUR")
		require.NoError(t, err)
		assert.True(t, quote.Rate.Equal(decimal.NewFromInt(1)))
		assert.False(t, quote.Approximate)
		assert.Equal(t, 0, provider.calls)
	})

	t.Run("future date fails before any lookup", func(t *testing.T) {
		provider := &countingProvider{fn: fixedRate("1.17")}
		s := newTestService(NewCache(nil), provider, FallbackPolicy{})

		_, err := s.Quote(ctx, calendar.Date(2025, time.June, 16), "GBP", "EUR")
		assert.ErrorIs(t, err, ErrInvalidDate)
		assert.Equal(t, 0, provider.calls)
	})

	t.Run("cache hit bypasses the provider", func(t *testing.T) {
		provider := &countingProvider{fn: fixedRate("9.99")}
		cache := NewCache(Snapshot{
			"2025-04-30": {"GBP": {"EUR": decimal.RequireFromString("1.174")}},
		})
		s := newTestService(cache, provider, FallbackPolicy{})

		quote, err := s.Quote(ctx, day, "GBP", "EUR")
		require.NoError(t, err)
		assert.True(t, quote.Rate.Equal(decimal.RequireFromString("1.174")))
		assert.Equal(t, day, quote.Date)
		assert.Equal(t, 0, provider.calls)
	})

	t.Run("cache miss fetches once and caches", func(t *testing.T) {
		provider := &countingProvider{fn: fixedRate("1.174")}
		cache := NewCache(nil)
		s := newTestService(cache, provider, FallbackPolicy{})

		quote, err := s.Quote(ctx, day, "GBP", "EUR")
		require.NoError(t, err)
		assert.True(t, quote.Rate.Equal(decimal.RequireFromString("1.174")))
		assert.Equal(t, 1, provider.calls)

		_, err = s.Quote(ctx, day, "GBP", "EUR")
		require.NoError(t, err)
		assert.Equal(t, 1, provider.calls, "second quote must come from the cache")
		assert.True(t, cache.Dirty())
	})

	t.Run("provider failure without fallback surfaces", func(t *testing.T) {
		s := newTestService(NewCache(nil), noRate(), FallbackPolicy{})

		_, err := s.Quote(ctx, day, "GBP", "EUR")
		assert.ErrorIs(t, err, ErrRateUnavailable)
	})
}

func TestServiceFallback(t *testing.T) {
	ctx := context.Background()
	day := calendar.Date(2025, time.April, 30)

	t.Run("falls back to a cached earlier day", func(t *testing.T) {
		cache := NewCache(Snapshot{
			"2025-04-28": {"GBP": {"EUR": decimal.RequireFromString("1.17")}},
		})
		s := newTestService(cache, noRate(), FallbackPolicy{Enabled: true, WindowDays: 7})

		quote, err := s.Quote(ctx, day, "GBP", "EUR")
		require.NoError(t, err)
		assert.True(t, quote.Approximate)
		assert.Equal(t, calendar.Date(2025, time.April, 28), quote.Date)
		assert.True(t, quote.Rate.Equal(decimal.RequireFromString("1.17")))
	})

	t.Run("falls back through the provider day by day", func(t *testing.T) {
		available := calendar.Date(2025, time.April, 27)
		provider := providerFunc(func(ctx context.Context, date time.Time, from, to string) (decimal.Decimal, error) {
			if date.Equal(available) {
				return decimal.RequireFromString("1.16"), nil
			}
			return decimal.Decimal{}, rateErr("Rate", date, from, to, ErrRateUnavailable)
		})
		cache := NewCache(nil)
		s := newTestService(cache, provider, FallbackPolicy{Enabled: true, WindowDays: 7})

		quote, err := s.Quote(ctx, day, "GBP", "EUR")
		require.NoError(t, err)
		assert.True(t, quote.Approximate)
		assert.Equal(t, available, quote.Date)

		// The fallback rate lands in the cache under its own day.
		rate, ok := cache.Lookup(available, "GBP", "EUR")
		require.True(t, ok)
		assert.True(t, rate.Equal(decimal.RequireFromString("1.16")))
	})

	t.Run("window exhausted surfaces the original failure", func(t *testing.T) {
		s := newTestService(NewCache(nil), noRate(), FallbackPolicy{Enabled: true, WindowDays: 3})

		_, err := s.Quote(ctx, day, "GBP", "EUR")
		assert.ErrorIs(t, err, ErrRateUnavailable)
	})

	t.Run("disabled fallback never scans earlier days", func(t *testing.T) {
		cache := NewCache(Snapshot{
			"2025-04-28": {"GBP": {"EUR": decimal.RequireFromString("1.17")}},
		})
		s := newTestService(cache, noRate(), FallbackPolicy{Enabled: false, WindowDays: 7})

		_, err := s.Quote(ctx, day, "GBP", "EUR")
		assert.ErrorIs(t, err, ErrRateUnavailable)
	})
}
