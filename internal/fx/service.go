package fx

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"invo/internal/calendar"
	"invo/internal/logger"
)

// Quote is one resolved exchange rate. Date is the day the rate actually
// comes from; Approximate is set when a nearest-prior-date fallback was
// used instead of the requested date.
type Quote struct {
	Rate        decimal.Decimal
	Date        time.Time
	Approximate bool
}

// FallbackPolicy controls the nearest-prior-date fallback used when the
// provider has no rate for the requested date. Disabled by default: a
// missing rate then surfaces as ErrRateUnavailable.
type FallbackPolicy struct {
	Enabled    bool
	WindowDays int
}

// Service answers rate lookups cache-first with a provider fallback. Newly
// fetched rates are inserted into the cache under first-write-wins; the
// caller persists the cache after the whole resolution has succeeded.
type Service struct {
	cache    *Cache
	provider Provider
	fallback FallbackPolicy
	now      func() time.Time
	log      zerolog.Logger
}

// NewService builds a rate service over the given cache and provider.
func NewService(cache *Cache, provider Provider, fallback FallbackPolicy) *Service {
	return &Service{
		cache:    cache,
		provider: provider,
		fallback: fallback,
		now:      time.Now,
		log:      logger.WithComponent("fx"),
	}
}

// Quote resolves the rate converting one unit of from into to on the given
// date. Same-currency requests answer 1 without any lookup; future dates
// fail with ErrInvalidDate; cache hits are trusted as immutable truth for
// their date.
func (s *Service) Quote(ctx context.Context, date time.Time, from, to string) (Quote, error) {
	const op = "Quote"
	if from == to {
		return Quote{Rate: decimal.NewFromInt(1), Date: date}, nil
	}
	today := s.now().UTC().Truncate(24 * time.Hour)
	if date.After(today) {
		return Quote{}, rateErr(op, date, from, to, ErrInvalidDate)
	}
	if rate, ok := s.cache.Lookup(date, from, to); ok {
		return Quote{Rate: rate, Date: date}, nil
	}

	rate, err := s.provider.Rate(ctx, date, from, to)
	if err == nil {
		rate = s.cache.Insert(date, from, to, rate)
		return Quote{Rate: rate, Date: date}, nil
	}
	if !s.fallback.Enabled {
		return Quote{}, err
	}

	quote, fallbackErr := s.nearestPrior(ctx, date, from, to)
	if fallbackErr != nil {
		return Quote{}, err
	}
	s.log.Warn().
		Str("from", from).
		Str("to", to).
		Str("requested", date.Format(calendar.DateFormat)).
		Str("used", quote.Date.Format(calendar.DateFormat)).
		Msg("Using approximate exchange rate from an earlier date")
	return quote, nil
}

// nearestPrior finds the closest earlier rate within the fallback window,
// preferring cached days and then trying the provider day by day. Scanning
// nearest-first keeps the chosen date deterministic.
func (s *Service) nearestPrior(ctx context.Context, date time.Time, from, to string) (Quote, error) {
	if rate, day, ok := s.cache.nearestBefore(date, from, to, s.fallback.WindowDays); ok {
		return Quote{Rate: rate, Date: day, Approximate: true}, nil
	}
	for i := 1; i <= s.fallback.WindowDays; i++ {
		day := date.AddDate(0, 0, -i)
		rate, err := s.provider.Rate(ctx, day, from, to)
		if err != nil {
			if errors.Is(err, ErrRateUnavailable) {
				continue
			}
			return Quote{}, err
		}
		rate = s.cache.Insert(day, from, to, rate)
		return Quote{Rate: rate, Date: day, Approximate: true}, nil
	}
	return Quote{}, rateErr("nearestPrior", date, from, to, ErrRateUnavailable)
}
