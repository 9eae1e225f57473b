package fx

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"golang.org/x/time/rate"

	"invo/internal/calendar"
	"invo/internal/logger"
)

// DefaultProviderURL is the public Frankfurter API.
const DefaultProviderURL = "https://api.frankfurter.app"

// Provider supplies an exchange rate for one (date, from, to) key.
type Provider interface {
	Rate(ctx context.Context, date time.Time, from, to string) (decimal.Decimal, error)
}

// RetryPolicy bounds retries against the remote provider. Only transport
// failures are retried; a definitive "no data" answer is surfaced at once.
type RetryPolicy struct {
	MaxAttempts    int
	InitialBackoff time.Duration
}

// DefaultRetryPolicy retries twice more after the first failure, starting at
// half a second and doubling.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{MaxAttempts: 3, InitialBackoff: 500 * time.Millisecond}
}

// Frankfurter fetches historical rates from a Frankfurter-compatible API,
// e.g. GET {base}/2025-04-30?from=GBP&to=EUR. Outbound requests go through
// a client-side limiter so batch resolutions stay polite.
type Frankfurter struct {
	baseURL string
	client  *http.Client
	limiter *rate.Limiter
	retry   RetryPolicy
	log     zerolog.Logger
}

// frankfurterResponse is the relevant part of the API response:
//
//	{"amount":1.0,"base":"GBP","date":"2025-04-30","rates":{"EUR":1.174}}
type frankfurterResponse struct {
	Rates map[string]decimal.Decimal `json:"rates"`
}

// NewFrankfurter builds a provider client. baseURL falls back to the public
// API when empty.
func NewFrankfurter(baseURL string, timeout time.Duration, retry RetryPolicy) *Frankfurter {
	if baseURL == "" {
		baseURL = DefaultProviderURL
	}
	if retry.MaxAttempts < 1 {
		retry.MaxAttempts = 1
	}
	return &Frankfurter{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
		limiter: rate.NewLimiter(rate.Limit(4), 2),
		retry:   retry,
		log:     logger.WithComponent("fx.provider"),
	}
}

// Rate implements Provider with bounded retry and doubling backoff around
// the single HTTP call.
func (f *Frankfurter) Rate(ctx context.Context, date time.Time, from, to string) (decimal.Decimal, error) {
	const op = "Rate"
	url := fmt.Sprintf("%s/%s?from=%s&to=%s", f.baseURL, date.Format(calendar.DateFormat), from, to)

	backoff := f.retry.InitialBackoff
	var lastErr error
	for attempt := 1; attempt <= f.retry.MaxAttempts; attempt++ {
		if attempt > 1 {
			f.log.Warn().
				Err(lastErr).
				Int("attempt", attempt).
				Dur("backoff", backoff).
				Msg("Retrying exchange rate fetch")
			select {
			case <-ctx.Done():
				return decimal.Decimal{}, rateErr(op, date, from, to, ctx.Err())
			case <-time.After(backoff):
			}
			backoff *= 2
		}
		if err := f.limiter.Wait(ctx); err != nil {
			return decimal.Decimal{}, rateErr(op, date, from, to, err)
		}

		rate, retryable, err := f.fetch(ctx, url, to)
		if err == nil {
			f.log.Debug().
				Str("from", from).
				Str("to", to).
				Str("date", date.Format(calendar.DateFormat)).
				Str("rate", rate.String()).
				Msg("Fetched exchange rate")
			return rate, nil
		}
		if !retryable {
			return decimal.Decimal{}, rateErr(op, date, from, to, err)
		}
		lastErr = err
	}
	return decimal.Decimal{}, rateErr(op, date, from, to,
		fmt.Errorf("%w: %v", ErrRateUnavailable, lastErr))
}

// fetch performs one request. The second return value says whether the
// failure is worth retrying.
func (f *Frankfurter) fetch(ctx context.Context, url, to string) (decimal.Decimal, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return decimal.Decimal{}, false, err
	}
	resp, err := f.client.Do(req)
	if err != nil {
		return decimal.Decimal{}, true, err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		// The API answers 404 when it has no data for the date/pair.
		return decimal.Decimal{}, false, ErrRateUnavailable
	case resp.StatusCode >= 500:
		return decimal.Decimal{}, true, fmt.Errorf("provider returned %s", resp.Status)
	case resp.StatusCode != http.StatusOK:
		return decimal.Decimal{}, false, fmt.Errorf("provider returned %s", resp.Status)
	}

	var body frankfurterResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return decimal.Decimal{}, false, fmt.Errorf("decode provider response: %w", err)
	}
	rate, ok := body.Rates[to]
	if !ok {
		return decimal.Decimal{}, false, ErrRateUnavailable
	}
	if rate.Sign() <= 0 {
		return decimal.Decimal{}, false, fmt.Errorf("provider returned non-positive rate %s", rate)
	}
	return rate, false, nil
}
