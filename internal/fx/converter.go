package fx

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
)

// Converter converts amounts into one settlement currency, rounding to that
// currency's minor-unit precision with round-half-to-even.
type Converter struct {
	rates *Service
	// target settlement currency and its minor-unit scale
	target string
	scale  int32
}

// NewConverter builds a converter into the given settlement currency. The
// currency must be a known ISO 4217 code.
func NewConverter(rates *Service, target string) (*Converter, error) {
	scale, err := MinorUnits(target)
	if err != nil {
		return nil, err
	}
	return &Converter{rates: rates, target: target, scale: scale}, nil
}

// Target returns the settlement currency code.
func (c *Converter) Target() string {
	return c.target
}

// MinorUnits returns the number of decimal digits of the currency's minor
// unit, e.g. 2 for EUR cents and 0 for JPY.
func MinorUnits(code string) (int32, error) {
	unit, err := currency.ParseISO(code)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrUnknownCurrency, code)
	}
	scale, _ := currency.Standard.Rounding(unit)
	return int32(scale), nil
}

// Round rounds an amount to the settlement currency's minor unit using
// round-half-to-even.
func (c *Converter) Round(amount decimal.Decimal) decimal.Decimal {
	return amount.RoundBank(c.scale)
}

// Convert converts amount from the given currency into the settlement
// currency at the rate of the given date. A zero amount converts to zero
// without any rate lookup.
func (c *Converter) Convert(ctx context.Context, amount decimal.Decimal, from string, date time.Time) (decimal.Decimal, Quote, error) {
	if amount.IsZero() {
		return decimal.Zero, Quote{Rate: decimal.NewFromInt(1), Date: date}, nil
	}
	quote, err := c.rates.Quote(ctx, date, from, c.target)
	if err != nil {
		return decimal.Decimal{}, Quote{}, err
	}
	return c.Round(amount.Mul(quote.Rate)), quote, nil
}
