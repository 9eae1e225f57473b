package cmd

import (
	"time"

	"github.com/spf13/cobra"

	"invo/internal/calendar"
	"invo/internal/engine"
	"invo/internal/fx"
	"invo/internal/ledger"
	"invo/internal/store"
)

// session bundles everything one command invocation needs: the store, the
// loaded state, and the engine composed over it.
type session struct {
	store  *store.Store
	ledger *ledger.Ledger
	cache  *fx.Cache
	rates  *fx.Service
	engine *engine.Engine
}

// openSession loads all persisted state from scratch and wires the engine.
// Every invocation re-reads the files; nothing is cached across runs.
func openSession(cmd *cobra.Command) (*session, error) {
	st := store.New(dataDir(cmd))

	records, err := st.LoadRecords()
	if err != nil {
		return nil, err
	}
	state, err := st.LoadLedger()
	if err != nil {
		return nil, err
	}
	snapshot, err := st.LoadRateCache()
	if err != nil {
		return nil, err
	}
	expenses, err := st.LoadExpenses()
	if err != nil {
		return nil, err
	}

	weekend, err := calendar.WeekendFrom(cfg.Invoice.Weekend)
	if err != nil {
		return nil, err
	}

	led := ledger.New(state)
	cache := fx.NewCache(snapshot)
	provider := fx.NewFrankfurter(cfg.FX.ProviderURL, cfg.FX.Timeout, fx.RetryPolicy{
		MaxAttempts:    cfg.FX.MaxAttempts,
		InitialBackoff: cfg.FX.InitialBackoff,
	})
	rates := fx.NewService(cache, provider, fx.FallbackPolicy{
		Enabled:    cfg.FX.FallbackEnabled,
		WindowDays: cfg.FX.FallbackWindowDays,
	})
	conv, err := fx.NewConverter(rates, records.Payment.Currency)
	if err != nil {
		return nil, err
	}

	eng := engine.New(led, conv, engine.NewExpenseLedger(expenses), records, engine.Options{
		Weekend:    weekend,
		DatePolicy: engine.InvoiceDatePolicy(cfg.Invoice.DatePolicy),
	})
	return &session{store: st, ledger: led, cache: cache, rates: rates, engine: eng}, nil
}

// persistRates writes newly fetched rates back to disk. Failing to persist
// the cache does not fail the command: the rates were already used, and the
// next run simply fetches them again.
func (s *session) persistRates() error {
	if !s.cache.Dirty() {
		return nil
	}
	return s.store.SaveRateCache(s.cache.Snapshot())
}

// parsePeriodArg parses the positional period argument, defaulting to the
// previous month when the argument is "last".
func parsePeriodArg(arg string, now time.Time) (calendar.Period, error) {
	switch arg {
	case "last":
		current := calendar.PeriodOf(now)
		if current.Month == time.January {
			return calendar.Period{Year: current.Year - 1, Month: time.December}, nil
		}
		return calendar.Period{Year: current.Year, Month: current.Month - 1}, nil
	case "current":
		return calendar.PeriodOf(now), nil
	default:
		return calendar.ParsePeriod(arg)
	}
}

// parseDates parses repeated YYYY-MM-DD flags.
func parseDates(raw []string) ([]time.Time, error) {
	dates := make([]time.Time, 0, len(raw))
	for _, s := range raw {
		d, err := calendar.ParseDate(s)
		if err != nil {
			return nil, err
		}
		dates = append(dates, d)
	}
	return dates, nil
}
