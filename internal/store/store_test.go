package store_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"invo/internal/calendar"
	"invo/internal/ledger"
	"invo/internal/store"
	"invo/pkg/models"
)

func initialized(t *testing.T) *store.Store {
	t.Helper()
	st := store.New(t.TempDir())
	state := ledger.State{
		Offset: 17,
		Anchor: calendar.Period{Year: 2024, Month: time.January},
	}
	require.NoError(t, st.Init(store.SampleRecords(), state, false))
	return st
}

func TestInit(t *testing.T) {
	t.Run("writes a loadable data directory", func(t *testing.T) {
		st := initialized(t)

		records, err := st.LoadRecords()
		require.NoError(t, err)
		assert.NotEmpty(t, records.Vendor.Name)
		assert.Equal(t, "EUR", records.Payment.Currency)

		state, err := st.LoadLedger()
		require.NoError(t, err)
		assert.Equal(t, 17, state.Offset)

		expenses, err := st.LoadExpenses()
		require.NoError(t, err)
		assert.Empty(t, expenses)

		require.NoError(t, st.Validate())
	})

	t.Run("refuses to overwrite without force", func(t *testing.T) {
		st := initialized(t)

		err := st.Init(store.SampleRecords(), ledger.State{Offset: 1, Anchor: calendar.Period{Year: 2025, Month: time.January}}, false)
		assert.Error(t, err)

		err = st.Init(store.SampleRecords(), ledger.State{Offset: 1, Anchor: calendar.Period{Year: 2025, Month: time.January}}, true)
		require.NoError(t, err)
		state, err := st.LoadLedger()
		require.NoError(t, err)
		assert.Equal(t, 1, state.Offset)
	})

	t.Run("skeleton records pass validation", func(t *testing.T) {
		st := store.New(t.TempDir())
		state := ledger.State{Offset: 1, Anchor: calendar.Period{Year: 2025, Month: time.January}}
		require.NoError(t, st.Init(store.SkeletonRecords(), state, false))
		require.NoError(t, st.Validate())
	})
}

func TestLoadRecordsValidation(t *testing.T) {
	t.Run("uninitialized directory", func(t *testing.T) {
		st := store.New(t.TempDir())

		_, err := st.LoadRecords()
		assert.ErrorIs(t, err, store.ErrNotInitialized)
	})

	t.Run("invalid currency code is rejected", func(t *testing.T) {
		st := initialized(t)
		overwrite(t, st, "payment.yaml", "currency: EURO\nterms: Net 30\niban: DE00000000000000000000\n")

		_, err := st.LoadRecords()
		assert.Error(t, err)
	})

	t.Run("malformed payment terms are rejected", func(t *testing.T) {
		st := initialized(t)
		overwrite(t, st, "payment.yaml", "currency: EUR\nterms: whenever\niban: DE00000000000000000000\n")

		_, err := st.LoadRecords()
		assert.Error(t, err)
	})

	t.Run("missing required company field is rejected", func(t *testing.T) {
		st := initialized(t)
		overwrite(t, st, "client.yaml", "name: Globex Inc\n")

		_, err := st.LoadRecords()
		assert.Error(t, err)
	})

	t.Run("unknown cadence is rejected", func(t *testing.T) {
		st := initialized(t)
		overwrite(t, st, "service_fee.yaml", "name: Consulting\nrate: \"500\"\ncadence: hourly\n")

		_, err := st.LoadRecords()
		assert.Error(t, err)
	})
}

func TestLedgerRoundTrip(t *testing.T) {
	st := initialized(t)
	state := ledger.State{
		Offset: 19,
		Anchor: calendar.Period{Year: 2024, Month: time.April},
		PeriodsOff: []calendar.Period{
			{Year: 2024, Month: time.March},
			{Year: 2024, Month: time.June},
		},
	}

	require.NoError(t, st.SaveLedger(state))
	loaded, err := st.LoadLedger()
	require.NoError(t, err)
	assert.Equal(t, state, loaded)
}

func TestLoadLedgerRejectsDuplicateOffPeriods(t *testing.T) {
	st := initialized(t)
	overwrite(t, st, "ledger.yaml", "offset: 17\nanchor: 2024-01\nperiods_off:\n  - 2024-03\n  - 2024-03\n")

	_, err := st.LoadLedger()
	assert.Error(t, err)
}

func TestExpensesRoundTrip(t *testing.T) {
	st := initialized(t)
	may := calendar.Period{Year: 2025, Month: time.May}
	items := map[calendar.Period][]models.ExpenseItem{
		may: {{
			Name:      "Lunch",
			UnitPrice: decimal.RequireFromString("25.50"),
			Currency:  "GBP",
			Quantity:  decimal.RequireFromString("4"),
			Date:      calendar.Date(2025, time.May, 10),
		}},
	}

	require.NoError(t, st.SaveExpenses(items))
	loaded, err := st.LoadExpenses()
	require.NoError(t, err)

	require.Contains(t, loaded, may)
	require.Len(t, loaded[may], 1)
	got := loaded[may][0]
	assert.Equal(t, "Lunch", got.Name)
	assert.True(t, got.UnitPrice.Equal(decimal.RequireFromString("25.50")))
	assert.True(t, got.Quantity.Equal(decimal.RequireFromString("4")))
	assert.Equal(t, calendar.Date(2025, time.May, 10), got.Date)
}

func TestLoadExpensesMissingFileIsEmpty(t *testing.T) {
	st := store.New(t.TempDir())

	expenses, err := st.LoadExpenses()
	require.NoError(t, err)
	assert.Empty(t, expenses)
}

func TestRateCacheRoundTrip(t *testing.T) {
	st := initialized(t)
	snapshot := map[string]map[string]map[string]decimal.Decimal{
		"2025-04-30": {"GBP": {"EUR": decimal.RequireFromString("1.174")}},
	}

	require.NoError(t, st.SaveRateCache(snapshot))
	loaded, err := st.LoadRateCache()
	require.NoError(t, err)

	rate := loaded["2025-04-30"]["GBP"]["EUR"]
	assert.True(t, rate.Equal(decimal.RequireFromString("1.174")))
}

func TestLoadRateCacheRejectsBadEntries(t *testing.T) {
	t.Run("missing file is an empty cache", func(t *testing.T) {
		st := store.New(t.TempDir())
		snapshot, err := st.LoadRateCache()
		require.NoError(t, err)
		assert.Empty(t, snapshot)
	})

	t.Run("malformed rate", func(t *testing.T) {
		st := initialized(t)
		overwrite(t, st, "cached_rates.yaml", "2025-04-30:\n  GBP:\n    EUR: not-a-number\n")

		_, err := st.LoadRateCache()
		assert.Error(t, err)
	})

	t.Run("non-positive rate", func(t *testing.T) {
		st := initialized(t)
		overwrite(t, st, "cached_rates.yaml", "2025-04-30:\n  GBP:\n    EUR: \"0\"\n")

		_, err := st.LoadRateCache()
		assert.Error(t, err)
	})

	t.Run("malformed date key", func(t *testing.T) {
		st := initialized(t)
		overwrite(t, st, "cached_rates.yaml", "April 30:\n  GBP:\n    EUR: \"1.174\"\n")

		_, err := st.LoadRateCache()
		assert.Error(t, err)
	})
}

func overwrite(t *testing.T, st *store.Store, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(st.Dir(), name), []byte(content), 0o644))
}
