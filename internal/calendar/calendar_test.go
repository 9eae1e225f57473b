package calendar_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"invo/internal/calendar"
)

func TestParseDate(t *testing.T) {
	d, err := calendar.ParseDate("2025-05-31")
	require.NoError(t, err)
	assert.Equal(t, calendar.Date(2025, time.May, 31), d)

	_, err = calendar.ParseDate("31/05/2025")
	assert.Error(t, err)
}

func TestWeekendFrom(t *testing.T) {
	t.Run("custom weekend", func(t *testing.T) {
		w, err := calendar.WeekendFrom([]string{"friday", "saturday"})
		require.NoError(t, err)
		assert.True(t, w[time.Friday])
		assert.True(t, w[time.Saturday])
		assert.False(t, w[time.Sunday])
	})

	t.Run("unknown day name", func(t *testing.T) {
		_, err := calendar.WeekendFrom([]string{"caturday"})
		assert.Error(t, err)
	})
}

func TestWorkingDays(t *testing.T) {
	may := calendar.Period{Year: 2025, Month: time.May}
	weekend := calendar.DefaultWeekend()

	t.Run("full month", func(t *testing.T) {
		// May 2025 has 9 weekend days.
		assert.Equal(t, 22, calendar.WorkingDays(may, weekend, nil))
	})

	t.Run("january 2024", func(t *testing.T) {
		jan := calendar.Period{Year: 2024, Month: time.January}
		assert.Equal(t, 23, calendar.WorkingDays(jan, weekend, nil))
	})

	t.Run("off days subtract", func(t *testing.T) {
		off := []time.Time{calendar.Date(2025, time.May, 2)}
		assert.Equal(t, 21, calendar.WorkingDays(may, weekend, off))
	})

	t.Run("off day on a weekend changes nothing", func(t *testing.T) {
		off := []time.Time{calendar.Date(2025, time.May, 3)} // Saturday
		assert.Equal(t, 22, calendar.WorkingDays(may, weekend, off))
	})

	t.Run("off days outside the period are ignored", func(t *testing.T) {
		off := []time.Time{
			calendar.Date(2025, time.April, 30),
			calendar.Date(2025, time.June, 2),
		}
		assert.Equal(t, 22, calendar.WorkingDays(may, weekend, off))
	})

	t.Run("duplicate off days count once", func(t *testing.T) {
		off := []time.Time{
			calendar.Date(2025, time.May, 2),
			calendar.Date(2025, time.May, 2),
		}
		assert.Equal(t, 21, calendar.WorkingDays(may, weekend, off))
	})

	t.Run("fully off month yields zero", func(t *testing.T) {
		var off []time.Time
		for day := may.Start(); !day.After(may.End()); day = day.AddDate(0, 0, 1) {
			off = append(off, day)
		}
		assert.Equal(t, 0, calendar.WorkingDays(may, weekend, off))
	})

	t.Run("custom weekend", func(t *testing.T) {
		w, err := calendar.WeekendFrom([]string{"friday", "saturday"})
		require.NoError(t, err)
		// May 2025: Fridays 2,9,16,23,30 and Saturdays 3,10,17,24,31.
		assert.Equal(t, 21, calendar.WorkingDays(may, w, nil))
	})
}

func TestLastBusinessDay(t *testing.T) {
	weekend := calendar.DefaultWeekend()

	t.Run("month ending on a saturday", func(t *testing.T) {
		may := calendar.Period{Year: 2025, Month: time.May}
		assert.Equal(t, calendar.Date(2025, time.May, 30), calendar.LastBusinessDay(may, weekend))
	})

	t.Run("month ending on a sunday", func(t *testing.T) {
		aug := calendar.Period{Year: 2025, Month: time.August}
		assert.Equal(t, calendar.Date(2025, time.August, 29), calendar.LastBusinessDay(aug, weekend))
	})

	t.Run("month ending on a weekday", func(t *testing.T) {
		apr := calendar.Period{Year: 2025, Month: time.April}
		assert.Equal(t, calendar.Date(2025, time.April, 30), calendar.LastBusinessDay(apr, weekend))
	})
}

func TestDueDate(t *testing.T) {
	invoiceDate := calendar.Date(2025, time.May, 31)

	assert.Equal(t, calendar.Date(2025, time.June, 30), calendar.DueDate(invoiceDate, 30))
	assert.Equal(t, calendar.Date(2025, time.June, 14), calendar.DueDate(invoiceDate, 14))
	assert.Equal(t, invoiceDate, calendar.DueDate(invoiceDate, 0))
}
