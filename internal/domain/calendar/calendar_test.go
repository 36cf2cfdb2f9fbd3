package calendar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestIsWorkingDay(t *testing.T) {
	cal := New("Yearly Holidays", []time.Time{date(2025, time.June, 4)})

	// 2025-06-07 is a Saturday, 2025-06-08 a Sunday.
	assert.False(t, cal.IsWorkingDay(date(2025, time.June, 7)))
	assert.False(t, cal.IsWorkingDay(date(2025, time.June, 8)))
	assert.False(t, cal.IsWorkingDay(date(2025, time.June, 4)), "holiday")
	assert.True(t, cal.IsWorkingDay(date(2025, time.June, 5)))
}

func TestIsWorkingDayWeekendBeatsHolidayList(t *testing.T) {
	// A weekend day stays non-working even when not listed as a holiday.
	cal := New("empty", nil)
	for d := date(2025, time.January, 1); d.Year() == 2025; d = d.AddDate(0, 0, 1) {
		if d.Weekday() == time.Saturday || d.Weekday() == time.Sunday {
			assert.False(t, cal.IsWorkingDay(d), d.Format(time.DateOnly))
		}
	}
}

func TestPreviousWorkingDay(t *testing.T) {
	// Friday 2025-06-06 was a holiday: Monday's previous working day is Thursday.
	cal := New("Yearly Holidays", []time.Time{date(2025, time.June, 6)})

	prev, err := cal.PreviousWorkingDay(date(2025, time.June, 9))
	require.NoError(t, err)
	assert.Equal(t, date(2025, time.June, 5), prev)
	assert.True(t, cal.IsWorkingDay(prev))
}

func TestPreviousWorkingDayBounded(t *testing.T) {
	var everyDay []time.Time
	for d := date(2024, time.June, 1); d.Before(date(2025, time.July, 1)); d = d.AddDate(0, 0, 1) {
		everyDay = append(everyDay, d)
	}
	cal := New("all-holiday", everyDay)

	_, err := cal.PreviousWorkingDay(date(2025, time.June, 30))
	assert.ErrorIs(t, err, ErrNoWorkingDay)
}

func TestWorkingDaysBetween(t *testing.T) {
	cal := New("Yearly Holidays", []time.Time{date(2025, time.June, 4)})

	// Mon 2025-06-02 .. Sun 2025-06-08, Wednesday is a holiday.
	days := cal.WorkingDaysBetween(date(2025, time.June, 2), date(2025, time.June, 8))
	assert.Equal(t, []time.Time{
		date(2025, time.June, 2),
		date(2025, time.June, 3),
		date(2025, time.June, 5),
		date(2025, time.June, 6),
	}, days)
}

func TestLastWeekSpan(t *testing.T) {
	cal := New("Yearly Holidays", []time.Time{date(2025, time.June, 2)})

	// Monday 2025-06-09: last week is 2025-06-02..06, Monday was a holiday.
	start, end, err := cal.LastWeekSpan(date(2025, time.June, 9))
	require.NoError(t, err)
	assert.Equal(t, date(2025, time.June, 3), start)
	assert.Equal(t, date(2025, time.June, 6), end)
}

func TestLastWeekSpanOnWeekend(t *testing.T) {
	cal := New("empty", nil)

	// Saturday 2025-06-07 still reports on the week just finished.
	start, end, err := cal.LastWeekSpan(date(2025, time.June, 7))
	require.NoError(t, err)
	assert.Equal(t, date(2025, time.June, 2), start)
	assert.Equal(t, date(2025, time.June, 6), end)
}

func TestLastWeekSpanAllHoliday(t *testing.T) {
	var week []time.Time
	for i := 0; i < 7; i++ {
		week = append(week, date(2025, time.June, 2).AddDate(0, 0, i))
	}
	cal := New("shutdown", week)

	_, _, err := cal.LastWeekSpan(date(2025, time.June, 9))
	assert.ErrorIs(t, err, ErrNoWorkingDay)
}

func TestPreviousMonthSpan(t *testing.T) {
	start, end := PreviousMonthSpan(date(2025, time.March, 1))
	assert.Equal(t, date(2025, time.February, 1), start)
	assert.Equal(t, date(2025, time.February, 28), end)

	start, end = PreviousMonthSpan(date(2025, time.January, 15))
	assert.Equal(t, date(2024, time.December, 1), start)
	assert.Equal(t, date(2024, time.December, 31), end)
}
