package calendar

import (
	"errors"
	"time"
)

// maxLookbackDays bounds the previous-working-day walk so a misconfigured
// all-holiday calendar cannot loop forever.
const maxLookbackDays = 366

var ErrNoWorkingDay = errors.New("no working day found within the lookback window")

// Calendar is a named holiday list plus the weekend definition. A date is a
// working day iff it is neither a weekend day nor listed as a holiday.
type Calendar struct {
	Name     string
	Weekend  [2]time.Weekday
	holidays map[string]struct{}
}

func New(name string, holidays []time.Time) *Calendar {
	c := &Calendar{
		Name:     name,
		Weekend:  [2]time.Weekday{time.Saturday, time.Sunday},
		holidays: make(map[string]struct{}, len(holidays)),
	}
	for _, h := range holidays {
		c.holidays[DateOf(h).Format(time.DateOnly)] = struct{}{}
	}
	return c
}

// DateOf truncates a timestamp to its calendar date in UTC.
func DateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func (c *Calendar) IsHoliday(d time.Time) bool {
	_, ok := c.holidays[DateOf(d).Format(time.DateOnly)]
	return ok
}

func (c *Calendar) IsWorkingDay(d time.Time) bool {
	wd := d.Weekday()
	if wd == c.Weekend[0] || wd == c.Weekend[1] {
		return false
	}
	return !c.IsHoliday(d)
}

// PreviousWorkingDay walks backward one day at a time starting from the day
// before from. The walk is bounded by maxLookbackDays.
func (c *Calendar) PreviousWorkingDay(from time.Time) (time.Time, error) {
	d := DateOf(from)
	for i := 0; i < maxLookbackDays; i++ {
		d = d.AddDate(0, 0, -1)
		if c.IsWorkingDay(d) {
			return d, nil
		}
	}
	return time.Time{}, ErrNoWorkingDay
}

// WorkingDaysBetween enumerates every working day from start through end,
// inclusive, in ascending order.
func (c *Calendar) WorkingDaysBetween(start, end time.Time) []time.Time {
	var days []time.Time
	for d := DateOf(start); !d.After(DateOf(end)); d = d.AddDate(0, 0, 1) {
		if c.IsWorkingDay(d) {
			days = append(days, d)
		}
	}
	return days
}

// LastWeekSpan returns the first and last working day of the week before
// today. When today itself falls on a weekend the current week counts as
// "last week", mirroring the end-of-week reporting convention.
func (c *Calendar) LastWeekSpan(today time.Time) (time.Time, time.Time, error) {
	cur := DateOf(today)
	wd := cur.Weekday()
	if wd != c.Weekend[0] && wd != c.Weekend[1] {
		cur = cur.AddDate(0, 0, -7)
	}

	monday := cur.AddDate(0, 0, -((int(cur.Weekday()) + 6) % 7))

	var start time.Time
	for i := 0; i < 7; i++ {
		d := monday.AddDate(0, 0, i)
		if c.IsWorkingDay(d) {
			start = d
			break
		}
	}
	if start.IsZero() {
		return time.Time{}, time.Time{}, ErrNoWorkingDay
	}

	end := start
	for d := start.AddDate(0, 0, 1); ; d = d.AddDate(0, 0, 1) {
		wd := d.Weekday()
		if wd == c.Weekend[0] || wd == c.Weekend[1] {
			break
		}
		if c.IsWorkingDay(d) {
			end = d
		}
	}
	return start, end, nil
}

// PreviousMonthSpan returns the first and last calendar day of the month
// before today.
func PreviousMonthSpan(today time.Time) (time.Time, time.Time) {
	first := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, time.UTC)
	return first.AddDate(0, -1, 0), first.AddDate(0, 0, -1)
}
