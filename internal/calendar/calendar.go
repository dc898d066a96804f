// Package calendar holds the date rules used to schedule ledger entries.
package calendar

import (
	"time"

	"github.com/teambition/rrule-go"
)

var businessDays = []rrule.Weekday{rrule.MO, rrule.TU, rrule.WE, rrule.TH, rrule.FR}

// NthBusinessDay returns the n-th weekday (Monday to Friday) of the given month.
// When the month has fewer than n weekdays, the last calendar day of the month is returned.
func NthBusinessDay(year int, month time.Month, n int, loc *time.Location) time.Time {
	first := time.Date(year, month, 1, 0, 0, 0, 0, loc)
	last := time.Date(year, month, DaysIn(year, month), 0, 0, 0, 0, loc)

	if n < 1 {
		return first
	}

	// FREQ=MONTHLY;BYDAY=MO,TU,WE,TH,FR;BYSETPOS=n
	rule, err := rrule.NewRRule(rrule.ROption{
		Freq:      rrule.MONTHLY,
		Dtstart:   first,
		Byweekday: businessDays,
		Bysetpos:  []int{n},
	})
	if err != nil {
		return last
	}

	days := rule.Between(first, last, true)
	if len(days) == 0 {
		return last
	}

	return days[0].In(loc)
}

// NextBusinessDay moves a Saturday forward two days and a Sunday forward one day.
// Weekdays are returned unchanged. The adjustment is applied once and never re-checked.
func NextBusinessDay(t time.Time) time.Time {
	switch t.Weekday() {
	case time.Saturday:
		return t.AddDate(0, 0, 2)
	case time.Sunday:
		return t.AddDate(0, 0, 1)
	}

	return t
}

// DaysIn returns the number of days in the month.
func DaysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// AddMonthsClamped keeps the day of month of t in the target month, clamped to its last day,
// so that Jan 31 plus one month is Feb 28 (or 29).
func AddMonthsClamped(t time.Time, months int) time.Time {
	year, month, day := t.Date()

	target := time.Date(year, month+time.Month(months), 1, 0, 0, 0, 0, t.Location())
	day = min(day, DaysIn(target.Year(), target.Month()))

	return time.Date(target.Year(), target.Month(), day,
		t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}

// StartOfDay returns midnight of the day t falls on, in t's location.
func StartOfDay(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, t.Location())
}

// MonthRange returns the first instant of the month and the first instant of the following month.
func MonthRange(year int, month time.Month, loc *time.Location) (time.Time, time.Time) {
	start := time.Date(year, month, 1, 0, 0, 0, 0, loc)
	return start, start.AddDate(0, 1, 0)
}
