package calendar_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/MrJamesThe3rd/aion/internal/calendar"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestNthBusinessDay(t *testing.T) {
	tests := []struct {
		name  string
		year  int
		month time.Month
		n     int
		want  time.Time
	}{
		{name: "FirstOfJanuary2024IsMonday", year: 2024, month: time.January, n: 1, want: date(2024, 1, 1)},
		{name: "FifthBusinessDaySkipsWeekend", year: 2024, month: time.January, n: 5, want: date(2024, 1, 5)},
		{name: "SixthBusinessDayAfterWeekend", year: 2024, month: time.January, n: 6, want: date(2024, 1, 8)},
		{name: "MonthStartingOnSaturday", year: 2024, month: time.June, n: 1, want: date(2024, 6, 3)},
		{name: "LastBusinessDayOfFebruary", year: 2026, month: time.February, n: 20, want: date(2026, 2, 27)},
		{name: "ExhaustedMonthFallsBackToLastDay", year: 2026, month: time.February, n: 21, want: date(2026, 2, 28)},
		{name: "ZeroIsFirstDay", year: 2024, month: time.March, n: 0, want: date(2024, 3, 1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := calendar.NthBusinessDay(tt.year, tt.month, tt.n, time.UTC)
			assert.True(t, got.Equal(tt.want), "got %s, want %s", got, tt.want)
		})
	}
}

func TestNthBusinessDay_IsWeekday(t *testing.T) {
	for month := time.January; month <= time.December; month++ {
		for n := 1; n <= 20; n++ {
			got := calendar.NthBusinessDay(2025, month, n, time.UTC)

			assert.Equal(t, month, got.Month())
			assert.NotEqual(t, time.Saturday, got.Weekday())
			assert.NotEqual(t, time.Sunday, got.Weekday())
		}
	}
}

func TestNextBusinessDay(t *testing.T) {
	tests := []struct {
		name string
		in   time.Time
		want time.Time
	}{
		{name: "Saturday", in: date(2024, 1, 6), want: date(2024, 1, 8)},
		{name: "Sunday", in: date(2024, 1, 7), want: date(2024, 1, 8)},
		{name: "Wednesday", in: date(2024, 1, 10), want: date(2024, 1, 10)},
		{name: "Friday", in: date(2024, 1, 12), want: date(2024, 1, 12)},
		{name: "SaturdayAcrossMonth", in: date(2024, 8, 31), want: date(2024, 9, 2)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, calendar.NextBusinessDay(tt.in).Equal(tt.want))
		})
	}
}

func TestAddMonthsClamped(t *testing.T) {
	assert.Equal(t, date(2025, 2, 28), calendar.AddMonthsClamped(date(2025, 1, 31), 1))
	assert.Equal(t, date(2024, 2, 29), calendar.AddMonthsClamped(date(2024, 1, 31), 1))
	assert.Equal(t, date(2025, 3, 31), calendar.AddMonthsClamped(date(2025, 1, 31), 2))
	assert.Equal(t, date(2026, 1, 15), calendar.AddMonthsClamped(date(2025, 12, 15), 1))
	assert.Equal(t, date(2025, 11, 30), calendar.AddMonthsClamped(date(2025, 1, 30), 10))
}

func TestMonthRange(t *testing.T) {
	start, end := calendar.MonthRange(2025, time.December, time.UTC)

	assert.Equal(t, date(2025, 12, 1), start)
	assert.Equal(t, date(2026, 1, 1), end)
}
