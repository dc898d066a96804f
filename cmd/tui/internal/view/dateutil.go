package view

import (
	"time"

	"github.com/MrJamesThe3rd/aion/internal/calendar"
	"github.com/MrJamesThe3rd/aion/internal/report"
)

// MonthCursor is the month a screen is looking at.
type MonthCursor struct {
	Year  int
	Month time.Month
}

func CurrentMonth(now time.Time) MonthCursor {
	return MonthCursor{Year: now.Year(), Month: now.Month()}
}

func (c MonthCursor) Next() MonthCursor {
	return c.shift(1)
}

func (c MonthCursor) Prev() MonthCursor {
	return c.shift(-1)
}

func (c MonthCursor) shift(months int) MonthCursor {
	t := time.Date(c.Year, c.Month+time.Month(months), 1, 0, 0, 0, 0, time.UTC)
	return MonthCursor{Year: t.Year(), Month: t.Month()}
}

// Range returns [first day, first day of the next month) in loc.
func (c MonthCursor) Range(loc *time.Location) (time.Time, time.Time) {
	return calendar.MonthRange(c.Year, c.Month, loc)
}

func (c MonthCursor) String() string {
	return report.Period(c.Year, c.Month)
}
