package schedule

import (
	"fmt"
	"time"
)

// CivilDate is a calendar day in the display timezone, independent of any
// absolute instant.
type CivilDate struct {
	Year  int
	Month time.Month
	Day   int
}

// CivilDateOf returns the calendar day the instant falls on in the given
// location.
func CivilDateOf(t time.Time, loc *time.Location) CivilDate {
	local := t.In(loc)
	return CivilDate{Year: local.Year(), Month: local.Month(), Day: local.Day()}
}

// ParseCivilDate parses a YYYY-MM-DD string.
func ParseCivilDate(raw string) (CivilDate, error) {
	t, err := time.Parse(time.DateOnly, raw)
	if err != nil {
		return CivilDate{}, fmt.Errorf("invalid civil date %q: %w", raw, err)
	}
	return CivilDate{Year: t.Year(), Month: t.Month(), Day: t.Day()}, nil
}

func (d CivilDate) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month, d.Day)
}

// AddDays shifts the date by n calendar days. time.Date normalizes
// out-of-range days, so month and year boundaries are handled for free.
func (d CivilDate) AddDays(n int) CivilDate {
	t := time.Date(d.Year, d.Month, d.Day+n, 0, 0, 0, 0, time.UTC)
	return CivilDate{Year: t.Year(), Month: t.Month(), Day: t.Day()}
}

func (d CivilDate) Before(other CivilDate) bool {
	if d.Year != other.Year {
		return d.Year < other.Year
	}
	if d.Month != other.Month {
		return d.Month < other.Month
	}
	return d.Day < other.Day
}

func (d CivilDate) After(other CivilDate) bool {
	return other.Before(d)
}

// StartOfDay returns 00:00:00.000 of the day in the given location.
func (d CivilDate) StartOfDay(loc *time.Location) time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, loc)
}

// EndOfDay returns 23:59:59.999 of the day in the given location. Millisecond
// resolution matches how instants are persisted.
func (d CivilDate) EndOfDay(loc *time.Location) time.Time {
	return time.Date(d.Year, d.Month, d.Day, 23, 59, 59, int(999*time.Millisecond), loc)
}
