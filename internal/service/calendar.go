package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/milad/energyreport/internal/domain"
)

// FormatDecimal renders v with exactly two decimals and a comma separator.
func FormatDecimal(v float64) string {
	return strings.Replace(fmt.Sprintf("%.2f", v), ".", ",", 1)
}

// ParseDate parses a dd.mm.yyyy date.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("date %q: want dd.mm.yyyy", s)
	}
	return t, nil
}

// DayRange spans start 00:00:00.000000 through end 23:59:59.999999 in loc.
func DayRange(start, end time.Time, loc *time.Location) (domain.TimeRange, error) {
	from := midnight(start, loc)
	to := lastInstant(end, loc)
	if to.Before(from) {
		return domain.TimeRange{}, fmt.Errorf("%w: end date %s is before start date %s",
			ErrInvalidTimeRange, end.Format(DateLayout), start.Format(DateLayout))
	}
	return domain.NewTimeRange(from, to)
}

// MonthRange spans the first through the last calendar day of month.
func MonthRange(year, month int, loc *time.Location) (domain.TimeRange, error) {
	if month < 1 || month > 12 {
		return domain.TimeRange{}, fmt.Errorf("%w: %d (want 1-12)", ErrInvalidMonth, month)
	}
	first := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, loc)
	last := time.Date(year, time.Month(month), DaysIn(year, time.Month(month)), 0, 0, 0, 0, loc)
	return domain.NewTimeRange(first, lastInstant(last, loc))
}

// YearRange spans Jan 1 through Dec 31.
func YearRange(year int, loc *time.Location) domain.TimeRange {
	return domain.TimeRange{
		Start: time.Date(year, time.January, 1, 0, 0, 0, 0, loc),
		End:   time.Date(year, time.December, 31, 23, 59, 59, endOfDayNanos, loc),
	}
}

// DaysIn returns the number of days in month, leap years included.
func DaysIn(year int, month time.Month) int {
	// Day 0 of the next month normalizes to the last day of this one.
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

func midnight(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}

// lastInstant is 23:59:59.999999 on t's date; reports resolve time to the
// microsecond.
func lastInstant(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 23, 59, 59, endOfDayNanos, loc)
}

const endOfDayNanos = 999999000
