// Package period models the calendar month a user is browsing.
package period

import (
	"fmt"
	"strconv"
	"time"

	apperrors "wallet/internal/errors"
)

// Period is a calendar year and month (1-12).
type Period struct {
	Year  int
	Month time.Month
}

// Of returns the period containing t.
func Of(t time.Time) Period {
	return Period{Year: t.Year(), Month: t.Month()}
}

// Current returns the period containing now, in local time.
func Current() Period {
	return Of(time.Now())
}

// Parse reads the YYYYMM form used by the entries API.
func Parse(s string) (Period, error) {
	if len(s) != 6 {
		return Period{}, apperrors.WithMessage(apperrors.ErrInvalidPeriod, fmt.Sprintf("invalid period %q: expected YYYYMM", s))
	}
	year, err := strconv.Atoi(s[:4])
	if err != nil || year < 1 {
		return Period{}, apperrors.WithMessage(apperrors.ErrInvalidPeriod, fmt.Sprintf("invalid period %q: bad year", s))
	}
	month, err := strconv.Atoi(s[4:])
	if err != nil || month < 1 || month > 12 {
		return Period{}, apperrors.WithMessage(apperrors.ErrInvalidPeriod, fmt.Sprintf("invalid period %q: bad month", s))
	}
	return Period{Year: year, Month: time.Month(month)}, nil
}

// String returns the YYYYMM form.
func (p Period) String() string {
	return fmt.Sprintf("%04d%02d", p.Year, int(p.Month))
}

// Display returns the YYYY/MM form shown next to installment previews.
func (p Period) Display() string {
	return fmt.Sprintf("%04d/%02d", p.Year, int(p.Month))
}

// Label returns e.g. "March 2024".
func (p Period) Label() string {
	return fmt.Sprintf("%s %d", p.Month, p.Year)
}

// IsZero reports whether p is the zero value.
func (p Period) IsZero() bool {
	return p.Year == 0 && p.Month == 0
}

// AddMonths steps the period by n months, which may be negative.
func (p Period) AddMonths(n int) Period {
	return Of(time.Date(p.Year, p.Month+time.Month(n), 1, 0, 0, 0, 0, time.UTC))
}

// Next returns the following month.
func (p Period) Next() Period { return p.AddMonths(1) }

// Prev returns the preceding month.
func (p Period) Prev() Period { return p.AddMonths(-1) }

// FirstDay returns midnight UTC on the first day of the period.
func (p Period) FirstDay() time.Time {
	return time.Date(p.Year, p.Month, 1, 0, 0, 0, 0, time.UTC)
}

// LastDay returns midnight UTC on the last day of the period.
func (p Period) LastDay() time.Time {
	return p.FirstDay().AddDate(0, 1, -1)
}

// Contains reports whether t falls inside the period, comparing calendar fields.
func (p Period) Contains(t time.Time) bool {
	return t.Year() == p.Year && t.Month() == p.Month
}

// Before reports whether p is earlier than other.
func (p Period) Before(other Period) bool {
	if p.Year != other.Year {
		return p.Year < other.Year
	}
	return p.Month < other.Month
}

// DaysIn returns the number of days in the given month.
func DaysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// AddMonthsClamped adds n calendar months to t, keeping the day of month when
// the target month has it and clamping to the target month's last day otherwise.
// Jan 31 + 1 month is Feb 28 (or 29), not Mar 2 or 3 as time.AddDate gives.
func AddMonthsClamped(t time.Time, n int) time.Time {
	target := time.Date(t.Year(), t.Month()+time.Month(n), 1, 0, 0, 0, 0, t.Location())
	day := t.Day()
	if last := DaysIn(target.Year(), target.Month()); day > last {
		day = last
	}
	return time.Date(target.Year(), target.Month(), day,
		t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}
