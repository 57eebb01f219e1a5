// Package dates provides the calendar-date value type used for loan dates.
//
// Dates are stored in the database as ISO 8601 text (YYYY-MM-DD), which sorts
// lexicographically in the same order as chronologically. All loan-date
// parsing, formatting and comparison goes through this type so that the
// overdue predicate and every date display agree on semantics.
package dates

import (
	"database/sql/driver"
	"fmt"
	"time"
)

// Layout is the wire and storage format for calendar dates.
const Layout = "2006-01-02"

// Date is a calendar date without a time-of-day component.
// The zero value is the zero date and is considered unset.
type Date struct {
	t time.Time
}

// New builds a Date from year, month and day.
func New(year int, month time.Month, day int) Date {
	return Date{t: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// Today returns the current calendar date in UTC.
func Today() Date {
	return FromTime(time.Now().UTC())
}

// FromTime truncates a timestamp to its calendar date.
func FromTime(t time.Time) Date {
	y, m, d := t.Date()
	return New(y, m, d)
}

// Parse reads a date from its ISO 8601 text form. Full ISO timestamps
// (as written by older versions of the schema) are accepted and truncated
// to their date part.
func Parse(s string) (Date, error) {
	if len(s) >= len(Layout) {
		if t, err := time.Parse(Layout, s[:len(Layout)]); err == nil {
			return FromTime(t), nil
		}
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid calendar date %q: %w", s, err)
	}
	return FromTime(t), nil
}

// String formats the date as YYYY-MM-DD.
func (d Date) String() string {
	return d.t.Format(Layout)
}

// IsZero reports whether the date is unset.
func (d Date) IsZero() bool {
	return d.t.IsZero()
}

// Before reports whether d is strictly earlier than other.
func (d Date) Before(other Date) bool {
	return d.t.Before(other.t)
}

// Equal reports whether two dates name the same calendar day.
func (d Date) Equal(other Date) bool {
	return d.t.Equal(other.t)
}

// AddDays returns the date n days after d.
func (d Date) AddDays(n int) Date {
	return FromTime(d.t.AddDate(0, 0, n))
}

// Value implements driver.Valuer, persisting the date as ISO text.
func (d Date) Value() (driver.Value, error) {
	if d.IsZero() {
		return nil, nil
	}
	return d.String(), nil
}

// Scan implements sql.Scanner.
func (d *Date) Scan(value any) error {
	switch v := value.(type) {
	case nil:
		*d = Date{}
		return nil
	case string:
		parsed, err := Parse(v)
		if err != nil {
			return err
		}
		*d = parsed
		return nil
	case []byte:
		return d.Scan(string(v))
	case time.Time:
		*d = FromTime(v)
		return nil
	default:
		return fmt.Errorf("cannot scan %T into dates.Date", value)
	}
}
