package valueobject

import (
	"database/sql/driver"
	"fmt"
	"time"
)

// monthLayout is the canonical wire format for a calendar month.
const monthLayout = "2006-01"

// Month is a calendar month value object ("YYYY-MM"). The zero value is
// invalid and reported by IsZero.
type Month struct {
	year  int
	month time.Month
}

// NewMonth creates a month from a year and month number
func NewMonth(year int, month time.Month) (Month, error) {
	if year < 1 || month < time.January || month > time.December {
		return Month{}, fmt.Errorf("invalid month: year=%d month=%d", year, month)
	}
	return Month{year: year, month: month}, nil
}

// ParseMonth parses the canonical "YYYY-MM" representation
func ParseMonth(s string) (Month, error) {
	t, err := time.Parse(monthLayout, s)
	if err != nil {
		return Month{}, fmt.Errorf("invalid month %q: expected YYYY-MM", s)
	}
	return Month{year: t.Year(), month: t.Month()}, nil
}

// MonthOf returns the calendar month containing t
func MonthOf(t time.Time) Month {
	return Month{year: t.Year(), month: t.Month()}
}

// String returns the canonical "YYYY-MM" representation
func (m Month) String() string {
	return fmt.Sprintf("%04d-%02d", m.year, int(m.month))
}

// IsZero reports whether the month is the zero value
func (m Month) IsZero() bool {
	return m.year == 0
}

// Year returns the calendar year
func (m Month) Year() int {
	return m.year
}

// Month returns the month of the year
func (m Month) Month() time.Month {
	return m.month
}

// Start returns the first instant of the month in UTC
func (m Month) Start() time.Time {
	return time.Date(m.year, m.month, 1, 0, 0, 0, 0, time.UTC)
}

// End returns the first instant of the following month in UTC, so a
// transaction belongs to the month when Start <= date < End.
func (m Month) End() time.Time {
	return m.Start().AddDate(0, 1, 0)
}

// Contains reports whether t falls within the month, ignoring time zone
// offsets smaller than a day
func (m Month) Contains(t time.Time) bool {
	return t.Year() == m.year && t.Month() == m.month
}

// Value implements driver.Valuer so months persist as "YYYY-MM" text
func (m Month) Value() (driver.Value, error) {
	if m.IsZero() {
		return nil, nil
	}
	return m.String(), nil
}

// Scan implements sql.Scanner
func (m *Month) Scan(value interface{}) error {
	if value == nil {
		*m = Month{}
		return nil
	}
	var s string
	switch v := value.(type) {
	case string:
		s = v
	case []byte:
		s = string(v)
	case time.Time:
		*m = MonthOf(v)
		return nil
	default:
		return fmt.Errorf("cannot scan %T into Month", value)
	}
	parsed, err := ParseMonth(s)
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// MarshalJSON encodes the month as a JSON string
func (m Month) MarshalJSON() ([]byte, error) {
	return []byte(`"` + m.String() + `"`), nil
}

// UnmarshalJSON decodes a "YYYY-MM" JSON string
func (m *Month) UnmarshalJSON(data []byte) error {
	if len(data) < 2 || data[0] != '"' || data[len(data)-1] != '"' {
		return fmt.Errorf("invalid month JSON: %s", data)
	}
	parsed, err := ParseMonth(string(data[1 : len(data)-1]))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}
