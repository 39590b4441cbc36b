package fees

import (
	"fmt"
	"time"
)

// MonthStart normalizes t to the first day of its calendar month, midnight UTC.
// All obligation months are stored in this form so lookups compare exactly.
func MonthStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// NextMonth returns the start of the month after t's month.
func NextMonth(t time.Time) time.Time {
	return MonthStart(t).AddDate(0, 1, 0)
}

// ParseMonth parses a YYYY-MM string into a normalized month start.
func ParseMonth(s string) (time.Time, error) {
	t, err := time.Parse("2006-01", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: month %q (want YYYY-MM)", ErrValidation, s)
	}
	return MonthStart(t), nil
}
