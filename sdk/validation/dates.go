package validation

import (
	"fmt"
	"regexp"
	"time"
)

var dateOnlyPattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// ParseDateOnly parses a strict YYYY-MM-DD string. Shapes that time.Parse
// would reject as out of range (2025-02-30) fail as well.
func ParseDateOnly(s string) (time.Time, error) {
	if !dateOnlyPattern.MatchString(s) {
		return time.Time{}, fmt.Errorf("date %q must use YYYY-MM-DD", s)
	}
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("date %q is not a calendar date", s)
	}
	return t, nil
}

// IsDateOnly reports whether s is a valid YYYY-MM-DD calendar date.
func IsDateOnly(s string) bool {
	_, err := ParseDateOnly(s)
	return err == nil
}

// FormatDateOnly renders the calendar date of t in UTC.
func FormatDateOnly(t time.Time) string {
	return t.UTC().Format(time.DateOnly)
}
