package storage

import (
	"fmt"
	"time"
)

// TimeLayout is how timestamps are stored in TEXT columns.
const TimeLayout = "2006-01-02T15:04:05.999999999Z07:00"

// FormatTime renders t for storage. The zero time is stored as "".
func FormatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(TimeLayout)
}

// ParseTime reads a stored timestamp. It accepts the storage layout and the
// plain "YYYY-MM-DD HH:MM:SS" form used by hand-written fixtures.
func ParseTime(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	formats := []string{
		time.RFC3339Nano,
		time.RFC3339,
		"2006-01-02 15:04:05",
	}
	for _, f := range formats {
		t, err := time.Parse(f, s)
		if err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("cannot parse time: %s", s)
}
