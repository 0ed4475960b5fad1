package handler

import (
	"strconv"
	"time"
)

// dateLayouts are the accepted input formats for date fields: full RFC 3339
// timestamps and bare calendar dates.
var dateLayouts = []string{time.RFC3339, "2006-01-02"}

func parseDate(s string) (time.Time, error) {
	var t time.Time
	var err error
	for _, layout := range dateLayouts {
		if t, err = time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, err
}

// parsePositiveInt returns s as a positive integer, or def when s is absent
// or not a positive integer.
func parsePositiveInt(s string, def int) int {
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return def
	}
	return n
}
