package loader

import (
	"strings"
	"time"
)

// dateLayouts are tried in order. ISO-8601 forms come first.
var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006/01/02",
	"2006.01.02",
	"2006. 1. 2.",
	"01/02/2006",
	"1/2/2006",
	"20060102",
	"Jan 2, 2006",
	"2 Jan 2006",
}

// parseDate returns the calendar date of s at midnight UTC. Any time-of-day or
// offset in the input is dropped once the date has been read in its own zone.
func parseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		t, err := time.Parse(layout, s)
		if err != nil {
			continue
		}
		y, m, d := t.Date()
		return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), true
	}
	return time.Time{}, false
}
