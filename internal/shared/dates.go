package shared

import (
	"strings"
	"time"
)

var timeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05 -0700 MST",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02",
	"2006/01/02",
	"2006_01_02",
	"2006.01.02",
	"2006 01 02",
	"20060102",
	"01/02/2006",
	"1/2/2006",
	"01-02-2006",
	"January 2, 2006",
	"January 2 2006",
	"Jan 2, 2006",
	"Jan 2 2006",
	"2 January 2006",
	"02Jan2006",
}

// ParseTimeFlexible parses value against the date and timestamp layouts seen
// in source attribute tables and dated folder names. It returns the zero time
// when nothing matches.
func ParseTimeFlexible(value string) time.Time {
	trimmed := strings.Join(strings.Fields(value), " ")
	if trimmed == "" {
		return time.Time{}
	}
	for _, layout := range timeLayouts {
		if parsed, err := time.Parse(layout, trimmed); err == nil {
			return parsed.UTC()
		}
	}
	return time.Time{}
}

// TruncateToDate drops the clock part of value, keeping the calendar date in UTC.
func TruncateToDate(value time.Time) time.Time {
	utc := value.UTC()
	return time.Date(utc.Year(), utc.Month(), utc.Day(), 0, 0, 0, 0, time.UTC)
}
