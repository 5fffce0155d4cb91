// ABOUTME: Time utility functions for article dates and search windows
// ABOUTME: Parses provider ISO 8601 timestamps and formats them for display

package timeutil

import (
	"fmt"
	"strings"
	"time"
)

// isoLayouts are tried in order when parsing provider timestamps
var isoLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// ParseISO parses an ISO 8601 timestamp. Empty or malformed input returns false.
func ParseISO(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range isoLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// FormatPublished renders a publish date as "2 January, 2006".
// A nil time renders as an empty string.
func FormatPublished(t *time.Time) string {
	if t == nil {
		return ""
	}
	return fmt.Sprintf("%d %s, %d", t.Day(), t.Month(), t.Year())
}

// StartOfDay returns midnight of t's day in t's location
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// SearchWindow returns the [from, to] range covering the last days days up to now.
// Providers only return news inside this window.
func SearchWindow(now time.Time, days int) (from, to time.Time) {
	return now.AddDate(0, 0, -days), now
}
