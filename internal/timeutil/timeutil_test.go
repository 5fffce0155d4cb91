// ABOUTME: Tests for time utility functions
// ABOUTME: Verifies ISO parsing, display formatting and search windows

package timeutil

import (
	"testing"
	"time"
)

func TestParseISO(t *testing.T) {
	tests := []struct {
		in   string
		ok   bool
		want time.Time
	}{
		{"2024-03-05T10:20:30Z", true, time.Date(2024, 3, 5, 10, 20, 30, 0, time.UTC)},
		{"2024-03-05T10:20:30.123Z", true, time.Date(2024, 3, 5, 10, 20, 30, 123000000, time.UTC)},
		{"2024-03-05", true, time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)},
		{"", false, time.Time{}},
		{"   ", false, time.Time{}},
		{"yesterday", false, time.Time{}},
	}

	for _, tt := range tests {
		got, ok := ParseISO(tt.in)
		if ok != tt.ok {
			t.Errorf("ParseISO(%q) ok = %v, expected %v", tt.in, ok, tt.ok)
			continue
		}
		if ok && !got.Equal(tt.want) {
			t.Errorf("ParseISO(%q) = %v, expected %v", tt.in, got, tt.want)
		}
	}
}

func TestFormatPublished(t *testing.T) {
	d := time.Date(2020, time.August, 2, 15, 0, 0, 0, time.UTC)
	if got := FormatPublished(&d); got != "2 August, 2020" {
		t.Errorf("FormatPublished() = %q, expected %q", got, "2 August, 2020")
	}
	if got := FormatPublished(nil); got != "" {
		t.Errorf("FormatPublished(nil) = %q, expected empty", got)
	}
}

func TestStartOfDay(t *testing.T) {
	d := time.Date(2021, 6, 7, 13, 14, 15, 16, time.UTC)
	result := StartOfDay(d)

	if result.Hour() != 0 || result.Minute() != 0 || result.Second() != 0 || result.Nanosecond() != 0 {
		t.Errorf("StartOfDay() should be midnight, got %v", result)
	}
	if result.Day() != 7 {
		t.Errorf("StartOfDay() day = %d, expected 7", result.Day())
	}
}

func TestSearchWindow(t *testing.T) {
	now := time.Date(2024, 1, 10, 12, 0, 0, 0, time.UTC)
	from, to := SearchWindow(now, 7)

	if !to.Equal(now) {
		t.Errorf("to = %v, expected %v", to, now)
	}
	if expected := time.Date(2024, 1, 3, 12, 0, 0, 0, time.UTC); !from.Equal(expected) {
		t.Errorf("from = %v, expected %v", from, expected)
	}
}
