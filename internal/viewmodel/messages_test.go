// ABOUTME: Tests for count messages and keyword summaries
// ABOUTME: Validates pluralization and keyword ordering and folding

package viewmodel

import (
	"reflect"
	"testing"
)

func TestCountMessage(t *testing.T) {
	tests := []struct {
		name     string
		user     string
		count    int
		expected string
	}{
		{"zero", "Ada", 0, "Ada, you have 0 saved articles"},
		{"one", "Ada", 1, "Ada, you have 1 saved article"},
		{"many", "Ada", 21, "Ada, you have 21 saved articles"},
		{"no name", "", 2, "You have 2 saved articles"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CountMessage(tt.user, tt.count); got != tt.expected {
				t.Errorf("CountMessage(%q, %d) = %q, expected %q", tt.user, tt.count, got, tt.expected)
			}
		})
	}
}

func TestKeywordList(t *testing.T) {
	tests := []struct {
		name     string
		keywords []string
		expected []string
	}{
		{"empty", nil, []string{}},
		{"single", []string{"Rust"}, []string{"rust"}},
		{"by count then alphabetical", []string{"go", "rust", "Rust", "ai"}, []string{"rust", "ai", "go"}},
		{"folds tail", []string{"a", "b", "b", "c", "d", "d", "d"}, []string{"d", "b", "2 others"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := KeywordList(tt.keywords); !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("KeywordList(%v) = %v, expected %v", tt.keywords, got, tt.expected)
			}
		})
	}
}
