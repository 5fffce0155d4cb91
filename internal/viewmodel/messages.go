// ABOUTME: User-facing messages and collection statistics for the presentation layer
// ABOUTME: Builds the saved-articles count sentence and the keyword summary list

package viewmodel

import (
	"fmt"
	"sort"
	"strings"

	"github.com/harper/newsdesk/internal/config"
)

// Human readable messages shown in place of raw errors.
const (
	MsgSearchError    = "Sorry, something went wrong during the request. There may be a connection issue or the server may be down. Please try again later."
	MsgLoadSavedError = "Could not load your saved articles. Please try again later."
	MsgSavedLoading   = "Loading your saved articles..."
	MsgNotLoggedIn    = "Sign in to save articles"
	MsgSignedOut      = "Sign in"
)

// CountMessage describes how many articles the user has saved.
func CountMessage(name string, n int) string {
	noun := "articles"
	if n == 1 {
		noun = "article"
	}
	if name == "" {
		return fmt.Sprintf("You have %d saved %s", n, noun)
	}
	return fmt.Sprintf("%s, you have %d saved %s", name, n, noun)
}

// KeywordList orders keywords by how many articles carry them, then
// alphabetically. Keywords compare case-insensitively. When there are more
// than three, the tail is folded into an "N others" entry.
func KeywordList(keywords []string) []string {
	counts := make(map[string]int)
	for _, k := range keywords {
		k = strings.ToLower(strings.TrimSpace(k))
		if k == "" {
			continue
		}
		counts[k]++
	}

	list := make([]string, 0, len(counts))
	for k := range counts {
		list = append(list, k)
	}
	sort.Slice(list, func(i, j int) bool {
		if counts[list[i]] != counts[list[j]] {
			return counts[list[i]] > counts[list[j]]
		}
		return list[i] < list[j]
	})

	if len(list) <= config.KeywordSummaryLimit {
		return list
	}
	return []string{list[0], list[1], fmt.Sprintf("%d others", len(list)-2)}
}
