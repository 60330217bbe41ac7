package match

import "strings"

// Base score values by match quality. A prefix match on the primary search
// text outranks a substring match, which outranks a scattered subsequence.
const (
	ScorePrefix   = 100
	ScoreContains = 50
	ScoreFuzzy    = 25
)

// Bonus values added on top of a non-zero base score when the query also
// appears in secondary metadata.
const (
	BonusDescription = 15
	BonusShortcut    = 10
)

// Target is the matchable surface of a candidate. All fields must be
// pre-lowercased by the producer.
type Target struct {
	// Text is the primary search text.
	Text string

	// Description is optional secondary text, empty when absent.
	Description string

	// Shortcut is optional keyboard-shortcut text, empty when absent.
	Shortcut string
}

// Score rates how well query matches t. The base score comes from the match
// quality against t.Text: prefix (100), substring (50), or in-order
// subsequence (25). A zero base means no match, and no bonuses apply.
// Otherwise bonuses are added for a substring hit in the description (+15)
// and in the shortcut (+10). An empty query is a prefix match against every
// target.
func Score(t Target, query string) int {
	q := strings.ToLower(query)

	var score int
	switch {
	case strings.HasPrefix(t.Text, q):
		score = ScorePrefix
	case strings.Contains(t.Text, q):
		score = ScoreContains
	case IsSubsequence(t.Text, q):
		score = ScoreFuzzy
	default:
		return 0
	}

	if t.Description != "" && strings.Contains(t.Description, q) {
		score += BonusDescription
	}
	if t.Shortcut != "" && strings.Contains(t.Shortcut, q) {
		score += BonusShortcut
	}

	return score
}

// IsSubsequence reports whether every rune of needle appears in haystack in
// order, not necessarily contiguously. An empty needle matches anything; a
// non-empty needle never matches an empty haystack.
func IsSubsequence(haystack, needle string) bool {
	if needle == "" {
		return true
	}

	// Greedy left-to-right scan: each needle rune must be found at or after
	// the position of the previous match.
	want := []rune(needle)
	idx := 0
	for _, r := range haystack {
		if r == want[idx] {
			idx++
			if idx == len(want) {
				return true
			}
		}
	}
	return false
}
