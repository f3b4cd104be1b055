// Package names canonicalizes free-text team and player names and scores
// how alike two names are. Comparisons run on a normalized form and
// tolerate a bounded edit distance of OCR noise.
package names

import (
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

// Normalize lower-cases s and strips every character outside [a-z0-9].
// "Team-Alpha!", "team alpha" and "TEAM_ALPHA" all normalize to
// "teamalpha".
func Normalize(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range strings.ToLower(s) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Similarity returns a score in [0,1]: 1 minus the Levenshtein distance
// between the normalized forms, divided by the longer normalized length.
// Two empty names are vacuously identical; exactly one empty name scores 0.
func Similarity(a, b string) float64 {
	an := Normalize(a)
	bn := Normalize(b)
	if an == "" && bn == "" {
		return 1
	}
	if an == "" || bn == "" {
		return 0
	}

	dist := fuzzy.LevenshteinDistance(an, bn)
	maxLen := len(an)
	if len(bn) > maxLen {
		maxLen = len(bn)
	}
	return 1 - float64(dist)/float64(maxLen)
}

// Match is a fuzzy-match hit: the winning candidate, its position in the
// candidate list, and its similarity score.
type Match[T any] struct {
	Item  T
	Index int
	Score float64
}

// Best finds the single highest-scoring candidate for name, reading each
// candidate's display name through nameOf. ok is false when no candidate
// reaches threshold. Ties go to the first candidate encountered.
func Best[T any](name string, candidates []T, nameOf func(T) string, threshold float64) (Match[T], bool) {
	var best Match[T]
	best.Index = -1

	for i, c := range candidates {
		score := Similarity(name, nameOf(c))
		if score > best.Score {
			best = Match[T]{Item: c, Index: i, Score: score}
		}
	}

	if best.Index < 0 || best.Score < threshold {
		return Match[T]{Index: -1}, false
	}
	return best, true
}
