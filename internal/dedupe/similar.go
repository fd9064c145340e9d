// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package dedupe folds candidate question records into a unique set,
// treating near-identical questions as duplicates.
package dedupe

import (
	"strings"

	"github.com/pdiddy/qbank/internal/ident"
)

const (
	// exactBelow is the length under which only identical strings match.
	exactBelow = 20
	// minTokenLen is the exclusive lower bound on token length.
	minTokenLen = 3
	// threshold is the exclusive lower bound on token overlap.
	threshold = 0.7
)

// Normalize lowercases and trims a question for comparison.
func Normalize(question string) string {
	return strings.TrimSpace(strings.ToLower(question))
}

// Similar reports whether two normalized questions are near-duplicates.
// Strings shorter than 20 characters must be equal. Longer strings are
// compared by their sets of word tokens longer than three characters:
// they match when the shared tokens exceed 70% of the smaller set.
func Similar(a, b string) bool {
	if ident.Len(a) < exactBelow || ident.Len(b) < exactBelow {
		return a == b
	}
	return overlap(tokenSet(a), tokenSet(b)) > threshold
}

// overlap returns |a ∩ b| / min(|a|, |b|), or 0 when either set is empty.
func overlap(a, b map[string]struct{}) float64 {
	small, large := a, b
	if len(large) < len(small) {
		small, large = large, small
	}
	if len(small) == 0 {
		return 0
	}
	common := 0
	for tok := range small {
		if _, ok := large[tok]; ok {
			common++
		}
	}
	return float64(common) / float64(len(small))
}

// tokenSet splits s on runs of non-word characters (anything outside
// [A-Za-z0-9_]) and keeps the distinct tokens longer than three characters.
func tokenSet(s string) map[string]struct{} {
	set := make(map[string]struct{})
	start := -1
	flush := func(end int) {
		if start >= 0 && end-start > minTokenLen {
			set[s[start:end]] = struct{}{}
		}
		start = -1
	}
	for i := 0; i < len(s); i++ {
		if isWordByte(s[i]) {
			if start < 0 {
				start = i
			}
			continue
		}
		flush(i)
	}
	flush(len(s))
	return set
}

func isWordByte(c byte) bool {
	return c == '_' ||
		(c >= 'a' && c <= 'z') ||
		(c >= 'A' && c <= 'Z') ||
		(c >= '0' && c <= '9')
}
