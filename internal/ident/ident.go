// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package ident derives stable question IDs from question text.
// An ID is slug(question) + "_" + Hash6(question); identical text always
// produces the identical ID, so re-importing a corpus is idempotent.
package ident

import (
	"strconv"
	"strings"
	"unicode"
	"unicode/utf16"
)

// slugWords is the number of leading words kept in a slug.
const slugWords = 5

// Hash32 computes the 32-bit string hash h = h*31 + c over the UTF-16 code
// units of s, wrapping to a signed 32-bit integer at every step.
func Hash32(s string) int32 {
	var h int32
	for _, r := range s {
		if utf16.RuneLen(r) == 2 {
			hi, lo := utf16.EncodeRune(r)
			h = (h << 5) - h + hi
			h = (h << 5) - h + lo
			continue
		}
		h = (h << 5) - h + r
	}
	return h
}

// Hash6 renders |Hash32(s)| in lowercase hex and keeps at most the first
// six characters. The absolute value is taken in 64 bits so that
// math.MinInt32 maps to "800000".
func Hash6(s string) string {
	v := int64(Hash32(s))
	if v < 0 {
		v = -v
	}
	hex := strconv.FormatInt(v, 16)
	if len(hex) > 6 {
		hex = hex[:6]
	}
	return hex
}

// Slug lowercases s, removes everything except a-z, 0-9 and whitespace,
// then joins the first five whitespace-separated tokens with "_".
// A leading or trailing whitespace run produces an empty token, so
// " what is" slugs to "_what_is".
func Slug(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', unicode.IsSpace(r):
			b.WriteRune(r)
		}
	}

	tokens := splitSpace(b.String())
	if len(tokens) > slugWords {
		tokens = tokens[:slugWords]
	}
	return strings.Join(tokens, "_")
}

// QuestionID returns the stable record ID for a question.
func QuestionID(question string) string {
	return Slug(question) + "_" + Hash6(question)
}

// splitSpace splits s on runs of whitespace, keeping the empty tokens a
// leading or trailing run produces.
func splitSpace(s string) []string {
	var tokens []string
	start := 0
	inSpace := false
	for i, r := range s {
		if unicode.IsSpace(r) {
			if !inSpace {
				tokens = append(tokens, s[start:i])
				inSpace = true
			}
			continue
		}
		if inSpace {
			start = i
			inSpace = false
		}
	}
	if inSpace {
		tokens = append(tokens, "")
	} else {
		tokens = append(tokens, s[start:])
	}
	return tokens
}

// Len returns the length of s in UTF-16 code units, the unit Hash32 walks.
// Length thresholds elsewhere in the pipeline use the same measure.
func Len(s string) int {
	n := 0
	for _, r := range s {
		if utf16.RuneLen(r) == 2 {
			n += 2
			continue
		}
		n++
	}
	return n
}
