// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package parse splits markdown question documents into sections and
// extracts one QuestionRecord from each section.
//
// A section starts at a "## Q:" sub-heading. Field labels (Q:, A:, E:) and
// their terminators are located with ordered string search over explicit
// boundary tokens rather than regular expressions.
package parse

import (
	"iter"
	"strings"
)

// Sections returns a lazy, single-pass sequence of the raw sections in doc.
// A boundary is a newline, "##", optional whitespace, then "Q:"; the
// newline, hashes, and whitespace are consumed and the next section begins
// at "Q:". Whitespace-only sections, including a blank preamble before the
// first boundary, are skipped.
func Sections(doc string) iter.Seq[string] {
	return func(yield func(string) bool) {
		start := 0
		for {
			cut, next := nextBoundary(doc, start)
			if cut < 0 {
				break
			}
			if seg := doc[start:cut]; strings.TrimSpace(seg) != "" {
				if !yield(seg) {
					return
				}
			}
			start = next
		}
		if seg := doc[start:]; strings.TrimSpace(seg) != "" {
			yield(seg)
		}
	}
}

// nextBoundary finds the first section boundary at or after from. It
// returns the offset of the boundary newline and the offset of the "Q:"
// that opens the next section, or (-1, -1) when there is none.
func nextBoundary(doc string, from int) (cut, next int) {
	for i := from; ; {
		j := strings.Index(doc[i:], "\n##")
		if j < 0 {
			return -1, -1
		}
		cut = i + j
		k := cut + len("\n##")
		for k < len(doc) && isSpace(doc[k]) {
			k++
		}
		if strings.HasPrefix(doc[k:], "Q:") {
			return cut, k
		}
		i = cut + 1
	}
}

func isSpace(b byte) bool {
	switch b {
	case ' ', '\t', '\n', '\r', '\v', '\f':
		return true
	}
	return false
}
