// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package dedupe

import (
	"github.com/pdiddy/qbank/internal/ident"
	"github.com/pdiddy/qbank/pkg/types"
)

// Merger accumulates unique records. Each candidate is compared with the
// accepted records in acceptance order; the first similar record is its
// duplicate. A duplicate with a strictly longer answer replaces the
// accepted record in place, otherwise it is discarded.
//
// Add is O(n) in the number of accepted records, so a full merge is
// quadratic. Merger is not safe for concurrent use.
type Merger struct {
	records []types.QuestionRecord
	keys    []string

	// Discarded counts candidates dropped as duplicates.
	Discarded int
	// Replaced counts accepted records superseded by a longer answer.
	Replaced int
}

// Add folds one candidate into the unique set.
func (m *Merger) Add(rec types.QuestionRecord) {
	key := Normalize(rec.Question)
	for i, k := range m.keys {
		if !Similar(key, k) {
			continue
		}
		if ident.Len(rec.Answer) > ident.Len(m.records[i].Answer) {
			m.records[i] = rec
			m.keys[i] = key
			m.Replaced++
		} else {
			m.Discarded++
		}
		return
	}
	m.records = append(m.records, rec)
	m.keys = append(m.keys, key)
}

// Records returns the unique records in acceptance order. The returned
// slice is a copy.
func (m *Merger) Records() []types.QuestionRecord {
	out := make([]types.QuestionRecord, len(m.records))
	copy(out, m.records)
	return out
}

// Len returns the number of unique records accepted so far.
func (m *Merger) Len() int {
	return len(m.records)
}

// Merge folds candidates in order and returns the unique records.
func Merge(candidates []types.QuestionRecord) []types.QuestionRecord {
	var m Merger
	for _, c := range candidates {
		m.Add(c)
	}
	return m.Records()
}
