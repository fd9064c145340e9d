// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package parse

import (
	"strings"

	"github.com/pdiddy/qbank/internal/classify"
	"github.com/pdiddy/qbank/internal/ident"
	"github.com/pdiddy/qbank/pkg/types"
)

// Span terminators, in no particular order; the earliest one wins.
var (
	questionStops = []string{"\nA:", "\nE:", "\n##"}
	answerStops   = []string{"\nQ:", "\nE:", "##"}
	exampleStops  = []string{"\nQ:", "\nA:", "##"}
)

// topicLabels are matched case-insensitively; the earliest one present wins.
var topicLabels = []string{"Category:", "Topic:"}

// Fields holds the trimmed spans extracted from one section. Optional
// fields are pointers so that "absent" and "empty" stay distinct.
type Fields struct {
	Question string
	Answer   string
	Example  *string
	Topic    *string
}

// Extract locates the Q:, A:, E:, and topic spans of a raw section. ok is
// false when the question or answer is missing or blank; such sections
// are skipped, not treated as errors.
//
// Each label is the first literal occurrence after the Q: label, so
// "Q: What is JSX? A: Syntax sugar." yields both fields. Label text inside
// a word counts too: in "Q: What is METADATA: x?\nA: y" the answer starts
// after "METADATA".
func Extract(section string) (Fields, bool) {
	var f Fields

	q := strings.Index(section, "Q:")
	if q < 0 {
		return f, false
	}
	body := q + len("Q:")
	f.Question = span(section, body, questionStops)

	if a := strings.Index(section[body:], "A:"); a >= 0 {
		f.Answer = span(section, body+a+len("A:"), answerStops)
	}

	if f.Question == "" || f.Answer == "" {
		return Fields{}, false
	}

	if e := strings.Index(section[body:], "E:"); e >= 0 {
		if ex := span(section, body+e+len("E:"), exampleStops); ex != "" {
			f.Example = &ex
		}
	}

	f.Topic = topic(section)
	return f, true
}

// ParseSection builds a QuestionRecord from a raw section. The record ID
// derives from the question text only; level from the answer; type and
// tags from the whole section.
func ParseSection(section string, tables *classify.Tables) (types.QuestionRecord, bool) {
	f, ok := Extract(section)
	if !ok {
		return types.QuestionRecord{}, false
	}

	topic := tables.DefaultTopic()
	if f.Topic != nil {
		topic = *f.Topic
	}

	return types.QuestionRecord{
		ID:       ident.QuestionID(f.Question),
		Topic:    topic,
		Level:    tables.Level(f.Answer),
		Type:     classify.Type(section),
		Question: f.Question,
		Answer:   f.Answer,
		Example:  f.Example,
		Tags:     tables.Tags(section),
	}, true
}

// span returns s[from:end] trimmed, where end is the earliest stop token
// at or after from, or len(s).
func span(s string, from int, stops []string) string {
	end := len(s)
	for _, stop := range stops {
		if i := strings.Index(s[from:], stop); i >= 0 && from+i < end {
			end = from + i
		}
	}
	return strings.TrimSpace(s[from:end])
}

func topic(section string) *string {
	best := -1
	var value string
	for _, label := range topicLabels {
		at, v, ok := classify.LabelLine(section, label, true)
		if ok && (best < 0 || at < best) {
			best, value = at, v
		}
	}
	if best < 0 {
		return nil
	}
	return &value
}
