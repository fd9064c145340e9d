// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package classify assigns difficulty levels, content types, and topical
// tags to parsed question sections. The lookup tables live in an immutable
// Tables value built once per corpus build and shared by every call.
package classify

import (
	"strings"

	"github.com/pdiddy/qbank/internal/ident"
	"github.com/pdiddy/qbank/pkg/types"
)

// DefaultTopic is the topic assigned when a section has no topic label.
const DefaultTopic = "React"

const (
	hardLength     = 1000
	mediumLength   = 500
	flashcardLimit = 500
)

var defaultHardMarkers = []string{
	"advanced",
	"complex",
	"difficult",
	"optimization",
	"performance",
	"security",
	"architecture",
	"design pattern",
}

var defaultTagRules = []types.TagRule{
	{Tag: "hooks", Keywords: []string{"useState", "useEffect", "useContext", "useReducer", "useCallback", "useMemo", "useRef"}},
	{Tag: "performance", Keywords: []string{"performance", "optimization", "memo", "lazy", "suspense", "code splitting", "re-render"}},
	{Tag: "lifecycle", Keywords: []string{"lifecycle", "componentDidMount", "componentDidUpdate", "componentWillUnmount", "mount", "unmount"}},
	{Tag: "state management", Keywords: []string{"redux", "zustand", "mobx", "recoil", "context api", "state management"}},
	{Tag: "styling", Keywords: []string{"css", "styled-components", "tailwind", "sass", "styling"}},
	{Tag: "routing", Keywords: []string{"react router", "react-router", "route", "navigation"}},
	{Tag: "typescript", Keywords: []string{"typescript", "interface", "generic", "type annotation"}},
}

// Tables is the immutable configuration shared by the classifiers. Its
// fields are unexported and copied on construction, so a Tables value can
// be passed freely between goroutines.
type Tables struct {
	defaultTopic string
	hardMarkers  []string
	tagRules     []types.TagRule
}

// NewTables builds classification tables, applying any non-empty overrides
// from cfg on top of the defaults. Keywords and markers are stored
// lowercased for case-insensitive matching.
func NewTables(cfg types.ClassifierConfig) *Tables {
	t := &Tables{defaultTopic: DefaultTopic}
	if cfg.DefaultTopic != "" {
		t.defaultTopic = cfg.DefaultTopic
	}

	markers := defaultHardMarkers
	if len(cfg.HardMarkers) > 0 {
		markers = cfg.HardMarkers
	}
	t.hardMarkers = lowerAll(markers)

	rules := defaultTagRules
	if len(cfg.TagRules) > 0 {
		rules = cfg.TagRules
	}
	t.tagRules = make([]types.TagRule, len(rules))
	for i, r := range rules {
		t.tagRules[i] = types.TagRule{Tag: r.Tag, Keywords: lowerAll(r.Keywords)}
	}
	return t
}

// DefaultTables returns tables with the built-in markers and keyword table.
func DefaultTables() *Tables {
	return NewTables(types.ClassifierConfig{})
}

// DefaultTopic returns the topic used when a section has no topic label.
func (t *Tables) DefaultTopic() string {
	return t.defaultTopic
}

// Level classifies an answer: longer than 1000 characters or mentioning a
// hard marker is hard, longer than 500 is medium, anything else is easy.
func (t *Tables) Level(answer string) types.Level {
	n := ident.Len(answer)
	if n > hardLength || containsAny(strings.ToLower(answer), t.hardMarkers) {
		return types.LevelHard
	}
	if n > mediumLength {
		return types.LevelMedium
	}
	return types.LevelEasy
}

// Type classifies a raw section. Rules are checked in order and the first
// match wins: code markers, then multiple-choice options, then short
// flashcards, then open.
func Type(section string) types.QuestionType {
	lower := strings.ToLower(section)

	if strings.Contains(lower, "```") || strings.Contains(lower, "`") || strings.Contains(lower, "<code") {
		return types.TypeCode
	}

	// (a) AND b)) OR (option a AND option b)
	if (strings.Contains(lower, "a)") && strings.Contains(lower, "b)")) ||
		(strings.Contains(lower, "option a") && strings.Contains(lower, "option b")) {
		return types.TypeMCQ
	}

	if ident.Len(section) < flashcardLimit &&
		!strings.Contains(lower, "example") && !strings.Contains(lower, "code") {
		return types.TypeFlashcard
	}

	return types.TypeOpen
}

// Tags returns the tags for a raw section. A non-blank Tags: line wins and
// is returned verbatim; otherwise every rule with a keyword present in the
// section contributes its tag, in table order. The result may be empty.
func (t *Tables) Tags(section string) []string {
	if _, line, ok := LabelLine(section, "Tags:", false); ok {
		return splitTags(line)
	}

	lower := strings.ToLower(section)
	tags := []string{}
	for _, rule := range t.tagRules {
		if containsAny(lower, rule.Keywords) {
			tags = append(tags, rule.Tag)
		}
	}
	return tags
}

// LabelLine finds the first occurrence of label in s and returns the byte
// offset of the label and the rest of that line, trimmed. ok is false when
// the label is absent or only whitespace follows it. With foldCase the
// label is matched ASCII case-insensitively.
func LabelLine(s, label string, foldCase bool) (at int, value string, ok bool) {
	at = indexLabel(s, label, foldCase)
	if at < 0 {
		return -1, "", false
	}
	rest := s[at+len(label):]
	if nl := strings.IndexByte(rest, '\n'); nl >= 0 {
		rest = rest[:nl]
	}
	rest = strings.TrimSpace(rest)
	return at, rest, rest != ""
}

func indexLabel(s, label string, foldCase bool) int {
	if !foldCase {
		return strings.Index(s, label)
	}
	for i := 0; i+len(label) <= len(s); i++ {
		if strings.EqualFold(s[i:i+len(label)], label) {
			return i
		}
	}
	return -1
}

// splitTags splits a Tags: value on commas and trims each entry. Entries
// are kept verbatim, including empty ones from doubled commas.
func splitTags(line string) []string {
	parts := strings.Split(line, ",")
	for i, p := range parts {
		parts[i] = strings.TrimSpace(p)
	}
	return parts
}

func containsAny(lower string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(lower, n) {
			return true
		}
	}
	return false
}

func lowerAll(in []string) []string {
	out := make([]string, len(in))
	for i, s := range in {
		out[i] = strings.ToLower(s)
	}
	return out
}
