// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// Level is the difficulty of a question, derived from its answer text.
type Level string

const (
	LevelEasy   Level = "easy"
	LevelMedium Level = "medium"
	LevelHard   Level = "hard"
)

// QuestionType is the content category of a question section.
type QuestionType string

const (
	TypeMCQ       QuestionType = "mcq"
	TypeCode      QuestionType = "code"
	TypeOpen      QuestionType = "open"
	TypeFlashcard QuestionType = "flashcard"
)

// Valid reports whether l is one of the known difficulty levels.
func (l Level) Valid() bool {
	switch l {
	case LevelEasy, LevelMedium, LevelHard:
		return true
	}
	return false
}

// Valid reports whether t is one of the known question types.
func (t QuestionType) Valid() bool {
	switch t {
	case TypeMCQ, TypeCode, TypeOpen, TypeFlashcard:
		return true
	}
	return false
}

// QuestionRecord is one extracted question/answer pair. Records are built
// once by the section parser and afterwards only kept, dropped, or replaced
// wholesale by the merger.
type QuestionRecord struct {
	// ID is slug(question) + "_" + hash6(question). Identical question text
	// always yields the same ID.
	ID string `json:"id" yaml:"id"`

	// Topic comes from a Category: or Topic: label, or the default topic.
	Topic string `json:"topic" yaml:"topic"`

	Level Level        `json:"level" yaml:"level"`
	Type  QuestionType `json:"type" yaml:"type"`

	Question string `json:"question" yaml:"question"`
	Answer   string `json:"answer" yaml:"answer"`

	// Example is nil when the section has no E: field.
	Example *string `json:"example,omitempty" yaml:"example,omitempty"`

	// Tags keep classifier order. Duplicates are preserved.
	Tags []string `json:"tags" yaml:"tags"`
}

// Document is one named markdown source. Missing is set when the loader
// could not find the source; such documents contribute no sections.
type Document struct {
	Name    string `json:"name" yaml:"name"`
	Content string `json:"-" yaml:"-"`
	Missing bool   `json:"missing,omitempty" yaml:"missing,omitempty"`
}

// BuildSummary holds counters from one corpus build.
type BuildSummary struct {
	DocumentsRead    int `json:"documents_read" yaml:"documents_read"`
	DocumentsMissing int `json:"documents_missing" yaml:"documents_missing"`
	Sections         int `json:"sections" yaml:"sections"`
	SectionsDropped  int `json:"sections_dropped" yaml:"sections_dropped"`
	SectionsFailed   int `json:"sections_failed" yaml:"sections_failed"`
	Candidates       int `json:"candidates" yaml:"candidates"`
	Discarded        int `json:"discarded" yaml:"discarded"`
	Replaced         int `json:"replaced" yaml:"replaced"`
	Unique           int `json:"unique" yaml:"unique"`
}

// HasFailures reports whether any section raised an unexpected error.
func (s BuildSummary) HasFailures() bool {
	return s.SectionsFailed > 0
}

// Corpus is the terminal output of a build: the deduplicated records in
// acceptance order plus the run counters.
type Corpus struct {
	Records []QuestionRecord `json:"records" yaml:"records"`
	Summary BuildSummary     `json:"summary" yaml:"summary"`
}
