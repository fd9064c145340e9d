// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// OutputFormat selects the corpus file format written by the build stage.
type OutputFormat string

const (
	OutputJSON OutputFormat = "json"
	OutputYAML OutputFormat = "yaml"
)

// TagRule maps one tag name to the keywords that trigger it. Keywords are
// matched as case-insensitive substrings of the raw section.
type TagRule struct {
	Tag      string   `json:"tag" yaml:"tag"`
	Keywords []string `json:"keywords" yaml:"keywords"`
}

// ClassifierConfig overrides the built-in classification tables. Empty
// fields keep the defaults.
type ClassifierConfig struct {
	// DefaultTopic is used when a section has neither Category: nor Topic:.
	DefaultTopic string `json:"default_topic,omitempty" yaml:"default_topic,omitempty"`

	// HardMarkers are words that mark an answer as hard regardless of length.
	HardMarkers []string `json:"hard_markers,omitempty" yaml:"hard_markers,omitempty"`

	// TagRules is the ordered keyword table used when a section has no Tags: line.
	TagRules []TagRule `json:"tag_rules,omitempty" yaml:"tag_rules,omitempty"`
}

// BuildConfig holds settings for the corpus build stage.
type BuildConfig struct {
	// Sources lists markdown files in processing order. Order matters:
	// the merger keeps the first-accepted position of each question.
	Sources []string `json:"sources" yaml:"sources"`

	// SourcesDir is scanned for *.md files when Sources is empty.
	SourcesDir string `json:"sources_dir" yaml:"sources_dir"`

	// Output is the corpus file path (e.g. "out/questions.json").
	Output string `json:"output" yaml:"output"`

	// Format selects json or yaml output.
	Format OutputFormat `json:"format" yaml:"format"`

	// Workers is the number of documents parsed concurrently (default 1).
	Workers int `json:"workers" yaml:"workers"`

	// DBPath, when set, also replaces the contents of a SQLite store.
	DBPath string `json:"db_path,omitempty" yaml:"db_path,omitempty"`

	Classifier ClassifierConfig `json:"classifier" yaml:"classifier"`
}

// StoreConfig holds settings for the SQLite question store.
type StoreConfig struct {
	// Path is the database file path.
	Path string `json:"path" yaml:"path"`

	// MaxResults is the default query limit (default 20).
	MaxResults int `json:"max_results" yaml:"max_results"`
}
