// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package export

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/qbank/pkg/types"
)

func sampleRecords() []types.QuestionRecord {
	ex := "<div>{name}</div>"
	return []types.QuestionRecord{
		{
			ID: "what_is_jsx_4dd509", Topic: "React", Level: types.LevelEasy, Type: types.TypeFlashcard,
			Question: "What is JSX?", Answer: "Syntax sugar.", Example: &ex, Tags: []string{"syntax", "jsx"},
		},
		{
			ID: "what_is_a_hook_2ad227", Topic: "Hooks", Level: types.LevelHard, Type: types.TypeOpen,
			Question: "What is a hook?", Answer: "A function.", Tags: []string{},
		},
	}
}

func TestWriteJSONFieldNames(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "questions.json")
	require.NoError(t, WriteJSON(path, sampleRecords()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	text := string(data)
	assert.Contains(t, text, `"id": "what_is_jsx_4dd509"`)
	assert.Contains(t, text, `"level": "easy"`)
	assert.Contains(t, text, `"type": "flashcard"`)
	assert.Contains(t, text, `"example": "<div>{name}</div>"`)
	assert.Contains(t, text, `"tags": []`)
	// A record without an example omits the field entirely.
	assert.Equal(t, 1, strings.Count(text, `"example"`))

	got, err := ReadJSON(path)
	require.NoError(t, err)
	assert.Equal(t, sampleRecords(), got)
}

func TestWriteJSONEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "questions.json")
	require.NoError(t, WriteJSON(path, nil))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "[]\n", string(data))
}

func TestWriteYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "questions.yaml")
	require.NoError(t, Write(path, types.OutputYAML, sampleRecords()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var got []types.QuestionRecord
	require.NoError(t, yaml.Unmarshal(data, &got))
	assert.Equal(t, sampleRecords(), got)
}

func TestWriteUnsupportedFormat(t *testing.T) {
	err := Write(filepath.Join(t.TempDir(), "q.csv"), "csv", sampleRecords())
	assert.ErrorContains(t, err, "unsupported format")
}

func TestWriteReplacesExisting(t *testing.T) {
	path := filepath.Join(t.TempDir(), "questions.json")
	require.NoError(t, os.WriteFile(path, []byte("old"), 0o644))
	require.NoError(t, WriteJSON(path, sampleRecords()[:1]))

	got, err := ReadJSON(path)
	require.NoError(t, err)
	assert.Len(t, got, 1)

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp file must not be left behind")
}

func TestWriteUnwritableDestination(t *testing.T) {
	dir := t.TempDir()
	// A regular file where the output directory should be.
	blocker := filepath.Join(dir, "out")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))

	err := WriteJSON(filepath.Join(blocker, "questions.json"), sampleRecords())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "creating output directory")
}

func TestWriteFailureKeepsPreviousOutput(t *testing.T) {
	dir := t.TempDir()
	// The destination is a non-empty directory, so the final rename fails.
	path := filepath.Join(dir, "questions.json")
	require.NoError(t, os.MkdirAll(filepath.Join(path, "keep"), 0o755))

	err := WriteJSON(path, sampleRecords())
	require.Error(t, err)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1, "temp file must be cleaned up")
	assert.True(t, entries[0].IsDir())
}
