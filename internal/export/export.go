// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package export writes a built corpus to its canonical file. Writes are
// all-or-nothing: the data goes to a temporary file in the destination
// directory, which is renamed over the destination only after a complete
// write.
package export

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/qbank/pkg/types"
)

// Write marshals records in the given format and writes them to path.
func Write(path string, format types.OutputFormat, records []types.QuestionRecord) error {
	switch format {
	case types.OutputJSON, "":
		return WriteJSON(path, records)
	case types.OutputYAML:
		return WriteYAML(path, records)
	default:
		return fmt.Errorf("unsupported format %q: use json or yaml", format)
	}
}

// WriteJSON writes records as an indented JSON array. HTML characters in
// answers and examples are written literally.
func WriteJSON(path string, records []types.QuestionRecord) error {
	if records == nil {
		records = []types.QuestionRecord{}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(records); err != nil {
		return fmt.Errorf("marshaling JSON: %w", err)
	}
	return writeAtomic(path, buf.Bytes())
}

// WriteYAML writes records as a YAML sequence.
func WriteYAML(path string, records []types.QuestionRecord) error {
	if records == nil {
		records = []types.QuestionRecord{}
	}
	data, err := yaml.Marshal(records)
	if err != nil {
		return fmt.Errorf("marshaling YAML: %w", err)
	}
	return writeAtomic(path, data)
}

// ReadJSON loads records previously written by WriteJSON.
func ReadJSON(path string) ([]types.QuestionRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	var records []types.QuestionRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return records, nil
}

// writeAtomic creates the parent directory, writes data to a temp file next
// to path, and renames it into place. On any failure the temp file is
// removed and path is left untouched.
func writeAtomic(path string, data []byte) (err error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		return fmt.Errorf("writing %s: %w", tmp.Name(), err)
	}
	if err = tmp.Sync(); err != nil {
		return fmt.Errorf("syncing %s: %w", tmp.Name(), err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", tmp.Name(), err)
	}
	if err = os.Chmod(tmp.Name(), 0o644); err != nil {
		return fmt.Errorf("setting permissions on %s: %w", tmp.Name(), err)
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("renaming into %s: %w", path, err)
	}
	return nil
}
