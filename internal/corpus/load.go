// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package corpus

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/pdiddy/qbank/pkg/types"
)

// ErrNoDocuments is returned when no source documents are configured.
var ErrNoDocuments = errors.New("no source documents")

// LoadDocuments reads each path fully into memory, preserving order. A
// path that cannot be read is logged and returned as a missing document
// so that the build can continue with the rest.
func LoadDocuments(paths []string, logger *slog.Logger) ([]types.Document, error) {
	if len(paths) == 0 {
		return nil, ErrNoDocuments
	}
	if logger == nil {
		logger = slog.Default()
	}

	docs := make([]types.Document, 0, len(paths))
	for _, p := range paths {
		data, err := os.ReadFile(p)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				logger.Warn("source document not found, skipping", "path", p)
			} else {
				logger.Warn("source document unreadable, skipping", "path", p, "error", err)
			}
			docs = append(docs, types.Document{Name: p, Missing: true})
			continue
		}
		docs = append(docs, types.Document{Name: p, Content: string(data)})
	}
	return docs, nil
}

// DiscoverDocuments returns the *.md files directly inside dir, sorted by
// name so that repeated builds see the same document order.
func DiscoverDocuments(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading sources directory %s: %w", dir, err)
	}

	var paths []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".md") {
			continue
		}
		paths = append(paths, filepath.Join(dir, entry.Name()))
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("%s: %w", dir, ErrNoDocuments)
	}
	return paths, nil
}
