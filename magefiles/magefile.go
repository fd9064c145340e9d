//go:build mage

// Package main contains Mage build targets for qbank developer tooling.
package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/magefile/mage/mg"

	"github.com/pdiddy/qbank/internal/corpus"
	"github.com/pdiddy/qbank/internal/parse"
)

// projectDirs lists the working directories the build expects.
var projectDirs = []string{
	"content",
	"out",
}

// Init creates the project directory structure.
func Init() error {
	for _, dir := range projectDirs {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating %s: %w", dir, err)
		}
		fmt.Println("  ", dir)
	}
	fmt.Println("Project directories initialized.")
	return nil
}

const (
	binDir  = "bin"
	binName = "qbank"
	cmdPkg  = "./cmd/qbank"

	// sqliteTags enables the FTS5 module in mattn/go-sqlite3.
	sqliteTags = "sqlite_fts5"
)

// Build compiles the CLI binary into bin/.
func Build() error {
	if err := os.MkdirAll(binDir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", binDir, err)
	}
	out := filepath.Join(binDir, binName)
	if err := run("go", "build", "-tags", sqliteTags, "-o", out, cmdPkg); err != nil {
		return fmt.Errorf("go build: %w", err)
	}
	fmt.Printf("Built %s\n", out)
	return nil
}

// Test runs the unit tests with the FTS5 build tag.
func Test() error {
	if err := run("go", "test", "-tags", sqliteTags, "./..."); err != nil {
		return fmt.Errorf("go test: %w", err)
	}
	return nil
}

// Corpus builds the binary, then builds out/questions.json and
// out/questions.db from the documents in content/.
func Corpus() error {
	mg.Deps(Init, Build)
	bin := filepath.Join(binDir, binName)
	return run(bin, "build",
		"--sources-dir", "content",
		"--output", filepath.Join("out", "questions.json"),
		"--db", filepath.Join("out", "questions.db"))
}

func run(name string, args ...string) error {
	cmd := exec.Command(name, args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}

// Stats prints Go production/test line counts and, for content/, the
// number of documents and question sections.
func Stats() error {
	prodLines, testLines, err := countGoLines(".")
	if err != nil {
		return err
	}
	fmt.Printf("Lines of code (Go, production): %d\n", prodLines)
	fmt.Printf("Lines of code (Go, tests):      %d\n", testLines)

	docs, err := corpus.DiscoverDocuments("content")
	if err != nil {
		if errors.Is(err, corpus.ErrNoDocuments) || errors.Is(err, fs.ErrNotExist) {
			fmt.Println("Documents (content):            0")
			return nil
		}
		return err
	}
	sections := 0
	for _, path := range docs {
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading %s: %w", path, err)
		}
		for range parse.Sections(string(data)) {
			sections++
		}
	}
	fmt.Printf("Documents (content):            %d\n", len(docs))
	fmt.Printf("Sections (content):             %d\n", sections)
	return nil
}

// countGoLines counts non-blank lines in .go files under root, split into
// production and _test.go files. Directories starting with "_" or "." are
// skipped, as the go tool does.
func countGoLines(root string) (prod, test int, err error) {
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != root && strings.IndexAny(d.Name()[:1], "_.") == 0 {
				return filepath.SkipDir
			}
			return nil
		}
		if filepath.Ext(path) != ".go" {
			return nil
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading %s: %w", path, err)
		}
		n := 0
		for _, line := range strings.Split(string(data), "\n") {
			if strings.TrimSpace(line) != "" {
				n++
			}
		}
		if strings.HasSuffix(path, "_test.go") {
			test += n
		} else {
			prod += n
		}
		return nil
	})
	return prod, test, err
}
