// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package corpus orchestrates a full build: every document is segmented and
// parsed into candidate records, the candidates are concatenated in document
// order, and a single merge pass produces the deduplicated corpus.
package corpus

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/panjf2000/ants/v2"

	"github.com/pdiddy/qbank/internal/classify"
	"github.com/pdiddy/qbank/internal/dedupe"
	"github.com/pdiddy/qbank/internal/parse"
	"github.com/pdiddy/qbank/pkg/types"
)

// Builder runs corpus builds. A Builder holds only immutable configuration
// and may be reused; every Build owns its own candidate and unique lists.
type Builder struct {
	tables   *classify.Tables
	workers  int
	logger   *slog.Logger
	progress io.Writer
}

// Option configures a Builder.
type Option func(*Builder) error

// WithTables sets the classification tables. Default is classify.DefaultTables().
func WithTables(t *classify.Tables) Option {
	return func(b *Builder) error {
		if t == nil {
			return fmt.Errorf("classification tables are nil")
		}
		b.tables = t
		return nil
	}
}

// WithWorkers sets how many documents are parsed concurrently. Values below
// 1 mean sequential parsing, which is the default. The merge order does not
// depend on this setting.
func WithWorkers(n int) Option {
	return func(b *Builder) error {
		if n < 1 {
			n = 1
		}
		b.workers = n
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(b *Builder) error {
		if logger == nil {
			logger = slog.Default()
		}
		b.logger = logger
		return nil
	}
}

// WithProgress writes one status line per document to w.
func WithProgress(w io.Writer) Option {
	return func(b *Builder) error {
		if w == nil {
			w = io.Discard
		}
		b.progress = w
		return nil
	}
}

// NewBuilder creates a Builder with the given options applied over the defaults.
func NewBuilder(opts ...Option) (*Builder, error) {
	b := &Builder{
		tables:   classify.DefaultTables(),
		workers:  1,
		logger:   slog.Default(),
		progress: io.Discard,
	}
	for _, opt := range opts {
		if err := opt(b); err != nil {
			return nil, err
		}
	}
	return b, nil
}

// docResult is the parse output of one document.
type docResult struct {
	records  []types.QuestionRecord
	sections int
	dropped  int
	failed   int
}

// Build parses docs in the given order and returns the deduplicated corpus.
// Missing documents are logged and skipped. A section that fails
// unexpectedly is logged and dropped; it never aborts the build. Build
// returns an error only when ctx is cancelled or the worker pool cannot be
// created.
func (b *Builder) Build(ctx context.Context, docs []types.Document) (*types.Corpus, error) {
	results, err := b.parseAll(ctx, docs)
	if err != nil {
		return nil, err
	}

	var (
		summary types.BuildSummary
		merger  dedupe.Merger
	)
	for i, doc := range docs {
		if doc.Missing {
			summary.DocumentsMissing++
			fmt.Fprintf(b.progress, "missing %s\n", doc.Name)
			continue
		}
		r := results[i]
		summary.DocumentsRead++
		summary.Sections += r.sections
		summary.SectionsDropped += r.dropped
		summary.SectionsFailed += r.failed
		summary.Candidates += len(r.records)
		fmt.Fprintf(b.progress, "parsed  %s (%d records, %d dropped)\n", doc.Name, len(r.records), r.dropped+r.failed)

		for _, rec := range r.records {
			merger.Add(rec)
		}
	}

	summary.Discarded = merger.Discarded
	summary.Replaced = merger.Replaced
	summary.Unique = merger.Len()

	b.logger.Info("corpus built",
		"documents", summary.DocumentsRead,
		"missing", summary.DocumentsMissing,
		"candidates", summary.Candidates,
		"unique", summary.Unique,
		"replaced", summary.Replaced,
		"discarded", summary.Discarded,
	)

	return &types.Corpus{Records: merger.Records(), Summary: summary}, nil
}

// parseAll parses every present document. Results are stored by document
// index so that concatenation order never depends on scheduling.
func (b *Builder) parseAll(ctx context.Context, docs []types.Document) ([]docResult, error) {
	results := make([]docResult, len(docs))

	if b.workers <= 1 {
		for i, doc := range docs {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			if !doc.Missing {
				results[i] = b.parseDocument(doc)
			}
		}
		return results, nil
	}

	pool, err := ants.NewPool(b.workers)
	if err != nil {
		return nil, fmt.Errorf("creating worker pool: %w", err)
	}
	defer pool.Release()

	var wg sync.WaitGroup
	for i, doc := range docs {
		if err := ctx.Err(); err != nil {
			wg.Wait()
			return nil, err
		}
		if doc.Missing {
			continue
		}
		wg.Add(1)
		if err := pool.Submit(func() {
			defer wg.Done()
			results[i] = b.parseDocument(doc)
		}); err != nil {
			wg.Done()
			wg.Wait()
			return nil, fmt.Errorf("submitting %s: %w", doc.Name, err)
		}
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return results, nil
}

// parseDocument segments one document and parses each section.
func (b *Builder) parseDocument(doc types.Document) docResult {
	var r docResult
	for section := range parse.Sections(doc.Content) {
		r.sections++
		rec, ok, err := b.parseSection(section)
		switch {
		case err != nil:
			r.failed++
			b.logger.Warn("dropping malformed section",
				"document", doc.Name, "section", r.sections, "error", err)
		case !ok:
			r.dropped++
			b.logger.Debug("skipping section without question or answer",
				"document", doc.Name, "section", r.sections)
		default:
			r.records = append(r.records, rec)
		}
	}
	return r
}

// parseSection parses one section, converting a panic into an error so a
// single bad section cannot abort the run.
func (b *Builder) parseSection(section string) (rec types.QuestionRecord, ok bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("parsing section: %v", r)
		}
	}()
	rec, ok = parse.ParseSection(section, b.tables)
	return rec, ok, nil
}
