// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/qbank/internal/classify"
	"github.com/pdiddy/qbank/internal/corpus"
	"github.com/pdiddy/qbank/internal/export"
	"github.com/pdiddy/qbank/internal/store"
	"github.com/pdiddy/qbank/pkg/types"
)

var buildCmd = &cobra.Command{
	Use:   "build [files...]",
	Short: "Build the question corpus from markdown documents",
	Long: `Build reads markdown documents in order, extracts one record per
"## Q:" section, merges near-duplicate questions, and writes the corpus.

Documents come from the arguments, else from the "sources" list in the
config file, else from every *.md file in --sources-dir. Missing documents
are reported and skipped. The output file is replaced atomically; a failed
build never leaves a partial corpus behind.`,
	RunE: runBuild,
}

// buildFlagKeys maps build flags to their config keys.
var buildFlagKeys = map[string]string{
	"sources-dir": "sources_dir",
	"output":      "output",
	"format":      "format",
	"workers":     "workers",
	"db":          "db_path",
}

func runBuild(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	paths := args
	if len(paths) == 0 {
		paths = cfg.Sources
	}
	if len(paths) == 0 {
		if paths, err = corpus.DiscoverDocuments(cfg.SourcesDir); err != nil {
			return err
		}
	}

	logger := slog.Default()
	docs, err := corpus.LoadDocuments(paths, logger)
	if err != nil {
		return err
	}

	builder, err := corpus.NewBuilder(
		corpus.WithTables(classify.NewTables(cfg.Classifier)),
		corpus.WithWorkers(cfg.Workers),
		corpus.WithLogger(logger),
		corpus.WithProgress(os.Stderr),
	)
	if err != nil {
		return err
	}

	ctx := commandContext(cmd)
	result, err := builder.Build(ctx, docs)
	if err != nil {
		return err
	}

	if err := export.Write(cfg.Output, cfg.Format, result.Records); err != nil {
		return fmt.Errorf("writing corpus: %w", err)
	}

	if cfg.DBPath != "" {
		if err := loadStore(ctx, cfg.DBPath, result); err != nil {
			return err
		}
	}

	printSummary(os.Stderr, cfg.Output, result.Summary)

	strict, _ := cmd.Flags().GetBool("strict")
	return checkFailures(strict, result.Summary)
}

// checkFailures turns failed sections into an error under --strict. The
// corpus has already been written at this point.
func checkFailures(strict bool, s types.BuildSummary) error {
	if strict && s.HasFailures() {
		return fmt.Errorf("%d sections failed to parse", s.SectionsFailed)
	}
	return nil
}

// buildConfig merges the config file, environment, and command-line flags
// into a BuildConfig. Flags win over config values.
func buildConfig(cmd *cobra.Command) (types.BuildConfig, error) {
	for flag, key := range buildFlagKeys {
		if err := viper.BindPFlag(key, cmd.Flags().Lookup(flag)); err != nil {
			return types.BuildConfig{}, fmt.Errorf("binding --%s: %w", flag, err)
		}
	}

	var cfg types.BuildConfig
	if err := viper.Unmarshal(&cfg, yamlTags); err != nil {
		return cfg, fmt.Errorf("reading configuration: %w", err)
	}

	switch cfg.Format {
	case types.OutputJSON, types.OutputYAML:
	case "":
		cfg.Format = types.OutputJSON
	default:
		return cfg, fmt.Errorf("unsupported format %q: use json or yaml", cfg.Format)
	}
	if cfg.Output == "" {
		return cfg, errors.New("output path required: set --output or output in the config file")
	}
	return cfg, nil
}

func loadStore(ctx context.Context, path string, result *types.Corpus) error {
	s, err := store.Open(types.StoreConfig{Path: path})
	if err != nil {
		return err
	}
	defer s.Close()

	runID, err := s.Replace(ctx, result)
	if err != nil {
		return fmt.Errorf("loading %s: %w", path, err)
	}
	slog.Info("store updated", "path", path, "run", runID, "questions", len(result.Records))
	return nil
}

func printSummary(w io.Writer, output string, s types.BuildSummary) {
	fmt.Fprintf(w, "\ndocuments: %d read, %d missing\n", s.DocumentsRead, s.DocumentsMissing)
	fmt.Fprintf(w, "sections: %d, dropped: %d, failed: %d\n", s.Sections, s.SectionsDropped, s.SectionsFailed)
	fmt.Fprintf(w, "candidates: %d, replaced: %d, discarded: %d\n", s.Candidates, s.Replaced, s.Discarded)
	fmt.Fprintf(w, "wrote %d questions to %s\n", s.Unique, output)
	if s.HasFailures() {
		fmt.Fprintf(w, "warning: %d sections failed to parse; see the log for details\n", s.SectionsFailed)
	}
}

func init() {
	buildCmd.Flags().String("sources-dir", "content", "directory scanned for *.md documents when no sources are given")
	buildCmd.Flags().String("output", "out/questions.json", "corpus output file")
	buildCmd.Flags().String("format", "json", "output format: json or yaml")
	buildCmd.Flags().Int("workers", 1, "documents parsed concurrently")
	buildCmd.Flags().String("db", "", "also load the corpus into this SQLite database")
	buildCmd.Flags().Bool("strict", false, "exit non-zero when any section fails to parse")

	rootCmd.AddCommand(buildCmd)
}
