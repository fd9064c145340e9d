// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/qbank/internal/export"
	"github.com/pdiddy/qbank/internal/store"
	"github.com/pdiddy/qbank/pkg/types"
)

func writeDoc(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// execute runs the CLI with args. Flag values and viper state from earlier
// runs are reset first, since rootCmd is shared by every test.
func execute(t *testing.T, args ...string) error {
	t.Helper()
	viper.Reset()
	resetFlags(rootCmd)
	rootCmd.SetArgs(args)
	return rootCmd.ExecuteContext(context.Background())
}

func resetFlags(cmd *cobra.Command) {
	for _, fs := range []*pflag.FlagSet{cmd.Flags(), cmd.PersistentFlags()} {
		fs.VisitAll(func(f *pflag.Flag) {
			if sv, ok := f.Value.(pflag.SliceValue); ok {
				_ = sv.Replace(nil)
			} else {
				_ = f.Value.Set(f.DefValue)
			}
			f.Changed = false
		})
	}
	for _, sub := range cmd.Commands() {
		resetFlags(sub)
	}
}

func TestBuildAndQueryCommands(t *testing.T) {
	dir := t.TempDir()
	a := writeDoc(t, dir, "a.md", "## Q: What is JSX?\nA: JSX is syntax sugar.\nTags: syntax, jsx\n")
	b := writeDoc(t, dir, "b.md", "## Q: What is JSX?\nA: JSX is syntactic sugar for React.createElement.\nTags: syntax, jsx\n"+
		"\n## Q: What does useState return?\nA: A value and a setter.\n")
	missing := filepath.Join(dir, "missing.md")
	out := filepath.Join(dir, "out", "questions.json")
	db := filepath.Join(dir, "out", "questions.db")

	require.NoError(t, execute(t, "build", "--log-level", "error", "--output", out, "--db", db, "--workers", "2", a, missing, b))

	records, err := export.ReadJSON(out)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "JSX is syntactic sugar for React.createElement.\nTags: syntax, jsx", records[0].Answer)
	assert.Equal(t, []string{"syntax", "jsx"}, records[0].Tags)
	assert.Equal(t, []string{"hooks"}, records[1].Tags)

	s, err := store.Open(types.StoreConfig{Path: db})
	require.NoError(t, err)
	n, err := s.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	require.NoError(t, s.Close())

	require.NoError(t, execute(t, "query", "--log-level", "error", "--db", db, "--tag", "hooks", "--json"))
	require.NoError(t, execute(t, "query", "--log-level", "error", "--db", db, "--id", records[0].ID))
	assert.Error(t, execute(t, "query", "--log-level", "error", "--db", db, "--level", "extreme"))
	require.NoError(t, execute(t, "query", "--log-level", "error", "--db", db, "--runs", "--json"))
}

func TestQueryValidatesFiltersWithID(t *testing.T) {
	dir := t.TempDir()
	src := writeDoc(t, dir, "a.md", "## Q: What is JSX?\nA: JSX is syntax sugar.\n")
	db := filepath.Join(dir, "questions.db")
	require.NoError(t, execute(t, "build", "--log-level", "error",
		"--output", filepath.Join(dir, "q.json"), "--db", db, src))

	err := execute(t, "query", "--log-level", "error", "--db", db, "--id", "what_is_jsx_4dd509", "--level", "extreme")
	assert.ErrorContains(t, err, "unknown level")

	err = execute(t, "query", "--log-level", "error", "--db", db, "--id", "what_is_jsx_4dd509", "--type", "essay")
	assert.ErrorContains(t, err, "unknown type")

	require.NoError(t, execute(t, "query", "--log-level", "error", "--db", db, "--id", "what_is_jsx_4dd509"))
}

func TestLoadCommand(t *testing.T) {
	dir := t.TempDir()
	src := writeDoc(t, dir, "a.md", "## Q: What is JSX?\nA: Syntax.\n\n## Q: What is a ref?\nA: A box.\n")
	out := filepath.Join(dir, "q.json")
	db := filepath.Join(dir, "loaded.db")

	require.NoError(t, execute(t, "build", "--log-level", "error", "--output", out, src))
	_, err := os.Stat(db)
	require.True(t, os.IsNotExist(err))

	require.NoError(t, execute(t, "load", "--log-level", "error", "--db", db, out))

	s, err := store.Open(types.StoreConfig{Path: db})
	require.NoError(t, err)
	defer s.Close()
	n, err := s.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	runs, err := s.Runs(context.Background())
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, 2, runs[0].Unique)

	assert.Error(t, execute(t, "load", "--log-level", "error", filepath.Join(dir, "q.json")), "no database path")
	assert.Error(t, execute(t, "load", "--log-level", "error", "--db", db, filepath.Join(dir, "absent.json")))
}

func TestCheckFailures(t *testing.T) {
	failed := types.BuildSummary{SectionsFailed: 2}
	assert.NoError(t, checkFailures(false, failed))
	assert.ErrorContains(t, checkFailures(true, failed), "2 sections failed")
	assert.NoError(t, checkFailures(true, types.BuildSummary{SectionsDropped: 3}))
}

func TestPrintSummary(t *testing.T) {
	var buf bytes.Buffer
	printSummary(&buf, "out/q.json", types.BuildSummary{DocumentsRead: 2, Unique: 5})
	assert.Contains(t, buf.String(), "wrote 5 questions to out/q.json")
	assert.NotContains(t, buf.String(), "warning")

	buf.Reset()
	printSummary(&buf, "out/q.json", types.BuildSummary{SectionsFailed: 1})
	assert.Contains(t, buf.String(), "warning: 1 sections failed")
}

func TestBuildCommandUsesConfigFile(t *testing.T) {
	dir := t.TempDir()
	src := writeDoc(t, dir, "one.md", "## Q: What is a portal?\nA: A way to render elsewhere.\n")
	out := filepath.Join(dir, "corpus.yaml")
	cfgPath := writeDoc(t, dir, "qbank.yaml", `sources:
  - `+src+`
classifier:
  default_topic: Frontend
`)

	require.NoError(t, execute(t, "build", "--log-level", "error", "--config", cfgPath,
		"--output", out, "--format", "yaml", "--db=", "--workers", "1"))

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(data), "topic: Frontend")
	assert.Contains(t, string(data), "id: what_is_a_portal_")
}

func TestBuildCommandRejectsUnknownFormat(t *testing.T) {
	dir := t.TempDir()
	src := writeDoc(t, dir, "one.md", "## Q: x?\nA: y\n")
	err := execute(t, "build", "--log-level", "error", "--output", filepath.Join(dir, "q.csv"),
		"--format", "csv", "--db=", src)
	assert.ErrorContains(t, err, "unsupported format")
}

func TestSetupLogger(t *testing.T) {
	for _, level := range []string{"debug", "info", "", "warn", "error"} {
		assert.NoError(t, setupLogger(level), level)
	}
	assert.Error(t, setupLogger("loud"))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "abcdefg...", truncate("abcdefghijklmnop", 10))
	assert.Equal(t, "a b c", oneLine("a\n b\t c"))
}
