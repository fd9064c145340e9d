// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/qbank/internal/store"
	"github.com/pdiddy/qbank/pkg/types"
)

var queryCmd = &cobra.Command{
	Use:   "query [text]",
	Short: "Search a question corpus loaded into SQLite",
	Long: `Query searches the SQLite database written by "build --db" using
full-text search over questions and answers, structured filters (level,
type, topic, tag), or both.

Use --id to print a single question in full, or --runs to list the
builds and loads recorded in the database.`,
	RunE: runQuery,
}

func runQuery(cmd *cobra.Command, args []string) error {
	dbPath, _ := cmd.Flags().GetString("db")
	if dbPath == "" {
		dbPath = viper.GetString("db_path")
	}
	if dbPath == "" {
		return fmt.Errorf("database path required: set --db or db_path in the config file")
	}

	opts := queryOptsFromFlags(cmd, args)
	if opts.Level != "" && !opts.Level.Valid() {
		return fmt.Errorf("unknown level %q: use easy, medium, or hard", opts.Level)
	}
	if opts.Type != "" && !opts.Type.Valid() {
		return fmt.Errorf("unknown type %q: use mcq, code, open, or flashcard", opts.Type)
	}

	s, err := store.Open(types.StoreConfig{Path: dbPath})
	if err != nil {
		return err
	}
	defer s.Close()

	jsonOutput, _ := cmd.Flags().GetBool("json")
	ctx := commandContext(cmd)

	if runs, _ := cmd.Flags().GetBool("runs"); runs {
		list, err := s.Runs(ctx)
		if err != nil {
			return err
		}
		if jsonOutput {
			if list == nil {
				list = []store.ImportRun{}
			}
			return writeJSON(os.Stdout, list)
		}
		printRuns(os.Stdout, list)
		return nil
	}

	if id, _ := cmd.Flags().GetString("id"); id != "" {
		rec, err := s.Get(ctx, id)
		if err != nil {
			return err
		}
		if jsonOutput {
			return writeJSON(os.Stdout, rec)
		}
		printRecord(os.Stdout, rec)
		return nil
	}

	if opts.IsEmpty() {
		return fmt.Errorf("query or filter required: provide search text, --level, --type, --topic, or --tag")
	}

	results, err := s.Query(ctx, opts)
	if err != nil {
		return err
	}
	if jsonOutput {
		if results == nil {
			results = []types.QuestionRecord{}
		}
		return writeJSON(os.Stdout, results)
	}
	printTable(os.Stdout, results)
	return nil
}

func queryOptsFromFlags(cmd *cobra.Command, args []string) store.QueryOptions {
	text := strings.Join(args, " ")
	level, _ := cmd.Flags().GetString("level")
	qtype, _ := cmd.Flags().GetString("type")
	topic, _ := cmd.Flags().GetString("topic")
	tags, _ := cmd.Flags().GetStringSlice("tag")
	limit, _ := cmd.Flags().GetInt("limit")

	return store.QueryOptions{
		Query:      text,
		Level:      types.Level(level),
		Type:       types.QuestionType(qtype),
		Topic:      topic,
		Tags:       tags,
		MaxResults: limit,
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}

func printTable(w io.Writer, results []types.QuestionRecord) {
	if len(results) == 0 {
		fmt.Fprintln(w, "No results found.")
		return
	}

	fmt.Fprintf(w, "%-4s  %-6s  %-9s  %-12s  %-50s  %s\n",
		"Rank", "Level", "Type", "Topic", "Question", "ID")
	fmt.Fprintln(w, strings.Repeat("-", 110))

	for i, r := range results {
		fmt.Fprintf(w, "%-4d  %-6s  %-9s  %-12s  %-50s  %s\n",
			i+1, r.Level, r.Type, truncate(r.Topic, 12), truncate(oneLine(r.Question), 50), r.ID)
	}
	fmt.Fprintf(w, "\n%d results\n", len(results))
}

func printRecord(w io.Writer, r types.QuestionRecord) {
	fmt.Fprintf(w, "%s\n\n", r.ID)
	fmt.Fprintf(w, "Topic: %s  Level: %s  Type: %s\n", r.Topic, r.Level, r.Type)
	if len(r.Tags) > 0 {
		fmt.Fprintf(w, "Tags: %s\n", strings.Join(r.Tags, ", "))
	}
	fmt.Fprintf(w, "\nQ: %s\n\nA: %s\n", r.Question, r.Answer)
	if r.Example != nil {
		fmt.Fprintf(w, "\nE: %s\n", *r.Example)
	}
}

func printRuns(w io.Writer, runs []store.ImportRun) {
	if len(runs) == 0 {
		fmt.Fprintln(w, "No import runs recorded.")
		return
	}

	fmt.Fprintf(w, "%-36s  %-20s  %9s  %10s  %6s\n", "Run", "Started", "Documents", "Candidates", "Unique")
	fmt.Fprintln(w, strings.Repeat("-", 89))
	for _, r := range runs {
		fmt.Fprintf(w, "%-36s  %-20s  %9d  %10d  %6d\n",
			r.ID, r.StartedAt.Format(time.RFC3339), r.Documents, r.Candidates, r.Unique)
	}
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n-3]) + "..."
}

func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func init() {
	queryCmd.Flags().String("db", "", "SQLite database written by build --db")
	queryCmd.Flags().String("level", "", "filter by level: easy, medium, hard")
	queryCmd.Flags().String("type", "", "filter by type: mcq, code, open, flashcard")
	queryCmd.Flags().String("topic", "", "filter by topic (case-insensitive)")
	queryCmd.Flags().StringSlice("tag", nil, "filter by tag; repeat for AND")
	queryCmd.Flags().Int("limit", 0, "maximum results (0 = use default)")
	queryCmd.Flags().String("id", "", "print one question by ID")
	queryCmd.Flags().Bool("json", false, "output results as JSON")
	queryCmd.Flags().Bool("runs", false, "list recorded import runs, newest first")

	rootCmd.AddCommand(queryCmd)
}
