// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package store persists a built question corpus in SQLite and answers
// full-text and structured queries over it.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/qbank/pkg/types"
)

const defaultMaxResults = 20

// timeLayout is fixed-width so stored timestamps sort lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Store manages the question database.
type Store struct {
	db         *sql.DB
	maxResults int
}

// Open opens or creates the database at cfg.Path and creates the schema if
// it does not exist.
func Open(cfg types.StoreConfig) (*Store, error) {
	if dir := filepath.Dir(cfg.Path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", cfg.Path+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = defaultMaxResults
	}

	s := &Store{db: db, maxResults: maxResults}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS questions (
			rowid INTEGER PRIMARY KEY AUTOINCREMENT,
			id TEXT NOT NULL UNIQUE,
			topic TEXT NOT NULL,
			level TEXT NOT NULL,
			type TEXT NOT NULL,
			question TEXT NOT NULL,
			answer TEXT NOT NULL,
			example TEXT,
			tags TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_questions_level ON questions(level)`,
		`CREATE INDEX IF NOT EXISTS idx_questions_type ON questions(type)`,
		`CREATE INDEX IF NOT EXISTS idx_questions_topic ON questions(topic)`,
		`CREATE TABLE IF NOT EXISTS import_runs (
			id TEXT PRIMARY KEY,
			started_at TEXT NOT NULL,
			documents INTEGER NOT NULL,
			candidates INTEGER NOT NULL,
			unique_records INTEGER NOT NULL
		)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}

	// FTS5 virtual table with triggers for sync.
	var ftsExists int
	if err := s.db.QueryRow(
		`SELECT count(*) FROM sqlite_master WHERE type='table' AND name='questions_fts'`,
	).Scan(&ftsExists); err != nil {
		return fmt.Errorf("checking FTS table: %w", err)
	}
	if ftsExists > 0 {
		return nil
	}

	ftsStatements := []string{
		`CREATE VIRTUAL TABLE questions_fts USING fts5(question, answer, content=questions, content_rowid=rowid)`,
		`CREATE TRIGGER questions_ai AFTER INSERT ON questions BEGIN
			INSERT INTO questions_fts(rowid, question, answer) VALUES (new.rowid, new.question, new.answer);
		END`,
		`CREATE TRIGGER questions_ad AFTER DELETE ON questions BEGIN
			INSERT INTO questions_fts(questions_fts, rowid, question, answer) VALUES('delete', old.rowid, old.question, old.answer);
		END`,
		`CREATE TRIGGER questions_au AFTER UPDATE ON questions BEGIN
			INSERT INTO questions_fts(questions_fts, rowid, question, answer) VALUES('delete', old.rowid, old.question, old.answer);
			INSERT INTO questions_fts(rowid, question, answer) VALUES (new.rowid, new.question, new.answer);
		END`,
	}
	for _, stmt := range ftsStatements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("creating FTS infrastructure: %w", err)
		}
	}
	return nil
}

// Replace swaps the stored question set for corpus.Records inside a single
// transaction and records the import run. Either the whole corpus is
// stored or the previous contents remain. It returns the run ID.
func (s *Store) Replace(ctx context.Context, corpus *types.Corpus) (string, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM questions`); err != nil {
		return "", fmt.Errorf("clearing questions: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO questions (id, topic, level, type, question, answer, example, tags)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return "", fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for _, rec := range corpus.Records {
		tags := rec.Tags
		if tags == nil {
			tags = []string{}
		}
		tagsJSON, err := json.Marshal(tags)
		if err != nil {
			return "", fmt.Errorf("encoding tags for %s: %w", rec.ID, err)
		}
		var example sql.NullString
		if rec.Example != nil {
			example = sql.NullString{String: *rec.Example, Valid: true}
		}
		if _, err := stmt.ExecContext(ctx,
			rec.ID, rec.Topic, string(rec.Level), string(rec.Type),
			rec.Question, rec.Answer, example, string(tagsJSON),
		); err != nil {
			return "", fmt.Errorf("inserting question %s: %w", rec.ID, err)
		}
	}

	runID := uuid.NewString()
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO import_runs (id, started_at, documents, candidates, unique_records)
		 VALUES (?, ?, ?, ?, ?)`,
		runID, time.Now().UTC().Format(timeLayout),
		corpus.Summary.DocumentsRead, corpus.Summary.Candidates, len(corpus.Records),
	); err != nil {
		return "", fmt.Errorf("recording import run: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("committing: %w", err)
	}
	return runID, nil
}

// Count returns the number of stored questions.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT count(*) FROM questions`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting questions: %w", err)
	}
	return n, nil
}

// ImportRun describes one Replace call.
type ImportRun struct {
	ID         string    `json:"id" yaml:"id"`
	StartedAt  time.Time `json:"started_at" yaml:"started_at"`
	Documents  int       `json:"documents" yaml:"documents"`
	Candidates int       `json:"candidates" yaml:"candidates"`
	Unique     int       `json:"unique" yaml:"unique"`
}

// Runs returns the recorded import runs, newest first.
func (s *Store) Runs(ctx context.Context) ([]ImportRun, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, started_at, documents, candidates, unique_records
		 FROM import_runs ORDER BY started_at DESC, rowid DESC`)
	if err != nil {
		return nil, fmt.Errorf("querying import runs: %w", err)
	}
	defer rows.Close()

	var runs []ImportRun
	for rows.Next() {
		var (
			r       ImportRun
			started string
		)
		if err := rows.Scan(&r.ID, &started, &r.Documents, &r.Candidates, &r.Unique); err != nil {
			return nil, fmt.Errorf("scanning import run: %w", err)
		}
		if r.StartedAt, err = time.Parse(timeLayout, started); err != nil {
			return nil, fmt.Errorf("parsing start time of run %s: %w", r.ID, err)
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}
