// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/pdiddy/qbank/pkg/types"
)

// ErrNotFound is returned by Get when no question has the given ID.
var ErrNotFound = errors.New("question not found")

// QueryOptions holds parameters for question queries.
type QueryOptions struct {
	// Query is an FTS5 match expression over question and answer text.
	Query string

	Level types.Level
	Type  types.QuestionType
	Topic string

	// Tags filters by one or more tags with AND semantics.
	Tags []string

	// MaxResults limits result count. Zero uses the store default.
	MaxResults int
}

// IsEmpty reports whether the query has no search terms or filters.
func (q QueryOptions) IsEmpty() bool {
	return q.Query == "" && q.Level == "" && q.Type == "" && q.Topic == "" && len(q.Tags) == 0
}

const selectColumns = `q.id, q.topic, q.level, q.type, q.question, q.answer, q.example, q.tags`

// Query returns questions matching opts. Full-text queries are ranked by
// relevance; structured-only queries keep corpus order.
func (s *Store) Query(ctx context.Context, opts QueryOptions) ([]types.QuestionRecord, error) {
	maxResults := opts.MaxResults
	if maxResults <= 0 {
		maxResults = s.maxResults
	}

	var (
		qb     strings.Builder
		args   []any
		useFTS = opts.Query != ""
	)

	if useFTS {
		qb.WriteString(`SELECT ` + selectColumns + `
			FROM questions_fts
			JOIN questions q ON q.rowid = questions_fts.rowid
			WHERE questions_fts MATCH ?`)
		args = append(args, opts.Query)
	} else {
		qb.WriteString(`SELECT ` + selectColumns + ` FROM questions q WHERE 1=1`)
	}

	if opts.Level != "" {
		qb.WriteString(` AND q.level = ?`)
		args = append(args, string(opts.Level))
	}
	if opts.Type != "" {
		qb.WriteString(` AND q.type = ?`)
		args = append(args, string(opts.Type))
	}
	if opts.Topic != "" {
		qb.WriteString(` AND q.topic = ? COLLATE NOCASE`)
		args = append(args, opts.Topic)
	}
	for _, tag := range opts.Tags {
		qb.WriteString(` AND EXISTS (SELECT 1 FROM json_each(q.tags) WHERE value = ?)`)
		args = append(args, tag)
	}

	if useFTS {
		qb.WriteString(` ORDER BY questions_fts.rank`)
	} else {
		qb.WriteString(` ORDER BY q.rowid`)
	}
	qb.WriteString(` LIMIT ?`)
	args = append(args, maxResults)

	rows, err := s.db.QueryContext(ctx, qb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("querying questions: %w", err)
	}
	defer rows.Close()

	var results []types.QuestionRecord
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, rec)
	}
	return results, rows.Err()
}

// Get returns the question with the given ID.
func (s *Store) Get(ctx context.Context, id string) (types.QuestionRecord, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+selectColumns+` FROM questions q WHERE q.id = ?`, id)
	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return types.QuestionRecord{}, fmt.Errorf("%s: %w", id, ErrNotFound)
	}
	return rec, err
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(sc scanner) (types.QuestionRecord, error) {
	var (
		rec      types.QuestionRecord
		level    string
		qtype    string
		example  sql.NullString
		tagsJSON string
	)
	if err := sc.Scan(&rec.ID, &rec.Topic, &level, &qtype, &rec.Question, &rec.Answer, &example, &tagsJSON); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return rec, err
		}
		return rec, fmt.Errorf("scanning row: %w", err)
	}
	rec.Level = types.Level(level)
	rec.Type = types.QuestionType(qtype)
	if example.Valid {
		ex := example.String
		rec.Example = &ex
	}
	if err := json.Unmarshal([]byte(tagsJSON), &rec.Tags); err != nil {
		return rec, fmt.Errorf("decoding tags for %s: %w", rec.ID, err)
	}
	return rec, nil
}
