package journal

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/rustyeddy/fxrisk/pkg/id"
)

const defaultListLimit = 50

type SQLite struct {
	db  *sql.DB
	now func() time.Time
}

func NewSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(Schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return &SQLite{db: db, now: time.Now}, nil
}

// Record stores e, assigning an ID and timestamp when they are unset, and
// returns the ID.
func (j *SQLite) Record(ctx context.Context, e Entry) (string, error) {
	if e.CreatedAt.IsZero() {
		e.CreatedAt = j.now()
	}
	e.CreatedAt = e.CreatedAt.UTC()
	if e.ID == "" {
		e.ID = id.NewAt(e.CreatedAt)
	}

	_, err := j.db.ExecContext(ctx, `
		INSERT INTO assessments
		(id, kind, symbol, created_at, summary, request, result)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		e.ID, string(e.Kind), e.Symbol, e.CreatedAt, e.Summary, string(e.Request), string(e.Result),
	)
	if err != nil {
		return "", fmt.Errorf("insert assessment: %w", err)
	}
	return e.ID, nil
}

func (j *SQLite) Get(ctx context.Context, entryID string) (Entry, error) {
	row := j.db.QueryRowContext(ctx, `
		SELECT id, kind, symbol, created_at, summary, request, result
		FROM assessments
		WHERE id = ?`, entryID)

	e, err := scanEntry(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Entry{}, fmt.Errorf("%w: %s", ErrNotFound, entryID)
		}
		return Entry{}, err
	}
	return e, nil
}

// List returns entries newest first.
func (j *SQLite) List(ctx context.Context, f Filter) ([]Entry, error) {
	limit := f.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}

	var (
		rows *sql.Rows
		err  error
	)
	if f.Kind == "" {
		rows, err = j.db.QueryContext(ctx, `
			SELECT id, kind, symbol, created_at, summary, request, result
			FROM assessments
			ORDER BY id DESC
			LIMIT ?`, limit)
	} else {
		rows, err = j.db.QueryContext(ctx, `
			SELECT id, kind, symbol, created_at, summary, request, result
			FROM assessments
			WHERE kind = ?
			ORDER BY id DESC
			LIMIT ?`, string(f.Kind), limit)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (j *SQLite) Close() error {
	return j.db.Close()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(s scanner) (Entry, error) {
	var (
		e               Entry
		kind            string
		request, result string
	)
	if err := s.Scan(&e.ID, &kind, &e.Symbol, &e.CreatedAt, &e.Summary, &request, &result); err != nil {
		return Entry{}, err
	}
	e.Kind = Kind(kind)
	e.CreatedAt = e.CreatedAt.UTC()
	e.Request = []byte(request)
	e.Result = []byte(result)
	return e, nil
}
