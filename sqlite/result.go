package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/fwojciec/pagefetch"
	"github.com/google/uuid"
)

// Compile-time interface verification.
var _ pagefetch.ResultService = (*ResultService)(nil)

// ResultService implements pagefetch.ResultService using SQLite.
type ResultService struct {
	db *DB
}

// NewResultService creates a new ResultService.
func NewResultService(db *DB) *ResultService {
	return &ResultService{db: db}
}

const resultColumns = `id, url, success, content, title, headings, meta_description,
	error_kind, error_details, backend, content_hash, fetched_at`

// SaveResult stores result under a new ID. Results breaking the
// content/error invariant are rejected.
func (s *ResultService) SaveResult(ctx context.Context, result pagefetch.FetchResult) error {
	if err := result.Validate(); err != nil {
		return err
	}

	headings := result.Headings
	if headings == nil {
		headings = []string{}
	}
	encoded, err := json.Marshal(headings)
	if err != nil {
		return fmt.Errorf("failed to encode headings: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO results (`+resultColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, uuid.New().String(), result.URL, result.Success, result.Content, result.Title, string(encoded),
		result.MetaDescription, string(result.ErrorKind), result.ErrorDetails, result.Backend,
		result.ContentHash, time.Now().UTC().Format(time.RFC3339))
	return err
}

// FindResultByID retrieves a stored result by ID.
func (s *ResultService) FindResultByID(ctx context.Context, id string) (*pagefetch.StoredResult, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+resultColumns+` FROM results WHERE id = ?`, id)
	r, err := scanResult(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, pagefetch.Errorf(pagefetch.ENOTFOUND, "result not found")
	}
	if err != nil {
		return nil, err
	}
	return r, nil
}

// FindResults retrieves stored results matching the filter, newest first.
func (s *ResultService) FindResults(ctx context.Context, filter pagefetch.ResultFilter) ([]*pagefetch.StoredResult, error) {
	var query strings.Builder
	var args []any

	query.WriteString("SELECT " + resultColumns + " FROM results WHERE 1=1")

	if filter.URL != nil {
		query.WriteString(" AND url = ?")
		args = append(args, pagefetch.CanonicalizeURL(*filter.URL))
	}
	if filter.Success != nil {
		query.WriteString(" AND success = ?")
		args = append(args, *filter.Success)
	}
	if filter.ErrorKind != nil {
		query.WriteString(" AND error_kind = ?")
		args = append(args, string(*filter.ErrorKind))
	}

	query.WriteString(" ORDER BY fetched_at DESC, rowid DESC")
	appendPagination(&query, &args, filter.Limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	results := []*pagefetch.StoredResult{}
	for rows.Next() {
		r, err := scanResult(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, r)
	}
	return results, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanResult(row scanner) (*pagefetch.StoredResult, error) {
	var r pagefetch.StoredResult
	var headings, errorKind, fetchedAt string

	if err := row.Scan(&r.ID, &r.URL, &r.Success, &r.Content, &r.Title, &headings,
		&r.MetaDescription, &errorKind, &r.ErrorDetails, &r.Backend, &r.ContentHash, &fetchedAt); err != nil {
		return nil, err
	}

	r.ErrorKind = pagefetch.ErrorKind(errorKind)
	if err := json.Unmarshal([]byte(headings), &r.Headings); err != nil {
		return nil, fmt.Errorf("failed to decode headings: %w", err)
	}

	t, err := time.Parse(time.RFC3339, fetchedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to parse fetched_at: %w", err)
	}
	r.FetchedAt = t
	return &r, nil
}

// appendPagination appends LIMIT and OFFSET clauses for positive values.
// SQLite only accepts OFFSET after a LIMIT, so an offset alone is paired
// with LIMIT -1 (no limit).
func appendPagination(query *strings.Builder, args *[]any, limit, offset int) {
	switch {
	case limit > 0:
		query.WriteString(" LIMIT ?")
		*args = append(*args, limit)
	case offset > 0:
		query.WriteString(" LIMIT -1")
	}
	if offset > 0 {
		query.WriteString(" OFFSET ?")
		*args = append(*args, offset)
	}
}
