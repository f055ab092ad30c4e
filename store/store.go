// Package store executes compiled SQL templates against SQLite.
//
// It is the execution layer the template compiler targets: it expands #{name}
// placeholders into driver placeholders, runs the statement and returns rows
// keyed by column name so generated scan functions can map them back onto
// entities. The generic Repository provides a find/save/delete façade on top.
package store

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/querykit/querykit/dsl"
	"github.com/querykit/querykit/sqltemplate"
)

// Store wraps a SQLite database handle configured for this module's access
// pattern. A Store is safe for concurrent use; each query compiles with its
// own generator.
type Store struct {
	db *sql.DB
}

// Open creates or opens a SQLite database at the given path. Use ":memory:"
// for an in-memory database.
//
// The connection is configured with WAL mode for concurrent reads, a 5-second
// busy timeout and foreign key enforcement. SQLite allows a single writer, so
// the pool is limited to one connection.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("store: open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: connect: %w", err)
	}

	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: apply pragmas: %w", err)
	}

	return &Store{db: db}, nil
}

func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return fmt.Errorf("%s: %w", pragma, err)
		}
	}
	return nil
}

// Close closes the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// DB exposes the underlying handle for schema setup and migrations.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Exec expands and executes a #{name} template that returns no rows.
func (s *Store) Exec(ctx context.Context, sqlText string, params map[string]any) (sql.Result, error) {
	stmt, args, err := ExpandTemplate(sqlText, params)
	if err != nil {
		return nil, fmt.Errorf("store: expand template: %w", err)
	}
	res, err := s.db.ExecContext(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("store: exec: %w", err)
	}
	return res, nil
}

// QueryRows expands and executes a #{name} template and returns the result
// set as one map per row, keyed by column name. Column names round-trip
// unchanged from what the compiler emitted in SELECT and JOIN clauses.
func (s *Store) QueryRows(ctx context.Context, sqlText string, params map[string]any) ([]map[string]any, error) {
	stmt, args, err := ExpandTemplate(sqlText, params)
	if err != nil {
		return nil, fmt.Errorf("store: expand template: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("store: query: %w", err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("store: columns: %w", err)
	}

	var result []map[string]any
	for rows.Next() {
		values := make([]any, len(columns))
		scanTargets := make([]any, len(columns))
		for i := range values {
			scanTargets[i] = &values[i]
		}
		if err := rows.Scan(scanTargets...); err != nil {
			return nil, fmt.Errorf("store: scan: %w", err)
		}

		row := make(map[string]any, len(columns))
		for i, col := range columns {
			row[col] = values[i]
		}
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("store: rows: %w", err)
	}
	return result, nil
}

// Query compiles a dsl query and executes it.
func (s *Store) Query(ctx context.Context, q *dsl.Query) ([]map[string]any, error) {
	sqlText, params := sqltemplate.Compile(q)
	return s.QueryRows(ctx, sqlText, params)
}
