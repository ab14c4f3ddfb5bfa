package storage

import (
	"context"
	"database/sql"
	"fmt"
)

// Row is a single result row keyed by column name. Integer identity
// columns are normalized to int64 before a Row leaves a backend; other
// values keep their engine-native representation and are coerced by
// the read helpers in rows.go.
type Row map[string]any

// RunResult reports the outcome of a mutating statement.
type RunResult struct {
	LastInsertID int64
	RowsChanged  int64
}

// Stmt is one statement of a Batch.
type Stmt struct {
	SQL  string
	Args []any
}

// Backend is the capability set shared by the two storage variants.
// Selection happens once at initialization and is fixed for the life
// of the process; repositories hold a Backend and never a concrete
// variant.
type Backend interface {
	// Execute runs a statement that produces no result, typically DDL.
	Execute(ctx context.Context, stmt string) error
	// Run executes a mutating statement with parameters.
	Run(ctx context.Context, stmt string, args ...any) (RunResult, error)
	// Query returns the ordered result rows of a select.
	Query(ctx context.Context, stmt string, args ...any) ([]Row, error)
	// Batch executes the statements inside a single transaction.
	Batch(ctx context.Context, stmts []Stmt) error
	Close() error
}

// sqlBackend implements the Backend operations over a database/sql
// handle. Both variants embed it; the embedded variant layers snapshot
// persistence on top of the mutating calls.
type sqlBackend struct {
	db *sql.DB
}

func (b *sqlBackend) Execute(ctx context.Context, stmt string) error {
	if _, err := b.db.ExecContext(ctx, stmt); err != nil {
		return fmt.Errorf("execute: %w", err)
	}
	return nil
}

func (b *sqlBackend) Run(ctx context.Context, stmt string, args ...any) (RunResult, error) {
	res, err := b.db.ExecContext(ctx, stmt, args...)
	if err != nil {
		return RunResult{}, fmt.Errorf("run: %w", err)
	}
	lastID, err := res.LastInsertId()
	if err != nil {
		return RunResult{}, fmt.Errorf("run: last insert id: %w", err)
	}
	changed, err := res.RowsAffected()
	if err != nil {
		return RunResult{}, fmt.Errorf("run: rows affected: %w", err)
	}
	return RunResult{LastInsertID: lastID, RowsChanged: changed}, nil
}

func (b *sqlBackend) Query(ctx context.Context, stmt string, args ...any) ([]Row, error) {
	rows, err := b.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("query: columns: %w", err)
	}

	var out []Row
	for rows.Next() {
		values := make([]any, len(columns))
		dests := make([]any, len(columns))
		for i := range values {
			dests[i] = &values[i]
		}
		if err := rows.Scan(dests...); err != nil {
			return nil, fmt.Errorf("query: scan: %w", err)
		}
		row := make(Row, len(columns))
		for i, column := range columns {
			row[column] = normalizeValue(column, values[i])
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("query: iterate: %w", err)
	}
	return out, nil
}

func (b *sqlBackend) Batch(ctx context.Context, stmts []Stmt) error {
	tx, err := b.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("batch: begin tx: %w", err)
	}
	for _, stmt := range stmts {
		if _, err := tx.ExecContext(ctx, stmt.SQL, stmt.Args...); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("batch: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("batch: commit: %w", err)
	}
	return nil
}

func (b *sqlBackend) Close() error {
	if b == nil || b.db == nil {
		return nil
	}
	return b.db.Close()
}

// identityColumns are normalized to int64 on every read path so the
// two engines agree on the numeric type of ids.
var identityColumns = map[string]struct{}{
	"id":         {},
	"customerId": {},
}

func normalizeValue(column string, value any) any {
	if value == nil {
		return nil
	}
	if raw, ok := value.([]byte); ok {
		value = string(raw)
	}
	if _, ok := identityColumns[column]; ok {
		return asInt64(value)
	}
	return value
}
