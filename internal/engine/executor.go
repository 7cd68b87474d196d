package engine

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/roach88/dpl/internal/compiler"
	"github.com/roach88/dpl/internal/queryir"
	"github.com/roach88/dpl/internal/querysql"
	"github.com/roach88/dpl/internal/store"
)

// Querier runs a read query. *sql.DB, *sql.Tx and *store.Store satisfy it.
type Querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// Executor runs compiled list queries and decodes their rows.
// It issues exactly one query per Run and never writes.
type Executor struct {
	db  Querier
	sql *querysql.SQLCompiler
}

// NewExecutor creates an executor that binds parameters in the given
// placeholder style.
func NewExecutor(db Querier, placeholder querysql.Placeholder) *Executor {
	return &Executor{
		db:  db,
		sql: &querysql.SQLCompiler{Placeholder: placeholder},
	}
}

// SQL serializes q without running it.
func (e *Executor) SQL(q queryir.Select) (string, []any, error) {
	return e.sql.Compile(q)
}

// Run executes q and returns its rows in result order.
//
// Zero rows is an empty, non-nil slice. Failures are *RenderError values
// (ErrCodeQueryFailed or ErrCodeScanFailed) wrapping the driver error.
// No retry is attempted.
func (e *Executor) Run(ctx context.Context, q queryir.Select) ([]store.ResultRow, error) {
	query, params, err := e.sql.Compile(q)
	if err != nil {
		return nil, NewCompileError("", err)
	}

	rows, err := e.db.QueryContext(ctx, query, params...)
	if err != nil {
		return nil, NewQueryError("", query, err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, NewQueryError("", query, err)
	}

	results := []store.ResultRow{}
	for rows.Next() {
		row, err := scanRow(rows, cols)
		if err != nil {
			return nil, &RenderError{
				Code:    ErrCodeScanFailed,
				Message: fmt.Sprintf("decode row %d", len(results)+1),
				Err:     err,
			}
		}
		results = append(results, row)
	}
	if err := rows.Err(); err != nil {
		return nil, NewQueryError("", query, err)
	}

	return results, nil
}

// scanRow decodes one row by result column name. Columns the executor
// does not know are read and discarded.
func scanRow(rows *sql.Rows, cols []string) (store.ResultRow, error) {
	var (
		row     store.ResultRow
		touched store.Timestamp
		catTS   store.Timestamp
	)

	dest := make([]any, len(cols))
	for i, c := range cols {
		switch c {
		case compiler.FieldNamespace:
			dest[i] = &row.Namespace
		case compiler.FieldTitle:
			dest[i] = &row.Title
		case compiler.FieldID:
			dest[i] = &row.ID
		case compiler.FieldLength:
			dest[i] = &row.Length
		case compiler.FieldTouched:
			dest[i] = &touched
		case compiler.FieldCategoryTimestamp:
			dest[i] = &catTS
		default:
			dest[i] = new(any)
		}
	}

	if err := rows.Scan(dest...); err != nil {
		return store.ResultRow{}, err
	}

	row.Touched = touched.Time
	row.CategoryAdded = catTS.Time
	return row, nil
}
