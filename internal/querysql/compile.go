package querysql

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/roach88/dpl/internal/queryir"
)

// Placeholder styles for bound parameters.
type Placeholder int

const (
	// Question uses "?" for every parameter (SQLite, MySQL).
	Question Placeholder = iota
	// Dollar uses "$1", "$2", ... (PostgreSQL).
	Dollar
)

// PlaceholderFor returns the placeholder style of a database/sql driver name.
func PlaceholderFor(driver string) Placeholder {
	switch driver {
	case "pgx", "postgres":
		return Dollar
	default:
		return Question
	}
}

// SQLCompiler compiles a queryir.Select to parameterized SQL.
//
// CRITICAL: All values are parameterized, never interpolated.
type SQLCompiler struct {
	Placeholder Placeholder
}

// NewSQLCompiler creates a new SQLCompiler using "?" placeholders.
func NewSQLCompiler() *SQLCompiler {
	return &SQLCompiler{Placeholder: Question}
}

// Compile converts a Select to SQL text and its parameters, in placeholder
// order. Compile does not validate scoping; run queryir.Validate first.
func (c *SQLCompiler) Compile(q queryir.Select) (string, []any, error) {
	w := &writer{placeholder: c.Placeholder}

	w.sql.WriteString("SELECT ")
	w.sql.WriteString(compileFields(q.Fields))
	w.sql.WriteString(" FROM ")
	w.sql.WriteString(q.From)

	for _, j := range q.Joins {
		if err := w.writeJoin(j); err != nil {
			return "", nil, fmt.Errorf("compile join %s: %w", j.Alias, err)
		}
	}

	if len(q.Where) > 0 {
		w.sql.WriteString(" WHERE ")
		if err := w.writeConjunction(q.Where); err != nil {
			return "", nil, fmt.Errorf("compile where: %w", err)
		}
	}

	if len(q.OrderBy) > 0 {
		w.sql.WriteString(" ORDER BY ")
		w.sql.WriteString(compileOrder(q.OrderBy))
	}

	if q.Limit > 0 {
		w.sql.WriteString(" LIMIT ")
		w.sql.WriteString(strconv.Itoa(q.Limit))
	}
	if q.Offset > 0 {
		w.sql.WriteString(" OFFSET ")
		w.sql.WriteString(strconv.Itoa(q.Offset))
	}

	return w.sql.String(), w.params, nil
}

// compileFields converts fields to the SELECT column list.
// Example: {page.page_title, "title"} → "page.page_title AS title"
func compileFields(fields []queryir.Field) string {
	if len(fields) == 0 {
		return "*"
	}
	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		col := columnSQL(f.Column)
		if f.As == "" || f.As == f.Column.Name {
			parts = append(parts, col)
			continue
		}
		parts = append(parts, col+" AS "+f.As)
	}
	return strings.Join(parts, ", ")
}

func compileOrder(terms []queryir.OrderTerm) string {
	parts := make([]string, 0, len(terms))
	for _, t := range terms {
		dir := "ASC"
		if t.Desc {
			dir = "DESC"
		}
		parts = append(parts, columnSQL(t.Column)+" "+dir)
	}
	return strings.Join(parts, ", ")
}

func columnSQL(c queryir.Column) string {
	if c.Table == "" {
		return c.Name
	}
	return c.Table + "." + c.Name
}

// writer accumulates SQL text and parameters in placeholder order.
type writer struct {
	sql         strings.Builder
	params      []any
	placeholder Placeholder
}

// bind appends a parameter and returns its placeholder text.
func (w *writer) bind(v any) string {
	w.params = append(w.params, v)
	if w.placeholder == Dollar {
		return "$" + strconv.Itoa(len(w.params))
	}
	return "?"
}

func (w *writer) writeJoin(j queryir.Join) error {
	fmt.Fprintf(&w.sql, " %s %s AS %s ON ", j.Kind, j.Table, j.Alias)
	return w.writeConjunction(j.On)
}

// writeConjunction writes predicates joined with AND.
// An empty list is vacuously true.
func (w *writer) writeConjunction(preds []queryir.Predicate) error {
	if len(preds) == 0 {
		w.sql.WriteString("1 = 1")
		return nil
	}
	for i, p := range preds {
		if i > 0 {
			w.sql.WriteString(" AND ")
		}
		if err := w.writePredicate(p); err != nil {
			return err
		}
	}
	return nil
}

// writePredicate compiles one predicate.
// CRITICAL: Values are NEVER interpolated - always bound.
func (w *writer) writePredicate(p queryir.Predicate) error {
	switch pred := p.(type) {
	case queryir.Equals:
		param, err := valueToParam(pred.Value)
		if err != nil {
			return err
		}
		w.sql.WriteString(columnSQL(pred.Column) + " = " + w.bind(param))
	case queryir.ColumnEquals:
		w.sql.WriteString(columnSQL(pred.Left) + " = " + columnSQL(pred.Right))
	case queryir.IsNull:
		w.sql.WriteString(columnSQL(pred.Column) + " IS NULL")
	case queryir.IsNotNull:
		w.sql.WriteString(columnSQL(pred.Column) + " IS NOT NULL")
	case queryir.NotLike:
		w.sql.WriteString(columnSQL(pred.Column) + " NOT LIKE " + w.bind(pred.Pattern))
	case queryir.AtLeast:
		param, err := valueToParam(pred.Value)
		if err != nil {
			return err
		}
		w.sql.WriteString(columnSQL(pred.Column) + " >= " + w.bind(param))
	case queryir.Or:
		if len(pred.Predicates) == 0 {
			return fmt.Errorf("empty OR predicate")
		}
		w.sql.WriteString("(")
		for i, sub := range pred.Predicates {
			if i > 0 {
				w.sql.WriteString(" OR ")
			}
			if err := w.writePredicate(sub); err != nil {
				return err
			}
		}
		w.sql.WriteString(")")
	default:
		return fmt.Errorf("unsupported predicate type: %T", p)
	}
	return nil
}

// valueToParam converts a queryir.Value to a Go native SQL parameter.
func valueToParam(v queryir.Value) (any, error) {
	switch val := v.(type) {
	case queryir.String:
		return string(val), nil
	case queryir.Int:
		return int64(val), nil
	default:
		return nil, fmt.Errorf("unsupported value type for SQL parameter: %T", v)
	}
}
