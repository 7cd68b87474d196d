package queryir

import (
	"errors"
	"fmt"
	"strings"
)

// ValidationResult contains the structural problems found in a query.
type ValidationResult struct {
	// Valid is true when Problems is empty.
	Valid bool

	// Problems lists every structural defect found, in traversal order.
	Problems []string
}

// Err returns nil for a valid query, or one error joining all problems.
func (r ValidationResult) Err() error {
	if r.Valid {
		return nil
	}
	return errors.New("invalid query: " + strings.Join(r.Problems, "; "))
}

// Validate checks that a Select is well formed:
//  1. From is set and at least one field is selected
//  2. join aliases are unique and distinct from the base table
//  3. every qualified column refers to the base table or a join alias
//     declared at that point (a join's ON clause may use its own alias
//     and earlier ones, never later ones)
//  4. every join has an ON condition and Or is never empty
//  5. Limit and Offset are not negative
//
// A compiled query that fails validation is a programming error, not a
// user error. Validate is a pure function with no side effects.
func Validate(q Select) ValidationResult {
	v := &validator{
		problems: []string{},
		scope:    map[string]bool{},
	}
	v.validateSelect(q)

	return ValidationResult{
		Valid:    len(v.problems) == 0,
		Problems: v.problems,
	}
}

// validator accumulates problems during traversal.
type validator struct {
	problems []string
	scope    map[string]bool // Tables and aliases visible so far
}

func (v *validator) addProblem(format string, args ...any) {
	v.problems = append(v.problems, fmt.Sprintf(format, args...))
}

func (v *validator) validateSelect(q Select) {
	if q.From == "" {
		v.addProblem("missing FROM table")
	}
	v.scope[q.From] = true

	if len(q.Fields) == 0 {
		v.addProblem("no fields selected")
	}

	// Joins first so that fields and filters may use every alias.
	for i, j := range q.Joins {
		v.validateJoin(i, j)
	}

	names := map[string]bool{}
	for _, f := range q.Fields {
		v.validateColumn("field", f.Column)
		if f.As != "" {
			if names[f.As] {
				v.addProblem("duplicate field name %q", f.As)
			}
			names[f.As] = true
		}
	}

	for _, p := range q.Where {
		v.validatePredicate("where", p)
	}

	for _, o := range q.OrderBy {
		v.validateColumn("order by", o.Column)
	}

	if q.Limit < 0 {
		v.addProblem("negative limit %d", q.Limit)
	}
	if q.Offset < 0 {
		v.addProblem("negative offset %d", q.Offset)
	}
}

func (v *validator) validateJoin(i int, j Join) {
	if j.Alias == "" {
		v.addProblem("join %d: missing alias", i)
	} else if v.scope[j.Alias] {
		v.addProblem("join %d: alias %q already declared", i, j.Alias)
	}
	v.scope[j.Alias] = true

	if len(j.On) == 0 {
		v.addProblem("join %d (%s): missing ON condition", i, j.Alias)
	}
	for _, p := range j.On {
		v.validatePredicate(fmt.Sprintf("join %s", j.Alias), p)
	}
}

func (v *validator) validatePredicate(where string, p Predicate) {
	switch pred := p.(type) {
	case nil:
		v.addProblem("%s: nil predicate", where)
	case Equals:
		v.validateColumn(where, pred.Column)
		v.validateValue(where, pred.Value)
	case ColumnEquals:
		v.validateColumn(where, pred.Left)
		v.validateColumn(where, pred.Right)
	case IsNull:
		v.validateColumn(where, pred.Column)
	case IsNotNull:
		v.validateColumn(where, pred.Column)
	case NotLike:
		v.validateColumn(where, pred.Column)
	case AtLeast:
		v.validateColumn(where, pred.Column)
		v.validateValue(where, pred.Value)
	case Or:
		if len(pred.Predicates) == 0 {
			v.addProblem("%s: empty OR", where)
		}
		for _, sub := range pred.Predicates {
			v.validatePredicate(where, sub)
		}
	default:
		v.addProblem("%s: unknown predicate type %T", where, p)
	}
}

func (v *validator) validateColumn(where string, c Column) {
	if c.Name == "" {
		v.addProblem("%s: column without a name", where)
	}
	if c.Table != "" && !v.scope[c.Table] {
		v.addProblem("%s: column %s.%s refers to undeclared table", where, c.Table, c.Name)
	}
}

func (v *validator) validateValue(where string, val Value) {
	if val == nil {
		v.addProblem("%s: nil value", where)
	}
}
