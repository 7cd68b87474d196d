// Package queryir provides the query intermediate representation (IR) the
// list compiler emits.
//
// The IR sits between the compiler and the SQL backend:
//
//	[queryspec.Spec] → [compiler] → [queryir.Select] → [querysql] → SQL + params
//
// Building typed nodes first and serializing once keeps the compiler free of
// string concatenation: it accumulates joins, predicates and sort terms, and
// querysql turns the finished Select into text in a single step.
//
// SEALED INTERFACES:
//
// Predicate and Value are sealed interfaces using the marker method pattern.
// Only types in this package can implement them, so backends can switch
// exhaustively:
//
//	switch p := pred.(type) {
//	case Equals:
//	    // column = ?
//	case IsNull:
//	    // column IS NULL
//	default:
//	    // Impossible - every predicate type is known
//	}
//
// SHAPE:
//
// A Select has one base table, a list of aliased joins (inner or left
// outer), a conjunctive Where list, ORDER BY terms and LIMIT/OFFSET.
// Validate checks alias scoping and the other structural rules so a
// malformed compile fails loudly before it reaches the database.
//
// All literals are Values and are bound as parameters, never interpolated.
package queryir
