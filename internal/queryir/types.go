package queryir

// Value is a literal bound into a query as a parameter.
//
// This is a sealed interface - only types in this package implement it.
// Values are never interpolated into SQL text; backends bind them.
type Value interface {
	valueNode() // Marker method - seals interface to this package
}

// String is a text literal.
type String string

func (String) valueNode() {}

// Int is an integer literal.
type Int int64

func (Int) valueNode() {}

// Predicate represents a filter condition in the QueryIR.
//
// This is a sealed interface - only types in this package implement it.
// Predicates appear in Select.Where and Join.On; a list of predicates is
// always a conjunction.
//
// Predicate types:
//   - Equals: column = literal
//   - ColumnEquals: column = column
//   - IsNull / IsNotNull: column IS [NOT] NULL
//   - NotLike: column NOT LIKE pattern
//   - AtLeast: column >= literal
//   - Or: disjunction of predicates
type Predicate interface {
	predicateNode() // Marker method - seals interface to this package
}

// Column references a column, qualified by table name or join alias.
// An empty Table leaves the column unqualified.
type Column struct {
	Table string
	Name  string
}

// Col is shorthand for a qualified Column.
func Col(table, name string) Column {
	return Column{Table: table, Name: name}
}

// Field is one output column of a Select.
//
// Example:
//
//	Field{Column: Col("page", "page_title"), As: "title"}
//
// Translates to SQL:
//
//	page.page_title AS title
type Field struct {
	Column Column
	As     string // Result column name read back by the executor
}

// JoinKind is the join type.
type JoinKind int

const (
	InnerJoin JoinKind = iota
	LeftJoin
)

func (k JoinKind) String() string {
	if k == LeftJoin {
		return "LEFT OUTER JOIN"
	}
	return "INNER JOIN"
}

// Join attaches a table to the Select under an alias.
//
// Example (membership in a category):
//
//	Join{
//	  Kind:  InnerJoin,
//	  Table: "categorylinks",
//	  Alias: "c1",
//	  On: []Predicate{
//	    ColumnEquals{Left: Col("page", "page_id"), Right: Col("c1", "cl_from")},
//	    Equals{Column: Col("c1", "cl_to"), Value: String("Trees")},
//	  },
//	}
//
// Translates to SQL:
//
//	INNER JOIN categorylinks AS c1 ON page.page_id = c1.cl_from AND c1.cl_to = ?
//
// A left join combined with an IS NULL check on a joined column in Where
// expresses "no matching row exists".
type Join struct {
	Kind  JoinKind
	Table string
	Alias string
	On    []Predicate // Conjunction; required
}

// OrderTerm is one ORDER BY key.
type OrderTerm struct {
	Column Column
	Desc   bool
}

// Select is the compiled list query.
//
// Semantics:
//
//	SELECT <fields> FROM <from> <joins> WHERE <where> ORDER BY <order>
//	LIMIT <limit> OFFSET <offset>
//
// A Select is built once per render and never mutated after compilation.
// Limit 0 means no LIMIT clause; Offset 0 means no OFFSET clause.
type Select struct {
	From    string
	Fields  []Field
	Joins   []Join
	Where   []Predicate // Conjunction; empty = no WHERE clause
	OrderBy []OrderTerm
	Limit   int
	Offset  int
}

// Equals represents a column-equals-literal predicate.
//
// Example:
//
//	Equals{Column: Col("page", "page_namespace"), Value: Int(6)}
//
// Translates to SQL:
//
//	page.page_namespace = ?
type Equals struct {
	Column Column
	Value  Value
}

func (Equals) predicateNode() {}

// ColumnEquals compares two columns, typically in a join condition.
type ColumnEquals struct {
	Left  Column
	Right Column
}

func (ColumnEquals) predicateNode() {}

// IsNull matches rows where the column is NULL.
type IsNull struct {
	Column Column
}

func (IsNull) predicateNode() {}

// IsNotNull matches rows where the column is not NULL.
type IsNotNull struct {
	Column Column
}

func (IsNotNull) predicateNode() {}

// NotLike matches rows whose column does not match a LIKE pattern.
// Pattern is bound as a parameter; '%' and '_' keep their LIKE meaning.
type NotLike struct {
	Column  Column
	Pattern string
}

func (NotLike) predicateNode() {}

// AtLeast represents column >= literal.
type AtLeast struct {
	Column Column
	Value  Value
}

func (AtLeast) predicateNode() {}

// Or is true if any of its predicates is true. Must not be empty.
type Or struct {
	Predicates []Predicate
}

func (Or) predicateNode() {}
