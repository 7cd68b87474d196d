package compiler

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/roach88/dpl/internal/queryir"
	"github.com/roach88/dpl/internal/queryspec"
)

var (
	// ErrInvalidOrderMethod is returned when the sort method cannot be
	// expressed against the schema. It signals a defect upstream of the
	// compiler, since the builder only emits methods it can satisfy.
	ErrInvalidOrderMethod = errors.New("invalid order method")

	// ErrNoReviewTable is returned when a spec filters on review status and
	// the schema has no review table.
	ErrNoReviewTable = errors.New("schema has no review table")
)

const (
	// firstCategory is the alias of the first include category join.
	firstCategory = "c1"

	// reviewAlias is the join alias of the review-status table.
	reviewAlias = "rv"
)

// Compiler turns validated list specs into queryir selects.
// A Compiler holds only its schema and may be shared.
type Compiler struct {
	schema Schema
}

// New creates a compiler for the given schema.
func New(schema Schema) *Compiler {
	return &Compiler{schema: schema}
}

// Compile emits the select for spec. The result passes queryir.Validate;
// a failure there is returned as an internal error.
func (c *Compiler) Compile(spec queryspec.Spec) (queryir.Select, error) {
	b := &build{
		schema: c.schema,
		spec:   spec,
		q:      queryir.Select{From: c.schema.Page.Name},
	}

	b.addFields()
	b.addCategoryJoins()
	if err := b.addReviewJoin(); err != nil {
		return queryir.Select{}, err
	}
	b.addFilters()
	if err := b.addOrder(); err != nil {
		return queryir.Select{}, err
	}
	b.q.Limit = spec.Limit
	b.q.Offset = spec.Offset

	if err := queryir.Validate(b.q).Err(); err != nil {
		return queryir.Select{}, fmt.Errorf("compile list query: %w", err)
	}
	return b.q, nil
}

// build is the working state of one compilation.
type build struct {
	schema Schema
	spec   queryspec.Spec
	q      queryir.Select

	// aliases counts category joins emitted so far; the next join is
	// c{aliases+1}.
	aliases int
}

func (b *build) page(col string) queryir.Column {
	return queryir.Col(b.schema.Page.Name, col)
}

func (b *build) addFields() {
	p := b.schema.Page
	b.q.Fields = []queryir.Field{
		{Column: b.page(p.Namespace), As: FieldNamespace},
		{Column: b.page(p.Title), As: FieldTitle},
		{Column: b.page(p.ID), As: FieldID},
		{Column: b.page(p.Length), As: FieldLength},
		{Column: b.page(p.Touched), As: FieldTouched},
	}
	if b.spec.Date.Enabled && len(b.spec.IncludeCategories) > 0 {
		b.q.Fields = append(b.q.Fields, queryir.Field{
			Column: queryir.Col(firstCategory, b.schema.CategoryLinks.Timestamp),
			As:     FieldCategoryTimestamp,
		})
	}
}

// categoryJoin emits the next c{i} join on category key.
func (b *build) categoryJoin(kind queryir.JoinKind, category string) string {
	b.aliases++
	alias := "c" + strconv.Itoa(b.aliases)
	cl := b.schema.CategoryLinks
	b.q.Joins = append(b.q.Joins, queryir.Join{
		Kind:  kind,
		Table: cl.Name,
		Alias: alias,
		On: []queryir.Predicate{
			queryir.ColumnEquals{Left: b.page(b.schema.Page.ID), Right: queryir.Col(alias, cl.From)},
			queryir.Equals{Column: queryir.Col(alias, cl.To), Value: queryir.String(category)},
		},
	})
	return alias
}

// addCategoryJoins emits inner joins for include categories, then left
// joins with an IS NULL check for exclude categories. Numbering is shared,
// so exclude aliases continue after the last include alias.
func (b *build) addCategoryJoins() {
	for _, cat := range b.spec.IncludeCategories {
		b.categoryJoin(queryir.InnerJoin, cat)
	}
	for _, cat := range b.spec.ExcludeCategories {
		alias := b.categoryJoin(queryir.LeftJoin, cat)
		b.q.Where = append(b.q.Where, queryir.IsNull{
			Column: queryir.Col(alias, b.schema.CategoryLinks.To),
		})
	}
}

func (b *build) addReviewJoin() error {
	if !b.spec.ReviewFilter {
		return nil
	}
	rt := b.schema.Review
	if rt == nil {
		return ErrNoReviewTable
	}

	b.q.Joins = append(b.q.Joins, queryir.Join{
		Kind:  queryir.LeftJoin,
		Table: rt.Name,
		Alias: reviewAlias,
		On: []queryir.Predicate{
			queryir.ColumnEquals{Left: b.page(b.schema.Page.ID), Right: queryir.Col(reviewAlias, rt.PageID)},
		},
	})

	stable := queryir.Col(reviewAlias, rt.Stable)
	switch b.spec.Stable {
	case queryspec.PolicyOnly:
		b.q.Where = append(b.q.Where, queryir.IsNotNull{Column: stable})
	case queryspec.PolicyExclude:
		b.q.Where = append(b.q.Where, queryir.IsNull{Column: stable})
	}

	quality := queryir.Col(reviewAlias, rt.Quality)
	switch b.spec.Quality {
	case queryspec.PolicyOnly:
		b.q.Where = append(b.q.Where, queryir.AtLeast{Column: quality, Value: queryir.Int(1)})
	case queryspec.PolicyExclude:
		b.q.Where = append(b.q.Where, queryir.Or{Predicates: []queryir.Predicate{
			queryir.Equals{Column: quality, Value: queryir.Int(0)},
			queryir.IsNull{Column: quality},
		}})
	}
	return nil
}

func (b *build) addFilters() {
	p := b.schema.Page

	if b.spec.NamespaceFilter {
		b.q.Where = append(b.q.Where, queryir.Equals{
			Column: b.page(p.Namespace),
			Value:  queryir.Int(b.spec.Namespace),
		})
	}

	switch b.spec.Redirects {
	case queryspec.PolicyOnly:
		b.q.Where = append(b.q.Where, queryir.Equals{Column: b.page(p.IsRedirect), Value: queryir.Int(1)})
	case queryspec.PolicyExclude:
		b.q.Where = append(b.q.Where, queryir.Equals{Column: b.page(p.IsRedirect), Value: queryir.Int(0)})
	}

	if b.spec.IgnoreSubpages {
		b.q.Where = append(b.q.Where, queryir.NotLike{Column: b.page(p.Title), Pattern: "%/%"})
	}
}

func (b *build) addOrder() error {
	p := b.schema.Page
	cl := b.schema.CategoryLinks
	desc := b.spec.Order == queryspec.Descending
	m := b.spec.OrderMethod

	if m.NeedsCategoryJoin() && len(b.spec.IncludeCategories) == 0 {
		return fmt.Errorf("%w: %s needs an include category", ErrInvalidOrderMethod, m)
	}

	var cols []queryir.Column
	switch m {
	case queryspec.OrderLastEdit:
		cols = []queryir.Column{b.page(p.Touched)}
	case queryspec.OrderLength:
		cols = []queryir.Column{b.page(p.Length)}
	case queryspec.OrderCreated:
		cols = []queryir.Column{b.page(p.ID)}
	case queryspec.OrderCategorySortkey:
		cols = []queryir.Column{
			queryir.Col(firstCategory, cl.Type),
			queryir.Col(firstCategory, cl.SortKey),
		}
	case queryspec.OrderPopularity:
		if p.Counter == "" {
			return fmt.Errorf("%w: %s without a counter column", ErrInvalidOrderMethod, m)
		}
		cols = []queryir.Column{b.page(p.Counter)}
	case queryspec.OrderCategoryAdd:
		cols = []queryir.Column{queryir.Col(firstCategory, cl.Timestamp)}
	default:
		return fmt.Errorf("%w: %d", ErrInvalidOrderMethod, int(m))
	}

	// Page id breaks ties so equal sort keys come back in a stable order.
	if m != queryspec.OrderCreated {
		cols = append(cols, b.page(p.ID))
	}

	for _, col := range cols {
		b.q.OrderBy = append(b.q.OrderBy, queryir.OrderTerm{Column: col, Desc: desc})
	}
	return nil
}
