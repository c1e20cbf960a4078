// Package query implements the filter/order-by language used by
// SearchExperiments and SearchRuns: a small grammar of attribute/tag/
// param/metric comparisons joined by AND, plus ordering and pagination
// over the matching entities.
package query

import "fmt"

// FieldKind identifies which part of an entity a Field refers to.
type FieldKind int

const (
	FieldAttribute FieldKind = iota
	FieldTag
	FieldParam
	FieldMetric
)

func (k FieldKind) String() string {
	switch k {
	case FieldAttribute:
		return "attribute"
	case FieldTag:
		return "tag"
	case FieldParam:
		return "param"
	case FieldMetric:
		return "metric"
	default:
		return "unknown"
	}
}

// Field is a reference to a single comparable value on an entity:
// either a named attribute, or a keyed tag/param/metric.
type Field struct {
	Kind FieldKind
	// Name is the attribute name (FieldAttribute) or the tag/param/
	// metric key (otherwise).
	Name string
}

// Op is a comparison or set-membership operator.
type Op string

const (
	OpEq      Op = "="
	OpNotEq   Op = "!="
	OpLess    Op = "<"
	OpLessEq  Op = "<="
	OpGreater Op = ">"
	OpGreaterEq Op = ">="
	OpLike    Op = "LIKE"
	OpILike   Op = "ILIKE"
	OpIn      Op = "IN"
	OpNotIn   Op = "NOT IN"
)

// Literal is a parsed filter-string literal: either a string or a
// float64.
type Literal struct {
	IsString bool
	Str      string
	Num      float64
}

func stringLiteral(s string) Literal { return Literal{IsString: true, Str: s} }
func numberLiteral(n float64) Literal { return Literal{Num: n} }

func (l Literal) String() string {
	if l.IsString {
		return fmt.Sprintf("%q", l.Str)
	}
	return fmt.Sprintf("%v", l.Num)
}

// Term is one clause of a filter string.
type Term interface {
	isTerm()
}

// Comparison is `field op literal`.
type Comparison struct {
	Field   Field
	Op      Op
	Literal Literal
}

func (Comparison) isTerm() {}

// SetMembership is `field IN (...)` or `field NOT IN (...)`.
type SetMembership struct {
	Field    Field
	Negate   bool
	Literals []Literal
}

func (SetMembership) isTerm() {}

// Filter is the parsed form of a filter string: a conjunction of terms.
// An empty Filter matches everything.
type Filter struct {
	Terms []Term
}

// OrderClause is one entry of an order_by list.
type OrderClause struct {
	Field Field
	Desc  bool
}
