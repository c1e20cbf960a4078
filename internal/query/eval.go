package query

import (
	"regexp"
	"strings"
)

// Value is a single comparable attribute/tag/param/metric value pulled
// off a Record. Exactly one of Str/Num is meaningful, per IsString.
type Value struct {
	IsString bool
	Str      string
	Num      float64
	// Present is false when the field does not exist on the record at
	// all (e.g. a tag/param/metric key the run never set, or a nil
	// legacy attribute). Absent values never match any comparison and
	// always sort last regardless of direction.
	Present bool
}

func StringValue(s string) Value { return Value{IsString: true, Str: s, Present: true} }
func NumberValue(n float64) Value { return Value{Num: n, Present: true} }
func Absent() Value               { return Value{} }

// Record is anything the query engine can filter and order: an
// Experiment or a Run, abstracted behind attribute/tag/param/metric
// lookups so the evaluator never touches the filesystem.
type Record interface {
	// Attribute returns the value of a canonical attribute name (after
	// alias normalization has already been applied by the caller).
	Attribute(name string) Value
	Tag(key string) Value
	Param(key string) Value
	Metric(key string) Value
}

func (f Field) valueFrom(r Record, normalize func(string) string) Value {
	switch f.Kind {
	case FieldAttribute:
		name := f.Name
		if normalize != nil {
			name = normalize(name)
		}
		return r.Attribute(name)
	case FieldTag:
		return r.Tag(f.Name)
	case FieldParam:
		return r.Param(f.Name)
	case FieldMetric:
		return r.Metric(f.Name)
	default:
		return Absent()
	}
}

// NormalizeFunc maps a raw attribute field name (as it appeared in the
// filter string, case preserved) to the entity's canonical attribute
// name. Callers supply one for runs and one for experiments.
type NormalizeFunc func(string) string

// FieldValue resolves f's value on r, applying normalize to attribute
// field names. It is exported so a caller building a Sort/Page layer on
// top of Matches can resolve order_by fields the same way filter terms
// are resolved.
func FieldValue(r Record, f Field, normalize NormalizeFunc) Value {
	return f.valueFrom(r, normalize)
}

// Matches reports whether r satisfies f, using normalize to canonicalize
// bare/attribute field names.
func (f *Filter) Matches(r Record, normalize NormalizeFunc) (bool, error) {
	for _, term := range f.Terms {
		ok, err := evalTerm(term, r, normalize)
		if err != nil {
			return false, err
		}
		if !ok {
			return false, nil
		}
	}
	return true, nil
}

func evalTerm(term Term, r Record, normalize NormalizeFunc) (bool, error) {
	switch t := term.(type) {
	case Comparison:
		return evalComparison(t, r, normalize)
	case SetMembership:
		return evalSetMembership(t, r, normalize)
	default:
		return false, errUnknownTerm
	}
}

var errUnknownTerm = termError("query: unknown term kind")

type termError string

func (e termError) Error() string { return string(e) }

func evalComparison(c Comparison, r Record, normalize NormalizeFunc) (bool, error) {
	v := c.Field.valueFrom(r, normalize)
	if !v.Present {
		return false, nil
	}

	switch c.Op {
	case OpEq, OpNotEq:
		eq := valueEqualsLiteral(v, c.Literal)
		if c.Op == OpEq {
			return eq, nil
		}
		return !eq, nil
	case OpLess, OpLessEq, OpGreater, OpGreaterEq:
		if v.IsString || c.Literal.IsString {
			return false, termError("query: numeric comparison applied to a string field")
		}
		return compareNumeric(v.Num, c.Op, c.Literal.Num), nil
	case OpLike, OpILike:
		if !v.IsString || !c.Literal.IsString {
			return false, termError("query: LIKE/ILIKE applies only to string fields")
		}
		return sqlLike(v.Str, c.Literal.Str, c.Op == OpILike), nil
	default:
		return false, termError("query: unsupported operator " + string(c.Op))
	}
}

func evalSetMembership(s SetMembership, r Record, normalize NormalizeFunc) (bool, error) {
	v := s.Field.valueFrom(r, normalize)
	if !v.Present {
		return false, nil
	}
	found := false
	for _, lit := range s.Literals {
		if valueEqualsLiteral(v, lit) {
			found = true
			break
		}
	}
	if s.Negate {
		return !found, nil
	}
	return found, nil
}

func valueEqualsLiteral(v Value, lit Literal) bool {
	if v.IsString != lit.IsString {
		return false
	}
	if v.IsString {
		return v.Str == lit.Str
	}
	return v.Num == lit.Num
}

func compareNumeric(a float64, op Op, b float64) bool {
	switch op {
	case OpLess:
		return a < b
	case OpLessEq:
		return a <= b
	case OpGreater:
		return a > b
	case OpGreaterEq:
		return a >= b
	default:
		return false
	}
}

// sqlLike implements SQL's % wildcard (no _ single-char wildcard support
// is required by the grammar). ci selects ILIKE (case-insensitive)
// behavior; LIKE itself is always case-sensitive.
func sqlLike(s, pattern string, ci bool) bool {
	re := likePattern(pattern, ci)
	return re.MatchString(s)
}

// likePattern translates a SQL LIKE pattern (only the '%' wildcard is
// part of the grammar) into an anchored regexp.
func likePattern(pattern string, ci bool) *regexp.Regexp {
	var b strings.Builder
	b.WriteString("^")
	if ci {
		b.WriteString("(?i)")
	}
	for _, r := range pattern {
		if r == '%' {
			b.WriteString(".*")
			continue
		}
		b.WriteString(regexp.QuoteMeta(string(r)))
	}
	b.WriteString("$")
	return regexp.MustCompile(b.String())
}
