package query

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseFilter parses a filter string per the grammar:
//
//	filter := term ( AND term )*
//	term    := field op literal | field inop list
//	field   := 'attribute.' NAME | 'attributes.' NAME | 'tag.' NAME | 'tags.' NAME
//	         | 'param.' NAME | 'params.' NAME | 'metric.' NAME | 'metrics.' NAME
//	         | NAME                              -- shorthand for attribute.NAME
//	op      := '=' | '!=' | '<' | '<=' | '>' | '>=' | LIKE | ILIKE
//	inop    := IN | 'NOT IN'
//	literal := '...' | numeric
//	list    := '(' literal (',' literal)* ')'
//
// Keywords are case-insensitive.
func ParseFilter(s string) (*Filter, error) {
	if strings.TrimSpace(s) == "" {
		return &Filter{}, nil
	}
	p, err := newParser(s)
	if err != nil {
		return nil, err
	}
	f := &Filter{}
	for {
		term, err := p.parseTerm()
		if err != nil {
			return nil, err
		}
		f.Terms = append(f.Terms, term)
		if p.isKeyword("AND") {
			if err := p.advance(); err != nil {
				return nil, err
			}
			continue
		}
		break
	}
	if p.cur.kind != tokEOF {
		return nil, fmt.Errorf("query: unexpected trailing input near %q", p.cur.text)
	}
	return f, nil
}

// ParseOrderBy parses a list of `<field> [ASC|DESC]` clauses.
func ParseOrderBy(clauses []string) ([]OrderClause, error) {
	out := make([]OrderClause, 0, len(clauses))
	for _, c := range clauses {
		p, err := newParser(c)
		if err != nil {
			return nil, err
		}
		field, err := p.parseField()
		if err != nil {
			return nil, err
		}
		desc := false
		if p.isKeyword("ASC") {
			if err := p.advance(); err != nil {
				return nil, err
			}
		} else if p.isKeyword("DESC") {
			desc = true
			if err := p.advance(); err != nil {
				return nil, err
			}
		}
		if p.cur.kind != tokEOF {
			return nil, fmt.Errorf("query: unexpected trailing input in order_by clause %q", c)
		}
		out = append(out, OrderClause{Field: field, Desc: desc})
	}
	return out, nil
}

type parser struct {
	lex *lexer
	cur token
}

func newParser(s string) (*parser, error) {
	p := &parser{lex: newLexer(s)}
	if err := p.advance(); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *parser) advance() error {
	tok, err := p.lex.next()
	if err != nil {
		return err
	}
	p.cur = tok
	return nil
}

func (p *parser) isKeyword(kw string) bool {
	return p.cur.kind == tokIdent && strings.EqualFold(p.cur.text, kw)
}

var fieldPrefixes = map[string]FieldKind{
	"attribute":  FieldAttribute,
	"attributes": FieldAttribute,
	"tag":        FieldTag,
	"tags":       FieldTag,
	"param":      FieldParam,
	"params":     FieldParam,
	"metric":     FieldMetric,
	"metrics":    FieldMetric,
}

func (p *parser) parseField() (Field, error) {
	if p.cur.kind != tokIdent && p.cur.kind != tokBacktickIdent {
		return Field{}, fmt.Errorf("query: expected a field name, got %q", p.cur.text)
	}
	name := p.cur.text
	kind, isPrefix := fieldPrefixes[strings.ToLower(name)]
	if isPrefix && p.cur.kind == tokIdent {
		if err := p.advance(); err != nil {
			return Field{}, err
		}
		if p.cur.kind != tokDot {
			// Bareword matching a prefix keyword but with no dot:
			// treat as a shorthand attribute name instead.
			return Field{Kind: FieldAttribute, Name: name}, nil
		}
		if err := p.advance(); err != nil {
			return Field{}, err
		}
		if p.cur.kind != tokIdent && p.cur.kind != tokBacktickIdent && p.cur.kind != tokString {
			return Field{}, fmt.Errorf("query: expected a key name after %q.", name)
		}
		key := p.cur.text
		if err := p.advance(); err != nil {
			return Field{}, err
		}
		return Field{Kind: kind, Name: key}, nil
	}
	if err := p.advance(); err != nil {
		return Field{}, err
	}
	return Field{Kind: FieldAttribute, Name: name}, nil
}

func (p *parser) parseOp() (Op, error) {
	switch {
	case p.cur.kind == tokOp:
		op := Op(p.cur.text)
		if err := p.advance(); err != nil {
			return "", err
		}
		return op, nil
	case p.isKeyword("LIKE"):
		if err := p.advance(); err != nil {
			return "", err
		}
		return OpLike, nil
	case p.isKeyword("ILIKE"):
		if err := p.advance(); err != nil {
			return "", err
		}
		return OpILike, nil
	default:
		return "", fmt.Errorf("query: expected a comparison operator, got %q", p.cur.text)
	}
}

func (p *parser) parseLiteral() (Literal, error) {
	switch p.cur.kind {
	case tokString:
		s := p.cur.text
		if err := p.advance(); err != nil {
			return Literal{}, err
		}
		return stringLiteral(s), nil
	case tokNumber:
		n, err := strconv.ParseFloat(p.cur.text, 64)
		if err != nil {
			return Literal{}, fmt.Errorf("query: invalid numeric literal %q", p.cur.text)
		}
		if err := p.advance(); err != nil {
			return Literal{}, err
		}
		return numberLiteral(n), nil
	default:
		return Literal{}, fmt.Errorf("query: expected a literal, got %q", p.cur.text)
	}
}

func (p *parser) parseTerm() (Term, error) {
	field, err := p.parseField()
	if err != nil {
		return nil, err
	}

	if p.isKeyword("IN") {
		if err := p.advance(); err != nil {
			return nil, err
		}
		lits, err := p.parseLiteralList()
		if err != nil {
			return nil, err
		}
		return SetMembership{Field: field, Literals: lits}, nil
	}
	if p.isKeyword("NOT") {
		if err := p.advance(); err != nil {
			return nil, err
		}
		if !p.isKeyword("IN") {
			return nil, fmt.Errorf("query: expected IN after NOT")
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
		lits, err := p.parseLiteralList()
		if err != nil {
			return nil, err
		}
		return SetMembership{Field: field, Negate: true, Literals: lits}, nil
	}

	op, err := p.parseOp()
	if err != nil {
		return nil, err
	}
	lit, err := p.parseLiteral()
	if err != nil {
		return nil, err
	}
	return Comparison{Field: field, Op: op, Literal: lit}, nil
}

func (p *parser) parseLiteralList() ([]Literal, error) {
	if p.cur.kind != tokLParen {
		return nil, fmt.Errorf("query: expected '(' to start a literal list")
	}
	if err := p.advance(); err != nil {
		return nil, err
	}
	var out []Literal
	for {
		lit, err := p.parseLiteral()
		if err != nil {
			return nil, err
		}
		out = append(out, lit)
		if p.cur.kind == tokComma {
			if err := p.advance(); err != nil {
				return nil, err
			}
			continue
		}
		break
	}
	if p.cur.kind != tokRParen {
		return nil, fmt.Errorf("query: expected ')' to close a literal list")
	}
	if err := p.advance(); err != nil {
		return nil, err
	}
	return out, nil
}
