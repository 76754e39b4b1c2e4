package parser

import (
	"strings"

	"github.com/odatasql/odatasql/internal/lexer"
	"github.com/odatasql/odatasql/internal/oerr"
	"github.com/odatasql/odatasql/internal/token"
)

// ResourcePath is the Value payload of a KindResourcePath token. It unifies
// every URL convention spec §4.1 lists as "table + optional key":
// /table('k'), /table(k), /table('a','b'), /table/k, /table:k,
// /table(12345..23456). Inside parentheses an unquoted identifier key is read
// as a string value; after "/" or ":" the key must be a primitive literal
// (a quoted string, number, GUID, date, ...), and an unquoted identifier
// there is rejected.
type ResourcePath struct {
	Table     string
	Keys      []*token.Token
	RangeFrom *token.Token
	RangeTo   *token.Token
}

// ParseResourcePath parses the resource-path segment of an OData URI (the
// part before "?"), e.g. "table('k')" or "table/k" (a leading "/" is
// tolerated and stripped).
func ParseResourcePath(s string) (*token.Token, error) {
	s = strings.TrimPrefix(s, "/")
	src := lexer.New(s)

	table, next, ok := lexer.Identifier(src, 0)
	if !ok {
		return nil, oerr.New(oerr.KindSyntaxError, "expected a table/entity-set name")
	}

	rp := &ResourcePath{Table: table}

	if src.EOF(next) {
		return token.New(token.KindResourcePath, s, rp, token.Position{Start: 0, Next: next}), nil
	}

	if n, ok := lexer.Literal(src, next, "("); ok {
		keys, rangeFrom, rangeTo, end, err := parseKeyPredicate(src, n)
		if err != nil {
			return nil, err
		}
		if end, ok := lexer.Literal(src, end, ")"); ok {
			if !src.EOF(end) {
				return nil, oerr.At(oerr.KindSyntaxError, end, "unexpected trailing input in resource path")
			}
			rp.Keys, rp.RangeFrom, rp.RangeTo = keys, rangeFrom, rangeTo
			return token.New(token.KindResourcePath, s, rp, token.Position{Start: 0, Next: end}), nil
		}
		return nil, oerr.At(oerr.KindSyntaxError, end, "expected ) to close key predicate")
	}

	if n, ok := lexer.Literal(src, next, "/"); ok {
		lit, end, err := ParsePrimitiveLiteral(src, n)
		if err != nil {
			return nil, err
		}
		if !src.EOF(end) {
			return nil, oerr.At(oerr.KindSyntaxError, end, "unexpected trailing input in resource path")
		}
		rp.Keys = []*token.Token{lit}
		return token.New(token.KindResourcePath, s, rp, token.Position{Start: 0, Next: end}), nil
	}

	if n, ok := lexer.Literal(src, next, ":"); ok {
		lit, end, err := ParsePrimitiveLiteral(src, n)
		if err != nil {
			return nil, err
		}
		if !src.EOF(end) {
			return nil, oerr.At(oerr.KindSyntaxError, end, "unexpected trailing input in resource path")
		}
		rp.Keys = []*token.Token{lit}
		return token.New(token.KindResourcePath, s, rp, token.Position{Start: 0, Next: end}), nil
	}

	return nil, oerr.At(oerr.KindSyntaxError, next, "unexpected character after table name")
}

// parseKeyPredicate parses the content of "table(...)": either a
// comma-separated list of "name=value"/bare-value key parts, or a range
// "from..to".
func parseKeyPredicate(s *lexer.Source, i int) (keys []*token.Token, rangeFrom, rangeTo *token.Token, next int, err error) {
	first, afterFirst, err := ParsePrimitiveLiteral(s, i)
	if err == nil {
		if n, ok := lexer.Literal(s, afterFirst, ".."); ok {
			to, afterTo, err := ParsePrimitiveLiteral(s, n)
			if err != nil {
				return nil, nil, nil, i, err
			}
			return nil, first, to, afterTo, nil
		}
	}

	i2 := i
	var items []*token.Token
	for {
		// Each key part may be "name=value" (named key) or a bare value.
		save := i2
		if id, n, ok := lexer.Identifier(s, i2); ok {
			if n2, ok := lexer.Literal(s, n, "="); ok {
				lit, n3, err := ParsePrimitiveLiteral(s, n2)
				if err != nil {
					return nil, nil, nil, i2, err
				}
				items = append(items, lit.WithMetadata(id))
				i2 = n3
			} else {
				i2 = save
				lit, n3, err := ParsePrimitiveLiteral(s, i2)
				if err != nil {
					// An unquoted identifier key is read as an Edm.String value.
					lit = token.New(token.KindLiteral, id, &token.Literal{EdmType: token.EdmString, Value: id}, token.Position{Start: i2, Next: n})
					n3 = n
				}
				items = append(items, lit)
				i2 = n3
			}
		} else {
			lit, n3, err := ParsePrimitiveLiteral(s, i2)
			if err != nil {
				return nil, nil, nil, i2, err
			}
			items = append(items, lit)
			i2 = n3
		}
		if n, ok := lexer.Literal(s, i2, ","); ok {
			i2 = n
			continue
		}
		break
	}
	return items, nil, nil, i2, nil
}
