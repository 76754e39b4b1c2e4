package parser

import (
	"strings"

	"github.com/odatasql/odatasql/internal/lexer"
	"github.com/odatasql/odatasql/internal/oerr"
	"github.com/odatasql/odatasql/internal/token"
)

var reservedWords = map[string]bool{
	"and": true, "or": true, "not": true, "eq": true, "ne": true,
	"gt": true, "ge": true, "lt": true, "le": true, "in": true, "has": true,
	"true": true, "false": true, "null": true, "add": true, "sub": true,
	"mul": true, "div": true, "mod": true, "any": true, "all": true,
	"cast": true, "isof": true,
}

// ODataIdentifier scans a single non-reserved identifier at i.
func ODataIdentifier(s *lexer.Source, i int) (*token.Token, int, error) {
	name, next, ok := lexer.Identifier(s, i)
	if !ok {
		return nil, i, oerr.At(oerr.KindSyntaxError, i, "expected an identifier")
	}
	if reservedWords[strings.ToLower(name)] {
		return nil, i, oerr.At(oerr.KindSyntaxError, i, "expected an identifier, found reserved word")
	}
	return token.New(token.KindODataIdentifier, name, name, token.Position{Start: i, Next: next}), next, nil
}

// PropertyPath scans ident ( "/" ident )* at i, producing a single
// ODataIdentifier when there is exactly one segment or a
// PropertyPathExpression carrying the ordered segment list otherwise.
func PropertyPath(s *lexer.Source, i int) (*token.Token, int, error) {
	start := i
	first, next, err := ODataIdentifier(s, i)
	if err != nil {
		return nil, i, err
	}
	segments := []string{first.Raw}
	for {
		if n, ok := lexer.Literal(s, next, "/"); ok {
			id, n2, err := ODataIdentifier(s, n)
			if err != nil {
				// Not an identifier segment (e.g. "any"/"all" of a lambda):
				// the path ends before this "/".
				break
			}
			segments = append(segments, id.Raw)
			next = n2
			continue
		}
		break
	}
	if len(segments) == 1 {
		return first, next, nil
	}
	return token.New(token.KindPropertyPathExpression, s.Slice(start, next), segments, token.Position{Start: start, Next: next}), next, nil
}
