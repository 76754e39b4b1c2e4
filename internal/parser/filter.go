// Package parser implements the hand-written recursive-descent grammar
// productions for OData V4 query options and filter expressions (spec §4.1).
// Each production has the shape func(*lexer.Source, int) (*token.Token, int,
// error): it either returns a Token with its ending index, or a *oerr.ParseError.
package parser

import (
	"strings"

	"github.com/odatasql/odatasql/internal/lexer"
	"github.com/odatasql/odatasql/internal/oerr"
	"github.com/odatasql/odatasql/internal/token"
)

const maxRecursionDepth = 1000

// FilterParser threads a recursion-depth guard through the grammar so a
// pathologically nested expression fails with a ParseError instead of
// exhausting the native call stack (spec §5).
type FilterParser struct {
	depth int
}

// NewFilterParser builds a FilterParser ready to parse one filter string.
func NewFilterParser() *FilterParser { return &FilterParser{} }

func (p *FilterParser) enter(pos int) error {
	p.depth++
	if p.depth > maxRecursionDepth {
		return oerr.At(oerr.KindRecursionTooDeep, pos, "expression nested too deeply")
	}
	return nil
}

func (p *FilterParser) leave() { p.depth-- }

// Parse parses a complete boolCommonExpr filter string, failing if any
// trailing characters remain unconsumed.
func (p *FilterParser) Parse(s *lexer.Source, i int) (*token.Token, error) {
	i = lexer.SkipWhitespace(s, i)
	tok, next, err := p.parseOr(s, i)
	if err != nil {
		return nil, err
	}
	next = lexer.SkipWhitespace(s, next)
	if !s.EOF(next) {
		return nil, oerr.At(oerr.KindSyntaxError, next, "unexpected trailing input in $filter")
	}
	return tok, nil
}

func binary(kind token.Kind, left, right *token.Token, start, next int) *token.Token {
	return token.New(kind, left.Raw+" "+right.Raw, [2]*token.Token{left, right}, token.Position{Start: start, Next: next})
}

func (p *FilterParser) parseOr(s *lexer.Source, i int) (*token.Token, int, error) {
	if err := p.enter(i); err != nil {
		return nil, i, err
	}
	defer p.leave()

	left, next, err := p.parseAnd(s, i)
	if err != nil {
		return nil, i, err
	}
	for {
		n := lexer.SkipWhitespace(s, next)
		if kwNext, ok := lexer.Keyword(s, n, "or"); ok {
			kwNext = lexer.SkipWhitespace(s, kwNext)
			right, n2, err := p.parseAnd(s, kwNext)
			if err != nil {
				return nil, i, err
			}
			left = binary(token.KindOrExpression, left, right, i, n2)
			next = n2
			continue
		}
		break
	}
	return left, next, nil
}

func (p *FilterParser) parseAnd(s *lexer.Source, i int) (*token.Token, int, error) {
	if err := p.enter(i); err != nil {
		return nil, i, err
	}
	defer p.leave()

	left, next, err := p.parseNot(s, i)
	if err != nil {
		return nil, i, err
	}
	for {
		n := lexer.SkipWhitespace(s, next)
		if kwNext, ok := lexer.Keyword(s, n, "and"); ok {
			kwNext = lexer.SkipWhitespace(s, kwNext)
			right, n2, err := p.parseNot(s, kwNext)
			if err != nil {
				return nil, i, err
			}
			left = binary(token.KindAndExpression, left, right, i, n2)
			next = n2
			continue
		}
		break
	}
	return left, next, nil
}

func (p *FilterParser) parseNot(s *lexer.Source, i int) (*token.Token, int, error) {
	if err := p.enter(i); err != nil {
		return nil, i, err
	}
	defer p.leave()

	if next, ok := lexer.Keyword(s, i, "not"); ok {
		next = lexer.SkipWhitespace(s, next)
		inner, n2, err := p.parseNot(s, next)
		if err != nil {
			return nil, i, err
		}
		return token.New(token.KindNotExpression, "not "+inner.Raw, inner, token.Position{Start: i, Next: n2}), n2, nil
	}
	return p.parseComparison(s, i)
}

var comparisonOps = []struct {
	kw   string
	kind token.Kind
}{
	{"eq", token.KindEqualsExpression},
	{"ne", token.KindNotEqualsExpression},
	{"ge", token.KindGreaterOrEqualsExpression},
	{"gt", token.KindGreaterThanExpression},
	{"le", token.KindLesserOrEqualsExpression},
	{"lt", token.KindLesserThanExpression},
}

func (p *FilterParser) parseComparison(s *lexer.Source, i int) (*token.Token, int, error) {
	left, next, err := p.parseIn(s, i)
	if err != nil {
		return nil, i, err
	}
	n := lexer.SkipWhitespace(s, next)
	for _, op := range comparisonOps {
		if kwNext, ok := lexer.Keyword(s, n, op.kw); ok {
			kwNext = lexer.SkipWhitespace(s, kwNext)
			right, n2, err := p.parseIn(s, kwNext)
			if err != nil {
				return nil, i, err
			}
			return binary(op.kind, left, right, i, n2), n2, nil
		}
	}
	return left, next, nil
}

func (p *FilterParser) parseIn(s *lexer.Source, i int) (*token.Token, int, error) {
	left, next, err := p.parseAdditive(s, i)
	if err != nil {
		return nil, i, err
	}
	n := lexer.SkipWhitespace(s, next)
	if kwNext, ok := lexer.Keyword(s, n, "in"); ok {
		kwNext = lexer.SkipWhitespace(s, kwNext)
		list, n2, err := p.parseLiteralList(s, kwNext)
		if err != nil {
			return nil, i, err
		}
		return token.New(token.KindInExpression, s.Slice(i, n2), struct {
			Left *token.Token
			List []*token.Token
		}{left, list}, token.Position{Start: i, Next: n2}), n2, nil
	}
	return left, next, nil
}

func (p *FilterParser) parseLiteralList(s *lexer.Source, i int) ([]*token.Token, int, error) {
	if next, ok := lexer.Literal(s, i, "("); !ok {
		return nil, i, oerr.At(oerr.KindSyntaxError, i, "expected ( to start an in-list")
	} else {
		i = next
	}
	var items []*token.Token
	i = lexer.SkipWhitespace(s, i)
	for {
		lit, next, err := ParsePrimitiveLiteral(s, i)
		if err != nil {
			return nil, i, err
		}
		items = append(items, lit)
		i = lexer.SkipWhitespace(s, next)
		if n, ok := lexer.Literal(s, i, ","); ok {
			i = lexer.SkipWhitespace(s, n)
			continue
		}
		break
	}
	if next, ok := lexer.Literal(s, i, ")"); !ok {
		return nil, i, oerr.At(oerr.KindSyntaxError, i, "expected ) to close an in-list")
	} else {
		i = next
	}
	return items, i, nil
}

func (p *FilterParser) parseAdditive(s *lexer.Source, i int) (*token.Token, int, error) {
	left, next, err := p.parseMultiplicative(s, i)
	if err != nil {
		return nil, i, err
	}
	for {
		n := lexer.SkipWhitespace(s, next)
		if kwNext, ok := lexer.Keyword(s, n, "add"); ok {
			kwNext = lexer.SkipWhitespace(s, kwNext)
			right, n2, err := p.parseMultiplicative(s, kwNext)
			if err != nil {
				return nil, i, err
			}
			left = binary(token.KindAddExpression, left, right, i, n2)
			next = n2
			continue
		}
		if kwNext, ok := lexer.Keyword(s, n, "sub"); ok {
			kwNext = lexer.SkipWhitespace(s, kwNext)
			right, n2, err := p.parseMultiplicative(s, kwNext)
			if err != nil {
				return nil, i, err
			}
			left = binary(token.KindSubExpression, left, right, i, n2)
			next = n2
			continue
		}
		break
	}
	return left, next, nil
}

func (p *FilterParser) parseMultiplicative(s *lexer.Source, i int) (*token.Token, int, error) {
	left, next, err := p.parseHas(s, i)
	if err != nil {
		return nil, i, err
	}
	ops := []struct {
		kw   string
		kind token.Kind
	}{
		{"mul", token.KindMulExpression},
		{"div", token.KindDivExpression},
		{"mod", token.KindModExpression},
	}
	for {
		n := lexer.SkipWhitespace(s, next)
		matched := false
		for _, op := range ops {
			if kwNext, ok := lexer.Keyword(s, n, op.kw); ok {
				kwNext = lexer.SkipWhitespace(s, kwNext)
				right, n2, err := p.parseHas(s, kwNext)
				if err != nil {
					return nil, i, err
				}
				left = binary(op.kind, left, right, i, n2)
				next = n2
				matched = true
				break
			}
		}
		if !matched {
			break
		}
	}
	return left, next, nil
}

func (p *FilterParser) parseHas(s *lexer.Source, i int) (*token.Token, int, error) {
	left, next, err := p.parseUnary(s, i)
	if err != nil {
		return nil, i, err
	}
	n := lexer.SkipWhitespace(s, next)
	if kwNext, ok := lexer.Keyword(s, n, "has"); ok {
		kwNext = lexer.SkipWhitespace(s, kwNext)
		right, n2, err := p.parseUnary(s, kwNext)
		if err != nil {
			return nil, i, err
		}
		return binary(token.KindHasExpression, left, right, i, n2), n2, nil
	}
	return left, next, nil
}

func (p *FilterParser) parseUnary(s *lexer.Source, i int) (*token.Token, int, error) {
	if err := p.enter(i); err != nil {
		return nil, i, err
	}
	defer p.leave()

	if next, ok := lexer.Literal(s, i, "-"); ok {
		inner, n2, err := p.parseUnary(s, next)
		if err != nil {
			return nil, i, err
		}
		return token.New(token.KindNegateExpression, "-"+inner.Raw, inner, token.Position{Start: i, Next: n2}), n2, nil
	}
	return p.parsePrimary(s, i)
}

func (p *FilterParser) parsePrimary(s *lexer.Source, i int) (*token.Token, int, error) {
	if err := p.enter(i); err != nil {
		return nil, i, err
	}
	defer p.leave()

	i = lexer.SkipWhitespace(s, i)

	if next, ok := lexer.Literal(s, i, "("); ok {
		next = lexer.SkipWhitespace(s, next)
		inner, n2, err := p.parseOr(s, next)
		if err != nil {
			return nil, i, err
		}
		n2 = lexer.SkipWhitespace(s, n2)
		closeNext, ok := lexer.Literal(s, n2, ")")
		if !ok {
			return nil, i, oerr.At(oerr.KindSyntaxError, n2, "expected ) to close a grouped expression")
		}
		return token.New(token.KindBoolParenExpression, s.Slice(i, closeNext), inner, token.Position{Start: i, Next: closeNext}), closeNext, nil
	}

	if name, methodEnd, ok := tryMethodName(s, i); ok {
		if next, ok := lexer.Literal(s, methodEnd, "("); ok {
			return p.parseMethodCallArgs(s, i, name, next)
		}
	}

	if s.At(i) == '\'' || s.At(i) == '-' || isLiteralStart(s, i) {
		lit, next, err := ParsePrimitiveLiteral(s, i)
		if err == nil {
			return lit, next, nil
		}
	}

	path, next, err := PropertyPath(s, i)
	if err != nil {
		return nil, i, err
	}
	if n, ok := lexer.Literal(s, next, "/"); ok {
		if lambdaTok, n2, matched, lerr := p.tryLambda(s, path, n); matched {
			if lerr != nil {
				return nil, i, lerr
			}
			return lambdaTok, n2, nil
		}
	}
	return path, next, nil
}

func isLiteralStart(s *lexer.Source, i int) bool {
	r := s.At(i)
	if r >= '0' && r <= '9' {
		return true
	}
	if (r == 'P' || r == 'p') && isDigitOrT(s.At(i + 1)) {
		return true
	}
	for _, kw := range []string{"null", "true", "false", "geography"} {
		if _, ok := lexer.Keyword(s, i, kw); ok {
			return true
		}
	}
	return false
}

func isDigitOrT(r rune) bool {
	return (r >= '0' && r <= '9') || r == 'T' || r == 't'
}

// tryMethodName scans a method name: an identifier, optionally extended by
// ".identifier" for the geo.* namespace (spec §4.3).
func tryMethodName(s *lexer.Source, i int) (string, int, bool) {
	name, next, ok := lexer.Identifier(s, i)
	if !ok {
		return "", i, false
	}
	if n, ok := lexer.Literal(s, next, "."); ok {
		if name2, next2, ok := lexer.Identifier(s, n); ok {
			return name + "." + name2, next2, true
		}
	}
	return name, next, true
}

func (p *FilterParser) parseMethodCallArgs(s *lexer.Source, start int, name string, i int) (*token.Token, int, error) {
	if err := p.enter(start); err != nil {
		return nil, start, err
	}
	defer p.leave()

	var args []*token.Token
	i = lexer.SkipWhitespace(s, i)
	if n, ok := lexer.Literal(s, i, ")"); ok {
		return token.New(token.KindMethodCallExpression, s.Slice(start, n), struct {
			Name string
			Args []*token.Token
		}{name, args}, token.Position{Start: start, Next: n}), n, nil
	}
	for {
		if strings.EqualFold(name, "any") || strings.EqualFold(name, "all") {
			arg, next, err := p.parseLambdaArg(s, i)
			if err != nil {
				return nil, start, err
			}
			args = append(args, arg)
			i = next
		} else {
			arg, next, err := p.parseOr(s, i)
			if err != nil {
				return nil, start, err
			}
			args = append(args, arg)
			i = next
		}
		i = lexer.SkipWhitespace(s, i)
		if n, ok := lexer.Literal(s, i, ","); ok {
			i = lexer.SkipWhitespace(s, n)
			continue
		}
		break
	}
	next, ok := lexer.Literal(s, i, ")")
	if !ok {
		return nil, start, oerr.Atf(oerr.KindSyntaxError, i, "expected ) to close method call %q", name)
	}
	return token.New(token.KindMethodCallExpression, s.Slice(start, next), struct {
		Name string
		Args []*token.Token
	}{name, args}, token.Position{Start: start, Next: next}), next, nil
}

func (p *FilterParser) parseLambdaArg(s *lexer.Source, i int) (*token.Token, int, error) {
	variable, next, ok := lexer.Identifier(s, i)
	if !ok {
		return nil, i, oerr.At(oerr.KindSyntaxError, i, "expected lambda variable")
	}
	next = lexer.SkipWhitespace(s, next)
	n, ok := lexer.Literal(s, next, ":")
	if !ok {
		return nil, i, oerr.At(oerr.KindSyntaxError, next, "expected : after lambda variable")
	}
	n = lexer.SkipWhitespace(s, n)
	predicate, n2, err := p.parseOr(s, n)
	if err != nil {
		return nil, i, err
	}
	return token.New(token.KindLambdaPredicateExpression, s.Slice(i, n2), struct {
		Variable  string
		Predicate *token.Token
	}{variable, predicate}, token.Position{Start: i, Next: n2}), n2, nil
}

// tryLambda attempts to parse "any(" or "all(" immediately following a
// collection-valued property path, at index i (just past the "/").
func (p *FilterParser) tryLambda(s *lexer.Source, source *token.Token, i int) (*token.Token, int, bool, error) {
	var kind token.Kind
	var kw string
	if next, ok := lexer.Keyword(s, i, "any"); ok {
		kind, kw = token.KindAnyExpression, "any"
		i = next
	} else if next, ok := lexer.Keyword(s, i, "all"); ok {
		kind, kw = token.KindAllExpression, "all"
		i = next
	} else {
		return nil, i, false, nil
	}
	next, ok := lexer.Literal(s, i, "(")
	if !ok {
		return nil, i, true, oerr.At(oerr.KindSyntaxError, i, "expected ( after any/all")
	}
	inner, n2, err := p.parseMethodCallArgs(s, source.Position.Start, kw, next)
	if err != nil {
		return nil, i, true, err
	}
	call := inner.Value.(struct {
		Name string
		Args []*token.Token
	})
	var pred *token.Token
	var variable string
	if len(call.Args) == 1 {
		lp := call.Args[0].Value.(struct {
			Variable  string
			Predicate *token.Token
		})
		variable = lp.Variable
		pred = lp.Predicate
	}
	return token.New(kind, source.Raw+"/"+kw+inner.Raw, struct {
		Source    *token.Token
		Variable  string
		Predicate *token.Token
	}{source, variable, pred}, token.Position{Start: source.Position.Start, Next: n2}), n2, true, nil
}
