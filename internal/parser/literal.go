package parser

import (
	"math"
	"strconv"
	"strings"

	"github.com/odatasql/odatasql/internal/lexer"
	"github.com/odatasql/odatasql/internal/oerr"
	"github.com/odatasql/odatasql/internal/token"
)

// ParsePrimitiveLiteral recognizes one EDM primitive literal at i (spec §4.1
// literal grammar) and returns a KindLiteral token.
func ParsePrimitiveLiteral(s *lexer.Source, i int) (*token.Token, int, error) {
	start := i

	if next, ok := lexer.Keyword(s, i, "null"); ok {
		return token.New(token.KindLiteral, s.Slice(start, next), &token.Literal{EdmType: token.EdmNull, Value: nil}, token.Position{Start: start, Next: next}), next, nil
	}
	if next, ok := lexer.Keyword(s, i, "true"); ok {
		return token.New(token.KindLiteral, s.Slice(start, next), &token.Literal{EdmType: token.EdmBoolean, Value: true}, token.Position{Start: start, Next: next}), next, nil
	}
	if next, ok := lexer.Keyword(s, i, "false"); ok {
		return token.New(token.KindLiteral, s.Slice(start, next), &token.Literal{EdmType: token.EdmBoolean, Value: false}, token.Position{Start: start, Next: next}), next, nil
	}
	if value, raw, next, ok := lexer.StringLiteral(s, i); ok {
		return token.New(token.KindLiteral, raw, &token.Literal{EdmType: token.EdmString, Value: value}, token.Position{Start: start, Next: next}), next, nil
	}
	if lit, raw, next, err := lexer.GeographyLiteral(s, i); err != nil {
		return nil, start, err
	} else if lit != nil {
		return token.New(token.KindLiteral, raw, lit, token.Position{Start: start, Next: next}), next, nil
	}
	if raw, next, ok := tryDateTimeOffset(s, i); ok {
		t, err := lexer.ParseDateTimeOffset(raw)
		if err != nil {
			return nil, start, err
		}
		return token.New(token.KindLiteral, raw, &token.Literal{EdmType: token.EdmDateTimeOffset, Value: t}, token.Position{Start: start, Next: next}), next, nil
	}
	if raw, next, ok := tryDate(s, i); ok {
		t, err := lexer.ParseDate(raw)
		if err != nil {
			return nil, start, err
		}
		return token.New(token.KindLiteral, raw, &token.Literal{EdmType: token.EdmDate, Value: t}, token.Position{Start: start, Next: next}), next, nil
	}
	if raw, next, ok := tryGuid(s, i); ok {
		g, err := lexer.ParseGuid(raw)
		if err != nil {
			return nil, start, err
		}
		return token.New(token.KindLiteral, raw, &token.Literal{EdmType: token.EdmGuid, Value: g}, token.Position{Start: start, Next: next}), next, nil
	}
	if raw, next, ok := lexer.TimeOfDay(s, i); ok && isTimeOfDayBoundary(s, next) {
		d, err := lexer.ParseTimeOfDay(raw)
		if err != nil {
			return nil, start, err
		}
		return token.New(token.KindLiteral, raw, &token.Literal{EdmType: token.EdmTimeOfDay, Value: d}, token.Position{Start: start, Next: next}), next, nil
	}
	if raw, next, ok := lexer.Duration(s, i); ok {
		d, err := lexer.ParseDuration(raw)
		if err != nil {
			return nil, start, err
		}
		return token.New(token.KindLiteral, raw, &token.Literal{EdmType: token.EdmDuration, Value: d}, token.Position{Start: start, Next: next}), next, nil
	}
	if raw, isFloat, next, ok := lexer.NumberLiteral(s, i); ok {
		suffix, nextAfterSuffix := scanNumericSuffix(s, next)
		lit, err := numericLiteral(raw, isFloat, suffix)
		if err != nil {
			return nil, start, err
		}
		return token.New(token.KindLiteral, s.Slice(start, nextAfterSuffix), lit, token.Position{Start: start, Next: nextAfterSuffix}), nextAfterSuffix, nil
	}

	return nil, start, oerr.At(oerr.KindSyntaxError, start, "expected a primitive literal")
}

// tryGuid attempts Guid only if it really is GUID-shaped (to disambiguate
// from a plain numeric/identifier at this position); the caller validates
// the matched text with lexer.ParseGuid.
func tryGuid(s *lexer.Source, i int) (string, int, bool) {
	raw, next, ok := lexer.Guid(s, i)
	if !ok {
		return "", i, false
	}
	return raw, next, true
}

func tryDate(s *lexer.Source, i int) (string, int, bool) {
	raw, next, ok := lexer.Date(s, i)
	if !ok {
		return "", i, false
	}
	// Disallow matching the date-part of a DateTimeOffset as a bare Date.
	if s.At(next) == 'T' || s.At(next) == 't' {
		return "", i, false
	}
	return raw, next, true
}

func tryDateTimeOffset(s *lexer.Source, i int) (string, int, bool) {
	return lexer.DateTimeOffset(s, i)
}

func isTimeOfDayBoundary(s *lexer.Source, next int) bool {
	r := s.At(next)
	return r != ':' && r != '.'
}

func scanNumericSuffix(s *lexer.Source, i int) (string, int) {
	r := s.At(i)
	switch r {
	case 'm', 'M', 'd', 'D', 'f', 'F', 'l', 'L':
		return string(r), i + 1
	}
	return "", i
}

func numericLiteral(raw string, isFloat bool, suffix string) (*token.Literal, error) {
	switch strings.ToLower(suffix) {
	case "m":
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, oerr.Newf(oerr.KindSyntaxError, "invalid decimal literal %q", raw)
		}
		return &token.Literal{EdmType: token.EdmDecimal, Value: v}, nil
	case "f":
		v, err := strconv.ParseFloat(raw, 32)
		if err != nil {
			return nil, oerr.Newf(oerr.KindSyntaxError, "invalid single literal %q", raw)
		}
		return &token.Literal{EdmType: token.EdmSingle, Value: float32(v)}, nil
	case "d":
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, oerr.Newf(oerr.KindSyntaxError, "invalid double literal %q", raw)
		}
		return &token.Literal{EdmType: token.EdmDouble, Value: v}, nil
	case "l":
		v, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, oerr.Newf(oerr.KindSyntaxError, "invalid int64 literal %q", raw)
		}
		return &token.Literal{EdmType: token.EdmInt64, Value: v}, nil
	}

	if isFloat {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, oerr.Newf(oerr.KindSyntaxError, "invalid numeric literal %q", raw)
		}
		return &token.Literal{EdmType: token.EdmDouble, Value: v}, nil
	}

	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, oerr.Newf(oerr.KindSyntaxError, "invalid integer literal %q", raw)
	}
	if v >= math.MinInt32 && v <= math.MaxInt32 {
		return &token.Literal{EdmType: token.EdmInt32, Value: int32(v)}, nil
	}
	return &token.Literal{EdmType: token.EdmInt64, Value: v}, nil
}
