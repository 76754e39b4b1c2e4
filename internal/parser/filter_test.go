package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/odatasql/odatasql/internal/lexer"
	"github.com/odatasql/odatasql/internal/token"
)

func parseFilter(t *testing.T, expr string) *token.Token {
	t.Helper()
	fp := NewFilterParser()
	tok, err := fp.Parse(lexer.New(expr), 0)
	assert.NoError(t, err)
	return tok
}

func TestParseComparison(t *testing.T) {
	tok := parseFilter(t, "Age gt 18")
	assert.Equal(t, token.KindGreaterThanExpression, tok.Type)
}

func TestParseLogicalPrecedence(t *testing.T) {
	// "and" must bind tighter than "or".
	tok := parseFilter(t, "A eq 1 or B eq 2 and C eq 3")
	assert.Equal(t, token.KindOrExpression, tok.Type)
	pair := tok.Value.([2]*token.Token)
	assert.Equal(t, token.KindAndExpression, pair[1].Type)
}

func TestParseMethodCall(t *testing.T) {
	tok := parseFilter(t, "contains(Name,'abc')")
	assert.Equal(t, token.KindMethodCallExpression, tok.Type)
	call := tok.Value.(struct {
		Name string
		Args []*token.Token
	})
	assert.Equal(t, "contains", call.Name)
	assert.Len(t, call.Args, 2)
}

func TestParseInExpression(t *testing.T) {
	tok := parseFilter(t, "Status in ('A','B','C')")
	assert.Equal(t, token.KindInExpression, tok.Type)
	payload := tok.Value.(struct {
		Left *token.Token
		List []*token.Token
	})
	assert.Len(t, payload.List, 3)
}

func TestParseRejectsReservedWordAsIdentifier(t *testing.T) {
	fp := NewFilterParser()
	_, err := fp.Parse(lexer.New("and eq 1"), 0)
	assert.Error(t, err)
}

func TestParseRejectsTrailingGarbage(t *testing.T) {
	fp := NewFilterParser()
	_, err := fp.Parse(lexer.New("A eq 1 )"), 0)
	assert.Error(t, err)
}

func TestParseDeeplyNestedParensIsBounded(t *testing.T) {
	expr := ""
	for i := 0; i < 1100; i++ {
		expr += "("
	}
	expr += "A eq 1"
	for i := 0; i < 1100; i++ {
		expr += ")"
	}
	fp := NewFilterParser()
	_, err := fp.Parse(lexer.New(expr), 0)
	assert.Error(t, err)
}

func TestParseLambdaAny(t *testing.T) {
	tok := parseFilter(t, "Items/any(d:d/Price gt 10)")
	assert.Equal(t, token.KindAnyExpression, tok.Type)
}
