package lexer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStringLiteral(t *testing.T) {
	s := New(`'it''s here' rest`)
	value, raw, next, ok := StringLiteral(s, 0)
	assert.True(t, ok)
	assert.Equal(t, "it's here", value)
	assert.Equal(t, `'it''s here'`, raw)
	assert.Equal(t, " rest", s.Slice(next, s.Len()))
}

func TestStringLiteralUnterminated(t *testing.T) {
	_, _, _, ok := StringLiteral(New(`'unterminated`), 0)
	assert.False(t, ok)
}

func TestGuid(t *testing.T) {
	s := New("01234567-89ab-cdef-0123-456789abcdef")
	raw, next, ok := Guid(s, 0)
	assert.True(t, ok)
	assert.Equal(t, s.Len(), next)
	id, err := ParseGuid(raw)
	assert.NoError(t, err)
	assert.Equal(t, raw, id.String())
}

func TestGuidRejectsShortForm(t *testing.T) {
	_, _, ok := Guid(New("01234567-89ab-cdef"), 0)
	assert.False(t, ok)
}

func TestDate(t *testing.T) {
	raw, next, ok := Date(New("2023-04-05"), 0)
	assert.True(t, ok)
	assert.Equal(t, 10, next)
	parsed, err := ParseDate(raw)
	assert.NoError(t, err)
	assert.Equal(t, 2023, parsed.Year())
}

func TestDuration(t *testing.T) {
	s := New("P1DT2H3M4.5S")
	raw, next, ok := Duration(s, 0)
	assert.True(t, ok)
	assert.Equal(t, s.Len(), next)
	d, err := ParseDuration(raw)
	assert.NoError(t, err)
	assert.InDelta(t, float64((24+2)*3600+3*60)+4.5, d.Seconds(), 0.001)
}

func TestDurationRejectsMissingDesignator(t *testing.T) {
	_, _, ok := Duration(New("1DT2H"), 0)
	assert.False(t, ok)
}

func TestNumberLiteral(t *testing.T) {
	raw, isFloat, next, ok := NumberLiteral(New("-12.5e3rest"), 0)
	assert.True(t, ok)
	assert.True(t, isFloat)
	assert.Equal(t, "-12.5e3", raw)
	assert.Equal(t, len("-12.5e3"), next)
}

func TestNumberLiteralInteger(t *testing.T) {
	raw, isFloat, next, ok := NumberLiteral(New("42"), 0)
	assert.True(t, ok)
	assert.False(t, isFloat)
	assert.Equal(t, "42", raw)
	assert.Equal(t, 2, next)
}
