package literal

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/odatasql/odatasql/internal/token"
)

func TestSemanticReturnsTypedValue(t *testing.T) {
	lit := &token.Literal{EdmType: token.EdmInt32, Value: int32(42)}
	assert.Equal(t, int32(42), Semantic(lit))
}

func TestSQLLiteralQuotesAndEscapesStrings(t *testing.T) {
	lit := &token.Literal{EdmType: token.EdmString, Value: "O'Brien"}
	assert.Equal(t, "'O''Brien'", SQLLiteral(lit))
}

func TestSQLLiteralNull(t *testing.T) {
	lit := &token.Literal{EdmType: token.EdmNull, Value: nil}
	assert.Equal(t, "NULL", SQLLiteral(lit))
}

func TestSQLLiteralBoolean(t *testing.T) {
	assert.Equal(t, "1", SQLLiteral(&token.Literal{EdmType: token.EdmBoolean, Value: true}))
	assert.Equal(t, "0", SQLLiteral(&token.Literal{EdmType: token.EdmBoolean, Value: false}))
}

func TestSQLLiteralGuid(t *testing.T) {
	id := uuid.New()
	lit := &token.Literal{EdmType: token.EdmGuid, Value: id}
	assert.Equal(t, "'"+id.String()+"'", SQLLiteral(lit))
}

func TestSQLLiteralDateTimeOffset(t *testing.T) {
	ts := time.Date(2023, 4, 5, 6, 7, 8, 0, time.UTC)
	lit := &token.Literal{EdmType: token.EdmDateTimeOffset, Value: ts}
	assert.Equal(t, "'"+ts.Format(time.RFC3339Nano)+"'", SQLLiteral(lit))
}

func TestSQLLiteralGeographyPoint(t *testing.T) {
	lit := &token.Literal{EdmType: token.EdmGeographyPoint, Value: [2]float64{-122.1, 47.6}}
	assert.Equal(t, "'Point(-122.1 47.6)'", SQLLiteral(lit))
}
