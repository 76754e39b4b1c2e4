package render

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/odatasql/odatasql/internal/limits"
	"github.com/odatasql/odatasql/internal/parser"
	"github.com/odatasql/odatasql/internal/visitor"
)

func compile(t *testing.T, d visitor.Dialect, qs string) *Result {
	t.Helper()
	v := visitor.New(d, "Orders", limits.DefaultOptions(), true)
	tok, err := parser.ParseQueryOptionString(qs)
	assert.NoError(t, err)
	assert.NoError(t, v.CompileOptions(tok.Value.(*parser.QueryOptions)))
	return Compile(v)
}

func TestEntriesQueryIncludesWhereAndPagination(t *testing.T) {
	r := compile(t, visitor.ANSI{}, "$filter=Age gt 18&$top=10&$skip=20")
	assert.Contains(t, r.EntriesQuery, "WHERE")
	assert.Contains(t, r.EntriesQuery, "LIMIT 10")
	assert.Contains(t, r.EntriesQuery, "OFFSET 20")
	assert.NotContains(t, r.CountQuery, "LIMIT")
}

func TestMsSqlPaginationUsesOffsetFetch(t *testing.T) {
	r := compile(t, visitor.MsSql{}, "$top=5&$skip=10")
	assert.Contains(t, r.EntriesQuery, "OFFSET 10 ROWS")
	assert.Contains(t, r.EntriesQuery, "FETCH NEXT 5 ROWS ONLY")
	assert.Contains(t, r.EntriesQuery, "ORDER BY (SELECT NULL)")
}

func TestSurrealDBPaginationUsesLimitStart(t *testing.T) {
	r := compile(t, visitor.SurrealDB{}, "$top=5&$skip=10")
	assert.Contains(t, r.EntriesQuery, "LIMIT 5")
	assert.Contains(t, r.EntriesQuery, "START 10")
}

func TestExpandProducesIncludeResults(t *testing.T) {
	r := compile(t, visitor.ANSI{}, "$expand=Lines($filter=Qty gt 1)")
	assert.Contains(t, r.Includes, "Lines")
	assert.Contains(t, r.Includes["Lines"].EntriesQuery, "WHERE")
}

func TestCountQueryOmitsOrderByAndPagination(t *testing.T) {
	r := compile(t, visitor.ANSI{}, "$orderby=Name&$top=5")
	assert.NotContains(t, r.CountQuery, "ORDER BY")
	assert.NotContains(t, r.CountQuery, "LIMIT")
}
