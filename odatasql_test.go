package odatasql

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCreateFilterBindsLiteralsNotText(t *testing.T) {
	r, err := CreateFilter("Name eq 'Widget' and Price gt 10", "Products", DefaultOptions())
	assert.NoError(t, err)
	assert.NotContains(t, r.Where, "Widget")
	assert.Contains(t, r.Parameters, r.ParamOrder[0])
}

func TestCreateFilterUnknownDialect(t *testing.T) {
	opts := DefaultOptions()
	opts.Dialect = "dbase-iv"
	_, err := CreateFilter("Name eq 'x'", "Products", opts)
	assert.Error(t, err)
}

func TestRenderQueryProducesEntriesAndCount(t *testing.T) {
	r, err := RenderQuery("Orders", "$filter=Total gt 100&$top=10&$skip=5", DefaultOptions())
	assert.NoError(t, err)
	assert.Contains(t, r.EntriesQuery, "WHERE")
	assert.Contains(t, r.EntriesQuery, "LIMIT 10")
	assert.NotEmpty(t, r.CountQuery)
}

func TestCreateQueryFoldsBareKeyIntoWhere(t *testing.T) {
	r, err := CreateQuery("Orders('A1')", DefaultOptions())
	assert.NoError(t, err)
	assert.Contains(t, r.EntriesQuery, "WHERE")
	assert.Contains(t, r.Parameters, r.ParamOrder[0])
	assert.Equal(t, "A1", r.Parameters[r.ParamOrder[0]])
}

func TestCreateQueryFoldsNamedCompositeKeys(t *testing.T) {
	r, err := CreateQuery("Orders(OrderId=1,LineId=2)?$select=Total", DefaultOptions())
	assert.NoError(t, err)
	assert.Contains(t, r.EntriesQuery, "WHERE")
	assert.Len(t, r.ParamOrder, 2)
}

func TestCreateQueryCombinesKeyAndFilterWithAnd(t *testing.T) {
	r, err := CreateQuery("Orders('A1')?$filter=Total gt 100", DefaultOptions())
	assert.NoError(t, err)
	assert.Contains(t, r.EntriesQuery, "AND")
}

func TestCompileBatchRunsConcurrently(t *testing.T) {
	items := []BatchItem{
		{Table: "Orders", QueryOptionString: "$top=5"},
		{Table: "Customers", QueryOptionString: "$filter=Active eq true"},
	}
	results, err := CompileBatch(context.Background(), items, DefaultOptions())
	assert.NoError(t, err)
	assert.Len(t, results, 2)
	assert.Contains(t, results[0].EntriesQuery, "Orders")
	assert.Contains(t, results[1].EntriesQuery, "Customers")
}

func TestCompileBatchPropagatesError(t *testing.T) {
	items := []BatchItem{{Table: "Orders", QueryOptionString: "$filter=exec('x')"}}
	_, err := CompileBatch(context.Background(), items, DefaultOptions())
	assert.Error(t, err)
}
