package visitor

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/odatasql/odatasql/internal/lexer"
	"github.com/odatasql/odatasql/internal/limits"
	"github.com/odatasql/odatasql/internal/parser"
)

func compileFilter(t *testing.T, d Dialect, expr string) (string, *Visitor) {
	t.Helper()
	v := New(d, "Orders", limits.DefaultOptions(), true)
	fp := parser.NewFilterParser()
	tok, err := fp.Parse(lexer.New(expr), 0)
	assert.NoError(t, err)
	where, err := v.VisitFilter(tok)
	assert.NoError(t, err)
	return where, v
}

// TestLiteralsNeverInlined is the central security property (I1/P1): no
// literal value from the filter text may appear as text in the rendered
// SQL — every one must flow through the parameter map instead.
func TestLiteralsNeverInlined(t *testing.T) {
	for _, d := range []Dialect{ANSI{}, MsSql{}, MySql{}, PostgreSql{}, Oracle{}, SurrealDB{}} {
		where, v := compileFilter(t, d, `Name eq 'DROP TABLE Orders'`)
		assert.NotContains(t, where, "DROP TABLE", d.Name())
		found := false
		for _, val := range v.Parameters {
			if val == "DROP TABLE Orders" {
				found = true
			}
		}
		assert.True(t, found, "dialect %s did not bind the literal", d.Name())
	}
}

func TestAnsiEqualsRewritesNullComparison(t *testing.T) {
	where, _ := compileFilter(t, ANSI{}, "Name eq null")
	assert.Contains(t, where, "IS NULL")
	assert.NotContains(t, where, "= $")
}

func TestSurrealDoesNotRewriteNullComparison(t *testing.T) {
	where, _ := compileFilter(t, SurrealDB{}, "Name eq null")
	assert.NotContains(t, where, "IS NULL")
	assert.Contains(t, where, "NONE")
}

func TestMySqlParamIsPositionalPlaceholder(t *testing.T) {
	where, v := compileFilter(t, MySql{}, "Age gt 18")
	assert.Equal(t, "`Age` > ?", where)
	assert.Len(t, v.Parameters, 1)
}

func TestPostgresUsesOrdinalPlaceholders(t *testing.T) {
	where, _ := compileFilter(t, PostgreSql{}, "Age gt 18 and Age lt 65")
	assert.Contains(t, where, "$1")
	assert.Contains(t, where, "$2")
}

func TestForbiddenFunctionRejected(t *testing.T) {
	v := New(ANSI{}, "Orders", limits.DefaultOptions(), true)
	fp := parser.NewFilterParser()
	tok, err := fp.Parse(lexer.New("exec('rm -rf /')"), 0)
	assert.NoError(t, err)
	_, err = v.VisitFilter(tok)
	assert.Error(t, err)
}

func TestSurrealInListBuildsRecordDisjunction(t *testing.T) {
	where, _ := compileFilter(t, SurrealDB{}, `Owner in ('person:tobie', 'Bob')`)
	assert.Contains(t, where, "type::record(")
	assert.True(t, strings.Contains(where, "OR"))
}

func TestCompileOptionsEnforcesExpandDepth(t *testing.T) {
	opts := limits.DefaultOptions()
	opts.MaxExpandDepth = 1
	v := New(ANSI{}, "Orders", opts, true)
	qoTok, err := parser.ParseQueryOptionString("$expand=A($expand=B($expand=C))")
	assert.NoError(t, err)
	err = v.CompileOptions(qoTok.Value.(*parser.QueryOptions))
	assert.Error(t, err)
}

func TestCompileOptionsSelectAndOrderBy(t *testing.T) {
	v := New(ANSI{}, "Orders", limits.DefaultOptions(), true)
	qoTok, err := parser.ParseQueryOptionString("$select=Id,Name&$orderby=Name desc")
	assert.NoError(t, err)
	assert.NoError(t, v.CompileOptions(qoTok.Value.(*parser.QueryOptions)))
	assert.Contains(t, v.Select, `"Id"`)
	assert.Contains(t, v.OrderBy, "DESC")
}
