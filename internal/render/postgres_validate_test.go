package render

import (
	"testing"

	pg_query "github.com/pganalyze/pg_query_go/v2"
	"github.com/stretchr/testify/assert"

	"github.com/odatasql/odatasql/internal/visitor"
)

// TestPostgreSqlOutputParsesAsValidSQL feeds the PostgreSql dialect's
// rendered output back through a real Postgres grammar, catching the class
// of bug no unit assertion on string shape would: a syntactically broken
// statement that happens to match every expected substring.
func TestPostgreSqlOutputParsesAsValidSQL(t *testing.T) {
	r := compile(t, visitor.PostgreSql{},
		"$filter=Total gt 100 and contains(Name,'widget')&$orderby=Total desc&$top=10&$skip=5")

	_, err := pg_query.Parse(r.EntriesQuery)
	assert.NoError(t, err, "entries query: %s", r.EntriesQuery)

	_, err = pg_query.Parse(r.CountQuery)
	assert.NoError(t, err, "count query: %s", r.CountQuery)
}

func TestPostgreSqlInListOutputParsesAsValidSQL(t *testing.T) {
	r := compile(t, visitor.PostgreSql{}, "$filter=Status in ('A','B','C')")

	_, err := pg_query.Parse(r.EntriesQuery)
	assert.NoError(t, err, "entries query: %s", r.EntriesQuery)
}
