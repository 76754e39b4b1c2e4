// Package render composes the dialect SQL fragments a compiled Visitor tree
// produced into the two executable statements the public API returns: the
// page query and its matching count query (spec C7).
package render

import (
	"fmt"
	"strings"

	"github.com/odatasql/odatasql/internal/visitor"
)

// Result is one compiled resource: the root, or one $expand include.
// Includes are returned as independent statements (no join plan is
// synthesized) because navigation-property cardinality and join keys are
// not modeled without full CSDL metadata (a declared spec Non-goal).
type Result struct {
	EntriesQuery string
	CountQuery   string
	Parameters   map[string]any
	ParamOrder   []string
	Includes     map[string]*Result
}

// Compile walks a compiled Visitor tree (post visitor.CompileOptions) and
// renders final SQL text for the root and every $expand include.
func Compile(v *visitor.Visitor) *Result {
	r := &Result{
		EntriesQuery: entriesQuery(v),
		CountQuery:   countQuery(v),
		Parameters:   v.Parameters,
		ParamOrder:   v.ParamOrder,
	}
	if len(v.Includes) > 0 {
		r.Includes = make(map[string]*Result, len(v.Includes))
		for _, inc := range v.Includes {
			r.Includes[inc.NavigationProperty] = Compile(inc)
		}
	}
	return r
}

func selectList(v *visitor.Visitor) string {
	if v.Select == "" {
		return "*"
	}
	return v.Select
}

func whereClause(v *visitor.Visitor) string {
	if v.Where == "" {
		return ""
	}
	return " WHERE " + v.Where
}

func entriesQuery(v *visitor.Visitor) string {
	var b strings.Builder
	fmt.Fprintf(&b, "SELECT %s FROM %s", selectList(v), v.Dialect.TableRef(v.Table))
	b.WriteString(whereClause(v))
	if v.GroupBy != "" {
		b.WriteString(" GROUP BY ")
		b.WriteString(v.GroupBy)
	}
	hasOrderBy := v.OrderBy != ""
	if hasOrderBy {
		b.WriteString(" ORDER BY ")
		b.WriteString(v.OrderBy)
	}
	return applyPagination(v, b.String(), hasOrderBy)
}

func countQuery(v *visitor.Visitor) string {
	var b strings.Builder
	fmt.Fprintf(&b, "SELECT COUNT(*) FROM %s", v.Dialect.TableRef(v.Table))
	b.WriteString(whereClause(v))
	if v.GroupBy != "" {
		b.WriteString(" GROUP BY ")
		b.WriteString(v.GroupBy)
	}
	return b.String()
}

// applyPagination appends the dialect-appropriate $top/$skip clause. Each
// SQL dialect spells "give me rows N..M" differently; this is the one place
// that difference is still handled by a name switch rather than another
// Dialect method, since it only applies to the outermost statement.
func applyPagination(v *visitor.Visitor, query string, hasOrderBy bool) string {
	if v.Top == nil && v.Skip == nil {
		return query
	}
	skip := 0
	if v.Skip != nil {
		skip = *v.Skip
	}
	switch v.Dialect.Name() {
	case "mssql":
		if !hasOrderBy {
			query += " ORDER BY (SELECT NULL)"
		}
		query += fmt.Sprintf(" OFFSET %d ROWS", skip)
		if v.Top != nil {
			query += fmt.Sprintf(" FETCH NEXT %d ROWS ONLY", *v.Top)
		}
		return query
	case "oracle":
		query += fmt.Sprintf(" OFFSET %d ROWS", skip)
		if v.Top != nil {
			query += fmt.Sprintf(" FETCH NEXT %d ROWS ONLY", *v.Top)
		}
		return query
	case "surrealdb":
		if v.Top != nil {
			query += fmt.Sprintf(" LIMIT %d", *v.Top)
		}
		if skip > 0 {
			query += fmt.Sprintf(" START %d", skip)
		}
		return query
	default: // ansi, postgresql, mysql
		if v.Top != nil {
			query += fmt.Sprintf(" LIMIT %d", *v.Top)
		}
		if skip > 0 {
			query += fmt.Sprintf(" OFFSET %d", skip)
		}
		return query
	}
}
