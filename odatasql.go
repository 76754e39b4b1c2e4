// Package odatasql compiles OData V4 query options into parameterized SQL
// for a small set of relational and document-store dialects. It never
// executes a statement itself — callers take the rendered SQL text and
// parameter map and hand them to whatever driver they already use.
package odatasql

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"
	"golang.org/x/text/cases"

	"github.com/odatasql/odatasql/internal/lexer"
	"github.com/odatasql/odatasql/internal/limits"
	"github.com/odatasql/odatasql/internal/oerr"
	"github.com/odatasql/odatasql/internal/parser"
	"github.com/odatasql/odatasql/internal/render"
	"github.com/odatasql/odatasql/internal/token"
	"github.com/odatasql/odatasql/internal/visitor"
)

// Options configures one compile: the target SQL dialect, whether literals
// are bound as parameters or inlined as quoted SQL text, and the resource
// bounds enforced along the way.
type Options struct {
	Dialect       string
	UseParameters bool
	Limits        limits.Options
}

// DefaultOptions returns the ANSI dialect, parameterized literals, and the
// default limits envelope.
func DefaultOptions() Options {
	return Options{
		Dialect:       "ansi",
		UseParameters: true,
		Limits:        limits.DefaultOptions(),
	}
}

var dialectFold = cases.Fold()

func resolveDialect(name string) (visitor.Dialect, error) {
	switch dialectFold.String(name) {
	case "ansi", "":
		return visitor.ANSI{}, nil
	case "mssql", "sqlserver":
		return visitor.MsSql{}, nil
	case "mysql":
		return visitor.MySql{}, nil
	case "postgresql", "postgres":
		return visitor.PostgreSql{}, nil
	case "oracle":
		return visitor.Oracle{}, nil
	case "surrealdb", "surreal":
		return visitor.SurrealDB{}, nil
	default:
		return nil, oerr.Newf(oerr.KindUnknownOption, "unknown SQL dialect %q", name)
	}
}

// FilterResult is the output of CreateFilter: a standalone boolean SQL
// fragment with its own parameter map, suitable for splicing into a
// hand-written WHERE clause.
type FilterResult struct {
	Where      string
	Parameters map[string]any
	ParamOrder []string
}

// CreateFilter lowers a single $filter expression (without surrounding
// resource path or other query options) against table.
func CreateFilter(filterExpr, table string, opts Options) (*FilterResult, error) {
	dialect, err := resolveDialect(opts.Dialect)
	if err != nil {
		return nil, err
	}
	v := visitor.New(dialect, table, opts.Limits, opts.UseParameters)
	fp := parser.NewFilterParser()
	tok, err := fp.Parse(lexer.New(filterExpr), 0)
	if err != nil {
		return nil, err
	}
	where, err := v.VisitFilter(tok)
	if err != nil {
		return nil, err
	}
	return &FilterResult{Where: where, Parameters: v.Parameters, ParamOrder: v.ParamOrder}, nil
}

// RenderQuery lowers a query-option string (the part of a URL after "?",
// with or without the leading "?") against an already-identified table,
// producing the final entries/count statements.
func RenderQuery(table, queryOptionString string, opts Options) (*render.Result, error) {
	dialect, err := resolveDialect(opts.Dialect)
	if err != nil {
		return nil, err
	}
	v := visitor.New(dialect, table, opts.Limits, opts.UseParameters)
	qoTok, err := parser.ParseQueryOptionString(queryOptionString)
	if err != nil {
		return nil, err
	}
	if err := v.CompileOptions(qoTok.Value.(*parser.QueryOptions)); err != nil {
		return nil, err
	}
	return render.Compile(v), nil
}

// CreateQuery lowers a complete OData resource-path + query-option URI
// (e.g. "Orders('A1')?$filter=Total gt 100&$top=10") into entries/count
// statements, folding any key predicate from the resource path into WHERE.
func CreateQuery(uri string, opts Options) (*render.Result, error) {
	dialect, err := resolveDialect(opts.Dialect)
	if err != nil {
		return nil, err
	}

	resourcePart, queryPart, _ := strings.Cut(uri, "?")
	rpTok, err := parser.ParseResourcePath(resourcePart)
	if err != nil {
		return nil, err
	}
	rp := rpTok.Value.(*parser.ResourcePath)

	v := visitor.New(dialect, rp.Table, opts.Limits, opts.UseParameters)

	qo := &parser.QueryOptions{}
	if queryPart != "" {
		qoTok, err := parser.ParseQueryOptionString(queryPart)
		if err != nil {
			return nil, err
		}
		qo = qoTok.Value.(*parser.QueryOptions)
	}
	if err := v.CompileOptions(qo); err != nil {
		return nil, err
	}

	if len(rp.Keys) > 0 || (rp.RangeFrom != nil && rp.RangeTo != nil) {
		keyWhere, err := keyPredicate(v, rp)
		if err != nil {
			return nil, err
		}
		if v.Where != "" {
			v.Where = fmt.Sprintf("(%s) AND (%s)", keyWhere, v.Where)
		} else {
			v.Where = keyWhere
		}
	}

	return render.Compile(v), nil
}

// keyPredicate lowers a resource path's key segment(s) into a WHERE
// fragment. A key part carrying name=value metadata binds against that
// column name; a bare value binds against "id" (or "id1", "id2", ... for a
// composite bare-value key, since the grammar alone can't recover the real
// column name without CSDL metadata).
func keyPredicate(v *visitor.Visitor, rp *parser.ResourcePath) (string, error) {
	if rp.RangeFrom != nil && rp.RangeTo != nil {
		fromLit, ok := rp.RangeFrom.Value.(*token.Literal)
		if !ok {
			return "", oerr.New(oerr.KindSyntaxError, "range key bounds must be literals")
		}
		toLit, ok := rp.RangeTo.Value.(*token.Literal)
		if !ok {
			return "", oerr.New(oerr.KindSyntaxError, "range key bounds must be literals")
		}
		fromP, err := v.Dialect.Param(v, fromLit)
		if err != nil {
			return "", err
		}
		toP, err := v.Dialect.Param(v, toLit)
		if err != nil {
			return "", err
		}
		field := v.Dialect.FieldRef(v, []string{"id"})
		return fmt.Sprintf("%s BETWEEN %s AND %s", field, fromP, toP), nil
	}

	var parts []string
	for i, k := range rp.Keys {
		name := "id"
		if len(rp.Keys) > 1 {
			name = fmt.Sprintf("id%d", i+1)
		}
		if meta, ok := k.Metadata.(string); ok && meta != "" {
			name = meta
		}
		lit, ok := k.Value.(*token.Literal)
		if !ok {
			return "", oerr.New(oerr.KindSyntaxError, "key predicate values must be literals")
		}
		p, err := v.Dialect.Param(v, lit)
		if err != nil {
			return "", err
		}
		field := v.Dialect.FieldRef(v, []string{name})
		parts = append(parts, fmt.Sprintf("%s = %s", field, p))
	}
	return strings.Join(parts, " AND "), nil
}

// BatchItem is one request in a CompileBatch call.
type BatchItem struct {
	Table             string
	QueryOptionString string
}

// CompileBatch renders many independent queries concurrently. Each compile
// is a pure function over its own Visitor, so there is no shared mutable
// state between goroutines beyond the read-only Options value.
func CompileBatch(ctx context.Context, items []BatchItem, opts Options) ([]*render.Result, error) {
	results := make([]*render.Result, len(items))
	g, _ := errgroup.WithContext(ctx)
	for i, item := range items {
		i, item := i, item
		g.Go(func() error {
			r, err := RenderQuery(item.Table, item.QueryOptionString, opts)
			if err != nil {
				return err
			}
			results[i] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
