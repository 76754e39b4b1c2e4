package parser

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/odatasql/odatasql/internal/lexer"
	"github.com/odatasql/odatasql/internal/oerr"
	"github.com/odatasql/odatasql/internal/token"
)

// QueryOptions is the Value payload of a KindQueryOptions token.
type QueryOptions struct {
	Filter     *token.Token
	Select     []*token.Token
	Expand     []*token.Token
	OrderBy    []*token.Token
	GroupBy    []*token.Token
	Top        *int
	Skip       *int
	Count      *bool
	Format     *string
	SkipToken  *string
	Search     *string
	ID         *string
}

// ExpandItem is the Value payload of a KindExpandItem token.
type ExpandItem struct {
	NavigationProperty string
	Options            *QueryOptions
}

// OrderByItem is the Value payload of a KindOrderByItem token.
type OrderByItem struct {
	Path       *token.Token
	Descending bool
}

var topLevelOptionNames = map[string]bool{
	"$filter": true, "$select": true, "$expand": true, "$orderby": true,
	"$groupby": true, "$top": true, "$skip": true, "$count": true,
	"$search": true, "$format": true, "$skiptoken": true, "$id": true,
}

var nestedOptionNames = map[string]bool{
	"$filter": true, "$select": true, "$expand": true, "$orderby": true,
	"$top": true, "$skip": true, "$count": true,
}

type rawOption struct {
	key, val string
}

// splitAmpersand splits a top-level query string into raw key=value pairs,
// URL-decoding each side.
func splitAmpersand(qs string) ([]rawOption, error) {
	qs = strings.TrimPrefix(qs, "?")
	if qs == "" {
		return nil, nil
	}
	parts := splitTopLevel(qs, '&')
	out := make([]rawOption, 0, len(parts))
	for _, part := range parts {
		if part == "" {
			continue
		}
		key, val, _ := strings.Cut(part, "=")
		dk, err := url.QueryUnescape(key)
		if err != nil {
			dk = key
		}
		dv, err := url.QueryUnescape(val)
		if err != nil {
			dv = val
		}
		out = append(out, rawOption{key: dk, val: dv})
	}
	return out, nil
}

// splitSemicolon splits a nested expand-options blob (the text inside
// "NavProp(...)" ) on ';' at paren/quote depth 0.
func splitSemicolon(s string) []rawOption {
	parts := splitTopLevel(s, ';')
	out := make([]rawOption, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		key, val, _ := strings.Cut(part, "=")
		out = append(out, rawOption{key: strings.TrimSpace(key), val: val})
	}
	return out
}

// splitTopLevel splits s on sep, ignoring separators that occur inside
// parentheses or single-quoted strings.
func splitTopLevel(s string, sep byte) []string {
	var out []string
	depth := 0
	inQuote := false
	last := 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '\'':
			inQuote = !inQuote
		case inQuote:
			// skip
		case c == '(':
			depth++
		case c == ')':
			if depth > 0 {
				depth--
			}
		case c == sep && depth == 0:
			out = append(out, s[last:i])
			last = i + 1
		}
	}
	out = append(out, s[last:])
	return out
}

// ParseQueryOptionString parses a full top-level OData query string (the
// part after "?", or without it) into a KindQueryOptions token.
func ParseQueryOptionString(qs string) (*token.Token, error) {
	opts, err := splitAmpersand(qs)
	if err != nil {
		return nil, err
	}
	return parseOptionsFromRaw(opts, false)
}

func parseOptionsFromRaw(opts []rawOption, nested bool) (*token.Token, error) {
	names := topLevelOptionNames
	if nested {
		names = nestedOptionNames
	}
	seen := map[string]bool{}
	qo := &QueryOptions{}

	for _, o := range opts {
		if !strings.HasPrefix(o.key, "$") {
			continue
		}
		lower := strings.ToLower(o.key)
		if !names[lower] {
			return nil, oerr.Newf(oerr.KindUnknownOption, "unknown query option %q", o.key)
		}
		if seen[lower] && lower != "$expand" {
			return nil, oerr.Newf(oerr.KindUnknownOption, "query option %q must not appear more than once", o.key)
		}
		seen[lower] = true

		switch lower {
		case "$filter":
			fp := NewFilterParser()
			tok, err := fp.Parse(lexer.New(o.val), 0)
			if err != nil {
				return nil, err
			}
			qo.Filter = token.New(token.KindFilter, o.val, tok, token.Position{})
		case "$select":
			items, err := parseSelect(o.val)
			if err != nil {
				return nil, err
			}
			qo.Select = items
		case "$expand":
			items, err := parseExpand(o.val)
			if err != nil {
				return nil, err
			}
			qo.Expand = items
		case "$orderby":
			items, err := parseOrderBy(o.val)
			if err != nil {
				return nil, err
			}
			qo.OrderBy = items
		case "$groupby":
			items, err := parseSelect(o.val)
			if err != nil {
				return nil, err
			}
			qo.GroupBy = items
		case "$top":
			n, err := parseNonNegativeInt(o.val, "$top")
			if err != nil {
				return nil, err
			}
			qo.Top = &n
		case "$skip":
			n, err := parseNonNegativeInt(o.val, "$skip")
			if err != nil {
				return nil, err
			}
			qo.Skip = &n
		case "$count":
			b, err := parseBool(o.val, "$count")
			if err != nil {
				return nil, err
			}
			qo.Count = &b
		case "$search":
			v := o.val
			qo.Search = &v
		case "$format":
			v := o.val
			qo.Format = &v
		case "$skiptoken":
			v := o.val
			qo.SkipToken = &v
		case "$id":
			v := o.val
			qo.ID = &v
		}
	}
	return token.New(token.KindQueryOptions, "", qo, token.Position{}), nil
}

func parseNonNegativeInt(s, name string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 0 {
		return 0, oerr.Newf(oerr.KindSyntaxError, "invalid %s: must be a non-negative integer", name)
	}
	return n, nil
}

func parseBool(s, name string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true":
		return true, nil
	case "false":
		return false, nil
	default:
		return false, oerr.Newf(oerr.KindSyntaxError, "invalid %s: must be 'true' or 'false'", name)
	}
}

func parseSelect(s string) ([]*token.Token, error) {
	var out []*token.Token
	for _, part := range splitTopLevel(s, ',') {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if part == "*" {
			out = append(out, token.New(token.KindSelectItem, "*", "*", token.Position{}))
			continue
		}
		src := lexer.New(part)
		path, next, err := PropertyPath(src, 0)
		if err != nil || next != src.Len() {
			return nil, oerr.Newf(oerr.KindSyntaxError, "invalid $select item %q", part)
		}
		out = append(out, token.New(token.KindSelectItem, part, path, token.Position{}))
	}
	return out, nil
}

func parseOrderBy(s string) ([]*token.Token, error) {
	var out []*token.Token
	for _, part := range splitTopLevel(s, ',') {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		fields := strings.Fields(part)
		if len(fields) == 0 || len(fields) > 2 {
			return nil, oerr.Newf(oerr.KindInvalidOrderBy, "invalid $orderby item %q", part)
		}
		src := lexer.New(fields[0])
		path, next, err := PropertyPath(src, 0)
		if err != nil || next != src.Len() {
			return nil, oerr.Newf(oerr.KindInvalidOrderBy, "invalid $orderby item %q", part)
		}
		desc := false
		if len(fields) == 2 {
			switch strings.ToLower(fields[1]) {
			case "desc":
				desc = true
			case "asc":
				desc = false
			default:
				return nil, oerr.Newf(oerr.KindInvalidOrderBy, "invalid $orderby direction in %q", part)
			}
		}
		out = append(out, token.New(token.KindOrderByItem, part, OrderByItem{Path: path, Descending: desc}, token.Position{}))
	}
	return out, nil
}

func parseExpand(s string) ([]*token.Token, error) {
	var out []*token.Token
	for _, part := range splitTopLevel(s, ',') {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		name := part
		var nested *QueryOptions
		if idx := strings.IndexByte(part, '('); idx >= 0 && strings.HasSuffix(part, ")") {
			name = part[:idx]
			body := part[idx+1 : len(part)-1]
			opts := splitSemicolon(body)
			tok, err := parseOptionsFromRaw(opts, true)
			if err != nil {
				return nil, err
			}
			nested = tok.Value.(*QueryOptions)
		}
		src := lexer.New(name)
		if _, next, ok := lexer.Identifier(src, 0); !ok || next != src.Len() {
			return nil, oerr.Newf(oerr.KindSyntaxError, "invalid $expand navigation property %q", name)
		}
		out = append(out, token.New(token.KindExpandItem, part, ExpandItem{NavigationProperty: name, Options: nested}, token.Position{}))
	}
	return out, nil
}
