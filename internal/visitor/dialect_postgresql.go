package visitor

import (
	"fmt"
	"strings"

	"github.com/odatasql/odatasql/internal/literal"
	"github.com/odatasql/odatasql/internal/oerr"
	"github.com/odatasql/odatasql/internal/token"
)

// PostgreSql reuses the ANSI lowering wholesale except for its positional
// "$1, $2, ..." parameter convention (PostgreSQL does not support named bind
// parameters) and CEIL in place of CEILING.
type PostgreSql struct{ ANSI }

func (PostgreSql) Name() string { return "postgresql" }

func (PostgreSql) Param(v *Visitor, lit *token.Literal) (string, error) {
	name, err := v.BindParameter(literal.Semantic(lit))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("$%d", v.Ordinal(name)), nil
}

func (d PostgreSql) InList(v *Visitor, left string, values []*token.Token) (string, error) {
	parts := make([]string, len(values))
	for i, val := range values {
		lit, ok := val.Value.(*token.Literal)
		if !ok {
			return "", oerr.New(oerr.KindSyntaxError, "in-list entries must be literals")
		}
		p, err := d.Param(v, lit)
		if err != nil {
			return "", err
		}
		parts[i] = p
	}
	return fmt.Sprintf("%s IN (%s)", left, strings.Join(parts, ", ")), nil
}

func (d PostgreSql) Func(v *Visitor, name string, argToks []*token.Token, args []string) (string, error) {
	if name == "ceiling" {
		if err := argn(name, args, 1); err != nil {
			return "", err
		}
		return fmt.Sprintf("CEIL(%s)", args[0]), nil
	}
	return d.ANSI.Func(v, name, argToks, args)
}
