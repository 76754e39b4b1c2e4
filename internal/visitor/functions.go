package visitor

import (
	"fmt"

	"github.com/odatasql/odatasql/internal/oerr"
	"github.com/odatasql/odatasql/internal/token"
)

// argn validates the arity of a whitelisted function call before a dialect
// formats it; OData's grammar doesn't encode per-function arity so every
// dialect would otherwise repeat this check.
func argn(name string, args []string, n int) error {
	if len(args) != n {
		return oerr.Newf(oerr.KindSyntaxError, "%s takes exactly %d argument(s), got %d", name, n, len(args))
	}
	return nil
}

func argRange(name string, args []string, min, max int) error {
	if len(args) < min || len(args) > max {
		return oerr.Newf(oerr.KindSyntaxError, "%s takes %d to %d arguments, got %d", name, min, max, len(args))
	}
	return nil
}

// substringArgs renders the OData substring(value, start[, length]) call
// into start/length expressions, shifting the zero-based start to the
// one-based indexing every SQL dialect here uses.
func substringArgs(args []string) (value, start string, length string, hasLength bool) {
	value = args[0]
	start = fmt.Sprintf("(%s) + 1", args[1])
	if len(args) == 3 {
		length = args[2]
		hasLength = true
	}
	return
}

// castEdmType reads the EDM type name out of the second argument to
// cast()/isof(), which the parser always resolves to a literal string.
func castEdmType(argToks []*token.Token) (string, error) {
	if len(argToks) < 2 {
		return "", oerr.New(oerr.KindSyntaxError, "cast/isof requires a type argument")
	}
	lit, ok := argToks[len(argToks)-1].Value.(*token.Literal)
	if !ok {
		return "", oerr.New(oerr.KindSyntaxError, "cast/isof type argument must be a literal EDM type name")
	}
	s, ok := lit.Value.(string)
	if !ok {
		return "", oerr.New(oerr.KindSyntaxError, "cast/isof type argument must be a string")
	}
	return s, nil
}
