// Package literal implements the two literal-conversion families from
// spec §4.1/§4.2/C5: semantic (typed Go value, used for parameter binding)
// and SQL-literal (inline quoted text, used only when useParameters=false).
package literal

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/odatasql/odatasql/internal/token"
)

// Semantic returns the typed Go value a Literal token carries — the value
// that is stored in the parameter map under the parameterization rule (I1).
func Semantic(lit *token.Literal) any {
	return lit.Value
}

// SQLLiteral renders lit as an inline SQL literal, using standard
// single-quote quoting for every dialect (booleans as 1/0). This mode
// exists only for uniform testing with useParameters=false (spec §4.2); it
// must never be used for untrusted input.
func SQLLiteral(lit *token.Literal) string {
	if lit.EdmType == token.EdmNull {
		return "NULL"
	}
	switch v := lit.Value.(type) {
	case string:
		return quoteString(v)
	case bool:
		if v {
			return "1"
		}
		return "0"
	case int32:
		return strconv.FormatInt(int64(v), 10)
	case int64:
		return strconv.FormatInt(v, 10)
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case uuid.UUID:
		return quoteString(v.String())
	case time.Time:
		return quoteString(v.Format(time.RFC3339Nano))
	case time.Duration:
		return quoteString(v.String())
	case [2]float64:
		return quoteString(fmt.Sprintf("Point(%v %v)", v[0], v[1]))
	default:
		return quoteString(fmt.Sprintf("%v", v))
	}
}

func quoteString(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}
