package visitor

import (
	"fmt"
	"strings"

	"github.com/odatasql/odatasql/internal/literal"
	"github.com/odatasql/odatasql/internal/oerr"
	"github.com/odatasql/odatasql/internal/token"
)

// ANSI lowers to the SQL-92 baseline every other relational dialect here
// starts from: double-quoted identifiers, "$name" bound parameters, and the
// EXTRACT()/SUBSTRING() function forms defined by the standard.
type ANSI struct{}

func (ANSI) Name() string { return "ansi" }

func quoteDouble(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

func (ANSI) QuoteIdentifier(name string) string { return quoteDouble(name) }

func (d ANSI) TableRef(table string) string { return d.QuoteIdentifier(table) }

func fieldRefDotted(quote func(string) string, segments []string) string {
	parts := make([]string, len(segments))
	for i, s := range segments {
		parts[i] = quote(s)
	}
	return strings.Join(parts, ".")
}

func (d ANSI) FieldRef(v *Visitor, segments []string) string {
	return fieldRefDotted(d.QuoteIdentifier, segments)
}

func (ANSI) Param(v *Visitor, lit *token.Literal) (string, error) {
	name, err := v.BindParameter(literal.Semantic(lit))
	if err != nil {
		return "", err
	}
	return "$" + name, nil
}

func (ANSI) NullKeyword() string            { return "NULL" }
func (ANSI) RewritesNullComparison() bool   { return true }

func (ANSI) LogicalJoin(op, left, right string) string {
	return fmt.Sprintf("(%s %s %s)", left, op, right)
}

func (d ANSI) InList(v *Visitor, left string, values []*token.Token) (string, error) {
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

func (d ANSI) Cast(value, edmType string) string {
	return fmt.Sprintf("CAST(%s AS %s)", value, ansiNativeType(edmType))
}

func ansiNativeType(edmType string) string {
	switch edmType {
	case string(token.EdmString):
		return "VARCHAR"
	case string(token.EdmInt32):
		return "INTEGER"
	case string(token.EdmInt64):
		return "BIGINT"
	case string(token.EdmDecimal):
		return "DECIMAL"
	case string(token.EdmDouble), string(token.EdmSingle):
		return "DOUBLE PRECISION"
	case string(token.EdmBoolean):
		return "BOOLEAN"
	case string(token.EdmDate):
		return "DATE"
	case string(token.EdmDateTimeOffset):
		return "TIMESTAMP"
	case string(token.EdmTimeOfDay):
		return "TIME"
	default:
		return "VARCHAR"
	}
}

func (d ANSI) Func(v *Visitor, name string, argToks []*token.Token, args []string) (string, error) {
	switch name {
	case "contains":
		if err := argn(name, args, 2); err != nil {
			return "", err
		}
		return fmt.Sprintf("(%s LIKE '%%' || %s || '%%')", args[0], args[1]), nil
	case "startswith":
		if err := argn(name, args, 2); err != nil {
			return "", err
		}
		return fmt.Sprintf("(%s LIKE %s || '%%')", args[0], args[1]), nil
	case "endswith":
		if err := argn(name, args, 2); err != nil {
			return "", err
		}
		return fmt.Sprintf("(%s LIKE '%%' || %s)", args[0], args[1]), nil
	case "length":
		if err := argn(name, args, 1); err != nil {
			return "", err
		}
		return fmt.Sprintf("CHAR_LENGTH(%s)", args[0]), nil
	case "indexof":
		if err := argn(name, args, 2); err != nil {
			return "", err
		}
		return fmt.Sprintf("(POSITION(%s IN %s) - 1)", args[1], args[0]), nil
	case "substring":
		if err := argRange(name, args, 2, 3); err != nil {
			return "", err
		}
		value, start, length, hasLength := substringArgs(args)
		if hasLength {
			return fmt.Sprintf("SUBSTRING(%s FROM %s FOR %s)", value, start, length), nil
		}
		return fmt.Sprintf("SUBSTRING(%s FROM %s)", value, start), nil
	case "tolower":
		if err := argn(name, args, 1); err != nil {
			return "", err
		}
		return fmt.Sprintf("LOWER(%s)", args[0]), nil
	case "toupper":
		if err := argn(name, args, 1); err != nil {
			return "", err
		}
		return fmt.Sprintf("UPPER(%s)", args[0]), nil
	case "trim":
		if err := argn(name, args, 1); err != nil {
			return "", err
		}
		return fmt.Sprintf("TRIM(%s)", args[0]), nil
	case "concat":
		if err := argn(name, args, 2); err != nil {
			return "", err
		}
		return fmt.Sprintf("(%s || %s)", args[0], args[1]), nil
	case "round":
		if err := argn(name, args, 1); err != nil {
			return "", err
		}
		return fmt.Sprintf("ROUND(%s)", args[0]), nil
	case "floor":
		if err := argn(name, args, 1); err != nil {
			return "", err
		}
		return fmt.Sprintf("FLOOR(%s)", args[0]), nil
	case "ceiling":
		if err := argn(name, args, 1); err != nil {
			return "", err
		}
		return fmt.Sprintf("CEILING(%s)", args[0]), nil
	case "year", "month", "day", "hour", "minute", "second":
		if err := argn(name, args, 1); err != nil {
			return "", err
		}
		return fmt.Sprintf("EXTRACT(%s FROM %s)", strings.ToUpper(name), args[0]), nil
	case "fractionalseconds":
		if err := argn(name, args, 1); err != nil {
			return "", err
		}
		return fmt.Sprintf("(EXTRACT(SECOND FROM %s) - FLOOR(EXTRACT(SECOND FROM %s)))", args[0], args[0]), nil
	case "date":
		if err := argn(name, args, 1); err != nil {
			return "", err
		}
		return fmt.Sprintf("CAST(%s AS DATE)", args[0]), nil
	case "time":
		if err := argn(name, args, 1); err != nil {
			return "", err
		}
		return fmt.Sprintf("CAST(%s AS TIME)", args[0]), nil
	case "now":
		if err := argn(name, args, 0); err != nil {
			return "", err
		}
		return "CURRENT_TIMESTAMP", nil
	case "cast", "isof":
		edmType, err := castEdmType(argToks)
		if err != nil {
			return "", err
		}
		return d.Cast(args[0], edmType), nil
	case "geo.distance":
		if err := argn(name, args, 2); err != nil {
			return "", err
		}
		return fmt.Sprintf("ST_Distance(%s, %s)", args[0], args[1]), nil
	case "geo.intersects":
		if err := argn(name, args, 2); err != nil {
			return "", err
		}
		return fmt.Sprintf("ST_Intersects(%s, %s)", args[0], args[1]), nil
	case "geo.length":
		if err := argn(name, args, 1); err != nil {
			return "", err
		}
		return fmt.Sprintf("ST_Length(%s)", args[0]), nil
	default:
		return "", oerr.Newf(oerr.KindForbiddenFunction, "function %q has no ANSI lowering", name)
	}
}
