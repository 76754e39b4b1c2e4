package visitor

import (
	"fmt"
	"strings"

	"github.com/odatasql/odatasql/internal/literal"
	"github.com/odatasql/odatasql/internal/oerr"
	"github.com/odatasql/odatasql/internal/token"
)

// MySql lowers to backtick-quoted identifiers and MySQL's positional "?"
// placeholders, with CONCAT/LOCATE and YEAR()/MONTH()/MICROSECOND()-style
// calls standing in for the ANSI string and date functions.
type MySql struct{}

func (MySql) Name() string { return "mysql" }

func (MySql) QuoteIdentifier(name string) string {
	return "`" + strings.ReplaceAll(name, "`", "``") + "`"
}

func (d MySql) TableRef(table string) string { return d.QuoteIdentifier(table) }

func (d MySql) FieldRef(v *Visitor, segments []string) string {
	return fieldRefDotted(d.QuoteIdentifier, segments)
}

func (MySql) Param(v *Visitor, lit *token.Literal) (string, error) {
	if _, err := v.BindParameter(literal.Semantic(lit)); err != nil {
		return "", err
	}
	return "?", nil
}

func (MySql) NullKeyword() string          { return "NULL" }
func (MySql) RewritesNullComparison() bool { return true }

func (MySql) LogicalJoin(op, left, right string) string {
	return fmt.Sprintf("(%s %s %s)", left, op, right)
}

func (d MySql) InList(v *Visitor, left string, values []*token.Token) (string, error) {
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

func (MySql) Cast(value, edmType string) string {
	switch edmType {
	case string(token.EdmInt32), string(token.EdmInt64):
		return fmt.Sprintf("CAST(%s AS SIGNED)", value)
	case string(token.EdmDecimal), string(token.EdmDouble), string(token.EdmSingle):
		return fmt.Sprintf("CAST(%s AS DECIMAL)", value)
	case string(token.EdmDate):
		return fmt.Sprintf("CAST(%s AS DATE)", value)
	case string(token.EdmDateTimeOffset):
		return fmt.Sprintf("CAST(%s AS DATETIME)", value)
	case string(token.EdmTimeOfDay):
		return fmt.Sprintf("CAST(%s AS TIME)", value)
	default:
		return fmt.Sprintf("CAST(%s AS CHAR)", value)
	}
}

func (d MySql) Func(v *Visitor, name string, argToks []*token.Token, args []string) (string, error) {
	switch name {
	case "contains":
		if err := argn(name, args, 2); err != nil {
			return "", err
		}
		return fmt.Sprintf("(%s LIKE CONCAT('%%', %s, '%%'))", args[0], args[1]), nil
	case "startswith":
		if err := argn(name, args, 2); err != nil {
			return "", err
		}
		return fmt.Sprintf("(%s LIKE CONCAT(%s, '%%'))", args[0], args[1]), nil
	case "endswith":
		if err := argn(name, args, 2); err != nil {
			return "", err
		}
		return fmt.Sprintf("(%s LIKE CONCAT('%%', %s))", args[0], args[1]), nil
	case "length":
		if err := argn(name, args, 1); err != nil {
			return "", err
		}
		return fmt.Sprintf("CHAR_LENGTH(%s)", args[0]), nil
	case "indexof":
		if err := argn(name, args, 2); err != nil {
			return "", err
		}
		return fmt.Sprintf("(LOCATE(%s, %s) - 1)", args[1], args[0]), nil
	case "substring":
		if err := argRange(name, args, 2, 3); err != nil {
			return "", err
		}
		value, start, length, hasLength := substringArgs(args)
		if hasLength {
			return fmt.Sprintf("SUBSTRING(%s, %s, %s)", value, start, length), nil
		}
		return fmt.Sprintf("SUBSTRING(%s, %s)", value, start), nil
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
		return fmt.Sprintf("CONCAT(%s, %s)", args[0], args[1]), nil
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
		return fmt.Sprintf("%s(%s)", strings.ToUpper(name), args[0]), nil
	case "fractionalseconds":
		if err := argn(name, args, 1); err != nil {
			return "", err
		}
		return fmt.Sprintf("(MICROSECOND(%s) / 1000000.0)", args[0]), nil
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
		return "NOW()", nil
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
		return "", oerr.Newf(oerr.KindForbiddenFunction, "function %q has no MySql lowering", name)
	}
}
