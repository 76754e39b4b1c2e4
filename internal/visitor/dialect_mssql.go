package visitor

import (
	"fmt"
	"strings"

	"github.com/odatasql/odatasql/internal/literal"
	"github.com/odatasql/odatasql/internal/oerr"
	"github.com/odatasql/odatasql/internal/token"
)

// MsSql targets T-SQL: bracket-quoted identifiers, "@name" bind parameters,
// and T-SQL's DATEPART/CHARINDEX/LEN spellings for the whitelisted functions.
type MsSql struct{}

func (MsSql) Name() string { return "mssql" }

func (MsSql) QuoteIdentifier(name string) string {
	return "[" + strings.ReplaceAll(name, "]", "]]") + "]"
}

func (d MsSql) TableRef(table string) string { return d.QuoteIdentifier(table) }

func (d MsSql) FieldRef(v *Visitor, segments []string) string {
	return fieldRefDotted(d.QuoteIdentifier, segments)
}

func (MsSql) Param(v *Visitor, lit *token.Literal) (string, error) {
	name, err := v.BindParameter(literal.Semantic(lit))
	if err != nil {
		return "", err
	}
	return "@" + name, nil
}

func (MsSql) NullKeyword() string          { return "NULL" }
func (MsSql) RewritesNullComparison() bool { return true }

func (MsSql) LogicalJoin(op, left, right string) string {
	return fmt.Sprintf("(%s %s %s)", left, op, right)
}

func (d MsSql) InList(v *Visitor, left string, values []*token.Token) (string, error) {
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

func (MsSql) Cast(value, edmType string) string {
	switch edmType {
	case string(token.EdmString):
		return fmt.Sprintf("CAST(%s AS NVARCHAR(MAX))", value)
	case string(token.EdmInt32):
		return fmt.Sprintf("CAST(%s AS INT)", value)
	case string(token.EdmInt64):
		return fmt.Sprintf("CAST(%s AS BIGINT)", value)
	case string(token.EdmDecimal):
		return fmt.Sprintf("CAST(%s AS DECIMAL)", value)
	case string(token.EdmDouble), string(token.EdmSingle):
		return fmt.Sprintf("CAST(%s AS FLOAT)", value)
	case string(token.EdmBoolean):
		return fmt.Sprintf("CAST(%s AS BIT)", value)
	case string(token.EdmDate):
		return fmt.Sprintf("CAST(%s AS DATE)", value)
	case string(token.EdmDateTimeOffset):
		return fmt.Sprintf("CAST(%s AS DATETIMEOFFSET)", value)
	case string(token.EdmTimeOfDay):
		return fmt.Sprintf("CAST(%s AS TIME)", value)
	default:
		return fmt.Sprintf("CAST(%s AS NVARCHAR(MAX))", value)
	}
}

func (d MsSql) Func(v *Visitor, name string, argToks []*token.Token, args []string) (string, error) {
	switch name {
	case "contains":
		if err := argn(name, args, 2); err != nil {
			return "", err
		}
		return fmt.Sprintf("(%s LIKE '%%' + %s + '%%')", args[0], args[1]), nil
	case "startswith":
		if err := argn(name, args, 2); err != nil {
			return "", err
		}
		return fmt.Sprintf("(%s LIKE %s + '%%')", args[0], args[1]), nil
	case "endswith":
		if err := argn(name, args, 2); err != nil {
			return "", err
		}
		return fmt.Sprintf("(%s LIKE '%%' + %s)", args[0], args[1]), nil
	case "length":
		if err := argn(name, args, 1); err != nil {
			return "", err
		}
		return fmt.Sprintf("LEN(%s)", args[0]), nil
	case "indexof":
		if err := argn(name, args, 2); err != nil {
			return "", err
		}
		return fmt.Sprintf("(CHARINDEX(%s, %s) - 1)", args[1], args[0]), nil
	case "substring":
		if err := argRange(name, args, 2, 3); err != nil {
			return "", err
		}
		value, start, length, hasLength := substringArgs(args)
		if hasLength {
			return fmt.Sprintf("SUBSTRING(%s, %s, %s)", value, start, length), nil
		}
		return fmt.Sprintf("SUBSTRING(%s, %s, LEN(%s))", value, start, value), nil
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
		return fmt.Sprintf("LTRIM(RTRIM(%s))", args[0]), nil
	case "concat":
		if err := argn(name, args, 2); err != nil {
			return "", err
		}
		return fmt.Sprintf("(%s + %s)", args[0], args[1]), nil
	case "round":
		if err := argn(name, args, 1); err != nil {
			return "", err
		}
		return fmt.Sprintf("ROUND(%s, 0)", args[0]), nil
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
		return fmt.Sprintf("DATEPART(%s, %s)", name, args[0]), nil
	case "fractionalseconds":
		if err := argn(name, args, 1); err != nil {
			return "", err
		}
		return fmt.Sprintf("(DATEPART(NANOSECOND, %s) / 1000000000.0)", args[0]), nil
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
		return "SYSDATETIMEOFFSET()", nil
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
		return fmt.Sprintf("%s.STDistance(%s)", args[0], args[1]), nil
	case "geo.intersects":
		if err := argn(name, args, 2); err != nil {
			return "", err
		}
		return fmt.Sprintf("(%s.STIntersects(%s) = 1)", args[0], args[1]), nil
	case "geo.length":
		if err := argn(name, args, 1); err != nil {
			return "", err
		}
		return fmt.Sprintf("%s.STLength()", args[0]), nil
	default:
		return "", oerr.Newf(oerr.KindForbiddenFunction, "function %q has no MsSql lowering", name)
	}
}
