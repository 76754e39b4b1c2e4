package visitor

import (
	"fmt"
	"strings"

	"github.com/odatasql/odatasql/internal/literal"
	"github.com/odatasql/odatasql/internal/oerr"
	"github.com/odatasql/odatasql/internal/token"
)

// Oracle lowers to double-quoted identifiers, ":name" bind variables, and
// Oracle's INSTR/SUBSTR/SYSTIMESTAMP spellings.
type Oracle struct{}

func (Oracle) Name() string { return "oracle" }

func (Oracle) QuoteIdentifier(name string) string { return quoteDouble(name) }

func (d Oracle) TableRef(table string) string { return d.QuoteIdentifier(table) }

func (d Oracle) FieldRef(v *Visitor, segments []string) string {
	return fieldRefDotted(d.QuoteIdentifier, segments)
}

func (Oracle) Param(v *Visitor, lit *token.Literal) (string, error) {
	name, err := v.BindParameter(literal.Semantic(lit))
	if err != nil {
		return "", err
	}
	return ":" + name, nil
}

func (Oracle) NullKeyword() string          { return "NULL" }
func (Oracle) RewritesNullComparison() bool { return true }

func (Oracle) LogicalJoin(op, left, right string) string {
	return fmt.Sprintf("(%s %s %s)", left, op, right)
}

func (d Oracle) InList(v *Visitor, left string, values []*token.Token) (string, error) {
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

func (Oracle) Cast(value, edmType string) string {
	switch edmType {
	case string(token.EdmString):
		return fmt.Sprintf("CAST(%s AS VARCHAR2(4000))", value)
	case string(token.EdmInt32), string(token.EdmInt64):
		return fmt.Sprintf("CAST(%s AS NUMBER(19))", value)
	case string(token.EdmDecimal), string(token.EdmDouble), string(token.EdmSingle):
		return fmt.Sprintf("CAST(%s AS NUMBER)", value)
	case string(token.EdmDate):
		return fmt.Sprintf("CAST(%s AS DATE)", value)
	case string(token.EdmDateTimeOffset):
		return fmt.Sprintf("CAST(%s AS TIMESTAMP WITH TIME ZONE)", value)
	default:
		return fmt.Sprintf("CAST(%s AS VARCHAR2(4000))", value)
	}
}

func (d Oracle) Func(v *Visitor, name string, argToks []*token.Token, args []string) (string, error) {
	switch name {
	case "contains":
		if err := argn(name, args, 2); err != nil {
			return "", err
		}
		return fmt.Sprintf("(INSTR(%s, %s) > 0)", args[0], args[1]), nil
	case "startswith":
		if err := argn(name, args, 2); err != nil {
			return "", err
		}
		return fmt.Sprintf("(INSTR(%s, %s) = 1)", args[0], args[1]), nil
	case "endswith":
		if err := argn(name, args, 2); err != nil {
			return "", err
		}
		return fmt.Sprintf("(SUBSTR(%s, -LENGTH(%s)) = %s)", args[0], args[1], args[1]), nil
	case "length":
		if err := argn(name, args, 1); err != nil {
			return "", err
		}
		return fmt.Sprintf("LENGTH(%s)", args[0]), nil
	case "indexof":
		if err := argn(name, args, 2); err != nil {
			return "", err
		}
		return fmt.Sprintf("(INSTR(%s, %s) - 1)", args[0], args[1]), nil
	case "substring":
		if err := argRange(name, args, 2, 3); err != nil {
			return "", err
		}
		value, start, length, hasLength := substringArgs(args)
		if hasLength {
			return fmt.Sprintf("SUBSTR(%s, %s, %s)", value, start, length), nil
		}
		return fmt.Sprintf("SUBSTR(%s, %s)", value, start), nil
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
		return fmt.Sprintf("CEIL(%s)", args[0]), nil
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
		return fmt.Sprintf("TRUNC(%s)", args[0]), nil
	case "time":
		if err := argn(name, args, 1); err != nil {
			return "", err
		}
		return fmt.Sprintf("CAST(%s AS TIMESTAMP)", args[0]), nil
	case "now":
		if err := argn(name, args, 0); err != nil {
			return "", err
		}
		return "SYSTIMESTAMP", nil
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
		return fmt.Sprintf("SDO_GEOM.SDO_DISTANCE(%s, %s, 0.005)", args[0], args[1]), nil
	case "geo.intersects":
		if err := argn(name, args, 2); err != nil {
			return "", err
		}
		return fmt.Sprintf("(SDO_GEOM.RELATE(%s, 'ANYINTERACT', %s) = 'TRUE')", args[0], args[1]), nil
	case "geo.length":
		if err := argn(name, args, 1); err != nil {
			return "", err
		}
		return fmt.Sprintf("SDO_GEOM.SDO_LENGTH(%s, 0.005)", args[0]), nil
	default:
		return "", oerr.Newf(oerr.KindForbiddenFunction, "function %q has no Oracle lowering", name)
	}
}
