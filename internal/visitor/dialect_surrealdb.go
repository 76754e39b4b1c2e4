package visitor

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/odatasql/odatasql/internal/literal"
	"github.com/odatasql/odatasql/internal/oerr"
	"github.com/odatasql/odatasql/internal/token"
)

// SurrealDB targets SurrealQL. Property paths are never interpolated as bare
// text — each is bound as a $fieldN parameter and referenced through
// type::field($fieldN), so a property path chosen by an attacker can never
// become anything but a field reference (spec §4.4's SurrealDB note). Table
// names are not bound: TableRef writes the name into type::table() as a
// double-quoted string literal. Record
// identifiers ("table:id" shaped strings) get the twin type::record()
// disjunction described in DESIGN.md's Open Question resolution; every
// other value compares directly against its bound parameter.
type SurrealDB struct{}

func (SurrealDB) Name() string { return "surrealdb" }

func (SurrealDB) QuoteIdentifier(name string) string { return name }

func (d SurrealDB) TableRef(table string) string {
	return fmt.Sprintf("type::table(%q)", table)
}

func (d SurrealDB) FieldRef(v *Visitor, segments []string) string {
	name := fmt.Sprintf("field%d", v.NextFieldSeed())
	v.Parameters[name] = strings.Join(segments, ".")
	v.ParamOrder = append(v.ParamOrder, name)
	return fmt.Sprintf("type::field($%s)", name)
}

func (SurrealDB) Param(v *Visitor, lit *token.Literal) (string, error) {
	name, err := v.BindParameter(literal.Semantic(lit))
	if err != nil {
		return "", err
	}
	return "$" + name, nil
}

func (SurrealDB) NullKeyword() string          { return "NONE" }
func (SurrealDB) RewritesNullComparison() bool { return false }

func (SurrealDB) LogicalJoin(op, left, right string) string {
	return fmt.Sprintf("(%s %s %s)", left, op, right)
}

var recordIDShape = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*:[A-Za-z0-9_]+$`)

func (d SurrealDB) InList(v *Visitor, left string, values []*token.Token) (string, error) {
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
		if s, ok := lit.Value.(string); ok && recordIDShape.MatchString(s) {
			parts[i] = fmt.Sprintf("(%s = type::record(%s) OR %s = %s)", left, p, left, p)
		} else {
			parts[i] = fmt.Sprintf("%s = %s", left, p)
		}
	}
	return "(" + strings.Join(parts, " OR ") + ")", nil
}

func (SurrealDB) Cast(value, edmType string) string {
	switch edmType {
	case string(token.EdmString):
		return fmt.Sprintf("<string>%s", value)
	case string(token.EdmInt32), string(token.EdmInt64):
		return fmt.Sprintf("<int>%s", value)
	case string(token.EdmDecimal):
		return fmt.Sprintf("<decimal>%s", value)
	case string(token.EdmDouble), string(token.EdmSingle):
		return fmt.Sprintf("<float>%s", value)
	case string(token.EdmBoolean):
		return fmt.Sprintf("<bool>%s", value)
	case string(token.EdmDateTimeOffset), string(token.EdmDate):
		return fmt.Sprintf("<datetime>%s", value)
	case string(token.EdmDuration):
		return fmt.Sprintf("<duration>%s", value)
	default:
		return fmt.Sprintf("<string>%s", value)
	}
}

func (d SurrealDB) Func(v *Visitor, name string, argToks []*token.Token, args []string) (string, error) {
	switch name {
	case "contains":
		if err := argn(name, args, 2); err != nil {
			return "", err
		}
		return fmt.Sprintf("(%s CONTAINS %s)", args[0], args[1]), nil
	case "startswith":
		if err := argn(name, args, 2); err != nil {
			return "", err
		}
		return fmt.Sprintf("string::starts_with(%s, %s)", args[0], args[1]), nil
	case "endswith":
		if err := argn(name, args, 2); err != nil {
			return "", err
		}
		return fmt.Sprintf("string::ends_with(%s, %s)", args[0], args[1]), nil
	case "length":
		if err := argn(name, args, 1); err != nil {
			return "", err
		}
		return fmt.Sprintf("string::len(%s)", args[0]), nil
	case "indexof":
		if err := argn(name, args, 2); err != nil {
			return "", err
		}
		return fmt.Sprintf("string::find(%s, %s)", args[0], args[1]), nil
	case "substring":
		if err := argRange(name, args, 2, 3); err != nil {
			return "", err
		}
		value, start, length, hasLength := substringArgs(args)
		if hasLength {
			return fmt.Sprintf("string::slice(%s, %s, %s)", value, start, length), nil
		}
		return fmt.Sprintf("string::slice(%s, %s)", value, start), nil
	case "tolower":
		if err := argn(name, args, 1); err != nil {
			return "", err
		}
		return fmt.Sprintf("string::lowercase(%s)", args[0]), nil
	case "toupper":
		if err := argn(name, args, 1); err != nil {
			return "", err
		}
		return fmt.Sprintf("string::uppercase(%s)", args[0]), nil
	case "trim":
		if err := argn(name, args, 1); err != nil {
			return "", err
		}
		return fmt.Sprintf("string::trim(%s)", args[0]), nil
	case "concat":
		if err := argn(name, args, 2); err != nil {
			return "", err
		}
		return fmt.Sprintf("string::concat(%s, %s)", args[0], args[1]), nil
	case "round":
		if err := argn(name, args, 1); err != nil {
			return "", err
		}
		return fmt.Sprintf("math::round(%s)", args[0]), nil
	case "floor":
		if err := argn(name, args, 1); err != nil {
			return "", err
		}
		return fmt.Sprintf("math::floor(%s)", args[0]), nil
	case "ceiling":
		if err := argn(name, args, 1); err != nil {
			return "", err
		}
		return fmt.Sprintf("math::ceil(%s)", args[0]), nil
	case "year", "month", "day", "hour", "minute", "second":
		if err := argn(name, args, 1); err != nil {
			return "", err
		}
		return fmt.Sprintf("time::%s(%s)", name, args[0]), nil
	case "fractionalseconds":
		if err := argn(name, args, 1); err != nil {
			return "", err
		}
		return fmt.Sprintf("(time::nano(%s) / 1000000000.0 - time::unix(%s))", args[0], args[0]), nil
	case "date":
		if err := argn(name, args, 1); err != nil {
			return "", err
		}
		return fmt.Sprintf("time::floor(%s, 1d)", args[0]), nil
	case "time":
		if err := argn(name, args, 1); err != nil {
			return "", err
		}
		return args[0], nil
	case "now":
		if err := argn(name, args, 0); err != nil {
			return "", err
		}
		return "time::now()", nil
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
		return fmt.Sprintf("geo::distance(%s, %s)", args[0], args[1]), nil
	case "geo.intersects":
		if err := argn(name, args, 2); err != nil {
			return "", err
		}
		return fmt.Sprintf("(%s INSIDE %s)", args[0], args[1]), nil
	case "geo.length":
		if err := argn(name, args, 1); err != nil {
			return "", err
		}
		return fmt.Sprintf("geo::distance(%s)", args[0]), nil
	default:
		return "", oerr.Newf(oerr.KindForbiddenFunction, "function %q has no SurrealDB lowering", name)
	}
}
