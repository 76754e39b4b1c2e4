// Package token defines the immutable AST node produced by the parser.
package token

// Kind tags a Token with the grammar production that produced it.
type Kind int

const (
	KindODataURI Kind = iota
	KindResourcePath
	KindQueryOptions
	KindExpand
	KindExpandItem
	KindExpandPath
	KindFilter
	KindSelect
	KindSelectItem
	KindOrderBy
	KindOrderByItem
	KindGroupBy
	KindGroupByItem
	KindSkip
	KindTop
	KindCount
	KindFormat
	KindSkipToken
	KindSearch
	KindID
	KindAndExpression
	KindOrExpression
	KindNotExpression
	KindInExpression
	KindHasExpression
	KindIsOfExpression
	KindCastExpression
	KindEqualsExpression
	KindNotEqualsExpression
	KindLesserThanExpression
	KindLesserOrEqualsExpression
	KindGreaterThanExpression
	KindGreaterOrEqualsExpression
	KindAddExpression
	KindSubExpression
	KindMulExpression
	KindDivExpression
	KindModExpression
	KindNegateExpression
	KindParenExpression
	KindBoolParenExpression
	KindMethodCallExpression
	KindCommonExpression
	KindFirstMemberExpression
	KindMemberExpression
	KindPropertyPathExpression
	KindSingleNavigationExpression
	KindCollectionPathExpression
	KindAnyExpression
	KindAllExpression
	KindLambdaVariableExpression
	KindLambdaPredicateExpression
	KindImplicitVariableExpression
	KindODataIdentifier
	KindLiteral
)

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "Unknown"
}

var kindNames = map[Kind]string{
	KindODataURI:                   "ODataUri",
	KindResourcePath:               "ResourcePath",
	KindQueryOptions:               "QueryOptions",
	KindExpand:                     "Expand",
	KindExpandItem:                 "ExpandItem",
	KindExpandPath:                 "ExpandPath",
	KindFilter:                     "Filter",
	KindSelect:                     "Select",
	KindSelectItem:                 "SelectItem",
	KindOrderBy:                    "OrderBy",
	KindOrderByItem:                "OrderByItem",
	KindGroupBy:                    "GroupBy",
	KindGroupByItem:                "GroupByItem",
	KindSkip:                       "Skip",
	KindTop:                        "Top",
	KindCount:                      "Count",
	KindFormat:                     "Format",
	KindSkipToken:                  "SkipToken",
	KindSearch:                     "Search",
	KindID:                         "Id",
	KindAndExpression:              "AndExpression",
	KindOrExpression:               "OrExpression",
	KindNotExpression:              "NotExpression",
	KindInExpression:               "InExpression",
	KindHasExpression:              "HasExpression",
	KindIsOfExpression:             "IsOfExpression",
	KindCastExpression:             "CastExpression",
	KindEqualsExpression:           "EqualsExpression",
	KindNotEqualsExpression:        "NotEqualsExpression",
	KindLesserThanExpression:       "LesserThanExpression",
	KindLesserOrEqualsExpression:   "LesserOrEqualsExpression",
	KindGreaterThanExpression:      "GreaterThanExpression",
	KindGreaterOrEqualsExpression:  "GreaterOrEqualsExpression",
	KindAddExpression:              "AddExpression",
	KindSubExpression:              "SubExpression",
	KindMulExpression:              "MulExpression",
	KindDivExpression:              "DivExpression",
	KindModExpression:              "ModExpression",
	KindNegateExpression:           "NegateExpression",
	KindParenExpression:            "ParenExpression",
	KindBoolParenExpression:        "BoolParenExpression",
	KindMethodCallExpression:       "MethodCallExpression",
	KindCommonExpression:           "CommonExpression",
	KindFirstMemberExpression:      "FirstMemberExpression",
	KindMemberExpression:           "MemberExpression",
	KindPropertyPathExpression:     "PropertyPathExpression",
	KindSingleNavigationExpression: "SingleNavigationExpression",
	KindCollectionPathExpression:   "CollectionPathExpression",
	KindAnyExpression:              "AnyExpression",
	KindAllExpression:              "AllExpression",
	KindLambdaVariableExpression:   "LambdaVariableExpression",
	KindLambdaPredicateExpression:  "LambdaPredicateExpression",
	KindImplicitVariableExpression: "ImplicitVariableExpression",
	KindODataIdentifier:            "ODataIdentifier",
	KindLiteral:                    "Literal",
}

// Position is the half-open code-point span [Start, Next) a Token covers in
// the source buffer.
type Position struct {
	Start int
	Next  int
}

// Token is a single immutable AST node. Children of a composite production
// are stored in Value (as a *Token, []*Token, or a production-specific
// struct); Raw holds the exact source text the production consumed.
type Token struct {
	Type     Kind
	Raw      string
	Value    any
	Position Position
	Metadata any
}

// EdmType tags the value carried by a Literal token.
type EdmType string

const (
	EdmString              EdmType = "Edm.String"
	EdmInt32               EdmType = "Edm.Int32"
	EdmInt64               EdmType = "Edm.Int64"
	EdmDecimal             EdmType = "Edm.Decimal"
	EdmDouble              EdmType = "Edm.Double"
	EdmSingle              EdmType = "Edm.Single"
	EdmBoolean             EdmType = "Edm.Boolean"
	EdmGuid                EdmType = "Edm.Guid"
	EdmDate                EdmType = "Edm.Date"
	EdmDateTimeOffset      EdmType = "Edm.DateTimeOffset"
	EdmTimeOfDay           EdmType = "Edm.TimeOfDay"
	EdmDuration            EdmType = "Edm.Duration"
	EdmGeographyPoint      EdmType = "Edm.GeographyPoint"
	EdmGeographyLineString EdmType = "Edm.GeographyLineString"
	EdmGeographyPolygon    EdmType = "Edm.GeographyPolygon"
	EdmNull                EdmType = "null"
)

// Literal is the Value payload of a KindLiteral token.
type Literal struct {
	EdmType EdmType
	Value   any
}

// New builds a Token. Tokens are never mutated after construction.
func New(kind Kind, raw string, value any, pos Position) *Token {
	return &Token{Type: kind, Raw: raw, Value: value, Position: pos}
}

// WithMetadata returns a copy of t carrying the given metadata.
func (t *Token) WithMetadata(meta any) *Token {
	cp := *t
	cp.Metadata = meta
	return &cp
}
