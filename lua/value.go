package lua

// Kind indicates which variant of a Value is set.
type Kind int

const (
	// KindInvalid is the zero value; no valid parse produces it.
	KindInvalid Kind = iota

	// KindMap represents a table with unique string keys.
	KindMap

	// KindArray represents an ordered sequence of values.
	KindArray

	// KindBool represents a boolean literal.
	KindBool

	// KindStr represents a string literal.
	KindStr

	// KindInt represents a numeric literal that parses as an integer.
	KindInt

	// KindFloat represents any other numeric literal.
	KindFloat

	// KindExpr represents an unevaluated expression, such as a variable
	// reference or function call appearing inside a composite literal.
	KindExpr
)

// String returns a string representation of the value kind.
func (k Kind) String() string {
	switch k {
	case KindMap:
		return "map"

	case KindArray:
		return "array"

	case KindBool:
		return "boolean"

	case KindStr:
		return "string"

	case KindInt:
		return "integer"

	case KindFloat:
		return "float"

	case KindExpr:
		return "expression"

	default:
		return "invalid"
	}
}

// Value represents one node of a parsed dynamic value tree.
type Value struct {
	Kind Kind
	// Exactly one of these is set based on Kind
	Map   map[string]*Value
	Array []*Value
	Bool  bool
	Str   string
	Int   int64
	Float float64
	Expr  *Expr
}

// NewBool creates a boolean value.
func NewBool(b bool) *Value { return &Value{Kind: KindBool, Bool: b} }

// NewStr creates a string value.
func NewStr(s string) *Value { return &Value{Kind: KindStr, Str: s} }

// NewInt creates an integer value.
func NewInt(i int64) *Value { return &Value{Kind: KindInt, Int: i} }

// NewFloat creates a floating-point value.
func NewFloat(f float64) *Value { return &Value{Kind: KindFloat, Float: f} }

// NewArray creates an array value from the given elements.
func NewArray(elems ...*Value) *Value {
	return &Value{Kind: KindArray, Array: elems}
}

// NewMap creates a map value from the given entries.
func NewMap(entries map[string]*Value) *Value {
	if entries == nil {
		entries = make(map[string]*Value)
	}

	return &Value{Kind: KindMap, Map: entries}
}

// NewExpr creates a value holding an unevaluated expression.
func NewExpr(e *Expr) *Value { return &Value{Kind: KindExpr, Expr: e} }

// Simplify collapses every expression node that merely wraps a literal into
// the literal itself, recursing into map and array contents. Genuinely
// dynamic sub-expressions (variable references, calls, operators) are left
// untouched. Simplify is idempotent.
func (v *Value) Simplify() *Value {
	switch v.Kind {
	case KindMap:
		for key, val := range v.Map {
			v.Map[key] = val.Simplify()
		}

		return v

	case KindArray:
		for i, val := range v.Array {
			v.Array[i] = val.Simplify()
		}

		return v

	case KindExpr:
		if v.Expr.Kind == ExprLiteral {
			return v.Expr.Literal.Simplify()
		}

		return v

	default:
		return v
	}
}
