package specs

import "fmt"

// LiteralKind identifies which syntactic form a Literal was parsed from
type LiteralKind int

const (
	BoolLiteral LiteralKind = iota
	NumberLiteral
	StringLiteral
	ArrayLiteral
	ObjectLiteral
)

// String returns the string representation of the literal kind
func (k LiteralKind) String() string {
	switch k {
	case BoolLiteral:
		return "bool"
	case NumberLiteral:
		return "number"
	case StringLiteral:
		return "string"
	case ArrayLiteral:
		return "array"
	case ObjectLiteral:
		return "object"
	default:
		return "unknown"
	}
}

// Literal is a parsed literal expression used for decorator arguments and
// parameter defaults. The set of implementations is closed: Bool, Number,
// String, Array and Object.
type Literal interface {
	Kind() LiteralKind
	literal()
}

// Bool is a `true` or `false` literal
type Bool bool

// Number is an integer or decimal literal
type Number float64

// String is a quoted string literal with escapes already decoded
type String string

// Array is an ordered list of literals
type Array []Literal

// Object maps string keys to literals
type Object map[string]Literal

func (Bool) Kind() LiteralKind   { return BoolLiteral }
func (Number) Kind() LiteralKind { return NumberLiteral }
func (String) Kind() LiteralKind { return StringLiteral }
func (Array) Kind() LiteralKind  { return ArrayLiteral }
func (Object) Kind() LiteralKind { return ObjectLiteral }

func (Bool) literal()   {}
func (Number) literal() {}
func (String) literal() {}
func (Array) literal()  {}
func (Object) literal() {}

// Equal reports whether two literals are structurally equal
func Equal(a, b Literal) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}

	switch av := a.(type) {
	case Bool:
		bv, ok := b.(Bool)
		return ok && av == bv
	case Number:
		bv, ok := b.(Number)
		return ok && av == bv
	case String:
		bv, ok := b.(String)
		return ok && av == bv
	case Array:
		bv, ok := b.(Array)
		if !ok || len(av) != len(bv) {
			return false
		}
		for i := range av {
			if !Equal(av[i], bv[i]) {
				return false
			}
		}
		return true
	case Object:
		bv, ok := b.(Object)
		if !ok || len(av) != len(bv) {
			return false
		}
		for key, value := range av {
			other, exists := bv[key]
			if !exists || !Equal(value, other) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// Clone returns a deep copy of l; arrays and objects share no storage
// with the original.
func Clone(l Literal) Literal {
	switch v := l.(type) {
	case Array:
		out := make(Array, len(v))
		for i, item := range v {
			out[i] = Clone(item)
		}
		return out
	case Object:
		out := make(Object, len(v))
		for key, item := range v {
			out[key] = Clone(item)
		}
		return out
	default:
		return l
	}
}

func cloneAll(literals []Literal) []Literal {
	out := make([]Literal, len(literals))
	for i, l := range literals {
		out[i] = Clone(l)
	}
	return out
}

// Native converts a literal into plain Go values: bool, float64, string,
// []any and map[string]any.
func Native(l Literal) any {
	switch v := l.(type) {
	case nil:
		return nil
	case Bool:
		return bool(v)
	case Number:
		return float64(v)
	case String:
		return string(v)
	case Array:
		out := make([]any, len(v))
		for i, item := range v {
			out[i] = Native(item)
		}
		return out
	case Object:
		out := make(map[string]any, len(v))
		for key, item := range v {
			out[key] = Native(item)
		}
		return out
	default:
		panic(fmt.Sprintf("specs: unknown literal type %T", l))
	}
}
