// Package value implements Safulate's runtime value model: scalars, lists,
// objects with their three namespaces, functions, properties, partial
// applications, and builtin types.
package value

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Kind tags a Value's runtime type.
type Kind string

const (
	KindNumber      Kind = "number"
	KindString      Kind = "string"
	KindBoolean     Kind = "boolean"
	KindNull        Kind = "null"
	KindList        Kind = "list"
	KindObject      Kind = "object"
	KindFunction    Kind = "function"
	KindProperty    Kind = "property"
	KindPartial     Kind = "partial"
	KindBuiltinType Kind = "builtinType"
)

// Value is the interface every runtime value implements.
type Value interface {
	Kind() Kind
	Truthy() bool
	Repr() string
}

// Number wraps an arbitrary-precision decimal so equality/ordering match
// "host numeric rules" exactly rather than IEEE double rounding.
type Number struct {
	D decimal.Decimal
}

func NewNumber(d decimal.Decimal) *Number { return &Number{D: d} }

func NumberFromInt(i int64) *Number { return &Number{D: decimal.NewFromInt(i)} }

func NumberFromString(s string) (*Number, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return nil, err
	}
	return &Number{D: d}, nil
}

func (n *Number) Kind() Kind      { return KindNumber }
func (n *Number) Truthy() bool    { return !n.D.IsZero() }
func (n *Number) Repr() string    { return n.D.String() }

// String is an immutable UTF-8 string.
type String struct {
	S string
}

func NewString(s string) *String { return &String{S: s} }

func (s *String) Kind() Kind   { return KindString }
func (s *String) Truthy() bool { return s.S != "" }
func (s *String) Repr() string { return fmt.Sprintf("%q", s.S) }

// Boolean is true/false.
type Boolean struct {
	B bool
}

var (
	True  = &Boolean{B: true}
	False = &Boolean{B: false}
)

func NewBoolean(b bool) *Boolean {
	if b {
		return True
	}
	return False
}

func (b *Boolean) Kind() Kind   { return KindBoolean }
func (b *Boolean) Truthy() bool { return b.B }
func (b *Boolean) Repr() string { return fmt.Sprintf("%t", b.B) }

// Null is the sole null value.
type Null struct{}

var Nil = &Null{}

func (n *Null) Kind() Kind   { return KindNull }
func (n *Null) Truthy() bool { return false }
func (n *Null) Repr() string { return "null" }

// List is an ordered, mutable, identity-compared sequence.
type List struct {
	Items []Value
}

func NewList(items []Value) *List { return &List{Items: items} }

func (l *List) Kind() Kind   { return KindList }
func (l *List) Truthy() bool { return len(l.Items) > 0 }
func (l *List) Repr() string {
	parts := make([]string, len(l.Items))
	for i, v := range l.Items {
		parts[i] = v.Repr()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// Object carries the three disjoint namespaces (public, private, specs) plus
// optional parent linkage used for late-bound method resolution.
type Object struct {
	Pub   map[string]Value
	Priv  map[string]Value
	Specs map[string]*Function
	// Parent is not set by the evaluator: attribute-read method binding
	// records the receiver on the bound Function's Parent instead.
	Parent *Object
	// TypeTag names the struct/type constructor that produced this
	// object, if any; used for diagnostics and default repr.
	TypeTag string
}

func NewObject() *Object {
	return &Object{
		Pub:   make(map[string]Value),
		Priv:  make(map[string]Value),
		Specs: make(map[string]*Function),
	}
}

func (o *Object) Kind() Kind   { return KindObject }
func (o *Object) Truthy() bool { return true }
func (o *Object) Repr() string {
	if o.TypeTag != "" {
		return fmt.Sprintf("<%s object>", o.TypeTag)
	}
	return "<object>"
}

// GetSpec looks up a spec by name, matching the operator-dispatch protocol
// of §4.3: only the object's own specs namespace is consulted.
func (o *Object) GetSpec(name string) (*Function, bool) {
	fn, ok := o.Specs[name]
	return fn, ok
}
