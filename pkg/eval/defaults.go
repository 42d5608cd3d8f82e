package eval

import (
	"fmt"
	"strings"

	"github.com/cibere/safulate-go/pkg/value"
)

// defaultBinaryOp implements the runtime's built-in spec behavior for
// scalars, strings, and lists — the fallback used when the left operand is
// not an Object (or is one with no matching spec defined).
func defaultBinaryOp(spec string, left, right value.Value) (value.Value, error) {
	switch spec {
	case "add":
		return defaultAdd(left, right)
	case "sub":
		return numOp(spec, left, right, func(a, b value.Number) value.Value { return value.NewNumber(a.D.Sub(b.D)) })
	case "mul":
		if l, ok := left.(*value.String); ok {
			if n, ok := right.(*value.Number); ok {
				count := int(n.D.IntPart())
				if count < 0 {
					count = 0
				}
				return value.NewString(strings.Repeat(l.S, count)), nil
			}
		}
		return numOp(spec, left, right, func(a, b value.Number) value.Value { return value.NewNumber(a.D.Mul(b.D)) })
	case "div":
		return numOp(spec, left, right, func(a, b value.Number) value.Value {
			return value.NewNumber(a.D.Div(b.D))
		})
	case "pow":
		return numOp(spec, left, right, func(a, b value.Number) value.Value {
			return value.NewNumber(a.D.Pow(b.D))
		})
	case "eq":
		return value.NewBoolean(valuesEqual(left, right)), nil
	case "ne":
		return value.NewBoolean(!valuesEqual(left, right)), nil
	case "lt", "le", "gt", "ge":
		return compareNumbers(spec, left, right)
	case "or":
		return value.NewBoolean(left.Truthy() || right.Truthy()), nil
	case "and":
		return value.NewBoolean(left.Truthy() && right.Truthy()), nil
	case "contains":
		return defaultContains(left, right)
	}
	return nil, fmt.Errorf("no default implementation for operator %q between %s and %s", spec, left.Kind(), right.Kind())
}

func defaultAdd(left, right value.Value) (value.Value, error) {
	if l, ok := left.(*value.String); ok {
		if r, ok := right.(*value.String); ok {
			return value.NewString(l.S + r.S), nil
		}
		return nil, fmt.Errorf("cannot add %s to string", right.Kind())
	}
	if l, ok := left.(*value.List); ok {
		if r, ok := right.(*value.List); ok {
			combined := make([]value.Value, 0, len(l.Items)+len(r.Items))
			combined = append(combined, l.Items...)
			combined = append(combined, r.Items...)
			return value.NewList(combined), nil
		}
		return nil, fmt.Errorf("cannot add %s to list", right.Kind())
	}
	return numOp("add", left, right, func(a, b value.Number) value.Value { return value.NewNumber(a.D.Add(b.D)) })
}

func numOp(spec string, left, right value.Value, f func(a, b value.Number) value.Value) (value.Value, error) {
	l, lok := left.(*value.Number)
	r, rok := right.(*value.Number)
	if !lok || !rok {
		return nil, fmt.Errorf("operator %q requires two numbers, got %s and %s", spec, left.Kind(), right.Kind())
	}
	return f(*l, *r), nil
}

func compareNumbers(spec string, left, right value.Value) (value.Value, error) {
	l, lok := left.(*value.Number)
	r, rok := right.(*value.Number)
	if !lok || !rok {
		return nil, fmt.Errorf("operator %q requires two numbers, got %s and %s", spec, left.Kind(), right.Kind())
	}
	cmp := l.D.Cmp(r.D)
	var b bool
	switch spec {
	case "lt":
		b = cmp < 0
	case "le":
		b = cmp <= 0
	case "gt":
		b = cmp > 0
	case "ge":
		b = cmp >= 0
	}
	return value.NewBoolean(b), nil
}

func defaultContains(container, item value.Value) (value.Value, error) {
	switch c := container.(type) {
	case *value.List:
		for _, v := range c.Items {
			if valuesEqual(v, item) {
				return value.True, nil
			}
		}
		return value.False, nil
	case *value.String:
		s, ok := item.(*value.String)
		if !ok {
			return nil, fmt.Errorf("contains on a string requires a string argument, got %s", item.Kind())
		}
		return value.NewBoolean(strings.Contains(c.S, s.S)), nil
	}
	return nil, fmt.Errorf("%s has no default contains behavior", container.Kind())
}

// defaultUnaryOp implements the built-in `neg`/`pos`/`not` behavior.
func defaultUnaryOp(spec string, operand value.Value) (value.Value, error) {
	switch spec {
	case "not":
		return value.NewBoolean(!operand.Truthy()), nil
	case "neg":
		if n, ok := operand.(*value.Number); ok {
			return value.NewNumber(n.D.Neg()), nil
		}
		return nil, fmt.Errorf("cannot negate %s", operand.Kind())
	case "pos":
		if n, ok := operand.(*value.Number); ok {
			return n, nil
		}
		return nil, fmt.Errorf("unary + is not defined for %s", operand.Kind())
	}
	return nil, fmt.Errorf("no default implementation for unary operator %q", spec)
}

// valuesEqual implements spec.md §9 Open Question (c): objects with no eq
// spec compare by identity; scalars compare by value.
func valuesEqual(a, b value.Value) bool {
	switch av := a.(type) {
	case *value.Number:
		bv, ok := b.(*value.Number)
		return ok && av.D.Equal(bv.D)
	case *value.String:
		bv, ok := b.(*value.String)
		return ok && av.S == bv.S
	case *value.Boolean:
		bv, ok := b.(*value.Boolean)
		return ok && av.B == bv.B
	case *value.Null:
		_, ok := b.(*value.Null)
		return ok
	default:
		return a == b
	}
}
