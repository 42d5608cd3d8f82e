package eval

import (
	"github.com/cibere/safulate-go/pkg/ast"
	"github.com/cibere/safulate-go/pkg/value"
)

// binarySpecNames maps a surface operator to the spec name dispatched on
// its left operand, per spec.md §4.3. `&&`/`||` are ordinary short-circuit
// booleans handled separately in evalBinaryOp, not dispatched through specs.
var binarySpecNames = map[string]string{
	"+":        "add",
	"-":        "sub",
	"*":        "mul",
	"/":        "div",
	"**":       "pow",
	"==":       "eq",
	"!=":       "ne",
	"<":        "lt",
	"<=":       "le",
	">":        "gt",
	">=":       "ge",
	"|":        "or",
	"&":        "and",
	"contains": "contains",
}

func (ev *evaluator) evalBinaryOp(n *ast.BinaryOp) value.Value {
	// Short-circuit forms never evaluate the right side unconditionally.
	switch n.Operator {
	case "&&":
		left := ev.eval(n.Left)
		if !left.Truthy() {
			return left
		}
		return ev.eval(n.Right)
	case "||":
		left := ev.eval(n.Left)
		if left.Truthy() {
			return left
		}
		return ev.eval(n.Right)
	case "in":
		// `x in y` dispatches y.contains(x).
		x := ev.eval(n.Left)
		y := ev.eval(n.Right)
		return ev.dispatchBinary("contains", y, x, n.GetRange())
	}

	left := ev.eval(n.Left)
	right := ev.eval(n.Right)
	return ev.dispatchBinary(n.Operator, left, right, n.GetRange())
}

// dispatchBinary looks up a user-defined spec on the left operand first,
// falling back to the builtin default implementation for scalar/list kinds.
func (ev *evaluator) dispatchBinary(op string, left, right value.Value, span *ast.Range) value.Value {
	specName, ok := binarySpecNames[op]
	if !ok {
		raise(runtimeErrorf(value.ErrType, span, "unknown operator %q", op))
	}

	if obj, ok := left.(*value.Object); ok {
		if fn, ok := obj.GetSpec(specName); ok {
			return ev.invokeFunction(fn, callArgs{positional: []value.Value{right}})
		}
	}

	result, err := defaultBinaryOp(specName, left, right)
	if err != nil {
		raise(runtimeErrorf(value.ErrType, span, "%s", err.Error()))
	}
	return result
}

func (ev *evaluator) evalUnaryOp(n *ast.UnaryOp) value.Value {
	operand := ev.eval(n.Operand)

	specName := map[string]string{"+": "pos", "-": "neg", "!": "not"}[n.Operator]
	if specName == "" {
		raise(runtimeErrorf(value.ErrType, n.GetRange(), "unknown unary operator %q", n.Operator))
	}

	if obj, ok := operand.(*value.Object); ok {
		if fn, ok := obj.GetSpec(specName); ok {
			return ev.invokeFunction(fn, callArgs{})
		}
	}

	result, err := defaultUnaryOp(specName, operand)
	if err != nil {
		raise(runtimeErrorf(value.ErrType, n.GetRange(), "%s", err.Error()))
	}
	return result
}

// specEq compares two values using the `eq` spec when the left operand is
// an Object with one defined; otherwise falls back to structural/identity
// equality per spec.md §9 Open Question (c) (no eq spec => identity).
func (ev *evaluator) specEq(a, b value.Value) bool {
	if obj, ok := a.(*value.Object); ok {
		if fn, ok := obj.GetSpec("eq"); ok {
			result := ev.invokeFunction(fn, callArgs{positional: []value.Value{b}})
			return result.Truthy()
		}
	}
	r, err := defaultBinaryOp("eq", a, b)
	if err != nil {
		return a == b
	}
	return r.Truthy()
}
