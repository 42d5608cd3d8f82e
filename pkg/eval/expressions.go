package eval

import (
	"strings"

	"github.com/cibere/safulate-go/pkg/ast"
	"github.com/cibere/safulate-go/pkg/value"
)

// eval evaluates a single expression node to a runtime Value. Runtime
// failures are signaled by panicking a *value.Error (see signals.go), caught
// at the nearest try/catch or at Interpreter.Run's top-level recover.
func (ev *evaluator) eval(n ast.Node) value.Value {
	switch e := n.(type) {
	case *ast.Identifier:
		return ev.evalIdentifier(e)
	case *ast.NumberLiteral:
		num, err := value.NumberFromString(e.Value)
		if err != nil {
			raise(runtimeErrorf(value.ErrSyntax, e.GetRange(), "invalid number literal %q", e.Value))
		}
		return num
	case *ast.StringLiteral:
		return value.NewString(e.Value)
	case *ast.BooleanLiteral:
		return value.NewBoolean(e.Value)
	case *ast.NullLiteral:
		return value.Nil
	case *ast.ListLiteral:
		items := make([]value.Value, len(e.Elements))
		for i, el := range e.Elements {
			items[i] = ev.eval(el)
		}
		return value.NewList(items)
	case *ast.FStringLiteral:
		return ev.evalFString(e)
	case *ast.UnaryOp:
		return ev.evalUnaryOp(e)
	case *ast.BinaryOp:
		return ev.evalBinaryOp(e)
	case *ast.Call:
		return ev.evalCall(e)
	case *ast.Subscript:
		return ev.evalSubscript(e)
	case *ast.Attribute:
		return ev.evalAttribute(e)
	case *ast.Assignment:
		// Assignment is a statement form in most contexts, but the grammar
		// allows it in expression position (e.g. a parenthesized `(y = 1)`
		// used as a call argument); evaluating it runs the write and yields
		// the assigned value.
		v := ev.eval(e.Value)
		ev.assignTo(e.Target, v)
		return v
	}
	raise(runtimeErrorf(value.ErrSyntax, n.GetRange(), "unsupported expression node %T", n))
	panic("unreachable")
}

func (ev *evaluator) evalIdentifier(e *ast.Identifier) value.Value {
	v, ok := ev.env.Lookup(e.Name)
	if !ok {
		raise(runtimeErrorf(value.ErrName, e.GetRange(), "name %q is not defined", e.Name))
	}
	return v
}

// stringify renders a Value for f-string interpolation: a String's raw text
// (no quoting), the `repr` spec if the value is an Object defining one,
// otherwise the Value's default Repr().
func (ev *evaluator) stringify(v value.Value) string {
	if s, ok := v.(*value.String); ok {
		return s.S
	}
	if obj, ok := v.(*value.Object); ok {
		if fn, ok := obj.GetSpec("repr"); ok {
			result := ev.invokeFunction(fn, callArgs{})
			if s, ok := result.(*value.String); ok {
				return s.S
			}
			return result.Repr()
		}
	}
	return v.Repr()
}

func (ev *evaluator) evalFString(e *ast.FStringLiteral) value.Value {
	var sb strings.Builder
	for _, seg := range e.Segments {
		if seg.Expr == nil {
			sb.WriteString(seg.Text)
			continue
		}
		sb.WriteString(ev.stringify(ev.eval(seg.Expr)))
	}
	return value.NewString(sb.String())
}

// evalSubscript implements `base[a, b, ...]`'s runtime disambiguation
// between index access and partial application (spec.md §4.3): callable
// bases get partially applied, everything else dispatches `get`/list
// indexing.
func (ev *evaluator) evalSubscript(n *ast.Subscript) value.Value {
	base := ev.eval(n.Base)
	args := make([]value.Value, len(n.Args))
	for i, a := range n.Args {
		args[i] = ev.eval(a)
	}

	if callable, ok := base.(value.Callable); ok {
		return value.NewPartial(callable, args)
	}

	if obj, ok := base.(*value.Object); ok {
		if fn, ok := obj.GetSpec("get"); ok {
			return ev.invokeFunction(fn, callArgs{positional: args})
		}
	}
	if l, ok := base.(*value.List); ok && len(args) == 1 {
		idx, ok := args[0].(*value.Number)
		if !ok {
			raise(runtimeErrorf(value.ErrType, n.GetRange(), "list index must be a number"))
		}
		i := int(idx.D.IntPart())
		if i < 0 || i >= len(l.Items) {
			raise(runtimeErrorf(value.ErrValue, n.GetRange(), "list index out of range"))
		}
		return l.Items[i]
	}
	if s, ok := base.(*value.String); ok && len(args) == 1 {
		idx, ok := args[0].(*value.Number)
		if !ok {
			raise(runtimeErrorf(value.ErrType, n.GetRange(), "string index must be a number"))
		}
		runes := []rune(s.S)
		i := int(idx.D.IntPart())
		if i < 0 || i >= len(runes) {
			raise(runtimeErrorf(value.ErrValue, n.GetRange(), "string index out of range"))
		}
		return value.NewString(string(runes[i]))
	}
	raise(runtimeErrorf(value.ErrType, n.GetRange(), "%s does not support indexing", base.Kind()))
	panic("unreachable")
}

// evalAttribute implements `obj.name` read semantics (spec.md §4.3): public
// namespace only, Property getters auto-invoked, Functions bound to obj at
// read time (late binding, §9).
func (ev *evaluator) evalAttribute(n *ast.Attribute) value.Value {
	base := ev.eval(n.Base)
	obj, ok := base.(*value.Object)
	if !ok {
		raise(runtimeErrorf(value.ErrAttribute, n.GetRange(), "cannot read attribute %s of a %s", n.Name, base.Kind()))
	}
	v, ok := obj.Pub[n.Name]
	if !ok {
		raise(runtimeErrorf(value.ErrAttribute, n.GetRange(), "object has no attribute %q", n.Name))
	}
	switch attr := v.(type) {
	case *value.Function:
		return attr.BindTo(obj)
	case *value.Property:
		return ev.invokeFunction(attr.Getter, callArgs{})
	default:
		return v
	}
}
