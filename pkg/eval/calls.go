package eval

import (
	"github.com/cibere/safulate-go/pkg/ast"
	"github.com/cibere/safulate-go/pkg/scope"
	"github.com/cibere/safulate-go/pkg/value"
)

// callArgs is the fully-evaluated, not-yet-bound argument set for one call,
// after spreads/keyword-spreads have been expanded per spec.md §4.3.
type callArgs struct {
	positional []value.Value
	keyword    map[string]value.Value
}

// evalArgs evaluates a call's argument list into a callArgs, expanding
// positional spreads (`..list`) and keyword spreads (`...dict`) and keeping
// dynamic-name keywords (`{:expr} = value`) for last, per the spec's
// "positionals, then keywords merged with keyword-spread, dynamic-name keyed
// last" binding order. Duplicate keyword names are an ArgumentError.
func (ev *evaluator) evalArgs(nodes []ast.Arg) callArgs {
	cargs := callArgs{keyword: make(map[string]value.Value)}

	addKeyword := func(name string, v value.Value, span *ast.Range) {
		if _, dup := cargs.keyword[name]; dup {
			raise(runtimeErrorf(value.ErrArgument, span, "duplicate keyword argument %q", name))
		}
		cargs.keyword[name] = v
	}

	var dynNames []ast.Arg
	for _, a := range nodes {
		switch a.Kind {
		case ast.ArgPositional:
			cargs.positional = append(cargs.positional, ev.eval(a.Value))
		case ast.ArgSpread:
			spread := ev.eval(a.Value)
			list, ok := spread.(*value.List)
			if !ok {
				raise(runtimeErrorf(value.ErrArgument, a.Value.GetRange(), "spread argument must be a list, got %s", spread.Kind()))
			}
			cargs.positional = append(cargs.positional, list.Items...)
		case ast.ArgKeyword:
			addKeyword(a.Name, ev.eval(a.Value), a.Value.GetRange())
		case ast.ArgKeywordSpread:
			dict := ev.eval(a.Value)
			obj, ok := dict.(*value.Object)
			if !ok {
				raise(runtimeErrorf(value.ErrArgument, a.Value.GetRange(), "keyword-spread argument must be a dict/object, got %s", dict.Kind()))
			}
			for k, v := range obj.Pub {
				addKeyword(k, v, a.Value.GetRange())
			}
		case ast.ArgDynamicKeyword:
			dynNames = append(dynNames, a)
		}
	}

	for _, a := range dynNames {
		nameVal := ev.eval(a.NameExpr)
		s, ok := nameVal.(*value.String)
		if !ok {
			raise(runtimeErrorf(value.ErrArgument, a.NameExpr.GetRange(), "dynamic keyword name must be a string, got %s", nameVal.Kind()))
		}
		addKeyword(s.S, ev.eval(a.Value), a.Value.GetRange())
	}

	return cargs
}

func (ev *evaluator) evalCall(n *ast.Call) value.Value {
	callee := ev.eval(n.Callee)
	cargs := ev.evalArgs(n.Args)
	return ev.dispatchCall(callee, cargs, n.GetRange())
}

// dispatchCall resolves callee to something invocable and runs it, unwrapping
// Partial pre-bound args and BuiltinType construction along the way.
func (ev *evaluator) dispatchCall(callee value.Value, cargs callArgs, span *ast.Range) value.Value {
	switch c := callee.(type) {
	case *value.Function:
		return ev.invokeFunction(c, cargs)
	case *value.Partial:
		merged := callArgs{
			positional: append(append([]value.Value{}, c.Args...), cargs.positional...),
			keyword:    cargs.keyword,
		}
		return ev.dispatchCall(c.Target, merged, span)
	case *value.BuiltinType:
		if c.Construct == nil {
			raise(runtimeErrorf(value.ErrType, span, "type %s is not constructible", c.Name))
		}
		result, err := c.Construct(cargs.positional)
		if err != nil {
			raise(runtimeErrorf(value.ErrValue, span, "%s", err.Error()))
		}
		return result
	case *value.Object:
		if fn, ok := c.GetSpec("call"); ok {
			return ev.invokeFunction(fn.BindTo(c), cargs)
		}
		raise(runtimeErrorf(value.ErrType, span, "object is not callable"))
	}
	raise(runtimeErrorf(value.ErrType, span, "value of kind %s is not callable", callee.Kind()))
	panic("unreachable")
}

// invokeFunction binds cargs to fn's parameters and runs its body in a fresh
// call frame (or, for a Native function, calls straight through).
func (ev *evaluator) invokeFunction(fn *value.Function, cargs callArgs) value.Value {
	if fn.Native != nil {
		result, err := fn.Native(value.NativeArgs{Positional: cargs.positional, Keyword: cargs.keyword})
		if err != nil {
			if verr, ok := err.(*value.Error); ok {
				raise(verr)
			}
			raise(value.NewError(value.ErrType, err.Error()))
		}
		return result
	}

	capturedEnv, ok := fn.CapturedEnv.(*scope.Environment)
	if !ok {
		raise(value.NewError(value.ErrName, "function "+fn.Name+" has no captured environment"))
	}

	bound := bindParams(fn, cargs, ev)

	if ev.depth+1 > maxRecursionDepth {
		raise(value.NewError(value.ErrStackOverflow, "max recursion depth exceeded calling "+fn.Name))
	}

	callFrame := capturedEnv.NewCall(fn, fn.Parent)
	for i, p := range fn.Params {
		callFrame.Declare(ast.DeclVar, p.Name, bound[i])
	}

	callEv := &evaluator{interp: ev.interp, env: callFrame, depth: ev.depth + 1}
	return callEv.runCallBody(fn.Body)
}

// bindParams matches a call's positional/keyword arguments to fn's
// parameter list per spec.md §4.3's binding order: positionals first (in
// source order), then keywords, then defaults (evaluated in the function's
// own captured environment, not the caller's).
func bindParams(fn *value.Function, cargs callArgs, caller *evaluator) []value.Value {
	bound := make([]value.Value, len(fn.Params))
	remaining := cargs.positional
	used := make(map[string]bool, len(cargs.keyword))

	for i, p := range fn.Params {
		switch {
		case len(remaining) > 0:
			bound[i] = remaining[0]
			remaining = remaining[1:]
		case func() bool { _, ok := cargs.keyword[p.Name]; return ok }():
			bound[i] = cargs.keyword[p.Name]
			used[p.Name] = true
		case p.Default != nil:
			defaultEnv, ok := fn.CapturedEnv.(*scope.Environment)
			if !ok {
				raise(value.NewError(value.ErrName, "function "+fn.Name+" has no captured environment"))
			}
			defEv := &evaluator{interp: caller.interp, env: defaultEnv, depth: caller.depth}
			bound[i] = defEv.eval(p.Default)
		default:
			raise(value.NewError(value.ErrArgument, "missing required argument "+p.Name+" to "+fn.Name))
		}
	}

	if len(remaining) > 0 {
		raise(value.NewError(value.ErrArgument, "too many positional arguments to "+fn.Name))
	}
	for name := range cargs.keyword {
		if !used[name] {
			raise(value.NewError(value.ErrArgument, "unexpected keyword argument "+name+" to "+fn.Name))
		}
	}

	return bound
}

// runCallBody executes a function body and unwraps a returnSignal into its
// carried value; a body that completes without `return` yields null.
func (ev *evaluator) runCallBody(body ast.Node) (result value.Value) {
	result = value.Nil
	defer func() {
		if r := recover(); r != nil {
			if sig, ok := r.(returnSignal); ok {
				result = sig.Value
				return
			}
			panic(r)
		}
	}()
	ev.execStmt(body)
	return result
}
