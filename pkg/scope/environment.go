// Package scope implements Safulate's Environment: a chain of lexical,
// object-bound, and call frames supporting declare/assign/delete/lookup per
// spec.md §4.4.
package scope

import (
	"github.com/cibere/safulate-go/pkg/ast"
	"github.com/cibere/safulate-go/pkg/value"
)

// frameKind distinguishes the three frame shapes from §3 "Environment".
type frameKind int

const (
	frameLexical frameKind = iota
	frameObjectBound
	frameCall
)

// Environment is one frame in the chain plus a link to its parent. It
// implements value.Environment so Function.CapturedEnv can hold one without
// pkg/value importing pkg/scope.
type Environment struct {
	kind   frameKind
	vars   map[string]value.Value
	parent *Environment

	// bound is set for frameObjectBound: declarations route to its
	// namespaces instead of vars.
	bound *value.Object

	// callParent/callFunc are set for frameCall (§3 "call frame").
	callParent *value.Object
	callFunc   *value.Function
}

// NewRoot creates the top-level lexical frame with no parent.
func NewRoot() *Environment {
	return &Environment{kind: frameLexical, vars: make(map[string]value.Value)}
}

// Child returns a new lexical frame nested under e (used for block scopes,
// loop bodies, and any plain `{ }`). Satisfies value.Environment, which is
// why it returns the interface rather than *Environment; callers that need
// the concrete type (pkg/eval, wiring NewObjectBound/NewCall/etc.) should
// use ChildEnv instead.
func (e *Environment) Child() value.Environment {
	return e.ChildEnv()
}

// ChildEnv is Child's concrete-typed counterpart, for callers within this
// module's dependency graph (pkg/eval) that need the full *Environment API.
func (e *Environment) ChildEnv() *Environment {
	return &Environment{kind: frameLexical, vars: make(map[string]value.Value), parent: e}
}

// NewObjectBound returns a frame whose pub/priv/spec declarations route
// into obj's namespaces, per the edit-block semantics of §4.3; var/let
// declarations skip it and go to the nearest frame with its own variables.
func (e *Environment) NewObjectBound(obj *value.Object) *Environment {
	return &Environment{kind: frameObjectBound, bound: obj, parent: e}
}

// NewCall returns a frame for a function invocation: parent is the
// function's captured environment (not the caller), per §4.4's closure
// rule; callParent is the late-bound method receiver, if any.
func (e *Environment) NewCall(fn *value.Function, callParent *value.Object) *Environment {
	return &Environment{
		kind:       frameCall,
		vars:       make(map[string]value.Value),
		parent:     e,
		callParent: callParent,
		callFunc:   fn,
	}
}

// Declare installs name in the innermost declaring frame per kind: var/let
// always go to the nearest lexical-or-call frame's vars (declareLocal skips
// over any object-bound frames in between, since those own no vars map);
// pub/priv walk outward to the nearest object-bound frame the same way
// BoundObject and DeclareSpec do, so a `pub`/`priv` declaration written
// anywhere inside a `~` edit block or struct/type body — including inside a
// nested `{ }` block, which execBlock always wraps in a fresh lexical
// frame — still lands on the object rather than being shadowed as a
// block-local variable.
func (e *Environment) Declare(kind ast.DeclKind, name string, v value.Value) error {
	switch kind {
	case ast.DeclPub:
		for f := e; f != nil; f = f.parent {
			if f.kind == frameObjectBound {
				f.bound.Pub[name] = v
				return nil
			}
		}
		return value.NewError(value.ErrName, "pub declaration outside edit block: "+name)
	case ast.DeclPriv:
		for f := e; f != nil; f = f.parent {
			if f.kind == frameObjectBound {
				f.bound.Priv[name] = v
				return nil
			}
		}
		return value.NewError(value.ErrName, "priv declaration outside edit block: "+name)
	default:
		return e.declareLocal(name, v)
	}
}

// declareLocal walks outward to the nearest frame that owns a vars map
// (lexical or call), since object-bound frames have none.
func (e *Environment) declareLocal(name string, v value.Value) error {
	for f := e; f != nil; f = f.parent {
		if f.vars != nil {
			f.vars[name] = v
			return nil
		}
	}
	return value.NewError(value.ErrName, "no enclosing frame to declare "+name+" in")
}

// DeclareSpec installs a spec on the current object-bound frame's target.
// Callers must ensure they are inside an edit block (pkg/eval checks this
// at the `spec` statement form).
func (e *Environment) DeclareSpec(name string, fn *value.Function) error {
	for f := e; f != nil; f = f.parent {
		if f.kind == frameObjectBound {
			f.bound.Specs[name] = fn
			return nil
		}
	}
	return value.NewError(value.ErrName, "spec declaration outside edit block: "+name)
}

// BoundObject returns the nearest enclosing object-bound frame's target, or
// nil if none is in scope — used to resolve bare-name priv/pub lookups and
// `func` method declarations inside an edit block.
func (e *Environment) BoundObject() *value.Object {
	for f := e; f != nil; f = f.parent {
		if f.kind == frameObjectBound {
			return f.bound
		}
	}
	return nil
}

// CallParent returns the late-bound method receiver for the nearest
// enclosing call frame, or nil if the current call is unbound.
func (e *Environment) CallParent() *value.Object {
	for f := e; f != nil; f = f.parent {
		if f.kind == frameCall {
			return f.callParent
		}
	}
	return nil
}

// Assign walks outward to the nearest existing binding and overwrites it.
// Per §4.4, assignment to an undeclared name is a NameError — it never
// creates a new binding, unlike Declare.
func (e *Environment) Assign(name string, v value.Value) error {
	for f := e; f != nil; f = f.parent {
		if f.kind == frameObjectBound {
			if _, ok := f.bound.Priv[name]; ok {
				f.bound.Priv[name] = v
				return nil
			}
			if _, ok := f.bound.Pub[name]; ok {
				f.bound.Pub[name] = v
				return nil
			}
			continue
		}
		if f.vars != nil {
			if _, ok := f.vars[name]; ok {
				f.vars[name] = v
				return nil
			}
		}
	}
	return value.NewError(value.ErrName, "assignment to undeclared name: "+name)
}

// Delete removes name from the frame that owns it.
func (e *Environment) Delete(name string) error {
	for f := e; f != nil; f = f.parent {
		if f.kind == frameObjectBound {
			if _, ok := f.bound.Priv[name]; ok {
				delete(f.bound.Priv, name)
				return nil
			}
			if _, ok := f.bound.Pub[name]; ok {
				delete(f.bound.Pub, name)
				return nil
			}
			continue
		}
		if f.vars != nil {
			if _, ok := f.vars[name]; ok {
				delete(f.vars, name)
				return nil
			}
		}
	}
	return value.NewError(value.ErrName, "deletion of undeclared name: "+name)
}

// Lookup resolves name by searching the current frame chain: inside an
// object-bound frame, priv then pub are consulted before the enclosing
// lexical scope (§4.3 direct-identifier resolution order).
func (e *Environment) Lookup(name string) (value.Value, bool) {
	for f := e; f != nil; f = f.parent {
		if f.kind == frameObjectBound {
			if v, ok := f.bound.Priv[name]; ok {
				return v, true
			}
			if v, ok := f.bound.Pub[name]; ok {
				return v, true
			}
			continue
		}
		if f.vars != nil {
			if v, ok := f.vars[name]; ok {
				return v, true
			}
		}
	}
	return nil, false
}
