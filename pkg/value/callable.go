package value

import "github.com/cibere/safulate-go/pkg/ast"

// Environment is the subset of pkg/scope.Environment that the value layer
// needs (a Function's captured environment). Declared here rather than
// imported directly to avoid a value<->scope import cycle: scope depends on
// value for its frame maps, so value cannot depend back on scope.
type Environment interface {
	Declare(kind ast.DeclKind, name string, v Value) error
	Assign(name string, v Value) error
	Lookup(name string) (Value, bool)
	Delete(name string) error
	Child() Environment
}

// Callable is implemented by Function, Partial and BuiltinType. Property is
// not a Callable; its getter is invoked on attribute read.
type Callable interface {
	Value
	CallableName() string
}

// Param mirrors ast.Param at the value layer: a parameter name plus an
// optional default expression evaluated lazily in the function's captured
// environment at call time.
type Param struct {
	Name    string
	Default ast.Node
}

// NativeArgs is the argument set passed to a Function's Native
// implementation: the bound positional values plus the raw keyword map, so
// a builtin like dict(**kwargs) can see keyword arguments directly rather
// than only a flattened positional list.
type NativeArgs struct {
	Positional []Value
	Keyword    map[string]Value
}

// Function is a user-defined or builtin callable: its parameter list,
// body AST, the environment it closed over, and — once read off an object's
// public namespace — the parent it is late-bound to.
type Function struct {
	Name        string
	Params      []Param
	Body        ast.Node
	CapturedEnv Environment
	// Parent is set when this Function is a bound-method view created at
	// attribute-read time (§4.3 "method binding"); nil for free functions.
	Parent *Object
	// Native, when non-nil, makes this a builtin: it is invoked instead of
	// walking Body. Used by pkg/builtins.
	Native func(args NativeArgs) (Value, error)
}

func (f *Function) Kind() Kind          { return KindFunction }
func (f *Function) Truthy() bool        { return true }
func (f *Function) Repr() string        { return "<func " + f.Name + ">" }
func (f *Function) CallableName() string { return f.Name }

// BindTo returns a bound-method view of f with Parent set to obj. Per §9's
// design note, binding happens at attribute-read time, never by mutating
// the stored function.
func (f *Function) BindTo(obj *Object) *Function {
	bound := *f
	bound.Parent = obj
	return &bound
}

// Property wraps a zero-argument Function; read dispatches it automatically.
type Property struct {
	Getter *Function
	Setter *Function // nil if the property has no setter form
}

func (p *Property) Kind() Kind   { return KindProperty }
func (p *Property) Truthy() bool { return true }
func (p *Property) Repr() string { return "<property>" }

// Partial is a callable with some leading positional arguments pre-applied
// (`f[a, b]`). Pub is populated at construction with without_partials/
// partial_args so the two are readable as ordinary attributes.
type Partial struct {
	Target Callable
	Args   []Value
	Pub    map[string]Value
}

func NewPartial(target Callable, boundArgs []Value) *Partial {
	p := &Partial{Target: target, Args: boundArgs}
	p.Pub = map[string]Value{
		"without_partials": &Function{
			Name: "without_partials",
			Native: func(args NativeArgs) (Value, error) {
				return target, nil
			},
		},
		"partial_args": NewList(append([]Value{}, boundArgs...)),
	}
	return p
}

func (p *Partial) Kind() Kind          { return KindPartial }
func (p *Partial) Truthy() bool        { return true }
func (p *Partial) Repr() string        { return "<partial of " + p.Target.CallableName() + ">" }
func (p *Partial) CallableName() string { return p.Target.CallableName() }

// BuiltinType exposes a runtime type-check predicate and optional
// construction, implementing the `types.*` contract §6 requires.
type BuiltinType struct {
	Name      string
	CheckFn   func(v Value) bool
	Construct func(args []Value) (Value, error)
}

func (t *BuiltinType) Kind() Kind          { return KindBuiltinType }
func (t *BuiltinType) Truthy() bool        { return true }
func (t *BuiltinType) Repr() string        { return "<type " + t.Name + ">" }
func (t *BuiltinType) CallableName() string { return t.Name }

// Check implements the `check(v) -> 0|1` contract as a Go bool; callers at
// the builtins boundary convert to the observable 0/1 Number.
func (t *BuiltinType) Check(v Value) bool {
	if t.CheckFn == nil {
		return false
	}
	return t.CheckFn(v)
}
