package eval

import (
	"github.com/cibere/safulate-go/pkg/ast"
	"github.com/cibere/safulate-go/pkg/value"
)

// execStmt runs one statement. It returns (value, true) only for an
// ExpressionStatement or a Block (whose value is its own trailing value), so
// callers that care about a block's trailing value (the top-level Run
// result) can recover it; all other statement kinds return (nil, false).
func (ev *evaluator) execStmt(n ast.Node) (value.Value, bool) {
	switch s := n.(type) {
	case *ast.Block:
		return ev.execBlock(s), true
	case *ast.ExpressionStatement:
		return ev.eval(s.Expression), true
	case *ast.Declaration:
		ev.execDeclaration(s)
	case *ast.Assignment:
		ev.execAssignment(s)
	case *ast.Deletion:
		if err := ev.env.Delete(s.Name); err != nil {
			raise(err.(*value.Error))
		}
	case *ast.If:
		ev.execIf(s)
	case *ast.While:
		ev.execWhile(s)
	case *ast.For:
		ev.execFor(s)
	case *ast.Break:
		ev.execBreak(s)
	case *ast.Continue:
		ev.execContinue(s)
	case *ast.Return:
		var v value.Value = value.Nil
		if s.Expr != nil {
			v = ev.eval(s.Expr)
		}
		panic(returnSignal{Value: v})
	case *ast.Raise:
		ev.execRaise(s)
	case *ast.Try:
		ev.execTry(s)
	case *ast.Switch:
		ev.execSwitch(s)
	case *ast.FuncDef:
		ev.execFuncDef(s)
	case *ast.StructDef:
		ev.execStructDef(s)
	case *ast.SpecDef:
		ev.execSpecDef(s)
	case *ast.TypeDef:
		ev.execTypeDef(s)
	case *ast.ObjectEdit:
		ev.execObjectEdit(s)
	case *ast.Req:
		ev.execReq(s)
	default:
		raise(runtimeErrorf(value.ErrSyntax, n.GetRange(), "unsupported statement node %T", n))
	}
	return nil, false
}

// execBlock runs a block's statements in a fresh lexical child frame and
// returns the value of its final expression statement, or null.
func (ev *evaluator) execBlock(b *ast.Block) value.Value {
	child := ev.withEnv(ev.env.ChildEnv())
	return child.runStatements(b.Statements)
}

// resolveNameNode evaluates a declaration/assignment target name, which is
// either a bare Identifier or a DynamicName (`{:expr}`) whose Expr yields
// the string name at runtime.
func (ev *evaluator) resolveNameNode(n ast.Node) string {
	switch t := n.(type) {
	case *ast.Identifier:
		return t.Name
	case *ast.DynamicName:
		v := ev.eval(t.Expr)
		s, ok := v.(*value.String)
		if !ok {
			raise(runtimeErrorf(value.ErrType, n.GetRange(), "dynamic name must evaluate to a string, got %s", v.Kind()))
		}
		return s.S
	}
	raise(runtimeErrorf(value.ErrSyntax, n.GetRange(), "invalid name form %T", n))
	panic("unreachable")
}

func (ev *evaluator) execDeclaration(d *ast.Declaration) {
	name := ev.resolveNameNode(d.Name)
	var v value.Value = value.Nil
	if d.Value != nil {
		v = ev.eval(d.Value)
	}
	if err := ev.env.Declare(d.Keyword, name, v); err != nil {
		raise(err.(*value.Error))
	}
}

func (ev *evaluator) execAssignment(a *ast.Assignment) {
	v := ev.eval(a.Value)
	ev.assignTo(a.Target, v)
}

// assignTo writes v to an assignment/expression target: a bare identifier
// (walks outward via Environment.Assign), an attribute write (legal only
// inside the matching edit block, per spec.md §4.3), or a subscript write
// (dispatches the `set` spec).
func (ev *evaluator) assignTo(target ast.Node, v value.Value) {
	switch t := target.(type) {
	case *ast.Identifier:
		if err := ev.env.Assign(t.Name, v); err != nil {
			raise(err.(*value.Error))
		}
	case *ast.Attribute:
		ev.assignAttribute(t, v)
	case *ast.Subscript:
		ev.assignSubscript(t, v)
	default:
		raise(runtimeErrorf(value.ErrSyntax, target.GetRange(), "invalid assignment target %T", target))
	}
}

func (ev *evaluator) assignAttribute(target *ast.Attribute, v value.Value) {
	base := ev.eval(target.Base)
	obj, ok := base.(*value.Object)
	if !ok {
		raise(runtimeErrorf(value.ErrAttribute, target.GetRange(), "cannot write attribute %s of a %s", target.Name, base.Kind()))
	}
	if ev.env.BoundObject() != obj {
		raise(runtimeErrorf(value.ErrAttribute, target.GetRange(), "attribute %s can only be written inside a ~ edit block", target.Name))
	}
	// A Property write calls its setter form if one was attached via the
	// `setter(...)` decorator factory; with no setter it fails outright
	// rather than clobbering the Property with a plain value (spec.md §3).
	if existing, ok := obj.Pub[target.Name].(*value.Property); ok {
		if existing.Setter == nil {
			raise(runtimeErrorf(value.ErrAttribute, target.GetRange(), "property %q has no setter", target.Name))
		}
		ev.invokeFunction(existing.Setter, callArgs{positional: []value.Value{v}})
		return
	}
	obj.Pub[target.Name] = v
}

func (ev *evaluator) assignSubscript(target *ast.Subscript, v value.Value) {
	base := ev.eval(target.Base)
	args := make([]value.Value, len(target.Args))
	for i, a := range target.Args {
		args[i] = ev.eval(a)
	}

	if obj, ok := base.(*value.Object); ok {
		if fn, ok := obj.GetSpec("set"); ok {
			ev.invokeFunction(fn, callArgs{positional: append(args, v)})
			return
		}
	}
	if l, ok := base.(*value.List); ok && len(args) == 1 {
		idx, ok := args[0].(*value.Number)
		if !ok {
			raise(runtimeErrorf(value.ErrType, target.GetRange(), "list index must be a number"))
		}
		i := int(idx.D.IntPart())
		if i < 0 || i >= len(l.Items) {
			raise(runtimeErrorf(value.ErrValue, target.GetRange(), "list index out of range"))
		}
		l.Items[i] = v
		return
	}
	raise(runtimeErrorf(value.ErrType, target.GetRange(), "%s does not support index assignment", base.Kind()))
}

func (ev *evaluator) execIf(n *ast.If) {
	if ev.eval(n.Condition).Truthy() {
		ev.execStmt(n.Then)
		return
	}
	if n.Else != nil {
		ev.execStmt(n.Else)
	}
}

// execWhile runs the loop body, re-evaluating the condition each iteration,
// catching break/continue signals aimed at this loop per spec.md §4.6.
func (ev *evaluator) execWhile(n *ast.While) {
	for ev.eval(n.Condition).Truthy() {
		if ev.runLoopBody(n.Body) {
			break
		}
	}
}

// execFor obtains an iterator via the default list/string behavior (no
// custom `iter` spec support yet — lists and strings are the only iterables
// the core currently produces) and binds n.Target to each element.
func (ev *evaluator) execFor(n *ast.For) {
	iter := ev.eval(n.Iter)
	items, err := iterableItems(iter)
	if err != nil {
		raise(runtimeErrorf(value.ErrType, n.Iter.GetRange(), "%s", err.Error()))
	}

	for _, item := range items {
		loopEnv := ev.env.ChildEnv()
		loopEnv.Declare(ast.DeclVar, n.Target, item)
		loopEv := ev.withEnv(loopEnv)
		if loopEv.runLoopBody(n.Body) {
			break
		}
	}
}

func iterableItems(v value.Value) ([]value.Value, error) {
	switch it := v.(type) {
	case *value.List:
		return it.Items, nil
	case *value.String:
		runes := []rune(it.S)
		items := make([]value.Value, len(runes))
		for i, r := range runes {
			items[i] = value.NewString(string(r))
		}
		return items, nil
	}
	return nil, runtimeErrorf(value.ErrType, nil, "%s is not iterable", v.Kind())
}

// runLoopBody executes one pass of a loop's body, recovering break/continue
// signals targeted at this loop. It reports whether the loop should stop.
func (ev *evaluator) runLoopBody(body ast.Node) (stop bool) {
	defer func() {
		r := recover()
		if r == nil {
			return
		}
		switch sig := r.(type) {
		case breakSignal:
			if sig.Depth <= 1 {
				stop = true
				return
			}
			panic(breakSignal{Depth: sig.Depth - 1})
		case continueSignal:
			if sig.Depth <= 1 {
				stop = false
				return
			}
			stop = true
			panic(continueSignal{Depth: sig.Depth - 1})
		default:
			panic(r)
		}
	}()
	ev.execStmt(body)
	return false
}

// execBreak/execContinue evaluate the optional depth argument (defaulting
// to 1) and panic with the matching signal; depth 0 is a documented no-op.
func (ev *evaluator) execBreak(n *ast.Break) {
	depth := ev.evalDepth(n.Depth)
	if depth <= 0 {
		return
	}
	panic(breakSignal{Depth: depth})
}

func (ev *evaluator) execContinue(n *ast.Continue) {
	depth := ev.evalDepth(n.Depth)
	if depth <= 0 {
		return
	}
	panic(continueSignal{Depth: depth})
}

func (ev *evaluator) evalDepth(n ast.Node) int {
	if n == nil {
		return 1
	}
	v := ev.eval(n)
	num, ok := v.(*value.Number)
	if !ok {
		raise(runtimeErrorf(value.ErrType, n.GetRange(), "break/continue depth must be a number"))
	}
	return int(num.D.IntPart())
}

func (ev *evaluator) execRaise(n *ast.Raise) {
	v := ev.eval(n.Expr)
	raise(value.NewUserRaised(v))
}

// execTry implements try/catch/else (spec.md §4.7) via defer/recover over a
// *value.Error panic, matching raises propagated by nested evaluation.
func (ev *evaluator) execTry(n *ast.Try) {
	caught := ev.runTryBody(n.Body)
	if caught == nil {
		if n.ElseBody != nil {
			ev.execStmt(n.ElseBody)
		}
		return
	}
	if !n.HasCatch {
		panic(caught)
	}

	catchEnv := ev.env.ChildEnv()
	if n.CatchName != "" {
		raisedValue := caught.Value
		if raisedValue == nil {
			raisedValue = value.NewString(caught.Message)
		}
		catchEnv.Declare(ast.DeclVar, n.CatchName, raisedValue)
	}
	ev.withEnv(catchEnv).execStmt(n.CatchBody)
}

func (ev *evaluator) runTryBody(body ast.Node) (caught *value.Error) {
	defer func() {
		if r := recover(); r != nil {
			verr, ok := r.(*value.Error)
			if !ok {
				panic(r)
			}
			caught = verr
		}
	}()
	ev.execStmt(body)
	return nil
}

// execSwitch evaluates the scrutinee once and runs the first case whose
// pattern compares equal via the `eq` spec; fall-through is driven by
// `continue N` inside the case body (spec.md §4.9), which this function
// catches directly. Any continue signal that reaches the switch, including
// what remains of a `continue N` from a loop nested in a case body, is taken
// here as fall-through; break signals are not caught and pass on to the
// nearest enclosing loop.
func (ev *evaluator) execSwitch(n *ast.Switch) {
	scrutinee := ev.eval(n.Scrutinee)

	i := 0
	for i < len(n.Cases) {
		pattern := ev.eval(n.Cases[i].Pattern)
		if !ev.specEq(scrutinee, pattern) {
			i++
			continue
		}
		for {
			advance, fellThrough := ev.runSwitchCase(n.Cases[i].Body)
			if !fellThrough {
				return
			}
			i += advance
			if i >= len(n.Cases) {
				return
			}
		}
	}
}

func (ev *evaluator) runSwitchCase(body ast.Node) (advance int, fellThrough bool) {
	defer func() {
		if r := recover(); r != nil {
			sig, ok := r.(continueSignal)
			if !ok {
				panic(r)
			}
			advance = sig.Depth
			fellThrough = true
		}
	}()
	ev.execStmt(body)
	return 0, false
}

func toValueParams(params []ast.Param) []value.Param {
	out := make([]value.Param, len(params))
	for i, p := range params {
		out[i] = value.Param{Name: p.Name, Default: p.Default}
	}
	return out
}

func (ev *evaluator) execFuncDef(n *ast.FuncDef) {
	fn := &value.Function{
		Name:        n.Name,
		Params:      toValueParams(n.Params),
		Body:        n.Body,
		CapturedEnv: ev.env,
	}

	var result value.Value = fn
	for _, d := range n.Decorators {
		deco := ev.eval(d)
		result = ev.dispatchCall(deco, callArgs{positional: []value.Value{result}}, n.GetRange())
	}

	if bound := ev.env.BoundObject(); bound != nil {
		// `func name(...) { ... }` inside an edit block declares a public
		// bound member — the fully decorated result (e.g. a Property for
		// `[property]`), not a local variable (spec.md §4.3).
		bound.Pub[n.Name] = result
		return
	}

	if err := ev.env.Declare(ast.DeclVar, n.Name, result); err != nil {
		raise(err.(*value.Error))
	}
}

func (ev *evaluator) execSpecDef(n *ast.SpecDef) {
	bound := ev.env.BoundObject()
	if bound == nil {
		raise(runtimeErrorf(value.ErrSyntax, n.GetRange(), "spec %s declared outside an edit block", n.Name))
	}
	fn := &value.Function{
		Name:        n.Name,
		Params:      toValueParams(n.Params),
		Body:        n.Body,
		CapturedEnv: ev.env,
	}
	bound.Specs[n.Name] = fn
}

// desugarAllocateAndEdit builds the synthetic body
// `var __o = object(); __o ~ { body }; return __o;` shared by struct and
// type-instance construction (spec.md §4.10).
func desugarAllocateAndEdit(body ast.Node) *ast.Block {
	oName := &ast.Identifier{BaseNode: ast.BaseNode{Type: ast.NodeIdent}, Name: "__o"}
	return &ast.Block{
		BaseNode: ast.BaseNode{Type: ast.NodeBlock},
		Statements: []ast.Node{
			&ast.Declaration{
				BaseNode: ast.BaseNode{Type: ast.NodeDecl},
				Keyword:  ast.DeclVar,
				Name:     oName,
				Value: &ast.Call{
					BaseNode: ast.BaseNode{Type: ast.NodeCall},
					Callee:   &ast.Identifier{BaseNode: ast.BaseNode{Type: ast.NodeIdent}, Name: "object"},
				},
			},
			&ast.ObjectEdit{
				BaseNode: ast.BaseNode{Type: ast.NodeObjectEdit},
				Target:   oName,
				Body:     body,
			},
			&ast.Return{BaseNode: ast.BaseNode{Type: ast.NodeReturn}, Expr: oName},
		},
	}
}

// execStructDef implements `struct Name(params) { body }` exactly as the
// equivalence in spec.md §4.10: a Function whose body allocates an object,
// edits it with the struct body, and returns it.
func (ev *evaluator) execStructDef(n *ast.StructDef) {
	fn := &value.Function{
		Name:        n.Name,
		Params:      toValueParams(n.Params),
		Body:        desugarAllocateAndEdit(n.Body),
		CapturedEnv: ev.env,
	}
	if err := ev.env.Declare(ast.DeclVar, n.Name, fn); err != nil {
		raise(err.(*value.Error))
	}
}

// execTypeDef implements the declarative `type Name { static } ->
// (fields...) { instance }` form (spec.md §4.10, documented experimental
// per §9 Open Question (a)): the type value is an Object whose `call` spec
// allocates+destructures+edits a fresh instance, and whose own namespace is
// edited directly by static-body — so `type.members`-style class operations
// read/write the same object the constructor closes over.
func (ev *evaluator) execTypeDef(n *ast.TypeDef) {
	typeObj := value.NewObject()
	typeObj.TypeTag = n.Name

	fieldParams := make([]ast.Param, len(n.Fields))
	for i, f := range n.Fields {
		fieldParams[i] = ast.Param{Name: f}
	}

	ctor := &value.Function{
		Name:        n.Name,
		Params:      toValueParams(fieldParams),
		Body:        desugarAllocateAndEdit(n.InstanceBody),
		CapturedEnv: ev.env,
	}
	typeObj.Specs["call"] = ctor

	if err := ev.env.Declare(ast.DeclVar, n.Name, typeObj); err != nil {
		raise(err.(*value.Error))
	}

	if n.StaticBody != nil {
		ev.runObjectEdit(typeObj, n.StaticBody)
	}
}

// execObjectEdit runs `target ~ { body }`: pushes an object-bound frame over
// the evaluated target and runs body against it (spec.md §4.3).
func (ev *evaluator) execObjectEdit(n *ast.ObjectEdit) {
	target := ev.eval(n.Target)
	obj, ok := target.(*value.Object)
	if !ok {
		raise(runtimeErrorf(value.ErrType, n.GetRange(), "~ edit target must be an object, got %s", target.Kind()))
	}
	ev.runObjectEdit(obj, n.Body)
}

func (ev *evaluator) runObjectEdit(obj *value.Object, body ast.Node) {
	boundEnv := ev.env.NewObjectBound(obj)
	ev.withEnv(boundEnv).execStmt(body)
}
