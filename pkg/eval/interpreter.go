// Package eval implements Safulate's tree-walking evaluator: statement
// execution, control-flow signals, operator dispatch through specs, call
// frames, and the req module-import directive.
package eval

import (
	"fmt"

	"github.com/cibere/safulate-go/pkg/ast"
	"github.com/cibere/safulate-go/pkg/scope"
	"github.com/cibere/safulate-go/pkg/value"
	"github.com/cibere/safulate-go/pkg/version"
)

// maxRecursionDepth bounds call-frame depth; exceeding it raises
// StackOverflowError. Grounded on the CWBudde interpreter reference's
// DefaultMaxRecursionDepth (itself matching DWScript's cDefaultMaxRecursionDepth).
const maxRecursionDepth = 1024

// ModuleLoader resolves a req directive's name or URL to an already-parsed
// program; it is the sole external collaborator for imports (spec.md §4.11).
type ModuleLoader interface {
	Load(nameOrURL string) (*ast.Program, error)
}

// Interpreter is the embedding-facing entry point (spec.md §6).
type Interpreter struct {
	loader  ModuleLoader
	host    version.VersionHost
	globals *scope.Environment
	// modules caches already-loaded req targets by canonical name, so a
	// module is only executed once per interpreter lifetime.
	modules map[string]*value.Object
}

// NewInterpreter wires a ModuleLoader and VersionHost and returns a fresh
// interpreter with an empty global scope.
func NewInterpreter(loader ModuleLoader, host version.VersionHost) *Interpreter {
	return &Interpreter{
		loader:  loader,
		host:    host,
		globals: scope.NewRoot(),
		modules: make(map[string]*value.Object),
	}
}

// DefineBuiltin installs a value in the global scope, used by pkg/builtins
// to register print/object/list/dict/assert/types.* at construction time.
func (i *Interpreter) DefineBuiltin(name string, v value.Value) {
	if err := i.globals.Declare(ast.DeclVar, name, v); err != nil {
		// A var declaration on the root frame does not fail in practice (a
		// repeated name simply overwrites the earlier binding); Assign is
		// only a fallback should Declare report an error.
		_ = i.globals.Assign(name, v)
	}
}

// Run executes a parsed program's top-level statements in the global scope
// and returns the value of the final expression statement, if any.
func (i *Interpreter) Run(p *ast.Program) (result value.Value, err error) {
	ev := &evaluator{interp: i, env: i.globals}

	defer func() {
		if r := recover(); r != nil {
			if verr, ok := r.(*value.Error); ok {
				err = verr
				return
			}
			panic(r)
		}
	}()

	result = ev.runStatements(p.Statements)
	return result, nil
}

// evaluator carries the mutable walk state: current environment, call-depth
// counter, and interpreter back-reference (for globals/loader/host access).
// One evaluator is created per Run/call-frame-root; nested calls construct
// child evaluators sharing interp but not env.
type evaluator struct {
	interp *Interpreter
	env    *scope.Environment
	depth  int
}

// runStatements executes a statement list sequentially and returns the value
// of the last ExpressionStatement evaluated, if any (used for the top level
// and for block bodies whose trailing value matters to callers).
func (ev *evaluator) runStatements(stmts []ast.Node) value.Value {
	var last value.Value = value.Nil
	for _, s := range stmts {
		if s == nil {
			continue
		}
		if v, ok := ev.execStmt(s); ok {
			last = v
		}
	}
	return last
}

// withEnv returns a copy of ev running against a different environment,
// used to push block/loop/call/object-bound frames without mutating the
// caller's evaluator.
func (ev *evaluator) withEnv(env *scope.Environment) *evaluator {
	return &evaluator{interp: ev.interp, env: env, depth: ev.depth}
}

func runtimeErrorf(kind string, span *ast.Range, format string, args ...any) *value.Error {
	return &value.Error{Kind: kind, Message: fmt.Sprintf(format, args...), Span: span}
}
