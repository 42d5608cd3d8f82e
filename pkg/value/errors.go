package value

import (
	"fmt"

	"github.com/cibere/safulate-go/pkg/ast"
)

// Frame is one entry in a call-stack trace attached to a raised error.
type Frame struct {
	FuncName string
	Span     *ast.Range
}

// Error is the uniform runtime error shape: a kind tag (one of the spec's
// named error kinds), a message, the span where it originated when known,
// and a Trace slot for call-stack frames. pkg/eval does not fill Trace, so
// the errors it raises carry an empty trace.
type Error struct {
	Kind    string
	Message string
	Span    *ast.Range
	Trace   []Frame
	// Value is set for UserRaised: the original value passed to `raise`,
	// retrievable verbatim by `catch e`.
	Value Value
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func NewError(kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Raised kinds, matching spec.md §7 verbatim.
const (
	ErrLexical       = "LexicalError"
	ErrSyntax        = "SyntaxError"
	ErrName          = "NameError"
	ErrAttribute     = "AttributeError"
	ErrArgument      = "ArgumentError"
	ErrType          = "TypeError"
	ErrValue         = "ValueError"
	ErrVersion       = "VersionError"
	ErrImport        = "ImportError"
	ErrStackOverflow = "StackOverflowError"
	ErrUserRaised    = "UserRaised"
)

// NewUserRaised wraps an arbitrary raised Value, as produced by `raise expr`.
func NewUserRaised(v Value) *Error {
	msg := v.Repr()
	if s, ok := v.(*String); ok {
		msg = s.S
	}
	return &Error{Kind: ErrUserRaised, Message: msg, Value: v}
}
