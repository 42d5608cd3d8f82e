// Package builder provides the recursive-descent AST builder for Safulate
// source code.
package builder

import (
	"fmt"

	"github.com/cibere/safulate-go/internal/lexer"
	"github.com/cibere/safulate-go/pkg/ast"
)

// Error represents a parsing error.
type Error struct {
	Message string
	Line    int
	Column  int
}

func (e *Error) Error() string {
	return fmt.Sprintf("line %d:%d: %s", e.Line, e.Column, e.Message)
}

// Builder builds an AST from Safulate source code.
type Builder struct {
	tokens  []lexer.Token
	pos     int
	errors  []*Error
	options *Options
}

// Options configures the parser behavior.
type Options struct {
	Tolerant bool // Collect errors instead of stopping at the first one
	Loc      bool // Add location information
	Range    bool // Add byte-range information
}

// New creates a new Builder over input.
func New(input string, opts *Options) *Builder {
	lex := lexer.New(input)
	tokens := lex.Tokenize()

	if opts == nil {
		opts = &Options{}
	}

	var errors []*Error
	for _, lexErr := range lex.Errors() {
		errors = append(errors, &Error{Message: lexErr.Message, Line: lexErr.Line, Column: lexErr.Column})
	}

	return &Builder{
		tokens:  tokens,
		pos:     0,
		errors:  errors,
		options: opts,
	}
}

// Build parses the source and returns the AST.
func (b *Builder) Build() (*ast.Program, error) {
	program := &ast.Program{
		BaseNode:   ast.BaseNode{Type: ast.NodeProgram},
		Statements: make([]ast.Node, 0),
	}

	for !b.isAtEnd() {
		node := b.parseStatement()
		if node != nil {
			program.Statements = append(program.Statements, node)
		}
		if len(b.errors) > 0 && !b.options.Tolerant {
			return nil, b.errors[0]
		}
	}

	if b.options.Loc && len(program.Statements) > 0 {
		first := program.Statements[0]
		last := program.Statements[len(program.Statements)-1]
		if first.GetLocation() != nil && last.GetLocation() != nil {
			program.Loc = &ast.Location{
				Start: first.GetLocation().Start,
				End:   last.GetLocation().End,
			}
		}
	}

	if len(b.errors) > 0 && !b.options.Tolerant {
		return nil, b.errors[0]
	}

	return program, nil
}

// Errors returns the collected parsing errors (lexical and syntactic).
func (b *Builder) Errors() []*Error {
	return b.errors
}
