// Package parser is the public facade over internal/builder: parse Safulate
// source into an ast.Program.
package parser

import (
	"encoding/json"
	"io"

	"github.com/cibere/safulate-go/internal/builder"
	"github.com/cibere/safulate-go/pkg/ast"
)

// Options configures the parser behavior.
type Options struct {
	// Tolerant mode: collect errors instead of stopping on first error.
	Tolerant bool
	// Loc: add location information (line/column) to nodes.
	Loc bool
	// Range: add byte-range information to nodes.
	Range bool
}

// ParserError aggregates one or more syntax/lexical errors.
type ParserError struct {
	Errors []*Error
}

func (e *ParserError) Error() string {
	if len(e.Errors) == 0 {
		return "parsing error"
	}
	return e.Errors[0].Error()
}

// Error represents a single parsing error.
type Error struct {
	Message string `json:"message"`
	Line    int    `json:"line"`
	Column  int    `json:"column"`
}

func (e *Error) Error() string {
	return e.Message
}

// Parse parses Safulate source code and returns its AST.
func Parse(input string, opts *Options) (*ast.Program, error) {
	if opts == nil {
		opts = &Options{}
	}

	b := builder.New(input, &builder.Options{
		Tolerant: opts.Tolerant,
		Loc:      opts.Loc,
		Range:    opts.Range,
	})

	result, err := b.Build()
	if err != nil {
		builderErr := err.(*builder.Error)
		return nil, &ParserError{
			Errors: []*Error{{
				Message: builderErr.Message,
				Line:    builderErr.Line,
				Column:  builderErr.Column,
			}},
		}
	}

	if len(b.Errors()) > 0 && !opts.Tolerant {
		var errs []*Error
		for _, e := range b.Errors() {
			errs = append(errs, &Error{Message: e.Message, Line: e.Line, Column: e.Column})
		}
		return nil, &ParserError{Errors: errs}
	}

	return result, nil
}

// ParseReader parses Safulate source from an io.Reader.
func ParseReader(r io.Reader, opts *Options) (*ast.Program, error) {
	content, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return Parse(string(content), opts)
}

// ParseToJSON parses Safulate source code and returns its AST as JSON.
func ParseToJSON(input string, opts *Options) ([]byte, error) {
	result, err := Parse(input, opts)
	if err != nil {
		return nil, err
	}
	return json.MarshalIndent(result, "", "  ")
}

// Visit walks the AST and calls the appropriate visitor method for each node.
func Visit(node ast.Node, visitor ast.Visitor) {
	ast.Walk(node, visitor)
}

// Visitor is an alias for ast.Visitor.
type Visitor = ast.Visitor

// BaseVisitor is an alias for ast.BaseVisitor.
type BaseVisitor = ast.BaseVisitor
