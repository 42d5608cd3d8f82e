package builder

import (
	"github.com/cibere/safulate-go/internal/lexer"
	"github.com/cibere/safulate-go/pkg/ast"
)

// parseParams parses a parenthesized, comma-separated parameter list with
// optional default-value expressions.
func (b *Builder) parseParams() []ast.Param {
	b.expect(lexer.LPAREN)

	var params []ast.Param
	for !b.check(lexer.RPAREN) && !b.isAtEnd() {
		nameTok := b.expect(lexer.IDENTIFIER)
		p := ast.Param{Name: nameTok.Value}
		if b.check(lexer.ASSIGN) {
			b.advance()
			p.Default = b.parseExpression()
		}
		params = append(params, p)

		if b.check(lexer.COMMA) {
			b.advance()
		} else {
			break
		}
	}

	b.expect(lexer.RPAREN)
	return params
}

// parseDecorators parses the optional bracketed decorator-expression list
// that follows a function's parameter list: `func f(x) [deco1, deco2] { }`.
func (b *Builder) parseDecorators() []ast.Node {
	if !b.check(lexer.LBRACK) {
		return nil
	}
	b.advance()

	var decorators []ast.Node
	for !b.check(lexer.RBRACK) && !b.isAtEnd() {
		decorators = append(decorators, b.parseExpression())
		if b.check(lexer.COMMA) {
			b.advance()
		} else {
			break
		}
	}

	b.expect(lexer.RBRACK)
	return decorators
}

func (b *Builder) parseFuncDef() ast.Node {
	startTok := b.advance() // func
	nameTok := b.expect(lexer.IDENTIFIER)
	params := b.parseParams()
	decorators := b.parseDecorators()
	body := b.parseStatement()

	node := &ast.FuncDef{
		BaseNode:   ast.BaseNode{Type: ast.NodeFuncDef},
		Name:       nameTok.Value,
		Params:     params,
		Body:       body,
		Decorators: decorators,
	}
	b.setLocation(node, startTok, b.previous())
	return node
}

func (b *Builder) parseStructDef() ast.Node {
	startTok := b.advance() // struct
	nameTok := b.expect(lexer.IDENTIFIER)
	params := b.parseParams()
	body := b.parseStatement()

	node := &ast.StructDef{
		BaseNode: ast.BaseNode{Type: ast.NodeStructDef},
		Name:     nameTok.Value,
		Params:   params,
		Body:     body,
	}
	b.setLocation(node, startTok, b.previous())
	return node
}

func (b *Builder) parseSpecDef() ast.Node {
	startTok := b.advance() // spec
	nameTok := b.expect(lexer.IDENTIFIER)
	params := b.parseParams()
	body := b.parseStatement()

	node := &ast.SpecDef{
		BaseNode: ast.BaseNode{Type: ast.NodeSpecDef},
		Name:     nameTok.Value,
		Params:   params,
		Body:     body,
	}
	b.setLocation(node, startTok, b.previous())
	return node
}

// parseTypeDef parses the experimental declarative type form:
//
//	type Name { static-body } -> (field1, field2, ...) { instance-body }
//
// The static body is optional, and so is the `->`: the lexer has no arrow
// token and yields `->` as SUB followed by GT, which is skipped when present,
// so the static block may also be followed directly by the field-list parens.
func (b *Builder) parseTypeDef() ast.Node {
	startTok := b.advance() // type
	nameTok := b.expect(lexer.IDENTIFIER)

	node := &ast.TypeDef{BaseNode: ast.BaseNode{Type: ast.NodeTypeDef}, Name: nameTok.Value}

	if b.check(lexer.LBRACE) {
		node.StaticBody = b.parseBlock()
	}

	if b.check(lexer.SUB) && b.peekNext().Type == lexer.GT {
		b.advance()
		b.advance()
	}

	b.expect(lexer.LPAREN)
	for !b.check(lexer.RPAREN) && !b.isAtEnd() {
		fieldTok := b.expect(lexer.IDENTIFIER)
		node.Fields = append(node.Fields, fieldTok.Value)
		if b.check(lexer.COMMA) {
			b.advance()
		} else {
			break
		}
	}
	b.expect(lexer.RPAREN)

	node.InstanceBody = b.parseBlock()
	b.setLocation(node, startTok, b.previous())
	return node
}
