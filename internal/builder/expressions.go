package builder

import (
	"github.com/cibere/safulate-go/internal/lexer"
	"github.com/cibere/safulate-go/pkg/ast"
)

// Expression parsing with operator precedence, lowest to highest:
//  1. Assignment (=)
//  2. Logical or (|, ||)
//  3. Logical and (&, &&)
//  4. Equality (==, !=)
//  5. Relational (<, >, <=, >=, in, contains)
//  6. Additive (+, -)
//  7. Multiplicative (*, /)
//  8. Power (** right-assoc)
//  9. Unary (+, -, !)
//  10. Postfix (call, attribute, subscript/partial)
//  11. Primary
//
// `|`/`&` dispatch through the `or`/`and` specs (§4.3); `||`/`&&` are
// ordinary short-circuiting boolean operators at the same precedence tier.

func (b *Builder) parseExpression() ast.Node {
	return b.parseAssignment()
}

func (b *Builder) parseAssignment() ast.Node {
	left := b.parseLogicalOr()

	if b.check(lexer.ASSIGN) {
		b.advance()
		right := b.parseAssignment()
		return &ast.Assignment{
			BaseNode: ast.BaseNode{Type: ast.NodeAssign},
			Target:   left,
			Value:    right,
		}
	}

	return left
}

func (b *Builder) parseLogicalOr() ast.Node {
	left := b.parseLogicalAnd()

	for b.check(lexer.BIT_OR) || b.check(lexer.OR_OR) {
		op := b.advance().Value
		right := b.parseLogicalAnd()
		left = &ast.BinaryOp{BaseNode: ast.BaseNode{Type: ast.NodeBinaryOp}, Operator: op, Left: left, Right: right}
	}

	return left
}

func (b *Builder) parseLogicalAnd() ast.Node {
	left := b.parseEquality()

	for b.check(lexer.BIT_AND) || b.check(lexer.AND_AND) {
		op := b.advance().Value
		right := b.parseEquality()
		left = &ast.BinaryOp{BaseNode: ast.BaseNode{Type: ast.NodeBinaryOp}, Operator: op, Left: left, Right: right}
	}

	return left
}

func (b *Builder) parseEquality() ast.Node {
	left := b.parseRelational()

	for b.check(lexer.EQ) || b.check(lexer.NEQ) {
		op := b.advance().Value
		right := b.parseRelational()
		left = &ast.BinaryOp{BaseNode: ast.BaseNode{Type: ast.NodeBinaryOp}, Operator: op, Left: left, Right: right}
	}

	return left
}

func (b *Builder) parseRelational() ast.Node {
	left := b.parseAdditive()

	for b.check(lexer.LT) || b.check(lexer.GT) || b.check(lexer.LTE) || b.check(lexer.GTE) ||
		b.check(lexer.IN) || b.check(lexer.CONTAINS) {
		op := b.advance().Value
		right := b.parseAdditive()
		left = &ast.BinaryOp{BaseNode: ast.BaseNode{Type: ast.NodeBinaryOp}, Operator: op, Left: left, Right: right}
	}

	return left
}

func (b *Builder) parseAdditive() ast.Node {
	left := b.parseMultiplicative()

	for b.check(lexer.ADD) || b.check(lexer.SUB) {
		op := b.advance().Value
		right := b.parseMultiplicative()
		left = &ast.BinaryOp{BaseNode: ast.BaseNode{Type: ast.NodeBinaryOp}, Operator: op, Left: left, Right: right}
	}

	return left
}

func (b *Builder) parseMultiplicative() ast.Node {
	left := b.parsePower()

	for b.check(lexer.MUL) || b.check(lexer.DIV) {
		op := b.advance().Value
		right := b.parsePower()
		left = &ast.BinaryOp{BaseNode: ast.BaseNode{Type: ast.NodeBinaryOp}, Operator: op, Left: left, Right: right}
	}

	return left
}

func (b *Builder) parsePower() ast.Node {
	left := b.parseUnary()

	if b.check(lexer.EXP) {
		op := b.advance().Value
		right := b.parsePower() // right-associative
		return &ast.BinaryOp{BaseNode: ast.BaseNode{Type: ast.NodeBinaryOp}, Operator: op, Left: left, Right: right}
	}

	return left
}

func (b *Builder) parseUnary() ast.Node {
	if b.check(lexer.NOT) || b.check(lexer.SUB) || b.check(lexer.ADD) {
		op := b.advance().Value
		operand := b.parseUnary()
		return &ast.UnaryOp{BaseNode: ast.BaseNode{Type: ast.NodeUnaryOp}, Operator: op, Operand: operand}
	}

	return b.parsePostfix()
}

func (b *Builder) parsePostfix() ast.Node {
	expr := b.parsePrimary()

	for {
		switch {
		case b.check(lexer.PERIOD):
			b.advance()
			nameTok := b.expect(lexer.IDENTIFIER)
			expr = &ast.Attribute{BaseNode: ast.BaseNode{Type: ast.NodeAttribute}, Base: expr, Name: nameTok.Value}
		case b.check(lexer.LPAREN):
			expr = b.parseCall(expr)
		case b.check(lexer.LBRACK):
			expr = b.parseSubscript(expr)
		default:
			return expr
		}
	}
}

func (b *Builder) parseCall(callee ast.Node) *ast.Call {
	startTok := b.expect(lexer.LPAREN)

	node := &ast.Call{BaseNode: ast.BaseNode{Type: ast.NodeCall}, Callee: callee}
	node.Args = b.parseArgs()

	endTok := b.expect(lexer.RPAREN)
	b.setLocation(node, startTok, endTok)
	return node
}

// parseArgs parses a comma-separated call-argument list in its five forms:
// positional, keyword (name=value), spread (..list), keyword-spread
// (...dict), and dynamic-keyword ({:expr}=value).
func (b *Builder) parseArgs() []ast.Arg {
	var args []ast.Arg

	for !b.check(lexer.RPAREN) && !b.isAtEnd() {
		switch {
		case b.check(lexer.DOTDOT):
			b.advance()
			args = append(args, ast.Arg{Kind: ast.ArgSpread, Value: b.parseExpression()})
		case b.check(lexer.DOTDOTDOT):
			b.advance()
			args = append(args, ast.Arg{Kind: ast.ArgKeywordSpread, Value: b.parseExpression()})
		case b.check(lexer.LBRACE) && b.peekNext().Type == lexer.COLON:
			dyn := b.parseDynamicName()
			b.expect(lexer.ASSIGN)
			args = append(args, ast.Arg{Kind: ast.ArgDynamicKeyword, NameExpr: dyn.Expr, Value: b.parseExpression()})
		case b.check(lexer.IDENTIFIER) && b.peekNext().Type == lexer.ASSIGN:
			name := b.advance().Value
			b.advance() // =
			args = append(args, ast.Arg{Kind: ast.ArgKeyword, Name: name, Value: b.parseExpression()})
		default:
			args = append(args, ast.Arg{Kind: ast.ArgPositional, Value: b.parseExpression()})
		}

		if b.check(lexer.COMMA) {
			b.advance()
		} else {
			break
		}
	}

	return args
}

// parseSubscript parses the overloaded `base[a, b, ...]` bracket postfix;
// whether it means indexing or partial application is a runtime decision
// (see ast.Subscript).
func (b *Builder) parseSubscript(base ast.Node) *ast.Subscript {
	startTok := b.expect(lexer.LBRACK)

	node := &ast.Subscript{BaseNode: ast.BaseNode{Type: ast.NodeSubscript}, Base: base}
	for !b.check(lexer.RBRACK) && !b.isAtEnd() {
		node.Args = append(node.Args, b.parseExpression())
		if b.check(lexer.COMMA) {
			b.advance()
		} else {
			break
		}
	}

	endTok := b.expect(lexer.RBRACK)
	b.setLocation(node, startTok, endTok)
	return node
}

func (b *Builder) parsePrimary() ast.Node {
	tok := b.peek()

	switch tok.Type {
	case lexer.IDENTIFIER:
		b.advance()
		return &ast.Identifier{BaseNode: ast.BaseNode{Type: ast.NodeIdent}, Name: tok.Value}

	case lexer.NUMBER:
		b.advance()
		return &ast.NumberLiteral{BaseNode: ast.BaseNode{Type: ast.NodeNumberLit}, Value: tok.Value}

	case lexer.STRING:
		b.advance()
		return &ast.StringLiteral{BaseNode: ast.BaseNode{Type: ast.NodeStringLit}, Value: tok.Value}

	case lexer.FSTRING:
		b.advance()
		return b.buildFStringLiteral(tok)

	case lexer.TRUE:
		b.advance()
		return &ast.BooleanLiteral{BaseNode: ast.BaseNode{Type: ast.NodeBoolLit}, Value: true}

	case lexer.FALSE:
		b.advance()
		return &ast.BooleanLiteral{BaseNode: ast.BaseNode{Type: ast.NodeBoolLit}, Value: false}

	case lexer.NULL:
		b.advance()
		return &ast.NullLiteral{BaseNode: ast.BaseNode{Type: ast.NodeNullLit}}

	case lexer.LPAREN:
		b.advance() // ( — grouping only, Safulate has no tuple literal
		expr := b.parseExpression()
		b.expect(lexer.RPAREN)
		return expr

	case lexer.LBRACK:
		return b.parseListLiteral()

	default:
		b.addError("expected expression, got '" + tok.Value + "'")
		b.advance()
		return &ast.Identifier{BaseNode: ast.BaseNode{Type: ast.NodeIdent}, Name: ""}
	}
}

func (b *Builder) parseListLiteral() *ast.ListLiteral {
	startTok := b.expect(lexer.LBRACK)

	node := &ast.ListLiteral{BaseNode: ast.BaseNode{Type: ast.NodeListLit}}
	for !b.check(lexer.RBRACK) && !b.isAtEnd() {
		node.Elements = append(node.Elements, b.parseExpression())
		if b.check(lexer.COMMA) {
			b.advance()
		} else {
			break
		}
	}

	endTok := b.expect(lexer.RBRACK)
	b.setLocation(node, startTok, endTok)
	return node
}

// buildFStringLiteral converts the lexer's f-string segment list into an
// ast.FStringLiteral, recursively parsing each interpolation's sub-lexed
// token stream with a fresh Builder.
func (b *Builder) buildFStringLiteral(tok lexer.Token) *ast.FStringLiteral {
	node := &ast.FStringLiteral{BaseNode: ast.BaseNode{Type: ast.NodeFString}}

	for _, seg := range tok.FSegs {
		if !seg.IsExpr {
			node.Segments = append(node.Segments, ast.FStringSegment{Text: seg.Text})
			continue
		}
		sub := &Builder{tokens: seg.ExprTokens, options: b.options}
		expr := sub.parseExpression()
		b.errors = append(b.errors, sub.errors...)
		node.Segments = append(node.Segments, ast.FStringSegment{Expr: expr, IsDynName: seg.IsDynName})
	}

	return node
}
