package builder

import (
	"strings"

	"github.com/cibere/safulate-go/internal/lexer"
	"github.com/cibere/safulate-go/pkg/ast"
)

// parseStatement parses a single statement. It is also used to parse the
// body of if/while/for/func so either a block or a bare statement works.
func (b *Builder) parseStatement() ast.Node {
	tok := b.peek()

	switch tok.Type {
	case lexer.VAR, lexer.PUB, lexer.PRIV, lexer.LET:
		return b.parseDeclaration()
	case lexer.DEL:
		return b.parseDeletion()
	case lexer.REQ:
		return b.parseReq()
	case lexer.FUNC:
		return b.parseFuncDef()
	case lexer.STRUCT:
		return b.parseStructDef()
	case lexer.SPEC:
		return b.parseSpecDef()
	case lexer.TYPE:
		return b.parseTypeDef()
	case lexer.IF:
		return b.parseIf()
	case lexer.WHILE:
		return b.parseWhile()
	case lexer.FOR:
		return b.parseFor()
	case lexer.BREAK:
		return b.parseBreak()
	case lexer.CONTINUE:
		return b.parseContinue()
	case lexer.RETURN:
		return b.parseReturn()
	case lexer.RAISE:
		return b.parseRaise()
	case lexer.TRY:
		return b.parseTry()
	case lexer.SWITCH:
		return b.parseSwitch()
	case lexer.LBRACE:
		return b.parseBlock()
	case lexer.SEMICOLON:
		b.advance() // empty statement
		return nil
	case lexer.EOF:
		return nil
	default:
		return b.parseExpressionLedStatement()
	}
}

func (b *Builder) parseBlock() *ast.Block {
	startTok := b.expect(lexer.LBRACE)

	node := &ast.Block{
		BaseNode:   ast.BaseNode{Type: ast.NodeBlock},
		Statements: make([]ast.Node, 0),
	}

	for !b.check(lexer.RBRACE) && !b.isAtEnd() {
		stmt := b.parseStatement()
		if stmt != nil {
			node.Statements = append(node.Statements, stmt)
		}
	}

	endTok := b.expect(lexer.RBRACE)
	b.setLocation(node, startTok, endTok)
	return node
}

// declKindFor maps a declaration leading keyword token to its DeclKind.
func declKindFor(t lexer.TokenType) ast.DeclKind {
	switch t {
	case lexer.PUB:
		return ast.DeclPub
	case lexer.PRIV:
		return ast.DeclPriv
	case lexer.LET:
		return ast.DeclLet
	default:
		return ast.DeclVar
	}
}

func (b *Builder) parseDeclaration() ast.Node {
	startTok := b.advance() // var/pub/priv/let

	var nameNode ast.Node
	if b.check(lexer.LBRACE) && b.peekNext().Type == lexer.COLON {
		nameNode = b.parseDynamicName()
	} else {
		nameTok := b.expect(lexer.IDENTIFIER)
		nameNode = &ast.Identifier{BaseNode: ast.BaseNode{Type: ast.NodeIdent}, Name: nameTok.Value}
	}

	node := &ast.Declaration{
		BaseNode: ast.BaseNode{Type: ast.NodeDecl},
		Keyword:  declKindFor(startTok.Type),
		Name:     nameNode,
	}

	if b.check(lexer.ASSIGN) {
		b.advance()
		node.Value = b.parseExpression()
	}

	endTok := b.expect(lexer.SEMICOLON)
	b.setLocation(node, startTok, endTok)
	return node
}

func (b *Builder) parseDynamicName() *ast.DynamicName {
	startTok := b.expect(lexer.LBRACE)
	b.expect(lexer.COLON)
	expr := b.parseExpression()
	endTok := b.expect(lexer.RBRACE)

	node := &ast.DynamicName{BaseNode: ast.BaseNode{Type: ast.NodeDynName}, Expr: expr}
	b.setLocation(node, startTok, endTok)
	return node
}

func (b *Builder) parseDeletion() ast.Node {
	startTok := b.advance() // del
	nameTok := b.expect(lexer.IDENTIFIER)
	endTok := b.expect(lexer.SEMICOLON)

	node := &ast.Deletion{BaseNode: ast.BaseNode{Type: ast.NodeDel}, Name: nameTok.Value}
	b.setLocation(node, startTok, endTok)
	return node
}

// parseExpressionLedStatement handles the three statement forms that all
// start with an expression: plain assignment (`target = expr;`), object edit
// (`target ~ { ... }`), and a bare expression statement.
func (b *Builder) parseExpressionLedStatement() ast.Node {
	startTok := b.peek()
	expr := b.parseExpression()

	if assign, ok := expr.(*ast.Assignment); ok {
		endTok := b.expect(lexer.SEMICOLON)
		b.setLocation(assign, startTok, endTok)
		return assign
	}

	if b.check(lexer.TILDE) {
		b.advance()
		body := b.parseStatement()
		node := &ast.ObjectEdit{BaseNode: ast.BaseNode{Type: ast.NodeObjectEdit}, Target: expr, Body: body}
		b.setLocation(node, startTok, b.previous())
		return node
	}

	endTok := b.expect(lexer.SEMICOLON)
	node := &ast.ExpressionStatement{BaseNode: ast.BaseNode{Type: ast.NodeExprStmt}, Expression: expr}
	b.setLocation(node, startTok, endTok)
	return node
}

func (b *Builder) parseIf() ast.Node {
	startTok := b.advance() // if
	cond := b.parseExpression()
	then := b.parseStatement()

	node := &ast.If{BaseNode: ast.BaseNode{Type: ast.NodeIf}, Condition: cond, Then: then}

	if b.check(lexer.ELSE) {
		b.advance()
		node.Else = b.parseStatement()
	}

	b.setLocation(node, startTok, b.previous())
	return node
}

func (b *Builder) parseWhile() ast.Node {
	startTok := b.advance() // while
	cond := b.parseExpression()
	body := b.parseStatement()

	node := &ast.While{BaseNode: ast.BaseNode{Type: ast.NodeWhile}, Condition: cond, Body: body}
	b.setLocation(node, startTok, b.previous())
	return node
}

func (b *Builder) parseFor() ast.Node {
	startTok := b.advance() // for
	targetTok := b.expect(lexer.IDENTIFIER)
	b.expect(lexer.IN)
	iter := b.parseExpression()
	body := b.parseStatement()

	node := &ast.For{BaseNode: ast.BaseNode{Type: ast.NodeFor}, Target: targetTok.Value, Iter: iter, Body: body}
	b.setLocation(node, startTok, b.previous())
	return node
}

// parseDepth parses the optional integer literal argument to break/continue.
func (b *Builder) parseDepth() ast.Node {
	if b.check(lexer.NUMBER) {
		tok := b.advance()
		return &ast.NumberLiteral{BaseNode: ast.BaseNode{Type: ast.NodeNumberLit}, Value: tok.Value}
	}
	return nil
}

func (b *Builder) parseBreak() ast.Node {
	startTok := b.advance() // break
	depth := b.parseDepth()
	endTok := b.expect(lexer.SEMICOLON)

	node := &ast.Break{BaseNode: ast.BaseNode{Type: ast.NodeBreak}, Depth: depth}
	b.setLocation(node, startTok, endTok)
	return node
}

func (b *Builder) parseContinue() ast.Node {
	startTok := b.advance() // continue
	depth := b.parseDepth()
	endTok := b.expect(lexer.SEMICOLON)

	node := &ast.Continue{BaseNode: ast.BaseNode{Type: ast.NodeContinue}, Depth: depth}
	b.setLocation(node, startTok, endTok)
	return node
}

func (b *Builder) parseReturn() ast.Node {
	startTok := b.advance() // return
	node := &ast.Return{BaseNode: ast.BaseNode{Type: ast.NodeReturn}}

	if !b.check(lexer.SEMICOLON) {
		node.Expr = b.parseExpression()
	}

	endTok := b.expect(lexer.SEMICOLON)
	b.setLocation(node, startTok, endTok)
	return node
}

func (b *Builder) parseRaise() ast.Node {
	startTok := b.advance() // raise
	expr := b.parseExpression()
	endTok := b.expect(lexer.SEMICOLON)

	node := &ast.Raise{BaseNode: ast.BaseNode{Type: ast.NodeRaise}, Expr: expr}
	b.setLocation(node, startTok, endTok)
	return node
}

func (b *Builder) parseTry() ast.Node {
	startTok := b.advance() // try
	body := b.parseBlock()

	node := &ast.Try{BaseNode: ast.BaseNode{Type: ast.NodeTry}, Body: body}

	if b.check(lexer.CATCH) {
		b.advance()
		node.HasCatch = true
		if b.check(lexer.IDENTIFIER) {
			node.CatchName = b.advance().Value
		}
		node.CatchBody = b.parseBlock()
	}

	if b.check(lexer.ELSE) {
		b.advance()
		node.ElseBody = b.parseBlock()
	}

	b.setLocation(node, startTok, b.previous())
	return node
}

func (b *Builder) parseSwitch() ast.Node {
	startTok := b.advance() // switch
	scrutinee := b.parseExpression()
	b.expect(lexer.LBRACE)

	node := &ast.Switch{BaseNode: ast.BaseNode{Type: ast.NodeSwitch}, Scrutinee: scrutinee}

	for b.check(lexer.CASE) {
		b.advance()
		pattern := b.parseExpression()
		body := b.parseBlock()
		node.Cases = append(node.Cases, ast.SwitchCase{Pattern: pattern, Body: body})
	}

	endTok := b.expect(lexer.RBRACE)
	b.setLocation(node, startTok, endTok)
	return node
}

// parseVersionAtom parses one `[+-]vMAJOR[.MINOR[.PATCH]]` atom of a req
// version constraint, reassembling it from the lexer's tokens into its
// canonical textual form. The lexer yields "v1.2.3" as the identifier "v1"
// followed by the NUMBER tokens ".2" and ".3" (a number may start with
// '.'), so such NUMBER tokens are appended verbatim; a PERIOD followed by a
// NUMBER is accepted as well.
func (b *Builder) parseVersionAtom() string {
	var sb strings.Builder
	if b.check(lexer.ADD) || b.check(lexer.SUB) {
		sb.WriteString(b.advance().Value)
	}
	sb.WriteString(b.expect(lexer.IDENTIFIER).Value)
	for {
		if b.check(lexer.NUMBER) && strings.HasPrefix(b.peek().Value, ".") {
			sb.WriteString(b.advance().Value)
		} else if b.check(lexer.PERIOD) {
			b.advance()
			sb.WriteByte('.')
			sb.WriteString(b.expect(lexer.NUMBER).Value)
		} else {
			break
		}
	}
	return sb.String()
}

// looksLikeVersionConstraint reports whether the token at the req directive's
// first position begins a version-constraint assertion (`req v1.2;`) rather
// than a module name/alias form.
func (b *Builder) looksLikeVersionConstraint() bool {
	if b.check(lexer.ADD) || b.check(lexer.SUB) {
		return true
	}
	if !b.check(lexer.IDENTIFIER) {
		return false
	}
	v := b.peek().Value
	return len(v) >= 2 && v[0] == 'v' && v[1] >= '0' && v[1] <= '9'
}

func (b *Builder) parseReq() ast.Node {
	startTok := b.advance() // req
	node := &ast.Req{BaseNode: ast.BaseNode{Type: ast.NodeReq}}

	if b.looksLikeVersionConstraint() {
		node.IsVersionCheck = true
		constraint := b.parseVersionAtom()
		if b.check(lexer.SUB) {
			b.advance()
			constraint += " - " + b.parseVersionAtom()
		}
		node.Constraint = constraint
	} else {
		first := b.expect(lexer.IDENTIFIER).Value
		if b.check(lexer.AT) {
			b.advance()
			node.Alias = first
			if b.check(lexer.STRING) {
				node.URL = b.advance().Value
			} else {
				node.Name = b.expect(lexer.IDENTIFIER).Value
			}
		} else {
			node.Name = first
		}
	}

	endTok := b.expect(lexer.SEMICOLON)
	b.setLocation(node, startTok, endTok)
	return node
}
