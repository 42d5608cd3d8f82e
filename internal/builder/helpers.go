package builder

import (
	"fmt"

	"github.com/cibere/safulate-go/internal/lexer"
	"github.com/cibere/safulate-go/pkg/ast"
)

// Token navigation helpers

func (b *Builder) peek() lexer.Token {
	if b.pos >= len(b.tokens) {
		return lexer.Token{Type: lexer.EOF}
	}
	return b.tokens[b.pos]
}

func (b *Builder) peekNext() lexer.Token {
	if b.pos+1 >= len(b.tokens) {
		return lexer.Token{Type: lexer.EOF}
	}
	return b.tokens[b.pos+1]
}

func (b *Builder) previous() lexer.Token {
	if b.pos == 0 {
		return lexer.Token{Type: lexer.EOF}
	}
	return b.tokens[b.pos-1]
}

func (b *Builder) advance() lexer.Token {
	if !b.isAtEnd() {
		b.pos++
	}
	return b.previous()
}

func (b *Builder) check(t lexer.TokenType) bool {
	if b.isAtEnd() {
		return false
	}
	return b.peek().Type == t
}

func (b *Builder) isAtEnd() bool {
	return b.peek().Type == lexer.EOF
}

func (b *Builder) expect(t lexer.TokenType) lexer.Token {
	if b.check(t) {
		return b.advance()
	}
	b.addError(fmt.Sprintf("expected '%s', got '%s'", t.String(), b.peek().Value))
	// Advance even on failure to prevent infinite loops in non-tolerant mode
	if !b.options.Tolerant {
		b.advance()
	}
	return b.peek()
}

// Error handling

func (b *Builder) addError(message string) {
	tok := b.peek()
	b.errors = append(b.errors, &Error{
		Message: message,
		Line:    tok.Line,
		Column:  tok.Column,
	})

	if b.options.Tolerant {
		b.synchronize()
	}
}

// synchronize skips tokens until the next statement boundary, so a single
// malformed statement doesn't cascade into spurious follow-on errors in
// tolerant mode.
func (b *Builder) synchronize() {
	b.advance()

	for !b.isAtEnd() {
		if b.previous().Type == lexer.SEMICOLON {
			return
		}

		switch b.peek().Type {
		case lexer.VAR, lexer.PUB, lexer.PRIV, lexer.LET, lexer.DEL, lexer.REQ,
			lexer.FUNC, lexer.STRUCT, lexer.SPEC, lexer.TYPE, lexer.IF,
			lexer.WHILE, lexer.FOR, lexer.RETURN, lexer.RAISE, lexer.TRY,
			lexer.SWITCH, lexer.BREAK, lexer.CONTINUE:
			return
		}

		b.advance()
	}
}

// locSetter is satisfied by every ast.Node via its embedded *BaseNode.
type locSetter interface {
	SetLoc(*ast.Location)
	SetRange(*ast.Range)
}

func (b *Builder) setLocation(node ast.Node, startTok, endTok lexer.Token) {
	if !b.options.Loc && !b.options.Range {
		return
	}
	ls, ok := node.(locSetter)
	if !ok {
		return
	}
	if b.options.Loc {
		ls.SetLoc(&ast.Location{
			Start: ast.Position{Line: startTok.Line, Column: startTok.Column},
			End:   ast.Position{Line: endTok.Line, Column: endTok.Column + len(endTok.Value)},
		})
	}
	if b.options.Range {
		ls.SetRange(&ast.Range{startTok.Start, endTok.End})
	}
}
