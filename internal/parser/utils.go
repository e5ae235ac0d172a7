package parser

import (
	"github.com/icss-lang/icss/internal/lexer"
)

// mergeSpan assumes start.End <= end.End and returns a span covering both.
// The parser relies on lexer spans being half-open; callers should pass the
// earliest start span first to preserve monotonic growth for AST nodes.
func mergeSpan(start, end lexer.Span) lexer.Span {
	span := start

	if end.End > span.End {
		span.End = end.End
	}

	return span
}

func sameTokenPosition(a, b lexer.Token) bool {
	return a.Type == b.Type && a.Span.Start == b.Span.Start && a.Span.End == b.Span.End
}

func isSelectorStart(tt lexer.TokenType) bool {
	switch tt {
	case lexer.IDENT, lexer.CLASS, lexer.HASH:
		return true
	default:
		return false
	}
}

func describe(tok lexer.Token) string {
	if tok.Type == lexer.EOF {
		return "end of input"
	}
	return "'" + tok.Literal + "'"
}

// recoverTopLevel skips to just past the next ';' or '}' so parsing can
// resume at the next rule or assignment.
func (p *Parser) recoverTopLevel(prev lexer.Token) {
	if p.curTok.Type == lexer.EOF {
		return
	}

	if sameTokenPosition(p.curTok, prev) {
		p.nextToken()
		if prev.Type == lexer.SEMICOLON || prev.Type == lexer.RBRACE {
			return
		}
	}

	for p.curTok.Type != lexer.EOF {
		switch p.curTok.Type {
		case lexer.SEMICOLON, lexer.RBRACE:
			p.nextToken()
			return
		}

		p.nextToken()
	}
}

// recoverStatement skips to just past the next ';', or up to (not past) the
// '}' closing the current body.
func (p *Parser) recoverStatement(prev lexer.Token) {
	if p.curTok.Type == lexer.EOF {
		return
	}

	if sameTokenPosition(p.curTok, prev) {
		p.nextToken()
		if prev.Type == lexer.SEMICOLON {
			return
		}
	}

	for p.curTok.Type != lexer.EOF {
		switch p.curTok.Type {
		case lexer.SEMICOLON:
			p.nextToken()
			return
		case lexer.RBRACE:
			return
		}

		p.nextToken()
	}
}
