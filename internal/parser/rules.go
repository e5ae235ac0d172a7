package parser

import (
	"github.com/icss-lang/icss/internal/ast"
	"github.com/icss-lang/icss/internal/lexer"
)

// parseStylerule parses `selector (, selector)* { body }`.
func (p *Parser) parseStylerule() *ast.Stylerule {
	start := p.curTok.Span

	var selectors []ast.Selector
	for {
		sel := p.parseSelector()
		if sel == nil {
			return nil
		}
		selectors = append(selectors, sel)

		if p.curTok.Type != lexer.COMMA {
			break
		}
		p.nextToken()
	}

	if !p.expect(lexer.LBRACE) {
		return nil
	}

	body, ok := p.parseBody()
	if !ok {
		return nil
	}

	return ast.NewStylerule(selectors, body, mergeSpan(start, p.prevTok.Span))
}

func (p *Parser) parseSelector() ast.Selector {
	tok := p.curTok

	switch tok.Type {
	case lexer.IDENT:
		p.nextToken()
		return ast.NewTagSelector(tok.Literal, tok.Span)
	case lexer.CLASS:
		p.nextToken()
		return ast.NewClassSelector(tok.Literal[1:], tok.Span)
	case lexer.HASH:
		p.nextToken()
		return ast.NewIdSelector(tok.Literal[1:], tok.Span)
	default:
		p.reportError("expected selector, found "+describe(tok), tok.Span)
		return nil
	}
}

// parseBody parses body items up to and including the closing brace.
// The opening brace has already been consumed.
func (p *Parser) parseBody() ([]ast.BodyItem, bool) {
	var body []ast.BodyItem

	for p.curTok.Type != lexer.RBRACE && p.curTok.Type != lexer.EOF {
		prevTok := p.curTok
		if item := p.parseBodyItem(); item != nil {
			body = append(body, item)
			continue
		}
		p.recoverStatement(prevTok)
	}

	if !p.expect(lexer.RBRACE) {
		return body, false
	}
	return body, true
}

func (p *Parser) parseBodyItem() ast.BodyItem {
	switch {
	case p.curTok.Type == lexer.IF:
		if clause := p.parseIfClause(); clause != nil {
			return clause
		}
	case p.curTok.Type == lexer.IDENT && p.peekTok.Type == lexer.ASSIGN:
		if a := p.parseAssignment(); a != nil {
			return a
		}
	case p.curTok.Type == lexer.IDENT && p.peekTok.Type == lexer.COLON:
		if d := p.parseDeclaration(); d != nil {
			return d
		}
	default:
		p.reportError("expected declaration, variable assignment or if clause, found "+describe(p.curTok), p.curTok.Span)
	}
	return nil
}

// parseDeclaration parses `property: expression;`.
func (p *Parser) parseDeclaration() *ast.Declaration {
	nameTok := p.curTok
	p.nextToken() // ':'
	p.nextToken()

	value := p.parseExpression()
	if value == nil {
		return nil
	}
	if !p.expect(lexer.SEMICOLON) {
		return nil
	}

	return ast.NewDeclaration(nameTok.Literal, value, mergeSpan(nameTok.Span, p.prevTok.Span))
}

// parseAssignment parses `Name := expression;`.
func (p *Parser) parseAssignment() *ast.VariableAssignment {
	nameTok := p.curTok
	p.nextToken() // ':='
	p.nextToken()

	value := p.parseExpression()
	if value == nil {
		return nil
	}
	if !p.expect(lexer.SEMICOLON) {
		return nil
	}

	name := ast.NewVariableReference(nameTok.Literal, nameTok.Span)
	return ast.NewVariableAssignment(name, value, mergeSpan(nameTok.Span, p.prevTok.Span))
}

// parseIfClause parses `if [condition] { body }` with an optional else
// branch. `else if` nests the inner IfClause as the sole item of the
// ElseClause body.
func (p *Parser) parseIfClause() *ast.IfClause {
	start := p.curTok.Span
	p.nextToken()

	if !p.expect(lexer.LBRACKET) {
		return nil
	}
	cond := p.parseCondition()
	if cond == nil {
		return nil
	}
	if !p.expect(lexer.RBRACKET) || !p.expect(lexer.LBRACE) {
		return nil
	}
	body, ok := p.parseBody()
	if !ok {
		return nil
	}

	clause := ast.NewIfClause(cond, body, nil, mergeSpan(start, p.prevTok.Span))
	if p.curTok.Type != lexer.ELSE {
		return clause
	}

	elseStart := p.curTok.Span
	p.nextToken()

	switch p.curTok.Type {
	case lexer.IF:
		nested := p.parseIfClause()
		if nested == nil {
			return nil
		}
		clause.Else = ast.NewElseClause([]ast.BodyItem{nested}, mergeSpan(elseStart, p.prevTok.Span))
	default:
		if !p.expect(lexer.LBRACE) {
			return nil
		}
		elseBody, ok := p.parseBody()
		if !ok {
			return nil
		}
		clause.Else = ast.NewElseClause(elseBody, mergeSpan(elseStart, p.prevTok.Span))
	}

	clause.SetSpan(mergeSpan(start, p.prevTok.Span))
	return clause
}

// parseCondition accepts a boolean literal or a variable reference only.
func (p *Parser) parseCondition() ast.Expr {
	tok := p.curTok

	switch tok.Type {
	case lexer.TRUE, lexer.FALSE:
		p.nextToken()
		return ast.NewBoolLiteral(tok.Type == lexer.TRUE, tok.Span)
	case lexer.IDENT:
		p.nextToken()
		return ast.NewVariableReference(tok.Literal, tok.Span)
	default:
		p.reportError("expected boolean literal or variable in condition, found "+describe(tok), tok.Span)
		return nil
	}
}
