package parser

import (
	"strconv"
	"strings"

	"github.com/icss-lang/icss/internal/ast"
	"github.com/icss-lang/icss/internal/lexer"
)

// parseExpression parses `term (('+' | '-') term)*`, left-associative.
func (p *Parser) parseExpression() ast.Expr {
	left := p.parseTerm()
	if left == nil {
		return nil
	}

	for p.curTok.Type == lexer.PLUS || p.curTok.Type == lexer.MINUS {
		op := p.curTok.Type
		p.nextToken()

		right := p.parseTerm()
		if right == nil {
			return nil
		}

		span := mergeSpan(left.Span(), right.Span())
		if op == lexer.PLUS {
			left = ast.NewAddOperation(left, right, span)
		} else {
			left = ast.NewSubtractOperation(left, right, span)
		}
	}

	return left
}

// parseTerm parses `factor ('*' factor)*`, left-associative.
func (p *Parser) parseTerm() ast.Expr {
	left := p.parseFactor()
	if left == nil {
		return nil
	}

	for p.curTok.Type == lexer.ASTERISK {
		p.nextToken()

		right := p.parseFactor()
		if right == nil {
			return nil
		}
		left = ast.NewMultiplyOperation(left, right, mergeSpan(left.Span(), right.Span()))
	}

	return left
}

func (p *Parser) parseFactor() ast.Expr {
	tok := p.curTok

	switch tok.Type {
	case lexer.PIXEL:
		p.nextToken()
		if v, ok := p.parseInt(tok, "px"); ok {
			return ast.NewPixelLiteral(v, tok.Span)
		}
	case lexer.PERCENTAGE:
		p.nextToken()
		if v, ok := p.parseInt(tok, "%"); ok {
			return ast.NewPercentageLiteral(v, tok.Span)
		}
	case lexer.SCALAR:
		p.nextToken()
		if v, ok := p.parseInt(tok, ""); ok {
			return ast.NewScalarLiteral(v, tok.Span)
		}
	case lexer.HASH:
		p.nextToken()
		if !isColor(tok.Literal) {
			p.reportInvalidLiteral("invalid color literal "+tok.Literal+", expected #rrggbb", tok.Span)
			return nil
		}
		return ast.NewColorLiteral(strings.ToLower(tok.Literal), tok.Span)
	case lexer.TRUE, lexer.FALSE:
		p.nextToken()
		return ast.NewBoolLiteral(tok.Type == lexer.TRUE, tok.Span)
	case lexer.IDENT:
		p.nextToken()
		return ast.NewVariableReference(tok.Literal, tok.Span)
	case lexer.LPAREN:
		p.nextToken()
		inner := p.parseExpression()
		if inner == nil {
			return nil
		}
		if !p.expect(lexer.RPAREN) {
			return nil
		}
		return inner
	default:
		p.reportError("expected expression, found "+describe(tok), tok.Span)
	}

	return nil
}

func (p *Parser) parseInt(tok lexer.Token, unit string) (int, bool) {
	v, err := strconv.Atoi(strings.TrimSuffix(tok.Literal, unit))
	if err != nil {
		p.reportInvalidLiteral("invalid number "+tok.Literal, tok.Span)
		return 0, false
	}
	return v, true
}

// isColor reports whether lit is `#` followed by exactly six hex digits.
func isColor(lit string) bool {
	if len(lit) != 7 || lit[0] != '#' {
		return false
	}
	for _, ch := range lit[1:] {
		if !('0' <= ch && ch <= '9' || 'a' <= ch && ch <= 'f' || 'A' <= ch && ch <= 'F') {
			return false
		}
	}
	return true
}
