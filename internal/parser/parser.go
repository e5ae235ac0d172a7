package parser

import (
	"github.com/icss-lang/icss/internal/ast"
	"github.com/icss-lang/icss/internal/diag"
	"github.com/icss-lang/icss/internal/lexer"
)

type Option func(*options)

type options struct {
	filename string
}

// WithFilename configures the parser to attribute all emitted spans to the provided filename.
func WithFilename(name string) Option {
	return func(o *options) {
		o.filename = name
	}
}

// ParseError captures a recoverable parsing error with location context.
type ParseError struct {
	Message  string
	Span     lexer.Span
	Severity diag.Severity
	Code     diag.Code
}

// ToDiagnostic converts a parse error into a shared diagnostic structure.
func (e ParseError) ToDiagnostic() diag.Diagnostic {
	return diag.Diagnostic{
		Stage:    diag.StageParser,
		Severity: e.Severity,
		Code:     e.Code,
		Message:  e.Message,
		Span: diag.Span{
			Filename: e.Span.Filename,
			Line:     e.Span.Line,
			Column:   e.Span.Column,
			Start:    e.Span.Start,
			End:      e.Span.End,
		},
	}
}

// Parser is a recursive descent parser for ICSS.
//   - Lookahead: curTok is the token under examination and peekTok the one
//     after it. Every parse method starts with curTok on the first token of
//     its construct and returns with curTok on the first token after it.
//   - Diagnostics: errors is append-only; parsing never stops at the first
//     problem. Statements that fail to parse are dropped from the tree, so
//     every Operation that reaches the AST has both operands.
type Parser struct {
	lx      *lexer.Lexer
	prevTok lexer.Token
	curTok  lexer.Token
	peekTok lexer.Token

	errors []ParseError

	filename string
}

// New returns a parser initialised with the provided source input.
func New(input string, opts ...Option) *Parser {
	cfg := options{}
	for _, opt := range opts {
		opt(&cfg)
	}

	p := &Parser{
		lx:       lexer.New(input),
		filename: cfg.filename,
	}

	if cfg.filename != "" {
		p.lx.SetFilename(cfg.filename)
	}

	// Seed curTok/peekTok.
	p.nextToken()
	p.nextToken()

	return p
}

// Errors returns all recoverable parse errors that were encountered.
func (p *Parser) Errors() []ParseError {
	return p.errors
}

// Diagnostics returns lexer and parser errors as diagnostics, lexer errors first.
func (p *Parser) Diagnostics() []diag.Diagnostic {
	out := make([]diag.Diagnostic, 0, len(p.lx.Errors)+len(p.errors))
	for _, err := range p.lx.Errors {
		out = append(out, err.ToDiagnostic())
	}
	for _, err := range p.errors {
		out = append(out, err.ToDiagnostic())
	}
	return out
}

// ParseStylesheet parses a full ICSS source and returns its root node.
func (p *Parser) ParseStylesheet() *ast.Stylesheet {
	sheet := ast.NewStylesheet(p.curTok.Span)

	for p.curTok.Type != lexer.EOF {
		prevTok := p.curTok

		var item ast.SheetItem
		switch {
		case p.curTok.Type == lexer.IDENT && p.peekTok.Type == lexer.ASSIGN:
			if a := p.parseAssignment(); a != nil {
				item = a
			}
		case isSelectorStart(p.curTok.Type):
			if r := p.parseStylerule(); r != nil {
				item = r
			}
		default:
			p.reportError("expected selector or variable assignment, found "+describe(p.curTok), p.curTok.Span)
		}

		if item != nil {
			sheet.Body = append(sheet.Body, item)
			continue
		}
		p.recoverTopLevel(prevTok)
	}

	sheet.SetSpan(mergeSpan(sheet.Span(), p.curTok.Span))

	return sheet
}

// Parse parses input and wraps the result in an AST handle.
func Parse(input string, opts ...Option) (*ast.AST, []diag.Diagnostic) {
	p := New(input, opts...)
	tree := ast.NewAST()
	tree.SetRoot(p.ParseStylesheet())
	return tree, p.Diagnostics()
}

// nextToken advances the parser's token window.
func (p *Parser) nextToken() {
	p.prevTok = p.curTok
	p.curTok = p.peekTok
	p.peekTok = p.lx.NextToken()
}

// expect consumes curTok if it has type tt and reports an error otherwise.
func (p *Parser) expect(tt lexer.TokenType) bool {
	if p.curTok.Type == tt {
		p.nextToken()
		return true
	}

	p.reportError("expected '"+string(tt)+"', found "+describe(p.curTok), p.curTok.Span)
	return false
}

func (p *Parser) emitParseDiagnostic(msg string, code diag.Code, span lexer.Span, severity diag.Severity) {
	span = p.spanWithFilename(span)
	p.errors = append(p.errors, ParseError{
		Message:  msg,
		Span:     span,
		Severity: severity,
		Code:     code,
	})
}

func (p *Parser) spanWithFilename(span lexer.Span) lexer.Span {
	if span.Filename == "" && p.filename != "" {
		span.Filename = p.filename
	}
	return span
}

func (p *Parser) reportError(msg string, span lexer.Span) {
	p.emitParseDiagnostic(msg, diag.CodeParseUnexpectedToken, span, diag.SeverityError)
}

func (p *Parser) reportInvalidLiteral(msg string, span lexer.Span) {
	p.emitParseDiagnostic(msg, diag.CodeParseInvalidLiteral, span, diag.SeverityError)
}
