package lexer

import (
	"github.com/icss-lang/icss/internal/diag"
)

type LexerErrorKind int

const (
	ErrUnterminatedBlockComment LexerErrorKind = iota
	ErrIllegalRune
	ErrEmptyName
)

type LexerError struct {
	Kind    LexerErrorKind
	Message string
	Span    Span
}

func (k LexerErrorKind) diagnosticCode() diag.Code {
	switch k {
	case ErrUnterminatedBlockComment:
		return diag.CodeLexerUnterminatedBlockComment
	case ErrIllegalRune:
		return diag.CodeLexerIllegalRune
	case ErrEmptyName:
		return diag.CodeLexerEmptyName
	default:
		return diag.Code("LEXER_UNKNOWN_ERROR")
	}
}

// ToDiagnostic converts a lexer error into a shared diagnostic structure.
func (e LexerError) ToDiagnostic() diag.Diagnostic {
	return diag.Diagnostic{
		Stage:    diag.StageLexer,
		Severity: diag.SeverityError,
		Code:     e.Kind.diagnosticCode(),
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

// Lexer represents the lexer state
type Lexer struct {
	input    []rune
	pos      int  // index of the current rune
	ch       rune // current rune (0 = EOF)
	line     int  // current line number (1-based)
	column   int  // current column number (1-based)
	filename string

	Errors []LexerError
}

// New creates a new lexer for the given input
func New(input string) *Lexer {
	l := &Lexer{
		input:  []rune(input),
		pos:    -1, // start before first rune
		line:   1,
		column: 0, // will be 1 after first read()
	}
	l.read()
	return l
}

// SetFilename attributes every span produced from now on to name.
func (l *Lexer) SetFilename(name string) {
	l.filename = name
}

func (l *Lexer) addError(kind LexerErrorKind, msg string, span Span) {
	l.Errors = append(l.Errors, LexerError{
		Kind:    kind,
		Message: msg,
		Span:    span,
	})
}

// read advances the lexer to the next character.
// line/column always reflect the position of the character at pos.
func (l *Lexer) read() {
	l.pos++
	prevPos := l.pos - 1
	inputLen := len(l.input)

	if l.pos >= inputLen {
		// Past the last rune; normalize position to virtual EOF
		l.pos = inputLen
		if prevPos >= 0 && prevPos < inputLen {
			if l.input[prevPos] == '\n' {
				l.line++
				l.column = 1
			} else {
				l.column++
			}
		} else if prevPos < 0 {
			l.column = 1
		}
		l.ch = 0
		return
	}

	l.ch = l.input[l.pos]

	if prevPos >= 0 && l.input[prevPos] == '\n' {
		l.line++
		l.column = 1
	} else {
		l.column++
	}
}

// peek returns the next character without advancing
func (l *Lexer) peek() rune {
	if l.pos+1 >= len(l.input) {
		return 0
	}
	return l.input[l.pos+1]
}

func (l *Lexer) span(line, column, start int) Span {
	return Span{
		Filename: l.filename,
		Line:     line,
		Column:   column,
		Start:    start,
		End:      l.pos,
	}
}

func (l *Lexer) makeToken(tokType TokenType, line, column, start int) Token {
	return Token{
		Type:    tokType,
		Literal: string(l.input[start:l.pos]),
		Span:    l.span(line, column, start),
	}
}

func (l *Lexer) skipWhitespace() {
	for l.ch == ' ' || l.ch == '\t' || l.ch == '\n' || l.ch == '\r' {
		l.read()
	}
}

// skipBlockComment consumes a /* */ comment; the opening delimiter has already been read.
func (l *Lexer) skipBlockComment(line, column, start int) {
	for {
		if l.ch == 0 {
			l.addError(ErrUnterminatedBlockComment, "unterminated block comment", l.span(line, column, start))
			return
		}
		if l.ch == '*' && l.peek() == '/' {
			l.read()
			l.read()
			return
		}
		l.read()
	}
}

func (l *Lexer) readName() {
	for isNameRune(l.ch) {
		l.read()
	}
}

// readNumber reads a decimal integer and its optional unit suffix.
func (l *Lexer) readNumber() TokenType {
	for isDigit(l.ch) {
		l.read()
	}
	switch {
	case l.ch == 'p' && l.peek() == 'x':
		l.read()
		l.read()
		return PIXEL
	case l.ch == '%':
		l.read()
		return PERCENTAGE
	default:
		return SCALAR
	}
}

// NextToken returns the next token from the input
func (l *Lexer) NextToken() Token {
	for {
		l.skipWhitespace()

		line, column, start := l.line, l.column, l.pos

		switch l.ch {
		case 0:
			return l.makeToken(EOF, line, column, start)

		case '/':
			if l.peek() == '*' {
				l.read()
				l.read()
				l.skipBlockComment(line, column, start)
				continue
			}
			l.read()
			l.addError(ErrIllegalRune, "illegal character '/'", l.span(line, column, start))
			return l.makeToken(ILLEGAL, line, column, start)

		case ':':
			l.read()
			if l.ch == '=' {
				l.read()
				return l.makeToken(ASSIGN, line, column, start)
			}
			return l.makeToken(COLON, line, column, start)

		case ';', ',', '+', '-', '*', '(', ')', '{', '}', '[', ']':
			tt := singleRuneTokens[l.ch]
			l.read()
			return l.makeToken(tt, line, column, start)

		case '.', '#':
			tt := CLASS
			if l.ch == '#' {
				tt = HASH
			}
			l.read()
			if !isNameRune(l.ch) {
				l.addError(ErrEmptyName, "expected name after '"+string(l.input[start])+"'", l.span(line, column, start))
				return l.makeToken(ILLEGAL, line, column, start)
			}
			l.readName()
			return l.makeToken(tt, line, column, start)

		default:
			if isLetter(l.ch) {
				l.readName()
				tok := l.makeToken(IDENT, line, column, start)
				tok.Type = LookupIdent(tok.Literal)
				return tok
			}
			if isDigit(l.ch) {
				tt := l.readNumber()
				return l.makeToken(tt, line, column, start)
			}

			ch := l.ch
			l.read()
			l.addError(ErrIllegalRune, "illegal character '"+string(ch)+"'", l.span(line, column, start))
			return l.makeToken(ILLEGAL, line, column, start)
		}
	}
}

var singleRuneTokens = map[rune]TokenType{
	';': SEMICOLON,
	',': COMMA,
	'+': PLUS,
	'-': MINUS,
	'*': ASTERISK,
	'(': LPAREN,
	')': RPAREN,
	'{': LBRACE,
	'}': RBRACE,
	'[': LBRACKET,
	']': RBRACKET,
}

func isLetter(ch rune) bool {
	return 'a' <= ch && ch <= 'z' || 'A' <= ch && ch <= 'Z'
}

func isDigit(ch rune) bool {
	return '0' <= ch && ch <= '9'
}

func isNameRune(ch rune) bool {
	return isLetter(ch) || isDigit(ch) || ch == '-' || ch == '_'
}
