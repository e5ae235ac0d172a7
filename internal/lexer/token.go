package lexer

// TokenType represents the type of a token
type TokenType string

// Span represents the source location of a token
type Span struct {
	Filename string // optional source filename for diagnostics
	Line     int    // 1-based line number
	Column   int    // 1-based column number
	Start    int    // index into the input's runes
	End      int    // exclusive end index
}

// Token represents a lexical token
type Token struct {
	Type    TokenType
	Literal string // exact runes from source
	Span    Span   // source location information
}

// Token type constants
const (
	// Special tokens
	ILLEGAL TokenType = "ILLEGAL"
	EOF     TokenType = "EOF"

	// Identifiers and literals
	IDENT      TokenType = "IDENT"      // p, width, background-color, LinkColor
	CLASS      TokenType = "CLASS"      // .menu
	HASH       TokenType = "HASH"       // #menu, #ff0000
	PIXEL      TokenType = "PIXEL"      // 10px
	PERCENTAGE TokenType = "PERCENTAGE" // 50%
	SCALAR     TokenType = "SCALAR"     // 3

	// Operators
	ASSIGN   TokenType = ":="
	PLUS     TokenType = "+"
	MINUS    TokenType = "-"
	ASTERISK TokenType = "*"

	// Delimiters
	COLON     TokenType = ":"
	SEMICOLON TokenType = ";"
	COMMA     TokenType = ","

	LPAREN   TokenType = "("
	RPAREN   TokenType = ")"
	LBRACE   TokenType = "{"
	RBRACE   TokenType = "}"
	LBRACKET TokenType = "["
	RBRACKET TokenType = "]"

	// Keywords
	IF    TokenType = "IF"
	ELSE  TokenType = "ELSE"
	TRUE  TokenType = "TRUE"
	FALSE TokenType = "FALSE"
)

var keywords = map[string]TokenType{
	"if":    IF,
	"else":  ELSE,
	"TRUE":  TRUE,
	"FALSE": FALSE,
	"true":  TRUE,
	"false": FALSE,
}

// LookupIdent checks whether ident is a keyword and returns the matching token type.
func LookupIdent(ident string) TokenType {
	if tok, ok := keywords[ident]; ok {
		return tok
	}
	return IDENT
}
