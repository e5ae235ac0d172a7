package diag

import "fmt"

// Stage identifies which compiler phase produced the diagnostic.
type Stage string

const (
	StageLexer     Stage = "lexer"
	StageParser    Stage = "parser"
	StageTypeCheck Stage = "typecheck"
)

// Severity captures how impactful the diagnostic is.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityNote    Severity = "note"
)

// Code is a stable identifier for a diagnostic.
type Code string

const (
	// Lexer errors
	CodeLexerUnterminatedBlockComment Code = "LEXER_UNTERMINATED_BLOCK_COMMENT"
	CodeLexerIllegalRune              Code = "LEXER_ILLEGAL_RUNE"
	CodeLexerEmptyName                Code = "LEXER_EMPTY_NAME"

	// Parser errors
	CodeParseUnexpectedToken Code = "PARSE_UNEXPECTED_TOKEN"
	CodeParseInvalidLiteral  Code = "PARSE_INVALID_LITERAL"

	// Type checker errors
	CodeTypeUndefinedVariable  Code = "TYPE_UNDEFINED_VARIABLE"
	CodeTypeInvalidOperation   Code = "TYPE_INVALID_OPERATION"
	CodeTypeInvalidDeclaration Code = "TYPE_INVALID_DECLARATION"
	CodeTypeInvalidCondition   Code = "TYPE_INVALID_CONDITION"
)

// Span represents a location in source code.
type Span struct {
	Filename string
	Line     int
	Column   int
	Start    int
	End      int
}

// String returns a human-readable representation of the span.
func (s Span) String() string {
	if s.Filename != "" {
		return fmt.Sprintf("%s:%d:%d", s.Filename, s.Line, s.Column)
	}
	return fmt.Sprintf("%d:%d", s.Line, s.Column)
}

// IsValid returns true if the span has valid location information.
func (s Span) IsValid() bool {
	return s.Line > 0 && s.Column > 0
}

// Diagnostic is a compiler diagnostic surfaced to end-users.
type Diagnostic struct {
	Stage    Stage
	Severity Severity
	Code     Code
	Message  string
	Span     Span
	Label    string   // Optional label printed next to the underline
	Notes    []string // Additional notes to display
	Help     string   // Optional hint for fixing the problem
}

// String renders the diagnostic on a single line.
func (d Diagnostic) String() string {
	severity := d.Severity
	if severity == "" {
		severity = SeverityError
	}
	if d.Span.IsValid() {
		return fmt.Sprintf("%s: %s: %s", d.Span, severity, d.Message)
	}
	return fmt.Sprintf("%s: %s", severity, d.Message)
}

// WithLabel returns a new diagnostic with the given underline label.
func (d Diagnostic) WithLabel(label string) Diagnostic {
	d.Label = label
	return d
}

// WithNote adds a note to the diagnostic.
func (d Diagnostic) WithNote(note string) Diagnostic {
	d.Notes = append(d.Notes, note)
	return d
}

// WithHelp adds help text to the diagnostic.
func (d Diagnostic) WithHelp(help string) Diagnostic {
	d.Help = help
	return d
}

// HasErrors reports whether any diagnostic in ds has error severity.
func HasErrors(ds []Diagnostic) bool {
	for _, d := range ds {
		if d.Severity == SeverityError || d.Severity == "" {
			return true
		}
	}
	return false
}
