package ast

import "github.com/icss-lang/icss/internal/lexer"

// Node represents any AST node with an associated source span and an
// optional error annotation written by the semantic passes.
type Node interface {
	Span() lexer.Span
	// Annotation returns the error message attached to the node, or "".
	Annotation() string
	// Annotate attaches msg to the node; the last writer wins.
	Annotate(msg string)
}

// SheetItem is a node allowed directly in a stylesheet body.
type SheetItem interface {
	Node
	sheetItem()
}

// BodyItem is a node allowed in a style rule, if or else body.
type BodyItem interface {
	Node
	bodyItem()
}

// Selector is a style rule selector.
type Selector interface {
	Node
	String() string
	selectorNode()
}

// Expr represents an expression node.
type Expr interface {
	Node
	exprNode()
}

// Literal is an expression holding a single typed value.
type Literal interface {
	Expr
	// String renders the value the way it appears in CSS output.
	String() string
	literalNode()
}

// Operation is a binary arithmetic expression.
type Operation interface {
	Expr
	Operator() lexer.TokenType
	Operands() (lhs, rhs Expr)
	SetOperands(lhs, rhs Expr)
}

// base carries the span and annotation shared by every node.
type base struct {
	span       lexer.Span
	annotation string
}

// Span returns the node span.
func (b *base) Span() lexer.Span { return b.span }

// SetSpan updates the node span.
func (b *base) SetSpan(span lexer.Span) { b.span = span }

func (b *base) Annotation() string { return b.annotation }

func (b *base) Annotate(msg string) { b.annotation = msg }

// AST is the handle owning the root stylesheet.
type AST struct {
	Root *Stylesheet
}

// NewAST constructs an AST with an empty stylesheet root.
func NewAST() *AST {
	return &AST{Root: NewStylesheet(lexer.Span{})}
}

// SetRoot replaces the root stylesheet.
func (a *AST) SetRoot(root *Stylesheet) {
	a.Root = root
}

// Stylesheet is the root node.
type Stylesheet struct {
	base
	Body []SheetItem
}

// NewStylesheet constructs an empty stylesheet node.
func NewStylesheet(span lexer.Span) *Stylesheet {
	return &Stylesheet{base: base{span: span}}
}

// Stylerule represents `selector, ... { body }`.
type Stylerule struct {
	base
	Selectors []Selector
	Body      []BodyItem
}

// NewStylerule constructs a style rule node.
func NewStylerule(selectors []Selector, body []BodyItem, span lexer.Span) *Stylerule {
	return &Stylerule{
		base:      base{span: span},
		Selectors: selectors,
		Body:      body,
	}
}

func (*Stylerule) sheetItem() {}

// TagSelector matches elements by tag name, e.g. `p`.
type TagSelector struct {
	base
	Name string
}

// NewTagSelector constructs a tag selector node.
func NewTagSelector(name string, span lexer.Span) *TagSelector {
	return &TagSelector{base: base{span: span}, Name: name}
}

func (s *TagSelector) String() string { return s.Name }
func (*TagSelector) selectorNode()    {}

// ClassSelector matches elements by class, e.g. `.menu`. Name excludes the dot.
type ClassSelector struct {
	base
	Name string
}

// NewClassSelector constructs a class selector node.
func NewClassSelector(name string, span lexer.Span) *ClassSelector {
	return &ClassSelector{base: base{span: span}, Name: name}
}

func (s *ClassSelector) String() string { return "." + s.Name }
func (*ClassSelector) selectorNode()    {}

// IdSelector matches an element by id, e.g. `#nav`. Name excludes the hash.
type IdSelector struct {
	base
	Name string
}

// NewIdSelector constructs an id selector node.
func NewIdSelector(name string, span lexer.Span) *IdSelector {
	return &IdSelector{base: base{span: span}, Name: name}
}

func (s *IdSelector) String() string { return "#" + s.Name }
func (*IdSelector) selectorNode()    {}

// Declaration represents `property: value;`.
type Declaration struct {
	base
	Property string
	Value    Expr
}

// NewDeclaration constructs a declaration node.
func NewDeclaration(property string, value Expr, span lexer.Span) *Declaration {
	return &Declaration{
		base:     base{span: span},
		Property: property,
		Value:    value,
	}
}

func (*Declaration) bodyItem() {}

// VariableAssignment represents `Name := value;`.
type VariableAssignment struct {
	base
	Name  *VariableReference
	Value Expr
}

// NewVariableAssignment constructs a variable assignment node.
func NewVariableAssignment(name *VariableReference, value Expr, span lexer.Span) *VariableAssignment {
	return &VariableAssignment{
		base:  base{span: span},
		Name:  name,
		Value: value,
	}
}

func (*VariableAssignment) sheetItem() {}
func (*VariableAssignment) bodyItem()  {}

// IfClause represents `if [condition] { body } else { ... }`.
type IfClause struct {
	base
	Condition Expr
	Body      []BodyItem
	Else      *ElseClause
}

// NewIfClause constructs an if clause node. elseClause may be nil.
func NewIfClause(condition Expr, body []BodyItem, elseClause *ElseClause, span lexer.Span) *IfClause {
	return &IfClause{
		base:      base{span: span},
		Condition: condition,
		Body:      body,
		Else:      elseClause,
	}
}

func (*IfClause) bodyItem() {}

// ElseClause is the alternative body paired with an IfClause.
type ElseClause struct {
	base
	Body []BodyItem
}

// NewElseClause constructs an else clause node.
func NewElseClause(body []BodyItem, span lexer.Span) *ElseClause {
	return &ElseClause{base: base{span: span}, Body: body}
}

// VariableReference names a variable, either as a binding target or as a read.
type VariableReference struct {
	base
	Name string
}

// NewVariableReference constructs a variable reference node.
func NewVariableReference(name string, span lexer.Span) *VariableReference {
	return &VariableReference{base: base{span: span}, Name: name}
}

func (*VariableReference) exprNode() {}
