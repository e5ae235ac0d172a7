package ast

import (
	"strconv"

	"github.com/icss-lang/icss/internal/lexer"
)

// BoolLiteral is TRUE or FALSE.
type BoolLiteral struct {
	base
	Value bool
}

// NewBoolLiteral constructs a boolean literal node.
func NewBoolLiteral(value bool, span lexer.Span) *BoolLiteral {
	return &BoolLiteral{base: base{span: span}, Value: value}
}

func (l *BoolLiteral) String() string { return strconv.FormatBool(l.Value) }
func (*BoolLiteral) exprNode()        {}
func (*BoolLiteral) literalNode()     {}

// ColorLiteral holds a `#rrggbb` color string.
type ColorLiteral struct {
	base
	Value string
}

// NewColorLiteral constructs a color literal node.
func NewColorLiteral(value string, span lexer.Span) *ColorLiteral {
	return &ColorLiteral{base: base{span: span}, Value: value}
}

func (l *ColorLiteral) String() string { return l.Value }
func (*ColorLiteral) exprNode()        {}
func (*ColorLiteral) literalNode()     {}

// PercentageLiteral holds an integer percentage, e.g. 50%.
type PercentageLiteral struct {
	base
	Value int
}

// NewPercentageLiteral constructs a percentage literal node.
func NewPercentageLiteral(value int, span lexer.Span) *PercentageLiteral {
	return &PercentageLiteral{base: base{span: span}, Value: value}
}

func (l *PercentageLiteral) String() string { return strconv.Itoa(l.Value) + "%" }
func (*PercentageLiteral) exprNode()        {}
func (*PercentageLiteral) literalNode()     {}

// PixelLiteral holds an integer pixel size, e.g. 10px.
type PixelLiteral struct {
	base
	Value int
}

// NewPixelLiteral constructs a pixel literal node.
func NewPixelLiteral(value int, span lexer.Span) *PixelLiteral {
	return &PixelLiteral{base: base{span: span}, Value: value}
}

func (l *PixelLiteral) String() string { return strconv.Itoa(l.Value) + "px" }
func (*PixelLiteral) exprNode()        {}
func (*PixelLiteral) literalNode()     {}

// ScalarLiteral holds a unitless integer.
type ScalarLiteral struct {
	base
	Value int
}

// NewScalarLiteral constructs a scalar literal node.
func NewScalarLiteral(value int, span lexer.Span) *ScalarLiteral {
	return &ScalarLiteral{base: base{span: span}, Value: value}
}

func (l *ScalarLiteral) String() string { return strconv.Itoa(l.Value) }
func (*ScalarLiteral) exprNode()        {}
func (*ScalarLiteral) literalNode()     {}

// binary holds the two operands every Operation owns.
type binary struct {
	base
	LHS Expr
	RHS Expr
}

func (b *binary) Operands() (lhs, rhs Expr) { return b.LHS, b.RHS }

func (b *binary) SetOperands(lhs, rhs Expr) {
	b.LHS = lhs
	b.RHS = rhs
}

func (*binary) exprNode() {}

// AddOperation is `lhs + rhs`.
type AddOperation struct{ binary }

// NewAddOperation constructs an addition node.
func NewAddOperation(lhs, rhs Expr, span lexer.Span) *AddOperation {
	return &AddOperation{binary{base: base{span: span}, LHS: lhs, RHS: rhs}}
}

func (*AddOperation) Operator() lexer.TokenType { return lexer.PLUS }

// SubtractOperation is `lhs - rhs`.
type SubtractOperation struct{ binary }

// NewSubtractOperation constructs a subtraction node.
func NewSubtractOperation(lhs, rhs Expr, span lexer.Span) *SubtractOperation {
	return &SubtractOperation{binary{base: base{span: span}, LHS: lhs, RHS: rhs}}
}

func (*SubtractOperation) Operator() lexer.TokenType { return lexer.MINUS }

// MultiplyOperation is `lhs * rhs`.
type MultiplyOperation struct{ binary }

// NewMultiplyOperation constructs a multiplication node.
func NewMultiplyOperation(lhs, rhs Expr, span lexer.Span) *MultiplyOperation {
	return &MultiplyOperation{binary{base: base{span: span}, LHS: lhs, RHS: rhs}}
}

func (*MultiplyOperation) Operator() lexer.TokenType { return lexer.ASTERISK }

// CopyLiteral returns a fresh node holding the same value as lit, positioned at span.
func CopyLiteral(lit Literal, span lexer.Span) Literal {
	switch l := lit.(type) {
	case *BoolLiteral:
		return NewBoolLiteral(l.Value, span)
	case *ColorLiteral:
		return NewColorLiteral(l.Value, span)
	case *PercentageLiteral:
		return NewPercentageLiteral(l.Value, span)
	case *PixelLiteral:
		return NewPixelLiteral(l.Value, span)
	case *ScalarLiteral:
		return NewScalarLiteral(l.Value, span)
	default:
		panic("ast: unknown literal type")
	}
}
