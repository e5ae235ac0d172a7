package types

import "github.com/icss-lang/icss/internal/ast"

// ExpressionType is the static type of an ICSS expression.
type ExpressionType int

const (
	// Undefined marks an expression whose type could not be computed,
	// e.g. because it references an unbound variable.
	Undefined ExpressionType = iota
	Bool
	Color
	Percentage
	Pixel
	Scalar
)

func (t ExpressionType) String() string {
	switch t {
	case Bool:
		return "bool"
	case Color:
		return "color"
	case Percentage:
		return "percentage"
	case Pixel:
		return "pixel"
	case Scalar:
		return "scalar"
	default:
		return "undefined"
	}
}

// LiteralType returns the type of a literal node.
func LiteralType(lit ast.Literal) ExpressionType {
	switch lit.(type) {
	case *ast.BoolLiteral:
		return Bool
	case *ast.ColorLiteral:
		return Color
	case *ast.PercentageLiteral:
		return Percentage
	case *ast.PixelLiteral:
		return Pixel
	case *ast.ScalarLiteral:
		return Scalar
	default:
		return Undefined
	}
}

// IsNumeric reports whether values of type t may take part in arithmetic.
func (t ExpressionType) IsNumeric() bool {
	return t == Percentage || t == Pixel || t == Scalar
}
