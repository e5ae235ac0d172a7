package ast

import (
	"fmt"
	"io"
	"strings"
)

// Fprint writes an indented dump of the tree rooted at node, one node per
// line, with any error annotation appended after "!!".
func Fprint(w io.Writer, node Node) error {
	var b strings.Builder
	fprint(&b, node, 0)
	_, err := io.WriteString(w, b.String())
	return err
}

func fprint(b *strings.Builder, node Node, depth int) {
	b.WriteString(strings.Repeat("  ", depth))
	b.WriteString(label(node))
	if msg := node.Annotation(); msg != "" {
		b.WriteString("  !! ")
		b.WriteString(msg)
	}
	b.WriteString("\n")

	for _, child := range Children(node) {
		fprint(b, child, depth+1)
	}
}

// label describes a single node without its children.
func label(node Node) string {
	switch n := node.(type) {
	case *Stylesheet:
		return "Stylesheet"
	case *Stylerule:
		return "Stylerule"
	case Selector:
		return fmt.Sprintf("Selector (%s)", n.String())
	case *Declaration:
		return fmt.Sprintf("Declaration (%s)", n.Property)
	case *VariableAssignment:
		return "VariableAssignment"
	case *IfClause:
		return "IfClause"
	case *ElseClause:
		return "ElseClause"
	case *VariableReference:
		return fmt.Sprintf("VariableReference (%s)", n.Name)
	case *BoolLiteral:
		return fmt.Sprintf("BoolLiteral (%s)", n)
	case *ColorLiteral:
		return fmt.Sprintf("ColorLiteral (%s)", n)
	case *PercentageLiteral:
		return fmt.Sprintf("PercentageLiteral (%s)", n)
	case *PixelLiteral:
		return fmt.Sprintf("PixelLiteral (%s)", n)
	case *ScalarLiteral:
		return fmt.Sprintf("ScalarLiteral (%s)", n)
	case *AddOperation:
		return "AddOperation"
	case *SubtractOperation:
		return "SubtractOperation"
	case *MultiplyOperation:
		return "MultiplyOperation"
	default:
		return fmt.Sprintf("%T", n)
	}
}

// ExprString renders e as ICSS source, adding parentheses only where
// precedence requires them.
func ExprString(e Expr) string {
	switch n := e.(type) {
	case Literal:
		return n.String()
	case *VariableReference:
		return n.Name
	case Operation:
		lhs, rhs := n.Operands()
		l, r := ExprString(lhs), ExprString(rhs)
		if precedence(lhs) < precedence(n) {
			l = "(" + l + ")"
		}
		// operators are left-associative
		if precedence(rhs) <= precedence(n) {
			r = "(" + r + ")"
		}
		return l + " " + string(n.Operator()) + " " + r
	default:
		return ""
	}
}

func precedence(e Expr) int {
	switch e.(type) {
	case *MultiplyOperation:
		return 2
	case *AddOperation, *SubtractOperation:
		return 1
	default:
		return 3
	}
}
