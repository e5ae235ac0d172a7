package types

import (
	"github.com/icss-lang/icss/internal/ast"
	"github.com/icss-lang/icss/internal/diag"
	"github.com/icss-lang/icss/internal/scope"
)

// Messages attached to offending nodes.
const (
	MsgUndefinedVariable    = "Variable is not defined"
	MsgMultiplyNeedsScalar  = "Only scalar values can be used in a Multiply operation"
	MsgMultiplyTwoScalars   = "Multiplying using 2 scalar values is not allowed"
	MsgAddSubTwoScalars     = "Adding or Subtracting using 2 scalar values is not allowed"
	MsgAddSubTypeMismatch   = "Values of add or subtract operations must be of the same type"
	MsgColorInOperation     = "Colors cannot be used in operations"
	MsgBoolInOperation      = "Booleans cannot be used in operations"
	MsgValueMustBeColor     = "Value must be a color"
	MsgValueMustBeDimension = "Value must be either a percentage, pixel or scalar"
	MsgConditionNotBool     = "The condition must be a boolean"
)

// Checker performs type checking on the AST. Problems are written onto
// the offending nodes with Annotate and mirrored in Errors; checking never
// stops early.
type Checker struct {
	Errors []diag.Diagnostic

	scopes *scope.Chain[ExpressionType]
}

// NewChecker creates a new type checker.
func NewChecker() *Checker {
	return &Checker{}
}

// Check validates the whole tree. It may be called again on another tree;
// Errors is reset on every call.
func (c *Checker) Check(tree *ast.AST) {
	c.Errors = nil
	c.scopes = scope.NewChain[ExpressionType]()

	c.scopes.Push()
	for _, item := range tree.Root.Body {
		switch n := item.(type) {
		case *ast.VariableAssignment:
			c.checkAssignment(n)
		case *ast.Stylerule:
			c.checkStylerule(n)
		}
	}
	c.scopes.Pop()
}

func (c *Checker) checkStylerule(rule *ast.Stylerule) {
	c.scopes.Push()
	c.checkBody(rule.Body)
	c.scopes.Pop()
}

func (c *Checker) checkBody(body []ast.BodyItem) {
	for _, item := range body {
		switch n := item.(type) {
		case *ast.Declaration:
			c.checkDeclaration(n)
		case *ast.VariableAssignment:
			c.checkAssignment(n)
		case *ast.IfClause:
			c.checkIfClause(n)
		}
	}
}

// checkAssignment binds the variable to its value's type in the innermost scope.
func (c *Checker) checkAssignment(a *ast.VariableAssignment) {
	c.scopes.Bind(a.Name.Name, c.typeOf(a.Value))
}

func (c *Checker) checkIfClause(clause *ast.IfClause) {
	c.scopes.Push()
	if t := c.typeOf(clause.Condition); t != Undefined && t != Bool {
		c.report(clause, diag.CodeTypeInvalidCondition, MsgConditionNotBool, "found "+t.String())
	}
	c.checkBody(clause.Body)
	c.scopes.Pop()

	if clause.Else != nil {
		c.scopes.Push()
		c.checkBody(clause.Else.Body)
		c.scopes.Pop()
	}
}

func (c *Checker) checkDeclaration(decl *ast.Declaration) {
	t := c.typeOf(decl.Value)
	if t == Undefined {
		return
	}

	switch decl.Property {
	case "color", "background-color":
		if t != Color {
			c.report(decl, diag.CodeTypeInvalidDeclaration, MsgValueMustBeColor, "found "+t.String())
		}
	case "width", "height":
		if t != Percentage && t != Pixel {
			c.report(decl, diag.CodeTypeInvalidDeclaration, MsgValueMustBeDimension, "found "+t.String())
		}
	}
}

// typeOf computes the static type of expr. Operations are validated here,
// exactly once per Operation node.
func (c *Checker) typeOf(expr ast.Expr) ExpressionType {
	switch e := expr.(type) {
	case ast.Literal:
		return LiteralType(e)
	case *ast.VariableReference:
		if t, ok := c.scopes.Resolve(e.Name); ok {
			return t
		}
		c.report(e, diag.CodeTypeUndefinedVariable, MsgUndefinedVariable, "")
		return Undefined
	case ast.Operation:
		return c.operationType(e)
	default:
		return Undefined
	}
}

func (c *Checker) operationType(op ast.Operation) ExpressionType {
	lhs, rhs := op.Operands()
	lt, rt := c.typeOf(lhs), c.typeOf(rhs)
	if lt == Undefined || rt == Undefined {
		return Undefined
	}

	if msg := operationError(op, lt, rt); msg != "" {
		c.report(op, diag.CodeTypeInvalidOperation, msg, lt.String()+" "+string(op.Operator())+" "+rt.String())
	}

	return OperationResult(op, lt, rt)
}

// operationError returns the message for an ill-typed operation, or "".
func operationError(op ast.Operation, lt, rt ExpressionType) string {
	switch {
	case lt == Color || rt == Color:
		return MsgColorInOperation
	case lt == Bool || rt == Bool:
		return MsgBoolInOperation
	}

	switch op.(type) {
	case *ast.MultiplyOperation:
		if lt != Scalar && rt != Scalar {
			return MsgMultiplyNeedsScalar
		}
		if lt == Scalar && rt == Scalar {
			return MsgMultiplyTwoScalars
		}
	case *ast.AddOperation, *ast.SubtractOperation:
		if lt == Scalar && rt == Scalar {
			return MsgAddSubTwoScalars
		}
		if lt != rt {
			return MsgAddSubTypeMismatch
		}
	}
	return ""
}

// OperationResult returns the type an operation produces from operand types
// lt and rt: for Multiply the non-scalar operand's type, otherwise the left
// operand's type.
func OperationResult(op ast.Operation, lt, rt ExpressionType) ExpressionType {
	if _, ok := op.(*ast.MultiplyOperation); ok && lt == Scalar {
		return rt
	}
	return lt
}

func (c *Checker) report(node ast.Node, code diag.Code, msg, label string) {
	node.Annotate(msg)

	span := node.Span()
	d := diag.Diagnostic{
		Stage:    diag.StageTypeCheck,
		Severity: diag.SeverityError,
		Code:     code,
		Message:  msg,
		Label:    label,
		Span: diag.Span{
			Filename: span.Filename,
			Line:     span.Line,
			Column:   span.Column,
			Start:    span.Start,
			End:      span.End,
		},
	}
	if code == diag.CodeTypeUndefinedVariable {
		d = d.WithHelp("assign it first, e.g. `" + node.(*ast.VariableReference).Name + " := 10px;`")
	}
	c.Errors = append(c.Errors, d)
}
